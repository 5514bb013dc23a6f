package models

import "time"

// Assignment is a piece of coursework published by the owning teacher of a
// course. TotalMarks is the ceiling for any marks given against it.
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	TeacherID   uint      `gorm:"not null" json:"teacher_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	TotalMarks  float64   `gorm:"not null" json:"total_marks"`
	CreatedAt   time.Time `json:"created_at"`
	Course      Course    `json:"course"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.Deadline)
}
