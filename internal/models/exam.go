package models

import "time"

// Exam is scheduled against one course offering.
type Exam struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CourseID   uint      `gorm:"not null;index" json:"course_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	TotalMarks float64   `gorm:"not null" json:"total_marks"`
	ExamDate   time.Time `gorm:"not null" json:"exam_date"`
	Course     Course    `json:"course"`
}

// ExamResult holds one student's marks for one exam. MarksObtained never
// exceeds Exam.TotalMarks; writes clamp rather than reject.
type ExamResult struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	ExamID        uint    `gorm:"not null;index" json:"exam_id"`
	StudentID     uint    `gorm:"not null;index" json:"student_id"`
	MarksObtained float64 `gorm:"not null" json:"marks_obtained"`
	Exam          Exam    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"exam"`
}
