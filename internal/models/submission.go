package models

import "time"

// Submission is one uploaded answer for an assignment. A student may submit
// more than once; every upload creates a fresh row.
//
// Teacher marks and AI advisory fields coexist on the same row. Teacher marks
// are authoritative; the AI fields are advisory only and are never read by
// transcripts or promotion.
type Submission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;index" json:"assignment_id"`
	StudentID    uint      `gorm:"not null;index" json:"student_id"`
	FileURL      string    `gorm:"size:512;not null" json:"file_url"`
	SubmittedAt  time.Time `gorm:"not null" json:"submitted_at"`

	TeacherMarks    *float64 `json:"teacher_marks"`
	TeacherFeedback string   `gorm:"type:text" json:"teacher_feedback"`

	AIMarks       *float64 `json:"ai_marks"`
	AIFeedback    string   `gorm:"type:text" json:"ai_feedback"`
	AIProbability *float64 `json:"ai_probability"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Assignment Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student    Student    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// IsGradedByTeacher reports whether an authoritative grade has been recorded.
func (s Submission) IsGradedByTeacher() bool {
	return s.TeacherMarks != nil
}
