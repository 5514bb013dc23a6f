package dto

import "time"

// ExamCreateRequest describes the payload for scheduling an exam.
type ExamCreateRequest struct {
	CourseID   uint      `json:"course_id" validate:"required,gt=0"`
	Title      string    `json:"title" validate:"required,min=3,max=255"`
	TotalMarks float64   `json:"total_marks" validate:"required,gt=0"`
	ExamDate   time.Time `json:"exam_date" validate:"required"`
}

// ExamResponse is returned when viewing exams.
type ExamResponse struct {
	ID         uint      `json:"id"`
	CourseID   uint      `json:"course_id"`
	Title      string    `json:"title"`
	TotalMarks float64   `json:"total_marks"`
	ExamDate   time.Time `json:"exam_date"`
}

// ExamMarkRow is one student's marks entry in a results save.
type ExamMarkRow struct {
	StudentID     uint    `json:"student_id" validate:"required,gt=0"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
}

// SaveResultsRequest replaces the full result set of one exam.
type SaveResultsRequest struct {
	Rows []ExamMarkRow `json:"rows" validate:"required,dive"`
}

// TranscriptRow is one exam line in a student transcript.
type TranscriptRow struct {
	SemesterName  string    `json:"semester_name"`
	CourseCode    string    `json:"course_code"`
	CourseTitle   string    `json:"course_title"`
	ExamTitle     string    `json:"exam_title"`
	ExamDate      time.Time `json:"exam_date"`
	TotalMarks    float64   `json:"total_marks"`
	MarksObtained float64   `json:"marks_obtained"`
	Grade         string    `json:"grade"`
}
