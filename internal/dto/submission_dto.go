package dto

import (
	"time"

	"github.com/ems-platform/ems-api/internal/models"
)

// SubmissionCreateRequest describes the multipart payload for submission upload.
type SubmissionCreateRequest struct {
	AssignmentID uint `form:"assignment_id" validate:"required,gt=0"`
	StudentID    uint `form:"student_id" validate:"required,gt=0"`
}

// GradeSubmissionRequest carries a teacher's authoritative marks and feedback.
type GradeSubmissionRequest struct {
	Marks    float64 `json:"marks" validate:"gte=0"`
	Feedback string  `json:"feedback"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	AssignmentID *uint `query:"assignment_id"`
	StudentID    *uint `query:"student_id"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID              uint           `json:"id"`
	AssignmentID    uint           `json:"assignment_id"`
	StudentID       uint           `json:"student_id"`
	FileURL         string         `json:"file_url"`
	SubmittedAt     time.Time      `json:"submitted_at"`
	TeacherMarks    *float64       `json:"teacher_marks"`
	TeacherFeedback string         `json:"teacher_feedback"`
	AIMarks         *float64       `json:"ai_marks"`
	AIFeedback      string         `json:"ai_feedback"`
	AIProbability   *float64       `json:"ai_probability"`
	IsGraded        bool           `json:"is_graded"`
	IsLate          bool           `json:"is_late"`
	Assignment      AssignmentLite `json:"assignment"`
	Student         StudentLite    `json:"student"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Deadline   time.Time `json:"deadline"`
	TotalMarks float64   `json:"total_marks"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:              model.ID,
		AssignmentID:    model.AssignmentID,
		StudentID:       model.StudentID,
		FileURL:         model.FileURL,
		SubmittedAt:     model.SubmittedAt,
		TeacherMarks:    model.TeacherMarks,
		TeacherFeedback: model.TeacherFeedback,
		AIMarks:         model.AIMarks,
		AIFeedback:      model.AIFeedback,
		AIProbability:   model.AIProbability,
		IsGraded:        model.IsGradedByTeacher(),
	}

	if model.Assignment.ID != 0 {
		response.IsLate = model.Assignment.IsPastDue(model.SubmittedAt)
		response.Assignment = AssignmentLite{
			ID:         model.Assignment.ID,
			Title:      model.Assignment.Title,
			Deadline:   model.Assignment.Deadline,
			TotalMarks: model.Assignment.TotalMarks,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
