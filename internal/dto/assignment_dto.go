package dto

import (
	"time"

	"github.com/ems-platform/ems-api/internal/models"
)

// AssignmentCreateRequest describes the payload for publishing an assignment.
type AssignmentCreateRequest struct {
	CourseID    uint      `json:"course_id" validate:"required,gt=0"`
	TeacherID   uint      `json:"teacher_id" validate:"required,gt=0"`
	Title       string    `json:"title" validate:"required,min=3,max=255"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	TotalMarks  float64   `json:"total_marks" validate:"required,gt=0"`
}

// AssignmentResponse is returned when viewing assignments.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	CourseID    uint      `json:"course_id"`
	TeacherID   uint      `json:"teacher_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	TotalMarks  float64   `json:"total_marks"`
	CreatedAt   time.Time `json:"created_at"`
	CourseCode  string    `json:"course_code,omitempty"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		TeacherID:   model.TeacherID,
		Title:       model.Title,
		Description: model.Description,
		Deadline:    model.Deadline,
		TotalMarks:  model.TotalMarks,
		CreatedAt:   model.CreatedAt,
	}

	if model.Course.ID != 0 {
		response.CourseCode = model.Course.CourseCode
	}

	return response
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(models []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(models))
	for _, assignment := range models {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
