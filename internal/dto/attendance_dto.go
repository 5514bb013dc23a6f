package dto

import (
	"time"

	"github.com/ems-platform/ems-api/internal/models"
)

// AttendanceRow is one student's status in a roster save.
type AttendanceRow struct {
	StudentID uint                    `json:"student_id" validate:"required,gt=0"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=present late absent"`
}

// SaveAttendanceRequest replaces the roster for one course on one day.
type SaveAttendanceRequest struct {
	Date time.Time       `json:"date" validate:"required"`
	Rows []AttendanceRow `json:"rows" validate:"required,dive"`
}

// AttendanceReportRow summarizes one course's attendance for a student or a
// whole course roster.
type AttendanceReportRow struct {
	CourseCode   string  `json:"course_code"`
	CourseTitle  string  `json:"course_title"`
	TotalClasses int     `json:"total_classes"`
	Present      int     `json:"present"`
	Late         int     `json:"late"`
	Absent       int     `json:"absent"`
	Percentage   float64 `json:"percentage"`
}
