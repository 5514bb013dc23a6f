package models

import "time"

// AttendanceStatus is the closed set of per-class attendance outcomes.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid reports whether the status is a known enum member.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent:
		return true
	}
	return false
}

// CountsAsAttended reports whether the status counts toward the presence
// percentage. Late arrivals still count as attended.
func (s AttendanceStatus) CountsAsAttended() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// AttendanceRecord is one student's status for one course on one calendar day.
// The row set for a (course, date) pair is fully replaced on every save.
type AttendanceRecord struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CourseID  uint             `gorm:"not null;index:idx_attendance_course_date" json:"course_id"`
	StudentID uint             `gorm:"not null;index" json:"student_id"`
	Date      time.Time        `gorm:"not null;index:idx_attendance_course_date" json:"date"`
	Status    AttendanceStatus `gorm:"size:16;not null" json:"status"`
	Course    Course           `json:"course"`
}
