package models

import "time"

// Student is the account identity behind a student profile. Account lifecycle
// is owned by the user-management surface; this service reads names and emails
// for reports.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentProfile pins a student to a department and semester. The
// (DepartmentID, SemesterID) pair defines cohort membership; SemesterID only
// moves forward through a confirmed promotion.
type StudentProfile struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StudentID    uint       `gorm:"not null;uniqueIndex" json:"student_id"`
	DepartmentID uint       `gorm:"not null;index:idx_profile_cohort" json:"department_id"`
	SemesterID   uint       `gorm:"not null;index:idx_profile_cohort" json:"semester_id"`
	RollNo       string     `gorm:"size:32" json:"roll_no"`
	Student      Student    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Department   Department `json:"department"`
	Semester     Semester   `json:"semester"`
}
