package models

// Department groups courses and student cohorts. Managed by the admin CRUD
// surface; this service only reads it.
type Department struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
	Code string `gorm:"size:16" json:"code"`
}

// Semester identifies an academic term, e.g. "Semester 5".
type Semester struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;not null" json:"name"`
}

// Course is a course offering within a department and semester, optionally
// owned by one teacher.
type Course struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CourseCode   string     `gorm:"size:32;not null" json:"course_code"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	DepartmentID uint       `gorm:"not null;index" json:"department_id"`
	SemesterID   uint       `gorm:"not null;index" json:"semester_id"`
	TeacherID    *uint      `json:"teacher_id"`
	Department   Department `json:"department"`
	Semester     Semester   `json:"semester"`
}
