package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ems-platform/ems-api/internal/models"
)

// StudentRepository defines data operations for students and their profiles.
type StudentRepository interface {
	GetStudent(ctx context.Context, id uint) (models.Student, error)
	ListProfilesByCohort(ctx context.Context, departmentID, semesterID uint) ([]models.StudentProfile, error)
	// PromoteSemester moves exactly the profiles of the given students to the
	// next semester inside one transaction; all rows move or none do.
	PromoteSemester(ctx context.Context, studentIDs []uint, nextSemesterID uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetStudent(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListProfilesByCohort(ctx context.Context, departmentID, semesterID uint) ([]models.StudentProfile, error) {
	var profiles []models.StudentProfile
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("department_id = ? AND semester_id = ?", departmentID, semesterID).
		Order("roll_no").
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *studentRepository) PromoteSemester(ctx context.Context, studentIDs []uint, nextSemesterID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.StudentProfile{}).
			Where("student_id IN ?", studentIDs).
			Update("semester_id", nextSemesterID).Error
	})
}
