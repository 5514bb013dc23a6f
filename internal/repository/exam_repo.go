package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ems-platform/ems-api/internal/models"
)

// ExamRepository defines data operations for exams and their results.
type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	ListByCohort(ctx context.Context, departmentID, semesterID uint) ([]models.Exam, error)
	// ReplaceResults deletes every result row of the exam and inserts the
	// given rows inside one transaction.
	ReplaceResults(ctx context.Context, examID uint, results []models.ExamResult) error
	ListResultsByExams(ctx context.Context, examIDs []uint) ([]models.ExamResult, error)
	ListResultsByStudent(ctx context.Context, studentID uint) ([]models.ExamResult, error)
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository instantiates the repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).Preload("Course").First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) ListByCohort(ctx context.Context, departmentID, semesterID uint) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.db.WithContext(ctx).
		Joins("JOIN courses ON courses.id = exams.course_id").
		Where("courses.department_id = ? AND courses.semester_id = ?", departmentID, semesterID).
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) ReplaceResults(ctx context.Context, examID uint, results []models.ExamResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", examID).Delete(&models.ExamResult{}).Error; err != nil {
			return err
		}

		if len(results) == 0 {
			return nil
		}

		return tx.Create(&results).Error
	})
}

func (r *examRepository) ListResultsByExams(ctx context.Context, examIDs []uint) ([]models.ExamResult, error) {
	if len(examIDs) == 0 {
		return nil, nil
	}

	var results []models.ExamResult
	if err := r.db.WithContext(ctx).
		Where("exam_id IN ?", examIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *examRepository) ListResultsByStudent(ctx context.Context, studentID uint) ([]models.ExamResult, error) {
	var results []models.ExamResult
	if err := r.db.WithContext(ctx).
		Preload("Exam").
		Preload("Exam.Course").
		Preload("Exam.Course.Semester").
		Where("student_id = ?", studentID).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
