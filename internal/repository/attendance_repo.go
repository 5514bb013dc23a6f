package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ems-platform/ems-api/internal/models"
)

// AttendanceRepository defines data operations for attendance records.
type AttendanceRepository interface {
	// Replace deletes every record of (courseID, day of date) and inserts the
	// given rows inside one transaction. Saving an identical roster twice
	// leaves the final row set unchanged.
	Replace(ctx context.Context, courseID uint, date time.Time, records []models.AttendanceRecord) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.AttendanceRecord, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.AttendanceRecord, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// DayBounds normalizes a timestamp to the half-open interval covering its
// calendar day.
func DayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

func (r *attendanceRepository) Replace(ctx context.Context, courseID uint, date time.Time, records []models.AttendanceRecord) error {
	start, end := DayBounds(date)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("course_id = ? AND date >= ? AND date < ?", courseID, start, end).
			Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}

		if len(records) == 0 {
			return nil
		}

		return tx.Create(&records).Error
	})
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id = ?", courseID).
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
