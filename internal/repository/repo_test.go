package repository

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stretchr/testify/require"

	"github.com/ems-platform/ems-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Department{},
		&models.Semester{},
		&models.Course{},
		&models.Student{},
		&models.StudentProfile{},
		&models.Assignment{},
		&models.Submission{},
		&models.Exam{},
		&models.ExamResult{},
		&models.AttendanceRecord{},
	))
	return db
}
