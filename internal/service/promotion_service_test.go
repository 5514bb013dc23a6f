package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ems-platform/ems-api/internal/dto"
	"github.com/ems-platform/ems-api/internal/models"
)

type fakeStudentRepo struct {
	profiles       []models.StudentProfile
	promoteCalls   int
	promotedIDs    []uint
	promotedTarget uint
}

func (f *fakeStudentRepo) GetStudent(ctx context.Context, id uint) (models.Student, error) {
	for _, profile := range f.profiles {
		if profile.StudentID == id {
			return profile.Student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) ListProfilesByCohort(ctx context.Context, departmentID, semesterID uint) ([]models.StudentProfile, error) {
	return f.profiles, nil
}

func (f *fakeStudentRepo) PromoteSemester(ctx context.Context, studentIDs []uint, nextSemesterID uint) error {
	f.promoteCalls++
	f.promotedIDs = studentIDs
	f.promotedTarget = nextSemesterID
	return nil
}

func profile(studentID uint, name, roll string) models.StudentProfile {
	return models.StudentProfile{
		StudentID: studentID,
		RollNo:    roll,
		Student:   models.Student{ID: studentID, Name: name},
	}
}

func newPromotionFixture() (*fakeStudentRepo, *fakeExamRepo, PromotionService) {
	studentRepo := &fakeStudentRepo{}
	examRepo := newFakeExamRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	return studentRepo, examRepo, NewPromotionService(studentRepo, examRepo, validate, testLogger())
}

func TestReviewCandidatesFailBoundary(t *testing.T) {
	studentRepo, examRepo, svc := newPromotionFixture()
	studentRepo.profiles = []models.StudentProfile{
		profile(1, "Asha", "R-01"),
		profile(2, "Bilal", "R-02"),
		profile(3, "Chen", "R-03"),
	}
	examRepo.cohortExams = []models.Exam{{ID: 10, TotalMarks: 100}}
	examRepo.resultsByExams = []models.ExamResult{
		{ExamID: 10, StudentID: 1, MarksObtained: 40},
		{ExamID: 10, StudentID: 2, MarksObtained: 39.9},
		{ExamID: 10, StudentID: 3, MarksObtained: 85},
	}

	candidates, err := svc.ReviewCandidates(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	require.Zero(t, candidates[0].FailedCount)
	require.True(t, candidates[0].IsSelected)

	require.Equal(t, 1, candidates[1].FailedCount)
	require.False(t, candidates[1].IsSelected)

	require.Zero(t, candidates[2].FailedCount)
	require.True(t, candidates[2].IsSelected)
}

func TestReviewCandidatesIgnoresOutsiders(t *testing.T) {
	studentRepo, examRepo, svc := newPromotionFixture()
	studentRepo.profiles = []models.StudentProfile{profile(1, "Asha", "R-01")}
	examRepo.cohortExams = []models.Exam{{ID: 10, TotalMarks: 100}}
	examRepo.resultsByExams = []models.ExamResult{
		{ExamID: 10, StudentID: 1, MarksObtained: 70},
		{ExamID: 10, StudentID: 99, MarksObtained: 5},
	}

	candidates, err := svc.ReviewCandidates(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, uint(1), candidates[0].StudentID)
	require.True(t, candidates[0].IsSelected)
}

func TestReviewCandidatesNoExams(t *testing.T) {
	studentRepo, _, svc := newPromotionFixture()
	studentRepo.profiles = []models.StudentProfile{profile(1, "Asha", "R-01"), profile(2, "Bilal", "R-02")}

	candidates, err := svc.ReviewCandidates(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	for _, candidate := range candidates {
		require.True(t, candidate.IsSelected)
	}
}

func TestConfirmPromotionRejectsSameSemester(t *testing.T) {
	studentRepo, _, svc := newPromotionFixture()

	err := svc.ConfirmPromotion(context.Background(), dto.ConfirmPromotionRequest{
		CurrentSemesterID: 5,
		NextSemesterID:    5,
		StudentIDs:        []uint{1, 2},
	})
	require.ErrorIs(t, err, ErrSameSemester)
	require.Zero(t, studentRepo.promoteCalls)
}

func TestConfirmPromotionRejectsEmptySelection(t *testing.T) {
	studentRepo, _, svc := newPromotionFixture()

	err := svc.ConfirmPromotion(context.Background(), dto.ConfirmPromotionRequest{
		CurrentSemesterID: 5,
		NextSemesterID:    6,
		StudentIDs:        []uint{},
	})
	require.ErrorIs(t, err, ErrNoStudentsSelected)
	require.Zero(t, studentRepo.promoteCalls)
}

func TestConfirmPromotionForwardsSelection(t *testing.T) {
	studentRepo, _, svc := newPromotionFixture()

	err := svc.ConfirmPromotion(context.Background(), dto.ConfirmPromotionRequest{
		CurrentSemesterID: 5,
		NextSemesterID:    6,
		StudentIDs:        []uint{1, 3},
	})
	require.NoError(t, err)
	require.Equal(t, 1, studentRepo.promoteCalls)
	require.Equal(t, []uint{1, 3}, studentRepo.promotedIDs)
	require.Equal(t, uint(6), studentRepo.promotedTarget)
}
