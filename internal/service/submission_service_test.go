package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ems-platform/ems-api/internal/dto"
	"github.com/ems-platform/ems-api/internal/models"
	"github.com/ems-platform/ems-api/internal/repository"
	"github.com/ems-platform/ems-api/pkg/ai"
)

type fakeSubmissionRepo struct {
	byID        map[uint]models.Submission
	nextID      uint
	createCalls int
	updateCalls int
	assignment  models.Assignment
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{byID: map[uint]models.Submission{}, nextID: 1}
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	out := make([]models.Submission, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := f.byID[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	// The real repository preloads the assignment association.
	if submission.Assignment.ID == 0 {
		submission.Assignment = f.assignment
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	f.createCalls++
	submission.ID = f.nextID
	f.nextID++
	f.byID[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	f.updateCalls++
	f.byID[submission.ID] = *submission
	return nil
}

type fakeAssignmentRepo struct {
	assignment models.Assignment
	missing    bool
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	if f.missing {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return f.assignment, nil
}

func (f *fakeAssignmentRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Assignment, error) {
	return []models.Assignment{f.assignment}, nil
}

type fakeStore struct {
	saves int
}

func (f *fakeStore) Save(ctx context.Context, filename string, reader io.Reader) (string, error) {
	f.saves++
	return "/uploads/assignments/fake_" + filename, nil
}

type fakeGrader struct {
	calls  int
	result ai.GradeResult
}

func (f *fakeGrader) Grade(ctx context.Context, input ai.GradeInput) ai.GradeResult {
	f.calls++
	return f.result
}

func newSubmissionFixture() (*fakeSubmissionRepo, *fakeAssignmentRepo, *fakeStore, *fakeGrader, *submissionService) {
	subRepo := newFakeSubmissionRepo()
	assignmentRepo := &fakeAssignmentRepo{assignment: models.Assignment{ID: 1, Title: "Essay", Deadline: time.Now().Add(24 * time.Hour), TotalMarks: 100}}
	subRepo.assignment = assignmentRepo.assignment
	store := &fakeStore{}
	grader := &fakeGrader{}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewSubmissionService(subRepo, assignmentRepo, validate, store, grader, testLogger()).(*submissionService)
	return subRepo, assignmentRepo, store, grader, svc
}

func TestSubmitRejectsEmptyFile(t *testing.T) {
	subRepo, _, store, _, svc := newSubmissionFixture()

	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{AssignmentID: 1, StudentID: 2}, nil)
	require.ErrorIs(t, err, ErrEmptyUpload)
	require.Zero(t, store.saves)
	require.Zero(t, subRepo.createCalls)
}

func TestSubmitUnknownAssignment(t *testing.T) {
	subRepo, assignmentRepo, store, _, svc := newSubmissionFixture()
	assignmentRepo.missing = true

	file := makeFileHeader(t, "answer.pdf", []byte("%PDF-1.4 some bytes"))
	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{AssignmentID: 9, StudentID: 2}, file)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
	require.Zero(t, store.saves)
	require.Zero(t, subRepo.createCalls)
}

func TestSubmitNonDocumentIsUngradable(t *testing.T) {
	subRepo, _, store, grader, svc := newSubmissionFixture()

	file := makeFileHeader(t, "answer.txt", []byte("just some plain notes"))
	result, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{AssignmentID: 1, StudentID: 2}, file)
	require.NoError(t, err)
	require.Equal(t, 1, store.saves)
	require.Zero(t, grader.calls)
	require.Equal(t, FeedbackUngradable, result.AIFeedback)
	require.Nil(t, result.AIMarks)
	require.Nil(t, result.AIProbability)
	require.False(t, result.IsGraded)
	require.False(t, result.IsLate)
	require.Equal(t, 1, subRepo.createCalls)
}

func TestSubmitMarksLateUploads(t *testing.T) {
	subRepo, assignmentRepo, _, _, svc := newSubmissionFixture()
	assignmentRepo.assignment.Deadline = time.Now().Add(-time.Hour)
	subRepo.assignment = assignmentRepo.assignment

	file := makeFileHeader(t, "answer.txt", []byte("just some plain notes"))
	result, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{AssignmentID: 1, StudentID: 2}, file)
	require.NoError(t, err)
	require.True(t, result.IsLate)
}

func TestSubmitShortExtractedTextSkipsGrader(t *testing.T) {
	_, _, _, grader, svc := newSubmissionFixture()
	svc.isDocument = func([]byte) bool { return true }
	svc.extractText = func([]byte) string { return "short" }

	file := makeFileHeader(t, "answer.pdf", []byte("%PDF-1.4"))
	result, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{AssignmentID: 1, StudentID: 2}, file)
	require.NoError(t, err)
	require.Zero(t, grader.calls)
	require.Equal(t, ai.FeedbackTooShort, result.AIFeedback)
	require.Nil(t, result.AIMarks)
}

func TestSubmitStoresAdvisoryGrade(t *testing.T) {
	_, _, _, grader, svc := newSubmissionFixture()
	svc.isDocument = func([]byte) bool { return true }
	svc.extractText = func([]byte) string { return strings.Repeat("real essay content ", 10) }
	grader.result = ai.GradeResult{Marks: 72, Feedback: "Good structure.", AIProbability: 15}

	file := makeFileHeader(t, "answer.pdf", []byte("%PDF-1.4"))
	result, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{AssignmentID: 1, StudentID: 2}, file)
	require.NoError(t, err)
	require.Equal(t, 1, grader.calls)
	require.NotNil(t, result.AIMarks)
	require.Equal(t, 72.0, *result.AIMarks)
	require.Equal(t, "Good structure.", result.AIFeedback)
	require.NotNil(t, result.AIProbability)
	require.Equal(t, 15.0, *result.AIProbability)
}

func TestSubmitDegradedGradeStillCreatesRow(t *testing.T) {
	subRepo, _, _, grader, svc := newSubmissionFixture()
	svc.isDocument = func([]byte) bool { return true }
	svc.extractText = func([]byte) string { return strings.Repeat("real essay content ", 10) }
	grader.result = ai.GradeResult{Feedback: "AI grading unavailable: timeout", Degraded: true}

	file := makeFileHeader(t, "answer.pdf", []byte("%PDF-1.4"))
	result, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{AssignmentID: 1, StudentID: 2}, file)
	require.NoError(t, err)
	require.Equal(t, 1, subRepo.createCalls)
	require.NotNil(t, result.AIMarks)
	require.Zero(t, *result.AIMarks)
	require.Contains(t, result.AIFeedback, "AI grading unavailable")
}

func TestGradeByTeacherRejectsMarksAboveTotal(t *testing.T) {
	subRepo, _, _, _, svc := newSubmissionFixture()
	subRepo.byID[1] = models.Submission{
		ID:         1,
		Assignment: models.Assignment{ID: 1, Title: "Essay", TotalMarks: 50},
	}

	_, err := svc.GradeByTeacher(context.Background(), 1, dto.GradeSubmissionRequest{Marks: 60})
	require.ErrorIs(t, err, ErrMarksOutOfRange)
	require.Zero(t, subRepo.updateCalls)
}

func TestGradeByTeacherKeepsAIFields(t *testing.T) {
	subRepo, _, _, _, svc := newSubmissionFixture()
	aiMarks := 63.0
	probability := 40.0
	subRepo.byID[1] = models.Submission{
		ID:            1,
		AIMarks:       &aiMarks,
		AIFeedback:    "Decent attempt.",
		AIProbability: &probability,
		Assignment:    models.Assignment{ID: 1, Title: "Essay", TotalMarks: 100},
	}

	result, err := svc.GradeByTeacher(context.Background(), 1, dto.GradeSubmissionRequest{Marks: 88, Feedback: "Well argued."})
	require.NoError(t, err)
	require.Equal(t, 1, subRepo.updateCalls)
	require.NotNil(t, result.TeacherMarks)
	require.Equal(t, 88.0, *result.TeacherMarks)
	require.Equal(t, "Well argued.", result.TeacherFeedback)
	require.True(t, result.IsGraded)
	require.Equal(t, 63.0, *result.AIMarks)
	require.Equal(t, "Decent attempt.", result.AIFeedback)
}

func TestGradeByTeacherUnknownSubmission(t *testing.T) {
	_, _, _, _, svc := newSubmissionFixture()

	_, err := svc.GradeByTeacher(context.Background(), 42, dto.GradeSubmissionRequest{Marks: 10})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
