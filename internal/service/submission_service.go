package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ems-platform/ems-api/internal/dto"
	"github.com/ems-platform/ems-api/internal/models"
	"github.com/ems-platform/ems-api/internal/repository"
	"github.com/ems-platform/ems-api/pkg/ai"
	"github.com/ems-platform/ems-api/pkg/extract"
	"github.com/ems-platform/ems-api/pkg/storage"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrEmptyUpload indicates the uploaded file was missing or empty.
var ErrEmptyUpload = errors.New("submission file is required and must not be empty")

// ErrMarksOutOfRange indicates teacher marks fall outside [0, TotalMarks].
var ErrMarksOutOfRange = errors.New("marks outside the assignment total")

// FeedbackUngradable is stored when the uploaded file is not a document type
// the AI reviewer can read.
const FeedbackUngradable = "file type not supported for AI review"

// SubmissionService orchestrates submission upload, advisory AI grading and
// teacher grading.
type SubmissionService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	GradeByTeacher(ctx context.Context, id uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	store       storage.FileStore
	grader      ai.Grader
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
	isDocument  func([]byte) bool
	extractText func([]byte) string
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, validate *validator.Validate, store storage.FileStore, grader ai.Grader, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		validator:   validate,
		store:       store,
		grader:      grader,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
		isDocument:  extract.IsPDF,
		extractText: extract.Text,
	}
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		AssignmentID: filter.AssignmentID,
		StudentID:    filter.StudentID,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Submit stores the uploaded file, creates the submission row and enriches it
// with an advisory AI grade when the content is readable. Extraction or AI
// failures degrade the advisory fields only; the submission always persists.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if file == nil || file.Size == 0 {
		return dto.SubmissionResponse{}, ErrEmptyUpload
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if len(data) == 0 {
		return dto.SubmissionResponse{}, ErrEmptyUpload
	}

	fileURL, err := s.store.Save(ctx, file.Filename, bytes.NewReader(data))
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID: payload.AssignmentID,
		StudentID:    payload.StudentID,
		FileURL:      fileURL,
		SubmittedAt:  s.now(),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.enrichWithAdvisoryGrade(ctx, &submission, assignment, data)

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", created.ID).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

// enrichWithAdvisoryGrade fills the AI fields on an already-created row. It
// never fails the submission.
func (s *submissionService) enrichWithAdvisoryGrade(ctx context.Context, submission *models.Submission, assignment models.Assignment, data []byte) {
	if !s.isDocument(data) {
		submission.AIFeedback = FeedbackUngradable
	} else {
		text := s.extractText(data)
		if len(strings.TrimSpace(text)) < ai.MinGradeableChars {
			submission.AIFeedback = ai.FeedbackTooShort
		} else {
			result := s.grader.Grade(ctx, ai.GradeInput{
				Text:            text,
				AssignmentTitle: assignment.Title,
				TotalMarks:      assignment.TotalMarks,
			})

			marks := result.Marks
			probability := result.AIProbability
			submission.AIMarks = &marks
			submission.AIProbability = &probability
			submission.AIFeedback = s.sanitizer.Sanitize(result.Feedback)

			if result.Degraded {
				s.logger.Warn().Uint("submission_id", submission.ID).Msg("advisory grading degraded")
			}
		}
	}

	if err := s.submissions.Update(ctx, submission); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to persist advisory grade")
	}
}

// GradeByTeacher records the authoritative marks and feedback. Marks outside
// [0, Assignment.TotalMarks] are rejected, never clamped; the stored row is
// untouched on rejection. AI fields are left as they were.
func (s *submissionService) GradeByTeacher(ctx context.Context, id uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if payload.Marks < 0 || payload.Marks > submission.Assignment.TotalMarks {
		return dto.SubmissionResponse{}, ErrMarksOutOfRange
	}

	marks := payload.Marks
	submission.TeacherMarks = &marks
	submission.TeacherFeedback = s.sanitizer.Sanitize(strings.TrimSpace(payload.Feedback))

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Float64("marks", marks).Msg("submission graded by teacher")

	return dto.NewSubmissionResponse(submission), nil
}
