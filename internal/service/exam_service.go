package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ems-platform/ems-api/internal/dto"
	"github.com/ems-platform/ems-api/internal/models"
	"github.com/ems-platform/ems-api/internal/repository"
)

// ErrExamNotFound indicates an exam could not be found.
var ErrExamNotFound = errors.New("exam not found")

// ExamService records exam marks and derives student transcripts.
type ExamService interface {
	CreateExam(ctx context.Context, payload dto.ExamCreateRequest) (dto.ExamResponse, error)
	// SaveResults replaces the full result set of the exam. Marks above the
	// exam total are clamped to the ceiling, never rejected.
	SaveResults(ctx context.Context, examID uint, payload dto.SaveResultsRequest) error
	Transcript(ctx context.Context, studentID uint) ([]dto.TranscriptRow, error)
}

type examService struct {
	exams     repository.ExamRepository
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewExamService constructs an ExamService instance. The cache client is
// optional; transcripts are served from the database when it is nil.
func NewExamService(repo repository.ExamRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) ExamService {
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	return &examService{
		exams:     repo,
		validator: validate,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("component", "exam_service").Logger(),
	}
}

func (s *examService) CreateExam(ctx context.Context, payload dto.ExamCreateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	exam := models.Exam{
		CourseID:   payload.CourseID,
		Title:      payload.Title,
		TotalMarks: payload.TotalMarks,
		ExamDate:   payload.ExamDate,
	}

	if err := s.exams.Create(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Msg("exam scheduled")

	return dto.ExamResponse{
		ID:         exam.ID,
		CourseID:   exam.CourseID,
		Title:      exam.Title,
		TotalMarks: exam.TotalMarks,
		ExamDate:   exam.ExamDate,
	}, nil
}

func (s *examService) SaveResults(ctx context.Context, examID uint, payload dto.SaveResultsRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return err
	}

	results := make([]models.ExamResult, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		marks := row.MarksObtained
		if marks > exam.TotalMarks {
			marks = exam.TotalMarks
		}
		if marks < 0 {
			marks = 0
		}
		results = append(results, models.ExamResult{
			ExamID:        exam.ID,
			StudentID:     row.StudentID,
			MarksObtained: marks,
		})
	}

	if err := s.exams.ReplaceResults(ctx, examID, results); err != nil {
		return err
	}

	s.logger.Info().Uint("exam_id", examID).Int("rows", len(results)).Msg("exam results replaced")

	return nil
}

func (s *examService) Transcript(ctx context.Context, studentID uint) ([]dto.TranscriptRow, error) {
	cacheKey := fmt.Sprintf("transcript:%d", studentID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var rows []dto.TranscriptRow
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				return rows, nil
			}
		}
	}

	results, err := s.exams.ListResultsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.TranscriptRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, dto.TranscriptRow{
			SemesterName:  result.Exam.Course.Semester.Name,
			CourseCode:    result.Exam.Course.CourseCode,
			CourseTitle:   result.Exam.Course.Title,
			ExamTitle:     result.Exam.Title,
			ExamDate:      result.Exam.ExamDate,
			TotalMarks:    result.Exam.TotalMarks,
			MarksObtained: result.MarksObtained,
			Grade:         LetterGrade(result.MarksObtained, result.Exam.TotalMarks),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SemesterName != rows[j].SemesterName {
			return rows[i].SemesterName < rows[j].SemesterName
		}
		return rows[i].CourseCode < rows[j].CourseCode
	})

	if s.cache != nil {
		if encoded, err := json.Marshal(rows); err == nil {
			if err := s.cache.Set(ctx, cacheKey, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache transcript")
			}
		}
	}

	return rows, nil
}

// LetterGrade classifies marks as a letter grade. Band lower bounds are
// inclusive: 78/100 is an A, 80/100 an A+.
func LetterGrade(marksObtained, totalMarks float64) string {
	if totalMarks <= 0 {
		return "F"
	}

	percentage := marksObtained / totalMarks * 100
	switch {
	case percentage >= 80:
		return "A+"
	case percentage >= 75:
		return "A"
	case percentage >= 70:
		return "A-"
	case percentage >= 65:
		return "B+"
	case percentage >= 60:
		return "B"
	case percentage >= 55:
		return "B-"
	case percentage >= 50:
		return "C+"
	case percentage >= 45:
		return "C"
	case percentage >= 40:
		return "D"
	}
	return "F"
}
