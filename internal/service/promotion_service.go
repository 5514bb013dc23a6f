package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ems-platform/ems-api/internal/dto"
	"github.com/ems-platform/ems-api/internal/repository"
)

// FailThreshold is the fraction of an exam's total marks below which a result
// counts as failed. Exactly 40% passes.
const FailThreshold = 0.40

// ErrSameSemester indicates the target semester equals the current one.
var ErrSameSemester = errors.New("current and next semester cannot be the same")

// ErrNoStudentsSelected indicates an empty promotion selection.
var ErrNoStudentsSelected = errors.New("no students selected for promotion")

// PromotionService reviews a cohort's exam standing and commits semester
// advancement for selected students.
type PromotionService interface {
	ReviewCandidates(ctx context.Context, departmentID, semesterID uint) ([]dto.PromotionCandidate, error)
	ConfirmPromotion(ctx context.Context, payload dto.ConfirmPromotionRequest) error
}

type promotionService struct {
	students  repository.StudentRepository
	exams     repository.ExamRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPromotionService constructs a PromotionService instance.
func NewPromotionService(studentRepo repository.StudentRepository, examRepo repository.ExamRepository, validate *validator.Validate, logger zerolog.Logger) PromotionService {
	return &promotionService{
		students:  studentRepo,
		exams:     examRepo,
		validator: validate,
		logger:    logger.With().Str("component", "promotion_service").Logger(),
	}
}

// ReviewCandidates computes per-student fail counts across the cohort's exams.
// Students with no failed exam are pre-selected; the rest stay overridable by
// the admin before confirmation.
func (s *promotionService) ReviewCandidates(ctx context.Context, departmentID, semesterID uint) ([]dto.PromotionCandidate, error) {
	tracer := otel.Tracer("github.com/ems-platform/ems-api/internal/service/promotion")
	ctx, span := tracer.Start(ctx, "promotion.review")
	span.SetAttributes(
		attribute.Int64("promotion.department_id", int64(departmentID)),
		attribute.Int64("promotion.semester_id", int64(semesterID)),
	)
	defer span.End()

	profiles, err := s.students.ListProfilesByCohort(ctx, departmentID, semesterID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cohort_lookup_failed")
		return nil, err
	}

	exams, err := s.exams.ListByCohort(ctx, departmentID, semesterID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exam_lookup_failed")
		return nil, err
	}

	examIDs := make([]uint, 0, len(exams))
	totals := make(map[uint]float64, len(exams))
	for _, exam := range exams {
		examIDs = append(examIDs, exam.ID)
		totals[exam.ID] = exam.TotalMarks
	}

	results, err := s.exams.ListResultsByExams(ctx, examIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result_lookup_failed")
		return nil, err
	}

	cohort := make(map[uint]struct{}, len(profiles))
	for _, profile := range profiles {
		cohort[profile.StudentID] = struct{}{}
	}

	failedCounts := make(map[uint]int, len(profiles))
	for _, result := range results {
		if _, member := cohort[result.StudentID]; !member {
			continue
		}
		if result.MarksObtained < totals[result.ExamID]*FailThreshold {
			failedCounts[result.StudentID]++
		}
	}

	candidates := make([]dto.PromotionCandidate, 0, len(profiles))
	for _, profile := range profiles {
		failed := failedCounts[profile.StudentID]
		candidates = append(candidates, dto.PromotionCandidate{
			StudentID:   profile.StudentID,
			Name:        profile.Student.Name,
			RollNo:      profile.RollNo,
			FailedCount: failed,
			IsSelected:  failed == 0,
		})
	}

	span.SetAttributes(attribute.Int("promotion.candidates", len(candidates)))

	return candidates, nil
}

// ConfirmPromotion advances the selected students' semester in one atomic
// transaction. Equal semesters and empty selections are rejected before any
// write.
func (s *promotionService) ConfirmPromotion(ctx context.Context, payload dto.ConfirmPromotionRequest) error {
	tracer := otel.Tracer("github.com/ems-platform/ems-api/internal/service/promotion")
	ctx, span := tracer.Start(ctx, "promotion.confirm")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return err
	}

	if payload.CurrentSemesterID == payload.NextSemesterID {
		span.SetStatus(codes.Error, "same_semester")
		return ErrSameSemester
	}

	if len(payload.StudentIDs) == 0 {
		span.SetStatus(codes.Error, "empty_selection")
		return ErrNoStudentsSelected
	}

	if err := s.students.PromoteSemester(ctx, payload.StudentIDs, payload.NextSemesterID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "promotion_failed")
		return err
	}

	s.logger.Info().
		Uint("next_semester_id", payload.NextSemesterID).
		Int("students", len(payload.StudentIDs)).
		Msg("students promoted")

	span.SetAttributes(attribute.Int("promotion.promoted", len(payload.StudentIDs)))

	return nil
}
