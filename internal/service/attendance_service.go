package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ems-platform/ems-api/internal/dto"
	"github.com/ems-platform/ems-api/internal/models"
	"github.com/ems-platform/ems-api/internal/repository"
)

// ErrCourseNotFound indicates a course could not be found.
var ErrCourseNotFound = errors.New("course not found")

// ErrInvalidAttendanceStatus indicates a row carried an unknown status.
var ErrInvalidAttendanceStatus = errors.New("invalid attendance status")

// AttendanceService records class attendance and derives presence reports.
type AttendanceService interface {
	// Save replaces the roster for (courseID, day of date). Saving the same
	// roster twice leaves the stored rows unchanged.
	Save(ctx context.Context, courseID uint, payload dto.SaveAttendanceRequest) error
	StudentReport(ctx context.Context, studentID uint) ([]dto.AttendanceReportRow, error)
	CourseReport(ctx context.Context, courseID uint) ([]dto.AttendanceReportRow, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	courses    repository.CourseRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(attendanceRepo repository.AttendanceRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendance: attendanceRepo,
		courses:    courseRepo,
		validator:  validate,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *attendanceService) Save(ctx context.Context, courseID uint, payload dto.SaveAttendanceRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	records := make([]models.AttendanceRecord, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		if !row.Status.Valid() {
			return ErrInvalidAttendanceStatus
		}
		records = append(records, models.AttendanceRecord{
			CourseID:  courseID,
			StudentID: row.StudentID,
			Date:      payload.Date,
			Status:    row.Status,
		})
	}

	if err := s.attendance.Replace(ctx, courseID, payload.Date, records); err != nil {
		return err
	}

	s.logger.Info().Uint("course_id", courseID).Int("rows", len(records)).Msg("attendance roster replaced")

	return nil
}

func (s *attendanceService) StudentReport(ctx context.Context, studentID uint) ([]dto.AttendanceReportRow, error) {
	records, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return buildAttendanceReport(records), nil
}

func (s *attendanceService) CourseReport(ctx context.Context, courseID uint) ([]dto.AttendanceReportRow, error) {
	records, err := s.attendance.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return buildAttendanceReport(records), nil
}

// buildAttendanceReport groups records per course and computes the presence
// percentage. Late arrivals count as attended.
func buildAttendanceReport(records []models.AttendanceRecord) []dto.AttendanceReportRow {
	type bucket struct {
		row      dto.AttendanceReportRow
		attended int
	}

	buckets := map[uint]*bucket{}
	for _, record := range records {
		b, ok := buckets[record.CourseID]
		if !ok {
			b = &bucket{row: dto.AttendanceReportRow{
				CourseCode:  record.Course.CourseCode,
				CourseTitle: record.Course.Title,
			}}
			buckets[record.CourseID] = b
		}

		b.row.TotalClasses++
		if record.Status.CountsAsAttended() {
			b.attended++
		}
		switch record.Status {
		case models.AttendancePresent:
			b.row.Present++
		case models.AttendanceLate:
			b.row.Late++
		case models.AttendanceAbsent:
			b.row.Absent++
		}
	}

	rows := make([]dto.AttendanceReportRow, 0, len(buckets))
	for _, b := range buckets {
		b.row.Percentage = presencePercentage(b.attended, b.row.TotalClasses)
		rows = append(rows, b.row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CourseCode < rows[j].CourseCode })

	return rows
}

// presencePercentage returns attended/total*100 rounded to two decimal
// places, and 0 when no classes were held.
func presencePercentage(attended, total int) float64 {
	if total == 0 {
		return 0
	}

	return math.Round(float64(attended)/float64(total)*10000) / 100
}
