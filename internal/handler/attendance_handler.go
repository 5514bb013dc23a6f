package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ems-platform/ems-api/internal/dto"
	"github.com/ems-platform/ems-api/internal/service"
	"github.com/ems-platform/ems-api/internal/utils"
)

// AttendanceHandler manages attendance endpoints.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler builds an attendance handler instance.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches the roster routes to the provided router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Put("/course/:courseId", h.save)
	router.Get("/course/:courseId/report", h.courseReport)
}

// StudentReport serves one student's attendance report. Exported so the
// router can gate it per-route; students read only their own report.
func (h *AttendanceHandler) StudentReport(c *fiber.Ctx) error {
	studentID, err := parseUint(c.Params("studentId"), "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rows, err := h.service.StudentReport(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance report retrieved", rows)
}

func (h *AttendanceHandler) save(c *fiber.Ctx) error {
	courseID, err := parseUint(c.Params("courseId"), "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SaveAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Save(c.Context(), courseID, payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance saved", nil)
}

func (h *AttendanceHandler) courseReport(c *fiber.Ctx) error {
	courseID, err := parseUint(c.Params("courseId"), "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rows, err := h.service.CourseReport(c.Context(), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance report retrieved", rows)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrInvalidAttendanceStatus):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
