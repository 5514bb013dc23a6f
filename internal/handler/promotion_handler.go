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

// PromotionHandler manages promotion review and confirmation endpoints.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler builds a promotion handler instance.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("component", "promotion_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PromotionHandler) Register(router fiber.Router) {
	router.Get("/review", h.review)
	router.Post("/confirm", h.confirm)
}

func (h *PromotionHandler) review(c *fiber.Ctx) error {
	departmentID, err := parseUint(c.Query("department_id"), "department_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	semesterID, err := parseUint(c.Query("semester_id"), "semester_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	candidates, err := h.service.ReviewCandidates(c.Context(), departmentID, semesterID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "promotion candidates retrieved", candidates)
}

func (h *PromotionHandler) confirm(c *fiber.Ctx) error {
	var payload dto.ConfirmPromotionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ConfirmPromotion(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students promoted", nil)
}

func (h *PromotionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSameSemester):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNoStudentsSelected):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
