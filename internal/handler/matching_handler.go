package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/service"
	"github.com/noah-isme/unimatch-go-api/internal/utils"
)

// MatchingHandler wires the ranked match list and the matcher debug endpoint.
type MatchingHandler struct {
	service service.MatchingService
	logger  zerolog.Logger
}

// NewMatchingHandler constructs the handler.
func NewMatchingHandler(service service.MatchingService, logger zerolog.Logger) *MatchingHandler {
	return &MatchingHandler{
		service: service,
		logger:  logger.With().Str("component", "matching_handler").Logger(),
	}
}

// Register attaches the student-facing match route.
func (h *MatchingHandler) Register(router fiber.Router) {
	router.Get("", h.matches)
}

// RegisterAdmin attaches the matcher debug route.
func (h *MatchingHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/matching/evaluate", h.evaluate)
}

func (h *MatchingHandler) matches(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	result, err := h.service.MatchPrograms(c.UserContext(), studentID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "matches computed", result)
}

func (h *MatchingHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluateRequirementRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	verdict, err := h.service.EvaluateRequirement(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQualificationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "qualification not found")
		case errors.Is(err, service.ErrRequirementNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "requirement not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccess(c, "requirement evaluated", verdict)
}

func (h *MatchingHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
