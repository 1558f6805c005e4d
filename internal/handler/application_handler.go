package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/service"
	"github.com/noah-isme/unimatch-go-api/internal/utils"
)

// ApplicationHandler wires application HTTP routes.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// Register attaches the student-owned application endpoints.
func (h *ApplicationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.submit)
	router.Post("/:id/withdraw", h.withdraw)
}

// RegisterAdmin attaches the review endpoints.
func (h *ApplicationHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/programs/:id/applications", h.listByProgram)
	router.Put("/applications/:id/status", h.updateStatus)
}

func (h *ApplicationHandler) list(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	applications, err := h.service.ListByStudent(c.UserContext(), studentID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "applications retrieved", applications)
}

func (h *ApplicationHandler) submit(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ApplicationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.Submit(c.UserContext(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "application submitted", application)
}

func (h *ApplicationHandler) withdraw(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	application, err := h.service.Withdraw(c.UserContext(), studentID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application withdrawn", application)
}

func (h *ApplicationHandler) listByProgram(c *fiber.Ctx) error {
	programID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	applications, err := h.service.ListByProgram(c.UserContext(), programID, strings.TrimSpace(c.Query("status")))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "applications retrieved", applications)
}

func (h *ApplicationHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ApplicationStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.UpdateStatus(c.UserContext(), activityActorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application status updated", application)
}

func (h *ApplicationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, service.ErrProgramNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "program not found")
	case errors.Is(err, service.ErrApplicationExists):
		return utils.SendError(c, fiber.StatusConflict, "application already exists for this program")
	case errors.Is(err, service.ErrApplicationForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "application does not belong to you")
	case errors.Is(err, service.ErrProgramNotOpen):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "program is not accepting applications")
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, "invalid application status transition")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ApplicationHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
