package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/service"
	"github.com/noah-isme/unimatch-go-api/internal/utils"
)

// QualificationHandler wires qualification HTTP routes.
type QualificationHandler struct {
	service service.QualificationService
	logger  zerolog.Logger
}

// NewQualificationHandler constructs the handler.
func NewQualificationHandler(service service.QualificationService, logger zerolog.Logger) *QualificationHandler {
	return &QualificationHandler{
		service: service,
		logger:  logger.With().Str("component", "qualification_handler").Logger(),
	}
}

// Register attaches the student-owned qualification endpoints.
func (h *QualificationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// RegisterAdmin attaches the verification endpoint.
func (h *QualificationHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/qualifications/:id/verify", h.verify)
}

func (h *QualificationHandler) list(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	qualifications, err := h.service.List(c.UserContext(), studentID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "qualifications retrieved", qualifications)
}

func (h *QualificationHandler) create(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.QualificationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	qualification, err := h.service.Create(c.UserContext(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "qualification created", qualification)
}

func (h *QualificationHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.QualificationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	qualification, err := h.service.Update(c.UserContext(), studentID, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "qualification updated", qualification)
}

func (h *QualificationHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), activityActorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "qualification deleted", fiber.Map{"id": id})
}

func (h *QualificationHandler) verify(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	qualification, err := h.service.Verify(c.UserContext(), activityActorFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrQualificationAlreadyVerified) {
			return utils.SendError(c, fiber.StatusConflict, "qualification already verified")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "qualification verified", qualification)
}

func (h *QualificationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQualificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "qualification not found")
	case errors.Is(err, service.ErrQualificationForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "qualification does not belong to you")
	case errors.Is(err, service.ErrQualificationContentEmpty):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *QualificationHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
