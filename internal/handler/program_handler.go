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

// ProgramHandler wires the public catalog and admin program routes.
type ProgramHandler struct {
	service service.ProgramService
	logger  zerolog.Logger
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(service service.ProgramService, logger zerolog.Logger) *ProgramHandler {
	return &ProgramHandler{
		service: service,
		logger:  logger.With().Str("component", "program_handler").Logger(),
	}
}

// Register attaches the public catalog endpoints.
func (h *ProgramHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin attaches the program and requirement management endpoints.
func (h *ProgramHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/programs", h.create)
	router.Put("/programs/:id", h.update)
	router.Delete("/programs/:id", h.delete)
	router.Post("/programs/:id/requirements", h.addRequirement)
	router.Put("/requirements/:id", h.updateRequirement)
	router.Delete("/requirements/:id", h.deleteRequirement)
}

func (h *ProgramHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	universityID, err := parseQueryInt(c, "university_id")
	if err != nil || universityID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid university id")
	}
	departmentID, err := parseQueryInt(c, "department_id")
	if err != nil || departmentID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department id")
	}

	req := dto.ProgramListRequest{
		Page:         page,
		PageSize:     pageSize,
		UniversityID: uint(universityID),
		DepartmentID: uint(departmentID),
		Degree:       strings.TrimSpace(c.Query("degree")),
		Search:       strings.TrimSpace(c.Query("search")),
	}

	programs, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "programs retrieved", programs)
}

func (h *ProgramHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	program, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "program not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "program retrieved", program)
}

func (h *ProgramHandler) create(c *fiber.Ctx) error {
	var payload dto.ProgramCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	program, err := h.service.Create(c.UserContext(), activityActorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "program created", program)
}

func (h *ProgramHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProgramUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	program, err := h.service.Update(c.UserContext(), activityActorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "program updated", program)
}

func (h *ProgramHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), activityActorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "program deleted", fiber.Map{"id": id})
}

func (h *ProgramHandler) addRequirement(c *fiber.Ctx) error {
	programID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RequirementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	requirement, err := h.service.AddRequirement(c.UserContext(), activityActorFromContext(c), programID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "requirement created", requirement)
}

func (h *ProgramHandler) updateRequirement(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RequirementUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	requirement, err := h.service.UpdateRequirement(c.UserContext(), activityActorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "requirement updated", requirement)
}

func (h *ProgramHandler) deleteRequirement(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteRequirement(c.UserContext(), activityActorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "requirement deleted", fiber.Map{"id": id})
}

func (h *ProgramHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "program not found")
	case errors.Is(err, service.ErrRequirementNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "requirement not found")
	case errors.Is(err, service.ErrDepartmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "department not found")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ProgramHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
