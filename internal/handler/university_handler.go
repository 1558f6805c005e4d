package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
	"github.com/noah-isme/unimatch-go-api/internal/service"
	"github.com/noah-isme/unimatch-go-api/internal/utils"
)

// UniversityHandler wires university and department routes.
type UniversityHandler struct {
	service service.UniversityService
	logger  zerolog.Logger
}

// NewUniversityHandler constructs the handler.
func NewUniversityHandler(service service.UniversityService, logger zerolog.Logger) *UniversityHandler {
	return &UniversityHandler{
		service: service,
		logger:  logger.With().Str("component", "university_handler").Logger(),
	}
}

// Register attaches the public university endpoints.
func (h *UniversityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin attaches the management endpoints. University deletion is
// further restricted to super_admin in the router.
func (h *UniversityHandler) RegisterAdmin(router fiber.Router, deleteGuard fiber.Handler) {
	router.Post("/universities", h.create)
	router.Put("/universities/:id", h.update)
	router.Post("/universities/:id/logo", h.uploadLogo)
	router.Post("/universities/:id/departments", h.addDepartment)
	router.Delete("/departments/:id", h.deleteDepartment)

	if deleteGuard == nil {
		deleteGuard = func(c *fiber.Ctx) error { return c.Next() }
	}
	router.Delete("/universities/:id", deleteGuard, h.delete)
}

func (h *UniversityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	filter := repository.UniversityFilter{
		Page:     page,
		PageSize: pageSize,
		Country:  strings.TrimSpace(c.Query("country")),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	universities, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "universities retrieved", universities)
}

func (h *UniversityHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	university, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrUniversityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "university not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "university retrieved", university)
}

func (h *UniversityHandler) create(c *fiber.Ctx) error {
	var payload dto.UniversityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	university, err := h.service.Create(c.UserContext(), activityActorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "university created", university)
}

func (h *UniversityHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UniversityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	university, err := h.service.Update(c.UserContext(), activityActorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "university updated", university)
}

func (h *UniversityHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), activityActorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "university deleted", fiber.Map{"id": id})
}

func (h *UniversityHandler) uploadLogo(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "logo file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to read logo file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to read logo file")
	}

	university, err := h.service.UploadLogo(c.UserContext(), activityActorFromContext(c), id, fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogoNotAnImage):
			return utils.SendError(c, fiber.StatusBadRequest, "logo must be an image")
		case errors.Is(err, service.ErrLogoTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "logo exceeds maximum size")
		default:
			return h.handleError(c, err)
		}
	}

	return utils.SendSuccess(c, "logo uploaded", university)
}

func (h *UniversityHandler) addDepartment(c *fiber.Ctx) error {
	universityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DepartmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	department, err := h.service.AddDepartment(c.UserContext(), activityActorFromContext(c), universityID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "department created", department)
}

func (h *UniversityHandler) deleteDepartment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteDepartment(c.UserContext(), activityActorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "department deleted", fiber.Map{"id": id})
}

func (h *UniversityHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUniversityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "university not found")
	case errors.Is(err, service.ErrDepartmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "department not found")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *UniversityHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
