package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/matching"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
)

// ErrProgramNotFound indicates the program was not located.
var ErrProgramNotFound = errors.New("program not found")

// ErrDepartmentNotFound indicates the department was not located.
var ErrDepartmentNotFound = errors.New("department not found")

// ProgramService serves the public catalog and the admin program and
// requirement workflows. Requirement mutations fan out an event so every
// node drops its cached rankings.
type ProgramService interface {
	List(ctx context.Context, req dto.ProgramListRequest) (dto.ProgramListResponse, error)
	Get(ctx context.Context, id uint) (dto.ProgramResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.ProgramCreateRequest) (dto.ProgramResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, payload dto.ProgramUpdateRequest) (dto.ProgramResponse, error)
	Delete(ctx context.Context, actor ActivityActor, id uint) error
	AddRequirement(ctx context.Context, actor ActivityActor, programID uint, payload dto.RequirementCreateRequest) (dto.RequirementResponse, error)
	UpdateRequirement(ctx context.Context, actor ActivityActor, id uint, payload dto.RequirementUpdateRequest) (dto.RequirementResponse, error)
	DeleteRequirement(ctx context.Context, actor ActivityActor, id uint) error
}

type programService struct {
	programs     repository.ProgramRepository
	requirements repository.RequirementRepository
	universities repository.UniversityRepository
	events       EventBus
	activity     ActivityRecorder
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
}

// NewProgramService constructs the program service.
func NewProgramService(
	programs repository.ProgramRepository,
	requirements repository.RequirementRepository,
	universities repository.UniversityRepository,
	events EventBus,
	activity ActivityRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) ProgramService {
	return &programService{
		programs:     programs,
		requirements: requirements,
		universities: universities,
		events:       events,
		activity:     activity,
		validator:    validate,
		sanitizer:    bluemonday.UGCPolicy(),
		logger:       logger.With().Str("component", "program_service").Logger(),
	}
}

func (s *programService) List(ctx context.Context, req dto.ProgramListRequest) (dto.ProgramListResponse, error) {
	filter := repository.ProgramFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Degree:     strings.TrimSpace(req.Degree),
		Search:     req.Search,
		ActiveOnly: true,
	}
	if req.UniversityID > 0 {
		filter.UniversityID = &req.UniversityID
	}
	if req.DepartmentID > 0 {
		filter.DepartmentID = &req.DepartmentID
	}

	programs, total, err := s.programs.List(ctx, filter)
	if err != nil {
		return dto.ProgramListResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	return dto.ProgramListResponse{
		Items: dto.NewProgramResponseSlice(programs),
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		},
	}, nil
}

func (s *programService) Get(ctx context.Context, id uint) (dto.ProgramResponse, error) {
	program, err := s.programs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgramResponse{}, ErrProgramNotFound
		}
		return dto.ProgramResponse{}, err
	}

	return dto.NewProgramResponse(program), nil
}

func (s *programService) Create(ctx context.Context, actor ActivityActor, payload dto.ProgramCreateRequest) (dto.ProgramResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgramResponse{}, err
	}

	if _, err := s.universities.GetDepartment(ctx, payload.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgramResponse{}, ErrDepartmentNotFound
		}
		return dto.ProgramResponse{}, err
	}

	program := models.Program{
		DepartmentID: payload.DepartmentID,
		Name:         strings.TrimSpace(payload.Name),
		Degree:       strings.TrimSpace(payload.Degree),
		Description:  s.sanitizer.Sanitize(payload.Description),
		Capacity:     payload.Capacity,
		Active:       true,
	}
	if payload.Active != nil {
		program.Active = *payload.Active
	}

	if err := s.programs.Create(ctx, &program); err != nil {
		return dto.ProgramResponse{}, err
	}

	s.record(ctx, actor, "program.created", "program", program.ID, map[string]interface{}{"name": program.Name})

	created, err := s.programs.GetByID(ctx, program.ID)
	if err != nil {
		return dto.NewProgramResponse(program), nil
	}

	return dto.NewProgramResponse(created), nil
}

func (s *programService) Update(ctx context.Context, actor ActivityActor, id uint, payload dto.ProgramUpdateRequest) (dto.ProgramResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgramResponse{}, err
	}

	program, err := s.programs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgramResponse{}, ErrProgramNotFound
		}
		return dto.ProgramResponse{}, err
	}

	program.Name = strings.TrimSpace(payload.Name)
	program.Degree = strings.TrimSpace(payload.Degree)
	program.Description = s.sanitizer.Sanitize(payload.Description)
	program.Capacity = payload.Capacity
	if payload.Active != nil {
		program.Active = *payload.Active
	}

	if err := s.programs.Update(ctx, &program); err != nil {
		return dto.ProgramResponse{}, err
	}

	s.record(ctx, actor, "program.updated", "program", program.ID, map[string]interface{}{"name": program.Name})

	return dto.NewProgramResponse(program), nil
}

func (s *programService) Delete(ctx context.Context, actor ActivityActor, id uint) error {
	if _, err := s.programs.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProgramNotFound
		}
		return err
	}

	if err := s.programs.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "program.deleted", "program", id, nil)
	s.publishRequirementChange(ctx, id)

	return nil
}

func (s *programService) AddRequirement(ctx context.Context, actor ActivityActor, programID uint, payload dto.RequirementCreateRequest) (dto.RequirementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequirementResponse{}, err
	}

	if _, err := s.programs.GetByID(ctx, programID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RequirementResponse{}, ErrProgramNotFound
		}
		return dto.RequirementResponse{}, err
	}

	requirement := models.ProgramRequirement{
		ProgramID:   programID,
		Type:        matching.RequirementType(payload.Type),
		Subject:     strings.TrimSpace(payload.Subject),
		MinGrade:    strings.TrimSpace(payload.MinGrade),
		Description: s.sanitizer.Sanitize(payload.Description),
	}

	if err := s.requirements.Create(ctx, &requirement); err != nil {
		return dto.RequirementResponse{}, err
	}

	s.record(ctx, actor, "requirement.created", "requirement", requirement.ID, map[string]interface{}{
		"program_id": programID,
		"type":       payload.Type,
	})
	s.publishRequirementChange(ctx, requirement.ID)

	return dto.NewRequirementResponse(requirement), nil
}

func (s *programService) UpdateRequirement(ctx context.Context, actor ActivityActor, id uint, payload dto.RequirementUpdateRequest) (dto.RequirementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequirementResponse{}, err
	}

	requirement, err := s.requirements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RequirementResponse{}, ErrRequirementNotFound
		}
		return dto.RequirementResponse{}, err
	}

	requirement.Subject = strings.TrimSpace(payload.Subject)
	requirement.MinGrade = strings.TrimSpace(payload.MinGrade)
	requirement.Description = s.sanitizer.Sanitize(payload.Description)

	if err := s.requirements.Update(ctx, &requirement); err != nil {
		return dto.RequirementResponse{}, err
	}

	s.record(ctx, actor, "requirement.updated", "requirement", requirement.ID, map[string]interface{}{
		"program_id": requirement.ProgramID,
	})
	s.publishRequirementChange(ctx, requirement.ID)

	return dto.NewRequirementResponse(requirement), nil
}

func (s *programService) DeleteRequirement(ctx context.Context, actor ActivityActor, id uint) error {
	requirement, err := s.requirements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequirementNotFound
		}
		return err
	}

	if err := s.requirements.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "requirement.deleted", "requirement", id, map[string]interface{}{
		"program_id": requirement.ProgramID,
	})
	s.publishRequirementChange(ctx, id)

	return nil
}

func (s *programService) record(ctx context.Context, actor ActivityActor, action, entityType string, entityID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   &entityID,
		Metadata:   metadata,
	})
}

func (s *programService) publishRequirementChange(ctx context.Context, entityID uint) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, Event{Name: EventRequirementChanged, EntityID: entityID}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish requirement change event")
	}
}
