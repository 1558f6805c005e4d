package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
)

// ErrUniversityNotFound indicates the university was not located.
var ErrUniversityNotFound = errors.New("university not found")

// ErrLogoNotAnImage indicates an upload with a non-image payload.
var ErrLogoNotAnImage = errors.New("logo must be an image")

// ErrLogoTooLarge indicates an upload beyond the size cap.
var ErrLogoTooLarge = errors.New("logo exceeds maximum size")

const maxLogoBytes = 2 << 20

// FileUploader stores a binary asset and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UniversityService manages universities, departments, and logo uploads.
type UniversityService interface {
	List(ctx context.Context, filter repository.UniversityFilter) (dto.UniversityListResponse, error)
	Get(ctx context.Context, id uint) (dto.UniversityResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.UniversityCreateRequest) (dto.UniversityResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, payload dto.UniversityUpdateRequest) (dto.UniversityResponse, error)
	Delete(ctx context.Context, actor ActivityActor, id uint) error
	AddDepartment(ctx context.Context, actor ActivityActor, universityID uint, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, actor ActivityActor, id uint) error
	UploadLogo(ctx context.Context, actor ActivityActor, id uint, filename string, data []byte) (dto.UniversityResponse, error)
}

type universityService struct {
	repo      repository.UniversityRepository
	uploader  FileUploader
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUniversityService constructs the university service.
func NewUniversityService(repo repository.UniversityRepository, uploader FileUploader, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) UniversityService {
	return &universityService{
		repo:      repo,
		uploader:  uploader,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "university_service").Logger(),
	}
}

func (s *universityService) List(ctx context.Context, filter repository.UniversityFilter) (dto.UniversityListResponse, error) {
	universities, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.UniversityListResponse{}, err
	}

	items := make([]dto.UniversityResponse, 0, len(universities))
	for _, university := range universities {
		items = append(items, dto.NewUniversityResponse(university))
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	return dto.UniversityListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		},
	}, nil
}

func (s *universityService) Get(ctx context.Context, id uint) (dto.UniversityResponse, error) {
	university, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UniversityResponse{}, ErrUniversityNotFound
		}
		return dto.UniversityResponse{}, err
	}

	return dto.NewUniversityResponse(university), nil
}

func (s *universityService) Create(ctx context.Context, actor ActivityActor, payload dto.UniversityCreateRequest) (dto.UniversityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UniversityResponse{}, err
	}

	university := models.University{
		Name:    strings.TrimSpace(payload.Name),
		Country: strings.TrimSpace(payload.Country),
		City:    strings.TrimSpace(payload.City),
		Website: strings.TrimSpace(payload.Website),
	}

	if err := s.repo.Create(ctx, &university); err != nil {
		return dto.UniversityResponse{}, err
	}

	s.record(ctx, actor, "university.created", "university", university.ID, map[string]interface{}{"name": university.Name})

	return dto.NewUniversityResponse(university), nil
}

func (s *universityService) Update(ctx context.Context, actor ActivityActor, id uint, payload dto.UniversityUpdateRequest) (dto.UniversityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UniversityResponse{}, err
	}

	university, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UniversityResponse{}, ErrUniversityNotFound
		}
		return dto.UniversityResponse{}, err
	}

	university.Name = strings.TrimSpace(payload.Name)
	university.Country = strings.TrimSpace(payload.Country)
	university.City = strings.TrimSpace(payload.City)
	university.Website = strings.TrimSpace(payload.Website)

	if err := s.repo.Update(ctx, &university); err != nil {
		return dto.UniversityResponse{}, err
	}

	s.record(ctx, actor, "university.updated", "university", university.ID, map[string]interface{}{"name": university.Name})

	return dto.NewUniversityResponse(university), nil
}

func (s *universityService) Delete(ctx context.Context, actor ActivityActor, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUniversityNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "university.deleted", "university", id, nil)

	return nil
}

func (s *universityService) AddDepartment(ctx context.Context, actor ActivityActor, universityID uint, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartmentResponse{}, err
	}

	if _, err := s.repo.GetByID(ctx, universityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrUniversityNotFound
		}
		return dto.DepartmentResponse{}, err
	}

	department := models.Department{
		UniversityID: universityID,
		Name:         strings.TrimSpace(payload.Name),
	}

	if err := s.repo.CreateDepartment(ctx, &department); err != nil {
		return dto.DepartmentResponse{}, err
	}

	s.record(ctx, actor, "department.created", "department", department.ID, map[string]interface{}{
		"university_id": universityID,
		"name":          department.Name,
	})

	return dto.NewDepartmentResponse(department), nil
}

func (s *universityService) DeleteDepartment(ctx context.Context, actor ActivityActor, id uint) error {
	if _, err := s.repo.GetDepartment(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "department.deleted", "department", id, nil)

	return nil
}

func (s *universityService) UploadLogo(ctx context.Context, actor ActivityActor, id uint, filename string, data []byte) (dto.UniversityResponse, error) {
	if len(data) == 0 {
		return dto.UniversityResponse{}, ErrLogoNotAnImage
	}
	if len(data) > maxLogoBytes {
		return dto.UniversityResponse{}, ErrLogoTooLarge
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return dto.UniversityResponse{}, fmt.Errorf("%w: got %s", ErrLogoNotAnImage, detected.String())
	}

	university, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UniversityResponse{}, ErrUniversityNotFound
		}
		return dto.UniversityResponse{}, err
	}

	url, err := s.uploader.Upload(ctx, filename, bytes.NewReader(data))
	if err != nil {
		s.logger.Error().Err(err).Uint("university_id", id).Msg("logo upload failed")
		return dto.UniversityResponse{}, err
	}

	university.LogoURL = url
	if err := s.repo.Update(ctx, &university); err != nil {
		return dto.UniversityResponse{}, err
	}

	s.record(ctx, actor, "university.logo_uploaded", "university", id, map[string]interface{}{
		"content_type": detected.String(),
	})

	return dto.NewUniversityResponse(university), nil
}

func (s *universityService) record(ctx context.Context, actor ActivityActor, action, entityType string, entityID uint, metadata map[string]interface{}) {
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
