package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/matching"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
)

// ErrQualificationForbidden indicates the actor does not own the record.
var ErrQualificationForbidden = errors.New("qualification does not belong to the student")

// ErrQualificationAlreadyVerified indicates a repeated verification.
var ErrQualificationAlreadyVerified = errors.New("qualification already verified")

// ErrQualificationContentEmpty indicates subject or grade vanished after
// sanitization.
var ErrQualificationContentEmpty = errors.New("subject and grade must not be empty")

// QualificationService manages student qualifications. Only verified
// qualifications feed the matching pipeline, so every mutation invalidates
// the owner's cached match list via the event bus.
type QualificationService interface {
	List(ctx context.Context, studentID uint) ([]dto.QualificationResponse, error)
	Create(ctx context.Context, studentID uint, payload dto.QualificationCreateRequest) (dto.QualificationResponse, error)
	Update(ctx context.Context, studentID, id uint, payload dto.QualificationUpdateRequest) (dto.QualificationResponse, error)
	Delete(ctx context.Context, actor ActivityActor, id uint) error
	Verify(ctx context.Context, actor ActivityActor, id uint) (dto.QualificationResponse, error)
}

type qualificationService struct {
	repo      repository.QualificationRepository
	events    EventBus
	activity  ActivityRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQualificationService constructs the qualification service.
func NewQualificationService(repo repository.QualificationRepository, events EventBus, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) QualificationService {
	return &qualificationService{
		repo:      repo,
		events:    events,
		activity:  activity,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "qualification_service").Logger(),
		now:       time.Now,
	}
}

func (s *qualificationService) List(ctx context.Context, studentID uint) ([]dto.QualificationResponse, error) {
	qualifications, err := s.repo.List(ctx, repository.QualificationFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	return dto.NewQualificationResponseSlice(qualifications), nil
}

func (s *qualificationService) Create(ctx context.Context, studentID uint, payload dto.QualificationCreateRequest) (dto.QualificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QualificationResponse{}, err
	}

	qualification := models.Qualification{
		StudentID: studentID,
		Type:      matching.QualificationType(payload.Type),
		Subject:   s.cleanText(payload.Subject),
		Grade:     s.cleanText(payload.Grade),
	}
	if qualification.Subject == "" || qualification.Grade == "" {
		return dto.QualificationResponse{}, ErrQualificationContentEmpty
	}

	if err := s.repo.Create(ctx, &qualification); err != nil {
		return dto.QualificationResponse{}, err
	}

	s.publish(ctx, EventQualificationChanged, studentID, qualification.ID)

	return dto.NewQualificationResponse(qualification), nil
}

func (s *qualificationService) Update(ctx context.Context, studentID, id uint, payload dto.QualificationUpdateRequest) (dto.QualificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QualificationResponse{}, err
	}

	qualification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QualificationResponse{}, ErrQualificationNotFound
		}
		return dto.QualificationResponse{}, err
	}

	if qualification.StudentID != studentID {
		return dto.QualificationResponse{}, ErrQualificationForbidden
	}

	qualification.Subject = s.cleanText(payload.Subject)
	qualification.Grade = s.cleanText(payload.Grade)
	// Edits change the content, so any prior verification no longer holds.
	qualification.Verified = false
	qualification.VerifiedBy = nil
	qualification.VerifiedAt = nil

	if err := s.repo.Update(ctx, &qualification); err != nil {
		return dto.QualificationResponse{}, err
	}

	s.publish(ctx, EventQualificationChanged, studentID, qualification.ID)

	return dto.NewQualificationResponse(qualification), nil
}

func (s *qualificationService) Delete(ctx context.Context, actor ActivityActor, id uint) error {
	qualification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQualificationNotFound
		}
		return err
	}

	if qualification.StudentID != actor.ID && !models.IsAdminRole(actor.Role) {
		return ErrQualificationForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, EventQualificationChanged, qualification.StudentID, id)

	return nil
}

func (s *qualificationService) Verify(ctx context.Context, actor ActivityActor, id uint) (dto.QualificationResponse, error) {
	qualification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QualificationResponse{}, ErrQualificationNotFound
		}
		return dto.QualificationResponse{}, err
	}

	if qualification.Verified {
		return dto.QualificationResponse{}, ErrQualificationAlreadyVerified
	}

	verifiedAt := s.now()
	verifiedBy := actor.ID
	qualification.Verified = true
	qualification.VerifiedBy = &verifiedBy
	qualification.VerifiedAt = &verifiedAt

	if err := s.repo.Update(ctx, &qualification); err != nil {
		return dto.QualificationResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "qualification.verified",
			EntityType: "qualification",
			EntityID:   &qualification.ID,
			Metadata: map[string]interface{}{
				"student_id": qualification.StudentID,
				"subject":    qualification.Subject,
			},
		})
	}

	s.publish(ctx, EventQualificationVerified, qualification.StudentID, qualification.ID)

	return dto.NewQualificationResponse(qualification), nil
}

func (s *qualificationService) publish(ctx context.Context, name string, studentID, entityID uint) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, Event{Name: name, StudentID: studentID, EntityID: entityID}); err != nil {
		s.logger.Warn().Err(err).Str("event", name).Msg("failed to publish domain event")
	}
}

func (s *qualificationService) cleanText(input string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(input))
}
