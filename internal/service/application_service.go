package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/matching"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
)

// ErrApplicationNotFound indicates the application was not located.
var ErrApplicationNotFound = errors.New("application not found")

// ErrApplicationExists indicates the student already applied to the program.
var ErrApplicationExists = errors.New("application already exists for this program")

// ErrApplicationForbidden indicates the actor does not own the record.
var ErrApplicationForbidden = errors.New("application does not belong to the student")

// ErrProgramNotOpen indicates applications to an inactive program.
var ErrProgramNotOpen = errors.New("program is not accepting applications")

// ErrInvalidTransition indicates a status change the lifecycle forbids.
var ErrInvalidTransition = errors.New("invalid application status transition")

// allowedTransitions fixes the application lifecycle. Withdrawn and
// decided applications are terminal.
var allowedTransitions = map[string][]string{
	models.ApplicationStatusSubmitted:   {models.ApplicationStatusUnderReview, models.ApplicationStatusAccepted, models.ApplicationStatusRejected},
	models.ApplicationStatusUnderReview: {models.ApplicationStatusAccepted, models.ApplicationStatusRejected},
}

// ApplicationService manages the application lifecycle. The match score
// recorded on an application is a snapshot of the student's standing at
// submission time.
type ApplicationService interface {
	Submit(ctx context.Context, studentID uint, payload dto.ApplicationCreateRequest) (dto.ApplicationResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, studentID, id uint) (dto.ApplicationResponse, error)
	ListByProgram(ctx context.Context, programID uint, status string) ([]dto.ApplicationResponse, error)
	UpdateStatus(ctx context.Context, actor ActivityActor, id uint, payload dto.ApplicationStatusRequest) (dto.ApplicationResponse, error)
}

type applicationService struct {
	applications   repository.ApplicationRepository
	programs       repository.ProgramRepository
	qualifications repository.QualificationRepository
	options        matching.Options
	activity       ActivityRecorder
	validator      *validator.Validate
	logger         zerolog.Logger
	now            func() time.Time
}

// NewApplicationService constructs the application service.
func NewApplicationService(
	applications repository.ApplicationRepository,
	programs repository.ProgramRepository,
	qualifications repository.QualificationRepository,
	options matching.Options,
	activity ActivityRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationService{
		applications:   applications,
		programs:       programs,
		qualifications: qualifications,
		options:        options,
		activity:       activity,
		validator:      validate,
		logger:         logger.With().Str("component", "application_service").Logger(),
		now:            time.Now,
	}
}

func (s *applicationService) Submit(ctx context.Context, studentID uint, payload dto.ApplicationCreateRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	program, err := s.programs.GetByID(ctx, payload.ProgramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrProgramNotFound
		}
		return dto.ApplicationResponse{}, err
	}
	if !program.Active {
		return dto.ApplicationResponse{}, ErrProgramNotOpen
	}

	if _, err := s.applications.FindByStudentAndProgram(ctx, studentID, payload.ProgramID); err == nil {
		return dto.ApplicationResponse{}, ErrApplicationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ApplicationResponse{}, err
	}

	application := models.Application{
		StudentID: studentID,
		ProgramID: payload.ProgramID,
		Status:    models.ApplicationStatusSubmitted,
		Note:      strings.TrimSpace(payload.Note),
	}

	if score, ok := s.snapshotScore(ctx, studentID, program); ok {
		application.MatchScore = &score
	}

	if err := s.applications.Create(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application.Program = program

	return dto.NewApplicationResponse(application), nil
}

// snapshotScore evaluates the program once with the student's verified
// qualifications. Programs without requirements cannot be scored.
func (s *applicationService) snapshotScore(ctx context.Context, studentID uint, program models.Program) (int, bool) {
	verified, err := s.qualifications.List(ctx, repository.QualificationFilter{StudentID: &studentID, VerifiedOnly: true})
	if err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to snapshot match score")
		return 0, false
	}

	qualifications := make([]matching.Qualification, 0, len(verified))
	for _, qualification := range verified {
		qualifications = append(qualifications, qualification.MatcherInput())
	}

	weights := s.options.Weights
	if weights == (matching.Weights{}) {
		weights = matching.DefaultWeights()
	}

	result, ok := matching.EvaluateProgram(program.MatcherInput(), qualifications, weights)
	if !ok {
		return 0, false
	}

	return result.Score, true
}

func (s *applicationService) ListByStudent(ctx context.Context, studentID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.List(ctx, repository.ApplicationFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	return dto.NewApplicationResponseSlice(applications), nil
}

func (s *applicationService) Withdraw(ctx context.Context, studentID, id uint) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	if application.StudentID != studentID {
		return dto.ApplicationResponse{}, ErrApplicationForbidden
	}

	switch application.Status {
	case models.ApplicationStatusSubmitted, models.ApplicationStatusUnderReview:
	default:
		return dto.ApplicationResponse{}, ErrInvalidTransition
	}

	application.Status = models.ApplicationStatusWithdrawn
	if err := s.applications.Update(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) ListByProgram(ctx context.Context, programID uint, status string) ([]dto.ApplicationResponse, error) {
	filter := repository.ApplicationFilter{ProgramID: &programID, Status: strings.TrimSpace(status)}

	applications, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewApplicationResponseSlice(applications), nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, actor ActivityActor, id uint, payload dto.ApplicationStatusRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	if !transitionAllowed(application.Status, payload.Status) {
		return dto.ApplicationResponse{}, ErrInvalidTransition
	}

	application.Status = payload.Status
	if note := strings.TrimSpace(payload.Note); note != "" {
		application.Note = note
	}

	if err := s.applications.Update(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "application." + payload.Status,
			EntityType: "application",
			EntityID:   &application.ID,
			Metadata: map[string]interface{}{
				"student_id": application.StudentID,
				"program_id": application.ProgramID,
			},
		})
	}

	return dto.NewApplicationResponse(application), nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
