package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/matching"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/observability"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
)

// ErrQualificationNotFound indicates the qualification was not located.
var ErrQualificationNotFound = errors.New("qualification not found")

// ErrRequirementNotFound indicates the requirement was not located.
var ErrRequirementNotFound = errors.New("requirement not found")

const matchCacheKeyPattern = "match:student:*"

// MatchingService computes ranked program match lists for students and
// exposes the single-requirement matcher for admin debugging.
type MatchingService interface {
	MatchPrograms(ctx context.Context, studentID uint) (dto.MatchListResponse, error)
	EvaluateRequirement(ctx context.Context, payload dto.EvaluateRequirementRequest) (dto.EvaluateRequirementResponse, error)
	Invalidate(ctx context.Context, studentID uint)
	InvalidateAll(ctx context.Context)
	HandleEvent(event Event)
}

type matchingService struct {
	students       repository.StudentRepository
	qualifications repository.QualificationRepository
	programs       repository.ProgramRepository
	requirements   repository.RequirementRepository
	cache          *redis.Client
	cacheTTL       time.Duration
	options        matching.Options
	validator      *validator.Validate
	logger         zerolog.Logger
	tracer         trace.Tracer
}

// NewMatchingService constructs the matching service.
func NewMatchingService(
	students repository.StudentRepository,
	qualifications repository.QualificationRepository,
	programs repository.ProgramRepository,
	requirements repository.RequirementRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	options matching.Options,
	validate *validator.Validate,
	logger zerolog.Logger,
) MatchingService {
	return &matchingService{
		students:       students,
		qualifications: qualifications,
		programs:       programs,
		requirements:   requirements,
		cache:          cache,
		cacheTTL:       cacheTTL,
		options:        options,
		validator:      validate,
		logger:         logger.With().Str("component", "matching_service").Logger(),
		tracer:         otel.Tracer("github.com/noah-isme/unimatch-go-api/internal/service/matching"),
	}
}

func matchCacheKey(studentID uint) string {
	return fmt.Sprintf("match:student:%d", studentID)
}

func (s *matchingService) MatchPrograms(ctx context.Context, studentID uint) (dto.MatchListResponse, error) {
	ctx, span := s.tracer.Start(ctx, "matching.match_programs", trace.WithAttributes(
		attribute.Int64("matching.student_id", int64(studentID)),
	))
	defer span.End()

	cacheKey := matchCacheKey(studentID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var items []dto.ProgramMatchResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &items); unmarshalErr == nil {
				observability.MatchCacheLookups().WithLabelValues("hit").Inc()
				s.logger.Debug().Uint("student_id", studentID).Msg("match cache hit")
				return dto.MatchListResponse{Items: items, CacheHit: true}, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read match cache")
		}
		observability.MatchCacheLookups().WithLabelValues("miss").Inc()
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// An unresolvable student means "no matches", not a failure.
			span.SetAttributes(attribute.Bool("matching.student_missing", true))
			return dto.MatchListResponse{Items: []dto.ProgramMatchResponse{}}, nil
		}
		span.RecordError(err)
		return dto.MatchListResponse{}, err
	}

	// Unverified qualifications never count toward eligibility.
	verified, err := s.qualifications.List(ctx, repository.QualificationFilter{StudentID: &studentID, VerifiedOnly: true})
	if err != nil {
		span.RecordError(err)
		return dto.MatchListResponse{}, err
	}

	catalog, err := s.programs.ListCatalog(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.MatchListResponse{}, err
	}

	items := s.rank(catalog, verified)
	span.SetAttributes(
		attribute.Int("matching.catalog_size", len(catalog)),
		attribute.Int("matching.result_size", len(items)),
	)

	if s.cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store match cache")
			}
		}
	}

	return dto.MatchListResponse{Items: items}, nil
}

func (s *matchingService) rank(catalog []models.Program, verified []models.Qualification) []dto.ProgramMatchResponse {
	programsByID := make(map[uint]models.Program, len(catalog))
	programs := make([]matching.Program, 0, len(catalog))
	for _, program := range catalog {
		programsByID[program.ID] = program
		programs = append(programs, program.MatcherInput())
	}

	qualifications := make([]matching.Qualification, 0, len(verified))
	for _, qualification := range verified {
		qualifications = append(qualifications, qualification.MatcherInput())
	}

	results := matching.Rank(programs, qualifications, s.options)
	observability.MatchComputations().Inc()

	items := make([]dto.ProgramMatchResponse, 0, len(results))
	for _, result := range results {
		observability.MatchScores().Observe(float64(result.Score))
		items = append(items, dto.NewProgramMatchResponse(result, programsByID[result.ProgramID]))
	}

	return items
}

func (s *matchingService) EvaluateRequirement(ctx context.Context, payload dto.EvaluateRequirementRequest) (dto.EvaluateRequirementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluateRequirementResponse{}, err
	}

	qualification, err := s.qualifications.GetByID(ctx, payload.QualificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluateRequirementResponse{}, ErrQualificationNotFound
		}
		return dto.EvaluateRequirementResponse{}, err
	}

	requirement, err := s.requirements.GetByID(ctx, payload.RequirementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluateRequirementResponse{}, ErrRequirementNotFound
		}
		return dto.EvaluateRequirementResponse{}, err
	}

	evaluation := matching.EvaluateRequirement(qualification.MatcherInput(), requirement.MatcherInput())

	return dto.EvaluateRequirementResponse{Matches: evaluation.Matches, Reason: evaluation.Reason}, nil
}

// Invalidate drops the cached match list for one student.
func (s *matchingService) Invalidate(ctx context.Context, studentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, matchCacheKey(studentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to invalidate match cache")
	}
}

// InvalidateAll drops every cached match list. Used when catalog
// requirements change, which affects every student's ranking.
func (s *matchingService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, matchCacheKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", iter.Val()).Msg("failed to delete match cache entry")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("match cache scan failed")
	}
}

// HandleEvent reacts to domain events by dropping affected cache entries.
func (s *matchingService) HandleEvent(event Event) {
	ctx := context.Background()

	switch event.Name {
	case EventQualificationChanged, EventQualificationVerified:
		if event.StudentID > 0 {
			s.Invalidate(ctx, event.StudentID)
		}
	case EventRequirementChanged:
		s.InvalidateAll(ctx)
	}
}
