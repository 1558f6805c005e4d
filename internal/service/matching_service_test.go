package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/matching"
	"github.com/noah-isme/unimatch-go-api/internal/models"
)

type matchingFixture struct {
	svc            MatchingService
	qualifications *fakeQualificationRepo
	programs       *fakeProgramRepo
	requirements   *fakeRequirementRepo
	mini           *miniredis.Miniredis
}

func newMatchingFixture(t *testing.T) matchingFixture {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	students := &fakeStudentRepo{students: map[uint]models.Student{
		1: {ID: 1, Name: "Ada", Email: "ada@example.com"},
	}}
	qualifications := newFakeQualificationRepo()
	programs := newFakeProgramRepo()
	requirements := newFakeRequirementRepo()

	svc := NewMatchingService(
		students, qualifications, programs, requirements,
		redisClient, time.Minute, matching.Options{},
		validator.New(validator.WithRequiredStructEnabled()), testLogger(),
	)

	return matchingFixture{
		svc:            svc,
		qualifications: qualifications,
		programs:       programs,
		requirements:   requirements,
		mini:           mini,
	}
}

func (f matchingFixture) seedMathProgram(t *testing.T, minGrade string) uint {
	t.Helper()

	program := models.Program{Name: "Mathematics BSc", Active: true}
	require.NoError(t, f.programs.Create(context.Background(), &program))

	requirement := models.ProgramRequirement{
		ProgramID: program.ID,
		Type:      matching.RequirementGrade,
		Subject:   "Mathematics",
		MinGrade:  minGrade,
	}
	require.NoError(t, f.requirements.Create(context.Background(), &requirement))

	program.Requirements = []models.ProgramRequirement{requirement}
	require.NoError(t, f.programs.Update(context.Background(), &program))

	return program.ID
}

func TestMatchProgramsRanksAndCaches(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	matchedID := f.seedMathProgram(t, "B3")

	// A program whose only requirement cannot be met scores zero and is
	// dropped by the cutoff.
	physics := models.Program{Name: "Physics BSc", Active: true}
	require.NoError(t, f.programs.Create(ctx, &physics))
	physics.Requirements = []models.ProgramRequirement{{
		ID: 900, ProgramID: physics.ID, Type: matching.RequirementGrade, Subject: "Physics", MinGrade: "B3",
	}}
	require.NoError(t, f.programs.Update(ctx, &physics))

	// Zero-requirement programs never appear in results.
	empty := models.Program{Name: "Open Studies", Active: true}
	require.NoError(t, f.programs.Create(ctx, &empty))

	require.NoError(t, f.qualifications.Create(ctx, &models.Qualification{
		StudentID: 1, Type: matching.QualificationHighSchool,
		Subject: "Mathematics", Grade: "B2", Verified: true,
	}))

	first, err := f.svc.MatchPrograms(ctx, 1)
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Len(t, first.Items, 1)
	require.Equal(t, matchedID, first.Items[0].ProgramID)
	require.Equal(t, 100, first.Items[0].MatchScore)
	require.Equal(t, 1, first.Items[0].MetRequirements)

	second, err := f.svc.MatchPrograms(ctx, 1)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Items, second.Items)
}

func TestMatchProgramsIgnoresUnverifiedQualifications(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	f.seedMathProgram(t, "B3")

	require.NoError(t, f.qualifications.Create(ctx, &models.Qualification{
		StudentID: 1, Type: matching.QualificationHighSchool,
		Subject: "Mathematics", Grade: "A1", Verified: false,
	}))

	result, err := f.svc.MatchPrograms(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, result.Items)
}

func TestMatchProgramsUnknownStudentReturnsEmpty(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	f.seedMathProgram(t, "B3")

	result, err := f.svc.MatchPrograms(ctx, 999)
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.False(t, result.CacheHit)
}

func TestHandleEventInvalidatesAffectedCaches(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	f.seedMathProgram(t, "B3")
	require.NoError(t, f.qualifications.Create(ctx, &models.Qualification{
		StudentID: 1, Type: matching.QualificationHighSchool,
		Subject: "Mathematics", Grade: "B2", Verified: true,
	}))

	_, err := f.svc.MatchPrograms(ctx, 1)
	require.NoError(t, err)
	require.True(t, f.mini.Exists("match:student:1"))

	f.svc.HandleEvent(Event{Name: EventQualificationChanged, StudentID: 1})
	require.False(t, f.mini.Exists("match:student:1"))

	_, err = f.svc.MatchPrograms(ctx, 1)
	require.NoError(t, err)
	require.True(t, f.mini.Exists("match:student:1"))

	f.svc.HandleEvent(Event{Name: EventRequirementChanged})
	require.False(t, f.mini.Exists("match:student:1"))
}

func TestEvaluateRequirementVerdicts(t *testing.T) {
	f := newMatchingFixture(t)
	ctx := context.Background()

	f.seedMathProgram(t, "B3")

	qualification := models.Qualification{
		StudentID: 1, Type: matching.QualificationHighSchool,
		Subject: "Mathematics", Grade: "B2", Verified: true,
	}
	require.NoError(t, f.qualifications.Create(ctx, &qualification))

	verdict, err := f.svc.EvaluateRequirement(ctx, dto.EvaluateRequirementRequest{
		QualificationID: qualification.ID,
		RequirementID:   1,
	})
	require.NoError(t, err)
	require.True(t, verdict.Matches)
	require.NotEmpty(t, verdict.Reason)

	_, err = f.svc.EvaluateRequirement(ctx, dto.EvaluateRequirementRequest{QualificationID: qualification.ID, RequirementID: 12345})
	require.ErrorIs(t, err, ErrRequirementNotFound)

	_, err = f.svc.EvaluateRequirement(ctx, dto.EvaluateRequirementRequest{QualificationID: 777, RequirementID: 1})
	require.ErrorIs(t, err, ErrQualificationNotFound)
}
