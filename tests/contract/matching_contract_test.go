package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/handler"
	"github.com/noah-isme/unimatch-go-api/internal/service"
)

type stubMatchingService struct {
	response dto.MatchListResponse
}

func (s stubMatchingService) MatchPrograms(context.Context, uint) (dto.MatchListResponse, error) {
	return s.response, nil
}

func (s stubMatchingService) EvaluateRequirement(context.Context, dto.EvaluateRequirementRequest) (dto.EvaluateRequirementResponse, error) {
	return dto.EvaluateRequirementResponse{}, nil
}

func (s stubMatchingService) Invalidate(context.Context, uint) {}

func (s stubMatchingService) InvalidateAll(context.Context) {}

func (s stubMatchingService) HandleEvent(service.Event) {}

func TestMatchListContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "match_list.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	qualificationID := uint(11)
	matches := dto.MatchListResponse{
		Items: []dto.ProgramMatchResponse{
			{
				ProgramID:         3,
				ProgramName:       "Mathematics BSc",
				Degree:            "BSc",
				DepartmentName:    "Mathematics",
				UniversityName:    "Aurora University",
				MatchScore:        100,
				MetRequirements:   2,
				TotalRequirements: 2,
				Requirements: []dto.RequirementMatchResponse{
					{
						RequirementID:   1,
						Type:            "GRADE",
						Subject:         "Mathematics",
						MinGrade:        "B3",
						Status:          "met",
						Reason:          "requirement satisfied",
						QualificationID: &qualificationID,
					},
					{
						RequirementID: 2,
						Type:          "LANGUAGE",
						Subject:       "English",
						MinGrade:      "B2",
						Status:        "met",
						Reason:        "requirement satisfied",
					},
				},
			},
			{
				ProgramID:         5,
				ProgramName:       "Physics BSc",
				MatchScore:        50,
				MetRequirements:   1,
				TotalRequirements: 2,
				Requirements: []dto.RequirementMatchResponse{
					{
						RequirementID: 4,
						Type:          "GRADE",
						Subject:       "Physics",
						MinGrade:      "B3",
						Status:        "not_met",
						Reason:        "no qualification covers subject Physics",
					},
				},
			},
		},
		CacheHit: true,
	}

	app := fiber.New()
	group := app.Group("/api/v1/matches", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return c.Next()
	})
	handler.NewMatchingHandler(stubMatchingService{response: matches}, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
