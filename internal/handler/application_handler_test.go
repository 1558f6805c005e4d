package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/handler"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/service"
)

type mockApplicationService struct {
	submittedBy   uint
	submitted     dto.ApplicationResponse
	submitErr     error
	statusActor   service.ActivityActor
	statusPayload dto.ApplicationStatusRequest
	statusErr     error
}

func (m *mockApplicationService) Submit(_ context.Context, studentID uint, _ dto.ApplicationCreateRequest) (dto.ApplicationResponse, error) {
	m.submittedBy = studentID
	if m.submitErr != nil {
		return dto.ApplicationResponse{}, m.submitErr
	}
	return m.submitted, nil
}

func (m *mockApplicationService) ListByStudent(context.Context, uint) ([]dto.ApplicationResponse, error) {
	return nil, nil
}

func (m *mockApplicationService) Withdraw(context.Context, uint, uint) (dto.ApplicationResponse, error) {
	return dto.ApplicationResponse{Status: models.ApplicationStatusWithdrawn}, nil
}

func (m *mockApplicationService) ListByProgram(context.Context, uint, string) ([]dto.ApplicationResponse, error) {
	return nil, nil
}

func (m *mockApplicationService) UpdateStatus(_ context.Context, actor service.ActivityActor, _ uint, payload dto.ApplicationStatusRequest) (dto.ApplicationResponse, error) {
	m.statusActor = actor
	m.statusPayload = payload
	if m.statusErr != nil {
		return dto.ApplicationResponse{}, m.statusErr
	}
	return dto.ApplicationResponse{ID: 1, Status: payload.Status}, nil
}

func newApplicationApp(svc service.ApplicationService, auth fiber.Handler) *fiber.App {
	app := fiber.New()
	logger := zerolog.New(io.Discard)

	applications := app.Group("/api/v1/applications")
	admin := app.Group("/api/v1/admin")
	if auth != nil {
		applications.Use(auth)
		admin.Use(auth)
	}
	h := handler.NewApplicationHandler(svc, logger)
	h.Register(applications)
	h.RegisterAdmin(admin)

	return app
}

func TestApplicationHandler_Submit(t *testing.T) {
	score := 87
	svc := &mockApplicationService{submitted: dto.ApplicationResponse{
		ID: 1, StudentID: 42, ProgramID: 3,
		Status: models.ApplicationStatusSubmitted, MatchScore: &score,
	}}
	app := newApplicationApp(svc, authAs(42, models.RoleStudent))

	body, err := json.Marshal(dto.ApplicationCreateRequest{ProgramID: 3})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(42), svc.submittedBy)

	var response struct {
		Success bool                    `json:"success"`
		Data    dto.ApplicationResponse `json:"data"`
		Message string                  `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "application submitted", response.Message)
	require.NotNil(t, response.Data.MatchScore)
	require.Equal(t, 87, *response.Data.MatchScore)
}

func TestApplicationHandler_SubmitErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "duplicate", err: service.ErrApplicationExists, statusCode: fiber.StatusConflict},
		{name: "closed program", err: service.ErrProgramNotOpen, statusCode: fiber.StatusUnprocessableEntity},
		{name: "missing program", err: service.ErrProgramNotFound, statusCode: fiber.StatusNotFound},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockApplicationService{submitErr: tc.err}
			app := newApplicationApp(svc, authAs(42, models.RoleStudent))

			body, err := json.Marshal(dto.ApplicationCreateRequest{ProgramID: 3})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestApplicationHandler_SubmitRequiresAuth(t *testing.T) {
	app := newApplicationApp(&mockApplicationService{}, nil)

	body, err := json.Marshal(dto.ApplicationCreateRequest{ProgramID: 3})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestApplicationHandler_UpdateStatus(t *testing.T) {
	svc := &mockApplicationService{}
	app := newApplicationApp(svc, authAs(7, models.RoleDepartmentAdministrator))

	body, err := json.Marshal(dto.ApplicationStatusRequest{Status: models.ApplicationStatusAccepted})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/applications/1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), svc.statusActor.ID)
	require.Equal(t, models.RoleDepartmentAdministrator, svc.statusActor.Role)
	require.Equal(t, models.ApplicationStatusAccepted, svc.statusPayload.Status)
}

func TestApplicationHandler_UpdateStatusInvalidTransition(t *testing.T) {
	svc := &mockApplicationService{statusErr: service.ErrInvalidTransition}
	app := newApplicationApp(svc, authAs(7, models.RoleDepartmentAdministrator))

	body, err := json.Marshal(dto.ApplicationStatusRequest{Status: models.ApplicationStatusRejected})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/applications/1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
