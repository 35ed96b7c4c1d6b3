package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadassist/internal/breakdown/domain"
	"roadassist/internal/shared/apperrors"
	"roadassist/internal/shared/middleware"
	"roadassist/internal/shared/util"
)

type stubLifecycle struct {
	created    *domain.Breakdown
	createErr  error
	accepted   *domain.Breakdown
	acceptErr  error
	advanced   *domain.Breakdown
	advanceErr error
	cancelErr  error
	gotTarget  domain.Status
	gotReason  string
}

func (s *stubLifecycle) Create(_ context.Context, motoristID string, input domain.CreateBreakdownInput) (*domain.Breakdown, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	b := *s.created
	b.MotoristID = motoristID
	b.Title = input.Title
	return &b, nil
}

func (s *stubLifecycle) Accept(_ context.Context, _ string, _ domain.Actor) (*domain.Breakdown, error) {
	return s.accepted, s.acceptErr
}

func (s *stubLifecycle) AssignMechanic(_ context.Context, _, _ string, _ domain.Actor) (*domain.Breakdown, error) {
	return s.advanced, s.advanceErr
}

func (s *stubLifecycle) AdvanceStatus(_ context.Context, _ string, target domain.Status, _ domain.Actor) (*domain.Breakdown, error) {
	s.gotTarget = target
	return s.advanced, s.advanceErr
}

func (s *stubLifecycle) Cancel(_ context.Context, _ string, _ domain.Actor, reason string) (*domain.Breakdown, error) {
	s.gotReason = reason
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return s.advanced, nil
}

func (s *stubLifecycle) FindVisibleTo(_ context.Context, _ domain.Actor) ([]domain.Breakdown, error) {
	return []domain.Breakdown{*s.created}, nil
}

func (s *stubLifecycle) GetByID(_ context.Context, _ string) (*domain.Breakdown, error) {
	return s.created, nil
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, userID, role string) (domain.Actor, error) {
	return domain.Actor{UserID: userID, Role: role}, nil
}

func newTestMux(s *stubLifecycle) *http.ServeMux {
	h := NewHandler(s, stubResolver{}, util.NewLogger())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func authedRequest(method, target string, body []byte, userID, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return req.WithContext(ctx)
}

func sampleBreakdown() *domain.Breakdown {
	return &domain.Breakdown{
		ID:            "bd-1",
		Reference:     "DEP_20250117_142310_042",
		MotoristID:    "moto-1",
		Title:         "Panne de batterie",
		BreakdownType: "battery",
		Latitude:      4.0511,
		Longitude:     9.7679,
		Status:        domain.StatusPending,
	}
}

func TestCreateBreakdownEndpoint(t *testing.T) {
	stub := &stubLifecycle{created: sampleBreakdown()}
	mux := newTestMux(stub)

	body, _ := json.Marshal(CreateBreakdownRequest{
		Title: "Panne de batterie", Latitude: 4.0511, Longitude: 9.7679,
	})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/breakdowns", body, "moto-1", domain.RoleMotorist))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BreakdownResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "moto-1", resp.MotoristID)
	assert.Equal(t, "pending", resp.Status)
}

func TestCreateBreakdownRejectsNonMotorists(t *testing.T) {
	mux := newTestMux(&stubLifecycle{created: sampleBreakdown()})

	body, _ := json.Marshal(CreateBreakdownRequest{Title: "x", Latitude: 1, Longitude: 1})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/breakdowns", body, "owner-1", domain.RoleGarage))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateBreakdownRejectsUnknownFields(t *testing.T) {
	mux := newTestMux(&stubLifecycle{created: sampleBreakdown()})

	rec := httptest.NewRecorder()
	body := []byte(`{"title":"x","latitude":1,"longitude":1,"status":"completed"}`)
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/breakdowns", body, "moto-1", domain.RoleMotorist))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptEndpointMapsConflictTo409(t *testing.T) {
	stub := &stubLifecycle{acceptErr: apperrors.Conflictf("breakdown bd-1 is no longer pending")}
	mux := newTestMux(stub)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPatch, "/breakdowns/bd-1/accept", nil, "owner-1", domain.RoleGarage))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	b := sampleBreakdown()
	b.Status = domain.StatusMechanicOnWay
	stub := &stubLifecycle{advanced: b}
	mux := newTestMux(stub)

	body, _ := json.Marshal(UpdateStatusRequest{Status: "mechanic_on_way"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPatch, "/breakdowns/bd-1/status", body, "mech-user-1", domain.RoleMechanic))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusMechanicOnWay, stub.gotTarget)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	mux := newTestMux(&stubLifecycle{})

	body, _ := json.Marshal(UpdateStatusRequest{Status: "levitating"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPatch, "/breakdowns/bd-1/status", body, "mech-user-1", domain.RoleMechanic))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusMapsInvalidTransitionTo422(t *testing.T) {
	stub := &stubLifecycle{advanceErr: apperrors.InvalidTransitionf("cannot move from pending to diagnosing")}
	mux := newTestMux(stub)

	body, _ := json.Marshal(UpdateStatusRequest{Status: "diagnosing"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPatch, "/breakdowns/bd-1/status", body, "mech-user-1", domain.RoleMechanic))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCancelEndpointWithEmptyBody(t *testing.T) {
	b := sampleBreakdown()
	b.Status = domain.StatusCancelled
	stub := &stubLifecycle{advanced: b}
	mux := newTestMux(stub)

	// cancelling without a body is allowed, the reason defaults downstream
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPatch, "/breakdowns/bd-1/cancel", nil, "moto-1", domain.RoleMotorist))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, stub.gotReason)
}

func TestListBreakdownsEndpoint(t *testing.T) {
	mux := newTestMux(&stubLifecycle{created: sampleBreakdown()})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/breakdowns", nil, "moto-1", domain.RoleMotorist))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []BreakdownResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "DEP_20250117_142310_042", resp[0].Reference)
}
