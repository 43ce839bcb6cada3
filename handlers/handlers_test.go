package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftday/middleware"
	"draftday/models"
	"draftday/repositories"
	"draftday/services"
)

var jwtSecret = []byte("test-secret")

type testServer struct {
	router *chi.Mux
	events services.EventService
}

// newTestServer wires the handlers over real services and the in-memory
// repository, mirroring the production route layout minus the websocket.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repositories.NewMemoryEventRepository(24 * time.Hour)

	eventSvc := services.NewEventService(repo, nil, logger)
	matchSvc := services.NewMatchService(repo, nil, logger)
	authSvc := services.NewAuthService(services.AuthConfig{
		AdminPassword: "hostpw",
		JWTSecret:     jwtSecret,
	})

	eventHandler := NewEventHandler(eventSvc)
	matchHandler := NewMatchHandler(matchSvc)
	authHandler := NewAuthHandler(authSvc)

	router := chi.NewRouter()
	router.Post("/verify-password", authHandler.VerifyPasswordHandler)
	router.Route("/event", func(r chi.Router) {
		r.Post("/", eventHandler.CreateEventHandler)
		r.Get("/code/{code}", eventHandler.GetEventByCodeHandler)
		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/", eventHandler.GetEventHandler)
			r.Get("/stage", eventHandler.GetStageHandler)
			r.Get("/standings", eventHandler.StandingsHandler)
			r.Get("/match/{matchID}", matchHandler.GetMatchHandler)
			r.Put("/match/{matchID}", matchHandler.ReportResultHandler)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireHost(jwtSecret))
				r.Post("/start", eventHandler.StartEventHandler)
				r.Post("/rounds/{roundNumber}/pairings", eventHandler.GeneratePairingsHandler)
			})
		})
	})

	return &testServer{router: router, events: eventSvc}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (ts *testServer) seedEventWithRound(t *testing.T) *models.EventSession {
	t.Helper()
	ctx := context.Background()
	event := &models.EventSession{ID: "evt-1", Type: models.EventTypeDraft}
	for i := 0; i < 4; i++ {
		event.Players = append(event.Players, models.Player{
			ID:         fmt.Sprintf("p%d", i+1),
			Name:       fmt.Sprintf("Player %d", i+1),
			SeatNumber: i + 1,
			IsHost:     i == 0,
		})
	}
	_, err := ts.events.CreateEvent(ctx, event)
	require.NoError(t, err)
	seeded, err := ts.events.GeneratePairings(ctx, "evt-1", 1)
	require.NoError(t, err)
	return seeded
}

func TestCreateEventEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/event", map[string]interface{}{
		"id":   "evt-9",
		"type": "sealed",
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "evt-9", body["id"])
	assert.Equal(t, "sealed", body["type"])
	assert.Equal(t, "setup", body["currentPhase"])
	assert.Len(t, body["eventCode"], 4)
}

func TestGetMissingEventEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/event/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportResultEndpoint(t *testing.T) {
	ts := newTestServer(t)
	event := ts.seedEventWithRound(t)
	match := event.Rounds[0].Matches[0]
	path := "/event/evt-1/match/" + match.ID

	rec := ts.do(t, http.MethodPut, path, map[string]interface{}{
		"result":     map[string]interface{}{"playerAWins": 2, "playerBWins": 1},
		"reportedBy": match.PlayerAID,
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["alreadyReported"])
	assert.Equal(t, match.PlayerAID, body["reportedBy"])

	// The opponent races in with a contradictory score and gets the committed
	// values back as a success.
	rec = ts.do(t, http.MethodPut, path, map[string]interface{}{
		"result":     map[string]interface{}{"playerAWins": 0, "playerBWins": 2},
		"reportedBy": *match.PlayerBID,
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["alreadyReported"])
	assert.Equal(t, match.PlayerAID, body["reportedBy"])
	result := body["result"].(map[string]interface{})
	assert.Equal(t, float64(2), result["playerAWins"])
}

func TestReportResultRequiresBody(t *testing.T) {
	ts := newTestServer(t)
	event := ts.seedEventWithRound(t)
	path := "/event/evt-1/match/" + event.Rounds[0].Matches[0].ID

	rec := ts.do(t, http.MethodPut, path, map[string]interface{}{"reportedBy": "p1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportResultNonParticipant(t *testing.T) {
	ts := newTestServer(t)
	event := ts.seedEventWithRound(t)
	path := "/event/evt-1/match/" + event.Rounds[0].Matches[0].ID

	rec := ts.do(t, http.MethodPut, path, map[string]interface{}{
		"result":     map[string]interface{}{"playerAWins": 2},
		"reportedBy": "p999",
	}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStageEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.seedEventWithRound(t)

	rec := ts.do(t, http.MethodGet, "/event/evt-1/stage", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "setup:configuring", body["stage"])
	assert.NotEmpty(t, body["transitions"])
}

func TestVerifyPasswordEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/verify-password", map[string]interface{}{"password": "hostpw"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.NotEmpty(t, body["token"])

	rec = ts.do(t, http.MethodPost, "/verify-password", map[string]interface{}{"password": "nope"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
	assert.NotContains(t, body, "token")
}

func TestAdminRoutesRequireHostToken(t *testing.T) {
	ts := newTestServer(t)
	ts.seedEventWithRound(t)

	rec := ts.do(t, http.MethodPost, "/event/evt-1/start", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/event/evt-1/start", nil, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A token from the password endpoint opens the gate.
	rec = ts.do(t, http.MethodPost, "/verify-password", map[string]interface{}{"password": "hostpw"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["token"].(string)

	rec = ts.do(t, http.MethodPost, "/event/evt-1/start", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "drafting", body["currentPhase"])
}

func TestGeneratePairingsEndpointValidatesRoundParam(t *testing.T) {
	ts := newTestServer(t)
	ts.seedEventWithRound(t)

	rec := ts.do(t, http.MethodPost, "/verify-password", map[string]interface{}{"password": "hostpw"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["token"].(string)
	auth := map[string]string{"Authorization": "Bearer " + token}

	rec = ts.do(t, http.MethodPost, "/event/evt-1/rounds/two/pairings", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/event/evt-1/rounds/99/pairings", nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/event/evt-1/rounds/2/pairings", nil, auth)
	assert.Equal(t, http.StatusOK, rec.Code)
}
