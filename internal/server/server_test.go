package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/campus-events-api/internal/auth"
	"github.com/gravadigital/campus-events-api/internal/certificate"
	"github.com/gravadigital/campus-events-api/internal/config"
	"github.com/gravadigital/campus-events-api/internal/services"
	"github.com/gravadigital/campus-events-api/internal/storage/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Reason  string          `json:"reason"`
}

type testAPI struct {
	router   *gin.Engine
	verifier *auth.Verifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowOrigins = "http://localhost:3000"
	cfg.CORS.AllowMethods = "GET,POST,PUT,PATCH"
	cfg.CORS.AllowHeaders = "Authorization,Content-Type"
	cfg.App.PublicURL = "http://localhost:3000"

	store := memory.New()
	verifier := auth.NewVerifier("server-test-secret", "", "authenticated")
	svc := services.New(store, services.Options{
		Renderer:  certificate.NewRenderer(""),
		PublicURL: cfg.App.PublicURL,
	})

	return &testAPI{
		router:   New(cfg, store, svc, verifier).Router(),
		verifier: verifier,
	}
}

func (a *testAPI) token(t *testing.T, email, role string) string {
	t.Helper()
	token, err := a.verifier.Issue(auth.Identity{
		Subject:  uuid.New(),
		Email:    email,
		FullName: "Test User",
		Role:     role,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	var req *http.Request
	if reader != nil {
		req = httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// provision signs up a profile and returns its token
func (a *testAPI) provision(t *testing.T, email, role string) string {
	t.Helper()
	token := a.token(t, email, role)
	w := a.do(t, http.MethodPost, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func dataField(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestPingAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = api.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProvisioning(t *testing.T) {
	api := newTestAPI(t)
	token := api.token(t, "ana@uni.edu", "student")

	w := api.do(t, http.MethodGet, "/api/me/profile", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "profile_missing", decode(t, w).Reason)

	w = api.do(t, http.MethodPost, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPut, "/api/me/profile", token, map[string]string{"department": "Physics"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/me/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email      string `json:"email"`
		Department string `json:"department"`
		Role       string `json:"role"`
	}
	dataField(t, decode(t, w), &me)
	assert.Equal(t, "ana@uni.edu", me.Email)
	assert.Equal(t, "Physics", me.Department)
	assert.Equal(t, "student", me.Role)

	w = api.do(t, http.MethodGet, "/api/me/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParticipationFlow(t *testing.T) {
	api := newTestAPI(t)
	organizer := api.provision(t, "org@uni.edu", "organizer")
	student := api.provision(t, "ana@uni.edu", "student")
	walkIn := api.provision(t, "ben@uni.edu", "student")

	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	create := map[string]interface{}{
		"title":      "Kubernetes Day",
		"event_type": "workshop",
		"capacity":   25,
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.Add(4 * time.Hour).Format(time.RFC3339),
	}

	w := api.do(t, http.MethodPost, "/api/organizer/events", student, create)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "role_required", decode(t, w).Reason)

	w = api.do(t, http.MethodPost, "/api/organizer/events", organizer, create)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID    string `json:"id"`
		Stage string `json:"stage"`
	}
	dataField(t, decode(t, w), &created)
	assert.Equal(t, "published", created.Stage)
	eventPath := "/api/events/" + created.ID
	organizerPath := "/api/organizer/events/" + created.ID

	w = api.do(t, http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)

	w = api.do(t, http.MethodPost, eventPath+"/register", student, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, eventPath+"/register", student, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_registered", decode(t, w).Reason)

	w = api.do(t, http.MethodPost, eventPath+"/checkin", walkIn, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_registered", decode(t, w).Reason)

	w = api.do(t, http.MethodPost, eventPath+"/checkin", student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var checkIn struct {
		Outcome string `json:"outcome"`
	}
	dataField(t, decode(t, w), &checkIn)
	assert.Equal(t, "checked_in", checkIn.Outcome)

	w = api.do(t, http.MethodPost, organizerPath+"/attendance", organizer, map[string]string{"email": "BEN@uni.edu"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dataField(t, decode(t, w), &checkIn)
	assert.Equal(t, "walk_in", checkIn.Outcome)

	w = api.do(t, http.MethodPost, organizerPath+"/attendance", student, map[string]string{"email": "ben@uni.edu"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, organizerPath+"/participants", organizer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var roster struct {
		Count int `json:"count"`
	}
	dataField(t, decode(t, w), &roster)
	assert.Equal(t, 2, roster.Count)

	w = api.do(t, http.MethodGet, "/api/me/certificates", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var certs struct {
		Certificates []struct {
			ParticipationID string `json:"participation_id"`
			EventTitle      string `json:"event_title"`
		} `json:"certificates"`
	}
	dataField(t, decode(t, w), &certs)
	require.Len(t, certs.Certificates, 1)
	assert.Equal(t, "Kubernetes Day", certs.Certificates[0].EventTitle)

	w = api.do(t, http.MethodGet, "/api/me/certificates/"+certs.Certificates[0].ParticipationID+"/pdf", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Kubernetes_Day_Certificate.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = api.do(t, http.MethodGet, "/api/me/certificates/"+certs.Certificates[0].ParticipationID+"/pdf", walkIn, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, organizerPath+"/checkin-qr", organizer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = api.do(t, http.MethodPatch, organizerPath+"/stage", organizer, map[string]string{"stage": "ongoing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodPatch, organizerPath+"/stage", organizer, map[string]string{"stage": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, organizerPath+"/banner", organizer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvanceEndpoint(t *testing.T) {
	api := newTestAPI(t)
	organizer := api.provision(t, "org@uni.edu", "organizer")
	student := api.provision(t, "ana@uni.edu", "student")

	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	w := api.do(t, http.MethodPost, "/api/organizer/events", organizer, map[string]interface{}{
		"title":      "Research Poster Session",
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	dataField(t, decode(t, w), &created)

	w = api.do(t, http.MethodGet, "/api/me/profile", student, nil)
	var me struct {
		ID string `json:"id"`
	}
	dataField(t, decode(t, w), &me)

	advancePath := "/api/organizer/events/" + created.ID + "/participants/" + me.ID + "/advance"

	w = api.do(t, http.MethodPost, advancePath, organizer, map[string]interface{}{"status": "contributed", "score": 90})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "participation_not_found", decode(t, w).Reason)

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/events/"+created.ID+"/register", student, nil).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/events/"+created.ID+"/checkin", student, nil).Code)

	w = api.do(t, http.MethodPost, advancePath, organizer, map[string]interface{}{"status": "certified"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", decode(t, w).Reason)

	w = api.do(t, http.MethodPost, advancePath, organizer, map[string]interface{}{"status": "contributed", "score": 90})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var p struct {
		Status            string  `json:"status"`
		ContributionScore float64 `json:"contribution_score"`
	}
	dataField(t, decode(t, w), &p)
	assert.Equal(t, "contributed", p.Status)
	assert.InDelta(t, 90, p.ContributionScore, 0.001)

	w = api.do(t, http.MethodPost, advancePath, organizer, map[string]interface{}{"status": "nonsense"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/organizer/events/not-a-uuid/participants/"+me.ID+"/advance", organizer, map[string]interface{}{"status": "certified"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
