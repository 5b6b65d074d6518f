package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverra/backoffice/internal/api/handler"
	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/auth"
	"github.com/adverra/backoffice/internal/lead"
)

// --- Mock Repository ---

type mockLeadRepo struct {
	createAssignedFn func(ctx context.Context, fields lead.Fields) (*lead.Lead, error)
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*lead.Lead, error)
	listFn           func(ctx context.Context, filter lead.ListFilter) ([]lead.Lead, error)
	updateStatusFn   func(ctx context.Context, id uuid.UUID, status string) (*lead.Lead, error)
}

func (m *mockLeadRepo) CreateAssigned(ctx context.Context, fields lead.Fields) (*lead.Lead, error) {
	if m.createAssignedFn != nil {
		return m.createAssignedFn(ctx, fields)
	}
	now := time.Now().UTC()
	return &lead.Lead{
		ID:           uuid.New(),
		BusinessName: fields.BusinessName,
		Email:        fields.Email,
		Status:       lead.StatusNotContacted,
		AssignedTo:   uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (m *mockLeadRepo) GetByID(ctx context.Context, id uuid.UUID) (*lead.Lead, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, lead.ErrLeadNotFound
}

func (m *mockLeadRepo) List(ctx context.Context, filter lead.ListFilter) ([]lead.Lead, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []lead.Lead{}, nil
}

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*lead.Lead, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil, lead.ErrLeadNotFound
}

// --- Helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func makeAuthRequest(method, path string, body []byte, params map[string]string, identity *auth.Identity) (*http.Request, *httptest.ResponseRecorder) {
	req, w := makeChiRequest(method, path, body, params)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func adminIdentity() *auth.Identity {
	return &auth.Identity{
		UserID:   uuid.New(),
		UserName: "admin",
		Role:     auth.RoleAdmin,
	}
}

func salesIdentity(userID uuid.UUID) *auth.Identity {
	return &auth.Identity{
		UserID:   userID,
		UserName: "sales-agent",
		Role:     auth.RoleSales,
	}
}

func sampleLead(id, assignedTo uuid.UUID) *lead.Lead {
	now := time.Now().UTC()
	return &lead.Lead{
		ID:           id,
		BusinessName: "Nile Bakery",
		Name:         "Omar",
		Email:        "omar@nilebakery.example",
		Phone:        "+201000000000",
		Government:   "Cairo",
		Budget:       1500,
		HasWebsite:   false,
		Message:      "Interested in social media management",
		Status:       lead.StatusNotContacted,
		AssignedTo:   assignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ===== POST /leads =====

func TestLeadSubmit_Success(t *testing.T) {
	t.Parallel()

	agentID := uuid.New()
	repo := &mockLeadRepo{
		createAssignedFn: func(_ context.Context, fields lead.Fields) (*lead.Lead, error) {
			assert.Equal(t, "Nile Bakery", fields.BusinessName)
			l := sampleLead(uuid.New(), agentID)
			l.BusinessName = fields.BusinessName
			return l, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"businessName": "Nile Bakery",
		"email":        "omar@nilebakery.example",
		"budget":       1500,
	})

	req, w := makeChiRequest(http.MethodPost, "/leads", body, nil)
	h.Submit(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	env := parseEnvelope(t, w)
	assert.Nil(t, env["error"])
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "Nile Bakery", data["businessName"])
	assert.Equal(t, lead.StatusNotContacted, data["status"])
	assert.Equal(t, agentID.String(), data["assignedTo"])
}

func TestLeadSubmit_ValidationError(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"businessName": "",
		"budget":       -5,
	})

	req, w := makeChiRequest(http.MethodPost, "/leads", body, nil)
	h.Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.NotNil(t, errObj["details"])
}

func TestLeadSubmit_InvalidJSON(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{}
	h := handler.NewLeadHandler(repo)

	req, w := makeChiRequest(http.MethodPost, "/leads", []byte("{invalid"), nil)
	h.Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_JSON", errObj["code"])
}

func TestLeadSubmit_NoAgentsAvailable(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{
		createAssignedFn: func(_ context.Context, _ lead.Fields) (*lead.Lead, error) {
			return nil, lead.ErrNoAgentsAvailable
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"businessName": "Nile Bakery",
	})

	req, w := makeChiRequest(http.MethodPost, "/leads", body, nil)
	h.Submit(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "NO_AGENTS_AVAILABLE", errObj["code"])
}

func TestLeadSubmit_DuplicateID(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{
		createAssignedFn: func(_ context.Context, _ lead.Fields) (*lead.Lead, error) {
			return nil, lead.ErrDuplicateLeadID
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"id":           uuid.New().String(),
		"businessName": "Nile Bakery",
	})

	req, w := makeChiRequest(http.MethodPost, "/leads", body, nil)
	h.Submit(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "DUPLICATE_ID", errObj["code"])
}

// ===== GET /leads =====

func TestLeadList_AdminSeesAll(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{
		listFn: func(_ context.Context, filter lead.ListFilter) ([]lead.Lead, error) {
			assert.Nil(t, filter.AssignedTo, "admin listing must not be filtered")
			return []lead.Lead{*sampleLead(uuid.New(), uuid.New()), *sampleLead(uuid.New(), uuid.New())}, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	req, w := makeAuthRequest(http.MethodGet, "/leads", nil, nil, adminIdentity())
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].([]interface{})
	assert.Len(t, data, 2)

	meta := env["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total"])
}

func TestLeadList_SalesScopedToOwn(t *testing.T) {
	t.Parallel()

	me := uuid.New()
	repo := &mockLeadRepo{
		listFn: func(_ context.Context, filter lead.ListFilter) ([]lead.Lead, error) {
			require.NotNil(t, filter.AssignedTo)
			assert.Equal(t, me, *filter.AssignedTo)
			return []lead.Lead{*sampleLead(uuid.New(), me)}, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	req, w := makeAuthRequest(http.MethodGet, "/leads", nil, nil, salesIdentity(me))
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].([]interface{})
	assert.Len(t, data, 1)
}

// ===== GET /leads/{id} =====

func TestLeadGetByID_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockLeadRepo{
		getByIDFn: func(_ context.Context, reqID uuid.UUID) (*lead.Lead, error) {
			assert.Equal(t, id, reqID)
			return sampleLead(id, uuid.New()), nil
		},
	}
	h := handler.NewLeadHandler(repo)

	req, w := makeAuthRequest(http.MethodGet, "/leads/"+id.String(), nil, map[string]string{"id": id.String()}, adminIdentity())
	h.GetByID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, id.String(), data["id"])
}

func TestLeadGetByID_SalesCannotSeeOthers(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockLeadRepo{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*lead.Lead, error) {
			return sampleLead(id, uuid.New()), nil
		},
	}
	h := handler.NewLeadHandler(repo)

	identity := salesIdentity(uuid.New())
	req, w := makeAuthRequest(http.MethodGet, "/leads/"+id.String(), nil, map[string]string{"id": id.String()}, identity)
	h.GetByID(w, req)

	// Another agent's lead looks like it does not exist.
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeadGetByID_InvalidUUID(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{}
	h := handler.NewLeadHandler(repo)

	req, w := makeAuthRequest(http.MethodGet, "/leads/not-a-uuid", nil, map[string]string{"id": "not-a-uuid"}, adminIdentity())
	h.GetByID(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_ID", errObj["code"])
}

// ===== PATCH /leads/{id}/status =====

func TestLeadUpdateStatus_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockLeadRepo{
		updateStatusFn: func(_ context.Context, reqID uuid.UUID, status string) (*lead.Lead, error) {
			assert.Equal(t, id, reqID)
			l := sampleLead(id, uuid.New())
			l.Status = status
			return l, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"status": lead.StatusDoneDeal})

	req, w := makeAuthRequest(http.MethodPatch, "/leads/"+id.String()+"/status", body, map[string]string{"id": id.String()}, adminIdentity())
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, lead.StatusDoneDeal, data["status"])
}

func TestLeadUpdateStatus_SalesOwnLead(t *testing.T) {
	t.Parallel()

	agentID := uuid.New()
	id := uuid.New()
	repo := &mockLeadRepo{
		getByIDFn: func(_ context.Context, reqID uuid.UUID) (*lead.Lead, error) {
			assert.Equal(t, id, reqID)
			return sampleLead(id, agentID), nil
		},
		updateStatusFn: func(_ context.Context, reqID uuid.UUID, status string) (*lead.Lead, error) {
			l := sampleLead(reqID, agentID)
			l.Status = status
			return l, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"status": lead.StatusFollowUp})

	req, w := makeAuthRequest(http.MethodPatch, "/leads/"+id.String()+"/status", body, map[string]string{"id": id.String()}, salesIdentity(agentID))
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, lead.StatusFollowUp, data["status"])
}

func TestLeadUpdateStatus_SalesOtherAgentsLead(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	otherAgent := uuid.New()
	repo := &mockLeadRepo{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*lead.Lead, error) {
			return sampleLead(id, otherAgent), nil
		},
		updateStatusFn: func(_ context.Context, _ uuid.UUID, _ string) (*lead.Lead, error) {
			t.Fatal("status must not be updated for another agent's lead")
			return nil, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"status": lead.StatusDoneDeal})

	req, w := makeAuthRequest(http.MethodPatch, "/leads/"+id.String()+"/status", body, map[string]string{"id": id.String()}, salesIdentity(uuid.New()))
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "businessName", "response must not expose the lead record")

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestLeadUpdateStatus_Unauthenticated(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	h := handler.NewLeadHandler(&mockLeadRepo{})

	body, _ := json.Marshal(map[string]interface{}{"status": lead.StatusDoneDeal})

	req, w := makeChiRequest(http.MethodPatch, "/leads/"+id.String()+"/status", body, map[string]string{"id": id.String()})
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeadUpdateStatus_UnknownStatus(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockLeadRepo{}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"status": "Ghosted"})

	req, w := makeAuthRequest(http.MethodPatch, "/leads/"+id.String()+"/status", body, map[string]string{"id": id.String()}, adminIdentity())
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestLeadUpdateStatus_NotFound(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockLeadRepo{
		updateStatusFn: func(_ context.Context, _ uuid.UUID, _ string) (*lead.Lead, error) {
			return nil, lead.ErrLeadNotFound
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"status": lead.StatusFollowUp})

	req, w := makeAuthRequest(http.MethodPatch, "/leads/"+id.String()+"/status", body, map[string]string{"id": id.String()}, adminIdentity())
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
