package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverra/backoffice/internal/api/handler"
	"github.com/adverra/backoffice/internal/lead"
)

// --- Mock Repository ---

type mockNoteRepo struct {
	createFn     func(ctx context.Context, n *lead.Note) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*lead.Note, error)
	listByLeadFn func(ctx context.Context, leadID uuid.UUID) ([]lead.Note, error)
	updateFn     func(ctx context.Context, id uuid.UUID, content string) (*lead.Note, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockNoteRepo) Create(ctx context.Context, n *lead.Note) error {
	if m.createFn != nil {
		return m.createFn(ctx, n)
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt
	return nil
}

func (m *mockNoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*lead.Note, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, lead.ErrNoteNotFound
}

func sampleNote(id, leadID, authorID uuid.UUID) *lead.Note {
	now := time.Now().UTC()
	return &lead.Note{
		ID:        id,
		LeadID:    leadID,
		AuthorID:  authorID,
		Content:   "left a voicemail",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *mockNoteRepo) ListByLead(ctx context.Context, leadID uuid.UUID) ([]lead.Note, error) {
	if m.listByLeadFn != nil {
		return m.listByLeadFn(ctx, leadID)
	}
	return []lead.Note{}, nil
}

func (m *mockNoteRepo) Update(ctx context.Context, id uuid.UUID, content string) (*lead.Note, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, content)
	}
	return nil, lead.ErrNoteNotFound
}

func (m *mockNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// ===== POST /leads/{id}/notes =====

func TestNoteCreate_Success(t *testing.T) {
	t.Parallel()

	identity := salesIdentity(uuid.New())
	leadID := uuid.New()

	repo := &mockNoteRepo{
		createFn: func(_ context.Context, n *lead.Note) error {
			assert.Equal(t, leadID, n.LeadID)
			assert.Equal(t, identity.UserID, n.AuthorID, "author must come from the authenticated identity")
			n.ID = uuid.New()
			n.CreatedAt = time.Now().UTC()
			n.UpdatedAt = n.CreatedAt
			return nil
		},
	}
	h := handler.NewNoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"content": "called, no answer"})

	req, w := makeAuthRequest(http.MethodPost, "/leads/"+leadID.String()+"/notes", body, map[string]string{"id": leadID.String()}, identity)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "called, no answer", data["content"])
	assert.Equal(t, identity.UserID.String(), data["authorId"])
}

func TestNoteCreate_LeadNotFound(t *testing.T) {
	t.Parallel()

	leadID := uuid.New()
	repo := &mockNoteRepo{
		createFn: func(_ context.Context, _ *lead.Note) error {
			return lead.ErrLeadNotFound
		},
	}
	h := handler.NewNoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"content": "orphan note"})

	req, w := makeAuthRequest(http.MethodPost, "/leads/"+leadID.String()+"/notes", body, map[string]string{"id": leadID.String()}, salesIdentity(uuid.New()))
	h.Create(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoteCreate_EmptyContent(t *testing.T) {
	t.Parallel()

	leadID := uuid.New()
	repo := &mockNoteRepo{}
	h := handler.NewNoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"content": "   "})

	req, w := makeAuthRequest(http.MethodPost, "/leads/"+leadID.String()+"/notes", body, map[string]string{"id": leadID.String()}, salesIdentity(uuid.New()))
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

// ===== GET /leads/{id}/notes =====

func TestNoteList_Success(t *testing.T) {
	t.Parallel()

	leadID := uuid.New()
	repo := &mockNoteRepo{
		listByLeadFn: func(_ context.Context, reqID uuid.UUID) ([]lead.Note, error) {
			assert.Equal(t, leadID, reqID)
			now := time.Now().UTC()
			return []lead.Note{
				{ID: uuid.New(), LeadID: leadID, AuthorID: uuid.New(), Content: "first call", CreatedAt: now, UpdatedAt: now},
				{ID: uuid.New(), LeadID: leadID, AuthorID: uuid.New(), Content: "follow up", CreatedAt: now, UpdatedAt: now},
			}, nil
		},
	}
	h := handler.NewNoteHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/leads/"+leadID.String()+"/notes", nil, map[string]string{"id": leadID.String()})
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].([]interface{})
	require.Len(t, data, 2)
}

// ===== PATCH /notes/{id} =====

func TestNoteUpdate_AuthorEditsOwn(t *testing.T) {
	t.Parallel()

	identity := salesIdentity(uuid.New())
	id := uuid.New()
	repo := &mockNoteRepo{
		getByIDFn: func(_ context.Context, reqID uuid.UUID) (*lead.Note, error) {
			assert.Equal(t, id, reqID)
			return sampleNote(id, uuid.New(), identity.UserID), nil
		},
		updateFn: func(_ context.Context, reqID uuid.UUID, content string) (*lead.Note, error) {
			n := sampleNote(reqID, uuid.New(), identity.UserID)
			n.Content = content
			return n, nil
		},
	}
	h := handler.NewNoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"content": "edited"})

	req, w := makeAuthRequest(http.MethodPatch, "/notes/"+id.String(), body, map[string]string{"id": id.String()}, identity)
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "edited", data["content"])
}

func TestNoteUpdate_OtherAuthorsNote(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockNoteRepo{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*lead.Note, error) {
			return sampleNote(id, uuid.New(), uuid.New()), nil
		},
		updateFn: func(_ context.Context, _ uuid.UUID, _ string) (*lead.Note, error) {
			t.Fatal("another author's note must not be updated")
			return nil, nil
		},
	}
	h := handler.NewNoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"content": "rewriting history"})

	req, w := makeAuthRequest(http.MethodPatch, "/notes/"+id.String(), body, map[string]string{"id": id.String()}, salesIdentity(uuid.New()))
	h.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestNoteUpdate_AdminEditsAny(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockNoteRepo{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*lead.Note, error) {
			return sampleNote(id, uuid.New(), uuid.New()), nil
		},
		updateFn: func(_ context.Context, reqID uuid.UUID, content string) (*lead.Note, error) {
			n := sampleNote(reqID, uuid.New(), uuid.New())
			n.Content = content
			return n, nil
		},
	}
	h := handler.NewNoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"content": "cleaned up"})

	req, w := makeAuthRequest(http.MethodPatch, "/notes/"+id.String(), body, map[string]string{"id": id.String()}, adminIdentity())
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNoteUpdate_NotFound(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockNoteRepo{}
	h := handler.NewNoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"content": "edited"})

	req, w := makeAuthRequest(http.MethodPatch, "/notes/"+id.String(), body, map[string]string{"id": id.String()}, adminIdentity())
	h.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===== DELETE /notes/{id} =====

func TestNoteDelete_Success(t *testing.T) {
	t.Parallel()

	identity := salesIdentity(uuid.New())
	id := uuid.New()
	repo := &mockNoteRepo{
		getByIDFn: func(_ context.Context, reqID uuid.UUID) (*lead.Note, error) {
			return sampleNote(reqID, uuid.New(), identity.UserID), nil
		},
		deleteFn: func(_ context.Context, reqID uuid.UUID) error {
			assert.Equal(t, id, reqID)
			return nil
		},
	}
	h := handler.NewNoteHandler(repo)

	req, w := makeAuthRequest(http.MethodDelete, "/notes/"+id.String(), nil, map[string]string{"id": id.String()}, identity)
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNoteDelete_OtherAuthorsNote(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockNoteRepo{
		getByIDFn: func(_ context.Context, reqID uuid.UUID) (*lead.Note, error) {
			return sampleNote(reqID, uuid.New(), uuid.New()), nil
		},
		deleteFn: func(_ context.Context, _ uuid.UUID) error {
			t.Fatal("another author's note must not be deleted")
			return nil
		},
	}
	h := handler.NewNoteHandler(repo)

	req, w := makeAuthRequest(http.MethodDelete, "/notes/"+id.String(), nil, map[string]string{"id": id.String()}, salesIdentity(uuid.New()))
	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
