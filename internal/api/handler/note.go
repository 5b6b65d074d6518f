package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/api/response"
	"github.com/adverra/backoffice/internal/api/validation"
	"github.com/adverra/backoffice/internal/lead"
)

type noteRequest struct {
	Content string `json:"content"`
}

type noteResponse struct {
	ID        string `json:"id"`
	LeadID    string `json:"leadId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toNoteResponse(n *lead.Note) noteResponse {
	return noteResponse{
		ID:        n.ID.String(),
		LeadID:    n.LeadID.String(),
		AuthorID:  n.AuthorID.String(),
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: n.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// NoteHandler handles lead note endpoints.
type NoteHandler struct {
	repo lead.NoteRepository
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(repo lead.NoteRepository) *NoteHandler {
	return &NoteHandler{repo: repo}
}

// Create handles POST /leads/{id}/notes. The authenticated user becomes the
// note's author.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		return
	}

	leadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateNoteRequest(validation.NoteRequest{Content: req.Content})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	n := &lead.Note{
		LeadID:   leadID,
		AuthorID: identity.UserID,
		Content:  req.Content,
	}

	if err := h.repo.Create(r.Context(), n); err != nil {
		if errors.Is(err, lead.ErrLeadNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lead not found", requestID)
			return
		}
		slog.Error("failed to create note", "error", err, "leadId", leadID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create note", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toNoteResponse(n), requestID)
}

// List handles GET /leads/{id}/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	leadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	notes, err := h.repo.ListByLead(r.Context(), leadID)
	if err != nil {
		slog.Error("failed to list notes", "error", err, "leadId", leadID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notes", requestID)
		return
	}

	items := make([]noteResponse, 0, len(notes))
	for i := range notes {
		items = append(items, toNoteResponse(&notes[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// authorizeNote fetches the note and checks that the caller may mutate it:
// only the note's author or an admin. Foreign notes read as 404, the same
// masking leads use. Returns nil after writing a response when the caller
// must not proceed.
func (h *NoteHandler) authorizeNote(w http.ResponseWriter, r *http.Request, id uuid.UUID, requestID string) *lead.Note {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		return nil
	}

	n, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, lead.ErrNoteNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Note not found", requestID)
			return nil
		}
		slog.Error("failed to get note", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get note", requestID)
		return nil
	}

	if !identity.IsAdmin() && n.AuthorID != identity.UserID {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Note not found", requestID)
		return nil
	}

	return n
}

// Update handles PATCH /notes/{id}. Only the note's author or an admin may
// edit a note.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	if h.authorizeNote(w, r, id, requestID) == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateNoteRequest(validation.NoteRequest{Content: req.Content})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	n, err := h.repo.Update(r.Context(), id, req.Content)
	if err != nil {
		if errors.Is(err, lead.ErrNoteNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Note not found", requestID)
			return
		}
		slog.Error("failed to update note", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update note", requestID)
		return
	}

	response.Success(w, http.StatusOK, toNoteResponse(n), requestID)
}

// Delete handles DELETE /notes/{id}. Only the note's author or an admin may
// delete a note.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	if h.authorizeNote(w, r, id, requestID) == nil {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, lead.ErrNoteNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Note not found", requestID)
			return
		}
		slog.Error("failed to delete note", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete note", requestID)
		return
	}

	response.NoContent(w)
}
