package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/api/response"
	"github.com/adverra/backoffice/internal/api/validation"
	"github.com/adverra/backoffice/internal/client"
)

type createClientRequest struct {
	BusinessName string  `json:"businessName"`
	ContactName  string  `json:"contactName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Industry     string  `json:"industry"`
	MonthlyFee   float64 `json:"monthlyFee"`
	StartedAt    string  `json:"startedAt"`
}

type updateClientRequest struct {
	ContactName *string  `json:"contactName"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Industry    *string  `json:"industry"`
	Status      *string  `json:"status"`
	MonthlyFee  *float64 `json:"monthlyFee"`
}

type setTeamRequest struct {
	UserIDs []string `json:"userIds"`
}

type clientResponse struct {
	ID           string  `json:"id"`
	BusinessName string  `json:"businessName"`
	ContactName  string  `json:"contactName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Industry     string  `json:"industry"`
	Status       string  `json:"status"`
	MonthlyFee   float64 `json:"monthlyFee"`
	StartedAt    *string `json:"startedAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type teamMemberResponse struct {
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	Role       string `json:"role"`
	AssignedAt string `json:"assignedAt"`
}

func toClientResponse(c *client.Client) clientResponse {
	resp := clientResponse{
		ID:           c.ID.String(),
		BusinessName: c.BusinessName,
		ContactName:  c.ContactName,
		Email:        c.Email,
		Phone:        c.Phone,
		Industry:     c.Industry,
		Status:       c.Status,
		MonthlyFee:   c.MonthlyFee,
		CreatedAt:    c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    c.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if c.StartedAt != nil {
		s := c.StartedAt.Format("2006-01-02")
		resp.StartedAt = &s
	}
	return resp
}

// ClientHandler handles client CRUD and team assignment endpoints.
type ClientHandler struct {
	repo client.Repository
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(repo client.Repository) *ClientHandler {
	return &ClientHandler{repo: repo}
}

// Create handles POST /clients.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateClientRequest(validation.CreateClientRequest{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		MonthlyFee:   req.MonthlyFee,
	})
	if req.StartedAt != "" {
		if _, err := time.Parse("2006-01-02", req.StartedAt); err != nil {
			fieldErrors = append(fieldErrors, validation.FieldError{Field: "startedAt", Message: "startedAt must be in YYYY-MM-DD format"})
		}
	}
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c := &client.Client{
		BusinessName: strings.TrimSpace(req.BusinessName),
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		Industry:     req.Industry,
		MonthlyFee:   req.MonthlyFee,
	}
	if req.StartedAt != "" {
		startedAt, _ := time.Parse("2006-01-02", req.StartedAt) // already validated
		c.StartedAt = &startedAt
	}

	if err := h.repo.Create(r.Context(), c); err != nil {
		if errors.Is(err, client.ErrDuplicateBusinessName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("A client named %q already exists", c.BusinessName), requestID)
			return
		}
		slog.Error("failed to create client", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create client", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toClientResponse(c), requestID)
}

// List handles GET /clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clients, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list clients", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list clients", requestID)
		return
	}

	items := make([]clientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, toClientResponse(&clients[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /clients/{id}.
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Client not found", requestID)
			return
		}
		slog.Error("failed to get client", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get client", requestID)
		return
	}

	response.Success(w, http.StatusOK, toClientResponse(c), requestID)
}

// Update handles PATCH /clients/{id}.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var fieldErrors []validation.FieldError
	if req.Status != nil {
		fieldErrors = append(fieldErrors, validation.ValidateClientStatus(*req.Status)...)
	}
	if req.Email != nil && *req.Email != "" && !strings.Contains(*req.Email, "@") {
		fieldErrors = append(fieldErrors, validation.FieldError{Field: "email", Message: "email must be a valid address"})
	}
	if req.MonthlyFee != nil && *req.MonthlyFee < 0 {
		fieldErrors = append(fieldErrors, validation.FieldError{Field: "monthlyFee", Message: "monthlyFee must not be negative"})
	}
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c, err := h.repo.Update(r.Context(), id, client.UpdateFields{
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Industry:    req.Industry,
		Status:      req.Status,
		MonthlyFee:  req.MonthlyFee,
	})
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Client not found", requestID)
			return
		}
		slog.Error("failed to update client", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update client", requestID)
		return
	}

	response.Success(w, http.StatusOK, toClientResponse(c), requestID)
}

// Delete handles DELETE /clients/{id}.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Client not found", requestID)
			return
		}
		slog.Error("failed to delete client", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete client", requestID)
		return
	}

	response.NoContent(w)
}

// SetTeam handles PUT /clients/{id}/team: replaces the assigned team.
func (h *ClientHandler) SetTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req setTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	userIDs := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, s := range req.UserIDs {
		userID, err := uuid.Parse(s)
		if err != nil {
			response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
				[]validation.FieldError{{Field: "userIds", Message: fmt.Sprintf("%q is not a valid UUID", s)}}, requestID)
			return
		}
		userIDs = append(userIDs, userID)
	}

	if err := h.repo.SetTeam(r.Context(), id, userIDs); err != nil {
		switch {
		case errors.Is(err, client.ErrClientNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Client not found", requestID)
		case errors.Is(err, client.ErrUnknownTeamMember):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "One or more users not found", requestID)
		default:
			slog.Error("failed to set client team", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to set client team", requestID)
		}
		return
	}

	h.GetTeam(w, r)
}

// GetTeam handles GET /clients/{id}/team.
func (h *ClientHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	members, err := h.repo.GetTeam(r.Context(), id)
	if err != nil {
		slog.Error("failed to get client team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get client team", requestID)
		return
	}

	items := make([]teamMemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, teamMemberResponse{
			UserID:     m.UserID.String(),
			UserName:   m.UserName,
			Role:       m.Role,
			AssignedAt: m.AssignedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}
