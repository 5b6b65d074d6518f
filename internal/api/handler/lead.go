package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/api/response"
	"github.com/adverra/backoffice/internal/api/validation"
	"github.com/adverra/backoffice/internal/auth"
	"github.com/adverra/backoffice/internal/lead"
)

type submitLeadRequest struct {
	ID           string  `json:"id"`
	BusinessName string  `json:"businessName"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Government   string  `json:"government"`
	Budget       float64 `json:"budget"`
	HasWebsite   bool    `json:"hasWebsite"`
	Message      string  `json:"message"`
}

type updateLeadStatusRequest struct {
	Status string `json:"status"`
}

type leadResponse struct {
	ID           string  `json:"id"`
	BusinessName string  `json:"businessName"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Government   string  `json:"government"`
	Budget       float64 `json:"budget"`
	HasWebsite   bool    `json:"hasWebsite"`
	Message      string  `json:"message"`
	Status       string  `json:"status"`
	AssignedTo   string  `json:"assignedTo"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func toLeadResponse(l *lead.Lead) leadResponse {
	return leadResponse{
		ID:           l.ID.String(),
		BusinessName: l.BusinessName,
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		Government:   l.Government,
		Budget:       l.Budget,
		HasWebsite:   l.HasWebsite,
		Message:      l.Message,
		Status:       l.Status,
		AssignedTo:   l.AssignedTo.String(),
		CreatedAt:    l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    l.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// LeadHandler handles lead submission, listing and status endpoints.
type LeadHandler struct {
	repo lead.Repository
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(repo lead.Repository) *LeadHandler {
	return &LeadHandler{repo: repo}
}

// Submit handles POST /leads: the public marketing-site contact form. The
// repository assigns the lead to the next sales agent in rotation.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req submitLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateSubmitLeadRequest(validation.SubmitLeadRequest{
		ID:           req.ID,
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Budget:       req.Budget,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	fields := lead.Fields{
		BusinessName: strings.TrimSpace(req.BusinessName),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Government:   req.Government,
		Budget:       req.Budget,
		HasWebsite:   req.HasWebsite,
		Message:      req.Message,
	}
	if req.ID != "" {
		id, _ := uuid.Parse(req.ID) // already validated
		fields.ID = &id
	}

	l, err := h.repo.CreateAssigned(r.Context(), fields)
	if err != nil {
		switch {
		case errors.Is(err, lead.ErrNoAgentsAvailable):
			response.Err(w, http.StatusServiceUnavailable, "NO_AGENTS_AVAILABLE", "No sales agents are available to take this lead", requestID)
		case errors.Is(err, lead.ErrDuplicateLeadID):
			response.Err(w, http.StatusConflict, "DUPLICATE_ID", "A lead with this id already exists", requestID)
		default:
			slog.Error("failed to create lead", "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create lead", requestID)
		}
		return
	}

	response.Success(w, http.StatusCreated, toLeadResponse(l), requestID)
}

// List handles GET /leads. Admins see all leads; sales agents see only leads
// assigned to them.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		return
	}

	var filter lead.ListFilter
	if identity.Role == auth.RoleSales {
		id := identity.UserID
		filter.AssignedTo = &id
	}

	leads, err := h.repo.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list leads", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leads", requestID)
		return
	}

	items := make([]leadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, toLeadResponse(&leads[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /leads/{id}. Sales agents may only fetch their own leads.
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	l, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, lead.ErrLeadNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lead not found", requestID)
			return
		}
		slog.Error("failed to get lead", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get lead", requestID)
		return
	}

	if identity.Role == auth.RoleSales && l.AssignedTo != identity.UserID {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lead not found", requestID)
		return
	}

	response.Success(w, http.StatusOK, toLeadResponse(l), requestID)
}

// UpdateStatus handles PATCH /leads/{id}/status. Sales agents may only move
// their own leads; foreign leads read as 404, same as GetByID.
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateLeadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateLeadStatusRequest(validation.UpdateLeadStatusRequest{
		Status: req.Status,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if identity.Role == auth.RoleSales {
		existing, err := h.repo.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, lead.ErrLeadNotFound) {
				response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lead not found", requestID)
				return
			}
			slog.Error("failed to get lead", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update lead status", requestID)
			return
		}
		if existing.AssignedTo != identity.UserID {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lead not found", requestID)
			return
		}
	}

	l, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, lead.ErrLeadNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lead not found", requestID)
		case errors.Is(err, lead.ErrUnknownStatus):
			response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown lead status", requestID)
		default:
			slog.Error("failed to update lead status", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update lead status", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toLeadResponse(l), requestID)
}
