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
)

type createUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type userResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	ApiKeyPrefix string  `json:"apiKeyPrefix"`
	CreatedAt    string  `json:"createdAt"`
	RevokedAt    *string `json:"revokedAt,omitempty"`
}

type userWithKeyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ApiKey    string `json:"apiKey"`
	CreatedAt string `json:"createdAt"`
}

func toUserResponse(u *auth.User) userResponse {
	resp := userResponse{
		ID:           u.ID.String(),
		Name:         u.Name,
		Role:         u.Role,
		ApiKeyPrefix: u.ApiKeyPrefix,
		CreatedAt:    u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if u.RevokedAt != nil {
		s := u.RevokedAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.RevokedAt = &s
	}
	return resp
}

// UserHandler handles user management endpoints.
type UserHandler struct {
	authService *auth.Service
	userRepo    auth.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *auth.Service, userRepo auth.UserRepository) *UserHandler {
	return &UserHandler{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Create handles POST /users. The response includes the raw API key; it is
// shown once and never stored.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateUserRequest(validation.CreateUserRequest{
		Name: req.Name,
		Role: req.Role,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	rawKey, prefix, hash, err := h.authService.GenerateKey()
	if err != nil {
		slog.Error("failed to generate API key", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	u := &auth.User{
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		ApiKeyPrefix: prefix,
		ApiKeyHash:   hash,
	}

	if err := h.userRepo.Create(r.Context(), u); err != nil {
		slog.Error("failed to create user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	response.Success(w, http.StatusCreated, userWithKeyResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Role:      u.Role,
		ApiKey:    rawKey,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}, requestID)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.userRepo.List(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Revoke handles DELETE /users/{id}. A revoked sales agent stops receiving
// leads immediately; existing assignments are kept.
func (h *UserHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	identity := middleware.GetIdentity(r.Context())
	if identity != nil && identity.UserID == id {
		response.Err(w, http.StatusConflict, "SELF_REVOKE", "Cannot revoke your own key", requestID)
		return
	}

	if err := h.userRepo.Revoke(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
		case errors.Is(err, auth.ErrUserRevoked):
			response.Err(w, http.StatusConflict, "ALREADY_REVOKED", "User is already revoked", requestID)
		default:
			slog.Error("failed to revoke user", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke user", requestID)
		}
		return
	}

	response.NoContent(w)
}
