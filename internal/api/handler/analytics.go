package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adverra/backoffice/internal/analytics"
	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/api/response"
	"github.com/adverra/backoffice/internal/api/validation"
)

type upsertMetricsRequest struct {
	Day       string `json:"day"`
	Platform  string `json:"platform"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Shares    int64  `json:"shares"`
	Followers int64  `json:"followers"`
}

type metricsResponse struct {
	ID        string `json:"id"`
	ClientID  string `json:"clientId"`
	Day       string `json:"day"`
	Platform  string `json:"platform"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Shares    int64  `json:"shares"`
	Followers int64  `json:"followers"`
	CreatedAt string `json:"createdAt"`
}

func toMetricsResponse(m *analytics.DailyMetrics) metricsResponse {
	return metricsResponse{
		ID:        m.ID.String(),
		ClientID:  m.ClientID.String(),
		Day:       m.Day.Format("2006-01-02"),
		Platform:  m.Platform,
		Views:     m.Views,
		Likes:     m.Likes,
		Comments:  m.Comments,
		Shares:    m.Shares,
		Followers: m.Followers,
		CreatedAt: formatTime(m.CreatedAt),
	}
}

// AnalyticsHandler handles daily analytics endpoints.
type AnalyticsHandler struct {
	repo analytics.Repository
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(repo analytics.Repository) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo}
}

// Upsert handles PUT /clients/{id}/analytics: records one day of platform
// metrics, overwriting any existing row for that day and platform.
func (h *AnalyticsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req upsertMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpsertMetricsRequest(validation.UpsertMetricsRequest{
		Day:       req.Day,
		Platform:  req.Platform,
		Views:     req.Views,
		Likes:     req.Likes,
		Comments:  req.Comments,
		Shares:    req.Shares,
		Followers: req.Followers,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	day, _ := time.Parse("2006-01-02", req.Day) // already validated

	m := &analytics.DailyMetrics{
		ClientID:  clientID,
		Day:       day,
		Platform:  req.Platform,
		Views:     req.Views,
		Likes:     req.Likes,
		Comments:  req.Comments,
		Shares:    req.Shares,
		Followers: req.Followers,
	}

	if err := h.repo.Upsert(r.Context(), m); err != nil {
		if errors.Is(err, analytics.ErrUnknownClient) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Client not found", requestID)
			return
		}
		slog.Error("failed to upsert metrics", "error", err, "clientId", clientID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record metrics", requestID)
		return
	}

	response.Success(w, http.StatusOK, toMetricsResponse(m), requestID)
}

// List handles GET /clients/{id}/analytics with optional from/to query params.
func (h *AnalyticsHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	from, to, fieldErrors := validation.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	metrics, err := h.repo.ListByClient(r.Context(), clientID, from, to)
	if err != nil {
		slog.Error("failed to list metrics", "error", err, "clientId", clientID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list metrics", requestID)
		return
	}

	items := make([]metricsResponse, 0, len(metrics))
	for i := range metrics {
		items = append(items, toMetricsResponse(&metrics[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Summary handles GET /clients/{id}/analytics/summary with optional from/to
// query params. Results may be served from the cache.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	from, to, fieldErrors := validation.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	summary, err := h.repo.Summarize(r.Context(), clientID, from, to)
	if err != nil {
		slog.Error("failed to summarize metrics", "error", err, "clientId", clientID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to summarize metrics", requestID)
		return
	}

	response.Success(w, http.StatusOK, summary, requestID)
}
