package handler

import (
	"context"
	"net/http"

	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/api/response"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks cache connectivity.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	cache   CachePinger
	version string
}

// NewHealthHandler creates a new HealthHandler. cache may be nil when no
// redis is configured.
func NewHealthHandler(db DBPinger, cache CachePinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		version: version,
	}
}

type healthData struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database bool   `json:"database"`
	Cache    *bool  `json:"cache,omitempty"`
}

// ServeHTTP handles the health check request. The database is required for
// a healthy status; an unreachable cache only degrades it.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	data := healthData{
		Status:   "healthy",
		Version:  h.version,
		Database: true,
	}

	if h.db == nil || h.db.Ping(r.Context()) != nil {
		data.Status = "degraded"
		data.Database = false
	}

	if h.cache != nil {
		ok := h.cache.Ping(r.Context()) == nil
		data.Cache = &ok
		if !ok {
			data.Status = "degraded"
		}
	}

	response.Success(w, http.StatusOK, data, requestID)
}
