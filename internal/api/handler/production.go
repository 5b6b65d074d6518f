package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/api/response"
	"github.com/adverra/backoffice/internal/api/validation"
	"github.com/adverra/backoffice/internal/production"
)

// ProductionHandler handles the script/shoot/edit/publish pipeline endpoints.
type ProductionHandler struct {
	repo production.Repository
}

// NewProductionHandler creates a new ProductionHandler.
func NewProductionHandler(repo production.Repository) *ProductionHandler {
	return &ProductionHandler{repo: repo}
}

// urlID parses the {id} route parameter, writing a 400 on failure.
func urlID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProductionHandler) writeRepoErr(w http.ResponseWriter, err error, what, requestID string) {
	switch {
	case errors.Is(err, production.ErrNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Record not found", requestID)
	case errors.Is(err, production.ErrUnknownClient):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Client not found", requestID)
	default:
		slog.Error("production operation failed", "error", err, "op", what)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+what, requestID)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func uuidPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseUUIDPtr(s *string, field string, errs *[]validation.FieldError) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		*errs = append(*errs, validation.FieldError{Field: field, Message: field + " must be a valid UUID"})
		return nil
	}
	return &id
}

func parseDatePtr(s *string, field string, errs *[]validation.FieldError) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		*errs = append(*errs, validation.FieldError{Field: field, Message: field + " must be in YYYY-MM-DD format"})
		return nil
	}
	return &t
}

func parseTimePtr(s *string, field string, errs *[]validation.FieldError) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		*errs = append(*errs, validation.FieldError{Field: field, Message: field + " must be an RFC3339 timestamp"})
		return nil
	}
	return &t
}

// --- Scripts ---

type scriptRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
	DueDate *string `json:"dueDate"`
}

type scriptResponse struct {
	ID        string  `json:"id"`
	ClientID  string  `json:"clientId"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Status    string  `json:"status"`
	DueDate   *string `json:"dueDate,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toScriptResponse(s *production.Script) scriptResponse {
	return scriptResponse{
		ID:        s.ID.String(),
		ClientID:  s.ClientID.String(),
		Title:     s.Title,
		Content:   s.Content,
		Status:    s.Status,
		DueDate:   formatDatePtr(s.DueDate),
		CreatedAt: formatTime(s.CreatedAt),
		UpdatedAt: formatTime(s.UpdatedAt),
	}
}

// CreateScript handles POST /clients/{id}/scripts.
func (h *ProductionHandler) CreateScript(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req scriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var title string
	if req.Title != nil {
		title = *req.Title
	}
	fieldErrors := validation.ValidateCreateScriptRequest(validation.CreateScriptRequest{Title: title})
	dueDate := parseDatePtr(req.DueDate, "dueDate", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	s := &production.Script{
		ClientID: clientID,
		Title:    title,
		DueDate:  dueDate,
	}
	if req.Content != nil {
		s.Content = *req.Content
	}
	if req.Status != nil {
		s.Status = *req.Status
	}

	if err := h.repo.CreateScript(r.Context(), s); err != nil {
		h.writeRepoErr(w, err, "create script", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toScriptResponse(s), requestID)
}

// ListScripts handles GET /clients/{id}/scripts.
func (h *ProductionHandler) ListScripts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	scripts, err := h.repo.ListScripts(r.Context(), clientID)
	if err != nil {
		h.writeRepoErr(w, err, "list scripts", requestID)
		return
	}

	items := make([]scriptResponse, 0, len(scripts))
	for i := range scripts {
		items = append(items, toScriptResponse(&scripts[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// UpdateScript handles PATCH /scripts/{id}.
func (h *ProductionHandler) UpdateScript(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req scriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var fieldErrors []validation.FieldError
	dueDate := parseDatePtr(req.DueDate, "dueDate", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	s, err := h.repo.UpdateScript(r.Context(), id, production.ScriptUpdate{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
		DueDate: dueDate,
	})
	if err != nil {
		h.writeRepoErr(w, err, "update script", requestID)
		return
	}

	response.Success(w, http.StatusOK, toScriptResponse(s), requestID)
}

// DeleteScript handles DELETE /scripts/{id}.
func (h *ProductionHandler) DeleteScript(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.repo.DeleteScript, "delete script")
}

func (h *ProductionHandler) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id uuid.UUID) error, what string) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	if err := del(r.Context(), id); err != nil {
		h.writeRepoErr(w, err, what, requestID)
		return
	}

	response.NoContent(w)
}

// --- Shoots ---

type shootRequest struct {
	ScriptID    *string `json:"scriptId"`
	Location    *string `json:"location"`
	ScheduledAt *string `json:"scheduledAt"`
	Status      *string `json:"status"`
}

type shootResponse struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"clientId"`
	ScriptID    *string `json:"scriptId,omitempty"`
	Location    string  `json:"location"`
	ScheduledAt *string `json:"scheduledAt,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toShootResponse(s *production.Shoot) shootResponse {
	return shootResponse{
		ID:          s.ID.String(),
		ClientID:    s.ClientID.String(),
		ScriptID:    uuidPtr(s.ScriptID),
		Location:    s.Location,
		ScheduledAt: formatTimePtr(s.ScheduledAt),
		Status:      s.Status,
		CreatedAt:   formatTime(s.CreatedAt),
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
}

// CreateShoot handles POST /clients/{id}/shoots.
func (h *ProductionHandler) CreateShoot(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req shootRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var fieldErrors []validation.FieldError
	scriptID := parseUUIDPtr(req.ScriptID, "scriptId", &fieldErrors)
	scheduledAt := parseTimePtr(req.ScheduledAt, "scheduledAt", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	s := &production.Shoot{
		ClientID:    clientID,
		ScriptID:    scriptID,
		ScheduledAt: scheduledAt,
	}
	if req.Location != nil {
		s.Location = *req.Location
	}
	if req.Status != nil {
		s.Status = *req.Status
	}

	if err := h.repo.CreateShoot(r.Context(), s); err != nil {
		h.writeRepoErr(w, err, "create shoot", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toShootResponse(s), requestID)
}

// ListShoots handles GET /clients/{id}/shoots.
func (h *ProductionHandler) ListShoots(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	shoots, err := h.repo.ListShoots(r.Context(), clientID)
	if err != nil {
		h.writeRepoErr(w, err, "list shoots", requestID)
		return
	}

	items := make([]shootResponse, 0, len(shoots))
	for i := range shoots {
		items = append(items, toShootResponse(&shoots[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// UpdateShoot handles PATCH /shoots/{id}.
func (h *ProductionHandler) UpdateShoot(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req shootRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var fieldErrors []validation.FieldError
	scheduledAt := parseTimePtr(req.ScheduledAt, "scheduledAt", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	s, err := h.repo.UpdateShoot(r.Context(), id, production.ShootUpdate{
		Location:    req.Location,
		ScheduledAt: scheduledAt,
		Status:      req.Status,
	})
	if err != nil {
		h.writeRepoErr(w, err, "update shoot", requestID)
		return
	}

	response.Success(w, http.StatusOK, toShootResponse(s), requestID)
}

// DeleteShoot handles DELETE /shoots/{id}.
func (h *ProductionHandler) DeleteShoot(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.repo.DeleteShoot, "delete shoot")
}

// --- Edits ---

type editRequest struct {
	ShootID     *string `json:"shootId"`
	EditorID    *string `json:"editorId"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
	DeliveredAt *string `json:"deliveredAt"`
}

type editResponse struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"clientId"`
	ShootID     *string `json:"shootId,omitempty"`
	EditorID    *string `json:"editorId,omitempty"`
	Status      string  `json:"status"`
	DueDate     *string `json:"dueDate,omitempty"`
	DeliveredAt *string `json:"deliveredAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toEditResponse(e *production.Edit) editResponse {
	return editResponse{
		ID:          e.ID.String(),
		ClientID:    e.ClientID.String(),
		ShootID:     uuidPtr(e.ShootID),
		EditorID:    uuidPtr(e.EditorID),
		Status:      e.Status,
		DueDate:     formatDatePtr(e.DueDate),
		DeliveredAt: formatTimePtr(e.DeliveredAt),
		CreatedAt:   formatTime(e.CreatedAt),
		UpdatedAt:   formatTime(e.UpdatedAt),
	}
}

// CreateEdit handles POST /clients/{id}/edits.
func (h *ProductionHandler) CreateEdit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var fieldErrors []validation.FieldError
	shootID := parseUUIDPtr(req.ShootID, "shootId", &fieldErrors)
	editorID := parseUUIDPtr(req.EditorID, "editorId", &fieldErrors)
	dueDate := parseDatePtr(req.DueDate, "dueDate", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	e := &production.Edit{
		ClientID: clientID,
		ShootID:  shootID,
		EditorID: editorID,
		DueDate:  dueDate,
	}
	if req.Status != nil {
		e.Status = *req.Status
	}

	if err := h.repo.CreateEdit(r.Context(), e); err != nil {
		h.writeRepoErr(w, err, "create edit", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toEditResponse(e), requestID)
}

// ListEdits handles GET /clients/{id}/edits.
func (h *ProductionHandler) ListEdits(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	edits, err := h.repo.ListEdits(r.Context(), clientID)
	if err != nil {
		h.writeRepoErr(w, err, "list edits", requestID)
		return
	}

	items := make([]editResponse, 0, len(edits))
	for i := range edits {
		items = append(items, toEditResponse(&edits[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// UpdateEdit handles PATCH /edits/{id}.
func (h *ProductionHandler) UpdateEdit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var fieldErrors []validation.FieldError
	editorID := parseUUIDPtr(req.EditorID, "editorId", &fieldErrors)
	dueDate := parseDatePtr(req.DueDate, "dueDate", &fieldErrors)
	deliveredAt := parseTimePtr(req.DeliveredAt, "deliveredAt", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	e, err := h.repo.UpdateEdit(r.Context(), id, production.EditUpdate{
		EditorID:    editorID,
		Status:      req.Status,
		DueDate:     dueDate,
		DeliveredAt: deliveredAt,
	})
	if err != nil {
		h.writeRepoErr(w, err, "update edit", requestID)
		return
	}

	response.Success(w, http.StatusOK, toEditResponse(e), requestID)
}

// DeleteEdit handles DELETE /edits/{id}.
func (h *ProductionHandler) DeleteEdit(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.repo.DeleteEdit, "delete edit")
}

// --- Publishes ---

type publishRequest struct {
	EditID      *string `json:"editId"`
	Platform    string  `json:"platform"`
	URL         string  `json:"url"`
	PublishedAt *string `json:"publishedAt"`
}

type publishResponse struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"clientId"`
	EditID      *string `json:"editId,omitempty"`
	Platform    string  `json:"platform"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"publishedAt"`
	CreatedAt   string  `json:"createdAt"`
}

func toPublishResponse(p *production.Publish) publishResponse {
	return publishResponse{
		ID:          p.ID.String(),
		ClientID:    p.ClientID.String(),
		EditID:      uuidPtr(p.EditID),
		Platform:    p.Platform,
		URL:         p.URL,
		PublishedAt: formatTime(p.PublishedAt),
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

// CreatePublish handles POST /clients/{id}/publishes.
func (h *ProductionHandler) CreatePublish(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreatePublishRequest(validation.CreatePublishRequest{
		Platform: req.Platform,
		URL:      req.URL,
	})
	editID := parseUUIDPtr(req.EditID, "editId", &fieldErrors)
	publishedAt := parseTimePtr(req.PublishedAt, "publishedAt", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p := &production.Publish{
		ClientID: clientID,
		EditID:   editID,
		Platform: req.Platform,
		URL:      req.URL,
	}
	if publishedAt != nil {
		p.PublishedAt = *publishedAt
	}

	if err := h.repo.CreatePublish(r.Context(), p); err != nil {
		h.writeRepoErr(w, err, "create publish", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toPublishResponse(p), requestID)
}

// ListPublishes handles GET /clients/{id}/publishes.
func (h *ProductionHandler) ListPublishes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	publishes, err := h.repo.ListPublishes(r.Context(), clientID)
	if err != nil {
		h.writeRepoErr(w, err, "list publishes", requestID)
		return
	}

	items := make([]publishResponse, 0, len(publishes))
	for i := range publishes {
		items = append(items, toPublishResponse(&publishes[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// DeletePublish handles DELETE /publishes/{id}.
func (h *ProductionHandler) DeletePublish(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.repo.DeletePublish, "delete publish")
}
