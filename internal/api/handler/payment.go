package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/api/response"
	"github.com/adverra/backoffice/internal/api/validation"
	"github.com/adverra/backoffice/internal/payment"
)

type createPaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Status string  `json:"status"`
	PaidAt *string `json:"paidAt"`
	Notes  string  `json:"notes"`
}

type updatePaymentRequest struct {
	Amount *float64 `json:"amount"`
	Method *string  `json:"method"`
	Status *string  `json:"status"`
	PaidAt *string  `json:"paidAt"`
	Notes  *string  `json:"notes"`
}

type paymentResponse struct {
	ID        string  `json:"id"`
	ClientID  string  `json:"clientId"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	PaidAt    *string `json:"paidAt,omitempty"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toPaymentResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID.String(),
		ClientID:  p.ClientID.String(),
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		PaidAt:    formatTimePtr(p.PaidAt),
		Notes:     p.Notes,
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

// PaymentHandler handles payment CRUD endpoints.
type PaymentHandler struct {
	repo payment.Repository
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(repo payment.Repository) *PaymentHandler {
	return &PaymentHandler{repo: repo}
}

// Create handles POST /clients/{id}/payments.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreatePaymentRequest(validation.CreatePaymentRequest{
		Amount: req.Amount,
		Status: req.Status,
	})
	paidAt := parseTimePtr(req.PaidAt, "paidAt", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p := &payment.Payment{
		ClientID: clientID,
		Amount:   req.Amount,
		Method:   req.Method,
		Status:   req.Status,
		PaidAt:   paidAt,
		Notes:    req.Notes,
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		if errors.Is(err, payment.ErrUnknownClient) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Client not found", requestID)
			return
		}
		slog.Error("failed to create payment", "error", err, "clientId", clientID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create payment", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toPaymentResponse(p), requestID)
}

// List handles GET /clients/{id}/payments.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	clientID, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	payments, err := h.repo.ListByClient(r.Context(), clientID)
	if err != nil {
		slog.Error("failed to list payments", "error", err, "clientId", clientID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments", requestID)
		return
	}

	items := make([]paymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, toPaymentResponse(&payments[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Update handles PATCH /payments/{id}.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var fieldErrors []validation.FieldError
	if req.Amount != nil && *req.Amount <= 0 {
		fieldErrors = append(fieldErrors, validation.FieldError{Field: "amount", Message: "amount must be positive"})
	}
	if req.Status != nil {
		fieldErrors = append(fieldErrors, validation.ValidateCreatePaymentRequest(validation.CreatePaymentRequest{
			Amount: 1,
			Status: *req.Status,
		})...)
	}
	paidAt := parseTimePtr(req.PaidAt, "paidAt", &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.repo.Update(r.Context(), id, payment.UpdateFields{
		Amount: req.Amount,
		Method: req.Method,
		Status: req.Status,
		PaidAt: paidAt,
		Notes:  req.Notes,
	})
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Payment not found", requestID)
			return
		}
		slog.Error("failed to update payment", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update payment", requestID)
		return
	}

	response.Success(w, http.StatusOK, toPaymentResponse(p), requestID)
}

// Delete handles DELETE /payments/{id}.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := urlID(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Payment not found", requestID)
			return
		}
		slog.Error("failed to delete payment", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete payment", requestID)
		return
	}

	response.NoContent(w)
}
