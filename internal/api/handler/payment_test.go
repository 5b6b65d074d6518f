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
	"github.com/adverra/backoffice/internal/payment"
)

// --- Mock Repository ---

type mockPaymentRepo struct {
	createFn       func(ctx context.Context, p *payment.Payment) error
	listByClientFn func(ctx context.Context, clientID uuid.UUID) ([]payment.Payment, error)
	updateFn       func(ctx context.Context, id uuid.UUID, fields payment.UpdateFields) (*payment.Payment, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = uuid.New()
	if p.Status == "" {
		p.Status = "pending"
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	return nil
}

func (m *mockPaymentRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]payment.Payment, error) {
	if m.listByClientFn != nil {
		return m.listByClientFn(ctx, clientID)
	}
	return []payment.Payment{}, nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, id uuid.UUID, fields payment.UpdateFields) (*payment.Payment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, payment.ErrPaymentNotFound
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// ===== POST /clients/{id}/payments =====

func TestPaymentCreate_Success(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	repo := &mockPaymentRepo{}
	h := handler.NewPaymentHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"amount": 500,
		"method": "bank_transfer",
		"status": "paid",
		"paidAt": "2026-08-30T12:00:00Z",
	})

	req, w := makeChiRequest(http.MethodPost, "/clients/"+clientID.String()+"/payments", body, map[string]string{"id": clientID.String()})
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, float64(500), data["amount"])
	assert.Equal(t, "paid", data["status"])
	assert.NotEmpty(t, data["paidAt"])
}

func TestPaymentCreate_ZeroAmount(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	repo := &mockPaymentRepo{}
	h := handler.NewPaymentHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"amount": 0})

	req, w := makeChiRequest(http.MethodPost, "/clients/"+clientID.String()+"/payments", body, map[string]string{"id": clientID.String()})
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentCreate_UnknownClient(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	repo := &mockPaymentRepo{
		createFn: func(_ context.Context, _ *payment.Payment) error {
			return payment.ErrUnknownClient
		},
	}
	h := handler.NewPaymentHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"amount": 500})

	req, w := makeChiRequest(http.MethodPost, "/clients/"+clientID.String()+"/payments", body, map[string]string{"id": clientID.String()})
	h.Create(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===== PATCH /payments/{id} =====

func TestPaymentUpdate_MarkPaid(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockPaymentRepo{
		updateFn: func(_ context.Context, reqID uuid.UUID, fields payment.UpdateFields) (*payment.Payment, error) {
			assert.Equal(t, id, reqID)
			require.NotNil(t, fields.Status)
			assert.Equal(t, "paid", *fields.Status)
			require.NotNil(t, fields.PaidAt)

			now := time.Now().UTC()
			return &payment.Payment{
				ID:        id,
				ClientID:  uuid.New(),
				Amount:    500,
				Status:    "paid",
				PaidAt:    fields.PaidAt,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		},
	}
	h := handler.NewPaymentHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "paid",
		"paidAt": "2026-08-30T12:00:00Z",
	})

	req, w := makeChiRequest(http.MethodPatch, "/payments/"+id.String(), body, map[string]string{"id": id.String()})
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "paid", data["status"])
}

func TestPaymentUpdate_NotFound(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockPaymentRepo{}
	h := handler.NewPaymentHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"notes": "late"})

	req, w := makeChiRequest(http.MethodPatch, "/payments/"+id.String(), body, map[string]string{"id": id.String()})
	h.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===== DELETE /payments/{id} =====

func TestPaymentDelete_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockPaymentRepo{
		deleteFn: func(_ context.Context, reqID uuid.UUID) error {
			assert.Equal(t, id, reqID)
			return nil
		},
	}
	h := handler.NewPaymentHandler(repo)

	req, w := makeChiRequest(http.MethodDelete, "/payments/"+id.String(), nil, map[string]string{"id": id.String()})
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
