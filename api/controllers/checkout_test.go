package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	checkoutsvc "github.com/chairtime/chairtime-backend/internal/checkout"
	"github.com/chairtime/chairtime-backend/internal/payout"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
)

type stubCheckoutService struct {
	result *checkoutsvc.Result
	err    error
	input  checkoutsvc.ProcessInput
}

func (s *stubCheckoutService) Process(ctx context.Context, input checkoutsvc.ProcessInput) (*checkoutsvc.Result, error) {
	s.input = input
	return s.result, s.err
}

func TestCheckoutSuccess(t *testing.T) {
	t.Parallel()

	franchiseID := uuid.New()
	employeeID := uuid.New()
	transactionID := uuid.New()
	businessDate := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	result := &checkoutsvc.Result{
		Transaction: models.SaleTransaction{
			ID:                   transactionID,
			FranchiseID:          franchiseID,
			BusinessDate:         businessDate,
			TotalNetCents:        10_000,
			TotalCommissionCents: 4_000,
			TotalOwnerCents:      6_000,
			TotalTipCents:        2_000,
			OwnerAfterSplitCents: 6_000,
		},
		Snapshots: []models.PayoutSnapshot{
			{
				ID:              uuid.New(),
				TransactionID:   transactionID,
				LineItemID:      uuid.New(),
				FranchiseID:     franchiseID,
				EmployeeID:      employeeID,
				Kind:            enums.LineItemKindService,
				Entry:           enums.PayoutEntryTypeSale,
				BusinessDate:    businessDate,
				RateBps:         4000,
				Qty:             1,
				NetCents:        10_000,
				TipCents:        2_000,
				CommissionCents: 4_000,
				OwnerCents:      6_000,
			},
		},
		Payout: payout.TransactionPayout{},
	}

	svc := &stubCheckoutService{result: result}
	handler := Checkout(svc, nil)

	body := `{
		"franchise_id": "` + franchiseID.String() + `",
		"occurred_at": "2026-02-15T14:30:00Z",
		"lines": [{
			"line_item_id": "` + uuid.NewString() + `",
			"kind": "service",
			"employee_id": "` + employeeID.String() + `",
			"unit_price_cents": 10000,
			"qty": 1,
			"tip_cents": 2000
		}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data checkoutResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TransactionID != transactionID {
		t.Fatalf("unexpected transaction id: %s", envelope.Data.TransactionID)
	}
	if envelope.Data.BusinessDate != "2026-02-15" {
		t.Fatalf("unexpected business date: %s", envelope.Data.BusinessDate)
	}
	if envelope.Data.TotalCommissionCents != 4_000 || envelope.Data.TotalOwnerCents != 6_000 {
		t.Fatalf("unexpected totals: %+v", envelope.Data)
	}
	if len(envelope.Data.Snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(envelope.Data.Snapshots))
	}
	if svc.input.FranchiseID != franchiseID {
		t.Fatalf("franchise id not forwarded to service: %s", svc.input.FranchiseID)
	}
	if len(svc.input.Lines) != 1 || svc.input.Lines[0].TipCents != 2_000 {
		t.Fatalf("lines not forwarded to service: %+v", svc.input.Lines)
	}
}

func TestCheckoutValidationError(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutRejectsUnknownFields(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"franchise_id":"`+uuid.NewString()+`","surprise":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.Code)
	}
}
