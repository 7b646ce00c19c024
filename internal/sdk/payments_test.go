package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

func TestCashPoolV3Aliasing(t *testing.T) {
	var raw rawCashPoolV3
	fixture := `{"id":"pool-1","name":"Treasury","poolAccounts":["a","b"]}`
	if err := json.Unmarshal([]byte(fixture), &raw); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	pool := cashPoolFromV3(raw)
	if len(pool.Accounts) != 2 || pool.Accounts[0] != "a" || pool.Accounts[1] != "b" {
		t.Errorf("accounts = %v, want [a b]", pool.Accounts)
	}

	// The normalized model must not re-expose the version-specific name.
	encoded, err := json.Marshal(pool)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(encoded), "poolAccounts") {
		t.Errorf("normalized pool leaks poolAccounts: %s", encoded)
	}
	if !strings.Contains(string(encoded), `"accounts":["a","b"]`) {
		t.Errorf("normalized pool missing accounts: %s", encoded)
	}
}

func TestConnectorInstallMapping(t *testing.T) {
	legacy := connectorInstallFromV1(rawConnectorV1{ConnectorID: "conn-7"})
	if legacy.ID != "conn-7" {
		t.Errorf("legacy install id = %q", legacy.ID)
	}
	v3 := connectorInstallFromV3("conn-9")
	if v3.ID != "conn-9" {
		t.Errorf("v3 install id = %q", v3.ID)
	}
}

func TestPaymentFromV1MapsProviderToConnectorID(t *testing.T) {
	payment := paymentFromV1(rawPaymentV1{PaymentID: "pay-1", Provider: "stripe"})
	if payment.ID != "pay-1" || payment.ConnectorID != "stripe" {
		t.Errorf("got %+v", payment)
	}
}

// stubPaymentsBackend lets tests override only the methods they exercise;
// anything else panics via the nil embedded interface.
type stubPaymentsBackend struct {
	paymentsBackend
	getCashPool         func(ctx context.Context, poolID string) (CashPool, error)
	getPaymentAccount   func(ctx context.Context, accountID string) (PaymentAccount, error)
	getCashPoolBalances func(ctx context.Context, poolID string) (Cursor[PoolBalance], error)
}

func (s *stubPaymentsBackend) GetCashPool(ctx context.Context, poolID string, _ ...backend.RequestOption) (CashPool, error) {
	return s.getCashPool(ctx, poolID)
}

func (s *stubPaymentsBackend) GetPaymentAccount(ctx context.Context, accountID string, _ ...backend.RequestOption) (PaymentAccount, error) {
	return s.getPaymentAccount(ctx, accountID)
}

func (s *stubPaymentsBackend) GetCashPoolBalances(ctx context.Context, poolID string, _ ...backend.RequestOption) (Cursor[PoolBalance], error) {
	return s.getCashPoolBalances(ctx, poolID)
}

func TestCompositeFetchPartialTolerance(t *testing.T) {
	stub := &stubPaymentsBackend{
		getCashPool: func(_ context.Context, poolID string) (CashPool, error) {
			return CashPool{ID: poolID, Name: "Treasury", Accounts: []string{"acc-1", "acc-2", "acc-3"}}, nil
		},
		getPaymentAccount: func(_ context.Context, accountID string) (PaymentAccount, error) {
			if accountID == "acc-2" {
				return PaymentAccount{}, fmt.Errorf("lookup blew up")
			}
			return PaymentAccount{ID: accountID}, nil
		},
		getCashPoolBalances: func(_ context.Context, _ string) (Cursor[PoolBalance], error) {
			return MockCursor([]PoolBalance{{Asset: "EUR/2", Amount: NewBigInt(1000)}}), nil
		},
	}

	payments := newPaymentsWithBackend(gateway.V3, stub)
	composite, err := payments.GetCashPoolWithAccountsAndBalances(context.Background(), "pool-1")
	if err != nil {
		t.Fatalf("composite fetch failed: %v", err)
	}
	if composite.CashPool == nil || composite.CashPool.ID != "pool-1" {
		t.Fatalf("pool = %+v", composite.CashPool)
	}
	if got := len(composite.CashPoolAccounts.Data); got != 2 {
		t.Errorf("accounts = %d, want 2 (one omitted, not zero, not fatal)", got)
	}
	seen := map[string]bool{}
	for _, account := range composite.CashPoolAccounts.Data {
		seen[account.ID] = true
	}
	if !seen["acc-1"] || !seen["acc-3"] || seen["acc-2"] {
		t.Errorf("resolved accounts = %v", seen)
	}
	if len(composite.CashPoolBalances.Data) != 1 {
		t.Errorf("balances = %+v", composite.CashPoolBalances)
	}
}

func TestCompositeFetchMissingPool(t *testing.T) {
	stub := &stubPaymentsBackend{
		getCashPool: func(_ context.Context, _ string) (CashPool, error) {
			return CashPool{}, &backend.Error{StatusCode: http.StatusNotFound, Message: "pool not found"}
		},
	}

	payments := newPaymentsWithBackend(gateway.V3, stub)
	composite, err := payments.GetCashPoolWithAccountsAndBalances(context.Background(), "missing")
	if err != nil {
		t.Fatalf("missing pool must not error, got: %v", err)
	}
	if composite.CashPool != nil {
		t.Errorf("cashPool = %+v, want nil", composite.CashPool)
	}
	if composite.CashPoolAccounts.Data == nil || len(composite.CashPoolAccounts.Data) != 0 {
		t.Errorf("accounts = %v, want empty", composite.CashPoolAccounts.Data)
	}
	if composite.CashPoolBalances.Data == nil || len(composite.CashPoolBalances.Data) != 0 {
		t.Errorf("balances = %v, want empty", composite.CashPoolBalances.Data)
	}
}

func TestCompositeFetchOtherErrorsPropagate(t *testing.T) {
	stub := &stubPaymentsBackend{
		getCashPool: func(_ context.Context, _ string) (CashPool, error) {
			return CashPool{}, &backend.Error{StatusCode: http.StatusBadGateway, Message: "upstream down"}
		},
	}
	payments := newPaymentsWithBackend(gateway.V3, stub)
	if _, err := payments.GetCashPoolWithAccountsAndBalances(context.Background(), "pool-1"); err == nil {
		t.Fatal("transport errors must propagate")
	}
}

func TestV3TransferStatusDispatch(t *testing.T) {
	var approves, rejects, hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch {
		case strings.HasSuffix(r.URL.Path, "/approve"):
			approves.Add(1)
		case strings.HasSuffix(r.URL.Path, "/reject"):
			rejects.Add(1)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	payments := NewPayments(backend.New(server.URL, ""), gateway.V3)
	ctx := context.Background()

	if err := payments.UpdateTransferInitiationStatus(ctx, "tf-1", TransferStatusValidated); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := payments.UpdateTransferInitiationStatus(ctx, "tf-1", TransferStatusRejected); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if approves.Load() != 1 || rejects.Load() != 1 {
		t.Errorf("approves=%d rejects=%d", approves.Load(), rejects.Load())
	}

	before := hits.Load()
	err := payments.UpdateTransferInitiationStatus(ctx, "tf-1", TransferStatusProcessing)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if hits.Load() != before {
		t.Error("validation must reject before any backend call")
	}
}

func TestLegacyTransferStatusErrorsSurface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"errorCode":    "VALIDATION",
			"errorMessage": "transfer not awaiting validation",
		})
	}))
	defer server.Close()

	payments := NewPayments(backend.New(server.URL, ""), gateway.V1)
	err := payments.UpdateTransferInitiationStatus(context.Background(), "tf-1", TransferStatusValidated)
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *backend.Error (no silent swallow)", err)
	}
}

// Both the flat legacy list and the paginated v3 list must hand callers the
// same cursor envelope.
func TestListShapeUniformityAcrossVersions(t *testing.T) {
	v1Server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("legacy list method = %s", r.Method)
		}
		// Legacy serializes the free-form query as one JSON string param.
		if got := r.URL.Query().Get("query"); got != `{"type":"PAY-IN"}` {
			t.Errorf("legacy query param = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"paymentId": "pay-1", "provider": "stripe", "initialAmount": 100, "amount": 100},
				{"paymentId": "pay-2", "provider": "wise", "initialAmount": 250, "amount": 250},
			},
		})
	}))
	defer v1Server.Close()

	v3Server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("v3 list method = %s", r.Method)
		}
		var body struct {
			Query map[string]any `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Query["type"] != "PAY-IN" {
			t.Errorf("v3 structured query = %v (err %v)", body.Query, err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"cursor": map[string]any{
				"data": []map[string]any{
					{"id": "pay-1", "connectorID": "stripe", "initialAmount": 100, "amount": 100},
					{"id": "pay-2", "connectorID": "wise", "initialAmount": 250, "amount": 250},
				},
				"pageSize": 15,
				"hasMore":  true,
				"next":     "tok",
			},
		})
	}))
	defer v3Server.Close()

	req := ListRequest{PageSize: 15, Query: map[string]any{"type": "PAY-IN"}}
	ctx := context.Background()

	fromV1, err := NewPayments(backend.New(v1Server.URL, ""), gateway.V1).ListPayments(ctx, req)
	if err != nil {
		t.Fatalf("v1 list failed: %v", err)
	}
	fromV3, err := NewPayments(backend.New(v3Server.URL, ""), gateway.V3).ListPayments(ctx, req)
	if err != nil {
		t.Fatalf("v3 list failed: %v", err)
	}

	for name, cursor := range map[string]Cursor[Payment]{"v1": fromV1, "v3": fromV3} {
		if cursor.Data == nil {
			t.Errorf("%s: data is not an array", name)
		}
		if len(cursor.Data) != 2 {
			t.Errorf("%s: %d items", name, len(cursor.Data))
		}
		if cursor.Data[0].ID != "pay-1" || cursor.Data[0].ConnectorID != "stripe" {
			t.Errorf("%s: first item %+v", name, cursor.Data[0])
		}
	}
	if fromV1.HasMore {
		t.Error("legacy list is always a single page")
	}
	if !fromV3.HasMore || fromV3.Next != "tok" {
		t.Errorf("v3 cursor fields lost: %+v", fromV3)
	}
}

func TestInstallConnectorShapes(t *testing.T) {
	v1Server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"connectorID": "conn-1"})
	}))
	defer v1Server.Close()

	v3Server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"data": "conn-2"})
	}))
	defer v3Server.Close()

	ctx := context.Background()
	legacy, err := NewPayments(backend.New(v1Server.URL, ""), gateway.V1).InstallConnector(ctx, "stripe", map[string]any{"apiKey": "k"})
	if err != nil {
		t.Fatalf("legacy install failed: %v", err)
	}
	if legacy.ID != "conn-1" {
		t.Errorf("legacy install = %+v", legacy)
	}

	wrapped, err := NewPayments(backend.New(v3Server.URL, ""), gateway.V3).InstallConnector(ctx, "stripe", map[string]any{"apiKey": "k"})
	if err != nil {
		t.Fatalf("v3 install failed: %v", err)
	}
	if wrapped.ID != "conn-2" {
		t.Errorf("v3 install = %+v", wrapped)
	}
}

func TestUnknownVersionFallsBackToLegacyStrategy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/payments/payments") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	payments := NewPayments(backend.New(server.URL, ""), gateway.VersionUnknown)
	if _, err := payments.ListPayments(context.Background(), ListRequest{}); err != nil {
		t.Fatalf("list via fallback strategy failed: %v", err)
	}
}
