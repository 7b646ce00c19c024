package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

func TestLedgerV1ListLedgersFromInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ledger/_info" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"config":{"storage":{"ledgers":["main","treasury"]}}}}`))
	}))
	defer server.Close()

	client := NewLedger(backend.New(server.URL, ""), gateway.V1)
	cursor, err := client.ListLedgers(context.Background(), ListRequest{})
	if err != nil {
		t.Fatalf("ListLedgers: %v", err)
	}
	if len(cursor.Data) != 2 {
		t.Fatalf("got %d ledgers, want 2", len(cursor.Data))
	}
	if cursor.Data[0].Name != "main" || cursor.Data[1].Name != "treasury" {
		t.Errorf("unexpected ledgers: %+v", cursor.Data)
	}
	if cursor.HasMore || cursor.Next != "" {
		t.Errorf("mock cursor must not paginate: %+v", cursor)
	}
	if cursor.PageSize != 2 {
		t.Errorf("PageSize = %d, want 2", cursor.PageSize)
	}
}

func TestLedgerV1GetLedgerNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"config":{"storage":{"ledgers":["main"]}}}}`))
	}))
	defer server.Close()

	client := NewLedger(backend.New(server.URL, ""), gateway.V1)
	_, err := client.GetLedger(context.Background(), "ghost")
	var backendErr *backend.Error
	if !errors.As(err, &backendErr) || backendErr.StatusCode != 404 {
		t.Fatalf("want 404 backend error, got %v", err)
	}
}

func TestLedgerV2ListLedgersCursorPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ledger/v2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("pageSize"); got != "15" {
			t.Errorf("pageSize = %q, want 15", got)
		}
		if got := r.URL.Query().Get("cursor"); got != "abc" {
			t.Errorf("cursor = %q, want abc", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cursor":{"data":[{"name":"main","bucket":"default"}],"pageSize":15,"hasMore":true,"next":"def"}}`))
	}))
	defer server.Close()

	client := NewLedger(backend.New(server.URL, ""), gateway.V2)
	cursor, err := client.ListLedgers(context.Background(), ListRequest{PageSize: 15, Cursor: "abc"})
	if err != nil {
		t.Fatalf("ListLedgers: %v", err)
	}
	if !cursor.HasMore || cursor.Next != "def" {
		t.Errorf("cursor fields not preserved: %+v", cursor)
	}
	if cursor.Data[0].Bucket != "default" {
		t.Errorf("bucket = %q, want default", cursor.Data[0].Bucket)
	}
}

func TestLedgerTransactionIDFieldPerVersion(t *testing.T) {
	// The same transaction keyed "txid" on v1 and "id" on v2 must land in
	// the one normalized ID field.
	v1 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"txid":42,"postings":[{"source":"world","destination":"orders:1","amount":1500,"asset":"EUR/2"}]}}`))
	}))
	defer v1.Close()
	v2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":42,"postings":[{"source":"world","destination":"orders:1","amount":"1500","asset":"EUR/2"}]}}`))
	}))
	defer v2.Close()

	for name, client := range map[string]*LedgerClient{
		"v1": NewLedger(backend.New(v1.URL, ""), gateway.V1),
		"v2": NewLedger(backend.New(v2.URL, ""), gateway.V2),
	} {
		tx, err := client.GetTransaction(context.Background(), "main", 42)
		if err != nil {
			t.Fatalf("%s GetTransaction: %v", name, err)
		}
		if tx.ID != 42 {
			t.Errorf("%s ID = %d, want 42", name, tx.ID)
		}
		if got := tx.Postings[0].Amount.String(); got != "1500" {
			t.Errorf("%s amount = %s, want 1500", name, got)
		}
	}
}

func TestLedgerAggregatedBalancesBigInt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"EUR/2":123456789012345678901234567890,"USD/2":-500}}`))
	}))
	defer server.Close()

	client := NewLedger(backend.New(server.URL, ""), gateway.V2)
	balances, err := client.GetBalancesAggregated(context.Background(), "main")
	if err != nil {
		t.Fatalf("GetBalancesAggregated: %v", err)
	}
	if got := balances["EUR/2"].String(); got != "123456789012345678901234567890" {
		t.Errorf("EUR/2 = %s", got)
	}
	if got := balances["USD/2"].String(); got != "-500" {
		t.Errorf("USD/2 = %s, want -500", got)
	}

	encoded, err := json.Marshal(balances["EUR/2"])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != "123456789012345678901234567890" {
		t.Errorf("marshaled as %s, want bare number", encoded)
	}
}

func TestLedgerV2ListTransactionsPostsStructuredBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var body listBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Query["source"] != "world" {
			t.Errorf("query not structured: %+v", body.Query)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cursor":{"data":[],"pageSize":0,"hasMore":false}}`))
	}))
	defer server.Close()

	client := NewLedger(backend.New(server.URL, ""), gateway.V2)
	_, err := client.ListTransactions(context.Background(), "main", ListRequest{
		Query: map[string]any{"source": "world"},
	})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
}
