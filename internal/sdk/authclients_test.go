package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

func TestAuthListClientsWrapsFlatArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/clients" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"c1","name":"console"},{"id":"c2","name":"ci","public":true}]}`))
	}))
	defer server.Close()

	client := NewAuthClients(backend.New(server.URL, ""), gateway.V1)
	cursor, err := client.ListClients(context.Background())
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(cursor.Data) != 2 || cursor.PageSize != 2 {
		t.Fatalf("cursor = %+v, want two items", cursor)
	}
	if cursor.HasMore || cursor.Next != "" || cursor.Previous != "" {
		t.Errorf("flat array must yield a terminal cursor: %+v", cursor)
	}
	if !cursor.Data[1].Public {
		t.Errorf("public flag lost: %+v", cursor.Data[1])
	}
}

func TestAuthCreateClientSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/clients/c1/secrets" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["name"] != "rotation-2026" {
			t.Errorf("name = %q", body["name"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"s1","name":"rotation-2026","clear":"topsecret","lastDigits":"ret"}}`))
	}))
	defer server.Close()

	client := NewAuthClients(backend.New(server.URL, ""), gateway.V1)
	secret, err := client.CreateClientSecret(context.Background(), "c1", "rotation-2026")
	if err != nil {
		t.Fatalf("CreateClientSecret: %v", err)
	}
	if secret.Clear != "topsecret" {
		t.Errorf("clear = %q", secret.Clear)
	}
}
