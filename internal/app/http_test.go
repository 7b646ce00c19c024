package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"console/api/internal/config"
	"console/api/internal/gateway"
	"console/api/internal/session"
)

type stubManifests struct {
	manifest gateway.Manifest
	err      error
}

func (s stubManifests) Versions(context.Context, string, string) (gateway.Manifest, error) {
	return s.manifest, s.err
}

func testManifest(paymentsVersion string) gateway.Manifest {
	return gateway.Manifest{
		Region: "eu-west-1",
		Versions: []gateway.ServiceVersion{
			{Name: "payments", Version: paymentsVersion},
			{Name: "ledger", Version: "2.1.0"},
			{Name: "reconciliation", Version: "1.0.3"},
			{Name: "wallets", Version: "1.2.0"},
			{Name: "webhooks", Version: "1.0.0"},
			{Name: "flows", Version: "1.4.1"},
			{Name: "auth", Version: "1.0.0"},
		},
	}
}

type testEnv struct {
	api   *httptest.Server
	stack *httptest.Server
	token string
}

func newTestEnv(t *testing.T, manifest gateway.Manifest, stackHandler http.HandlerFunc, role string, disabled []gateway.Service) *testEnv {
	t.Helper()

	stack := httptest.NewServer(stackHandler)
	t.Cleanup(stack.Close)

	cfg := config.Config{
		StackURLPattern:  stack.URL,
		TokenSecret:      "test-secret",
		AccessTTL:        time.Hour,
		RefreshTTL:       time.Hour,
		DisabledServices: disabled,
	}
	service := New(cfg, stubManifests{manifest: manifest}, session.NewMemoryStore())
	api := httptest.NewServer(NewHTTPServer(service, "*").Handler())
	t.Cleanup(api.Close)

	env := &testEnv{api: api, stack: stack}
	env.token = env.login(t, role)
	return env
}

func (e *testEnv) login(t *testing.T, role string) string {
	t.Helper()
	body := `{"name":"Avery","role":"` + role + `","organization":"org-42","stack":"stg"}`
	resp, err := http.Post(e.api.URL+"/api/session/login", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatalf("login returned no token: %v", payload)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.api.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

func TestPaymentsRouteWrapsVersionV3(t *testing.T) {
	var stackPath string
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		stackPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cursor":{"data":[{"id":"pay-1","status":"SUCCEEDED"}],"pageSize":1,"hasMore":false}}`))
	}, "viewer", nil)

	status, payload := env.do(t, http.MethodGet, "/api/payments", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, payload %v", status, payload)
	}
	if payload["version"] != "3" {
		t.Errorf("version = %v, want 3", payload["version"])
	}
	if stackPath != "/api/payments/v3/payments/list" {
		t.Errorf("stack path = %q", stackPath)
	}
	if _, ok := payload["payments"]; !ok {
		t.Errorf("payments payload missing: %v", payload)
	}
}

func TestPaymentsRouteWrapsVersionV1(t *testing.T) {
	var stackPath string
	env := newTestEnv(t, testManifest("1.8.0"), func(w http.ResponseWriter, r *http.Request) {
		stackPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"pay-1","status":"SUCCEEDED"}]}`))
	}, "viewer", nil)

	status, payload := env.do(t, http.MethodGet, "/api/payments", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, payload %v", status, payload)
	}
	if payload["version"] != "1" {
		t.Errorf("version = %v, want 1", payload["version"])
	}
	if stackPath != "/api/payments/payments" {
		t.Errorf("stack path = %q", stackPath)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		t.Error("stack must not be called without a session")
	}, "viewer", nil)

	resp, err := http.Get(env.api.URL + "/api/payments")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestViewerCannotMutate(t *testing.T) {
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("stack must not be called on a forbidden request: %s", r.URL.Path)
	}, "viewer", nil)

	status, payload := env.do(t, http.MethodPost, "/api/transfer-initiations/tr-1/status", `{"status":"VALIDATED"}`)
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, payload %v", status, payload)
	}
	if payload["code"] != "FORBIDDEN" {
		t.Errorf("code = %v", payload["code"])
	}
}

func TestOperatorStatusUpdateHitsApprove(t *testing.T) {
	var stackPath string
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		stackPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}, "operator", nil)

	status, payload := env.do(t, http.MethodPost, "/api/transfer-initiations/tr-1/status", `{"status":"VALIDATED"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, payload %v", status, payload)
	}
	if stackPath != "/api/payments/v3/transfer-initiations/tr-1/approve" {
		t.Errorf("stack path = %q", stackPath)
	}
}

func TestUnsupportedStatusIsValidationError(t *testing.T) {
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("stack must not be called for an unmappable status: %s", r.URL.Path)
	}, "operator", nil)

	status, payload := env.do(t, http.MethodPost, "/api/transfer-initiations/tr-1/status", `{"status":"PROCESSING"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, payload %v", status, payload)
	}
	if payload["code"] != "VALIDATION_ERROR" {
		t.Errorf("code = %v", payload["code"])
	}
}

func TestUpstreamErrorsKeepTheirStatus(t *testing.T) {
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"errorCode":"ALREADY_PROCESSED","errorMessage":"transfer already processed"}`))
	}, "operator", nil)

	status, payload := env.do(t, http.MethodPost, "/api/transfer-initiations/tr-1/status", `{"status":"REJECTED"}`)
	if status != http.StatusConflict {
		t.Fatalf("status = %d, payload %v", status, payload)
	}
	if payload["code"] != "ALREADY_PROCESSED" {
		t.Errorf("code = %v", payload["code"])
	}
}

func TestDisabledServiceIsNotServed(t *testing.T) {
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("stack must not be called for a disabled service: %s", r.URL.Path)
	}, "viewer", []gateway.Service{gateway.ServicePayments})

	status, payload := env.do(t, http.MethodGet, "/api/payments", "")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, payload %v", status, payload)
	}
	if payload["code"] != "SERVICE_DISABLED" {
		t.Errorf("code = %v", payload["code"])
	}
}

func TestVersionsEndpoint(t *testing.T) {
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		t.Error("versions endpoint must not reach the stack")
	}, "viewer", nil)

	status, payload := env.do(t, http.MethodGet, "/api/versions", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if payload["region"] != "eu-west-1" {
		t.Errorf("region = %v", payload["region"])
	}
	services, ok := payload["services"].([]any)
	if !ok || len(services) != len(gateway.Services) {
		t.Fatalf("services = %v", payload["services"])
	}
	for _, raw := range services {
		entry := raw.(map[string]any)
		if entry["name"] == "payments" {
			if entry["version"] != "3" || entry["enabled"] != true {
				t.Errorf("payments entry = %v", entry)
			}
		}
	}
}

func TestListQueryParamForwardedPerVersion(t *testing.T) {
	// The same console request carries the filter as a JSON string; the sdk
	// forwards it as a string param on v1 and a structured body on v3.
	var gotQuery string
	v1env := newTestEnv(t, testManifest("1.8.0"), func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}, "viewer", nil)

	status, _ := v1env.do(t, http.MethodGet, "/api/payments?query=%7B%22type%22%3A%22PAY-IN%22%7D", "")
	if status != http.StatusOK {
		t.Fatalf("v1 status = %d", status)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(gotQuery), &decoded); err != nil || decoded["type"] != "PAY-IN" {
		t.Errorf("v1 query param = %q", gotQuery)
	}

	var gotBody map[string]any
	v3env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cursor":{"data":[],"pageSize":0,"hasMore":false}}`))
	}, "viewer", nil)

	status, _ = v3env.do(t, http.MethodGet, "/api/payments?query=%7B%22type%22%3A%22PAY-IN%22%7D", "")
	if status != http.StatusOK {
		t.Fatalf("v3 status = %d", status)
	}
	query, _ := gotBody["query"].(map[string]any)
	if query["type"] != "PAY-IN" {
		t.Errorf("v3 body = %v", gotBody)
	}
}

func TestSessionRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t, testManifest("3.0.1"), func(w http.ResponseWriter, r *http.Request) {}, "viewer", nil)

	resp, err := http.Post(env.api.URL+"/api/session/login", "application/json",
		strings.NewReader(`{"name":"Avery","role":"viewer","organization":"org-42","stack":"stg"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	var first map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&first)
	resp.Body.Close()
	refresh, _ := first["refreshToken"].(string)
	if refresh == "" {
		t.Fatal("no refresh token")
	}

	resp, err = http.Post(env.api.URL+"/api/session/refresh", "application/json",
		strings.NewReader(`{"refreshToken":"`+refresh+`"}`))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	var second map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&second)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status = %d: %v", resp.StatusCode, second)
	}
	if second["token"] == "" || second["refreshToken"] == refresh {
		t.Errorf("refresh must rotate the token pair: %v", second)
	}

	// The old refresh token is single-use.
	resp, err = http.Post(env.api.URL+"/api/session/refresh", "application/json",
		strings.NewReader(`{"refreshToken":"`+refresh+`"}`))
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("reused refresh token status = %d, want 401", resp.StatusCode)
	}
}

func TestLoginRequiresStack(t *testing.T) {
	stack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer stack.Close()
	cfg := config.Config{
		StackURLPattern: stack.URL,
		TokenSecret:     "test-secret",
		AccessTTL:       time.Hour,
		RefreshTTL:      time.Hour,
	}
	service := New(cfg, stubManifests{manifest: testManifest("3.0.1")}, session.NewMemoryStore())
	api := httptest.NewServer(NewHTTPServer(service, "*").Handler())
	defer api.Close()

	resp, err := http.Post(api.URL+"/api/session/login", "application/json",
		strings.NewReader(`{"name":"Avery","role":"viewer","organization":"org-42"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}
