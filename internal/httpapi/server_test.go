package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adguard-controller/internal/adguard"
	"adguard-controller/internal/dispatch"
)

// newStubAppliance fakes the AdGuard Home control API. loginCookie ""
// means the login answers 200 without a session cookie; breakUpdate
// kills the connection on the update call to simulate a transport
// failure below the HTTP layer.
func newStubAppliance(t *testing.T, loginCookie string, breakUpdate bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/control/login":
			if loginCookie != "" {
				w.Header().Set("Set-Cookie", loginCookie)
			}
			w.WriteHeader(http.StatusOK)
		case "/control/blocked_services/update":
			if breakUpdate {
				hj, ok := w.(http.Hijacker)
				if !ok {
					t.Errorf("stub server does not support hijacking")
					return
				}
				conn, _, err := hj.Hijack()
				if err != nil {
					t.Errorf("hijack failed: %v", err)
					return
				}
				_ = conn.Close()
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected appliance request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newServer(applianceURL string) *Server {
	client := adguard.New(adguard.Config{
		BaseURL:  applianceURL,
		Username: "admin",
		Password: "secret",
		Timeout:  2 * time.Second,
	})
	return New(dispatch.New(client))
}

func doGet(t *testing.T, h http.Handler, path string) (int, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var body apiResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid json: %v (%q)", err, rr.Body.String())
	}
	return rr.Code, body
}

func TestStatusRoute(t *testing.T) {
	srv := newServer("http://unused")

	status, body := doGet(t, srv.Handler(), "/")
	if status != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", status, http.StatusOK)
	}
	if !body.Success || body.Message != "AdGuard YouTube API is running" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestEnableEndToEnd(t *testing.T) {
	stub := newStubAppliance(t, "sess=abc", false)
	defer stub.Close()

	status, body := doGet(t, newServer(stub.URL).Handler(), "/youtube/enable")
	if status != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", status, http.StatusOK)
	}
	if !body.Success || body.Message != "YouTube blocking enabled successfully" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestDisableEndToEnd(t *testing.T) {
	stub := newStubAppliance(t, "sess=abc", false)
	defer stub.Close()

	status, body := doGet(t, newServer(stub.URL).Handler(), "/youtube/disable")
	if status != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", status, http.StatusOK)
	}
	if !body.Success || body.Message != "YouTube blocking disabled successfully" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestLoginFailureIs401(t *testing.T) {
	stub := newStubAppliance(t, "", false)
	defer stub.Close()

	status, body := doGet(t, newServer(stub.URL).Handler(), "/youtube/disable")
	if status != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", status, http.StatusUnauthorized)
	}
	if body.Success {
		t.Fatalf("expected failure body, got %+v", body)
	}
	if body.Message != "Failed to login to AdGuard Home: No cookies found in response" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestUpdateTransportFailureIs500(t *testing.T) {
	stub := newStubAppliance(t, "sess=abc", true)
	defer stub.Close()

	status, body := doGet(t, newServer(stub.URL).Handler(), "/youtube/enable")
	if status != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d want %d", status, http.StatusInternalServerError)
	}
	if body.Success {
		t.Fatalf("expected failure body, got %+v", body)
	}
}

func TestMetricsRoute(t *testing.T) {
	srv := newServer("http://unused")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
}
