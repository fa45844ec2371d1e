package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// newBackend fakes the slice of the FinTrack API these tests touch.
func newBackend(t *testing.T, listCalls *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret-password" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token": "test-token", "name": "Ada", "email": req.Email,
		})
	})
	mux.HandleFunc("GET /expenses", func(w http.ResponseWriter, _ *http.Request) {
		listCalls.Add(1)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "categoryId": 3, "categoryName": "Food", "amount": 12.5, "description": "Lunch", "date": "2024-06-01", "paymentMode": "Cash"},
		})
	})
	mux.HandleFunc("POST /expenses", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		req["id"] = 101
		req["categoryName"] = "Food"
		_ = json.NewEncoder(w).Encode(req)
	})

	return httptest.NewServer(mux)
}

func TestLoginWhoamiAddExpenseFlow(t *testing.T) {
	var listCalls atomic.Int32
	server := newBackend(t, &listCalls)
	defer server.Close()

	t.Setenv("FINTRACK_API_URL", server.URL)
	t.Setenv("FINTRACK_STATE_DB", filepath.Join(t.TempDir(), "state.db"))

	var out bytes.Buffer
	err := run([]string{"login", "-email", "ada@example.com"}, strings.NewReader("secret-password\n"), &out)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out.String(), "Logged in as Ada <ada@example.com>") {
		t.Errorf("unexpected login output: %q", out.String())
	}

	// The session survives into a fresh invocation via the state database.
	out.Reset()
	if err := run([]string{"whoami"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(out.String(), "ada@example.com") {
		t.Errorf("expected persisted identity, got %q", out.String())
	}

	out.Reset()
	err = run([]string{"expenses", "add",
		"-category", "3", "-amount", "42.00", "-date", "2024-06-01", "-mode", "Cash",
	}, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("expenses add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added expense #101") {
		t.Errorf("expected confirmation for id 101, got %q", out.String())
	}
	// The post-mutation list is reconciled locally, not re-fetched.
	if got := listCalls.Load(); got != 1 {
		t.Errorf("expected exactly one list fetch, got %d", got)
	}
	if !strings.Contains(out.String(), "101") || !strings.Contains(out.String(), "Lunch") {
		t.Errorf("expected reconciled list with both records, got %q", out.String())
	}
}

func TestLoginFailureLeavesSessionLoggedOut(t *testing.T) {
	var listCalls atomic.Int32
	server := newBackend(t, &listCalls)
	defer server.Close()

	t.Setenv("FINTRACK_API_URL", server.URL)
	t.Setenv("FINTRACK_STATE_DB", filepath.Join(t.TempDir(), "state.db"))

	var out bytes.Buffer
	err := run([]string{"login", "-email", "ada@example.com"}, strings.NewReader("wrong\n"), &out)
	if err == nil {
		t.Fatal("expected login to fail")
	}

	out.Reset()
	if err := run([]string{"whoami"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(out.String(), "Not logged in") {
		t.Errorf("expected logged-out state, got %q", out.String())
	}
}
