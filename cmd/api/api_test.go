package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/itemvault/internal/auth"
	"github.com/crucial707/itemvault/internal/config"
	"github.com/crucial707/itemvault/internal/repo"
	"github.com/crucial707/itemvault/internal/storage"
)

// newTestServer builds the real router over file-backed stores in a temp dir.
func newTestServer(t *testing.T) (*httptest.Server, *auth.Service) {
	t.Helper()
	dir := t.TempDir()
	users := repo.NewUserRepo(storage.NewFileStore(filepath.Join(dir, "users.json")), bcrypt.MinCost)
	items := repo.NewItemRepo(storage.NewFileStore(filepath.Join(dir, "items.json")))
	tokens := auth.NewService([]byte("test-secret-for-integration"), time.Hour)

	cfg := config.Config{JWTSecret: "test-secret-for-integration"}
	srv := httptest.NewServer(newRouter(users, items, tokens, cfg))
	t.Cleanup(srv.Close)
	return srv, tokens
}

func postJSON(t *testing.T, client *http.Client, url string, payload any, token string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// TestAPI_EndToEnd walks the full flow: register, login, create an item with
// a numeric id, list it back, and check that requests without a token are
// rejected before touching the store.
func TestAPI_EndToEnd(t *testing.T) {
	srv, _ := newTestServer(t)
	client := srv.Client()

	// Register
	resp := postJSON(t, client, srv.URL+"/api/register", map[string]string{"username": "bob", "password": "pw1"}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	// Login
	resp = postJSON(t, client, srv.URL+"/api/login", map[string]string{"username": "bob", "password": "pw1"}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want 200", resp.StatusCode)
	}
	var loginOut struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginOut); err != nil || loginOut.Token == "" {
		t.Fatalf("login response: err=%v token=%q", err, loginOut.Token)
	}
	resp.Body.Close()

	// Create item with a numeric id
	req, _ := http.NewRequest("POST", srv.URL+"/api/items", bytes.NewReader([]byte(`{"id":42,"name":"widget"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginOut.Token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item status: got %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	// List items
	req, _ = http.NewRequest("GET", srv.URL+"/api/items", nil)
	req.Header.Set("Authorization", "Bearer "+loginOut.Token)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list items status: got %d, want 200", resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	resp.Body.Close()
	if len(items) != 1 || items[0]["name"] != "widget" {
		t.Fatalf("unexpected items: %v", items)
	}
	if items[0]["id"] != json.Number("42") {
		t.Errorf("numeric id must survive the round trip, got %#v", items[0]["id"])
	}

	// No token -> 401 before the store is consulted
	req, _ = http.NewRequest("GET", srv.URL+"/api/items", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("list without token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token status: got %d, want 401", resp.StatusCode)
	}

	// Garbage token -> 403
	req, _ = http.NewRequest("GET", srv.URL+"/api/items", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("list with bad token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("bad token status: got %d, want 403", resp.StatusCode)
	}
}

func TestAPI_UpdateAndDelete(t *testing.T) {
	srv, tokens := newTestServer(t)
	client := srv.Client()

	token, err := tokens.Issue("carol")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	resp := postJSON(t, client, srv.URL+"/api/items", map[string]any{"id": "1", "name": "x", "color": "red"}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	// Update merges, preserving untouched fields
	req, _ := http.NewRequest("PUT", srv.URL+"/api/items/1", bytes.NewReader([]byte(`{"name":"y"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: got %d, want 200", resp.StatusCode)
	}
	var merged map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&merged); err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	resp.Body.Close()
	if merged["name"] != "y" || merged["color"] != "red" {
		t.Errorf("unexpected merged item: %v", merged)
	}

	// Delete
	req, _ = http.NewRequest("DELETE", srv.URL+"/api/items/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: got %d, want 204", resp.StatusCode)
	}

	// Delete again -> 404
	req, _ = http.NewRequest("DELETE", srv.URL+"/api/items/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status: got %d, want 404", resp.StatusCode)
	}
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/health status: got %d, want 200", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if out["status"] != "ok" {
		t.Errorf("unexpected health body: %v", out)
	}
}

func TestAPI_RegisterConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	client := srv.Client()

	creds := map[string]string{"username": "dave", "password": "pw1"}
	resp := postJSON(t, client, srv.URL+"/api/register", creds, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status: got %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, client, srv.URL+"/api/register", creds, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second register status: got %d, want 409", resp.StatusCode)
	}
}
