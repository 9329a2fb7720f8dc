//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// TestE2ESmoke walks the full user lifecycle against a running server:
// create, list, partial update, read back the merged record, delete,
// and verify the deleted user is gone from both read paths.
func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("USERDOCK_BASE_URL", "http://localhost:8080")

	email := fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())

	// Create
	var created userResponse
	status := doJSON(t, http.MethodPost, baseURL+"/users", map[string]any{
		"name":  "E2E Smoke",
		"email": email,
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from create, got %d", status)
	}
	if created.ID == 0 {
		t.Fatalf("create response missing id")
	}

	userURL := fmt.Sprintf("%s/users/%d", baseURL, created.ID)

	// Listing includes the new user
	if !listingContains(t, baseURL, created.ID) {
		t.Fatalf("listing missing freshly created user %d", created.ID)
	}

	// Partial update: email only
	newEmail := fmt.Sprintf("e2e-updated-%d@example.com", time.Now().UnixNano())
	var echoed map[string]any
	status = doJSON(t, http.MethodPut, userURL, map[string]any{"email": newEmail}, &echoed)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from update, got %d", status)
	}
	if echoed["email"] != newEmail {
		t.Fatalf("update echo missing new email: %v", echoed)
	}
	if _, ok := echoed["name"]; ok {
		t.Fatalf("update echo should omit fields not supplied: %v", echoed)
	}

	// Read back the merged record
	var merged userResponse
	status = doJSON(t, http.MethodGet, userURL, nil, &merged)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from get, got %d", status)
	}
	if merged.Name != "E2E Smoke" || merged.Email != newEmail {
		t.Fatalf("unexpected merged record: %+v", merged)
	}

	// Listing reflects the update
	if !listingContains(t, baseURL, created.ID) {
		t.Fatalf("listing missing user %d after update", created.ID)
	}

	// Delete
	status = doJSON(t, http.MethodDelete, userURL, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 from delete, got %d", status)
	}

	// Gone from the by-id path
	var errResp errorResponse
	status = doJSON(t, http.MethodGet, userURL, nil, &errResp)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
	if errResp.Error != "User not found" {
		t.Fatalf("unexpected error body: %q", errResp.Error)
	}

	// Gone from the listing
	if listingContains(t, baseURL, created.ID) {
		t.Fatalf("listing still contains deleted user %d", created.ID)
	}
}

// TestE2EValidation checks the error contract for bad requests.
func TestE2EValidation(t *testing.T) {
	baseURL := envOrDefault("USERDOCK_BASE_URL", "http://localhost:8080")

	var errResp errorResponse
	status := doJSON(t, http.MethodPost, baseURL+"/users", map[string]any{"name": "No Email"}, &errResp)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", status)
	}
	if errResp.Error != "Missing name or email" {
		t.Fatalf("unexpected error body: %q", errResp.Error)
	}

	errResp = errorResponse{}
	status = doJSON(t, http.MethodGet, baseURL+"/users/999999999", nil, &errResp)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", status)
	}
	if errResp.Error != "User not found" {
		t.Fatalf("unexpected error body: %q", errResp.Error)
	}
}

// TestE2EListingCache verifies the cached listing is served consistently:
// two back-to-back reads inside the TTL window return identical bodies.
func TestE2EListingCache(t *testing.T) {
	baseURL := envOrDefault("USERDOCK_BASE_URL", "http://localhost:8080")

	email := fmt.Sprintf("e2e-cache-%d@example.com", time.Now().UnixNano())
	var created userResponse
	status := doJSON(t, http.MethodPost, baseURL+"/users", map[string]any{
		"name":  "Cache Probe",
		"email": email,
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from create, got %d", status)
	}
	defer func() {
		doJSON(t, http.MethodDelete, fmt.Sprintf("%s/users/%d", baseURL, created.ID), nil, nil)
	}()

	first := rawGet(t, baseURL+"/users")
	second := rawGet(t, baseURL+"/users")

	if !bytes.Equal(first, second) {
		t.Fatalf("consecutive listings differ:\n%s\n%s", first, second)
	}
}

func listingContains(t *testing.T, baseURL string, id int64) bool {
	t.Helper()

	var users []userResponse
	status := doJSON(t, http.MethodGet, baseURL+"/users", nil, &users)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d", status)
	}
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func rawGet(t *testing.T, url string) []byte {
	t.Helper()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return body
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
