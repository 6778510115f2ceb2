package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/keshav-jajoriya/bill-tracker/internal/billing"
	"github.com/keshav-jajoriya/bill-tracker/internal/models"
	"github.com/keshav-jajoriya/bill-tracker/internal/storage/memory"
)

type stubExporter struct {
	path string
	err  error
}

func (s *stubExporter) Export(_ context.Context, list models.BillingList) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.path != "" {
		return s.path, nil
	}
	return "/tmp/Invoice-" + list.ID + ".pdf", nil
}

func setupTestServer(t *testing.T, exporter Exporter) *httptest.Server {
	t.Helper()

	store, err := billing.New(context.Background(), memory.New())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	router := chi.NewRouter()
	router.Mount("/api", New(store, exporter).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp, decoded
}

func createList(t *testing.T, server *httptest.Server, title string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/lists",
		map[string]string{"title": title})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create list %q: status = %d, body = %v", title, resp.StatusCode, body)
	}
	return body["id"].(string)
}

func TestCreateListEndpoint(t *testing.T) {
	server := setupTestServer(t, &stubExporter{})

	t.Run("created list is returned with defaults", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, server.URL+"/api/lists",
			map[string]string{"title": "Groceries", "address": "12 Main St"})

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		if body["title"] != "Groceries" {
			t.Errorf("title = %v", body["title"])
		}
		if body["currency"] != "INR" {
			t.Errorf("currency = %v", body["currency"])
		}
		if body["runningTotal"] != "0.00" {
			t.Errorf("runningTotal = %v", body["runningTotal"])
		}
	})

	t.Run("validation failures map to statuses and messages", func(t *testing.T) {
		tests := []struct {
			name       string
			title      string
			wantStatus int
			wantMsg    string
		}{
			{"too short", "ab", http.StatusBadRequest, billing.ErrTitleTooShort.Error()},
			{"bad characters", "money $$$", http.StatusBadRequest, billing.ErrTitleInvalidChars.Error()},
			{"duplicate, different case", "groceries", http.StatusConflict, billing.ErrDuplicateTitle.Error()},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp, body := doJSON(t, http.MethodPost, server.URL+"/api/lists",
					map[string]string{"title": tt.title})
				if resp.StatusCode != tt.wantStatus {
					t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
				}
				if body["error"] != tt.wantMsg {
					t.Errorf("error = %v, want %q", body["error"], tt.wantMsg)
				}
			})
		}
	})
}

func TestAddItemEndpoint(t *testing.T) {
	server := setupTestServer(t, &stubExporter{})
	id := createList(t, server, "Groceries")

	t.Run("accepts string fields", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/items", server.URL, id),
			map[string]any{"name": "Milk", "price": "2.50", "quantity": "2"})

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
		}
		if body["grandTotal"] != "5.00" {
			t.Errorf("grandTotal = %v, want 5.00", body["grandTotal"])
		}
	})

	t.Run("accepts numeric fields", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/items", server.URL, id),
			map[string]any{"name": "Bread", "price": 1.25, "quantity": 3})

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
		}
		if body["grandTotal"] != "8.75" {
			t.Errorf("grandTotal = %v, want 8.75", body["grandTotal"])
		}
		if body["runningTotal"] != "8.75" {
			t.Errorf("runningTotal = %v, want 8.75", body["runningTotal"])
		}
	})

	t.Run("rejects a non-numeric price", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/items", server.URL, id),
			map[string]any{"name": "Cheese", "price": "abc", "quantity": "1"})

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		if body["error"] != billing.ErrInvalidPrice.Error() {
			t.Errorf("error = %v", body["error"])
		}
	})

	t.Run("unknown list is 404", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/lists/999/items",
			map[string]any{"name": "Milk", "price": "1", "quantity": "1"})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestDeleteListEndpoint(t *testing.T) {
	server := setupTestServer(t, &stubExporter{})
	id := createList(t, server, "Groceries")

	resp, _ := doJSON(t, http.MethodDelete, server.URL+"/api/lists/"+id, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/lists/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/lists/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestListListsEndpoint(t *testing.T) {
	server := setupTestServer(t, &stubExporter{})
	for _, title := range []string{"Alpha", "gamma", "Beta"} {
		createList(t, server, title)
	}

	titlesOf := func(body map[string]any) []string {
		var out []string
		for _, raw := range body["lists"].([]any) {
			out = append(out, raw.(map[string]any)["title"].(string))
		}
		return out
	}

	t.Run("default sort is most recent first", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/api/lists", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		got := titlesOf(body)
		if len(got) != 3 || got[0] != "Beta" {
			t.Errorf("order = %v, want Beta first", got)
		}
	})

	t.Run("az sort and query filter", func(t *testing.T) {
		_, body := doJSON(t, http.MethodGet, server.URL+"/api/lists?sort=az", nil)
		got := titlesOf(body)
		if got[0] != "Alpha" || got[2] != "gamma" {
			t.Errorf("az order = %v", got)
		}

		_, body = doJSON(t, http.MethodGet, server.URL+"/api/lists?q=gam", nil)
		got = titlesOf(body)
		if len(got) != 1 || got[0] != "gamma" {
			t.Errorf("filtered = %v, want [gamma]", got)
		}
	})
}

func TestExportEndpoint(t *testing.T) {
	t.Run("returns the generated pdf path", func(t *testing.T) {
		server := setupTestServer(t, &stubExporter{path: "/tmp/Invoice-x.pdf"})
		id := createList(t, server, "Groceries")

		resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/export", server.URL, id), nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
		}
		if body["pdfPath"] != "/tmp/Invoice-x.pdf" {
			t.Errorf("pdfPath = %v", body["pdfPath"])
		}
	})

	t.Run("surfaces the rasterizer failure reason", func(t *testing.T) {
		server := setupTestServer(t, &stubExporter{err: errors.New("pdf generation failed: no display")})
		id := createList(t, server, "Groceries")

		resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/export", server.URL, id), nil)
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", resp.StatusCode)
		}
		if body["error"] != "pdf generation failed: no display" {
			t.Errorf("error = %v", body["error"])
		}
	})

	t.Run("unknown list is 404", func(t *testing.T) {
		server := setupTestServer(t, &stubExporter{})
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/lists/999/export", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}
