// Package service exposes the billing store and invoice exporter over a
// JSON HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/keshav-jajoriya/bill-tracker/internal/billing"
	"github.com/keshav-jajoriya/bill-tracker/internal/models"
)

// Exporter is the invoice export collaborator the service calls.
type Exporter interface {
	Export(ctx context.Context, list models.BillingList) (string, error)
}

// Service holds the handlers for the billing API.
type Service struct {
	store    *billing.Store
	exporter Exporter
}

// New creates a Service backed by the given store and exporter.
func New(store *billing.Store, exporter Exporter) *Service {
	return &Service{store: store, exporter: exporter}
}

// Routes returns the API router.
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/lists", s.handleListLists)
	r.Post("/lists", s.handleCreateList)
	r.Get("/lists/{id}", s.handleGetList)
	r.Delete("/lists/{id}", s.handleDeleteList)
	r.Post("/lists/{id}/items", s.handleAddItem)
	r.Post("/lists/{id}/export", s.handleExport)
	return r
}

type createListRequest struct {
	Title   string `json:"title"`
	Address string `json:"address"`
}

// addItemRequest fields are flexNumber so clients may send numeric JSON
// or the raw form strings the app collects; parsing and validation
// happen in the billing store either way.
type addItemRequest struct {
	Name     string     `json:"name"`
	Price    flexNumber `json:"price"`
	Quantity flexNumber `json:"quantity"`
}

type listSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CreatedAt  string `json:"dateCreated"`
	ItemCount  int    `json:"itemCount"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

// listDetail is a full list plus the live running total (computed from
// price and quantity, independently of the cached grand total) and the
// display date used by the list screen.
type listDetail struct {
	models.BillingList
	RunningTotal string `json:"runningTotal"`
	DateDisplay  string `json:"dateDisplay"`
}

func (s *Service) handleListLists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lists := s.store.Lists(q.Get("q"), q.Get("sort"))

	summaries := make([]listSummary, len(lists))
	for i, l := range lists {
		summaries[i] = listSummary{
			ID:         l.ID,
			Title:      l.Title,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
			ItemCount:  len(l.Items),
			GrandTotal: l.GrandTotal,
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"lists": summaries})
}

func (s *Service) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := s.store.CreateList(req.Title, req.Address)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	slog.Info("list created", "list_id", list.ID, "title", list.Title)
	respondJSON(w, http.StatusCreated, detail(list))
}

func (s *Service) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail(list))
}

func (s *Service) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteList(id); err != nil {
		s.respondStoreError(w, err)
		return
	}

	slog.Info("list deleted", "list_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := s.store.AddItem(chi.URLParam(r, "id"), req.Name, string(req.Price), string(req.Quantity))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	slog.Info("item added", "list_id", list.ID, "items", len(list.Items), "grand_total", list.GrandTotal)
	respondJSON(w, http.StatusOK, detail(list))
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	path, err := s.exporter.Export(r.Context(), list)
	if err != nil {
		// The user may retry; the message carries the engine's reason.
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"pdfPath": path})
}

// respondStoreError maps billing store errors onto HTTP statuses.
func (s *Service) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, billing.ErrListNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, billing.ErrDuplicateTitle):
		respondError(w, http.StatusConflict, err.Error())
	case billing.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("unexpected store error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func detail(list models.BillingList) listDetail {
	return listDetail{
		BillingList:  list,
		RunningTotal: list.RunningTotal().StringFixed(2),
		DateDisplay:  list.FormatCreatedAt(),
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
