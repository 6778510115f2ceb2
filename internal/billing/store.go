// Package billing implements the billing document store: the canonical
// in-memory collection of billing lists, kept in sync with a storage.KV
// backend after every mutation.
package billing

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/keshav-jajoriya/bill-tracker/internal/models"
	"github.com/keshav-jajoriya/bill-tracker/internal/storage"
)

// StorageKey is the single key the document store reads and writes.
const StorageKey = "billingLists"

// Sort options for Lists, mirroring the list screen's menu.
const (
	SortRecent = "recent"
	SortAZ     = "az"
	SortZA     = "za"
)

var titlePattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// Store owns the in-memory billing list collection for the running
// process. It is the sole writer of persisted state: every mutation
// updates memory synchronously, then hands a full-collection snapshot to
// a background writer that serializes Set calls to the KV backend.
// Reads return deep copies, never the live slice.
type Store struct {
	mu       sync.RWMutex
	lists    []models.BillingList
	timezone string
	node     *snowflake.Node
	writer   *writer
}

// New loads the persisted collection from kv and starts the persistence
// writer. An absent or unreadable document yields an empty collection.
func New(ctx context.Context, kv storage.KV) (*Store, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	s := &Store{
		// Resolved zone name ("Asia/Kolkata"), not the abbreviation.
		timezone: time.Local.String(),
		node:     node,
		writer:   newWriter(kv, StorageKey),
	}

	data, err := kv.Get(ctx, StorageKey)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, &s.lists); jsonErr != nil {
			slog.Warn("stored billing document is unreadable, starting empty", "error", jsonErr)
			s.lists = nil
		}
	case err == storage.ErrKeyNotFound:
		// First run.
	default:
		slog.Warn("failed to load billing document, starting empty", "error", err)
	}

	s.writer.start()
	return s, nil
}

// Close flushes any pending snapshot and stops the writer. No mutation
// may be in flight once Close is called.
func (s *Store) Close() error {
	s.writer.shutdown()
	return nil
}

// CreateList validates the title and appends a new empty billing list.
// The returned list is a snapshot of the created value.
func (s *Store) CreateList(title, address string) (models.BillingList, error) {
	trimmed := strings.TrimSpace(title)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateTitleLocked(trimmed); err != nil {
		return models.BillingList{}, err
	}

	list := models.BillingList{
		ID:        s.node.Generate().String(),
		Title:     trimmed,
		Currency:  models.DefaultCurrency,
		Timezone:  s.timezone,
		CreatedAt: time.Now(),
		Address:   strings.TrimSpace(address),
		Items:     []models.LineItem{},
	}
	s.lists = append(s.lists, list)
	s.persistLocked()

	return list.Clone(), nil
}

// DeleteList removes the list with the given id.
// Returns ErrListNotFound if no list matches.
func (s *Store) DeleteList(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lists {
		if s.lists[i].ID == id {
			s.lists = append(s.lists[:i], s.lists[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return ErrListNotFound
}

// AddItem parses and validates the raw item fields, then appends a line
// item to the list: the item total is fixed at price*quantity and the
// list grand total is recomputed from the stored item totals, both to
// two decimal places. Returns the updated list snapshot.
func (s *Store) AddItem(listID, name, price, quantity string) (models.BillingList, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return models.BillingList{}, ErrEmptyItemName
	}
	parsedPrice, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil || parsedPrice.IsNegative() {
		return models.BillingList{}, ErrInvalidPrice
	}
	parsedQty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || parsedQty < 0 {
		return models.BillingList{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lists {
		if s.lists[i].ID != listID {
			continue
		}

		item := models.LineItem{
			ID:       uuid.New().String(),
			Name:     trimmedName,
			Price:    parsedPrice,
			Quantity: parsedQty,
			Total:    models.NewLineItemTotal(parsedPrice, parsedQty),
		}
		s.lists[i].Items = append(s.lists[i].Items, item)
		s.lists[i].GrandTotal = grandTotal(s.lists[i].Items)
		s.persistLocked()

		return s.lists[i].Clone(), nil
	}
	return models.BillingList{}, ErrListNotFound
}

// Get returns a snapshot of the list with the given id.
func (s *Store) Get(id string) (models.BillingList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.lists {
		if s.lists[i].ID == id {
			return s.lists[i].Clone(), nil
		}
	}
	return models.BillingList{}, ErrListNotFound
}

// Lists returns snapshots of all lists whose title contains query
// (case-insensitive), ordered by sortOption. An empty query matches
// everything; an unknown sortOption falls back to SortRecent.
func (s *Store) Lists(query, sortOption string) []models.BillingList {
	needle := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	out := make([]models.BillingList, 0, len(s.lists))
	for i := range s.lists {
		if needle == "" || strings.Contains(strings.ToLower(s.lists[i].Title), needle) {
			out = append(out, s.lists[i].Clone())
		}
	}
	s.mu.RUnlock()

	switch sortOption {
	case SortAZ:
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case SortZA:
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) > strings.ToLower(out[j].Title)
		})
	default:
		// Snowflake IDs are numeric and time-ordered, so newest first
		// is simply descending ID.
		sort.Slice(out, func(i, j int) bool {
			return numericID(out[i].ID) > numericID(out[j].ID)
		})
	}
	return out
}

// Len reports the number of lists in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists)
}

func (s *Store) validateTitleLocked(trimmed string) error {
	// Length limits are in characters, not bytes, so a multibyte title
	// fails on the rule it actually breaks.
	length := utf8.RuneCountInString(trimmed)
	if length < 3 {
		return ErrTitleTooShort
	}
	if length > 50 {
		return ErrTitleTooLong
	}
	if !titlePattern.MatchString(trimmed) {
		return ErrTitleInvalidChars
	}
	lower := strings.ToLower(trimmed)
	for i := range s.lists {
		if strings.ToLower(s.lists[i].Title) == lower {
			return ErrDuplicateTitle
		}
	}
	return nil
}

// persistLocked snapshots the full collection and enqueues it for the
// background writer. The caller must hold s.mu.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.lists)
	if err != nil {
		slog.Error("failed to serialize billing lists", "error", err)
		return
	}
	s.writer.enqueue(data)
}

// grandTotal sums the stored per-item totals. Unparseable totals count
// as zero, matching how the document has always been read.
func grandTotal(items []models.LineItem) string {
	sum := decimal.Zero
	for _, it := range items {
		t, err := decimal.NewFromString(it.Total)
		if err != nil {
			continue
		}
		sum = sum.Add(t)
	}
	return sum.StringFixed(2)
}

func numericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
