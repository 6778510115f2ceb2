package billing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/keshav-jajoriya/bill-tracker/internal/storage"
)

// writer persists collection snapshots to the KV backend from a single
// goroutine, so writes can never land out of order. The channel holds at
// most one pending snapshot: when a newer one arrives before the old one
// is written, the stale snapshot is dropped since the newer one contains
// the full collection anyway.
type writer struct {
	kv        storage.KV
	key       string
	snapshots chan []byte
	wg        sync.WaitGroup
}

func newWriter(kv storage.KV, key string) *writer {
	return &writer{
		kv:        kv,
		key:       key,
		snapshots: make(chan []byte, 1),
	}
}

func (w *writer) start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for snap := range w.snapshots {
			if err := w.kv.Set(context.Background(), w.key, snap); err != nil {
				// In-memory state stays authoritative; the next
				// mutation will enqueue a fresh snapshot.
				slog.Error("failed to persist billing lists", "error", err)
			}
		}
	}()
}

// enqueue hands a snapshot to the writer without blocking the mutation
// path. Must not be called after shutdown.
func (w *writer) enqueue(snapshot []byte) {
	for {
		select {
		case w.snapshots <- snapshot:
			return
		default:
		}
		// A stale snapshot is still pending; discard it in favor of
		// the newer one.
		select {
		case <-w.snapshots:
		default:
		}
	}
}

// shutdown waits for any pending snapshot to be written.
func (w *writer) shutdown() {
	close(w.snapshots)
	w.wg.Wait()
}
