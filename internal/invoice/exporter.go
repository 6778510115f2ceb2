package invoice

import (
	"context"
	"log/slog"

	"github.com/keshav-jajoriya/bill-tracker/internal/models"
)

// Exporter renders a billing list and converts it to a PDF. Export
// failures are surfaced to the caller so the user can retry.
type Exporter struct {
	rasterizer Rasterizer
}

// NewExporter creates an Exporter using the given rasterizer.
func NewExporter(r Rasterizer) *Exporter {
	return &Exporter{rasterizer: r}
}

// Export produces Invoice-<id>.pdf for the list and returns its path.
func (e *Exporter) Export(ctx context.Context, list models.BillingList) (string, error) {
	html, err := Render(list)
	if err != nil {
		return "", err
	}

	path, err := e.rasterizer.Convert(ctx, html, "Invoice-"+list.ID)
	if err != nil {
		slog.Error("invoice export failed", "list_id", list.ID, "error", err)
		return "", err
	}

	slog.Info("invoice exported", "list_id", list.ID, "path", path)
	return path, nil
}
