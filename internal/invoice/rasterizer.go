package invoice

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Rasterizer turns rendered invoice HTML into a PDF file and returns the
// file path. The PDF engine itself is an external collaborator.
type Rasterizer interface {
	Convert(ctx context.Context, html, name string) (string, error)
}

// CommandRasterizer shells out to a wkhtmltopdf-style binary that reads
// HTML on stdin and writes a PDF to the given output path.
type CommandRasterizer struct {
	// Bin is the rasterizer binary, e.g. "wkhtmltopdf".
	Bin string

	// OutDir is where generated PDFs land; created on first use.
	OutDir string
}

// Convert runs the binary and returns the path of the generated PDF.
// On failure the error carries the engine's stderr so the user sees the
// underlying reason.
func (r *CommandRasterizer) Convert(ctx context.Context, html, name string) (string, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outPath := filepath.Join(r.OutDir, name+".pdf")

	cmd := exec.CommandContext(ctx, r.Bin, "-", outPath)
	cmd.Stdin = strings.NewReader(html)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("pdf generation failed: %s", msg)
		}
		return "", fmt.Errorf("pdf generation failed: %w", err)
	}
	return outPath, nil
}
