// Package config loads server configuration from the environment, with a
// .env file picked up when present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Storage backend names accepted in STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds everything the server needs to start.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Backend selects the KV store implementation.
	Backend string

	// DataDir is where the file backend keeps its documents and the
	// sqlite backend its database file.
	DataDir string

	// PDFDir is where exported invoices are written.
	PDFDir string

	// PDFBin is the external HTML-to-PDF binary.
	PDFBin string
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:    getEnv("ADDR", ":8080"),
		Backend: getEnv("STORE_BACKEND", BackendFile),
		DataDir: getEnv("DATA_DIR", "./data"),
		PDFDir:  getEnv("PDF_DIR", "./data/invoices"),
		PDFBin:  getEnv("PDF_BIN", "wkhtmltopdf"),
	}

	switch cfg.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
