// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server and its backing
// store. Zero-config startup works: every field has a usable default.
type Config struct {
	// HTTPAddr is the listen address of the web server.
	HTTPAddr string
	// ManagementURL is the base URL of the backend that serves the
	// page-description envelope. Empty means "this process": the page
	// handlers call the locally mounted management endpoint.
	ManagementURL string
	// PageDefPath optionally overrides the embedded CUE page definition.
	PageDefPath string
	// DBPath selects the SQLite-backed product store when set. Empty keeps
	// products in memory for the lifetime of the process.
	DBPath string
	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(n) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ManagementURL:   getenv("MANAGEMENT_API_URL", ""),
		PageDefPath:     getenv("PAGE_DEF", ""),
		DBPath:          getenv("DB_PATH", ""),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
	}
}
