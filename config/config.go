// Package config reads the site server settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	Host        string
	Port        int
	PublicURL   string // absolute base used in share links, e.g. https://tryon.example.com
	StaticDir   string // wasm binary, wasm_exec.js, stylesheets and pigo cascades
	ContentFile string // optional YAML overriding the bundled marketing copy
	DataDir     string // contact submissions and shared looks
	MaxUploadMB int
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Load builds the configuration from the TRYON_* environment variables.
func Load() *Config {
	return &Config{
		Host:        envString("TRYON_HOST", "localhost"),
		Port:        envInt("TRYON_PORT", 5000),
		PublicURL:   strings.TrimRight(os.Getenv("TRYON_PUBLIC_URL"), "/"),
		StaticDir:   envString("TRYON_STATIC_DIR", "static"),
		ContentFile: os.Getenv("TRYON_CONTENT_FILE"),
		DataDir:     envString("TRYON_DATA_DIR", "data"),
		MaxUploadMB: envInt("TRYON_MAX_UPLOAD_MB", 8),
	}
}

// ContactFile is the JSON lines file holding the contact form submissions.
func (c *Config) ContactFile() string {
	return filepath.Join(c.DataDir, "contact.jsonl")
}

// LooksDir is the directory holding the shared captures.
func (c *Config) LooksDir() string {
	return filepath.Join(c.DataDir, "looks")
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// LookURL returns the link under which a shared look is served. Without a
// PublicURL the link is relative to the site root.
func (c *Config) LookURL(id string) string {
	return c.PublicURL + "/looks/" + id
}
