package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage keeps uploaded objects under Dir. The HTTP server exposes Dir at
// /uploads/, so the returned URI is PublicURL + "/uploads/" + key.
type Storage struct {
	Dir       string
	PublicURL string
}

func New(dir, publicURL string) *Storage {
	return &Storage{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}
}

func (s *Storage) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Base(filepath.Clean("/" + key))
	if clean == "/" || clean == "." || clean != key {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	// Write to a temp file first so readers never see a partial image.
	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, key)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return s.PublicURL + "/uploads/" + key, nil
}
