package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DirLibrary keeps durable copies of captured photos in a directory.
type DirLibrary struct {
	Dir string
}

// Save moves the file at fileRef into the library and returns the new path.
// The file is copied first, so a capture on another filesystem works too.
func (l DirLibrary) Save(ctx context.Context, fileRef string) (string, error) {
	if err := os.MkdirAll(l.Dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create library directory: %w", err)
	}

	src, err := os.Open(fileRef)
	if err != nil {
		return "", fmt.Errorf("failed to open capture: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fileRef))
	if ext == "" {
		ext = ".jpg"
	}
	dest := filepath.Join(l.Dir, uuid.New().String()+ext)

	dst, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create library file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dest)
		return "", fmt.Errorf("failed to copy capture: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to flush library file: %w", err)
	}

	src.Close()
	if err := os.Remove(fileRef); err != nil {
		slog.Warn("failed to remove capture after copy", "file", fileRef, "error", err)
	}
	return dest, nil
}

// Discard deletes a file previously returned by Save.
func (l DirLibrary) Discard(ctx context.Context, ref string) error {
	if filepath.Dir(ref) != filepath.Clean(l.Dir) {
		return fmt.Errorf("%s is not in the library", ref)
	}
	if err := os.Remove(ref); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to discard %s: %w", ref, err)
	}
	return nil
}
