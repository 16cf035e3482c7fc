// Package display delivers rendered frames to an output device. The only
// built-in backend writes PNG files, which doubles as the fallback when no
// display hardware is attached.
package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Display consumes one rendered frame per poll cycle. Close must leave any
// stateful hardware in a known-safe low-power state and is called exactly
// once at shutdown.
type Display interface {
	Show(img image.Image) error
	Close() error
}

// UnavailableError reports that a display backend is missing or failing;
// callers recover by falling back to the file backend.
type UnavailableError struct {
	Backend string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("display backend %q unavailable", e.Backend)
	}
	return fmt.Sprintf("display backend %q unavailable: %v", e.Backend, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Open selects a display backend by name. Only the file backend is built
// in; anything else (an e-paper driver, say) is reported unavailable so the
// caller can fall back.
func Open(backend, path string) (Display, error) {
	switch backend {
	case "", "file":
		return &File{Path: path}, nil
	default:
		return nil, &UnavailableError{Backend: backend}
	}
}

// File persists each frame as a PNG, replacing the previous one atomically.
type File struct {
	Path string
}

func (f *File) Show(img image.Image) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "frame-*.png")
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("display: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("display: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }
