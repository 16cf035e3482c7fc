package display

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testFrame() image.Image {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	img.Pix[0] = 0xff
	return img
}

func TestFileShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames", "board.png")
	d := &File{Path: path}

	if err := d.Show(testFrame()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	// A second frame replaces the first without leaving temp files behind.
	if err := d.Show(testFrame()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the final frame on disk, got %d entries", len(entries))
	}

	if err := d.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestOpen(t *testing.T) {
	d, err := Open("file", "out.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := d.(*File); !ok {
		t.Errorf("expected *File, got %T", d)
	}

	if _, err := Open("", "out.png"); err != nil {
		t.Errorf("empty backend should default to file: %v", err)
	}

	_, err = Open("epaper", "out.png")
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.Backend != "epaper" {
		t.Errorf("unexpected backend in error: %q", unavailable.Backend)
	}
}
