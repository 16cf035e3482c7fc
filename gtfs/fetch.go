package gtfs

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// bundleFiles are the tabular files extracted from the archive. The first
// four are mandatory; calendar data is optional but at least one of the two
// calendar files is expected in a well-formed feed.
var bundleFiles = map[string]bool{
	"stops.txt":          true,
	"routes.txt":         true,
	"trips.txt":          true,
	"stop_times.txt":     true,
	"calendar.txt":       false,
	"calendar_dates.txt": false,
}

// Fetch downloads the bundle archive, validates it and atomically replaces
// the cache directory with the unpacked tabular files. On any failure the
// existing cache directory is left untouched.
func Fetch(ctx context.Context, url, cacheDir string, timeout time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(cacheDir), 0o755); err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(cacheDir), "bundle-*.zip")
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := download(ctx, url, tmp, timeout); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	stage, err := unpack(tmp.Name(), filepath.Dir(cacheDir))
	if err != nil {
		return err
	}
	if err := swapDir(stage, cacheDir); err != nil {
		os.RemoveAll(stage)
		return &CorruptArchiveError{Path: cacheDir, Err: err}
	}
	return nil
}

func download(ctx context.Context, url string, dst io.Writer, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	if _, err := io.Copy(dst, resp.Body); err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	return nil
}

// unpack extracts the bundle files into a staging directory next to the
// cache, so the final swap is a rename on the same filesystem.
func unpack(zipPath, parent string) (string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", &CorruptArchiveError{Path: zipPath, Err: err}
	}
	defer zr.Close()

	stage, err := os.MkdirTemp(parent, "bundle-stage-*")
	if err != nil {
		return "", &CorruptArchiveError{Path: zipPath, Err: err}
	}

	seen := map[string]bool{}
	for _, f := range zr.File {
		name := strings.ToLower(path.Base(f.Name))
		if _, want := bundleFiles[name]; !want {
			continue
		}
		if err := extractFile(f, filepath.Join(stage, name)); err != nil {
			os.RemoveAll(stage)
			return "", &CorruptArchiveError{Path: zipPath, Err: err}
		}
		seen[name] = true
	}

	for name, required := range bundleFiles {
		if required && !seen[name] {
			os.RemoveAll(stage)
			return "", &CorruptArchiveError{Path: zipPath, Err: fmt.Errorf("missing %s", name)}
		}
	}
	if !seen["calendar.txt"] && !seen["calendar_dates.txt"] {
		os.RemoveAll(stage)
		return "", &CorruptArchiveError{Path: zipPath, Err: fmt.Errorf("missing calendar data")}
	}
	return stage, nil
}

func extractFile(f *zip.File, dst string) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// swapDir replaces dir with the staged directory. The old directory is moved
// aside first so a crash mid-swap never leaves a half-written cache in place.
func swapDir(stage, dir string) error {
	old := dir + ".old"
	os.RemoveAll(old)

	replaced := false
	if _, err := os.Stat(dir); err == nil {
		if err := os.Rename(dir, old); err != nil {
			return err
		}
		replaced = true
	}
	if err := os.Rename(stage, dir); err != nil {
		if replaced {
			os.Rename(old, dir)
		}
		return err
	}
	os.RemoveAll(old)
	return nil
}
