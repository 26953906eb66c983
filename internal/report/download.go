package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"plantops/internal/logging"
)

// Download/preview refusals. These are synchronous precondition failures,
// surfaced as specific notices before any network call is made.
var (
	ErrStillGenerating = errors.New("report is still generating")
	ErrNoFile          = errors.New("no file available for this report")
)

// FileFetcher retrieves a file resource from the backend.
type FileFetcher interface {
	FetchFile(ctx context.Context, url string) ([]byte, error)
}

// Downloader resolves a report's file pointer and saves the document
// locally. It never regenerates the document.
type Downloader struct {
	BaseURL      string
	DownloadsDir string
	Fetcher      FileFetcher

	// Opener, when set, is invoked with the saved file path as a
	// best-effort second delivery mechanism (the system document viewer).
	Opener func(path string)
}

// ResolveFileURL normalizes a record's file pointer to a fetchable URL:
// an absolute pointer is used as-is, a root-relative pointer is qualified
// against the backend base address, and a bare filename goes through the
// download-by-name endpoint.
func ResolveFileURL(baseURL string, filePath string) string {
	switch {
	case strings.HasPrefix(filePath, "http://"), strings.HasPrefix(filePath, "https://"):
		return filePath
	case strings.HasPrefix(filePath, "/"):
		return strings.TrimSuffix(baseURL, "/") + filePath
	default:
		return strings.TrimSuffix(baseURL, "/") + "/api/reports/download/" + filePath
	}
}

// Download fetches the record's durable file and writes it into the
// downloads directory.
func (d *Downloader) Download(ctx context.Context, rec Record) (string, error) {
	if rec.Status == StatusGenerating {
		return "", ErrStillGenerating
	}
	if rec.FilePath == "" {
		return "", ErrNoFile
	}

	url := ResolveFileURL(d.BaseURL, rec.FilePath)
	data, err := d.Fetcher.FetchFile(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	if err := os.MkdirAll(d.DownloadsDir, 0755); err != nil {
		return "", fmt.Errorf("create downloads dir: %w", err)
	}
	name := downloadFileName(rec)
	path := filepath.Join(d.DownloadsDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	logging.Reports("downloaded report %s to %s (%d bytes)", rec.ID, path, len(data))

	if d.Opener != nil {
		d.Opener(path)
	}
	return path, nil
}

// SystemOpener hands a saved document to the platform viewer. The command
// runs detached; a launch failure is log-only since the file is already on
// disk.
func SystemOpener(path string) {
	cmd := openCommand(runtime.GOOS, path)
	if err := cmd.Start(); err != nil {
		logging.Reports("open %s: %v", path, err)
	}
}

func openCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

// downloadFileName derives the saved filename from the record metadata.
func downloadFileName(rec Record) string {
	base := strings.ReplaceAll(rec.Name, " ", "_")
	ext := strings.ToLower(rec.Format)
	switch ext {
	case "excel":
		ext = "xlsx"
	case "":
		ext = "pdf"
	}
	return base + "." + ext
}
