package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	data    []byte
	err     error
	lastURL string
	fetches int
}

func (f *fakeFetcher) FetchFile(ctx context.Context, url string) ([]byte, error) {
	f.lastURL = url
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func TestResolveFileURL(t *testing.T) {
	base := "http://localhost:8000"
	cases := []struct {
		in   string
		want string
	}{
		{"http://cdn.example.com/r.pdf", "http://cdn.example.com/r.pdf"},
		{"https://cdn.example.com/r.pdf", "https://cdn.example.com/r.pdf"},
		{"/files/reports/r.pdf", "http://localhost:8000/files/reports/r.pdf"},
		{"r.pdf", "http://localhost:8000/api/reports/download/r.pdf"},
	}
	for _, tc := range cases {
		if got := ResolveFileURL(base, tc.in); got != tc.want {
			t.Errorf("ResolveFileURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDownloadPreconditions(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("pdf bytes")}
	d := &Downloader{BaseURL: "http://localhost:8000", DownloadsDir: t.TempDir(), Fetcher: fetcher}

	// Still generating: refused before any network call
	_, err := d.Download(context.Background(), Record{Status: StatusGenerating, FilePath: "/files/r.pdf"})
	assert.ErrorIs(t, err, ErrStillGenerating)

	// Ready but no file pointer
	_, err = d.Download(context.Background(), Record{Status: StatusReady})
	assert.ErrorIs(t, err, ErrNoFile)

	assert.Equal(t, 0, fetcher.fetches, "no fetch may happen when preconditions fail")
}

func TestDownloadSavesAndReportsPath(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{data: []byte("%PDF-1.4 content")}
	opened := ""
	d := &Downloader{
		BaseURL:      "http://localhost:8000",
		DownloadsDir: dir,
		Fetcher:      fetcher,
		Opener:       func(p string) { opened = p },
	}

	rec := Record{
		ID:       DurableID(42),
		Name:     "Plant Performance Report 2026-08-01 to 2026-08-30",
		Format:   "PDF",
		Status:   StatusReady,
		FilePath: "/files/reports/r42.pdf",
	}

	path, err := d.Download(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Plant_Performance_Report_2026-08-01_to_2026-08-30.pdf"), path)
	assert.Equal(t, "http://localhost:8000/files/reports/r42.pdf", fetcher.lastURL)
	assert.Equal(t, path, opened)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(data))
}

func TestDownloadFetchFailure(t *testing.T) {
	d := &Downloader{
		BaseURL:      "http://localhost:8000",
		DownloadsDir: t.TempDir(),
		Fetcher:      &fakeFetcher{err: errors.New("404 not found")},
	}
	_, err := d.Download(context.Background(), Record{Status: StatusReady, FilePath: "r.pdf"})
	require.Error(t, err)
}

func TestOpenCommandPerPlatform(t *testing.T) {
	cases := []struct {
		goos string
		want []string
	}{
		{"linux", []string{"xdg-open", "/tmp/r.pdf"}},
		{"darwin", []string{"open", "/tmp/r.pdf"}},
		{"windows", []string{"cmd", "/c", "start", "", "/tmp/r.pdf"}},
	}
	for _, tc := range cases {
		cmd := openCommand(tc.goos, "/tmp/r.pdf")
		assert.Equal(t, tc.want, cmd.Args, "goos=%s", tc.goos)
	}
}

func TestDownloadFileNameFormats(t *testing.T) {
	cases := []struct {
		format string
		want   string
	}{
		{"PDF", "My_Report.pdf"},
		{"Excel", "My_Report.xlsx"},
		{"CSV", "My_Report.csv"},
		{"", "My_Report.pdf"},
	}
	for _, tc := range cases {
		got := downloadFileName(Record{Name: "My Report", Format: tc.format})
		if got != tc.want {
			t.Errorf("downloadFileName(format=%q) = %q, want %q", tc.format, got, tc.want)
		}
	}
}
