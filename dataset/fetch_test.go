package dataset

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sourceBody = "63.0,1.0,1.0,145.0,233.0,1.0,2.0,150.0,0.0,2.3,3.0,0.0,6.0,0\n" +
	"67.0,1.0,4.0,160.0,286.0,0.0,2.0,108.0,1.0,1.5,2.0,3.0,3.0,2\n" +
	"\n" +
	"37.0,1.0,3.0,130.0,250.0,0.0,0.0,187.0,0.0,3.5,3.0,0.0,3.0,0\n"

func TestHTTPFetcherEnsure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sourceBody))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "heart.csv")
	fetcher := &HTTPFetcher{URL: srv.URL}
	if err := fetcher.Ensure(path); err != nil {
		t.Fatalf("Ensure() unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fetched file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("fetched file has %d lines, want header plus 3 records", len(lines))
	}
	if lines[0] != testHeader {
		t.Errorf("header = %q, want %q", lines[0], testHeader)
	}

	// The written file round-trips through the loader.
	df, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of fetched file unexpected error: %v", err)
	}
	if df.Nrow() != 3 {
		t.Errorf("Nrow() = %d, want 3 (blank source lines skipped)", df.Nrow())
	}
}

func TestHTTPFetcherSkipsExisting(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "heart.csv")
	if err := os.WriteFile(path, []byte("already here"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	fetcher := &HTTPFetcher{URL: srv.URL}
	if err := fetcher.Ensure(path); err != nil {
		t.Fatalf("Ensure() unexpected error: %v", err)
	}
	if requests != 0 {
		t.Errorf("server hit %d times for an existing file, want 0", requests)
	}
}

func TestHTTPFetcherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fetcher := &HTTPFetcher{URL: srv.URL}
	if err := fetcher.Ensure(filepath.Join(t.TempDir(), "heart.csv")); err == nil {
		t.Error("Ensure() on 404 expected error")
	}
}
