package dataset

import (
	"bufio"
	"net/http"
	"os"
	"strings"
	"time"

	"cardiobench/pkg/errors"
	"cardiobench/pkg/log"
)

// DefaultSourceURL points at the processed Cleveland subset of the UCI
// heart-disease repository: 14 comma-separated fields per line, missing
// values encoded as "?", no header.
const DefaultSourceURL = "https://archive.ics.uci.edu/ml/machine-learning-databases/heart-disease/processed.cleveland.data"

// csvHeader is the header row written ahead of the downloaded records.
var csvHeader = strings.Join(append(FeatureColumns(), severityColumn), ",")

// Fetcher ensures the input CSV exists at a path, downloading it if
// necessary. Success is signaled by the file's subsequent presence.
type Fetcher interface {
	Ensure(path string) error
}

// HTTPFetcher downloads the dataset over HTTP and writes it as a
// headered CSV.
type HTTPFetcher struct {
	// URL is the source location; empty selects DefaultSourceURL.
	URL string

	// Client is the HTTP client; nil selects a client with a 30s timeout.
	Client *http.Client

	logger log.Logger
}

// NewHTTPFetcher creates a fetcher for the default source.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		URL:    DefaultSourceURL,
		Client: &http.Client{Timeout: 30 * time.Second},
		logger: log.GetLoggerWithName("fetch"),
	}
}

// Ensure downloads the dataset to path unless it already exists.
func (f *HTTPFetcher) Ensure(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	url := f.URL
	if url == "" {
		url = DefaultSourceURL
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if f.logger == nil {
		f.logger = log.GetLoggerWithName("fetch")
	}

	f.logger.Info("downloading dataset", "url", url, log.PathKey, path)

	resp, err := client.Get(url)
	if err != nil {
		return errors.Wrap(err, "dataset: download")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Newf("dataset: download: unexpected status %s", resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "dataset: create csv")
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if _, err := w.WriteString(csvHeader + "\n"); err != nil {
		return errors.Wrap(err, "dataset: write header")
	}

	scanner := bufio.NewScanner(resp.Body)
	rows := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return errors.Wrap(err, "dataset: write row")
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "dataset: read response")
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "dataset: flush csv")
	}

	f.logger.Info("dataset written", log.PathKey, path, "rows", rows)
	return nil
}
