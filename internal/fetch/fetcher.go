// Package fetch downloads mapping release archives and extracts the
// requested entries as text.
package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"at-updater/internal/common"
)

// Defaults for the HTTP client and payload limit.
const (
	DefaultTimeout  = 2 * time.Minute
	DefaultMaxBytes = 256 << 20
)

// Cache stores raw archives between runs. Implementations must be safe for
// concurrent use: both archives are fetched at once.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
	Delete(key string) error
}

// Fetcher retrieves archives over HTTP. A Fetcher holds no per-call state,
// so one instance may serve concurrent Fetch calls.
type Fetcher struct {
	client   *http.Client
	cache    Cache
	logger   *slog.Logger
	maxBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithCache enables the archive cache.
func WithCache(c Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithMaxBytes limits the archive size. Zero or less keeps the default.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBytes: DefaultMaxBytes,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch returns the decoded text of every requested entry of the archive
// at url. It fails with *TransportError, *ArchiveFormatError or
// *NotFoundError.
func (f *Fetcher) Fetch(ctx context.Context, url string, entries []string) (map[string]string, error) {
	if f.cache != nil {
		files, ok := f.fromCache(url, entries)
		if ok {
			return files, nil
		}
	}

	start := time.Now()
	f.logger.Info("downloading archive", slog.String("url", url))

	data, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}

	files, err := Extract(url, data, entries)
	if err != nil {
		return nil, err
	}

	f.logger.Info("downloaded archive",
		slog.String("url", url),
		slog.Int("bytes", len(data)),
		slog.Int("entries", len(files)),
		slog.Duration("took", time.Since(start)))

	if f.cache != nil {
		if err := f.cache.Put(url, data); err != nil {
			f.logger.Warn("caching archive failed", slog.String("url", url), slog.String("error", err.Error()))
		}
	}

	return files, nil
}

// fromCache serves entries from a cached archive. A cached archive that no
// longer yields the entries is evicted so the caller downloads it again.
func (f *Fetcher) fromCache(url string, entries []string) (map[string]string, bool) {
	data, ok, err := f.cache.Get(url)
	if err != nil {
		f.logger.Warn("reading archive cache failed", slog.String("url", url), slog.String("error", err.Error()))
		return nil, false
	}

	if !ok {
		return nil, false
	}

	files, err := Extract(url, data, entries)
	if err != nil {
		f.logger.Warn("evicting unusable cached archive", slog.String("url", url), slog.String("error", err.Error()))

		if err := f.cache.Delete(url); err != nil {
			f.logger.Warn("evicting cached archive failed", slog.String("url", url), slog.String("error", err.Error()))
		}

		return nil, false
	}

	f.logger.Info("using cached archive", slog.String("url", url), slog.Int("bytes", len(data)))

	return files, true
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if !common.InRange(http.StatusOK, resp.StatusCode, 299) {
		return nil, &TransportError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	if int64(len(data)) > f.maxBytes {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("archive larger than %d bytes", f.maxBytes)}
	}

	return data, nil
}

// Extract reads the requested entries from a zip archive held in memory.
// Entries are read in archive order and reading stops as soon as every
// requested entry has been found.
func Extract(url string, data []byte, entries []string) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArchiveFormatError{URL: url, Err: err}
	}

	wanted := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		wanted[e] = struct{}{}
	}

	out := make(map[string]string, len(entries))

	for _, zf := range zr.File {
		if len(wanted) == 0 {
			break
		}

		if zf.FileInfo().IsDir() {
			continue
		}

		if _, ok := wanted[zf.Name]; !ok {
			continue
		}

		text, err := readEntry(zf)
		if err != nil {
			return nil, &ArchiveFormatError{URL: url, Err: fmt.Errorf("entry %s: %w", zf.Name, err)}
		}

		out[zf.Name] = text
		delete(wanted, zf.Name)
	}

	if len(wanted) > 0 {
		return nil, &NotFoundError{URL: url, Missing: common.SortedKeys(wanted)}
	}

	return out, nil
}

func readEntry(zf *zip.File) (string, error) {
	rc, err := zf.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return "", err
	}

	return buf.String(), nil
}
