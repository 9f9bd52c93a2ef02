package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrDownload indicates the XML could not be fetched after all retries
var ErrDownload = errors.New("invoice: failed to download XML")

const (
	downloadTimeout  = 30 * time.Second
	downloadAttempts = 5
)

// Downloader fetches invoice XML documents from SAT download links. SAT's
// servers intermittently refuse connections, so every fetch retries with a
// growing delay between attempts.
type Downloader struct {
	httpClient *http.Client
	logger     *slog.Logger
	attempts   int
	delay      func(attempt int) time.Duration
}

// NewDownloader creates a downloader with the default retry policy
func NewDownloader(logger *slog.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: downloadTimeout},
		logger:     logger,
		attempts:   downloadAttempts,
		delay: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
}

// Fetch downloads the XML document at url and returns its sanitized bytes
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= d.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(d.delay(attempt - 1)):
			}
		}

		body, err := d.fetchOnce(ctx, url)
		if err == nil {
			return sanitizeXML(body), nil
		}

		lastErr = err
		d.logger.Warn("XML download attempt failed",
			"url", url,
			"attempt", attempt,
			"error", err)
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrDownload, d.attempts, lastErr)
}

func (d *Downloader) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// sanitizeXML strips the UTF-8 BOM and control characters that SAT documents
// occasionally contain and that break XML decoding. TAB, LF and CR survive.
func sanitizeXML(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	cleaned := make([]byte, 0, len(data))
	for _, b := range data {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			continue
		}
		cleaned = append(cleaned, b)
	}
	return cleaned
}
