// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/relic/internal/platform/constants"
)

// maxPageBytes bounds a single provider response body.
const maxPageBytes = 32 << 20

// Fetcher pages through the provider's object search.
//
// A Fetcher is safe for concurrent use; every call owns its own pacing limiter.
type Fetcher struct {
	cfg      Config
	client   *http.Client
	logger   *slog.Logger
	recorder Recorder
}

// Option customises a [Fetcher].
type Option func(*Fetcher)

// WithRecorder attaches a paging event recorder (metrics).
func WithRecorder(recorder Recorder) Option {
	return func(f *Fetcher) {
		if recorder != nil {
			f.recorder = recorder
		}
	}
}

// New constructs a [Fetcher] from the injected provider configuration.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Fetcher {
	cfg = cfg.withDefaults()

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	fetcher := &Fetcher{
		cfg:      cfg,
		client:   client,
		logger:   logger,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

/*
FetchClassification accumulates at least minRecords objects of one classification.

Description: Pages are requested from cursor 1 with pageSize objects each,
paced by the configured page delay. Paging ends when the target is reached, the
provider's advertised total is exhausted, a page comes back empty, the page
ceiling is hit, or ctx is cancelled. The result is truncated to minRecords.

Parameters:
  - ctx: context.Context (checked between page requests)
  - classification: string (provider classification filter)
  - minRecords: int (target record count)
  - pageSize: int (records per page, defaults to the provider maximum)

Returns:
  - *Batch: Always non-nil, holding every record collected before paging ended
  - error: *ProviderError on a failed page, ErrCancelled on cancellation, nil otherwise
*/
func (f *Fetcher) FetchClassification(ctx context.Context, classification string, minRecords, pageSize int) (*Batch, error) {
	if pageSize <= 0 {
		pageSize = constants.ProviderPageSize
	}

	batch := &Batch{
		Classification: classification,
		Records:        make([]Record, 0, max(minRecords, 0)),
		FetchedAt:      time.Now().UTC(),
	}

	if minRecords <= 0 {
		batch.Stop = StopTarget
		return batch, nil
	}

	// A zero delay disables pacing; the first page is always immediate.
	limit := rate.Inf
	if f.cfg.PageDelay > 0 {
		limit = rate.Every(f.cfg.PageDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	for page := 1; ; page++ {

		// 1. Hard ceiling on page requests
		if batch.Pages >= f.cfg.MaxPages {
			batch.Stop = StopCeiling
			break
		}

		// 2. Pace and honour cancellation between pages
		if err := limiter.Wait(ctx); err != nil {
			batch.Stop = StopCancelled
			return batch.truncate(minRecords), cancelled(ctx, err)
		}

		// 3. Request the page (with optional retries)
		body, err := f.fetchPage(ctx, classification, page, pageSize)
		if err != nil {
			if ctx.Err() != nil {
				batch.Stop = StopCancelled
				return batch.truncate(minRecords), cancelled(ctx, err)
			}

			batch.Stop = StopError
			var providerErr *ProviderError
			if errors.As(err, &providerErr) {
				f.recorder.ProviderFailed(classification, providerErr.StatusCode)
			}
			f.logger.WarnContext(ctx, "harvest_page_failed",
				slog.String("classification", classification),
				slog.Int("page", page),
				slog.Int("collected", len(batch.Records)),
				slog.String("error", err.Error()),
			)
			return batch.truncate(minRecords), err
		}
		batch.Pages++

		// 4. Decode; anything unusable is treated as the end of data
		records, total, ok := decodePage(body)
		if total != nil {
			batch.TotalRecords = total
		}
		if !ok {
			f.logger.WarnContext(ctx, "harvest_page_malformed",
				slog.String("classification", classification),
				slog.Int("page", page),
			)
		}
		if len(records) == 0 {
			batch.Stop = StopExhausted
			break
		}

		batch.Records = append(batch.Records, records...)
		f.recorder.PageFetched(classification, len(records))

		f.logger.DebugContext(ctx, "harvest_page_fetched",
			slog.String("classification", classification),
			slog.Int("page", page),
			slog.Int("records", len(records)),
			slog.Int("collected", len(batch.Records)),
		)

		// 5. Termination checks
		if len(batch.Records) >= minRecords {
			batch.Stop = StopTarget
			break
		}
		if batch.TotalRecords != nil {
			totalPages := int64(math.Ceil(float64(*batch.TotalRecords) / float64(pageSize)))
			if int64(page+1) > totalPages {
				batch.Stop = StopTotal
				break
			}
		}
	}

	return batch.truncate(minRecords), nil
}

func cancelled(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		err = cause
	}
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}

func (b *Batch) truncate(n int) *Batch {
	if n >= 0 && len(b.Records) > n {
		b.Records = b.Records[:n]
	}
	return b
}

// # Page Requests

func (f *Fetcher) fetchPage(ctx context.Context, classification string, page, pageSize int) ([]byte, error) {
	endpoint, err := f.pageURL(classification, page, pageSize)
	if err != nil {
		return nil, &ProviderError{Page: page, Err: err}
	}

	for attempt := 0; ; attempt++ {
		body, err := f.get(ctx, endpoint, page)
		if err == nil {
			return body, nil
		}

		var providerErr *ProviderError
		if !errors.As(err, &providerErr) || !providerErr.Retryable() || attempt >= f.cfg.RetryMax || ctx.Err() != nil {
			return nil, err
		}

		wait := f.backoff(attempt)
		f.logger.WarnContext(ctx, "harvest_page_retry",
			slog.String("classification", classification),
			slog.Int("page", page),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, err
		case <-timer.C:
		}
	}
}

func (f *Fetcher) get(ctx context.Context, endpoint string, page int) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Page: page, Err: redact(err)}
	}
	request.Header.Set("Accept", "application/json")

	response, err := f.client.Do(request)
	if err != nil {
		return nil, &ProviderError{Page: page, Err: redact(err)}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxPageBytes))
	if err != nil {
		return nil, &ProviderError{Page: page, Err: redact(err)}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &ProviderError{
			Page:       page,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("unexpected status %d: %s", response.StatusCode, snippet(body)),
		}
	}
	return body, nil
}

func (f *Fetcher) pageURL(classification string, page, pageSize int) (string, error) {
	base, err := url.Parse(strings.TrimRight(f.cfg.BaseURL, "/") + "/" + constants.ProviderObjectEndpoint)
	if err != nil {
		return "", fmt.Errorf("harvest: invalid base url: %w", err)
	}

	params := url.Values{}
	params.Set("apikey", f.cfg.APIKey)
	params.Set("classification", classification)
	params.Set("size", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("hasimage", "1")
	base.RawQuery = params.Encode()

	return base.String(), nil
}

// backoff returns BackoffInitial * 2^attempt capped at BackoffMax.
func (f *Fetcher) backoff(attempt int) time.Duration {
	wait := f.cfg.BackoffInitial * time.Duration(1<<min(attempt, 20))
	if wait > f.cfg.BackoffMax || wait <= 0 {
		wait = f.cfg.BackoffMax
	}
	return wait
}

// # Decoding

// decodePage extracts object records and info.totalrecords from a page body.
// ok is false when the body is not a JSON object.
func decodePage(body []byte) (records []Record, total *int64, ok bool) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, nil, false
	}

	if info, isMap := payload["info"].(map[string]any); isMap {
		total = toInt64(info["totalrecords"])
	}

	raw, isList := payload["records"].([]any)
	if !isList {
		return nil, total, true
	}

	records = make([]Record, 0, len(raw))
	for _, item := range raw {
		if object, isObject := item.(map[string]any); isObject {
			records = append(records, Record(object))
		}
	}
	return records, total, true
}

func toInt64(value any) *int64 {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &n
		}
		if f, err := v.Float64(); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			n := int64(f)
			return &n
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

// # Redaction

// redact strips the API key from URLs embedded in transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = RedactURL(urlErr.URL)
	}
	return err
}

// RedactURL removes the apikey query parameter from raw.
func RedactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	params := parsed.Query()
	if params.Has("apikey") {
		params.Set("apikey", "REDACTED")
		parsed.RawQuery = params.Encode()
	}
	return parsed.String()
}

func snippet(body []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
