// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package harvest pulls raw object records from the museum collection provider.

A harvest pages through the provider's object search for one classification
until a target record count is reached or the provider runs dry, and returns the
accumulated records as a bounded [Batch].

Failure Model:

  - Transport errors and non-2xx responses stop paging. The records collected so
    far are still returned, together with a [*ProviderError] describing the page
    that failed.
  - A page without records (missing, empty or malformed) is a normal end of data.
  - Retries are opt-in through [Config.RetryMax]; the default is fail-fast.
*/
package harvest

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/relic/internal/platform/constants"
)

// Record is one raw provider object as decoded from JSON.
//
// Numbers are kept as json.Number so large identities survive without float rounding.
type Record map[string]any

// # Stop Reasons

// StopReason records why paging ended.
type StopReason string

const (
	StopTarget    StopReason = "target_reached"
	StopTotal     StopReason = "total_exhausted"
	StopExhausted StopReason = "records_exhausted"
	StopCeiling   StopReason = "page_ceiling"
	StopCancelled StopReason = "cancelled"
	StopError     StopReason = "provider_error"
)

// # Batch

// Batch is the bounded result of one harvest.
type Batch struct {
	Classification string     `json:"classification"`
	Records        []Record   `json:"records"`
	Pages          int        `json:"pages"`
	TotalRecords   *int64     `json:"total_records"`
	Stop           StopReason `json:"stop"`
	FetchedAt      time.Time  `json:"fetched_at"`
}

// Len returns the number of records held by the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}

// # Errors

// ErrCancelled is reported when the caller's context ends between two pages.
var ErrCancelled = errors.New("harvest: cancelled")

// ProviderError reports a page request that failed after all retries.
type ProviderError struct {
	Page       int
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("harvest: page %d: provider responded %d %s", e.Page, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("harvest: page %d: %v", e.Page, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient (transport, 408, 429, 5xx).
func (e *ProviderError) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500 && e.StatusCode <= 599:
		return true
	}
	return false
}

// # Configuration

// Config is the provider parameter object injected into [New].
type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	PageDelay      time.Duration
	MaxPages       int
	RetryMax       int
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// HTTPClient overrides the client built from Timeout. Used by tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the provider defaults with no API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:        constants.ProviderBaseURL,
		Timeout:        constants.ProviderTimeout,
		PageDelay:      constants.ProviderPageDelay,
		MaxPages:       constants.ProviderMaxPages,
		BackoffInitial: 2 * time.Second,
		BackoffMax:     20 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.PageDelay < 0 {
		c.PageDelay = 0
	}
	if c.MaxPages <= 0 {
		c.MaxPages = def.MaxPages
	}
	if c.RetryMax < 0 {
		c.RetryMax = 0
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = def.BackoffInitial
	}
	if c.BackoffMax < c.BackoffInitial {
		c.BackoffMax = c.BackoffInitial
	}
	return c
}

// # Instrumentation

// Recorder receives paging events. The zero Fetcher uses a no-op recorder.
type Recorder interface {
	PageFetched(classification string, records int)
	ProviderFailed(classification string, statusCode int)
}

type nopRecorder struct{}

func (nopRecorder) PageFetched(string, int)    {}
func (nopRecorder) ProviderFailed(string, int) {}
