// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants collects the defaults and identifiers shared across Relic:
// server timing, rate limits, provider pacing, Redis key prefixes and query caps.
package constants

import "time"

// # Metadata

const (
	AppName    = "relic"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Harvest requests page through the provider synchronously, so this is generous.
	DefaultWriteTimeout = 10 * time.Minute

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for non-harvest request lifecycles.
	GlobalRequestTimeout = 30 * time.Second

	// HarvestRequestTimeout bounds a full fetch-and-persist run triggered over HTTP.
	HarvestRequestTimeout = 9 * time.Minute

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Provider (Harvard Art Museums API)

const (
	// ProviderBaseURL is the default collection API root.
	ProviderBaseURL = "https://api.harvardartmuseums.org"

	// ProviderObjectEndpoint is the path of the object search resource.
	ProviderObjectEndpoint = "object"

	// ProviderTimeout bounds a single page request.
	ProviderTimeout = 30 * time.Second

	// ProviderPageDelay is the pause between two page requests.
	ProviderPageDelay = 200 * time.Millisecond

	// ProviderMaxPages is the hard ceiling of page requests per harvest.
	ProviderMaxPages = 200

	// ProviderPageSize is the default and maximum page size accepted by the provider.
	ProviderPageSize = 100

	// HarvestMinRecords and HarvestMaxRecords bound the target record count of one harvest.
	HarvestMinRecords = 1
	HarvestMaxRecords = 2000

	// HarvestDefaultRecords is used when the caller does not provide a target.
	HarvestDefaultRecords = 200
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// # Health Fields

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixHarvestBatch = "harvest:batch:"
)

// # Query Surface

const (
	// QueryMaxRows caps the rows returned by catalog and ad hoc statements.
	QueryMaxRows = 5000

	// QueryStatementMaxLen caps the size of an ad hoc statement.
	QueryStatementMaxLen = 10_000
)
