// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Showroom: Page sizes, list caps and carousel timing.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "autoluxe-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Showroom

const (
	// InventoryPageSize is the number of vehicles per grid page.
	InventoryPageSize = 12

	// VideoPageSize is the load-more step of the video hub.
	VideoPageSize = 12

	// SimilarLimit is how many similar vehicles the detail view shows.
	SimilarLimit = 3

	// RelatedVideoLimit is how many related videos the player shows.
	RelatedVideoLimit = 3

	// FeaturedLimit is how many featured vehicles the landing page shows.
	FeaturedLimit = 3

	// CarouselInterval is the auto-advance period of the detail image carousel.
	CarouselInterval = 5 * time.Second

	// SubmissionDelay is the simulated network latency of a contact submission.
	SubmissionDelay = 2 * time.Second

	// SubmissionRetention is how long a settled submission stays queryable by ticket.
	SubmissionRetention = 10 * time.Minute

	// SessionSweepInterval is how often idle visitor sessions are evicted.
	SessionSweepInterval = 1 * time.Minute

	// StorageJanitorInterval is how often expired visitor state is purged.
	StorageJanitorInterval = 15 * time.Minute

	// StorageRetryAfter is how long a failed namespace is served from memory
	// before the backend is tried again.
	StorageRetryAfter = 30 * time.Second
)

// # Visitor List Caps

const (
	// RecentlyViewedLimit bounds the recently viewed list.
	RecentlyViewedLimit = 10

	// SearchHistoryLimit bounds the search history list.
	SearchHistoryLimit = 10

	// AnalyticsLimit bounds the local view analytics list.
	AnalyticsLimit = 100
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixVisitor = "visitor:"
)
