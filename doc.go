// Package postapi provides a blog post API and a Telegram catalog bot.
//
// The binaries live under cmd/ and the implementation is organized into
// internal packages:
//
// - internal/posts: post and comment services, paging and slugs
// - internal/handlers: HTTP request handlers and route registration
// - internal/auth: JWT login and token validation
// - internal/bot: Telegram dispatcher, per-chat cursors and polling runner
// - internal/models: Data models and database schemas
// - internal/database: Database connection and migrations
// - internal/storage: S3 uploads for post images
// - internal/cache: Redis client used by rate limiting and bot cursors
// - internal/middleware: HTTP middleware (request ids, logging, metrics, tracing, rate limiting)
// - internal/metrics: Prometheus collectors
// - internal/telemetry: OpenTelemetry setup and instrumentation
// - internal/client: HTTP client for the API used by the CLI
// - internal/seed: Sample data
package postapi
