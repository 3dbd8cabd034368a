// Package catalogd is a development server for the services and pricing API.
//
// It serves the same routes and payloads as the production API so the
// client can be run and tested without it:
//
//   - GET  /health
//   - GET  /metrics (Prometheus)
//   - GET  /api/services/categories/
//   - GET  /api/services/categories/:slug/?brand=&model=
//   - POST /api/otp/request/
//   - POST /api/otp/verify/
//   - GET  /api/me/ (bearer token required)
//
// # Pricing
//
// A category is found by slug, then by name with dashes read as spaces.
// When both brand and model are given, each service's real_price is the
// first price-sheet row for that brand whose product name contains the
// service header: a model-specific row wins over a brand-generic one (empty
// model or "generic"). display_price is real_price when found, else price.
// Featured services are listed first.
//
// # Login
//
// There is no SMS gateway. Requested codes are logged at info level, or
// Config.FixedOTP is issued for scripted use. Codes expire after five
// minutes and a new request replaces the old code. Verification returns
// HS256 access (5 minutes) and refresh (24 hours) tokens signed with
// Config.TokenSecret.
//
// # Operation
//
// Serve runs the HTTP server until its context is cancelled and then
// shuts down gracefully. Requests are logged through zap at debug level and
// counted in catalogd_http_requests_total and
// catalogd_http_request_duration_seconds.
package catalogd
