// Package catalog provides an HTTP client for the services and pricing API.
//
// # Endpoints
//
//   - GET /api/services/categories/: active categories
//   - GET /api/services/categories/<slug>/?brand=&model=&fuel=&city=: services
//     of one category, priced for the selected car
//   - POST /api/otp/request/: text a login code to a phone number
//   - POST /api/otp/verify/: exchange the code for access and refresh tokens
//   - GET /api/me/: the user a bearer token belongs to
//
// Query parameters are built by selection.QueryParams and sent in the order
// brand, model, fuel, city. The server prices by brand and model; fuel and
// city are forwarded for caching and analytics.
//
// # Requests
//
// Every request:
//   - carries the caller's context
//   - sets Accept: application/json and User-Agent: carbook/0.1
//   - sets a fresh X-Request-ID (UUID v4) for server-side correlation
//   - adds Authorization: Bearer <token> when a TokenSource yields one
//
// The default timeout is 10 seconds and can be changed with WithTimeout.
//
// # Errors
//
//   - 404 wraps ErrNotFound (unknown category slug)
//   - other 4xx/5xx return *APIError carrying the server's "error" field
//   - transport and decode failures are wrapped with fmt.Errorf
//
// # Prices
//
// Prices are decimal strings and may be null. Service.EffectivePrice picks
// display_price, then real_price, then price. PricingContext tells whether
// the server found brand/model-specific prices (HasRealPricing).
//
// SortServices puts comprehensive packages first, then standard, then basic,
// keeping the server's order inside each group.
//
// # Base URL
//
// NewClient accepts "host:port" or a full URL. The scheme defaults to http,
// and any path, query or fragment is dropped.
package catalog
