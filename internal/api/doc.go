// Package api provides an HTTP client for the odonto admin REST API.
//
// # Endpoints
//
//   - GET <root>/<resource>?page=&limit=&sort=&<filters>&populate=
//   - DELETE <root>/<resource>/<id>
//
// Resources are cases, users and activities. Collection endpoints answer with
// an {"items": [...], "total": n} envelope; a bare JSON array with the total
// in X-Total-Count is accepted too.
//
// # Requests
//
// Every request carries Accept: application/json, a User-Agent, a fresh
// X-Request-ID and, when configured, an Authorization bearer token. Timeouts
// belong to the underlying http.Client; cancellation comes from the caller's
// context. Nothing is retried here.
//
// # Errors
//
// Responses with status >= 400 become StatusError. Transport and decoding
// failures are wrapped with fmt.Errorf ("execute request: ...",
// "decode response: ...").
//
// # Grids
//
// Feed adapts a collection endpoint to grid.Feed. The grid state is rendered
// with grid.QueryValues, so the API sees the same parameter names as the
// console's own URLs.
package api
