// Package http provides the HTTP client used by the smoke runner.
//
// It wraps the standard library's http package with:
//   - Configurable timeouts
//   - Redirect handling
//   - Default headers
//   - Fully buffered responses, one connection per exchange
package http
