// Package smoke runs the fixed HTTP smoke-test sequence against one endpoint.
//
// The sequence exercises POST, GET, PUT and DELETE with plain-text and JSON
// payloads. Steps run strictly one after another; nothing is asserted, each
// exchange is handed to a Reporter for display. A transport failure stops the
// run at the failing step.
package smoke
