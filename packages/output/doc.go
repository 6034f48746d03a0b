// Package output renders smoke-test progress to the terminal.
//
// Each step is printed as a label line followed by "Status: <code>",
// "Response: <body>" and a blank separator line. Colour is applied to the
// label only, so the status and body lines stay byte-for-byte stable.
package output
