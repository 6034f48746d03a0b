// Package cmd implements the hitsmoke CLI commands using Cobra.
//
// Running hitsmoke with no arguments sends the fixed smoke sequence to the
// configured endpoint and prints every exchange. Other commands:
//   - serve: Run the in-memory reference server the sequence targets
//   - version: Show hitsmoke version information
package cmd
