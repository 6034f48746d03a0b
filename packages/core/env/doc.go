// Package env handles environment variables for hitsmoke.
//
// It provides functionality for:
//   - Loading .env files
//   - Looking variables up across the process environment and .env values
package env
