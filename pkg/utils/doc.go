// Package utils provides utility packages for common operations.
//
// Subpackages:
//   - notify: formatted message display with symbols, colors, and timing
//   - timer: execution time tracking for single and multi-stage operations
package utils
