// Package workspace manages ephemeral workspace directories for course
// repository checkouts.
//
// Each workspace is a timestamped directory (e.g. coursebook-20260825-122336)
// below a base directory, created for a single build and removed completely
// by Cleanup afterwards.
package workspace
