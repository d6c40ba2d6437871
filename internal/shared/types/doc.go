// Package types contains shared data structures used across the backend.
package types
