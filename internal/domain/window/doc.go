// Package window implements the desktop window manager: per-kind window
// slots, recency-based stacking, drag gestures with viewport clamping,
// and maximize toggling.
package window
