// Package sanitizer normalizes untrusted text before it is validated or stored.
//
// Transformations are plain func(string) string values that can be chained
// with Apply or captured as a reusable pipeline with Compose:
//
//	clean := sanitizer.Compose(sanitizer.RemoveControlChars, sanitizer.SingleLine)
//	title := clean(raw.Title)
package sanitizer
