// Package logger provides structured logging for specvault.
package logger

import (
	"fmt"
	"log/slog"
)

// maxAttrLen is the longest string attribute emitted verbatim. Manifest
// blobs and slot file contents routinely exceed this; the log carries a
// prefix plus the original length instead of the full payload.
const maxAttrLen = 256

// truncateLarge caps oversized string attributes.
func truncateLarge(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if len(s) > maxAttrLen {
			return slog.String(a.Key, TruncateString(s))
		}
	}

	// Handle nested groups recursively.
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = truncateLarge(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// TruncateString caps a string for logging, appending the original size.
// Use this when building a log value by hand.
func TruncateString(s string) string {
	if len(s) <= maxAttrLen {
		return s
	}
	return fmt.Sprintf("%s...(%d bytes total)", s[:maxAttrLen], len(s))
}
