// Package debug offers selective debug logging on top of slog.
//
// Output is filtered along two independent axes: which subsystems emit
// (MODELGATE_DEBUG, a comma-separated category list) and how verbose they
// are (MODELGATE_LOG_LEVEL). Known categories are providers, contract,
// tools, config, and all; levels run from ERROR down to TRACE.
//
//	debug.Log("providers", "request", "method", "POST", "url", url)
//	if debug.Enabled("providers") { /* expensive formatting */ }
package debug

import (
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits one notch below slog.LevelDebug. TRACE output includes
// full request/response bodies without truncation.
const LevelTrace = slog.LevelDebug - 4

// categories is the enabled category set. Written only by init and Init,
// read-only afterwards.
var categories map[string]bool

func init() {
	// Pick up the env var right away; Init may refine this later once
	// config is loaded.
	categories = parseCategories(os.Getenv("MODELGATE_DEBUG"))
}

// Init applies debug settings at startup, combining config values with
// environment variables. The environment wins when both are set.
func Init(configCategories string, configLevel string) {
	cats := os.Getenv("MODELGATE_DEBUG")
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv("MODELGATE_LOG_LEVEL")
	if level == "" {
		level = configLevel
	}
	if level == "" {
		level = "INFO"
	}

	slogLevel := ParseLevel(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
	})))
}

// Enabled reports whether the category (or "all") is switched on.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a debug message when the category is enabled, otherwise it is
// a no-op.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a message at LevelTrace for the given category, visible only
// when the log level is TRACE.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(nil, LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// ParseLevel maps a level name to its slog.Level, defaulting to INFO for
// unknown input.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO", "":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Truncate shortens s to maxLen bytes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	if s == "" {
		return m
	}
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
