package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// displayLayout renders times like "Jul 31, 10:00 AM"; the zone suffix is
// appended separately so it always reads UTC.
const displayLayout = "Jan 2, 03:04 PM"

// FormatTime renders t in UTC for display.
func FormatTime(t time.Time) string {
	return t.UTC().Format(displayLayout) + " UTC"
}

// FormatDate parses an RFC 3339 timestamp and renders it for display. Input
// that does not parse is returned unchanged. Records loaded through the
// catalog carry parsed times and use FormatTime; FormatDate is for
// timestamps that are still strings.
func FormatDate(value string) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return FormatTime(t)
}

// formatTimestamp is the machine-readable form used in exports.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// titleCase upper-cases the first rune of s.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
