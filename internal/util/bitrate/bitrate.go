// Package bitrate parses the loosely formatted quality strings reported by metadata resolvers.
package bitrate

import (
	"strconv"
	"strings"
)

// LeadingInt returns the integer formed by the leading digits of s, ignoring
// surrounding whitespace. Trailing unit letters or fractions are dropped.
// It returns 0 when s does not start with a digit.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ParseKbps parses an audio bitrate such as "128", "129.478" or "160k" as whole kbps.
func ParseKbps(s string) int {
	return LeadingInt(s)
}

// ParseResolution returns the vertical size encoded in a resolution string.
// "1080p" yields 1080 and "1920x1080" yields 1080. Unparseable input yields 0.
func ParseResolution(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, 'x'); i > 0 {
		if h := LeadingInt(s[i+1:]); h > 0 {
			return h
		}
	}
	return LeadingInt(s)
}

// FormatKbps renders an abr value the way labels show it: no trailing zeros, empty when unknown.
func FormatKbps(abr float64) string {
	if abr <= 0 {
		return ""
	}
	return strconv.FormatFloat(abr, 'f', -1, 64)
}
