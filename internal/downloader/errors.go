package downloader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResolve reports that metadata resolution failed before any option existed.
	ErrResolve = errors.New("resolve failed")
	// ErrAborted reports a transfer stopped because the progress callback asked for it.
	ErrAborted = errors.New("transfer aborted")
)

// Reasons recognised in yt-dlp stderr.
var (
	ErrUnsupportedURL = errors.New("unsupported URL")
	ErrUnavailable    = errors.New("media unavailable")
	ErrPrivate        = errors.New("media is private")
	ErrGeoRestricted  = errors.New("not available in this region")
	ErrSignIn         = errors.New("sign-in required")
)

// classify maps yt-dlp stderr to one of the known reasons, or nil.
func classify(stderr string) error {
	s := strings.ToLower(stderr)
	switch {
	case strings.Contains(s, "unsupported url"):
		return ErrUnsupportedURL
	case strings.Contains(s, "private video"):
		return ErrPrivate
	case strings.Contains(s, "video unavailable"), strings.Contains(s, "has been deleted"), strings.Contains(s, "http error 404"):
		return ErrUnavailable
	case strings.Contains(s, "not available in your country"), strings.Contains(s, "geo restricted"):
		return ErrGeoRestricted
	case strings.Contains(s, "sign in to confirm"), strings.Contains(s, "login required"), strings.Contains(s, "age-restricted"):
		return ErrSignIn
	default:
		return nil
	}
}

// resolveError wraps a resolver failure with ErrResolve and, when recognised, its reason.
func resolveError(url string, stderr []byte, cause error) error {
	if reason := classify(string(stderr)); reason != nil {
		return fmt.Errorf("%w: %s: %w", ErrResolve, url, reason)
	}
	return fmt.Errorf("%w: %s: %v", ErrResolve, url, cause)
}
