package downloader

import "context"

// FetchRequest identifies one stream and where to write it.
type FetchRequest struct {
	FormatID  string
	URL       string // direct stream URL
	SourceURL string // page URL, used by backends that select streams by format ID
	Dest      string
}

// FetchProgress is reported while a stream transfers.
type FetchProgress struct {
	Status     string // "downloading" or "finished"
	Downloaded int64
	Total      int64 // exact or estimated; 0 when unknown
}

// ProgressFunc receives transfer progress. Returning an error stops the transfer;
// the fetcher then returns an error wrapping both ErrAborted and the returned error.
type ProgressFunc func(FetchProgress) error

// Fetcher streams one stream to a destination path.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest, onProgress ProgressFunc) error
}
