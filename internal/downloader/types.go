package downloader

import "strings"

// YTDLPInfo mirrors the fields of yt-dlp --dump-single-json output that we use.
// Playlists carry Entries; single media carry Formats.
type YTDLPInfo struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Thumbnail  string        `json:"thumbnail"`
	WebpageURL string        `json:"webpage_url"`
	URL        string        `json:"url"`
	Type       string        `json:"_type"`
	Formats    []YTDLPFormat `json:"formats"`
	Entries    []YTDLPInfo   `json:"entries"`
}

// YTDLPFormat is one entry of the formats list.
type YTDLPFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	URL            string   `json:"url"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
	Resolution     string   `json:"resolution"`
	ABR            float64  `json:"abr"`
	FileSize       *float64 `json:"filesize"`
	FileSizeApprox *float64 `json:"filesize_approx"`
}

// size returns the exact size, else the approximate one.
func (f YTDLPFormat) size() *int64 {
	for _, p := range []*float64{f.FileSize, f.FileSizeApprox} {
		if p != nil && *p > 0 {
			n := int64(*p)
			return &n
		}
	}
	return nil
}

// entryURL returns the URL to resolve a flat playlist entry with.
func (i YTDLPInfo) entryURL() string {
	if strings.HasPrefix(i.URL, "http://") || strings.HasPrefix(i.URL, "https://") {
		return i.URL
	}
	if i.WebpageURL != "" {
		return i.WebpageURL
	}
	return i.URL
}
