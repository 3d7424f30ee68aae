package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"vidsnatch/internal/util"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// HTTPFetcher streams a direct stream URL to disk.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
	ChunkSize int
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, req FetchRequest, onProgress ProgressFunc) error {
	if req.URL == "" {
		return errors.New("stream URL is required")
	}
	if req.Dest == "" {
		return errors.New("destination path is required")
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	ua := f.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	hreq.Header.Set("User-Agent", ua)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(hreq)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", req.FormatID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %s: unexpected status %s", req.FormatID, resp.Status)
	}

	if err := util.EnsureDir(filepath.Dir(req.Dest)); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	out, err := os.Create(req.Dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", req.Dest, err)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	copyErr := f.copy(out, resp.Body, total, onProgress)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", req.Dest, closeErr)
	}
	return nil
}

func (f *HTTPFetcher) copy(dst io.Writer, src io.Reader, total int64, onProgress ProgressFunc) error {
	size := f.ChunkSize
	if size <= 0 {
		size = 256 * 1024
	}
	buf := make([]byte, size)
	var done int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write: %w", werr)
			}
			done += int64(n)
			if onProgress != nil {
				if err := onProgress(FetchProgress{Status: "downloading", Downloaded: done, Total: total}); err != nil {
					return fmt.Errorf("%w: %w", ErrAborted, err)
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read: %w", rerr)
		}
	}
	if onProgress != nil {
		if total == 0 {
			total = done
		}
		if err := onProgress(FetchProgress{Status: "finished", Downloaded: done, Total: total}); err != nil {
			return fmt.Errorf("%w: %w", ErrAborted, err)
		}
	}
	return nil
}
