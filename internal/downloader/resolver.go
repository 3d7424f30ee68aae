package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vidsnatch/internal/model"
	"vidsnatch/internal/util"
	"vidsnatch/internal/util/bitrate"
)

// Resolver turns a media URL into media items and their raw streams using yt-dlp.
type Resolver struct {
	Path    string // yt-dlp or youtube-dl binary
	Verbose bool
	Runner  util.CmdRunner
	Logger  *zap.Logger
}

// Resolve returns one item for a single media URL, or one item per playlist entry.
// Responses are cached by URL for the duration of the call only.
func (r *Resolver) Resolve(ctx context.Context, url string) ([]model.MediaItem, error) {
	if r.Path == "" {
		return nil, fmt.Errorf("%w: downloader path is required", ErrResolve)
	}
	log := r.logger().With(zap.String("url", url))
	cache := make(map[string]YTDLPInfo)

	top, err := r.dump(ctx, url, true, cache)
	if err != nil {
		return nil, err
	}
	if len(top.Entries) == 0 {
		return []model.MediaItem{toMediaItem(top, url)}, nil
	}

	log.Debug("resolving playlist", zap.Int("entries", len(top.Entries)))
	items := make([]model.MediaItem, 0, len(top.Entries))
	var lastErr error
	for _, e := range top.Entries {
		eu := e.entryURL()
		if eu == "" {
			continue
		}
		info, err := r.dump(ctx, eu, false, cache)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Warn("skipping playlist entry", zap.String("entry", eu), zap.Error(err))
			lastErr = err
			continue
		}
		items = append(items, toMediaItem(info, eu))
	}
	if len(items) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: %s: playlist has no resolvable entries", ErrResolve, url)
	}
	return items, nil
}

func (r *Resolver) dump(ctx context.Context, url string, flat bool, cache map[string]YTDLPInfo) (YTDLPInfo, error) {
	if info, ok := cache[url]; ok {
		return info, nil
	}
	args := []string{"--dump-single-json", "--no-warnings"}
	if flat {
		args = append(args, "--flat-playlist")
	} else {
		args = append(args, "--no-playlist")
	}
	args = append(args, url)

	res, runErr := r.runner().Run(ctx, util.CmdSpec{
		Path:    r.Path,
		Args:    args,
		Verbose: r.Verbose,
	})
	if runErr != nil && len(res.Stdout) == 0 {
		return YTDLPInfo{}, resolveError(url, res.Stderr, runErr)
	}
	info, err := decodeInfo(res.Stdout)
	if err != nil {
		return YTDLPInfo{}, fmt.Errorf("%w: %s: parse metadata JSON: %v", ErrResolve, url, err)
	}
	cache[url] = info
	return info, nil
}

// decodeInfo parses the JSON document printed by yt-dlp. When stdout holds several
// lines, the last line that decodes wins.
func decodeInfo(stdout []byte) (YTDLPInfo, error) {
	data := strings.TrimSpace(string(stdout))
	var info YTDLPInfo
	err := json.Unmarshal([]byte(data), &info)
	if err == nil {
		return info, nil
	}
	lines := strings.Split(data, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var tmp YTDLPInfo
		if json.Unmarshal([]byte(line), &tmp) == nil && (tmp.ID != "" || len(tmp.Formats) > 0) {
			return tmp, nil
		}
	}
	return YTDLPInfo{}, err
}

func toMediaItem(info YTDLPInfo, sourceURL string) model.MediaItem {
	item := model.MediaItem{
		ID:           valueOr(info.ID, "unknown"),
		Title:        valueOr(info.Title, "Unknown Title"),
		ThumbnailURL: info.Thumbnail,
		SourceURL:    valueOr(info.WebpageURL, sourceURL),
	}
	item.Streams = make([]model.StreamInfo, 0, len(info.Formats))
	for _, f := range info.Formats {
		s := model.StreamInfo{
			URL:       f.URL,
			FormatID:  f.FormatID,
			Ext:       f.Ext,
			IsAudio:   f.VCodec == "none",
			SizeBytes: f.size(),
			SourceURL: item.SourceURL,
		}
		if s.IsAudio {
			s.Bitrate = bitrate.FormatKbps(f.ABR)
		} else {
			s.Resolution = f.Resolution
		}
		item.Streams = append(item.Streams, s)
	}
	return item
}

func (r *Resolver) runner() util.CmdRunner {
	if r.Runner == nil {
		return util.NewDefaultRunner()
	}
	return r.Runner
}

func (r *Resolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
