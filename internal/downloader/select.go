package downloader

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// locateOutput returns dest if it exists. Otherwise it looks for a sibling sharing
// dest's basename (yt-dlp may pick a different extension), preferring common
// playable formats, and moves it to dest.
func locateOutput(dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	stem := strings.TrimSuffix(dest, filepath.Ext(dest))
	candidates, err := filepath.Glob(globEscape(stem) + ".*")
	if err != nil {
		return err
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if extPriority(filepath.Ext(c)) < partialPriority {
			kept = append(kept, c)
		}
	}
	candidates = kept
	if len(candidates) == 0 {
		return errors.New("download finished but no output file found")
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := extPriority(filepath.Ext(candidates[i])), extPriority(filepath.Ext(candidates[j]))
		if pi == pj {
			return candidates[i] < candidates[j]
		}
		return pi < pj
	})
	return os.Rename(candidates[0], dest)
}

const partialPriority = 1000

// extPriority returns a priority score for file extensions (lower = better).
func extPriority(ext string) int {
	switch strings.ToLower(ext) {
	case ".mp4":
		return 0
	case ".m4a":
		return 1
	case ".webm":
		return 2
	case ".mkv":
		return 3
	case ".mp3":
		return 4
	case ".opus", ".ogg":
		return 5
	case ".part", ".ytdl":
		return partialPriority
	default:
		return 100
	}
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
