package downloader

import (
	"strconv"
	"strings"
)

// progressTemplate makes yt-dlp print machine-readable byte counts, one line per update.
const progressTemplate = "download:[progress] %(progress.status)s %(progress.downloaded_bytes)s %(progress.total_bytes)s %(progress.total_bytes_estimate)s"

// ParseProgress parses yt-dlp progress output lines. It understands the
// "[progress] <status> <downloaded> <total> <estimate>" lines produced by
// progressTemplate, and the default human format:
//
//	[download]  45.2% of 10.00MiB at  1.50MiB/s ETA 00:04
func ParseProgress(line string) (FetchProgress, bool) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "[progress]"):
		return parseTemplateLine(strings.Fields(strings.TrimPrefix(line, "[progress]")))
	case strings.HasPrefix(line, "[download]"):
		return parseHumanLine(strings.TrimSpace(strings.TrimPrefix(line, "[download]")))
	default:
		return FetchProgress{}, false
	}
}

func parseTemplateLine(fields []string) (FetchProgress, bool) {
	if len(fields) < 2 {
		return FetchProgress{}, false
	}
	downloaded, ok := parseCount(fields[1])
	if !ok {
		return FetchProgress{}, false
	}
	p := FetchProgress{Status: fields[0], Downloaded: downloaded}
	for _, f := range fields[2:] {
		if n, ok := parseCount(f); ok && n > 0 {
			p.Total = n
			break
		}
	}
	return p, true
}

// parseCount parses integer or float byte counts; yt-dlp prints "NA" when unknown.
func parseCount(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int64(f), true
	}
	return 0, false
}

func parseHumanLine(rest string) (FetchProgress, bool) {
	idx := strings.Index(rest, "%")
	if idx == -1 {
		return FetchProgress{}, false
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(rest[:idx]), 64)
	if err != nil {
		return FetchProgress{}, false
	}

	p := FetchProgress{Status: "downloading"}
	if i := strings.Index(rest, " of "); i != -1 {
		sizePart := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest[i+4:]), "~"))
		if j := strings.IndexByte(sizePart, ' '); j != -1 {
			sizePart = sizePart[:j]
		}
		p.Total = parseSize(sizePart)
	}
	if p.Total > 0 {
		p.Downloaded = int64(pct / 100 * float64(p.Total))
	}
	if pct >= 100 {
		p.Status = "finished"
	}
	return p, true
}

var sizeUnits = []struct {
	suffix string
	mult   float64
}{
	{"KiB", 1 << 10}, {"MiB", 1 << 20}, {"GiB", 1 << 30}, {"TiB", 1 << 40},
	{"KB", 1e3}, {"MB", 1e6}, {"GB", 1e9}, {"TB", 1e12},
	{"B", 1},
}

// parseSize parses sizes like "10.00MiB". It returns 0 when the size is not understood.
func parseSize(s string) int64 {
	for _, u := range sizeUnits {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
		if err != nil {
			return 0
		}
		return int64(f * u.mult)
	}
	return 0
}
