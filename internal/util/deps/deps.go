package deps

import (
	"fmt"
	"os"
	"os/exec"
)

// FindDownloader returns the path to yt-dlp or youtube-dl.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		return findCustom("downloader", customPath)
	}
	for _, name := range []string{"yt-dlp", "youtube-dl"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("could not find yt-dlp or youtube-dl in PATH; install yt-dlp or pass --dl-binary")
}

// FindFFmpeg returns the path to ffmpeg, honoring an explicit customPath.
func FindFFmpeg(customPath string) (string, error) {
	if customPath != "" {
		return findCustom("ffmpeg", customPath)
	}
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find ffmpeg in PATH; install ffmpeg or pass --ffmpeg-binary")
}

func findCustom(what, p string) (string, error) {
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return p, nil
	}
	if lp, err := exec.LookPath(p); err == nil {
		return lp, nil
	}
	return "", fmt.Errorf("could not find %s at %q", what, p)
}
