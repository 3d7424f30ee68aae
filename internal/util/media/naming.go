package media

import (
	"strings"
	"unicode/utf8"

	"vidsnatch/internal/util"
)

// TitlePrefixRunes bounds the title part of output filenames.
const TitlePrefixRunes = 50

// OutputFilename builds the final filename for a download:
// <title prefix>_<label>.<container>, with separators and unsafe characters replaced.
func OutputFilename(title, label, container string) string {
	t := truncateRunes(strings.TrimSpace(title), TitlePrefixRunes)
	l := strings.NewReplacer(":", "_", " ", "_").Replace(label)
	name := util.SanitizeFilename(t, TitlePrefixRunes) + "_" + util.SanitizeFilename(l, 0)
	if container == "" {
		return name
	}
	return name + "." + strings.TrimPrefix(container, ".")
}

// TempName returns an intermediate filename unique to one execution, e.g.
// "temp_video-<execID>.webm".
func TempName(kind, execID, ext string) string {
	name := "temp_" + kind + "-" + util.SanitizeFilename(execID, 0)
	if ext == "" {
		return name
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
