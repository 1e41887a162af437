package helpers

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FallbackTitle is used when a title cannot be sanitized into anything usable.
const FallbackTitle = "unknown_video"

// paginationGlyphs are link texts that mark pagination chrome, not videos.
var paginationGlyphs = map[string]bool{
	"↗": true, "→": true, "»": true,
	"next": true, "more": true, "prev": true, "previous": true,
}

// IsPaginationGlyph reports whether s is one of the known pagination artifacts.
func IsPaginationGlyph(s string) bool {
	return paginationGlyphs[strings.ToLower(strings.TrimSpace(s))]
}

// unicodeReplacements maps typographic characters that upset some filesystems
// (and archive tooling) onto plain ASCII.
var unicodeReplacements = map[string]string{
	"…": "...",
	"“": "\"", "”": "\"",
	"‘": "'", "’": "'",
	"–": "-", "—": "-",
	"│": "|",
	"└": "-", "├": "-", "┤": "-",
	"┐": "-", "┘": "-", "┌": "-",
}

// SanitizeFilename makes a display title safe to use as a folder/file stem on
// Windows and Unix alike. It never returns an empty string: titles that are
// missing, too short, or pagination chrome collapse to FallbackTitle.
func SanitizeFilename(filename string) string {
	filename = strings.TrimSpace(filename)
	if len(filename) < 2 || IsPaginationGlyph(filename) {
		return FallbackTitle
	}

	// Trim edge dots before the unicode replacements run: an ellipsis maps
	// to "..." on purpose and must survive.
	filename = strings.Trim(filename, " .")

	for _, ch := range `<>:"/\|?*` {
		filename = strings.ReplaceAll(filename, string(ch), "_")
	}
	for old, replacement := range unicodeReplacements {
		filename = strings.ReplaceAll(filename, old, replacement)
	}

	// Drop control characters.
	var b strings.Builder
	for _, r := range filename {
		if r >= 32 {
			b.WriteRune(r)
		}
	}
	filename = strings.TrimSpace(b.String())

	// Windows caps the full path at 255 characters; keep the stem short.
	if len(filename) > 100 {
		filename = strings.TrimSpace(filename[:100])
	}

	if len(filename) < 2 {
		return FallbackTitle
	}
	return filename
}

// CounterWriter tracks the number of bytes written to the underlying writer.
// It's used to report download sizes.
type CounterWriter struct {
	Total  uint64
	Writer io.Writer
}

// Write implements the io.Writer interface for CounterWriter.
func (cw *CounterWriter) Write(p []byte) (int, error) {
	n, err := cw.Writer.Write(p)
	cw.Total += uint64(n)
	return n, err
}

// BytesToSize converts a byte count into a human-readable string (KB, MB, GB, etc.).
func BytesToSize(bytes uint64) string {
	sizes := []string{"B", "KB", "MB", "GB", "TB"}
	if bytes == 0 {
		return "0B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	return fmt.Sprintf("%.2f%s", float64(bytes)/math.Pow(1024, float64(i)), sizes[i])
}

// CheckAndMakeDir ensures a directory exists, creating it if necessary.
// Uses standard directory permissions (0700).
func CheckAndMakeDir(dir string) bool {
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		log.WithError(err).Errorf("Error creating directory %s", dir)
		return false
	}
	return true
}
