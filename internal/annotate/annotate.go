// Package annotate extracts optional video metadata (upload date, view/like/
// dislike counts) from loosely structured catalog text. Everything here is
// best-effort: the catalog gives no stable markup contract, so extraction is
// a ranked list of patterns per field and absence is a normal result.
package annotate

import (
	"regexp"
	"strings"

	"go-channel-archiver/internal/models"
)

// Fields holds whatever the annotator managed to pull out of one text blob.
// Empty string means "not found". DislikeCount starts at the "n/a" sentinel
// because the upstream platform removed public dislike counts entirely.
type Fields struct {
	UploadDate   string
	ViewCount    string
	LikeCount    string
	DislikeCount string
}

// fullDatePatterns are tried in order; any full match wins outright over the
// partial fallbacks below. Context-qualified dates outrank bare ones.
var fullDatePatterns = []*regexp.Regexp{
	// Context-aware patterns (highest priority)
	regexp.MustCompile(`(?i)(?:upload(?:ed)?|publish(?:ed)?|date)[\s\-:]*(\d{4}-\d{2}-\d{2}(?:\s+\d{2}:\d{2}(?::\d{2})?)?)`),
	regexp.MustCompile(`(?i)(?:upload(?:ed)?|publish(?:ed)?|date)[\s\-:]*(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(?i)(?:upload(?:ed)?|publish(?:ed)?|date)[\s\-:]*(\w{3,9}\s+\d{1,2},?\s+\d{4})`),

	// Full date patterns (standalone)
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2}(?:\s+\d{2}:\d{2}(?::\d{2})?)?)`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(\d{4}/\d{2}/\d{2})`),
	regexp.MustCompile(`(\w{3,9}\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(\d{1,2}\s+\w{3,9}\s+\d{4})`),
	regexp.MustCompile(`(\d{2}-\d{2}-\d{4})`),
}

// partialDatePatterns are consulted only when no full date matched. The
// month-year form is restricted to month names so an arbitrary word followed
// by a year is never mistaken for a date.
var partialDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b((?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\s+\d{4})\b`),
	regexp.MustCompile(`(\d{4}-\d{2})\b`),
	regexp.MustCompile(`(\d{2}/\d{4})`),
}

// The labeled count patterns require the colon: "12,345 views 678 likes" must
// not let the views label consume the likes figure. Suffix forms handle the
// unlabeled style.
var viewPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)views?:\s*([\d,]+)`),
	regexp.MustCompile(`(?i)([\d,]+)\s*views?`),
	regexp.MustCompile(`(?i)([\d,]+)\s*visualiz`),
	regexp.MustCompile(`([\d,]+)\s*V\b`),
}

var likePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\blikes?:\s*([\d,]+)`),
	regexp.MustCompile(`(?i)([\d,]+)\s*likes?`),
	regexp.MustCompile(`([\d,]+)\s*👍`),
	regexp.MustCompile(`👍\s*([\d,]+)`),
	regexp.MustCompile(`([\d,]+)\s*L\b`),
}

var dislikePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)dislikes?:\s*([\d,]+)`),
	regexp.MustCompile(`(?i)([\d,]+)\s*dislikes?`),
	regexp.MustCompile(`([\d,]+)\s*👎`),
	regexp.MustCompile(`👎\s*([\d,]+)`),
	regexp.MustCompile(`([\d,]+)\s*D\b`),
}

// Annotate scans text for the optional metadata fields. It never fails;
// fields it cannot find stay empty (dislikes stay at the sentinel).
func Annotate(text string) Fields {
	f := Fields{DislikeCount: models.DislikeNotApplicable}
	f.UploadDate = findDate(text)
	f.ViewCount = findCount(text, viewPatterns, 2)
	f.LikeCount = findCount(text, likePatterns, 1)
	if d := findCount(text, dislikePatterns, 1); d != "" {
		f.DislikeCount = d
	}
	return f
}

// Merge fills the zero fields of dst from src, leaving anything dst already
// has untouched. Used when detail-page annotation supplements listing data.
func Merge(dst, src Fields) Fields {
	if dst.UploadDate == "" {
		dst.UploadDate = src.UploadDate
	}
	if dst.ViewCount == "" {
		dst.ViewCount = src.ViewCount
	}
	if dst.LikeCount == "" {
		dst.LikeCount = src.LikeCount
	}
	if dst.DislikeCount == "" || dst.DislikeCount == models.DislikeNotApplicable {
		if src.DislikeCount != "" {
			dst.DislikeCount = src.DislikeCount
		}
	}
	return dst
}

func findDate(text string) string {
	for _, pattern := range fullDatePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, pattern := range partialDatePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// findCount accepts a match only when it is comma-grouped or longer than
// minDigits, so incidental small integers in surrounding text don't win.
func findCount(text string, patterns []*regexp.Regexp, minDigits int) string {
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := m[1]
		if strings.Contains(candidate, ",") || len(strings.ReplaceAll(candidate, ",", "")) > minDigits {
			return candidate
		}
	}
	return ""
}

// Date format classification regexes, anchored at the start like the source
// strings they describe.
var (
	isoDateRe       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	usDateRe        = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
	writtenDateRe   = regexp.MustCompile(`^[A-Za-z]{3}\s+\d{1,2},?\s+\d{4}`)
	writtenDdDateRe = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3}\s+\d{4}`)
	monthYearRe     = regexp.MustCompile(`^[A-Za-z]{3}\s+\d{4}`)
	yearMonthRe     = regexp.MustCompile(`^\d{4}-\d{2}`)
	yearOnlyRe      = regexp.MustCompile(`^\d{4}`)
)

// ClassifyDate reports the format and completeness of an extracted date
// string so downstream reporting can distinguish full dates from partial ones.
func ClassifyDate(dateStr string) models.DateInfo {
	if dateStr == "" {
		return models.DateInfo{Format: "none", Completeness: "none"}
	}
	dateStr = strings.TrimSpace(dateStr)

	switch {
	case isoDateRe.MatchString(dateStr):
		return models.DateInfo{Date: dateStr, Format: "ISO", Completeness: "full"}
	case usDateRe.MatchString(dateStr):
		return models.DateInfo{Date: dateStr, Format: "US", Completeness: "full"}
	case writtenDateRe.MatchString(dateStr):
		return models.DateInfo{Date: dateStr, Format: "written", Completeness: "full"}
	case writtenDdDateRe.MatchString(dateStr):
		return models.DateInfo{Date: dateStr, Format: "written_dd", Completeness: "full"}
	case monthYearRe.MatchString(dateStr):
		return models.DateInfo{Date: dateStr, Format: "month_year", Completeness: "partial"}
	case yearMonthRe.MatchString(dateStr):
		return models.DateInfo{Date: dateStr, Format: "year_month", Completeness: "partial"}
	case yearOnlyRe.MatchString(dateStr):
		return models.DateInfo{Date: dateStr, Format: "year_only", Completeness: "minimal"}
	default:
		return models.DateInfo{Date: dateStr, Format: "unknown", Completeness: "unknown"}
	}
}
