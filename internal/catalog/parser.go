// Package catalog handles discovery of a channel's videos on the catalog
// site: parsing individual listing pages and walking the site's pagination.
package catalog

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go-channel-archiver/internal/annotate"
	"go-channel-archiver/internal/helpers"
	"go-channel-archiver/internal/models"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// The two accepted link shapes for a video entry: the original platform's
// watch URL and the catalog site's own per-video page.
var (
	watchIdRe   = regexp.MustCompile(`[?&]v=([a-zA-Z0-9_-]{11})`)
	catalogIdRe = regexp.MustCompile(`/video/([a-zA-Z0-9_-]{11})`)
	videoHrefRe = regexp.MustCompile(`(youtube\.com/watch\?v=|/video/)`)

	containerClassRe = regexp.MustCompile(`(?i)video|result|item`)
	titleClassRe     = regexp.MustCompile(`(?i)title|name`)

	nextTextRe   = regexp.MustCompile(`(?i)next|→|»`)
	pageParamRe  = regexp.MustCompile(`page=\d+|offset=\d+`)
	nextClassRe  = regexp.MustCompile(`(?i)next|pagination`)
	pageNumberRe = regexp.MustCompile(`page=(\d+)`)
)

// ParsePage extracts the ordered, page-local-deduplicated list of video
// records visible on one listing page, and the URL of the next page if one
// can be determined. Cross-page dedup is the walker's job.
func ParsePage(pageHtml string, pageUrl string) ([]models.VideoRecord, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHtml))
	if err != nil {
		return nil, "", fmt.Errorf("error parsing page HTML from %s: %w", pageUrl, err)
	}

	videos := extractVideos(doc, pageUrl)
	nextUrl := findNextPageUrl(doc, pageUrl)
	return videos, nextUrl, nil
}

func extractVideos(doc *goquery.Document, pageUrl string) []models.VideoRecord {
	// Structural containers first: elements whose class markup signals a
	// video row. Fall back to a raw link scan when the page has none.
	var containers []*goquery.Selection
	doc.Find("tr, div, li").Each(func(_ int, s *goquery.Selection) {
		if class, ok := s.Attr("class"); ok && containerClassRe.MatchString(class) {
			containers = append(containers, s)
		}
	})
	if len(containers) == 0 {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok && videoHrefRe.MatchString(href) {
				containers = append(containers, s)
			}
		})
	}

	var videos []models.VideoRecord
	seenOnPage := make(map[string]bool)

	for _, container := range containers {
		link := container
		if !container.Is("a") {
			link = container.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
				href, ok := s.Attr("href")
				return ok && videoHrefRe.MatchString(href)
			}).First()
			if link.Length() == 0 {
				continue
			}
		}

		href, ok := link.Attr("href")
		if !ok || href == "" {
			continue
		}

		videoID := extractVideoID(href)
		if videoID == "" || seenOnPage[videoID] {
			continue
		}
		seenOnPage[videoID] = true

		title := extractTitle(link, container)
		if title == "" {
			// Pagination chrome, not a video.
			log.Debugf("Discarding entry %s with no usable title", videoID)
			continue
		}

		fields := annotate.Annotate(container.Text())

		videos = append(videos, models.VideoRecord{
			VideoID:      videoID,
			Title:        helpers.SanitizeFilename(title),
			OriginalUrl:  models.WatchUrl(videoID),
			CatalogUrl:   resolveUrl(pageUrl, href),
			UploadDate:   fields.UploadDate,
			ViewCount:    fields.ViewCount,
			LikeCount:    fields.LikeCount,
			DislikeCount: fields.DislikeCount,
		})
	}

	return videos
}

func extractVideoID(href string) string {
	if m := watchIdRe.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	if m := catalogIdRe.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	return ""
}

// extractTitle reads the link's visible text, falling back to a nearby
// heading/label element when the text is empty, too short, or a pagination
// glyph. An empty return means the entry should be discarded.
func extractTitle(link, container *goquery.Selection) string {
	title := strings.TrimSpace(link.Text())

	if !usableTitle(title) {
		container.Find("h1, h2, h3, h4, h5, span, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class, ok := s.Attr("class")
			if !ok || !titleClassRe.MatchString(class) {
				return true
			}
			if t := strings.TrimSpace(s.Text()); t != "" {
				title = t
				return false
			}
			return true
		})
	}

	if !usableTitle(title) {
		return ""
	}
	return title
}

func usableTitle(title string) bool {
	return len(title) >= 3 && !helpers.IsPaginationGlyph(title)
}

// findNextPageUrl tries the pagination heuristics in priority order:
// anchor text, page/offset query parameter, pagination class, then the
// lowest numbered page link strictly beyond the current page.
func findNextPageUrl(doc *goquery.Document, currentUrl string) string {
	var next string

	match := func(sel string, accept func(s *goquery.Selection) bool) {
		if next != "" {
			return
		}
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !accept(s) {
				return true
			}
			href, ok := s.Attr("href")
			if !ok || href == "" {
				return true
			}
			next = resolveUrl(currentUrl, href)
			return false
		})
	}

	match("a", func(s *goquery.Selection) bool {
		return nextTextRe.MatchString(strings.TrimSpace(s.Text()))
	})
	match("a", func(s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		return ok && pageParamRe.MatchString(href)
	})
	match("a", func(s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		return ok && nextClassRe.MatchString(class)
	})
	if next != "" {
		return next
	}

	return lowestPageBeyond(doc, currentUrl)
}

// lowestPageBeyond implements numbered pagination: among links carrying a
// numeric page parameter, pick the lowest page strictly beyond the current
// one (the current page number defaults to 1 when absent from the URL).
func lowestPageBeyond(doc *goquery.Document, currentUrl string) string {
	currentPage := pageNumberFromUrl(currentUrl)
	bestPage := 0
	bestHref := ""
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		m := pageNumberRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		page, err := strconv.Atoi(m[1])
		if err != nil || page <= currentPage {
			return
		}
		if bestPage == 0 || page < bestPage {
			bestPage = page
			bestHref = href
		}
	})
	if bestHref != "" {
		return resolveUrl(currentUrl, bestHref)
	}
	return ""
}

func pageNumberFromUrl(rawUrl string) int {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return 1
	}
	page, err := strconv.Atoi(parsed.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// resolveUrl resolves href against base, returning href untouched when it is
// already absolute or when base cannot be parsed.
func resolveUrl(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	baseUrl, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseUrl.ResolveReference(ref).String()
}
