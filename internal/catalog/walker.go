package catalog

import (
	"strings"
	"time"

	"go-channel-archiver/internal/annotate"
	"go-channel-archiver/internal/models"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxPages caps a discovery walk even when the site keeps producing
// next-page links. Circuit breaker for broken pagination, nothing more.
const DefaultMaxPages = 50

// Walker drives ParsePage across a chain of listing pages, deduplicating by
// video ID across the whole walk and checkpointing nothing itself: the output
// slice is the walk's only product.
type Walker struct {
	Fetcher  Fetcher
	MaxPages int
	// PageDelay is the politeness pause between page fetches; EnhanceDelay
	// the pause after a detail-page fetch. Tests set both to zero.
	PageDelay    time.Duration
	EnhanceDelay time.Duration
	// Enhance controls the opportunistic detail-page metadata fetch for
	// records whose listing row carried no date or view count.
	Enhance bool

	logger log.FieldLogger
}

// NewWalker builds a Walker with the safety ceiling applied.
func NewWalker(fetcher Fetcher, logger log.FieldLogger) *Walker {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Walker{
		Fetcher:  fetcher,
		MaxPages: DefaultMaxPages,
		logger:   logger,
	}
}

// Walk follows the pagination chain from startUrl and returns every distinct
// video in first-seen order. A fetch or parse failure mid-walk aborts the
// walk but still returns everything accumulated so far, together with the
// error; the caller decides whether a partial result is worth keeping.
func (w *Walker) Walk(startUrl string) ([]models.VideoRecord, error) {
	maxPages := w.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var allVideos []models.VideoRecord
	seen := make(map[string]bool)
	currentUrl := startUrl

	for pageNum := 1; currentUrl != ""; pageNum++ {
		w.logger.Infof("Scraping page %d: %s", pageNum, currentUrl)

		pageHtml, err := w.Fetcher.FetchPage(currentUrl)
		if err != nil {
			w.logger.WithError(err).Errorf("Error fetching page %d, stopping walk", pageNum)
			return allVideos, err
		}

		pageVideos, nextUrl, err := ParsePage(pageHtml, currentUrl)
		if err != nil {
			w.logger.WithError(err).Errorf("Error parsing page %d, stopping walk", pageNum)
			return allVideos, err
		}

		newCount := 0
		for _, video := range pageVideos {
			if seen[video.VideoID] {
				continue
			}
			seen[video.VideoID] = true
			newCount++

			if w.Enhance && (video.UploadDate == "" || video.ViewCount == "") {
				w.enhanceFromDetailPage(&video)
			}

			w.logger.Infof("Found: %s (%s)%s", video.Title, video.VideoID, metadataSummary(video))
			allVideos = append(allVideos, video)
		}

		w.logger.Infof("Page %d: %d new videos (%d total on page)", pageNum, newCount, len(pageVideos))

		// A page with nothing new means the site looped back on itself or
		// the catalog is exhausted; either way there is nothing left to walk,
		// even if a next link is structurally present.
		if newCount == 0 {
			w.logger.Info("No new videos found, stopping pagination")
			break
		}

		if pageNum >= maxPages {
			w.logger.Warnf("Reached maximum page limit (%d), stopping", maxPages)
			break
		}

		if nextUrl == "" || nextUrl == currentUrl {
			w.logger.Info("No more pages found")
			break
		}

		currentUrl = nextUrl
		if w.PageDelay > 0 {
			time.Sleep(w.PageDelay)
		}
	}

	w.logger.Infof("Discovery complete: %d videos found", len(allVideos))
	logMetadataStats(w.logger, allVideos)
	return allVideos, nil
}

// enhanceFromDetailPage fetches the video's own catalog page and re-runs
// annotation against its text to fill fields the listing row lacked. Any
// failure just leaves the fields absent.
func (w *Walker) enhanceFromDetailPage(video *models.VideoRecord) {
	if video.CatalogUrl == "" {
		return
	}

	pageHtml, err := w.Fetcher.FetchPage(video.CatalogUrl)
	if err != nil {
		w.logger.WithError(err).Debugf("Could not enhance metadata for %s", video.VideoID)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHtml))
	if err != nil {
		w.logger.WithError(err).Debugf("Could not parse detail page for %s", video.VideoID)
		return
	}

	existing := annotate.Fields{
		UploadDate:   video.UploadDate,
		ViewCount:    video.ViewCount,
		LikeCount:    video.LikeCount,
		DislikeCount: video.DislikeCount,
	}
	merged := annotate.Merge(existing, annotate.Annotate(doc.Text()))
	video.UploadDate = merged.UploadDate
	video.ViewCount = merged.ViewCount
	video.LikeCount = merged.LikeCount
	video.DislikeCount = merged.DislikeCount

	if w.EnhanceDelay > 0 {
		time.Sleep(w.EnhanceDelay)
	}
}

func metadataSummary(video models.VideoRecord) string {
	var parts []string
	if video.UploadDate != "" {
		info := annotate.ClassifyDate(video.UploadDate)
		parts = append(parts, "Date: "+video.UploadDate+" ("+info.Completeness+")")
	}
	if video.ViewCount != "" {
		parts = append(parts, "Views: "+video.ViewCount)
	}
	if video.LikeCount != "" {
		parts = append(parts, "Likes: "+video.LikeCount)
	}
	if video.DislikeCount != "" {
		parts = append(parts, "Dislikes: "+video.DislikeCount)
	}
	if len(parts) == 0 {
		return ""
	}
	return " | " + strings.Join(parts, " | ")
}

func logMetadataStats(logger log.FieldLogger, videos []models.VideoRecord) {
	if len(videos) == 0 {
		return
	}
	dates, views, likes, dislikes := 0, 0, 0, 0
	for _, v := range videos {
		if v.UploadDate != "" {
			dates++
		}
		if v.ViewCount != "" {
			views++
		}
		if v.LikeCount != "" {
			likes++
		}
		if v.DislikeCount != "" && v.DislikeCount != models.DislikeNotApplicable {
			dislikes++
		}
	}
	logger.Infof("Metadata extracted - Dates: %d/%d, Views: %d/%d, Likes: %d/%d, Dislikes: %d/%d",
		dates, len(videos), views, len(videos), likes, len(videos), dislikes, len(videos))
}
