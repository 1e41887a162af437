// Package pipeline orchestrates the two phases of an archive run: discovery
// of a channel's videos, then per-video resolution and download.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-channel-archiver/index"
	"go-channel-archiver/internal/annotate"
	"go-channel-archiver/internal/database"
	"go-channel-archiver/internal/downloader"
	"go-channel-archiver/internal/helpers"
	"go-channel-archiver/internal/models"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"
)

const metadataFilename = "metadata.json"

// Coordinator handles one video at a time: it writes the durable metadata
// record, attempts the download chain, and records the outcome in the status
// store and search index. Both the store and the index are optional.
type Coordinator struct {
	Root string

	dl     downloader.Downloader
	db     *database.DB
	idx    bleve.Index
	logger log.FieldLogger
}

// NewCoordinator builds a coordinator writing under root. db and idx may be
// nil; outcome recording is then skipped.
func NewCoordinator(root string, dl downloader.Downloader, db *database.DB, idx bleve.Index, logger log.FieldLogger) *Coordinator {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Coordinator{
		Root:   root,
		dl:     dl,
		db:     db,
		idx:    idx,
		logger: logger,
	}
}

// Process writes the video's metadata record and then tries each candidate
// in order until one download succeeds. The metadata write is unconditional:
// it is the durable proof that this video was looked up, even when nothing
// could be fetched. Returns whether a download succeeded.
func (c *Coordinator) Process(video models.VideoRecord, candidates []models.ArchivedSourceCandidate, rawResponse json.RawMessage) bool {
	baseName := helpers.SanitizeFilename(video.Title)
	videoFolder := filepath.Join(c.Root, baseName)

	if err := c.writeMetadata(videoFolder, video, candidates, rawResponse); err != nil {
		c.logger.WithError(err).Errorf("Could not write metadata for %s", video.Title)
	}

	downloaded := false
	downloadedFrom := ""
	attempted := false

	for _, candidate := range candidates {
		if candidate.DownloadUrl == "" {
			c.logger.Infof("Source %s has no download URL (metadata only)", candidate.SourceName)
			continue
		}
		attempted = true

		c.logger.Infof("Attempting to download from %s: %s", candidate.SourceName, candidate.DownloadUrl)
		if err := c.dl.Download(candidate.DownloadUrl, videoFolder, baseName); err != nil {
			c.logger.WithError(err).Warnf("Failed to download from %s", candidate.SourceName)
			continue
		}

		c.logger.Infof("Successfully downloaded from %s", candidate.SourceName)
		downloaded = true
		downloadedFrom = candidate.SourceName
		break
	}

	if !downloaded {
		c.logger.Warnf("Could not download video: %s", video.Title)
	}

	c.recordOutcome(video, candidates, videoFolder, downloaded, downloadedFrom, attempted)
	return downloaded
}

// writeMetadata persists the per-video metadata.json, creating the folder.
func (c *Coordinator) writeMetadata(videoFolder string, video models.VideoRecord, candidates []models.ArchivedSourceCandidate, rawResponse json.RawMessage) error {
	if !helpers.CheckAndMakeDir(videoFolder) {
		return fmt.Errorf("could not create video folder %s", videoFolder)
	}

	if candidates == nil {
		candidates = []models.ArchivedSourceCandidate{}
	}
	metadata := models.VideoMetadata{
		VideoID:         video.VideoID,
		Title:           video.Title,
		OriginalUrl:     video.OriginalUrl,
		CatalogUrl:      video.CatalogUrl,
		UploadDate:      video.UploadDate,
		UploadDateInfo:  annotate.ClassifyDate(video.UploadDate),
		ViewCount:       video.ViewCount,
		LikeCount:       video.LikeCount,
		DislikeCount:    video.DislikeCount,
		ArchivedSources: candidates,
		ApiResponse:     rawResponse,
		Timestamp:       float64(time.Now().UnixNano()) / float64(time.Second),
	}

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding metadata for %s: %w", video.VideoID, err)
	}
	return os.WriteFile(filepath.Join(videoFolder, metadataFilename), data, 0644)
}

// recordOutcome updates the status store and search index with how this
// video's processing ended.
func (c *Coordinator) recordOutcome(video models.VideoRecord, candidates []models.ArchivedSourceCandidate, videoFolder string, downloaded bool, downloadedFrom string, attempted bool) {
	status := models.StatusPending
	details := ""
	switch {
	case downloaded:
		status = models.StatusDownloaded
	case attempted:
		status = models.StatusError
		details = "all download attempts failed"
	case len(candidates) > 0:
		status = models.StatusMetaOnly
	default:
		details = "no archived sources found"
	}

	now := float64(time.Now().UnixNano()) / float64(time.Second)

	if c.db != nil {
		entry := models.DatabaseEntry{
			VideoID:      video.VideoID,
			Title:        video.Title,
			Status:       status,
			SourceName:   downloadedFrom,
			ErrorDetails: details,
			Timestamp:    now,
		}
		if downloaded {
			entry.FilePath = videoFolder
		}
		if err := c.db.PutEntry(entry); err != nil {
			c.logger.WithError(err).Warnf("Could not record status for %s", video.VideoID)
		}
	}

	if c.idx != nil {
		item := index.Item{
			ID:           video.VideoID,
			Title:        video.Title,
			OriginalUrl:  video.OriginalUrl,
			CatalogUrl:   video.CatalogUrl,
			UploadDate:   video.UploadDate,
			ViewCount:    video.ViewCount,
			Status:       status,
			SourceName:   downloadedFrom,
			SourcesFound: float64(len(candidates)),
			Timestamp:    now,
		}
		if downloaded {
			item.FilePath = videoFolder
		}
		if err := index.IndexItem(c.idx, item); err != nil {
			c.logger.WithError(err).Warnf("Could not index %s", video.VideoID)
		}
	}
}
