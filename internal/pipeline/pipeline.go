package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go-channel-archiver/internal/database"
	"go-channel-archiver/internal/models"

	log "github.com/sirupsen/logrus"
)

// ErrNothingDiscovered is returned when a fresh discovery walk finds no
// videos at all: there is nothing to resolve, so the run aborts.
var ErrNothingDiscovered = errors.New("no videos discovered")

// Discoverer produces the channel's full video set. Satisfied by
// catalog.Walker.
type Discoverer interface {
	Walk(startUrl string) ([]models.VideoRecord, error)
}

// CheckpointStore persists and restores discovery results. Satisfied by
// checkpoint.Store.
type CheckpointStore interface {
	Save(videos []models.VideoRecord) error
	Load() ([]models.VideoRecord, error)
}

// Resolver finds archived copies of one video. Satisfied by
// archive.Resolver.
type Resolver interface {
	Resolve(video models.VideoRecord) ([]models.ArchivedSourceCandidate, json.RawMessage)
}

// Processor handles one video's metadata write and download attempts.
// Satisfied by Coordinator.
type Processor interface {
	Process(video models.VideoRecord, candidates []models.ArchivedSourceCandidate, rawResponse json.RawMessage) bool
}

// ProgressWriter is the live status line sink; satisfied by uilive.Writer.
type ProgressWriter interface {
	io.Writer
	Flush() error
}

// Stats summarizes a completed run.
type Stats struct {
	TotalVideos  int
	WithArchives int
	Downloaded   int
}

// Driver is the two-phase state machine: Discovering, then Resolving, no
// loop back. Per-video failures in the Resolving phase never abort the run.
type Driver struct {
	Discoverer  Discoverer
	Checkpoints CheckpointStore
	Resolver    Resolver
	Processor   Processor

	// VideoDelay is the politeness pause between videos in Phase 2.
	VideoDelay time.Duration
	// SkipDownloaded skips videos the status store already marks Downloaded.
	SkipDownloaded bool

	DB       *database.DB
	Progress ProgressWriter
	logger   log.FieldLogger
}

// NewDriver wires a driver; DB and Progress stay nil unless set by the caller.
func NewDriver(d Discoverer, cp CheckpointStore, r Resolver, p Processor, logger log.FieldLogger) *Driver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Driver{
		Discoverer:  d,
		Checkpoints: cp,
		Resolver:    r,
		Processor:   p,
		logger:      logger,
	}
}

// Run executes both phases for channelUrl. With resume set, a non-empty
// checkpoint replaces the discovery walk entirely.
func (d *Driver) Run(channelUrl string, resume bool) (Stats, error) {
	videos, err := d.discover(channelUrl, resume)
	if err != nil {
		return Stats{}, err
	}

	stats := d.resolveAll(videos)
	d.logger.Infof("Run complete: %d videos, %d with archived sources, %d downloaded",
		stats.TotalVideos, stats.WithArchives, stats.Downloaded)
	return stats, nil
}

func (d *Driver) discover(channelUrl string, resume bool) ([]models.VideoRecord, error) {
	if resume {
		videos, err := d.Checkpoints.Load()
		if err == nil && len(videos) > 0 {
			d.logger.Infof("Resuming with %d videos from checkpoint", len(videos))
			return videos, nil
		}
		d.logger.Info("No usable checkpoint, running discovery")
	}

	d.logger.Info("=== PHASE 1: DISCOVERING CHANNEL VIDEOS ===")
	videos, err := d.Discoverer.Walk(channelUrl)
	if err != nil {
		if len(videos) == 0 {
			return nil, err
		}
		// Keep what the walk managed to collect before failing.
		d.logger.WithError(err).Warnf("Discovery aborted early, continuing with %d videos", len(videos))
	}
	if len(videos) == 0 {
		return nil, ErrNothingDiscovered
	}

	if err := d.Checkpoints.Save(videos); err != nil {
		d.logger.WithError(err).Warn("Could not save discovery checkpoint")
	}
	return videos, nil
}

func (d *Driver) resolveAll(videos []models.VideoRecord) Stats {
	d.logger.Info("=== PHASE 2: RESOLVING AND DOWNLOADING ===")

	stats := Stats{TotalVideos: len(videos)}
	for i, video := range videos {
		d.progress(i+1, len(videos), video.Title)

		if d.shouldSkip(video) {
			d.logger.Infof("Skipping already-downloaded video: %s", video.Title)
			stats.WithArchives++
			stats.Downloaded++
			continue
		}

		candidates, rawResponse := d.Resolver.Resolve(video)
		if len(candidates) > 0 {
			stats.WithArchives++
			if d.Processor.Process(video, candidates, rawResponse) {
				stats.Downloaded++
			}
		} else {
			d.logger.Warnf("No archived sources found for: %s", video.Title)
			d.recordPending(video)
		}

		if d.VideoDelay > 0 && i < len(videos)-1 {
			time.Sleep(d.VideoDelay)
		}
	}
	return stats
}

// recordPending marks a candidate-less video in the status store so a later
// run with better archive coverage can revisit it.
func (d *Driver) recordPending(video models.VideoRecord) {
	if d.DB == nil {
		return
	}
	entry := models.DatabaseEntry{
		VideoID:      video.VideoID,
		Title:        video.Title,
		Status:       models.StatusPending,
		ErrorDetails: "no archived sources found",
		Timestamp:    float64(time.Now().UnixNano()) / float64(time.Second),
	}
	if err := d.DB.PutEntry(entry); err != nil {
		d.logger.WithError(err).Warnf("Could not record status for %s", video.VideoID)
	}
}

func (d *Driver) shouldSkip(video models.VideoRecord) bool {
	if !d.SkipDownloaded || d.DB == nil {
		return false
	}
	entry, err := d.DB.GetEntry(video.VideoID)
	if err != nil {
		return false
	}
	return entry.Status == models.StatusDownloaded
}

func (d *Driver) progress(current, total int, title string) {
	d.logger.Infof("Processing video %d/%d: %s", current, total, title)
	if d.Progress != nil {
		fmt.Fprintf(d.Progress, "Processing video %d/%d: %s\n", current, total, title)
		d.Progress.Flush()
	}
}
