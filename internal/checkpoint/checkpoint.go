// Package checkpoint persists the outcome of a discovery walk as a JSON
// snapshot, so resolution runs can be repeated or resumed without walking
// the catalog site again.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-channel-archiver/internal/models"

	log "github.com/sirupsen/logrus"
)

// DefaultFilename is where the discovery snapshot lives inside the save path.
const DefaultFilename = "discovered_videos.json"

// Store reads and writes discovery checkpoints under a directory.
type Store struct {
	Dir      string
	Filename string

	logger log.FieldLogger
}

// NewStore builds a checkpoint store rooted at dir.
func NewStore(dir string, logger log.FieldLogger) *Store {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Store{
		Dir:      dir,
		Filename: DefaultFilename,
		logger:   logger,
	}
}

func (s *Store) path() string {
	name := s.Filename
	if name == "" {
		name = DefaultFilename
	}
	return filepath.Join(s.Dir, name)
}

// Save writes the full discovery result. Failures here should not abort a
// pipeline run, so callers typically log the returned error and continue.
func (s *Store) Save(videos []models.VideoRecord) error {
	cp := models.DiscoveryCheckpoint{
		Timestamp:   float64(time.Now().UnixNano()) / float64(time.Second),
		TotalVideos: len(videos),
		Videos:      videos,
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding checkpoint: %w", err)
	}

	if err := os.MkdirAll(s.Dir, os.ModePerm); err != nil {
		return fmt.Errorf("error creating checkpoint directory %s: %w", s.Dir, err)
	}
	if err := os.WriteFile(s.path(), data, 0644); err != nil {
		return fmt.Errorf("error writing checkpoint %s: %w", s.path(), err)
	}

	s.logger.Infof("Saved %d videos to %s", len(videos), s.path())
	return nil
}

// Load reads a previously saved checkpoint. A missing or unreadable file is
// not an error: discovery simply runs fresh. Records loaded from disk carry
// no archive candidates; the dislike sentinel is restored when absent.
func (s *Store) Load() ([]models.VideoRecord, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.logger.WithError(err).Warnf("Could not read checkpoint %s, starting fresh", s.path())
		return nil, nil
	}

	var cp models.DiscoveryCheckpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		s.logger.WithError(err).Warnf("Could not parse checkpoint %s, starting fresh", s.path())
		return nil, nil
	}

	for i := range cp.Videos {
		cp.Videos[i].ArchivedSources = nil
		if cp.Videos[i].DislikeCount == "" {
			cp.Videos[i].DislikeCount = models.DislikeNotApplicable
		}
	}

	s.logger.Infof("Loaded %d videos from checkpoint %s", len(cp.Videos), s.path())
	return cp.Videos, nil
}
