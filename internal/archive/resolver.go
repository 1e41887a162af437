// Package archive turns lookup service responses into ordered download
// candidates for a video.
package archive

import (
	"encoding/json"

	"go-channel-archiver/internal/models"

	log "github.com/sirupsen/logrus"
)

// statusBadId is the lookup service's explicit "invalid identifier" answer.
const statusBadId = "bad.id"

// LookupClient is what the resolver needs from the API layer.
type LookupClient interface {
	Lookup(videoID string) (models.LookupResponse, error)
}

// Resolver asks the lookup service about each video and classifies the
// per-service entries into candidates. Failures of any kind resolve to an
// empty candidate list: one video's lookup must never stop the run.
type Resolver struct {
	client LookupClient
	logger log.FieldLogger
}

// NewResolver builds a resolver over the given lookup client.
func NewResolver(client LookupClient, logger log.FieldLogger) *Resolver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Resolver{client: client, logger: logger}
}

// Resolve looks up one video and returns its archived source candidates in
// the order the service reported them, together with the raw response body
// for the metadata record. Candidates without a DownloadUrl are
// metadata-only: the archive knows of the video but cannot hand out bytes.
func (r *Resolver) Resolve(video models.VideoRecord) ([]models.ArchivedSourceCandidate, json.RawMessage) {
	r.logger.Infof("Searching for archived version of: %s", video.Title)

	lookup, err := r.client.Lookup(video.VideoID)
	if err != nil {
		r.logger.WithError(err).Errorf("Lookup failed for %s", video.Title)
		return nil, nil
	}

	if lookup.Status == statusBadId {
		r.logger.Warnf("Invalid video ID: %s", video.VideoID)
		return nil, lookup.Raw
	}

	var candidates []models.ArchivedSourceCandidate
	for _, key := range lookup.Keys {
		if !key.Archived {
			continue
		}

		candidate := models.ArchivedSourceCandidate{
			SourceName:     key.Name,
			DownloadUrl:    string(key.Available),
			Note:           key.Note,
			MetadataOnly:   key.MetaOnly,
			HasComments:    key.Comments,
			MaybePaywalled: key.MaybePaywalled,
		}
		if candidate.SourceName == "" {
			candidate.SourceName = "Unknown"
		}

		if candidate.DownloadUrl != "" {
			r.logger.Infof("Found archived source: %s - %s", candidate.SourceName, candidate.DownloadUrl)
		} else {
			candidate.MetadataOnly = true
			candidate.Note = "Metadata only: " + candidate.Note
		}
		candidates = append(candidates, candidate)
	}

	r.logger.Infof("Found %d archived sources for %s", len(candidates), video.Title)
	return candidates, lookup.Raw
}
