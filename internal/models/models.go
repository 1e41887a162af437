package models

import (
	"encoding/json"
	"fmt"
)

// DislikeNotApplicable is the sentinel stored when the upstream platform no
// longer exposes dislike counts at all, as opposed to "not found in the text".
const DislikeNotApplicable = "n/a"

type (
	Config struct {
		// Paths
		SavePath       string `toml:"SavePath"`
		DatabasePath   string `toml:"DatabasePath"`
		BleveIndexPath string `toml:"BleveIndexPath"`

		// Discovery
		ChannelUrl      string `toml:"ChannelUrl"`
		MaxPages        int    `toml:"MaxPages"`
		PageDelayMs     int    `toml:"PageDelayMs"`
		EnhanceDelayMs  int    `toml:"EnhanceDelayMs"`
		EnhanceMetadata bool   `toml:"EnhanceMetadata"`

		// Archive lookup
		LookupBaseUrl    string `toml:"LookupBaseUrl"`
		LookupApiVersion string `toml:"LookupApiVersion"`
		VideoDelayMs     int    `toml:"VideoDelayMs"`

		// Downloader behavior
		UseYtDlp       bool `toml:"UseYtDlp"`
		SkipDownloaded bool `toml:"SkipDownloaded"`

		// HTTP behavior
		HttpTimeoutSec int  `toml:"HttpTimeoutSec"`
		LogApiRequests bool `toml:"LogApiRequests"`
	}

	// VideoRecord identifies one catalog entry for a video. The identity
	// fields (VideoID, Title, OriginalUrl, CatalogUrl) are set at discovery
	// time and never change; the optional metadata fields may be filled in
	// later from the video's own catalog page. ArchivedSources is populated
	// during the resolution phase only and is never checkpointed.
	VideoRecord struct {
		VideoID         string                    `json:"video_id"`
		Title           string                    `json:"title"`
		OriginalUrl     string                    `json:"original_url"`
		CatalogUrl      string                    `json:"filmot_url"`
		UploadDate      string                    `json:"upload_date,omitempty"`
		ViewCount       string                    `json:"view_count,omitempty"`
		LikeCount       string                    `json:"like_count,omitempty"`
		DislikeCount    string                    `json:"dislike_count"`
		ArchivedSources []ArchivedSourceCandidate `json:"-"`
	}

	// ArchivedSourceCandidate is one reported location of an archived copy.
	// An empty DownloadUrl means the service knows the video exists but
	// cannot hand out the bytes (metadata-only).
	ArchivedSourceCandidate struct {
		SourceName     string `json:"source"`
		DownloadUrl    string `json:"url,omitempty"`
		Note           string `json:"text,omitempty"`
		MetadataOnly   bool   `json:"metaonly"`
		HasComments    bool   `json:"comments"`
		MaybePaywalled bool   `json:"maybe_paywalled"`
	}

	// DiscoveryCheckpoint is the durable snapshot written at the end of the
	// discovery phase. Timestamp is unix seconds.
	DiscoveryCheckpoint struct {
		Timestamp   float64       `json:"timestamp"`
		TotalVideos int           `json:"total_videos"`
		Videos      []VideoRecord `json:"videos"`
	}

	// LookupKey is one per-service entry in the lookup service's response.
	LookupKey struct {
		Name           string       `json:"name"`
		Archived       bool         `json:"archived"`
		Available      AvailableUrl `json:"available"`
		Note           string       `json:"note"`
		MetaOnly       bool         `json:"metaonly"`
		Comments       bool         `json:"comments"`
		MaybePaywalled bool         `json:"maybe_paywalled"`
	}

	// LookupResponse is the decoded body of one archive lookup. Raw holds the
	// byte-for-byte response so the per-video metadata record can carry the
	// full service answer for audit.
	LookupResponse struct {
		Status string          `json:"status"`
		Keys   []LookupKey     `json:"keys"`
		Raw    json.RawMessage `json:"-"`
	}

	// DateInfo classifies how complete an extracted upload date is.
	DateInfo struct {
		Date         string `json:"date,omitempty"`
		Format       string `json:"format"`
		Completeness string `json:"completeness"`
	}

	// VideoMetadata is the per-video metadata.json document written into the
	// video's download folder, whether or not any download succeeded.
	VideoMetadata struct {
		VideoID         string                    `json:"video_id"`
		Title           string                    `json:"title"`
		OriginalUrl     string                    `json:"original_url"`
		CatalogUrl      string                    `json:"filmot_url"`
		UploadDate      string                    `json:"upload_date,omitempty"`
		UploadDateInfo  DateInfo                  `json:"upload_date_info"`
		ViewCount       string                    `json:"view_count,omitempty"`
		LikeCount       string                    `json:"like_count,omitempty"`
		DislikeCount    string                    `json:"dislike_count"`
		ArchivedSources []ArchivedSourceCandidate `json:"archived_sources"`
		ApiResponse     json.RawMessage           `json:"api_response,omitempty"`
		Timestamp       float64                   `json:"timestamp"`
	}

	// DatabaseEntry is the per-video record kept in the local status store.
	DatabaseEntry struct {
		VideoID      string  `json:"videoId"`
		Title        string  `json:"title"`
		Status       string  `json:"status"`
		SourceName   string  `json:"sourceName,omitempty"`
		FilePath     string  `json:"filePath,omitempty"`
		ErrorDetails string  `json:"errorDetails,omitempty"`
		Timestamp    float64 `json:"timestamp"`
	}
)

// AvailableUrl tolerates the lookup service's mixed typing of the
// "available" field: some services return a retrieval URL, others a bare
// boolean. Anything that is not a string decodes to empty (no URL).
type AvailableUrl string

func (a *AvailableUrl) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*a = ""
		return nil
	}
	*a = AvailableUrl(s)
	return nil
}

// Database Status Constants
const (
	StatusPending    = "Pending"
	StatusDownloaded = "Downloaded"
	StatusMetaOnly   = "MetaOnly"
	StatusError      = "Error"
)

// WatchUrl derives the canonical original-platform URL for a video ID.
func WatchUrl(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}
