package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go-channel-archiver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	videos := []models.VideoRecord{
		{
			VideoID:      "AAAAAAAAAAA",
			Title:        "First Video",
			OriginalUrl:  "https://www.youtube.com/watch?v=AAAAAAAAAAA",
			CatalogUrl:   "https://filmot.com/video/AAAAAAAAAAA",
			UploadDate:   "2021-05-04",
			ViewCount:    "12,345",
			DislikeCount: models.DislikeNotApplicable,
			ArchivedSources: []models.ArchivedSourceCandidate{
				{SourceName: "Wayback Machine", DownloadUrl: "https://example.com/a"},
			},
		},
		{
			VideoID:     "BBBBBBBBBBB",
			Title:       "Second Video",
			OriginalUrl: "https://www.youtube.com/watch?v=BBBBBBBBBBB",
		},
	}

	require.NoError(t, store.Save(videos))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "AAAAAAAAAAA", loaded[0].VideoID)
	assert.Equal(t, "First Video", loaded[0].Title)
	assert.Equal(t, "2021-05-04", loaded[0].UploadDate)
	assert.Nil(t, loaded[0].ArchivedSources, "archive candidates never persist in the checkpoint")
	assert.Equal(t, models.DislikeNotApplicable, loaded[1].DislikeCount,
		"missing dislike field restored to the sentinel")
}

func TestSaveWritesExpectedShape(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	require.NoError(t, store.Save([]models.VideoRecord{
		{VideoID: "AAAAAAAAAAA", Title: "Only Video", DislikeCount: models.DislikeNotApplicable},
	}))

	data, err := os.ReadFile(filepath.Join(dir, DefaultFilename))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "timestamp")
	assert.Contains(t, raw, "total_videos")
	assert.Contains(t, raw, "videos")

	var total int
	require.NoError(t, json.Unmarshal(raw["total_videos"], &total))
	assert.Equal(t, 1, total)
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	videos, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, videos)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFilename), []byte("{not json"), 0644))

	store := NewStore(dir, nil)
	videos, err := store.Load()
	require.NoError(t, err, "a corrupt checkpoint must not abort the run")
	assert.Nil(t, videos)
}
