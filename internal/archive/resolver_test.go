package archive

import (
	"encoding/json"
	"errors"
	"testing"

	"go-channel-archiver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	resp models.LookupResponse
	err  error
}

func (s stubLookup) Lookup(videoID string) (models.LookupResponse, error) {
	return s.resp, s.err
}

func testVideo() models.VideoRecord {
	return models.VideoRecord{VideoID: "AAAAAAAAAAA", Title: "A Video"}
}

func TestResolveClassification(t *testing.T) {
	raw := json.RawMessage(`{"keys":[]}`)
	client := stubLookup{resp: models.LookupResponse{
		Keys: []models.LookupKey{
			{Name: "Wayback Machine", Archived: true, Available: "http://x", Note: "full copy"},
			{Name: "Ghost Archive", Archived: true, MetaOnly: true, Note: "listing only"},
			{Name: "Hobune", Archived: false},
		},
		Raw: raw,
	}}

	r := NewResolver(client, nil)
	candidates, gotRaw := r.Resolve(testVideo())

	require.Len(t, candidates, 2, "unarchived entries never become candidates")

	assert.Equal(t, "Wayback Machine", candidates[0].SourceName)
	assert.Equal(t, "http://x", candidates[0].DownloadUrl)
	assert.False(t, candidates[0].MetadataOnly)

	assert.Equal(t, "Ghost Archive", candidates[1].SourceName)
	assert.Empty(t, candidates[1].DownloadUrl)
	assert.True(t, candidates[1].MetadataOnly)
	assert.Equal(t, "Metadata only: listing only", candidates[1].Note)

	assert.Equal(t, raw, gotRaw, "raw body passed through for the metadata record")
}

func TestResolveBadId(t *testing.T) {
	client := stubLookup{resp: models.LookupResponse{Status: "bad.id"}}

	r := NewResolver(client, nil)
	candidates, _ := r.Resolve(testVideo())
	assert.Empty(t, candidates)
}

func TestResolveLookupError(t *testing.T) {
	client := stubLookup{err: errors.New("connection refused")}

	r := NewResolver(client, nil)
	candidates, raw := r.Resolve(testVideo())
	assert.Empty(t, candidates)
	assert.Nil(t, raw)
}

func TestResolveUnnamedSource(t *testing.T) {
	client := stubLookup{resp: models.LookupResponse{
		Keys: []models.LookupKey{{Archived: true, Available: "http://y"}},
	}}

	r := NewResolver(client, nil)
	candidates, _ := r.Resolve(testVideo())
	require.Len(t, candidates, 1)
	assert.Equal(t, "Unknown", candidates[0].SourceName)
}

func TestAvailableFieldToleratesBooleans(t *testing.T) {
	var key models.LookupKey
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","archived":true,"available":false}`), &key))
	assert.Empty(t, string(key.Available))

	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","archived":true,"available":"http://z"}`), &key))
	assert.Equal(t, "http://z", string(key.Available))
}
