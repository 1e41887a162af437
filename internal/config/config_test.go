package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err, "missing file is reported but not fatal")

	assert.Equal(t, DefaultSavePath, cfg.SavePath)
	assert.Equal(t, DefaultLookupBaseUrl, cfg.LookupBaseUrl)
	assert.Equal(t, DefaultLookupApiVersion, cfg.LookupApiVersion)
	assert.Equal(t, DefaultMaxPages, cfg.MaxPages)
	assert.Equal(t, DefaultPageDelayMs, cfg.PageDelayMs)
	assert.Equal(t, DefaultVideoDelayMs, cfg.VideoDelayMs)
	assert.Equal(t, DefaultHttpTimeoutSec, cfg.HttpTimeoutSec)
	assert.True(t, cfg.EnhanceMetadata)
	assert.True(t, cfg.UseYtDlp)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
SavePath = "/data/archive"
ChannelUrl = "https://filmot.com/channel/UC123"
MaxPages = 10
PageDelayMs = 100
UseYtDlp = false
LogApiRequests = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/archive", cfg.SavePath)
	assert.Equal(t, "https://filmot.com/channel/UC123", cfg.ChannelUrl)
	assert.Equal(t, 10, cfg.MaxPages)
	assert.Equal(t, 100, cfg.PageDelayMs)
	assert.False(t, cfg.UseYtDlp)
	assert.True(t, cfg.LogApiRequests)
	assert.Equal(t, DefaultLookupBaseUrl, cfg.LookupBaseUrl, "unset fields still get defaults")
}
