package downloader

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferExtension(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		url         string
		want        string
	}{
		{"MP4 content type", "video/mp4", "http://x/file", ".mp4"},
		{"WebM content type", "video/webm", "http://x/file", ".webm"},
		{"AVI content type", "video/avi", "http://x/file", ".avi"},
		{"Generic video", "video/x-flv", "http://x/file", ".video"},
		{"Extension from URL path", "application/octet-stream", "http://x/clips/video.mkv", ".mkv"},
		{"No hint anywhere", "application/octet-stream", "http://x/clips/video", ".download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferExtension(tt.contentType, tt.url))
		})
	}
}

func TestHttpDownloaderWritesFile(t *testing.T) {
	body := []byte("not really a video")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write(body)
	}))
	defer server.Close()

	dir := t.TempDir()
	d := NewHttpDownloader(server.Client(), nil)
	require.NoError(t, d.Download(server.URL, dir, "My Video"))

	data, err := os.ReadFile(filepath.Join(dir, "My Video.mp4"))
	require.NoError(t, err)
	assert.Equal(t, body, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestHttpDownloaderRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	dir := t.TempDir()
	d := NewHttpDownloader(server.Client(), nil)
	err := d.Download(server.URL, dir, "My Video")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHttpStatus)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "failed downloads leave nothing behind")
}

func TestAutoFallsBackWithoutYtDlp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/webm")
		w.Write([]byte("bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	auto := NewAuto(NewHttpDownloader(server.Client(), nil), true, nil)
	// Point yt-dlp at a binary that cannot exist so Available() is false.
	auto.ytdlp.Binary = "yt-dlp-definitely-not-installed"

	require.NoError(t, auto.Download(server.URL, dir, "Clip"))
	_, err := os.Stat(filepath.Join(dir, "Clip.webm"))
	assert.NoError(t, err)
}
