// Package downloader retrieves archived video copies: via yt-dlp when the
// tool is installed, else a plain streamed HTTP fetch.
package downloader

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-channel-archiver/internal/helpers"

	log "github.com/sirupsen/logrus"
)

// Custom Downloader Errors
var (
	ErrHttpStatus  = errors.New("unexpected HTTP status code")
	ErrFileSystem  = errors.New("filesystem error") // Covers create, remove, rename
	ErrHttpRequest = errors.New("HTTP request creation/execution error")
)

// Downloader is the capability the coordinator delegates fetching to. The
// destination directory is the video's own folder; baseName is the sanitized
// title without extension.
type Downloader interface {
	Download(sourceUrl, destDir, baseName string) error
}

// HttpDownloader streams a URL straight to disk. No resumption, no hash
// checks: archived copies carry no verifiable digest.
type HttpDownloader struct {
	client *http.Client
	logger log.FieldLogger
}

// NewHttpDownloader creates a streaming downloader. A nil client gets a
// default with a generous timeout, since archive mirrors can be slow.
func NewHttpDownloader(client *http.Client, logger log.FieldLogger) *HttpDownloader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Minute}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &HttpDownloader{client: client, logger: logger}
}

// Download fetches sourceUrl into destDir as baseName plus an inferred
// extension. The body streams through a temp file that is renamed into
// place only on success, so an interrupted fetch never leaves a plausible-
// looking final file behind.
func (d *HttpDownloader) Download(sourceUrl, destDir, baseName string) error {
	if !helpers.CheckAndMakeDir(destDir) {
		return fmt.Errorf("%w: could not create %s", ErrFileSystem, destDir)
	}

	resp, err := d.client.Get(sourceUrl)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHttpRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d for %s", ErrHttpStatus, resp.StatusCode, sourceUrl)
	}

	ext := inferExtension(resp.Header.Get("Content-Type"), sourceUrl)
	finalPath := filepath.Join(destDir, baseName+ext)
	tempPath := finalPath + ".tmp"

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrFileSystem, tempPath, err)
	}

	counter := &helpers.CounterWriter{Writer: out}
	_, err = io.Copy(counter, resp.Body)
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		os.Remove(tempPath)
		if err == nil {
			err = closeErr
		}
		return fmt.Errorf("%w: writing %s: %v", ErrFileSystem, tempPath, err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: renaming to %s: %v", ErrFileSystem, finalPath, err)
	}

	d.logger.Infof("Downloaded: %s (%s)", finalPath, helpers.BytesToSize(counter.Total))
	return nil
}

// inferExtension picks a file extension from the response content type,
// falling back to the URL path, then to a generic marker.
func inferExtension(contentType, sourceUrl string) string {
	if strings.Contains(contentType, "video") {
		switch {
		case strings.Contains(contentType, "mp4"):
			return ".mp4"
		case strings.Contains(contentType, "webm"):
			return ".webm"
		case strings.Contains(contentType, "avi"):
			return ".avi"
		default:
			return ".video"
		}
	}

	if parsed, err := url.Parse(sourceUrl); err == nil {
		if ext := filepath.Ext(parsed.Path); ext != "" {
			return ext
		}
	}
	return ".download"
}
