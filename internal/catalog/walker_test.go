package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fetcherFunc adapts a plain function to the Fetcher interface so tests can
// drive the walker with synthetic page chains.
type fetcherFunc func(pageUrl string) (string, error)

func (f fetcherFunc) FetchPage(pageUrl string) (string, error) {
	return f(pageUrl)
}

func mapFetcher(pages map[string]string) fetcherFunc {
	return func(pageUrl string) (string, error) {
		pageHtml, ok := pages[pageUrl]
		if !ok {
			return "", fmt.Errorf("no such page: %s", pageUrl)
		}
		return pageHtml, nil
	}
}

func entry(videoID, title string) string {
	return fmt.Sprintf(`<div class="item"><a href="/video/%s">%s</a></div>`, videoID, title)
}

func nextLink(href string) string {
	return fmt.Sprintf(`<a href="%s">next</a>`, href)
}

func TestWalkDedupAcrossPages(t *testing.T) {
	pages := map[string]string{
		"https://filmot.com/channel/UC123": "<html><body>" +
			entry("AAAAAAAAAAA", "Video One") +
			entry("BBBBBBBBBBB", "Video Two") +
			nextLink("/channel/UC123?page=2") + "</body></html>",
		"https://filmot.com/channel/UC123?page=2": "<html><body>" +
			entry("BBBBBBBBBBB", "Video Two") +
			entry("CCCCCCCCCCC", "Video Three") + "</body></html>",
	}

	w := NewWalker(mapFetcher(pages), nil)
	videos, err := w.Walk("https://filmot.com/channel/UC123")
	require.NoError(t, err)

	require.Len(t, videos, 3, "repeated identifiers must appear exactly once")
	assert.Equal(t, "AAAAAAAAAAA", videos[0].VideoID)
	assert.Equal(t, "BBBBBBBBBBB", videos[1].VideoID)
	assert.Equal(t, "CCCCCCCCCCC", videos[2].VideoID, "first-seen order preserved")
}

func TestWalkStopsWhenPageChainLoopsBack(t *testing.T) {
	fetches := 0
	pages := map[string]string{
		"https://filmot.com/channel/UC123": "<html><body>" +
			entry("AAAAAAAAAAA", "Video One") +
			nextLink("/channel/UC123?page=2") + "</body></html>",
		"https://filmot.com/channel/UC123?page=2": "<html><body>" +
			entry("BBBBBBBBBBB", "Video Two") +
			nextLink("/channel/UC123") + "</body></html>",
	}
	fetcher := fetcherFunc(func(pageUrl string) (string, error) {
		fetches++
		return mapFetcher(pages)(pageUrl)
	})

	w := NewWalker(fetcher, nil)
	videos, err := w.Walk("https://filmot.com/channel/UC123")
	require.NoError(t, err)

	assert.Len(t, videos, 2)
	assert.Equal(t, 3, fetches,
		"the revisited page yields zero new videos and ends the walk despite its next link")
}

func TestWalkStopsAtPageCeiling(t *testing.T) {
	// Infinite chain: every page carries a fresh video and a next link.
	fetches := 0
	fetcher := fetcherFunc(func(pageUrl string) (string, error) {
		fetches++
		pageHtml := "<html><body>" +
			entry(fmt.Sprintf("vid%08d", fetches), fmt.Sprintf("Video %d", fetches)) +
			nextLink(fmt.Sprintf("/channel/UC123?page=%d", fetches+1)) + "</body></html>"
		return pageHtml, nil
	})

	w := NewWalker(fetcher, nil)
	videos, err := w.Walk("https://filmot.com/channel/UC123")
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxPages, fetches, "exactly the ceiling's worth of pages processed")
	assert.Len(t, videos, DefaultMaxPages)
}

func TestWalkReturnsPartialResultsOnFetchError(t *testing.T) {
	pages := map[string]string{
		"https://filmot.com/channel/UC123": "<html><body>" +
			entry("AAAAAAAAAAA", "Video One") +
			nextLink("/channel/UC123?page=2") + "</body></html>",
	}

	w := NewWalker(mapFetcher(pages), nil)
	videos, err := w.Walk("https://filmot.com/channel/UC123")
	require.Error(t, err)
	assert.Len(t, videos, 1, "videos collected before the failure are kept")
}

func TestWalkStopsWhenNextEqualsCurrent(t *testing.T) {
	fetches := 0
	fetcher := fetcherFunc(func(pageUrl string) (string, error) {
		fetches++
		return "<html><body>" +
			entry("AAAAAAAAAAA", "Video One") +
			nextLink("/channel/UC123") + "</body></html>", nil
	})

	w := NewWalker(fetcher, nil)
	videos, err := w.Walk("https://filmot.com/channel/UC123")
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.Equal(t, 1, fetches, "a self-referencing next link must not be followed")
}

func TestWalkEnhancesSparseRecords(t *testing.T) {
	detailFetches := 0
	pages := map[string]string{
		"https://filmot.com/channel/UC123": "<html><body>" +
			entry("AAAAAAAAAAA", "Video One") + "</body></html>",
	}
	fetcher := fetcherFunc(func(pageUrl string) (string, error) {
		if pageUrl == "https://filmot.com/video/AAAAAAAAAAA" {
			detailFetches++
			return "<html><body>Uploaded: 2020-05-05 and 1,234 views</body></html>", nil
		}
		return mapFetcher(pages)(pageUrl)
	})

	w := NewWalker(fetcher, nil)
	w.Enhance = true
	videos, err := w.Walk("https://filmot.com/channel/UC123")
	require.NoError(t, err)

	require.Len(t, videos, 1)
	assert.Equal(t, 1, detailFetches)
	assert.Equal(t, "2020-05-05", videos[0].UploadDate)
	assert.Equal(t, "1,234", videos[0].ViewCount)
}
