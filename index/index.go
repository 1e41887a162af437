package index

import (
	"log"
	"os"

	"github.com/blevesearch/bleve/v2"
)

const defaultIndexPath = "channel-archiver.bleve"

// Item is one processed video as stored in the search index. All fields are
// indexed and searchable via their lowercase JSON tag names (e.g.
// '+status:Downloaded' or '+title:keyboard').
type Item struct {
	ID           string  `json:"id"`                     // video ID
	Title        string  `json:"title"`                  // sanitized display title
	OriginalUrl  string  `json:"originalUrl,omitempty"`  // original platform watch URL
	CatalogUrl   string  `json:"catalogUrl,omitempty"`   // catalog site per-video page
	UploadDate   string  `json:"uploadDate,omitempty"`   // as extracted, any completeness
	ViewCount    string  `json:"viewCount,omitempty"`    // raw extracted figure
	Status       string  `json:"status"`                 // Pending/Downloaded/MetaOnly/Error
	SourceName   string  `json:"sourceName,omitempty"`   // archive that served the download
	FilePath     string  `json:"filePath,omitempty"`     // downloaded file location
	SourcesFound float64 `json:"sourcesFound,omitempty"` // number of archive candidates
	Timestamp    float64 `json:"timestamp,omitempty"`    // unix seconds of processing
}

// OpenOrCreateIndex opens an existing Bleve index or creates a new one if it doesn't exist.
func OpenOrCreateIndex(indexPath string) (bleve.Index, error) {
	if indexPath == "" {
		indexPath = defaultIndexPath
	}

	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		log.Printf("Creating new index at: %s", indexPath)
		mapping := bleve.NewIndexMapping()
		index, err = bleve.New(indexPath, mapping)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return index, nil
}

// IndexItem adds or updates a video in the index.
func IndexItem(index bleve.Index, item Item) error {
	return index.Index(item.ID, item)
}

// SearchIndex performs a query-string search against the index.
func SearchIndex(index bleve.Index, query string) (*bleve.SearchResult, error) {
	searchQuery := bleve.NewQueryStringQuery(query)
	searchRequest := bleve.NewSearchRequest(searchQuery)
	searchRequest.Fields = []string{"*"}
	return index.Search(searchRequest)
}

// DeleteIndex removes the index directory. Use with caution!
func DeleteIndex(indexPath string) error {
	if indexPath == "" {
		indexPath = defaultIndexPath
	}
	return os.RemoveAll(indexPath)
}
