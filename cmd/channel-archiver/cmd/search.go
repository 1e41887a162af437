package cmd

import (
	"fmt"

	"go-channel-archiver/index"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// searchCmd queries the Bleve index of processed videos.
var searchCmd = &cobra.Command{
	Use:   "search [QUERY]",
	Short: "Search the index of processed videos",
	Long: `Searches the Bleve index built during archive runs. Fields are
queryable by their lowercase names, e.g. '+status:Downloaded keyboard'.`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	query := args[0]

	// Open rather than OpenOrCreate: searching must not create an empty index.
	bleveIndex, err := bleve.Open(indexPath())
	if err != nil {
		if err == bleve.ErrorIndexPathDoesNotExist {
			log.Fatalf("Search index not found at %s. Run an archive first to create it.", indexPath())
		}
		log.WithError(err).Fatalf("Failed to open search index at %s", indexPath())
	}
	defer bleveIndex.Close()

	searchResults, err := index.SearchIndex(bleveIndex, query)
	if err != nil {
		log.WithError(err).Fatal("Error performing search")
	}

	if searchResults.Total == 0 {
		fmt.Println("No results found matching your query.")
		return
	}

	fmt.Println("--- Search Results ---")
	for i, hit := range searchResults.Hits {
		fmt.Printf("[%d] ID: %s (Score: %.2f)\n", i+1, hit.ID, hit.Score)
		for field, value := range hit.Fields {
			fmt.Printf("  %s: %v\n", field, value)
		}
		fmt.Println("---")
	}
}
