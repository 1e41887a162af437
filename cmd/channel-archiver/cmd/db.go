package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go-channel-archiver/internal/database"
	"go-channel-archiver/internal/models"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// dbCmd represents the base command for database operations
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the video status database",
	Long:  `Perform operations like viewing or searching the per-video status records.`,
}

// dbViewCmd lists every recorded video and its processing outcome.
var dbViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View entries stored in the database",
	Run:   runDbView,
}

// dbSearchCmd filters entries by a case-insensitive title substring.
var dbSearchCmd = &cobra.Command{
	Use:   "search [TITLE_QUERY]",
	Short: "Search database entries by video title",
	Args:  cobra.ExactArgs(1),
	Run:   runDbSearch,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbViewCmd)
	dbCmd.AddCommand(dbSearchCmd)

	dbViewCmd.Flags().String("status", "", "Only show entries with this status (Pending, Downloaded, MetaOnly, Error)")
}

func runDbView(cmd *cobra.Command, args []string) {
	statusFilter, _ := cmd.Flags().GetString("status")
	printEntries(func(entry models.DatabaseEntry) bool {
		return statusFilter == "" || strings.EqualFold(entry.Status, statusFilter)
	})
}

func runDbSearch(cmd *cobra.Command, args []string) {
	query := strings.ToLower(args[0])
	printEntries(func(entry models.DatabaseEntry) bool {
		return strings.Contains(strings.ToLower(entry.Title), query)
	})
}

func printEntries(match func(models.DatabaseEntry) bool) {
	db, err := database.Open(databasePath())
	if err != nil {
		log.WithError(err).Fatal("Could not open the video status database")
	}
	defer db.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "VIDEO ID\tSTATUS\tSOURCE\tPROCESSED\tTITLE")

	count := 0
	err = db.FoldEntries(func(entry models.DatabaseEntry) error {
		if !match(entry) {
			return nil
		}
		count++
		processed := ""
		if entry.Timestamp > 0 {
			processed = time.Unix(int64(entry.Timestamp), 0).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			entry.VideoID, entry.Status, entry.SourceName, processed, entry.Title)
		return nil
	})
	if err != nil {
		log.WithError(err).Fatal("Error reading database entries")
	}

	w.Flush()
	fmt.Printf("\n%d entries\n", count)
}
