package cmd

import (
	"fmt"

	"go-channel-archiver/index"
	"go-channel-archiver/internal/database"

	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// resolveCmd runs Phase 2 only, against a previously saved checkpoint.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve and download archived copies for a checkpointed video set",
	Long: `Runs only the resolution phase: loads the discovery checkpoint from
the save path, looks each video up against archive services and downloads the
first retrievable copy. Fails if no checkpoint exists.`,
	Run: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().Bool("yt-dlp", false, "Prefer yt-dlp for downloads when installed. Overrides config if set.")
	resolveCmd.Flags().Bool("skip-downloaded", false, "Skip videos already marked Downloaded in the database. Overrides config if set.")
}

func runResolve(cmd *cobra.Command, args []string) {
	if cmd.Flags().Changed("yt-dlp") {
		useYtDlp, _ := cmd.Flags().GetBool("yt-dlp")
		globalConfig.UseYtDlp = useYtDlp
	}
	if cmd.Flags().Changed("skip-downloaded") {
		skip, _ := cmd.Flags().GetBool("skip-downloaded")
		globalConfig.SkipDownloaded = skip
	}

	videos, err := buildCheckpoints().Load()
	if err != nil || len(videos) == 0 {
		log.Fatal("No discovery checkpoint found; run 'discover' or 'run' first")
	}

	db, err := database.Open(databasePath())
	if err != nil {
		log.WithError(err).Fatal("Could not open the video status database")
	}
	defer db.Close()

	idx, err := index.OpenOrCreateIndex(indexPath())
	if err != nil {
		log.WithError(err).Warn("Could not open search index, continuing without it")
		idx = nil
	} else {
		defer idx.Close()
	}

	driver := buildDriver(db, idx)

	progress := uilive.New()
	progress.Start()
	driver.Progress = progress
	defer progress.Stop()

	// The resume path never touches the walker, so no channel URL is needed.
	stats, err := driver.Run("", true)
	if err != nil {
		log.WithError(err).Fatal("Resolution run failed")
	}

	fmt.Printf("\nTotal videos in checkpoint: %d\n", stats.TotalVideos)
	fmt.Printf("Videos with archived sources: %d\n", stats.WithArchives)
	fmt.Printf("Videos downloaded: %d\n", stats.Downloaded)
}
