package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"go-channel-archiver/index"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove temporary (.tmp) files from the download directory",
	Long: `Recursively scans the configured SavePath and removes any partial
download files left behind by interrupted runs. With --index the search
index is deleted as well; it is rebuilt on the next archive run.`,
	Run: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("index", false, "Also delete the search index")
}

func runClean(cmd *cobra.Command, args []string) {
	savePath := globalConfig.SavePath
	info, err := os.Stat(savePath)
	if err != nil {
		log.WithError(err).Fatalf("Cannot access SavePath %s", savePath)
	}
	if !info.IsDir() {
		log.Fatalf("SavePath is not a directory: %s", savePath)
	}

	log.Infof("Scanning for .tmp files in %s...", savePath)
	var removed, failed int

	walkErr := filepath.Walk(savePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warnf("Error accessing path %q during scan: %v", path, err)
			return nil
		}
		if info.IsDir() || !strings.HasSuffix(strings.ToLower(info.Name()), ".tmp") {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Errorf("Failed to remove %s", path)
			failed++
			return nil
		}
		log.Infof("Removed temp file: %s", path)
		removed++
		return nil
	})
	if walkErr != nil {
		log.WithError(walkErr).Errorf("Error during directory walk of %s", savePath)
	}

	if deleteIdx, _ := cmd.Flags().GetBool("index"); deleteIdx {
		if err := index.DeleteIndex(indexPath()); err != nil {
			log.WithError(err).Errorf("Failed to delete search index at %s", indexPath())
			failed++
		} else {
			log.Infof("Deleted search index at %s", indexPath())
		}
	}

	log.Infof("Clean complete. Removed %d temp file(s).", removed)
	if failed > 0 || walkErr != nil {
		os.Exit(1)
	}
}
