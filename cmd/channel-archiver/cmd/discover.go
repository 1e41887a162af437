package cmd

import (
	"fmt"

	"go-channel-archiver/internal/helpers"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// discoverCmd runs Phase 1 only: walk the catalog and write the checkpoint.
var discoverCmd = &cobra.Command{
	Use:   "discover [CHANNEL_URL]",
	Short: "Walk the channel's catalog listing and checkpoint the video set",
	Long: `Runs only the discovery phase: walks the catalog listing page by
page, collects every distinct video, and saves the result to the discovery
checkpoint inside the save path. A later 'resolve' run picks it up from there.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().Bool("enhance", false, "Fetch per-video catalog pages to fill missing metadata. Overrides config if set.")
	discoverCmd.Flags().Int("max-pages", 0, "Maximum number of catalog pages to walk (0 uses config default)")
}

func runDiscover(cmd *cobra.Command, args []string) {
	if cmd.Flags().Changed("enhance") {
		enhance, _ := cmd.Flags().GetBool("enhance")
		globalConfig.EnhanceMetadata = enhance
	}
	if cmd.Flags().Changed("max-pages") {
		if pages, _ := cmd.Flags().GetInt("max-pages"); pages > 0 {
			globalConfig.MaxPages = pages
		}
	}

	channelUrl := globalConfig.ChannelUrl
	if len(args) > 0 {
		channelUrl = args[0]
	}
	if channelUrl == "" {
		log.Fatal("No channel URL given (pass it as an argument or set ChannelUrl in the config)")
	}

	if !helpers.CheckAndMakeDir(globalConfig.SavePath) {
		log.Fatalf("Could not create save path %s", globalConfig.SavePath)
	}

	videos, err := buildWalker().Walk(channelUrl)
	if err != nil && len(videos) == 0 {
		log.WithError(err).Fatal("Discovery failed")
	}
	if err != nil {
		log.WithError(err).Warnf("Discovery aborted early, keeping %d videos", len(videos))
	}
	if len(videos) == 0 {
		log.Fatal("No videos discovered")
	}

	if err := buildCheckpoints().Save(videos); err != nil {
		log.WithError(err).Fatal("Could not save discovery checkpoint")
	}

	fmt.Printf("Discovered %d videos\n", len(videos))
}
