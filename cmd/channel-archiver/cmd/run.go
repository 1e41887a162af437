package cmd

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"go-channel-archiver/index"
	"go-channel-archiver/internal/api"
	"go-channel-archiver/internal/archive"
	"go-channel-archiver/internal/catalog"
	"go-channel-archiver/internal/checkpoint"
	"go-channel-archiver/internal/database"
	"go-channel-archiver/internal/downloader"
	"go-channel-archiver/internal/helpers"
	"go-channel-archiver/internal/pipeline"

	"github.com/blevesearch/bleve/v2"
	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd executes both phases: discovery, then resolution and download.
var runCmd = &cobra.Command{
	Use:   "run [CHANNEL_URL]",
	Short: "Discover a channel's videos and download archived copies",
	Long: `Walks the channel's catalog listing page by page, checkpoints the
discovered video set, then looks each video up against archive services and
downloads the first retrievable copy. Per-video metadata is written whether
or not a download succeeds.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func runRun(cmd *cobra.Command, args []string) {
	applyRunFlags(cmd)

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

	resume := viper.GetBool("run.resume")
	stats, err := driver.Run(channelUrl, resume)
	if err != nil {
		log.WithError(err).Fatal("Archive run failed")
	}

	fmt.Printf("\nTotal videos found: %d\n", stats.TotalVideos)
	fmt.Printf("Videos with archived sources: %d\n", stats.WithArchives)
	fmt.Printf("Videos downloaded: %d\n", stats.Downloaded)
}

// --- Assembly helpers shared by run, discover and resolve ---

func httpTimeout() time.Duration {
	return time.Duration(globalConfig.HttpTimeoutSec) * time.Second
}

func databasePath() string {
	if globalConfig.DatabasePath != "" {
		return globalConfig.DatabasePath
	}
	return filepath.Join(globalConfig.SavePath, "archiver.db")
}

func indexPath() string {
	if globalConfig.BleveIndexPath != "" {
		return globalConfig.BleveIndexPath
	}
	return filepath.Join(globalConfig.SavePath, "archiver.bleve")
}

func buildWalker() *catalog.Walker {
	fetcher := catalog.NewHttpFetcher(globalHttpTransport, httpTimeout())
	walker := catalog.NewWalker(fetcher, log.StandardLogger())
	if globalConfig.MaxPages > 0 {
		walker.MaxPages = globalConfig.MaxPages
	}
	walker.PageDelay = time.Duration(globalConfig.PageDelayMs) * time.Millisecond
	walker.EnhanceDelay = time.Duration(globalConfig.EnhanceDelayMs) * time.Millisecond
	walker.Enhance = globalConfig.EnhanceMetadata
	return walker
}

func buildCheckpoints() *checkpoint.Store {
	return checkpoint.NewStore(globalConfig.SavePath, log.StandardLogger())
}

func buildResolver() *archive.Resolver {
	lookupClient := api.NewClient(globalConfig.LookupBaseUrl, globalConfig.LookupApiVersion, &http.Client{
		Timeout:   httpTimeout(),
		Transport: globalHttpTransport,
	})
	return archive.NewResolver(lookupClient, log.StandardLogger())
}

func buildCoordinator(db *database.DB, idx bleve.Index) *pipeline.Coordinator {
	// Download client gets a far longer timeout than lookups: archive
	// mirrors serve large files slowly.
	downloadClient := &http.Client{
		Timeout:   15 * time.Minute,
		Transport: globalHttpTransport,
	}
	dl := downloader.NewAuto(
		downloader.NewHttpDownloader(downloadClient, log.StandardLogger()),
		globalConfig.UseYtDlp,
		log.StandardLogger(),
	)
	return pipeline.NewCoordinator(globalConfig.SavePath, dl, db, idx, log.StandardLogger())
}

func buildDriver(db *database.DB, idx bleve.Index) *pipeline.Driver {
	driver := pipeline.NewDriver(
		buildWalker(),
		buildCheckpoints(),
		buildResolver(),
		buildCoordinator(db, idx),
		log.StandardLogger(),
	)
	driver.VideoDelay = time.Duration(globalConfig.VideoDelayMs) * time.Millisecond
	driver.SkipDownloaded = globalConfig.SkipDownloaded
	driver.DB = db
	return driver
}
