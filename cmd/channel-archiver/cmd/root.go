package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-channel-archiver/internal/api"
	"go-channel-archiver/internal/config"
	"go-channel-archiver/internal/models"
)

// cfgFile holds the path to the config file specified by the user
var cfgFile string

// logApiFlag holds the value of the --log-api flag
var logApiFlag bool

// savePathFlag holds the value of the --save-path flag
var savePathFlag string

// pageDelayFlag holds the value of the --page-delay flag
var pageDelayFlag int

// videoDelayFlag holds the value of the --video-delay flag
var videoDelayFlag int

// httpTimeoutFlag holds the value of the --http-timeout flag
var httpTimeoutFlag int

// globalConfig holds the loaded configuration
var globalConfig models.Config

// globalHttpTransport holds the globally configured HTTP transport (base or logging-wrapped)
var globalHttpTransport http.RoundTripper

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "channel-archiver",
	Short: "Archive a channel's deleted videos from public archives",
	Long: `Channel Archiver walks a Filmot channel listing to discover every video
it once carried, then queries archive services for surviving copies and
downloads them, keeping a per-video metadata record either way.`,
	PersistentPreRunE: loadGlobalConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.toml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&logApiFlag, "log-api", false, "Log HTTP requests/responses to api.log (overrides config)")
	rootCmd.PersistentFlags().StringVar(&savePathFlag, "save-path", "", "Directory to save videos (overrides config)")
	rootCmd.PersistentFlags().IntVar(&pageDelayFlag, "page-delay", -1, "Delay between catalog page fetches in ms (overrides config, -1 uses config default)")
	rootCmd.PersistentFlags().IntVar(&videoDelayFlag, "video-delay", -1, "Delay between per-video lookups in ms (overrides config, -1 uses config default)")
	rootCmd.PersistentFlags().IntVar(&httpTimeoutFlag, "http-timeout", -1, "Timeout for HTTP clients in seconds (overrides config, -1 uses config default)")
}

// loadGlobalConfig loads the configuration, applies flag overrides and sets
// up the global HTTP transport (optionally wrapped for request logging).
func loadGlobalConfig(cmd *cobra.Command, args []string) error {
	var err error
	globalConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		// Not fatal: every setting has a default, and flags can fill the rest.
		log.WithError(err).Warnf("Failed to load configuration from %s", cfgFile)
	}

	if cmd.Flags().Changed("log-api") {
		globalConfig.LogApiRequests = logApiFlag
	}

	if cmd.Flags().Changed("save-path") {
		if savePathFlag != "" {
			globalConfig.SavePath = savePathFlag
		} else {
			log.Warn("--save-path flag provided but value is empty, ignoring.")
		}
	}

	if cmd.Flags().Changed("page-delay") && pageDelayFlag >= 0 {
		globalConfig.PageDelayMs = pageDelayFlag
	}
	if cmd.Flags().Changed("video-delay") && videoDelayFlag >= 0 {
		globalConfig.VideoDelayMs = videoDelayFlag
	}
	if cmd.Flags().Changed("http-timeout") {
		if httpTimeoutFlag > 0 {
			globalConfig.HttpTimeoutSec = httpTimeoutFlag
		} else {
			log.Warnf("--http-timeout flag provided with invalid value %d, using config value: %d sec", httpTimeoutFlag, globalConfig.HttpTimeoutSec)
		}
	}

	// --- Setup Global HTTP Transport ---
	baseTransport := http.DefaultTransport
	globalHttpTransport = baseTransport

	if globalConfig.LogApiRequests {
		logFilePath := "api.log"
		if globalConfig.SavePath != "" {
			if _, statErr := os.Stat(globalConfig.SavePath); statErr == nil {
				logFilePath = filepath.Join(globalConfig.SavePath, logFilePath)
			} else {
				log.Warnf("SavePath '%s' not found, saving api.log to current directory.", globalConfig.SavePath)
			}
		}
		log.Infof("API logging to file: %s", logFilePath)

		loggingTransport, err := api.NewLoggingTransport(baseTransport, logFilePath)
		if err != nil {
			log.WithError(err).Error("Failed to initialize API logging transport, logging disabled.")
		} else {
			globalHttpTransport = loggingTransport
		}
	}

	return nil
}
