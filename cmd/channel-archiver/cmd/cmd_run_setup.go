package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Persistent logging flags, shared by all commands.
var logLevel string
var logFormat string

func init() {
	rootCmd.AddCommand(runCmd)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Logging format (text, json)")

	// Hook to configure logging before any command runs
	cobra.OnInitialize(initLogging)

	runCmd.Flags().BoolP("resume", "r", false, "Resume from the discovery checkpoint if one exists")
	runCmd.Flags().Bool("enhance", false, "Fetch per-video catalog pages to fill missing metadata. Overrides config if set.")
	runCmd.Flags().Int("max-pages", 0, "Maximum number of catalog pages to walk (0 uses config default)")
	runCmd.Flags().Bool("yt-dlp", false, "Prefer yt-dlp for downloads when installed. Overrides config if set.")
	runCmd.Flags().Bool("skip-downloaded", false, "Skip videos already marked Downloaded in the database. Overrides config if set.")

	viper.BindPFlag("run.resume", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("run.enhance", runCmd.Flags().Lookup("enhance"))
	viper.BindPFlag("run.max_pages", runCmd.Flags().Lookup("max-pages"))
	viper.BindPFlag("run.yt_dlp", runCmd.Flags().Lookup("yt-dlp"))
	viper.BindPFlag("run.skip_downloaded", runCmd.Flags().Lookup("skip-downloaded"))
}

func initLogging() {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.WithError(err).Warnf("Invalid log level '%s', using default 'info'", logLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	switch logFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		log.Warnf("Invalid log format '%s', using default 'text'", logFormat)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// applyRunFlags folds run-command flag overrides into the global config.
func applyRunFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("enhance") {
		globalConfig.EnhanceMetadata = viper.GetBool("run.enhance")
	}
	if cmd.Flags().Changed("max-pages") {
		if pages := viper.GetInt("run.max_pages"); pages > 0 {
			globalConfig.MaxPages = pages
		}
	}
	if cmd.Flags().Changed("yt-dlp") {
		globalConfig.UseYtDlp = viper.GetBool("run.yt_dlp")
	}
	if cmd.Flags().Changed("skip-downloaded") {
		globalConfig.SkipDownloaded = viper.GetBool("run.skip_downloaded")
	}
}
