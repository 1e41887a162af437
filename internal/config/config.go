package config

import (
	"fmt"

	"go-channel-archiver/internal/models"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// Defaults applied when the config file omits a field.
const (
	DefaultSavePath         = "saved_videos"
	DefaultLookupBaseUrl    = "https://findyoutubevideo.thetechrobo.ca"
	DefaultLookupApiVersion = "v4"
	DefaultMaxPages         = 50
	DefaultPageDelayMs      = 2000
	DefaultVideoDelayMs     = 3000
	DefaultEnhanceDelayMs   = 500
	DefaultHttpTimeoutSec   = 30
)

// LoadConfig reads the configuration from the specified path (defaulting to
// "config.toml") and fills in defaults for anything the file leaves unset.
// A missing file is not fatal; the defaults alone are a workable config.
func LoadConfig(configFilePath string) (models.Config, error) {
	if configFilePath == "" {
		configFilePath = "config.toml"
	}
	cfg := models.Config{
		EnhanceMetadata: true,
		UseYtDlp:        true,
	}
	_, err := toml.DecodeFile(configFilePath, &cfg)
	if err != nil {
		return applyDefaults(cfg), fmt.Errorf("error loading config file %s: %w", configFilePath, err)
	}

	if cfg.SavePath == "" {
		log.Warnf("SavePath is not set in %s, defaulting to %q", configFilePath, DefaultSavePath)
	}

	log.Infof("Configuration loaded from %s", configFilePath)
	return applyDefaults(cfg), nil
}

func applyDefaults(cfg models.Config) models.Config {
	if cfg.SavePath == "" {
		cfg.SavePath = DefaultSavePath
	}
	if cfg.LookupBaseUrl == "" {
		cfg.LookupBaseUrl = DefaultLookupBaseUrl
	}
	if cfg.LookupApiVersion == "" {
		cfg.LookupApiVersion = DefaultLookupApiVersion
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.PageDelayMs <= 0 {
		cfg.PageDelayMs = DefaultPageDelayMs
	}
	if cfg.VideoDelayMs <= 0 {
		cfg.VideoDelayMs = DefaultVideoDelayMs
	}
	if cfg.EnhanceDelayMs <= 0 {
		cfg.EnhanceDelayMs = DefaultEnhanceDelayMs
	}
	if cfg.HttpTimeoutSec <= 0 {
		cfg.HttpTimeoutSec = DefaultHttpTimeoutSec
	}
	return cfg
}
