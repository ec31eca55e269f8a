package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sharesheet/sharesheet/pkg/filesystem"
	"github.com/spf13/viper"
)

// Config holds the central application configuration
type Config struct {
	// Unfurl service configuration
	Unfurl struct {
		Endpoint   string        `mapstructure:"endpoint"`    // Remote unfurl endpoint; empty means direct extraction
		Timeout    time.Duration `mapstructure:"timeout"`     // HTTP timeout per fetch
		MaxRetries int           `mapstructure:"max_retries"` // Retries for transient failures
		UserAgent  string        `mapstructure:"user_agent"`  // User-Agent sent with fetches
	} `mapstructure:"unfurl"`

	// Share defaults
	Share struct {
		Text         string `mapstructure:"text"`          // Default share message
		EmailSubject string `mapstructure:"email_subject"` // Subject line for mailto links
		DownloadDir  string `mapstructure:"download_dir"`  // Directory for downloaded files
	} `mapstructure:"share"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	// If path is relative, try current directory first, then executable directory
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			if execPath, err := filesystem.GetDefaultPath(path); err == nil {
				if _, err := os.Stat(execPath); err == nil {
					path = execPath
				}
			}
		}
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetDefault("unfurl.endpoint", "")
	viper.SetDefault("unfurl.timeout", "10s")
	viper.SetDefault("unfurl.max_retries", 0)
	viper.SetDefault("unfurl.user_agent", "sharesheet/1.0")

	viper.SetDefault("share.text", "Check this out!")
	viper.SetDefault("share.email_subject", "Share")
	viper.SetDefault("share.download_dir", "downloads")

	// A missing config file is fine, defaults cover everything
	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
