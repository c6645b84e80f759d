// Package config loads engine configuration from file and environment
// via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `mapstructure:"db_path"`
	// HTTPAddr is the listen address for the web API.
	HTTPAddr string `mapstructure:"http_addr"`

	Embedder EmbedderConfig `mapstructure:"embedder"`
}

// EmbedderConfig selects the embedding provider.
type EmbedderConfig struct {
	Provider  string `mapstructure:"provider"` // "openai", "local", or empty for auto
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	CacheSize int    `mapstructure:"cache_size"`
}

// Load reads configuration from cfgFile (or the default search paths)
// and the COSMOFEED_* environment, applying defaults for anything
// unset. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("embedder.provider", "")
	v.SetDefault("embedder.model", "")
	v.SetDefault("embedder.cache_size", 10000)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("cosmofeed")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cosmofeed"))
		}
	}

	v.SetEnvPrefix("COSMOFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cosmofeed.db"
	}
	return filepath.Join(home, ".cosmofeed", "cosmofeed.db")
}
