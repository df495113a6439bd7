// Package config loads server configuration from an optional YAML file and
// LOKISOFT_-prefixed environment variables, with sane defaults for local
// development.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Content  ContentConfig  `mapstructure:"content"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type ContentConfig struct {
	PostsDir string `mapstructure:"posts_dir"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from path when given, otherwise from an optional
// site.yaml in the working directory. Environment variables override file
// values, e.g. LOKISOFT_SERVER_PORT or LOKISOFT_CONTENT_POSTS_DIR.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("content.posts_dir", "./posts")
	v.SetDefault("database.path", "./site.db")

	v.SetEnvPrefix("LOKISOFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("site")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
