// Package config loads and validates the options that drive the index
// build, shard layout, and stopword loading.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfig is the sentinel wrapped by every configuration validation
// failure.
var ErrConfig = errors.New("config: invalid configuration")

// Config carries the options that drive a run: where the normalized
// documents live, where the shard files are written or read from, how many
// shards to use, and where the stopword file is.
type Config struct {
	InputDir      string `yaml:"input_dir"`
	IndexDir      string `yaml:"index_dir"`
	NumShards     int    `yaml:"num_shards"`
	StopwordsPath string `yaml:"stopwords_path"`
}

// DefaultNumShards is used when neither the config file nor a flag
// override sets num_shards.
const DefaultNumShards = 4

// Load reads path as YAML into a Config, applying DefaultNumShards when
// the file omits num_shards. An empty path returns a zero-value Config
// with DefaultNumShards set, so a purely flag-driven invocation works
// without a config file at all.
func Load(path string) (Config, error) {
	cfg := Config{NumShards: DefaultNumShards}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", ErrConfig, path, err)
	}
	if cfg.NumShards == 0 {
		cfg.NumShards = DefaultNumShards
	}
	return cfg, nil
}

// ApplyOverrides replaces any field in cfg with the corresponding
// override when the override is non-empty/non-zero, so CLI flags take
// priority over values loaded from a config file.
func (cfg Config) ApplyOverrides(inputDir, indexDir, stopwordsPath string, numShards int) Config {
	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if indexDir != "" {
		cfg.IndexDir = indexDir
	}
	if stopwordsPath != "" {
		cfg.StopwordsPath = stopwordsPath
	}
	if numShards != 0 {
		cfg.NumShards = numShards
	}
	return cfg
}

// Validate checks that cfg is complete enough to run an index build
// (InputDir and IndexDir set, NumShards positive), returning ErrConfig
// otherwise. Callers must validate before any side effect.
func (cfg Config) Validate() error {
	if cfg.InputDir == "" {
		return fmt.Errorf("%w: input_dir is required", ErrConfig)
	}
	if cfg.IndexDir == "" {
		return fmt.Errorf("%w: index_dir is required", ErrConfig)
	}
	if cfg.NumShards <= 0 {
		return fmt.Errorf("%w: num_shards must be positive, got %d", ErrConfig, cfg.NumShards)
	}
	return nil
}
