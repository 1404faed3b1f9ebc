// Command prairie builds and queries a positional-index text search
// engine: index a corpus into shard files, run a one-shot query, or
// drop into an interactive query shell.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/textlab/prairie/config"
	"github.com/textlab/prairie/docindex"
	"github.com/textlab/prairie/fileio"
	"github.com/textlab/prairie/normalize"
	"github.com/textlab/prairie/present"
	"github.com/textlab/prairie/rank"
	"github.com/textlab/prairie/shard"
	"github.com/textlab/prairie/shell"
	"github.com/textlab/prairie/stopwords"
)

// Exit codes: 0 success, 1 I/O or parse failure, 2 invalid configuration.
const (
	exitOK          = 0
	exitIOOrParse   = 1
	exitInvalidConf = 2
)

var (
	configPath    string
	inputDirFlag  string
	indexDirFlag  string
	numShardsFlag int
	stopwordsFlag string
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := &cobra.Command{
		Use:   "prairie",
		Short: "A positional-index text search engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&inputDirFlag, "input-dir", "", "directory of normalized .txt documents")
	root.PersistentFlags().StringVar(&indexDirFlag, "index-dir", "", "directory containing shard files")
	root.PersistentFlags().IntVar(&numShardsFlag, "num-shards", 0, "number of shard files to write (overrides config)")
	root.PersistentFlags().StringVar(&stopwordsFlag, "stopwords", "", "path to the stopword file")

	root.AddCommand(indexCmd(), searchCmd(), shellCmd())

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.ApplyOverrides(inputDirFlag, indexDirFlag, stopwordsFlag, numShardsFlag)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build a sharded index from a corpus of normalized documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			buildID := uuid.New().String()

			idx, _, stats, err := docindex.BuildIndex(cfg.InputDir)
			if err != nil {
				return err
			}
			log.Info().
				Str("build_id", buildID).
				Int("documents", stats.DocCount).
				Int("terms", stats.TermCount).
				Int("postings", stats.PostingCount).
				Msg("index: build complete")

			if err := shard.Write(cfg.IndexDir, idx, cfg.NumShards, fileio.Default{}); err != nil {
				return err
			}
			log.Info().
				Str("build_id", buildID).
				Int("num_shards", cfg.NumShards).
				Str("index_dir", cfg.IndexDir).
				Msg("index: shards written")
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Run a single query against an already-built index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			idx, docs, stop, err := loadIndexAndStopwords(cfg)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			terms := normalize.Normalize(query, stop)
			scores := rank.Rank(terms, idx, docs)
			results := present.Top10(scores, docs)
			fmt.Fprint(cmd.OutOrStdout(), present.FormatTable(results))
			return nil
		},
	}
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive query shell against an already-built index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			idx, docs, stop, err := loadIndexAndStopwords(cfg)
			if err != nil {
				return err
			}
			return shell.Run(cmd.InOrStdin(), cmd.OutOrStdout(), idx, docs, stop)
		},
	}
}

func loadIndexAndStopwords(cfg config.Config) (*docindex.Index, *docindex.DocumentTable, normalize.Stopwords, error) {
	idx, err := shard.Load(cfg.IndexDir, cfg.NumShards, fileio.Default{})
	if err != nil {
		return nil, nil, normalize.Stopwords{}, err
	}
	docs, err := docindex.BuildDocumentTable(cfg.InputDir)
	if err != nil {
		return nil, nil, normalize.Stopwords{}, err
	}
	stop, err := stopwords.Load(cfg.StopwordsPath)
	if err != nil {
		return nil, nil, normalize.Stopwords{}, err
	}
	return idx, docs, stop, nil
}

// exitCodeFor maps a command error to its exit code: invalid
// configuration is 2, everything else that reaches main is treated as
// an I/O or parse failure and is 1.
func exitCodeFor(err error) int {
	log.Error().Err(err).Msg("prairie: command failed")
	if errors.Is(err, config.ErrConfig) {
		return exitInvalidConf
	}
	return exitIOOrParse
}
