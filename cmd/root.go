/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/joecammo/Daemon/config"
	"github.com/joecammo/Daemon/game"
	"github.com/joecammo/Daemon/source"
)

var (
	configPath string
	logLevel   string
	dataDir    string
	cachePath  string
	layoutMode string
	offline    bool
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Deck building card game hand",
	Long: `Daemon builds a deck from the Abilities, PlayerDeck and Daemons feeds,
deals it into a hand and lets you pop, drag and play cards against the board.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file")
	f.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVarP(&dataDir, "data", "d", "", "read feeds from CSV files in this directory instead of the sheet")
	f.StringVar(&cachePath, "cache", "", "sqlite feed cache path (\"none\" disables it)")
	f.StringVar(&layoutMode, "layout", "", "hand layout: fan or linear")
	f.BoolVar(&offline, "offline", false, "serve feeds from the cache only")
	f.Int64Var(&seed, "seed", 0, "shuffle seed, 0 seeds from the clock")
}

// loadConfig merges defaults, the config file, the environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("data") {
		cfg.Feeds.Dir = dataDir
	}
	if flags.Changed("cache") {
		cfg.Feeds.Cache = cachePath
	}
	if flags.Changed("layout") {
		cfg.Layout.Mode = layoutMode
	}
	if flags.Changed("offline") {
		cfg.Feeds.Offline = offline
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)
	return cfg, logger, nil
}

// feedSource picks the feed source from config. The returned closer
// releases the cache database.
func feedSource(cfg *config.Config, logger *log.Logger) (source.Source, func(), error) {
	var upstream source.Source
	if cfg.Feeds.Dir != "" {
		upstream = source.Dir(cfg.Feeds.Dir)
	} else {
		h := source.NewHTTP(cfg.Feeds.Sheet, time.Duration(cfg.Feeds.Timeout)*time.Second)
		for name, url := range cfg.Feeds.URLs {
			h.URLs[source.Feed(name)] = url
		}
		upstream = h
	}
	if cfg.Feeds.Cache == "" || cfg.Feeds.Cache == "none" {
		return upstream, func() {}, nil
	}
	repo, err := source.OpenRepository(cfg.Feeds.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("open feed cache: %w", err)
	}
	cached := source.NewCached(upstream, repo, logger)
	cached.Offline = cfg.Feeds.Offline
	return cached, func() { repo.Close() }, nil
}

// loadSession builds a session and loads every feed into it.
func loadSession(cmd *cobra.Command) (*game.Session, *config.Config, *log.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	src, closeSrc, err := feedSource(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	defer closeSrc()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	s := game.New(cfg, logger)
	if err := s.Load(ctx, src); err != nil {
		return nil, nil, nil, err
	}
	return s, cfg, logger, nil
}

// newSession loads a session and deals the opening hand.
func newSession(cmd *cobra.Command) (*game.Session, *config.Config, *log.Logger, error) {
	s, cfg, logger, err := loadSession(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.Start(); err != nil {
		return nil, nil, nil, err
	}
	logger.Info("dealt opening hand", "cards", s.Hand().Len(), "layout", s.Engine().Options().Mode)
	return s, cfg, logger, nil
}
