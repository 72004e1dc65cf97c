/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joecammo/Daemon/source"
	"github.com/joecammo/Daemon/table"
)

var outDir string

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download every feed into the cache",
	Long: `Fetches the Daemons, Abilities and PlayerDeck feeds so later runs can use
--offline. With --out the raw CSV is also written to that directory in the
layout --data reads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		src, closeSrc, err := feedSource(cfg, logger)
		if err != nil {
			return err
		}
		defer closeSrc()
		if outDir != "" {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
		}
		for _, f := range source.Feeds {
			start := time.Now()
			body, err := src.Fetch(cmd.Context(), f)
			if err != nil {
				return err
			}
			logger.Info("fetched", "feed", f, "rows", len(table.Parse(body)), "took", time.Since(start))
			if outDir == "" {
				continue
			}
			path, err := source.Dir(outDir).Path(f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", f, err)
			}
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&outDir, "out", "o", "", "also write the feeds as CSV files to this directory")
	rootCmd.AddCommand(fetchCmd)
}
