package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-site/folio/pkg/cache"
)

type cacheStats struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

func (s cacheStats) Text() string {
	return fmt.Sprintf("Cache: %s\nEntries: %d\n", s.Path, s.Entries)
}

type purgeResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}

func (r purgeResult) Text() string { return fmt.Sprintf("[✓] Purged render cache at %s\n", r.Path) }

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the render cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the number of cached renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Len()
			if err != nil {
				return err
			}
			return printResult(cmd, cacheStats{Path: cfg.CachePath, Entries: n})
		},
	}, &cobra.Command{
		Use:   "purge",
		Short: "Delete every cached render",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Purge(); err != nil {
				return fmt.Errorf("failed to purge cache: %w", err)
			}
			return printResult(cmd, purgeResult{Success: true, Path: cfg.CachePath})
		},
	})
	return cmd
}

func openCache() (*cache.Cache, error) {
	if cfg.CachePath == "" {
		return nil, fmt.Errorf("no cache_path configured")
	}
	c, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, nil
}
