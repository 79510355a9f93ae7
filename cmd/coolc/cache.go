package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coolc/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the analysis cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCacheForCmd(cmd)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
		return err
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCacheForCmd(cmd)
		if err != nil {
			return err
		}
		return c.Clear()
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd, cacheCleanCmd)
}

func openCacheForCmd(cmd *cobra.Command) (*driver.Cache, error) {
	pf := cmd.Root().PersistentFlags()
	dir, _ := pf.GetString("cache-dir")
	if !pf.Changed("cache-dir") && manifest != nil && manifest.Config.Cache.Enabled {
		dir = manifest.CacheDir()
	}
	return driver.OpenCache(dir)
}
