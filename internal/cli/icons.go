package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mlenz/drawbridge/pkg/styles"
)

// iconsCommand creates the icons management command.
func (c *CLI) iconsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Manage the icon style bundle",
	}

	cmd.AddCommand(c.iconsFetchCommand())
	cmd.AddCommand(c.iconsClearCommand())
	cmd.AddCommand(c.iconsPathCommand())

	return cmd
}

// iconsFetchCommand creates the "icons fetch" subcommand, which warms the
// bundle cache ahead of generation.
func (c *CLI) iconsFetchCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the icon bundle and warm the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			backend, err := newIconCache(ctx, cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize icon cache: %w", err)
			}
			defer backend.Close()

			spinner := newSpinnerWithContext(ctx, "Fetching icon bundle...")
			spinner.Start()

			catalog := styles.NewCatalog(backend,
				styles.WithBundleURL(cfg.Icons.BundleURL),
				styles.WithLogger(c.Logger),
			)
			if err := catalog.Populate(ctx); err != nil {
				spinner.StopWithError("Icon bundle unavailable")
				return err
			}
			spinner.Stop()

			printSuccess("Icon bundle cached")
			printDetail("Source: %s", cfg.Icons.BundleURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "fetch without writing to the cache")
	return cmd
}

// iconsClearCommand creates the "icons clear" subcommand.
func (c *CLI) iconsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the cached icon bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir {
					return nil
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty subdirectories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// iconsPathCommand creates the "icons path" subcommand.
func (c *CLI) iconsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the icon cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
