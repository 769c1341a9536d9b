package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the reduction and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached reductions and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, err := c.openCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			if err := cache.Clear(ctx, ch); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cache", c.backendName())
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache backend and its contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings().Cache
			printKeyValue("backend", c.backendName())
			printKeyValue("ttl", cfg.TTL.String())
			switch c.backendName() {
			case cache.BackendRedis:
				printKeyValue("address", cfg.RedisAddr)
			case cache.BackendFile:
				printKeyValue("directory", cfg.Dir)
				fc, err := cache.NewFileCache(cfg.Dir)
				if err != nil {
					return err
				}
				st, err := fc.Stats()
				if err != nil {
					return err
				}
				printKeyValue("entries", strconv.Itoa(st.Entries))
				printKeyValue("size", formatBytes(st.Bytes))
			}
			return nil
		},
	}
}

func (c *CLI) backendName() string {
	if b := c.settings().Cache.Backend; b != "" {
		return b
	}
	return cache.BackendFile
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
