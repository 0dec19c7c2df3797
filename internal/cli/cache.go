package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and drawing cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and drawing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config().Cache
			ch, err := cache.Open(cmd.Context(), cfg.Backend, cfg.Dir, cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("open %s cache: %w", cfg.Backend, err)
			}
			defer ch.Close()

			cl, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("The %s cache cannot be cleared", cfg.Backend)
				return nil
			}
			if err := cl.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cache cleared")
			printDetail("Backend: %s", cacheLocation(cfg.Backend, cfg.Dir, cfg.RedisURL))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config().Cache
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(cfg.Backend, cfg.Dir, cfg.RedisURL))
			return nil
		},
	}
}

// cacheLocation describes a backend: the directory for the file cache, the
// URL for redis.
func cacheLocation(backend, dir, redisURL string) string {
	switch backend {
	case cache.BackendRedis:
		return redisURL
	case cache.BackendNone:
		return "none"
	default:
		return dir
	}
}
