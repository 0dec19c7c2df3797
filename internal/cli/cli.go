// Package cli implements the gridwire command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/buildinfo"
	"github.com/matzehuels/gridwire/pkg/cache"
	"github.com/matzehuels/gridwire/pkg/config"
	"github.com/matzehuels/gridwire/pkg/observability"
	"github.com/matzehuels/gridwire/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and generated commands.
const appName = "gridwire"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level every pipeline,
// cache and server event is logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level > log.DebugLevel {
		observability.Reset()
		return
	}
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gridwire routes connections between icons on a grid poster",
		Long: `Gridwire draws connection posters: icons sit on a grid and every connection
is routed through shared channels between rows and columns, each line getting
its own slot so that nothing overlaps.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (yaml, toml or json)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.channelsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config (or the defaults) once per invocation.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// config returns the loaded config, falling back to the defaults when a
// command runs without the root pre-run (tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
}

// serverKeyPrefix keeps API cache entries apart from CLI entries when both
// share one backend.
const serverKeyPrefix = "srv:"

// newServerRunner creates a pipeline runner whose cache keys are scoped to
// the HTTP API.
func (c *CLI) newServerRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), serverKeyPrefix)
	return pipeline.NewRunner(c.newCache(ctx, noCache), keyer, c.Logger)
}

// newCache opens the configured cache backend. An unreachable backend
// degrades to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cfg := c.config().Cache
	ch, err := cache.Open(ctx, cfg.Backend, cfg.Dir, cfg.RedisURL)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns options bound to the loaded config and logger.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Config: c.config(),
		Logger: c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// basePath derives the base output path from the output and input paths.
// An empty output strips the input's extension; a known format extension
// on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath names the file for one rendered format.
func artifactPath(base, format string) string {
	switch format {
	case pipeline.FormatJSON:
		return base + ".layout.json"
	case pipeline.FormatTopology:
		return base + ".topology.svg"
	case pipeline.FormatTopologyPNG:
		return base + ".topology.png"
	default:
		return base + "." + format
	}
}

// writeArtifacts writes every artifact next to base, or to output when a
// single format was requested with an explicit path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(basePath(output, input), format)
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
