package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lobbymap/pkg/buildinfo"
	"github.com/matzehuels/lobbymap/pkg/cache"
	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "lobbymap"

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

	configPath  string
	systemFonts bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Lobbymap labels the chapters and warps of Celeste lobby maps",
		Long:         `Lobbymap extracts the chapters, warps, spawn and heart door of a Celeste lobby level, stores their positions in a screenshot of the level, and draws labels and route arrows onto it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML style file")
	root.PersistentFlags().BoolVar(&c.systemFonts, "system-fonts", false, "fall back to installed fonts for characters the bundled fonts lack")

	root.AddCommand(c.walkCommand())
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// cacheDir returns the node map cache directory, following XDG on every
// platform.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "locate home directory")
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newCache opens the file cache, or a null cache when disabled. A cache that
// cannot be opened is reported and skipped.
func (c *CLI) newCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			return fc
		}
	}
	printWarning("Node map cache disabled: %v", err)
	return cache.NewNullCache()
}

// style loads the --config file over the defaults and applies --system-fonts.
func (c *CLI) style() (pipeline.Style, error) {
	s := pipeline.DefaultStyle()
	if c.configPath != "" {
		var err error
		if s, err = pipeline.LoadStyle(c.configPath); err != nil {
			return pipeline.Style{}, err
		}
		c.Logger.Debug("loaded style", "path", c.configPath)
	}
	if c.systemFonts {
		s.SystemFonts = true
	}
	return s, nil
}

// newRenderer builds a renderer for the current style. Scanning installed
// fonts can take a while, so a spinner runs meanwhile.
func (c *CLI) newRenderer(ctx context.Context) (*pipeline.Renderer, error) {
	s, err := c.style()
	if err != nil {
		return nil, err
	}
	if !s.SystemFonts {
		return pipeline.NewRenderer(s, c.Logger)
	}

	spinner := newSpinner(ctx, "Loading system fonts...")
	spinner.Start()
	r, err := pipeline.NewRenderer(s, c.Logger)
	if err != nil {
		spinner.StopWithError("Loading fonts failed")
		return nil, err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return r, nil
}

// edgeOptions reads the --json graph file and parses the --hy route.
func edgeOptions(graphPath, route string) (pipeline.DrawOptions, error) {
	var opts pipeline.DrawOptions
	if graphPath != "" {
		data, err := readFile(graphPath, "graph")
		if err != nil {
			return opts, err
		}
		if opts.Graph, err = pipeline.ParseGraph(data); err != nil {
			return opts, err
		}
	}
	if route != "" {
		opts.Path = pipeline.ParsePath(route)
	}
	return opts, nil
}

func readFile(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s %s", what, path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s %s", what, path)
	}
	return data, nil
}

// writeOutput creates path, or writes to w when path is "" or "-".
func writeOutput(path string, w io.Writer, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(w)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", path)
	}
	return nil
}
