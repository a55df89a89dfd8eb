package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
	"github.com/matzehuels/lobbymap/pkg/pipeline"
)

// walkOpts holds the command-line flags for the walk command.
type walkOpts struct {
	src     pipeline.Source
	input   string // screenshot to annotate
	output  string // annotated copy of input
	noCache bool
}

// walkCommand creates the walk command. It prints the node map as JSON and,
// given -i and -o, stores it in a copy of a screenshot of the level.
func (c *CLI) walkCommand() *cobra.Command {
	var opts walkOpts

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Extract the node map of a lobby level",
		Long: `Walk decodes a lobby level and prints the positions of its spawn, chapters,
warps and heart door as JSON, keyed by label.

The level is either a file (--level) or a map inside a mod of a game
installation (--game, --mod, --map). With -i and -o the node map is also
written into a copy of the input PNG as an iTXt chunk, ready for draw.`,
		Example: `  lobbymap walk --level lobby.bin
  lobbymap walk --game ~/Celeste --mod SpringCollab2020 --map SpringCollab2020/0-Lobbies/3-Advanced -i shot.png -o shot.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWalk(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.src.Level, "level", "", "level file (.bin, .yaml or .xml)")
	cmd.Flags().StringVar(&opts.src.Game, "game", "", "game installation directory")
	cmd.Flags().StringVar(&opts.src.Mod, "mod", "", "mod directory, zip or everest.yaml name under <game>/Mods")
	cmd.Flags().StringVar(&opts.src.Map, "map", "", "map path inside the mod, without Maps/ and .bin")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "PNG to annotate")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "annotated PNG to write")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "extract again even if the level is cached")
	cmd.MarkFlagsMutuallyExclusive("level", "game")
	cmd.MarkFlagsRequiredTogether("input", "output")
	fileFlags(cmd, levelExts, "level")
	fileFlags(cmd, imageExts, "input", "output")
	_ = cmd.RegisterFlagCompletionFunc("mod", completeMods)

	return cmd
}

func (c *CLI) runWalk(ctx context.Context, stdout io.Writer, opts walkOpts) error {
	if (opts.input == "") != (opts.output == "") {
		return errors.New(errors.ErrCodeInvalidInput, "-i and -o must be given together")
	}
	if opts.output == "-" {
		return errors.New(errors.ErrCodeInvalidInput, "-o must name a file, stdout carries the node map")
	}
	if opts.input != "" && !isPNG(opts.input) {
		return errors.New(errors.ErrCodeInvalidInput, "input %s is not a PNG", opts.input)
	}

	nc := c.newCache(opts.noCache)
	defer nc.Close()

	x := pipeline.NewExtractor(nc, c.Logger)
	nodes, err := x.Walk(ctx, opts.src)
	if err != nil {
		return err
	}
	if err := nodemap.Write(stdout, nodes); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write node map")
	}

	if opts.input == "" {
		return nil
	}
	src, err := readFile(opts.input, "image")
	if err != nil {
		return err
	}
	// -i and -o may name the same file, so embed in memory first
	var buf bytes.Buffer
	if err := nodemap.WritePNG(&buf, bytes.NewReader(src), nodes); err != nil {
		return err
	}
	err = writeOutput(opts.output, stdout, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
	if err != nil {
		return err
	}
	c.Logger.Infof("written to iTXt %q in %s", nodemap.Keyword, opts.output)
	return nil
}

func isPNG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}
