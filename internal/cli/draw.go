package cli

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// drawOpts holds the command-line flags for the draw command.
type drawOpts struct {
	input  string // annotated PNG
	output string // drawn PNG
	graph  string // graph JSON file
	route  string // hyphen-separated route
}

// drawCommand creates the draw command for painting labels and arrows onto
// an annotated screenshot.
func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw -i INPUT OUTPUT",
		Short: "Draw labels and arrows onto an annotated PNG",
		Long: `Draw reads the node map embedded in INPUT by walk and draws every label at
its node. Edges from --json are drawn as arrows, then the --hy route on top
of them in a highlight color.

The graph file maps each source label to an object keyed by destination
labels. The route is a hyphen-separated list of labels such as "!-1-B-2",
where tokens before "0" name the spawn and tokens from ":" to "@" name the
heart door.`,
		Example: `  lobbymap draw -i shot.png out.png
  lobbymap draw -i shot.png out.png --json graph.json --hy '!-1-B-2'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output = args[0]
			return c.runDraw(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "PNG annotated by walk")
	cmd.Flags().StringVar(&opts.graph, "json", "", "graph JSON file")
	cmd.Flags().StringVar(&opts.route, "hy", "", "route to highlight, e.g. !-1-B-2")
	_ = cmd.MarkFlagRequired("input")
	fileFlags(cmd, imageExts, "input")
	fileFlags(cmd, graphExts, "json")

	return cmd
}

func (c *CLI) runDraw(ctx context.Context, stdout io.Writer, opts drawOpts) error {
	edges, err := edgeOptions(opts.graph, opts.route)
	if err != nil {
		return err
	}
	r, err := c.newRenderer(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.input)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", opts.input)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open %s", opts.input)
	}
	defer f.Close()

	prog := newProgress(c.Logger)
	var buf bytes.Buffer
	if err := r.Run(ctx, f, &buf, edges); err != nil {
		return err
	}
	if err := writeOutput(opts.output, stdout, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	}); err != nil {
		return err
	}
	prog.done("Drew " + opts.input)
	if opts.output != "-" {
		printSuccess("Drawing complete")
		printFile(opts.output)
	}
	return nil
}
