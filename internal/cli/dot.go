package cli

import (
	"bytes"
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
	"github.com/matzehuels/lobbymap/pkg/render/nodelink"
)

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	input  string  // annotated PNG
	nodes  string  // node map JSON
	graph  string  // graph JSON file
	route  string  // hyphen-separated route
	format string  // dot, svg or png
	output string  // output file, stdout when empty
	scale  float64 // image pixels to Graphviz points
}

// dotCommand creates the dot command, which exports a node map as a
// node-link diagram with every node pinned at its image position.
func (c *CLI) dotCommand() *cobra.Command {
	opts := dotOpts{format: string(nodelink.FormatDOT), scale: 1}

	cmd := &cobra.Command{
		Use:   "dot (-i INPUT | --nodes FILE)",
		Short: "Export a node map as a Graphviz diagram",
		Example: `  lobbymap dot -i shot.png --json graph.json
  lobbymap dot --nodes lobby.json --hy '!-1-B' -f svg -o lobby.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "PNG annotated by walk")
	cmd.Flags().StringVar(&opts.nodes, "nodes", "", "node map JSON as printed by walk")
	cmd.Flags().StringVar(&opts.graph, "json", "", "graph JSON file")
	cmd.Flags().StringVar(&opts.route, "hy", "", "route to highlight, e.g. !-1-B-2")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "points per image pixel")
	cmd.MarkFlagsMutuallyExclusive("input", "nodes")
	cmd.MarkFlagsOneRequired("input", "nodes")
	fileFlags(cmd, imageExts, "input")
	fileFlags(cmd, graphExts, "nodes", "json")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runDot(ctx context.Context, stdout io.Writer, opts dotOpts) error {
	format, err := nodelink.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", opts.scale)
	}
	edges, err := edgeOptions(opts.graph, opts.route)
	if err != nil {
		return err
	}

	src := opts.input
	if src == "" {
		src = opts.nodes
	}
	nodes, err := readNodes(src)
	if err != nil {
		return err
	}

	dot, err := nodelink.ToDOT(nodes, edges.Graph, nodelink.Options{Path: edges.Path, Scale: opts.scale})
	if err != nil {
		return err
	}
	out, err := nodelink.Render(ctx, dot, format)
	if err != nil {
		return err
	}
	c.Logger.Debug("rendered diagram", "format", format, "nodes", len(nodes), "bytes", len(out))

	return writeOutput(opts.output, stdout, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	})
}

// readNodes loads a node map from an annotated PNG, or from JSON for any
// other extension.
func readNodes(path string) (nodemap.NodeMap, error) {
	data, err := readFile(path, "node map")
	if err != nil {
		return nil, err
	}
	if isPNG(path) {
		return nodemap.ReadPNG(bytes.NewReader(data))
	}
	return nodemap.Unmarshal(data)
}
