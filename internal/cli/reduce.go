package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgraph/pkg/errors"
	"github.com/matzehuels/circuitgraph/pkg/io"
	"github.com/matzehuels/circuitgraph/pkg/pipeline"
)

// reduceOpts holds the command-line flags for the reduce command.
type reduceOpts struct {
	output  string // graph JSON output path; "-" writes to stdout
	nodes   bool   // also print the node table
	strict  bool   // fail when any link was excluded
	refresh bool   // bypass the reduction cache
	noCache bool   // disable caching entirely
}

// reduceCommand creates the reduce command.
func (c *CLI) reduceCommand() *cobra.Command {
	var opts reduceOpts

	cmd := &cobra.Command{
		Use:   "reduce [file]",
		Short: "Reduce a circuit description to its node/edge graph",
		Long: `Reduce a circuit description (.toml, .json or .hcl) to its electrical graph.

Every set of grid points joined by wires becomes one node; every device becomes
an edge between the nodes at its two terminals. Links that cannot be resolved
are excluded and listed.`,
		Example: `  circuitgraph reduce divider.toml
  circuitgraph reduce divider.toml -o divider.graph.json
  circuitgraph reduce divider.hcl --strict --nodes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReduce(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the graph JSON to this file (- for stdout)")
	cmd.Flags().BoolVar(&opts.nodes, "nodes", false, "also print the node table")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error if any link was excluded")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached reductions")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runReduce(cmd *cobra.Command, input string, opts reduceOpts) error {
	ctx := cmd.Context()
	runner, ch, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	res, cached, err := reduceFile(ctx, runner, input, opts.refresh)
	if err != nil {
		return err
	}

	switch opts.output {
	case "":
		printSuccess("Reduced %s", input)
		printStats(res.Stats.Stats, cached)
		printResult(res.Reduction, res.Table, opts.nodes)
		printNextStep("Render it", fmt.Sprintf("%s render %s", appName, input))
	case "-":
		if err := res.GraphFile().Encode(cmd.OutOrStdout()); err != nil {
			return err
		}
	default:
		if err := writeGraph(opts.output, res); err != nil {
			return err
		}
		loggerFromContext(ctx).Debug("wrote graph", "path", opts.output)
		printSuccess("Reduced %s", input)
		printStats(res.Stats.Stats, cached)
		printFile(opts.output)
	}

	if opts.strict && !res.Reduction.OK() {
		return errors.Wrap(errors.ErrCodeDegenerateLink, res.Reduction.Err(), "%d link(s) excluded", len(res.Reduction.Faults))
	}
	return nil
}

// reduceFile loads input and reduces it. Unnamed documents are named after
// the file.
func reduceFile(ctx context.Context, runner *pipeline.Runner, input string, refresh bool) (*pipeline.Result, bool, error) {
	doc, err := io.LoadDocument(input)
	if err != nil {
		return nil, false, err
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return runner.Reduce(ctx, doc, pipeline.Options{Refresh: refresh})
}

// writeGraph writes the graph JSON of res to path.
func writeGraph(path string, res *pipeline.Result) error {
	var buf bytes.Buffer
	if err := res.GraphFile().Encode(&buf); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
