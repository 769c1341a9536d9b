package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgraph/pkg/errors"
	"github.com/matzehuels/circuitgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file (single format) or base path (several); "-" writes to stdout
	formats  string // comma-separated output formats
	detailed bool   // add grid points and device attributes to labels
	refresh  bool   // bypass the cache
	noCache  bool   // disable caching entirely
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the reduced graph of a circuit description",
		Long: `Reduce a circuit description and render its graph as a node-link diagram.

Formats: dot, svg (default), png, pdf (needs rsvg-convert) and json.`,
		Example: `  circuitgraph render divider.toml
  circuitgraph render divider.toml -f svg,png -o out/divider
  circuitgraph render divider.toml -f dot -o - | dot -Tpdf > divider.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.settings().Render.Detailed
			}
			formats := parseFormats(opts.formats, c.settings().Render.Format)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "--format")
			}
			return c.runRender(cmd, args[0], formats, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one format) or base path (several); - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): dot, svg, png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show grid points and device attributes")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, formats []string, opts renderOpts) error {
	ctx := cmd.Context()
	if opts.output == "-" && len(formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--output - needs exactly one format, got %d", len(formats))
	}

	prog := newProgress(loggerFromContext(ctx))
	runner, ch, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	res, _, err := reduceFile(ctx, runner, input, opts.refresh)
	if err != nil {
		return err
	}

	var spinOut io.Writer = os.Stderr
	if opts.output == "-" {
		spinOut = nil
	}
	spin := newSpinner(ctx, spinOut, fmt.Sprintf("Rendering %s...", strings.Join(formats, ", ")))
	spin.Start()
	artifacts, err := runner.RenderAll(ctx, res, formats, pipeline.RenderOptions{
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
	})
	if err != nil {
		spin.Fail(fmt.Sprintf("Render of %s failed", input))
		return err
	}
	spin.Stop()

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(artifacts[formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, formats)
	for _, f := range formats {
		if err := writeFile(paths[f], artifacts[f]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %s", input))
	printSuccess("Rendered %s", input)
	printStats(res.Stats.Stats, false)
	for _, f := range formats {
		printFile(paths[f])
	}
	return nil
}

// outputPaths derives one path per format. A single format with an explicit
// output uses it as is; otherwise paths are base + "." + format, where base
// is the output with any format extension stripped, or the input without
// its extension. A path that would overwrite the input gets a ".graph"
// infix.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		p := base + "." + f
		if filepath.Clean(p) == filepath.Clean(input) {
			p = base + ".graph." + f
		}
		paths[f] = p
	}
	return paths
}

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
