package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualizeme/pkg/config"
	"github.com/matzehuels/visualizeme/pkg/httputil"
	vio "github.com/matzehuels/visualizeme/pkg/io"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
)

// renderCommand creates the render command: import, lay out and render.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a JSON or TypeScript literal file as a tree diagram",
		Long: `Render a JSON or TypeScript literal file as a tree diagram.

The input is parsed as JSON, or as a TypeScript module when it ends in .ts
(override with --mode). The default output is a self-contained interactive
SVG next to the input. Use "-" to read standard input.

Diagram formats: svg, png, pdf, dot, layout. Value formats: json, ts,
yaml, wrapped. PNG and PDF need rsvg-convert on PATH.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, &opts, cfg)
			opts.Formats = parseFormats(formatsStr)
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (single format), base path (multiple), or "-" for stdout`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, layout, json, ts, yaml, wrapped (comma-separated)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "input mode: json or source-literal (default: from the extension)")

	// Layout flags
	cmd.Flags().StringVar(&opts.RootLabel, "root-label", "", "label of the root node")
	cmd.Flags().IntVar(&opts.CollapseDepth, "collapse-depth", 0, "collapse containers at this depth and below (0 expands all)")
	cmd.Flags().StringSliceVar(&opts.Collapsed, "collapse", nil, `path keys to collapse, e.g. '["items",0]'`)
	cmd.Flags().StringVar(&opts.Search, "search", "", "highlight nodes matching this term")

	// Render flags
	cmd.Flags().StringVar(&opts.Engine, "engine", pipeline.DefaultEngine, "diagram engine: native (default), graphviz")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color theme: light (default), dark")
	cmd.Flags().BoolVar(&opts.Static, "static", false, "omit the embedded interaction script")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show value summaries in dot and graphviz output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

// runRender loads the document, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, cfg config.Config, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	doc, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}
	prog.done("Imported " + displayName(input))

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	printSuccess("Rendered %s", displayName(input))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.VisibleCount, result.Matches, opts.Search, result.CacheInfo.RenderHit)
	if len(opts.Formats) == 1 && opts.Formats[0] == pipeline.FormatSVG {
		printNewline()
		printNextStep("Explore in the terminal", appName+" explore "+input)
	}
	return nil
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each artifact in format order and returns the
// paths written. A single artifact goes to stdout when output is "-", or
// when reading from stdin without an output path.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if len(p.formats) == 1 && toStdout(p.input, p.output) {
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return nil, err
	}
	if p.output == "-" {
		return nil, fmt.Errorf("cannot write %d formats to stdout", len(p.formats))
	}

	var paths []string
	for _, format := range p.formats {
		path := p.output
		if len(p.formats) > 1 || path == "" {
			base := basePath(p.output, p.input)
			path = base + artifactExtension(format)
			if sameFile(path, p.input) {
				path = base + ".export" + artifactExtension(format)
			}
		}
		if err := vio.WriteFile(path, p.artifacts[format]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func toStdout(input, output string) bool {
	return output == "-" || (output == "" && input == vio.Stdin)
}

// basePath derives the base output path. Without an output it strips the
// input's extension, writing URL inputs to the working directory; a known
// format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		if httputil.IsURL(input) {
			input = httputil.BaseName(input)
		}
		if input == vio.Stdin || input == "" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	exts := make([]string, 0, len(pipeline.ValidFormats))
	for _, f := range pipeline.FormatNames() {
		exts = append(exts, artifactExtension(f))
	}
	// ".layout.json" must be tried before ".json".
	sort.Slice(exts, func(i, j int) bool { return len(exts[i]) > len(exts[j]) })
	for _, ext := range exts {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// artifactExtension is the file extension for format. Wrapped JSON gets
// its own suffix so it never collides with the plain JSON export.
func artifactExtension(format string) string {
	if format == pipeline.FormatWrapped {
		return ".wrapped.json"
	}
	return pipeline.Extension(format)
}

func sameFile(a, b string) bool {
	return b != vio.Stdin && filepath.Clean(a) == filepath.Clean(b)
}

func displayName(input string) string {
	if input == vio.Stdin {
		return "stdin"
	}
	if httputil.IsURL(input) {
		return input
	}
	return filepath.Base(input)
}
