package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualizeme/internal/explore"
	"github.com/matzehuels/visualizeme/pkg/config"
	"github.com/matzehuels/visualizeme/pkg/httputil"
	vio "github.com/matzehuels/visualizeme/pkg/io"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
)

// exploreCommand creates the explore command, which opens a document in
// the terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var output string
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse, search and edit a document in the terminal",
		Long: `Browse, search and edit a document in the terminal.

Keys:
  ↑/↓ j/k      move            space/enter  collapse or expand
  ←/→ h/l      fold, parent    /            search (n/N next, esc clears)
  e            edit the node   w            write the export
  s            write the SVG   q            quit

"w" writes the module text for TypeScript and wrapped JSON inputs and JSON
otherwise, to -o or <input>.edited.<ext>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == vio.Stdin {
				return fmt.Errorf("explore needs a file; the terminal is busy reading keys")
			}
			if httputil.IsURL(args[0]) && output == "" {
				return fmt.Errorf("exploring a URL needs -o for the w key")
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, &opts, cfg)
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.runExplore(cmd.Context(), cfg, args[0], opts, explore.Options{
				Output:   output,
				Debounce: cfg.SearchDebounce(),
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by the w key (default: <input>.edited.<ext>)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "input mode: json or source-literal (default: from the extension)")
	cmd.Flags().IntVar(&opts.CollapseDepth, "collapse-depth", 0, "start with containers at this depth collapsed")
	cmd.Flags().StringVar(&opts.Search, "search", "", "start with this search applied")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, cfg config.Config, input string, opts pipeline.Options, eopts explore.Options) error {
	runner := c.runnerWith(cfg, nil, nil)
	doc, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}
	d, _, err := pipeline.GenerateLayout(ctx, doc, opts)
	if err != nil {
		return err
	}

	// The explorer owns the terminal; keep log lines from tearing the screen.
	level := c.Logger.GetLevel()
	c.SetLogLevel(LogError)
	m, err := explore.Run(ctx, doc, d, eopts)
	c.SetLogLevel(level)
	if err != nil {
		return err
	}

	if m.Dirty() {
		printWarning("Edits were not written")
		printDetail("Press w before quitting to save them")
	} else if s := m.Status(); s != "" {
		printInfo("%s", s)
	}
	return nil
}
