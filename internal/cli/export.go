package cli

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualizeme/pkg/config"
	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/errors"
	vio "github.com/matzehuels/visualizeme/pkg/io"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/value"
	"github.com/matzehuels/visualizeme/pkg/view"
)

// exportCommand creates the export command: serialize the imported value.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		to     string
		output string
		mode   string
		sets   []string
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Serialize a document as JSON, TypeScript, YAML or wrapped JSON",
		Long: `Serialize a document as JSON, TypeScript, YAML or wrapped JSON.

The ts format regenerates the module the value was imported from and needs
the conversion metadata of a TypeScript import or a wrapped JSON file.

--set applies edits before exporting. Each edit is a path key followed by
"=" and the new value as JSON (or plain text for a string):

  visualizeme export site.ts --to ts --set '["site","title"]="Home"'

Without -o the export is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := serialize.ParseFormat(to)
			if err != nil {
				return err
			}
			edits, err := parseEdits(sets)
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), cfg, args[0], f, pipeline.Options{Mode: mode}, edits, output)
		},
	}

	cmd.Flags().StringVar(&to, "to", string(serialize.FormatJSON), "export format: json, ts, yaml, wrapped")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&mode, "mode", "", "input mode: json or source-literal (default: from the extension)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, `edit to apply first, as '<path key>=<value>' (repeatable)`)

	return cmd
}

// edit replaces the value at a path key.
type edit struct {
	key  string
	text string
}

// parseEdits splits '<path key>=<value>' arguments. Path keys are JSON
// arrays, so the key ends where the array does, even when a string
// segment contains "]=".
func parseEdits(args []string) ([]edit, error) {
	edits := make([]edit, 0, len(args))
	for _, arg := range args {
		bad := errors.New(errors.ErrCodeInvalidInput, "invalid --set %q (want '[\"path\",0]=value')", arg)
		if !strings.HasPrefix(arg, "[") {
			return nil, bad
		}
		dec := json.NewDecoder(strings.NewReader(arg))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, bad
		}
		end := int(dec.InputOffset())
		if end >= len(arg) || arg[end] != '=' {
			return nil, bad
		}
		path, err := value.ParseKey(arg[:end])
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit{key: path.Key(), text: arg[end+1:]})
	}
	return edits, nil
}

func (c *CLI) runExport(ctx context.Context, cfg config.Config, input string, f serialize.Format, opts pipeline.Options, edits []edit, output string) error {
	runner := c.runnerWith(cfg, nil, nil)
	doc, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}
	if err := applyEdits(ctx, doc, edits); err != nil {
		return err
	}

	data, err := doc.Export(f, time.Now())
	if err != nil {
		return err
	}
	if output == "" || output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := vio.WriteFile(output, data); err != nil {
		return err
	}
	printSuccess("Exported %s as %s", displayName(input), f)
	printFile(output)
	return nil
}

// applyEdits commits each edit through a diagram, the same path the
// interactive front ends take, and stores the result in doc.
func applyEdits(ctx context.Context, doc *document.Document, edits []edit) error {
	if len(edits) == 0 {
		return nil
	}
	opts := pipeline.Options{}
	opts.SetDefaults()
	d, _, err := pipeline.GenerateLayout(ctx, doc, opts)
	if err != nil {
		return err
	}
	for _, e := range edits {
		out := d.Dispatch(ctx, view.CommitEvent{Path: e.key, Text: e.text})
		if !out.OK {
			return errors.New(out.Code, "%s: %s", e.key, out.Status)
		}
		loggerFromContext(ctx).Debug("applied edit", "path", e.key)
	}
	doc.SetValue(d.Value())
	return nil
}

// exportName is the default output name for converting input to f.
func exportName(doc *document.Document, f serialize.Format) string {
	name := doc.Filename(f)
	switch f {
	case serialize.FormatWrapped:
		name = strings.TrimSuffix(name, ".json") + ".wrapped.json"
	case serialize.FormatSource:
		name = strings.TrimSuffix(strings.TrimSuffix(name, ".ts"), ".wrapped") + ".ts"
	}
	return name
}
