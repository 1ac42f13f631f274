package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualizeme/pkg/config"
	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/httputil"
	vio "github.com/matzehuels/visualizeme/pkg/io"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/source"
)

// convertCommand creates the convert command, which moves a document
// between a TypeScript module and wrapped JSON without losing the module
// text around the literals.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert between a TypeScript module and wrapped JSON",
		Long: `Convert between a TypeScript module and wrapped JSON.

A .ts file becomes JSON wrapped with a "__meta" member that records the
module text around its exported literals. A wrapped JSON file becomes the
regenerated .ts module. Edit the JSON in any tool and convert it back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), cfg, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: next to the input, or the working directory for URLs)")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, cfg config.Config, input, output string) error {
	if input == vio.Stdin {
		return errors.New(errors.ErrCodeInvalidInput, "convert needs a file, not stdin")
	}
	runner := c.runnerWith(cfg, nil, nil)
	doc, err := runner.Load(ctx, input, pipeline.Options{})
	if err != nil {
		return err
	}

	target, err := conversionTarget(doc)
	if err != nil {
		return err
	}
	data, err := doc.Export(target, time.Now())
	if err != nil {
		return err
	}

	if output == "" {
		dir := filepath.Dir(input)
		if httputil.IsURL(input) {
			dir = "."
		}
		output = filepath.Join(dir, exportName(doc, target))
		if sameFile(output, input) {
			output = filepath.Join(dir, "converted."+filepath.Base(output))
		}
	}
	if err := vio.WriteFile(output, data); err != nil {
		return err
	}

	printSuccess("Converted %s to %s", displayName(input), target)
	printFile(output)
	if target == serialize.FormatWrapped {
		printNewline()
		printNextStep("Convert back", appName+" convert "+output)
	}
	return nil
}

// conversionTarget picks the opposite representation of doc: module text
// becomes wrapped JSON and wrapped JSON becomes module text.
func conversionTarget(doc *document.Document) (serialize.Format, error) {
	switch {
	case doc.Mode == source.ModeSourceLiteral:
		return serialize.FormatWrapped, nil
	case doc.HasMetadata():
		return serialize.FormatSource, nil
	}
	return "", errors.New(errors.ErrCodeNoMetadata,
		"%s is plain JSON; only .ts modules and wrapped JSON can be converted (use export for other formats)", doc.Name)
}
