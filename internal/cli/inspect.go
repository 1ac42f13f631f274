package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualizeme/pkg/config"
	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/tree"
)

// inspectCommand creates the inspect command, which prints the shape of a
// document without rendering it.
func (c *CLI) inspectCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print tree statistics and the exported literals of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), cfg, args[0], pipeline.Options{Mode: mode})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "input mode: json or source-literal (default: from the extension)")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, cfg config.Config, input string, opts pipeline.Options) error {
	runner := c.runnerWith(cfg, nil, nil)
	doc, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}
	t := tree.Build(doc.Value, tree.DefaultRootLabel)
	fmt.Println(inspectReport(doc, t))
	return nil
}

// inspectReport formats the document summary printed by inspect.
func inspectReport(doc *document.Document, t *tree.Tree) string {
	st := t.Stats()
	var b strings.Builder

	b.WriteString(StyleTitle.Render(displayName(doc.Name)) + "\n")
	line := func(key, value string) {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", StyleDim.Render(key), StyleValue.Render(value)))
	}
	line("mode", string(doc.Mode))
	line("nodes", StyleNumber.Render(strconv.Itoa(st.Nodes)))
	line("containers", StyleNumber.Render(strconv.Itoa(st.Containers)))
	line("leaves", StyleNumber.Render(strconv.Itoa(st.Leaves)))
	line("depth", StyleNumber.Render(strconv.Itoa(st.Depth)))
	if doc.HasMetadata() {
		line("exports", strings.Join(doc.Metadata.Names(), ", "))
	}

	kinds := make([]string, 0, len(st.Kinds))
	for k := range st.Kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if st.Kinds[kinds[i]] != st.Kinds[kinds[j]] {
			return st.Kinds[kinds[i]] > st.Kinds[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	rows := make([][]string, len(kinds))
	for i, k := range kinds {
		rows[i] = []string{k, strconv.Itoa(st.Kinds[k])}
	}
	b.WriteString("\n")
	b.WriteString(renderTable([]string{"Type", "Nodes"}, rows))
	return b.String()
}
