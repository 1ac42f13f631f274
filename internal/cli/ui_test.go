package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestStatusLines(t *testing.T) {
	buf := captureStdout(t)

	printSuccess("Rendered %s", "site.json")
	printFile("out/site.svg")
	printWarning("Edits were not written")
	printNextStep("Explore in the terminal", "visualizeme explore site.json")

	out := buf.String()
	for _, want := range []string{
		"Rendered site.json",
		"out/site.svg",
		"Edits were not written",
		"visualizeme explore site.json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 4 {
		t.Errorf("got %d lines, want 4", n)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Type", "Nodes"}, [][]string{{"number", "2"}, {"object", "1"}})
	for _, want := range []string{"Type", "Nodes", "number", "object"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
