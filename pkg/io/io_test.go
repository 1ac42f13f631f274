package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("ReadFile = %q", data)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}

	_, err = ReadFile(dir)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("directory: got %v, want INVALID_INPUT", err)
	}
}

func TestReadAllLimit(t *testing.T) {
	big := strings.NewReader(strings.Repeat("x", MaxInputSize+1))
	if _, err := ReadAll(big); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("oversized input: got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ts")

	if err := WriteFile(path, []byte("export const a = 1;\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "export const a = 1;\n" {
		t.Errorf("content = %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestWriteFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "out.json")

	if err := WriteFile(path, []byte("{}")); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created on failure")
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, "", []byte("hi")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hi" {
		t.Errorf("WriteTo = %q", buf.String())
	}
}
