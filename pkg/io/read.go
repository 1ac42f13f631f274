package io

import (
	stdio "io"
	"os"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// MaxInputSize bounds an imported document.
const MaxInputSize = 32 << 20

// Stdin is the path that selects standard input.
const Stdin = "-"

// ReadAll reads r fully, rejecting inputs larger than MaxInputSize.
// ReadAll does not close r.
func ReadAll(r stdio.Reader) ([]byte, error) {
	data, err := stdio.ReadAll(stdio.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	if len(data) > MaxInputSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input exceeds %d bytes", MaxInputSize)
	}
	return data, nil
}

// ReadFile reads the document at path, or standard input for "-".
func ReadFile(path string) ([]byte, error) {
	if path == Stdin {
		return ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err == nil && info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is a directory", path)
	}
	return ReadAll(f)
}
