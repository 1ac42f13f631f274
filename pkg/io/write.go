package io

import (
	stdio "io"
	"os"
	"path/filepath"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// WriteFile writes data to path atomically. On any failure the destination
// is left untouched and the temporary file is removed.
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err = tmp.Chmod(0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// WriteTo writes data to w, or to path when w is nil.
func WriteTo(w stdio.Writer, path string, data []byte) error {
	if w == nil {
		return WriteFile(path, data)
	}
	_, err := w.Write(data)
	return err
}
