// Package typesfile writes the per-field label dump of a scan: a copy of the
// input table where every cell is replaced by the label it was classified as.
package typesfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajitpratap0/csvtype/pkg/compression"
	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/source"
)

// Extension is appended to the input name to build the default path.
const Extension = ".ctypes"

// DefaultPath returns the types file path for an input. Local inputs get
// "<input>.ctypes"; objects in remote stores get "<object name>.ctypes" in
// the working directory, without a compression suffix since the labels are
// written uncompressed.
func DefaultPath(loc source.Location) string {
	if loc.IsLocal() {
		return loc.Key + Extension
	}
	return compression.TrimExtension(loc.Base()) + Extension
}

// Writer streams labels to a temporary file that replaces the destination
// on Close. Abort leaves any existing destination untouched.
type Writer struct {
	path      string
	delimiter string

	tmp      *os.File
	buf      *bufio.Writer
	enc      interface{ Close() error }
	out      *bufio.Writer
	rows     uint64
	conflict *errors.Error
	closed   bool
}

// Create prepares a writer for path. When path already exists the returned
// writer carries an ErrorTypeOutputWriteConflict warning (see Conflict); the
// file is overwritten on Close.
func Create(path, delimiter string) (*Writer, error) {
	w := &Writer{path: path, delimiter: delimiter}

	if fi, err := os.Stat(path); err == nil {
		if fi.IsDir() {
			return nil, errors.New(errors.ErrorTypeFile, "types file path is a directory").
				WithDetail("path", path)
		}
		w.conflict = errors.New(errors.ErrorTypeOutputWriteConflict, "types file already exists and will be overwritten").
			WithDetail("path", path)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create types file").
			WithDetail("path", path)
	}
	w.tmp = tmp
	w.buf = bufio.NewWriterSize(tmp, 64*1024)

	alg := compression.FromPath(path)
	enc, err := compression.NewWriter(alg, w.buf, compression.Default)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create types file encoder").
			WithDetail("path", path)
	}
	w.enc = enc
	w.out = bufio.NewWriterSize(enc, 64*1024)
	return w, nil
}

// Path returns the destination path.
func (w *Writer) Path() string {
	return w.path
}

// Conflict returns the overwrite warning, or nil.
func (w *Writer) Conflict() error {
	if w.conflict == nil {
		return nil
	}
	return w.conflict
}

// Rows returns the number of label rows written.
func (w *Writer) Rows() uint64 {
	return w.rows
}

// WriteHeader writes the column names line.
func (w *Writer) WriteHeader(columns []string) error {
	return w.writeLine(columns)
}

// WriteRow writes one line of labels.
func (w *Writer) WriteRow(labels []string) error {
	if err := w.writeLine(labels); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *Writer) writeLine(cells []string) error {
	if _, err := w.out.WriteString(strings.Join(cells, w.delimiter)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write types file")
	}
	if err := w.out.WriteByte('\n'); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write types file")
	}
	return nil
}

// Close flushes everything and moves the file into place.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	steps := []func() error{w.out.Flush, w.enc.Close, w.buf.Flush, w.tmp.Sync, w.chmod, w.tmp.Close}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = w.tmp.Close()
			_ = os.Remove(w.tmp.Name())
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish types file").
				WithDetail("path", w.path)
		}
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		_ = os.Remove(w.tmp.Name())
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to move types file into place").
			WithDetail("path", w.path)
	}
	return nil
}

// CreateTemp uses 0600
func (w *Writer) chmod() error {
	return w.tmp.Chmod(0o644) //nolint:gosec // labels are not sensitive
}

// Abort discards everything written so far.
func (w *Writer) Abort() {
	if w.closed {
		return
	}
	w.closed = true
	_ = w.tmp.Close()
	_ = os.Remove(w.tmp.Name())
}
