package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Writer appends records to a stream, one JSON object per line. When the
// underlying writer can be synced, every record is synced before Write
// returns so that an interrupted run leaves only complete lines behind.
type Writer struct {
	w    io.Writer
	path string
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Create opens path for writing, creating parent directories as needed. The
// file is truncated unless appendMode is set.
func Create(path string, appendMode bool) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create directory for '%s': %w", path, err)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open result file: %w", err)
	}
	return &Writer{w: f, path: path}, nil
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Write(rec *Record) error {
	out := *rec
	if out.Timings == nil {
		out.Timings = []float64{}
	}
	data, err := json.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to encode record for '%s': %w", rec.Experiment, err)
	}
	data = append(data, '\n')
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("failed to write record for '%s': %w", rec.Experiment, err)
	}
	if s, ok := w.w.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			return fmt.Errorf("failed to flush record for '%s': %w", rec.Experiment, err)
		}
	}
	return nil
}

func (w *Writer) Close() error {
	if c, ok := w.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ResolvePath returns output itself when it names a file, or output joined
// with name when it is an existing directory or ends with a separator.
func ResolvePath(output, name string) string {
	if strings.HasSuffix(output, string(filepath.Separator)) || strings.HasSuffix(output, "/") {
		return filepath.Join(output, name)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}
