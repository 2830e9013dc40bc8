package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"k8s.io/klog/v2"
)

// Decoder reads records one line at a time.
type Decoder struct {
	r    *bufio.Reader
	line int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next record, or io.EOF once the stream is exhausted.
// Blank lines are skipped. A line that does not hold a valid record yields an
// error wrapping ErrMalformedRecord, unless it is an unterminated final line,
// which is what an interrupted writer leaves behind; that line is dropped.
func (d *Decoder) Next() (*Record, error) {
	for {
		s, err := d.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if s == "" {
			return nil, io.EOF
		}
		d.line++
		terminated := strings.HasSuffix(s, "\n")
		text := strings.TrimSpace(s)
		if text == "" {
			continue
		}
		rec, parseErr := parseRecord(text)
		if parseErr == nil {
			return rec, nil
		}
		if !terminated {
			klog.Warningf("Ignoring incomplete final line %d: %v", d.line, parseErr)
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w at line %d: %v", ErrMalformedRecord, d.line, parseErr)
	}
}

// LoadFile reads every record of one file into a new ResultSet.
func LoadFile(path string) (*ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set := NewResultSet()
	d := NewDecoder(f)
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			return set, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		set.Add(rec)
	}
}

// Load merges the records found in paths, in order. Directories contribute
// their *.json and *.jsonl files in lexical order. A file that cannot be
// loaded contributes nothing; its error is joined into the returned error
// while the remaining files are still merged.
func Load(paths ...string) (*ResultSet, error) {
	files, err := expand(paths)
	set := NewResultSet()
	errs := []error{err}
	for _, file := range files {
		s, err := LoadFile(file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		klog.V(1).Infof("Loaded %d records from %s", s.Len(), file)
		set.Merge(s)
	}
	return set, errors.Join(errs...)
}

func expand(paths []string) ([]string, error) {
	var files []string
	var errs []error
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		var found []string
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.Type().IsRegular() && (ext == ".json" || ext == ".jsonl") {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, errors.Join(errs...)
}
