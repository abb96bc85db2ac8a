package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultNAValues are the field values treated as missing on load.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// LoadOptions controls how a file is turned into a Dataset.
type LoadOptions struct {
	// NAValues lists field values read as null. Nil means DefaultNAValues.
	NAValues []string
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string
}

// Reader reads a tabular file into a header and raw rows.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt LoadOptions) (header []string, rows [][]string, err error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// Load selects a reader by file name, reads the file and normalizes NA tokens to nulls.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("file not found: %w", err)}
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Err: errors.New("is a directory")}
	}
	for _, r := range registry {
		if !r.CanRead(path) {
			continue
		}
		header, rows, err := r.Read(path, opt)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		if len(header) == 0 {
			return nil, &LoadError{Path: path, Err: errors.New("missing header row")}
		}
		na := naSet(opt.NAValues)
		for _, row := range rows {
			for j, v := range row {
				v = strings.TrimSpace(v)
				if na[v] {
					v = ""
				}
				row[j] = v
			}
		}
		ds, err := New(filepath.Base(path), header, rows)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		return ds, nil
	}
	return nil, &LoadError{Path: path, Err: ErrUnsupported}
}

func naSet(values []string) map[string]bool {
	if values == nil {
		values = DefaultNAValues
	}
	m := make(map[string]bool, len(values)+1)
	m[""] = true
	for _, v := range values {
		m[strings.TrimSpace(v)] = true
	}
	return m
}
