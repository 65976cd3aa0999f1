package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/sheetfilter/internal/core"
)

// columnsFile is the YAML layout of FILTER_COLUMNS_FILE:
//
//	columns:
//	  - role: full_name
//	    label: ФИО
//	  - role: hire_date
//	    label: Дата найма
//	    date: true
type columnsFile struct {
	Columns core.ColumnSet `yaml:"columns"`
}

// LoadColumns reads and validates a column set file.
func LoadColumns(path string) (core.ColumnSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read columns file: %w", err)
	}
	cols, err := ParseColumns(data)
	if err != nil {
		return nil, fmt.Errorf("columns file %s: %w", path, err)
	}
	return cols, nil
}

// ParseColumns decodes a column set document. Unknown keys are rejected.
func ParseColumns(data []byte) (core.ColumnSet, error) {
	var doc columnsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := doc.Columns.Validate(); err != nil {
		return nil, err
	}
	return doc.Columns, nil
}

// Columns returns the configured column set: the file when ColumnsFile is
// set, the built-in set otherwise.
func (c *FilterConfig) Columns() (core.ColumnSet, error) {
	if c.ColumnsFile == "" {
		return core.DefaultColumns(), nil
	}
	return LoadColumns(c.ColumnsFile)
}

// Normalizer builds the value normalizer for the accepted date formats.
func (c *FilterConfig) Normalizer() (*core.Normalizer, error) {
	return core.NewNormalizerFromPatterns(c.DateFormats)
}

// Language returns the journal language.
func (c *FilterConfig) Language() language.Tag {
	tag, err := core.ParseLocale(c.Locale)
	if err != nil {
		return core.DefaultLocale
	}
	return tag
}

// ServiceOptions collects the core.Service options of this section.
func (c *FilterConfig) ServiceOptions() (core.Options, error) {
	cols, err := c.Columns()
	if err != nil {
		return core.Options{}, err
	}
	norm, err := c.Normalizer()
	if err != nil {
		return core.Options{}, err
	}
	return core.Options{
		Columns:     cols,
		Normalizer:  norm,
		SearchLimit: c.HeaderSearchLimit,
	}, nil
}
