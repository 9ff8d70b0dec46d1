package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TextFields is a JSON object of named free-text fields (solution,
// implementation, evaluation and synthesis blobs).
type TextFields map[string]string

// Has reports whether the named field holds non-whitespace text
func (f TextFields) Has(name string) bool {
	return strings.TrimSpace(f[name]) != ""
}

// Filled counts the fields holding non-whitespace text
func (f TextFields) Filled() int {
	n := 0
	for _, v := range f {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func (f TextFields) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *TextFields) Scan(value interface{}) error {
	return scanJSON(value, f)
}

// PrototypeFile is an uploaded artifact attached to a prototype
type PrototypeFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type FileList []PrototypeFile

func (l FileList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *FileList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
