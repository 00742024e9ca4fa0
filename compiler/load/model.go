// Package load reads entity models from model files or from Atlas schema
// objects.
package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/nestgen/schema"
)

// Format is the encoding of a model file.
type Format string

// Model file formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for model files that are neither JSON
// nor YAML.
var ErrUnsupportedFormat = errors.New("nestgen: unsupported model format")

// Model is the document stored in a model file. A file may also hold the
// bare entity list.
type Model struct {
	Entities []*schema.Entity `json:"entities" yaml:"entities"`
}

// FormatOf returns the format of path by extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// LoadFile reads the model stored at path.
func LoadFile(path string) ([]*schema.Entity, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entities, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", path, err)
	}
	return entities, nil
}

// Decode reads a model document. Unknown keys are rejected.
func Decode(r io.Reader, format Format) ([]*schema.Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch format {
	case JSON:
		return decodeJSON(data)
	case YAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func decodeJSON(data []byte) ([]*schema.Entity, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if trimmed[0] == '[' {
		var entities []*schema.Entity
		if err := dec.Decode(&entities); err != nil {
			return nil, err
		}
		return entities, nil
	}
	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m.Entities, nil
}

func decodeYAML(data []byte) ([]*schema.Entity, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if doc.Content[0].Kind == yaml.SequenceNode {
		var entities []*schema.Entity
		if err := dec.Decode(&entities); err != nil {
			return nil, err
		}
		return entities, nil
	}
	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m.Entities, nil
}

// Encode writes entities as a model document.
func Encode(w io.Writer, entities []*schema.Entity, format Format) error {
	m := Model{Entities: entities}
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
