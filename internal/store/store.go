// Package store reads and writes entity documents.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/erdscan/internal/models"
)

// ErrUnsupportedFormat indicates a file extension with no known encoding.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format is an entities document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the document format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads an entities document. A missing columns attribute stays nil.
func Load(path string) ([]models.Entity, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	entities, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entities, nil
}

// Decode parses an entities document.
func Decode(data []byte, format Format) ([]models.Entity, error) {
	var entities []models.Entity
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &entities); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &entities); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if entities == nil {
		entities = []models.Entity{}
	}
	return entities, nil
}

// Encode serializes entities. JSON is indented with four spaces.
func Encode(entities []models.Entity, format Format) ([]byte, error) {
	if entities == nil {
		entities = []models.Entity{}
	}
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(entities); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(entities); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Save writes entities to path, replacing it atomically.
func Save(path string, entities []models.Entity) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := Encode(entities, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
