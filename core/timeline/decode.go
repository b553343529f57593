package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a metadata document.
type Format string

const (
	// FormatJSON is the dashboard's native encoding.
	FormatJSON Format = "json"
	// FormatYAML is accepted for hand-written fixtures.
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the document format from a file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a metadata document in the given format.
func Decode(r io.Reader, format Format) (*Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var md Metadata
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &md); err != nil {
			return nil, fmt.Errorf("failed to parse metadata yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&md); err != nil {
			return nil, fmt.Errorf("failed to parse metadata json: %w", err)
		}
	}

	return &md, nil
}

// DecodeFile reads a metadata document from disk.
func DecodeFile(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	return Decode(f, FormatFromPath(path))
}

// Encode writes the metadata document as JSON.
func Encode(w io.Writer, md *Metadata) error {
	if err := json.NewEncoder(w).Encode(md); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return nil
}
