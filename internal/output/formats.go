package output

import (
	"bytes"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"croissant/internal/errors"
)

// Format is a report rendering format.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatHuman, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat resolves a format name. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "human":
		return FormatHuman, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.Newf(errors.InvalidInput, "unknown output format %q (want human, json, yaml or toml)", s)
}

// Marshal renders v in a machine-readable format. FormatHuman has no generic
// rendering and returns an error.
func Marshal(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return DeterministicEncodeIndented(v, "  ")
	case FormatYAML:
		return encodeYAML(v)
	case FormatTOML:
		return encodeTOML(v)
	}
	return nil, errors.Newf(errors.InternalError, "format %q cannot be marshaled", format)
}

// Write marshals v and writes it to w followed by a newline.
func Write(w io.Writer, v interface{}, format Format) error {
	data, err := Marshal(v, format)
	if err != nil {
		return err
	}
	data = bytes.TrimRight(data, "\n")
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(errors.InternalError, "writing output", err)
	}
	return nil
}

func encodeYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(normalizeValue(v)); err != nil {
		return nil, errors.Wrap(errors.InternalError, "encoding yaml", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.InternalError, "encoding yaml", err)
	}
	return buf.Bytes(), nil
}

func encodeTOML(v interface{}) ([]byte, error) {
	normalized := normalizeValue(v)
	table, ok := normalized.(map[string]interface{})
	if !ok {
		if normalized != nil {
			return nil, errors.Newf(errors.InternalError, "toml needs a table at the top level, got %T", normalized)
		}
		table = map[string]interface{}{}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(table); err != nil {
		return nil, errors.Wrap(errors.InternalError, "encoding toml", err)
	}
	return buf.Bytes(), nil
}
