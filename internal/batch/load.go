// Package batch evaluates request files through a handler chain and
// summarizes the outcome in a report.
package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"croissant/internal/chain"
	"croissant/internal/errors"
)

// Entry is one structured request in a JSON, YAML or TOML file. Expr, when
// set, takes precedence over A, B and Op.
type Entry struct {
	A    int    `json:"a" yaml:"a" toml:"a"`
	B    int    `json:"b" yaml:"b" toml:"b"`
	Op   string `json:"op" yaml:"op" toml:"op"`
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty" toml:"expr,omitempty"`
}

// File is the structured request file layout.
type File struct {
	Requests []Entry `json:"requests" yaml:"requests" toml:"requests"`
}

// Item is a request read from a file. Items that failed to parse carry Err
// and a zero Request.
type Item struct {
	// Line is the 1-based line number for text files and the entry
	// position for structured files.
	Line    int
	Expr    string
	Request chain.Request
	Err     error
}

// Kind identifies a request file layout.
type Kind string

const (
	KindJSON Kind = "json"
	KindYAML Kind = "yaml"
	KindTOML Kind = "toml"
	KindText Kind = "text"
)

// Compression identifies a compressed file wrapper.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// DetectKind derives the layout and compression from a file name, e.g.
// "requests.yaml.gz" is gzip-compressed YAML.
func DetectKind(name string) (Kind, Compression) {
	lower := strings.ToLower(name)

	compression := CompressionNone
	switch {
	case strings.HasSuffix(lower, ".gz"):
		compression = CompressionGzip
		lower = strings.TrimSuffix(lower, ".gz")
	case strings.HasSuffix(lower, ".zst"):
		compression = CompressionZstd
		lower = strings.TrimSuffix(lower, ".zst")
	}

	switch filepath.Ext(lower) {
	case ".json":
		return KindJSON, compression
	case ".yaml", ".yml":
		return KindYAML, compression
	case ".toml":
		return KindTOML, compression
	}
	return KindText, compression
}

// LoadFile reads every request in the file at path.
func LoadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput, fmt.Sprintf("opening %s", path), err)
	}
	defer f.Close()

	return Load(f, filepath.Base(path))
}

// Load reads requests from r. name selects the layout, see DetectKind.
func Load(r io.Reader, name string) ([]Item, error) {
	kind, compression := DetectKind(name)

	switch compression {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(errors.InvalidInput, "opening gzip stream", err)
		}
		defer zr.Close()
		r = zr
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(errors.InvalidInput, "opening zstd stream", err)
		}
		defer zr.Close()
		r = zr
	}

	switch kind {
	case KindJSON:
		return loadJSON(r)
	case KindYAML:
		return loadYAML(r)
	case KindTOML:
		return loadTOML(r)
	}
	return loadText(r)
}

func loadJSON(r io.Reader) ([]Item, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.InvalidInput, "decoding json request file", err)
	}
	return entries(file.Requests), nil
}

func loadYAML(r io.Reader) ([]Item, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.InvalidInput, "decoding yaml request file", err)
	}
	return entries(file.Requests), nil
}

func loadTOML(r io.Reader) ([]Item, error) {
	var file File
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput, "decoding toml request file", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Newf(errors.InvalidInput, "unknown key %q in toml request file", undecoded[0].String())
	}
	return entries(file.Requests), nil
}

func entries(in []Entry) []Item {
	items := make([]Item, 0, len(in))
	for i, e := range in {
		item := Item{Line: i + 1}
		if e.Expr != "" {
			item.Expr = strings.TrimSpace(e.Expr)
			item.Request, item.Err = chain.ParseRequest(e.Expr)
		} else {
			op := strings.TrimSpace(e.Op)
			item.Expr = fmt.Sprintf("%d %s %d", e.A, op, e.B)
			item.Request, item.Err = chain.NewRequest(e.A, e.B, chain.Operator(op))
		}
		items = append(items, item)
	}
	return items
}

func loadText(r io.Reader) ([]Item, error) {
	var items []Item

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		req, err := chain.ParseRequest(text)
		items = append(items, Item{Line: line, Expr: text, Request: req, Err: err})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.InvalidInput, "reading request file", err)
	}

	return items, nil
}
