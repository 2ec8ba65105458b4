package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	. "github.com/onsi/gomega"

	"croissant/internal/chain"
	"croissant/internal/errors"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		compression Compression
	}{
		{"requests.json", KindJSON, CompressionNone},
		{"requests.YAML", KindYAML, CompressionNone},
		{"requests.yml", KindYAML, CompressionNone},
		{"requests.toml", KindTOML, CompressionNone},
		{"requests.txt", KindText, CompressionNone},
		{"requests", KindText, CompressionNone},
		{"requests.json.gz", KindJSON, CompressionGzip},
		{"requests.toml.zst", KindTOML, CompressionZstd},
		{"requests.gz", KindText, CompressionGzip},
	}

	for _, tt := range tests {
		kind, compression := DetectKind(tt.name)
		if kind != tt.kind || compression != tt.compression {
			t.Errorf("DetectKind(%q) = (%q, %q), want (%q, %q)", tt.name, kind, compression, tt.kind, tt.compression)
		}
	}
}

const (
	jsonRequests = `{"requests": [{"a": 5, "b": 3, "op": "-"}, {"expr": "6 * 7"}, {"a": 1, "b": 2, "op": "%"}]}`
	yamlRequests = `requests:
  - {a: 5, b: 3, op: "-"}
  - expr: "6 * 7"
  - {a: 1, b: 2, op: "%"}
`
	tomlRequests = `[[requests]]
a = 5
b = 3
op = "-"

[[requests]]
expr = "6 * 7"

[[requests]]
a = 1
b = 2
op = "%"
`
	textRequests = `# subtraction first
5 - 3

6*7
1 % 2
`
)

func expectSampleItems(g *WithT, items []Item) {
	g.Expect(items).To(HaveLen(3))

	g.Expect(items[0].Err).NotTo(HaveOccurred())
	g.Expect(items[0].Request.A()).To(Equal(5))
	g.Expect(items[0].Request.B()).To(Equal(3))
	g.Expect(items[0].Request.Operator()).To(Equal(chain.Subtract))

	g.Expect(items[1].Err).NotTo(HaveOccurred())
	g.Expect(items[1].Request.Operator()).To(Equal(chain.Multiply))

	g.Expect(errors.HasCode(items[2].Err, errors.InvalidOperator)).To(BeTrue())
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"requests.json", jsonRequests},
		{"requests.yaml", yamlRequests},
		{"requests.toml", tomlRequests},
		{"requests.txt", textRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			items, err := Load(strings.NewReader(tt.content), tt.name)

			g.Expect(err).NotTo(HaveOccurred())
			expectSampleItems(g, items)
		})
	}
}

func TestLoad_PaddedOperator(t *testing.T) {
	g := NewWithT(t)

	items, err := Load(strings.NewReader(`{"requests": [{"a": 5, "b": 3, "op": " - "}]}`), "requests.json")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(items).To(HaveLen(1))
	g.Expect(items[0].Err).NotTo(HaveOccurred())
	g.Expect(items[0].Expr).To(Equal("5 - 3"))
	g.Expect(items[0].Request.Operator()).To(Equal(chain.Subtract))
}

func TestLoad_TextLineNumbers(t *testing.T) {
	g := NewWithT(t)

	items, err := Load(strings.NewReader(textRequests), "requests.txt")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect([]int{items[0].Line, items[1].Line, items[2].Line}).To(Equal([]int{2, 4, 5}))
	g.Expect(items[1].Expr).To(Equal("6*7"))
}

func TestLoad_Compressed(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write([]byte(jsonRequests))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	var zs bytes.Buffer
	enc, err := zstd.NewWriter(&zs)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = enc.Write([]byte(yamlRequests))
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"requests.json.gz", gz.Bytes()},
		{"requests.yaml.zst", zs.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			path := filepath.Join(t.TempDir(), tt.name)
			g.Expect(os.WriteFile(path, tt.data, 0644)).To(Succeed())

			items, err := LoadFile(path)
			g.Expect(err).NotTo(HaveOccurred())
			expectSampleItems(g, items)
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad.json", `{"requests": [`},
		{"unknown.json", `{"requests": [], "extra": 1}`},
		{"bad.yaml", "requests: [\n"},
		{"unknown.yaml", "requests: []\nextra: 1\n"},
		{"bad.toml", `[[requests]`},
		{"unknown.toml", "extra = 1\n"},
		{"bad.json.gz", "not gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.content), tt.name)
			if !errors.HasCode(err, errors.InvalidInput) {
				t.Errorf("Load(%s) error = %v, want INVALID_INPUT", tt.name, err)
			}
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	for _, name := range []string{"empty.json", "empty.yaml", "empty.toml", "empty.txt"} {
		items, err := Load(strings.NewReader(""), name)
		if err != nil {
			t.Errorf("Load(%s) error = %v", name, err)
		}
		if len(items) != 0 {
			t.Errorf("Load(%s) = %d items, want 0", name, len(items))
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.HasCode(err, errors.InvalidInput) {
		t.Errorf("LoadFile(missing) error = %v, want INVALID_INPUT", err)
	}
}
