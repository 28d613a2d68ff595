package metadata

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"Components-amd64.yml":    FormatYAML,
		"Components-amd64.yml.gz": FormatYAML,
		"appstream.xml":           FormatXML,
		"appstream.xml.gz":        FormatXML,
		"org.example.Foo.metainfo.xml": FormatXML,
		"README":                  FormatUnknown,
	}
	for path, want := range cases {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestParse_GzipBySniffing(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(sampleMetainfo)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	// Deliberately no .gz extension: compression must be detected by
	// content, not by the claimed name.
	res, err := Parse(bytes.NewReader(buf.Bytes()), "paint.metainfo.xml")
	if err != nil {
		t.Fatalf("gzip input not handled: %v", err)
	}
	if len(res.Components) != 1 || res.Components[0].ID != "org.example.Paint" {
		t.Errorf("unexpected parse result: %+v", res.Components)
	}
}

func TestParse_PlainInputWithGzExtension(t *testing.T) {
	// A lying .gz extension over plain content: sniffing wins and the
	// document still parses.
	res, err := Parse(strings.NewReader(sampleMetainfo), "paint.metainfo.xml.gz")
	if err != nil {
		t.Fatalf("extension must not be trusted over content: %v", err)
	}
	if len(res.Components) != 1 {
		t.Errorf("expected 1 component, got %d", len(res.Components))
	}
}

func TestParse_SniffsYAMLWithoutExtension(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleDEP11), "catalog-data")
	if err != nil {
		t.Fatalf("yaml content sniffing failed: %v", err)
	}
	if res.Origin != "tuxdistro-main" {
		t.Errorf("wrong origin: %q", res.Origin)
	}
}

func TestParse_CorruptGzipFails(t *testing.T) {
	data := append([]byte{0x1f, 0x8b}, []byte("definitely not a gzip stream")...)
	_, err := Parse(bytes.NewReader(data), "catalog.xml.gz")
	if err == nil {
		t.Fatal("expected error for corrupt gzip input")
	}
}
