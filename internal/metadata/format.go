package metadata

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is the wire form of a metadata document.
type Format int

const (
	FormatUnknown Format = iota
	// FormatXML covers both metainfo and catalog XML.
	FormatXML
	// FormatYAML is the DEP-11 catalog form.
	FormatYAML
)

// Style distinguishes the two XML document schemas.
type Style int

const (
	// StyleMetainfo is one component per document, upstream-authored.
	StyleMetainfo Style = iota
	// StyleCatalog is many components plus an origin header.
	StyleCatalog
)

var gzipMagic = []byte{0x1f, 0x8b}

// openReader wraps r with transparent gzip decompression. Compression is
// detected by content sniffing; the filename extension is only a fallback
// for readers too short to sniff. A claimed extension alone is never
// trusted when the magic bytes say otherwise.
func openReader(r io.Reader, path string) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	switch {
	case err == nil && bytes.Equal(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, newDocumentError(path, "cannot decompress gzip input", err)
		}
		return zr, nil
	case err != nil && err != io.EOF && !strings.HasSuffix(path, ".gz"):
		return nil, newDocumentError(path, "cannot read input", err)
	case err != nil && strings.HasSuffix(path, ".gz"):
		// Too short to sniff but claims gzip; let the gzip reader
		// produce the real error.
		zr, gerr := gzip.NewReader(br)
		if gerr != nil {
			return nil, newDocumentError(path, "cannot decompress gzip input", gerr)
		}
		return zr, nil
	}
	return io.NopCloser(br), nil
}

// DetectFormat guesses the document format from the file name, ignoring a
// trailing compression extension. Ambiguous names fall back to content
// sniffing by the parser itself.
func DetectFormat(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	switch filepath.Ext(name) {
	case ".xml":
		return FormatXML
	case ".yml", ".yaml":
		return FormatYAML
	}
	return FormatUnknown
}

// sniffFormat inspects decompressed content to decide between XML and
// YAML when the extension was ambiguous.
func sniffFormat(head []byte) Format {
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatXML
	}
	if len(trimmed) > 0 {
		return FormatYAML
	}
	return FormatUnknown
}

// ParseFile parses a metadata file of either format, decompressing as
// needed. Catalog and metainfo XML are distinguished by their root
// element; YAML is always catalog-style.
func ParseFile(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newDocumentError(path, "cannot open file", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse parses a metadata document from a reader. The path argument is
// used for format detection and error messages only.
func Parse(r io.Reader, path string) (*ParseResult, error) {
	rc, err := openReader(r, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, newDocumentError(path, "cannot read document", err)
	}

	format := DetectFormat(path)
	if format == FormatUnknown {
		format = sniffFormat(data)
	}

	switch format {
	case FormatXML:
		return parseXML(data, path)
	case FormatYAML:
		return parseYAML(data, path)
	}
	return nil, newDocumentError(path, "cannot determine document format", nil)
}
