// Package metadata implements the AppStream format codec: parsing and
// serializing software components in the metainfo form (one component per
// XML document) and the catalog form (many components per document, as XML
// or as DEP-11 YAML), including transparent decompression and the
// origin/header metadata of catalog documents.
package metadata

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument marks whole-document parse failures: wrong root
// element, unparseable markup, undecompressable input. A DocumentError
// wraps it together with the offending path.
var ErrMalformedDocument = errors.New("malformed metadata document")

// DocumentError is a whole-file parse failure. Ingestion of the file is
// skipped; other files continue to be processed.
type DocumentError struct {
	// Path is the source file, or a short label for in-memory input.
	Path string
	// Reason describes what was wrong with the document.
	Reason string
	// Err is the underlying decoder error, if any.
	Err error
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *DocumentError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedDocument
}

// Is lets errors.Is(err, ErrMalformedDocument) match any document error.
func (e *DocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

func newDocumentError(path, reason string, err error) *DocumentError {
	return &DocumentError{Path: path, Reason: reason, Err: err}
}
