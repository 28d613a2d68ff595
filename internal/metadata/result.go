package metadata

import (
	"fmt"

	"freedesktop.org/appstream/models"
)

// ParseResult is the outcome of parsing one metadata document. A document
// can succeed partially: malformed components inside an otherwise valid
// catalog are skipped and recorded as warnings, and the valid remainder is
// returned. Callers treat a result with warnings as "succeeded with
// omissions".
type ParseResult struct {
	// Components holds the successfully parsed, valid components in
	// document order.
	Components []*models.Component

	// Origin is the catalog origin name from the document header, empty
	// for metainfo documents.
	Origin string

	// Architecture is the catalog architecture tag, if the header
	// carried one.
	Architecture string

	// Warnings describes components that were dropped or fields that
	// could not be understood. Non-empty warnings with non-empty
	// Components means partial success.
	Warnings []string
}

// warnf records a skip-and-continue condition.
func (r *ParseResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// addComponent validates and appends a parsed component. Invalid
// components are dropped with a warning, never a hard failure.
func (r *ParseResult) addComponent(c *models.Component) {
	if !c.IsValid() {
		r.warnf("dropping invalid component %s: missing id or kind", c.String())
		return
	}
	r.Components = append(r.Components, c)
}
