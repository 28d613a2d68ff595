package models

// ReleaseKind marks a release as a stable or a development snapshot entry.
type ReleaseKind string

const (
	ReleaseKindStable      ReleaseKind = "stable"
	ReleaseKindDevelopment ReleaseKind = "development"
)

// Release is one released version of a component.
type Release struct {
	Version string `json:"version" validate:"required"`

	// Timestamp is the release date as unix seconds, zero if unknown.
	Timestamp int64 `json:"timestamp,omitempty"`

	Kind ReleaseKind `json:"kind,omitempty"`

	// URL points to upstream release notes, if any.
	URL string `json:"url,omitempty"`

	// Description is translated release-notes markup, same whitelisted
	// fragment form as the component description.
	Description LocalizedText `json:"description,omitempty"`
}

// Clone returns an independent copy.
func (r Release) Clone() Release {
	out := r
	out.Description = r.Description.Clone()
	return out
}
