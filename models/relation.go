package models

// Relation declares a system requirement, recommendation or supported
// capability of a component. Relations are consumed by compatibility
// checks; the pool never produces them beyond carrying them through.
type Relation struct {
	Kind     RelationKind     `json:"kind"`
	ItemKind RelationItemKind `json:"item_kind"`

	// Value is the related item itself: a component id, a modalias glob,
	// a firmware name, a memory amount in MiB and so on.
	Value string `json:"value" validate:"required"`

	// Compare and Version express an optional version constraint on the
	// related item.
	Compare RelationCompare `json:"compare,omitempty"`
	Version string          `json:"version,omitempty"`
}

// VersionSatisfiedBy reports whether the given version satisfies the
// relation's version constraint. A relation without a constraint is
// satisfied by any version.
func (r Relation) VersionSatisfiedBy(version string) bool {
	if r.Compare == CompareUnknown || r.Version == "" {
		return true
	}
	cmp := CompareVersions(version, r.Version)
	switch r.Compare {
	case CompareEq:
		return cmp == 0
	case CompareNe:
		return cmp != 0
	case CompareLt:
		return cmp < 0
	case CompareGt:
		return cmp > 0
	case CompareLe:
		return cmp <= 0
	case CompareGe:
		return cmp >= 0
	}
	return false
}
