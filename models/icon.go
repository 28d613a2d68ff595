package models

// Icon is a single icon reference of a component.
//
// Depending on Kind, Value holds a theme icon name (stock), a path relative
// to the icon cache (cached), an absolute filesystem path (local) or a URL
// (remote). Width and Height are zero when the size is unspecified.
type Icon struct {
	Kind   IconKind `json:"kind"`
	Value  string   `json:"value" validate:"required"`
	Width  int      `json:"width,omitempty"`
	Height int      `json:"height,omitempty"`
}

// iconUpgrades reports whether a newly seen icon should replace the current
// preferred icon. The rule is "more local wins, remote never overrides":
//
//   - local icons always win
//   - cached and stock icons win over nothing and over remote
//   - remote icons only fill an empty slot
func iconUpgrades(current *Icon, next Icon) bool {
	if current == nil {
		return true
	}
	switch next.Kind {
	case IconKindLocal:
		return true
	case IconKindCached, IconKindStock:
		return current.Kind == IconKindRemote
	case IconKindRemote:
		return false
	}
	return false
}
