package models

// ComponentKind describes what kind of software a component represents.
type ComponentKind string

const (
	ComponentKindUnknown     ComponentKind = "unknown"
	ComponentKindGeneric     ComponentKind = "generic"
	ComponentKindDesktopApp  ComponentKind = "desktop-application"
	ComponentKindConsoleApp  ComponentKind = "console-application"
	ComponentKindAddon       ComponentKind = "addon"
	ComponentKindFont        ComponentKind = "font"
	ComponentKindCodec       ComponentKind = "codec"
	ComponentKindDriver      ComponentKind = "driver"
	ComponentKindFirmware    ComponentKind = "firmware"
	ComponentKindInputMethod ComponentKind = "inputmethod"
	ComponentKindMerge       ComponentKind = "merge"
)

// componentKindAliases maps legacy spellings still found in older
// metadata to their current kind.
var componentKindAliases = map[string]ComponentKind{
	"desktop":     ComponentKindDesktopApp,
	"desktop-app": ComponentKindDesktopApp,
	"console":     ComponentKindConsoleApp,
}

// ComponentKindFromString parses a kind string as it appears in metadata.
// Unknown values map to ComponentKindUnknown, never an error: documents
// with newer kinds than this library knows must still parse.
func ComponentKindFromString(s string) ComponentKind {
	switch ComponentKind(s) {
	case ComponentKindGeneric, ComponentKindDesktopApp, ComponentKindConsoleApp,
		ComponentKindAddon, ComponentKindFont, ComponentKindCodec,
		ComponentKindDriver, ComponentKindFirmware, ComponentKindInputMethod,
		ComponentKindMerge:
		return ComponentKind(s)
	}
	if k, ok := componentKindAliases[s]; ok {
		return k
	}
	return ComponentKindUnknown
}

// String returns the metadata spelling of the kind.
func (k ComponentKind) String() string {
	if k == "" {
		return string(ComponentKindUnknown)
	}
	return string(k)
}

// IconKind describes how an icon is referenced.
type IconKind string

const (
	IconKindUnknown IconKind = "unknown"
	// IconKindStock is a named icon from the system icon theme.
	IconKindStock IconKind = "stock"
	// IconKindCached is a path relative to the distribution icon cache.
	IconKindCached IconKind = "cached"
	// IconKindLocal is an absolute path on the local filesystem.
	IconKindLocal IconKind = "local"
	// IconKindRemote is a URL.
	IconKindRemote IconKind = "remote"
)

// IconKindFromString parses an icon kind string.
func IconKindFromString(s string) IconKind {
	switch IconKind(s) {
	case IconKindStock, IconKindCached, IconKindLocal, IconKindRemote:
		return IconKind(s)
	}
	return IconKindUnknown
}

// BundleKind identifies the bundling system a component ships in.
type BundleKind string

const (
	BundleKindUnknown  BundleKind = "unknown"
	BundleKindFlatpak  BundleKind = "flatpak"
	BundleKindSnap     BundleKind = "snap"
	BundleKindAppImage BundleKind = "appimage"
	BundleKindTarball  BundleKind = "tarball"
)

// BundleKindFromString parses a bundle kind string.
func BundleKindFromString(s string) BundleKind {
	switch BundleKind(s) {
	case BundleKindFlatpak, BundleKindSnap, BundleKindAppImage, BundleKindTarball:
		return BundleKind(s)
	}
	return BundleKindUnknown
}

// ProvidedKind is the type of a public interface a component provides.
type ProvidedKind string

const (
	ProvidedKindUnknown   ProvidedKind = "unknown"
	ProvidedKindLibrary   ProvidedKind = "lib"
	ProvidedKindBinary    ProvidedKind = "bin"
	ProvidedKindMimetype  ProvidedKind = "mediatype"
	ProvidedKindFont      ProvidedKind = "font"
	ProvidedKindModalias  ProvidedKind = "modalias"
	ProvidedKindFirmware  ProvidedKind = "firmware"
	ProvidedKindPython    ProvidedKind = "python3"
	ProvidedKindDBusUser  ProvidedKind = "dbus-user"
	ProvidedKindDBusSystem ProvidedKind = "dbus-system"
	ProvidedKindID        ProvidedKind = "id"
)

// providedKindAliases covers element spellings from older metainfo
// revisions that differ from the catalog spelling.
var providedKindAliases = map[string]ProvidedKind{
	"binary":   ProvidedKindBinary,
	"library":  ProvidedKindLibrary,
	"mimetype": ProvidedKindMimetype,
	"python":   ProvidedKindPython,
	"dbus":     ProvidedKindDBusSystem,
}

// ProvidedKindFromString parses a provided-item kind string.
func ProvidedKindFromString(s string) ProvidedKind {
	switch ProvidedKind(s) {
	case ProvidedKindLibrary, ProvidedKindBinary, ProvidedKindMimetype,
		ProvidedKindFont, ProvidedKindModalias, ProvidedKindFirmware,
		ProvidedKindPython, ProvidedKindDBusUser, ProvidedKindDBusSystem,
		ProvidedKindID:
		return ProvidedKind(s)
	}
	if k, ok := providedKindAliases[s]; ok {
		return k
	}
	return ProvidedKindUnknown
}

// RelationKind is the strength of a system relation.
type RelationKind string

const (
	RelationKindRequires   RelationKind = "requires"
	RelationKindRecommends RelationKind = "recommends"
	RelationKindSupports   RelationKind = "supports"
)

// RelationItemKind is the type of thing a relation talks about.
type RelationItemKind string

const (
	RelationItemKindUnknown       RelationItemKind = "unknown"
	RelationItemKindID            RelationItemKind = "id"
	RelationItemKindModalias      RelationItemKind = "modalias"
	RelationItemKindKernel        RelationItemKind = "kernel"
	RelationItemKindMemory        RelationItemKind = "memory"
	RelationItemKindFirmware      RelationItemKind = "firmware"
	RelationItemKindControl       RelationItemKind = "control"
	RelationItemKindDisplayLength RelationItemKind = "display_length"
)

// RelationItemKindFromString parses a relation item kind string.
func RelationItemKindFromString(s string) RelationItemKind {
	switch RelationItemKind(s) {
	case RelationItemKindID, RelationItemKindModalias, RelationItemKindKernel,
		RelationItemKindMemory, RelationItemKindFirmware, RelationItemKindControl,
		RelationItemKindDisplayLength:
		return RelationItemKind(s)
	}
	return RelationItemKindUnknown
}

// RelationCompare is a version comparison predicate on a relation.
type RelationCompare string

const (
	CompareUnknown RelationCompare = ""
	CompareEq      RelationCompare = "eq"
	CompareNe      RelationCompare = "ne"
	CompareLt      RelationCompare = "lt"
	CompareGt      RelationCompare = "gt"
	CompareLe      RelationCompare = "le"
	CompareGe      RelationCompare = "ge"
)

// RelationCompareFromString parses a comparison predicate, accepting both
// the word form ("ge") and the symbol form (">=").
func RelationCompareFromString(s string) RelationCompare {
	switch s {
	case "eq", "==":
		return CompareEq
	case "ne", "!=":
		return CompareNe
	case "lt", "<<", "<":
		return CompareLt
	case "gt", ">>", ">":
		return CompareGt
	case "le", "<=":
		return CompareLe
	case "ge", ">=":
		return CompareGe
	}
	return CompareUnknown
}

// SourceKind identifies where a component was ingested from. It is stamped
// by the pool, never read from the document itself, and acts as the merge
// tie-break after priority.
type SourceKind int

const (
	SourceKindUnknown SourceKind = iota
	// SourceKindAppInstall is legacy appinstall data, lowest precedence.
	SourceKindAppInstall
	// SourceKindFlatpak is metadata exported by installed Flatpak remotes.
	SourceKindFlatpak
	// SourceKindOSCatalog is the distribution-shipped catalog.
	SourceKindOSCatalog
	// SourceKindMetainfo is a locally installed metainfo file, highest
	// precedence: it describes software actually present on this system.
	SourceKindMetainfo
)

// String returns a human-readable source kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceKindAppInstall:
		return "appinstall"
	case SourceKindFlatpak:
		return "flatpak"
	case SourceKindOSCatalog:
		return "os-catalog"
	case SourceKindMetainfo:
		return "metainfo"
	}
	return "unknown"
}
