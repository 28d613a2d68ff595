package models

// Bundle links a component to an installable bundle in a bundling system,
// for example the Flatpak ref "app/org.example.Foo/x86_64/stable".
type Bundle struct {
	Kind BundleKind `json:"kind"`
	ID   string     `json:"id" validate:"required"`
}

// LaunchKind describes how a launch entry starts the component.
type LaunchKind string

const (
	LaunchKindDesktopID LaunchKind = "desktop-id"
	LaunchKindService   LaunchKind = "service"
	LaunchKindURL       LaunchKind = "url"
)

// LaunchEntry lists the launchable entry points of a component, for
// example the desktop-file ids belonging to a desktop application.
type LaunchEntry struct {
	Kind    LaunchKind `json:"kind"`
	Entries []string   `json:"entries,omitempty"`
}

// Clone returns an independent copy.
func (l LaunchEntry) Clone() LaunchEntry {
	out := l
	out.Entries = append([]string(nil), l.Entries...)
	return out
}

// ColorScheme selects which UI scheme a branding color applies to.
type ColorScheme string

const (
	ColorSchemeAny   ColorScheme = ""
	ColorSchemeLight ColorScheme = "light"
	ColorSchemeDark  ColorScheme = "dark"
)

// BrandingColor is a brand color suggestion for catalog frontends.
type BrandingColor struct {
	// Kind is the color role; "primary" is the only kind currently
	// defined by the catalog format.
	Kind   string      `json:"kind"`
	Scheme ColorScheme `json:"scheme,omitempty"`
	// Value is a CSS-style hex color like "#ff00ff".
	Value string `json:"value" validate:"required"`
}

// TranslationKind identifies a translation system.
type TranslationKind string

const (
	TranslationKindGettext TranslationKind = "gettext"
	TranslationKindQt      TranslationKind = "qt"
)

// Translation names the translation domain software translators use to
// localize the component itself (not its metadata).
type Translation struct {
	Kind TranslationKind `json:"kind"`
	ID   string          `json:"id" validate:"required"`
}
