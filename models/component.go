package models

import (
	"fmt"
	"strings"
)

// Component is one software entry in the catalog: a desktop application, a
// font, a codec, a driver and so on. Components parsed from different
// sources are merged by ID in the pool; a Component value is exclusively
// owned by its containing parse result or pool and never shared across
// pool boundaries without cloning.
type Component struct {
	// Kind is the component type.
	Kind ComponentKind `json:"kind"`

	// ID is the reverse-DNS style unique identifier
	// (e.g. "org.mozilla.firefox"). It is the merge and lookup key and
	// must be non-empty for the component to be valid.
	ID string `json:"id" validate:"required"`

	// Name is the translated human-readable name.
	Name LocalizedText `json:"name,omitempty"`

	// Summary is the translated one-line description.
	Summary LocalizedText `json:"summary,omitempty"`

	// Description is the translated long description as a normalized
	// markup fragment limited to p/ol/ul/li/em/code elements.
	Description LocalizedText `json:"description,omitempty"`

	// DeveloperName is the translated name of the developing entity.
	DeveloperName LocalizedText `json:"developer_name,omitempty"`

	// ProjectLicense is the SPDX license expression of the software,
	// MetadataLicense the license of the metadata itself.
	ProjectLicense  string `json:"project_license,omitempty"`
	MetadataLicense string `json:"metadata_license,omitempty"`

	// ProjectGroup is the umbrella project ("GNOME", "KDE"), if any.
	ProjectGroup string `json:"project_group,omitempty"`

	// PackageNames lists the distribution packages shipping this
	// component, in preference order.
	PackageNames []string `json:"pkgnames,omitempty"`

	// Bundles lists bundle references (Flatpak refs etc.), at most one
	// per bundle kind.
	Bundles []Bundle `json:"bundles,omitempty"`

	// Extends lists component ids this addon extends. Only meaningful
	// for addon and merge components.
	Extends []string `json:"extends,omitempty"`

	// Categories holds the XDG category names, set semantics.
	Categories []string `json:"categories,omitempty"`

	// Keywords maps a locale to its search keywords.
	Keywords map[string][]string `json:"keywords,omitempty"`

	// URLs maps a url kind (homepage, bugtracker, help, donation,
	// translate) to the URL.
	URLs map[string]string `json:"urls,omitempty"`

	// CompulsoryForDesktops lists desktop environments in which this
	// component must not be uninstalled.
	CompulsoryForDesktops []string `json:"compulsory_for_desktop,omitempty"`

	Icons        []Icon          `json:"icons,omitempty"`
	Screenshots  []Screenshot    `json:"screenshots,omitempty"`
	Releases     []Release       `json:"releases,omitempty"`
	Provided     []ProvidedItem  `json:"provided,omitempty"`
	Relations    []Relation      `json:"relations,omitempty"`
	Launch       []LaunchEntry   `json:"launch,omitempty"`
	Branding     []BrandingColor `json:"branding,omitempty"`
	Translations []Translation   `json:"translations,omitempty"`

	// Origin, Priority, Architecture and Source are provenance metadata
	// stamped by the pool at ingestion time, never read from the
	// document itself.
	Origin       string     `json:"origin,omitempty"`
	Priority     int        `json:"priority,omitempty"`
	Architecture string     `json:"architecture,omitempty"`
	Source       SourceKind `json:"-"`

	// preferred caches the icon precedence decision made while icons
	// were added.
	preferred *Icon
}

// NewComponent returns an empty component of the given kind with all
// translated fields initialized.
func NewComponent(kind ComponentKind) *Component {
	return &Component{
		Kind:          kind,
		Name:          LocalizedText{},
		Summary:       LocalizedText{},
		Description:   LocalizedText{},
		DeveloperName: LocalizedText{},
	}
}

// IsValid reports whether the component has the minimum data required to
// enter a pool: a non-empty id and a known kind. Invalid components are
// dropped with a warning, not treated as a parse failure.
func (c *Component) IsValid() bool {
	return c != nil && strings.TrimSpace(c.ID) != "" && c.Kind != ComponentKindUnknown
}

// IsMergeComponent reports whether this component only exists to inject
// data into another component with the same id.
func (c *Component) IsMergeComponent() bool {
	return c.Kind == ComponentKindMerge
}

// AddIcon appends an icon and updates the preferred-icon slot according to
// precedence: local always wins, cached/stock upgrade an unset or remote
// slot, remote only fills an empty slot.
func (c *Component) AddIcon(icon Icon) {
	c.Icons = append(c.Icons, icon)
	if iconUpgrades(c.preferred, icon) {
		ic := icon
		c.preferred = &ic
	}
}

// PreferredIcon returns the icon chosen by precedence among all icons
// added so far, or nil if the component has no icons. The slot is
// recomputed from the icon list when the component was rebuilt from a
// serialized form.
func (c *Component) PreferredIcon() *Icon {
	if c.preferred == nil && len(c.Icons) > 0 {
		for _, ic := range c.Icons {
			if iconUpgrades(c.preferred, ic) {
				cp := ic
				c.preferred = &cp
			}
		}
	}
	if c.preferred == nil {
		return nil
	}
	ic := *c.preferred
	return &ic
}

// AddProvided appends a provided item, ignoring exact (kind, value)
// duplicates.
func (c *Component) AddProvided(item ProvidedItem) {
	for _, p := range c.Provided {
		if p.Kind == item.Kind && p.Value == item.Value {
			return
		}
	}
	c.Provided = append(c.Provided, item)
}

// AddCategory adds a category name, keeping set semantics.
func (c *Component) AddCategory(name string) {
	if name == "" {
		return
	}
	for _, cat := range c.Categories {
		if cat == name {
			return
		}
	}
	c.Categories = append(c.Categories, name)
}

// HasCategory reports whether the component is filed under the category.
func (c *Component) HasCategory(name string) bool {
	for _, cat := range c.Categories {
		if cat == name {
			return true
		}
	}
	return false
}

// AddBundle sets the bundle reference for a bundle kind, replacing any
// existing reference of the same kind.
func (c *Component) AddBundle(b Bundle) {
	for i, existing := range c.Bundles {
		if existing.Kind == b.Kind {
			c.Bundles[i] = b
			return
		}
	}
	c.Bundles = append(c.Bundles, b)
}

// BundleID returns the bundle reference for the given kind, if set.
func (c *Component) BundleID(kind BundleKind) (string, bool) {
	for _, b := range c.Bundles {
		if b.Kind == kind {
			return b.ID, true
		}
	}
	return "", false
}

// AddKeyword files a search keyword under the given locale.
func (c *Component) AddKeyword(locale, keyword string) {
	if keyword == "" {
		return
	}
	if locale == "" {
		locale = localeUntranslated
	}
	if c.Keywords == nil {
		c.Keywords = map[string][]string{}
	}
	c.Keywords[locale] = append(c.Keywords[locale], keyword)
}

// KeywordsFor resolves the keyword list for a locale with the same
// fallback chain as translated text fields.
func (c *Component) KeywordsFor(locale string) []string {
	if len(c.Keywords) == 0 {
		return nil
	}
	// Reuse LocalizedText resolution over the key set.
	probe := make(LocalizedText, len(c.Keywords))
	for k := range c.Keywords {
		probe[k] = k
	}
	key, ok := probe.Resolve(locale)
	if !ok {
		return nil
	}
	return c.Keywords[key]
}

// SetURL records a url of the given kind (homepage, bugtracker, ...).
func (c *Component) SetURL(kind, url string) {
	if url == "" {
		return
	}
	if c.URLs == nil {
		c.URLs = map[string]string{}
	}
	c.URLs[kind] = url
}

// Clone returns a deep copy. Pools clone components at every ownership
// boundary so that merging never mutates data still referenced elsewhere.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := *c
	out.Name = c.Name.Clone()
	out.Summary = c.Summary.Clone()
	out.Description = c.Description.Clone()
	out.DeveloperName = c.DeveloperName.Clone()
	out.PackageNames = append([]string(nil), c.PackageNames...)
	out.Bundles = append([]Bundle(nil), c.Bundles...)
	out.Extends = append([]string(nil), c.Extends...)
	out.Categories = append([]string(nil), c.Categories...)
	out.CompulsoryForDesktops = append([]string(nil), c.CompulsoryForDesktops...)
	out.Provided = append([]ProvidedItem(nil), c.Provided...)
	out.Relations = append([]Relation(nil), c.Relations...)
	out.Branding = append([]BrandingColor(nil), c.Branding...)
	out.Translations = append([]Translation(nil), c.Translations...)
	out.Icons = append([]Icon(nil), c.Icons...)
	if c.preferred != nil {
		ic := *c.preferred
		out.preferred = &ic
	}
	if c.Keywords != nil {
		out.Keywords = make(map[string][]string, len(c.Keywords))
		for k, v := range c.Keywords {
			out.Keywords[k] = append([]string(nil), v...)
		}
	}
	if c.URLs != nil {
		out.URLs = make(map[string]string, len(c.URLs))
		for k, v := range c.URLs {
			out.URLs[k] = v
		}
	}
	out.Screenshots = make([]Screenshot, len(c.Screenshots))
	for i, s := range c.Screenshots {
		out.Screenshots[i] = s.Clone()
	}
	out.Releases = make([]Release, len(c.Releases))
	for i, r := range c.Releases {
		out.Releases[i] = r.Clone()
	}
	out.Launch = make([]LaunchEntry, len(c.Launch))
	for i, l := range c.Launch {
		out.Launch[i] = l.Clone()
	}
	return &out
}

// String returns a short human-readable summary for logs and dumps.
func (c *Component) String() string {
	name := c.Name.ResolveOrEmpty("")
	return fmt.Sprintf("%s [%s] %q", c.ID, c.Kind, name)
}
