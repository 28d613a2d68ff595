package api

import (
	"freedesktop.org/appstream/models"
)

// ComponentView is the JSON shape of a component with all translated
// fields resolved for one locale. Requesting models.LocaleAll fills the
// singular fields with the untranslated values and additionally carries
// the complete per-locale mappings.
type ComponentView struct {
	ID             string                `json:"id"`
	Kind           string                `json:"kind"`
	Name           string                `json:"name,omitempty"`
	Summary        string                `json:"summary,omitempty"`
	Description    string                `json:"description,omitempty"`
	DeveloperName  string                `json:"developer_name,omitempty"`
	Names          models.LocalizedText  `json:"names,omitempty"`
	Summaries      models.LocalizedText  `json:"summaries,omitempty"`
	Descriptions   models.LocalizedText  `json:"descriptions,omitempty"`
	DeveloperNames models.LocalizedText  `json:"developer_names,omitempty"`
	ProjectLicense string                `json:"project_license,omitempty"`
	ProjectGroup   string                `json:"project_group,omitempty"`
	PackageNames   []string              `json:"pkgnames,omitempty"`
	Categories     []string              `json:"categories,omitempty"`
	Keywords       []string              `json:"keywords,omitempty"`
	URLs           map[string]string     `json:"urls,omitempty"`
	Icon           *models.Icon          `json:"icon,omitempty"`
	Provided       []models.ProvidedItem `json:"provided,omitempty"`
	Releases       []releaseView         `json:"releases,omitempty"`
	Screenshots    []models.Screenshot   `json:"screenshots,omitempty"`
	Origin         string                `json:"origin,omitempty"`
	Source         string                `json:"source,omitempty"`
}

type releaseView struct {
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Kind      string `json:"kind,omitempty"`
	URL       string `json:"url,omitempty"`
}

// NewComponentView resolves a component for one locale.
func NewComponentView(c *models.Component, locale string) ComponentView {
	view := ComponentView{
		ID:             c.ID,
		Kind:           c.Kind.String(),
		Name:           c.Name.ResolveOrEmpty(locale),
		Summary:        c.Summary.ResolveOrEmpty(locale),
		Description:    c.Description.ResolveOrEmpty(locale),
		DeveloperName:  c.DeveloperName.ResolveOrEmpty(locale),
		ProjectLicense: c.ProjectLicense,
		ProjectGroup:   c.ProjectGroup,
		PackageNames:   c.PackageNames,
		Categories:     c.Categories,
		Keywords:       c.KeywordsFor(locale),
		URLs:           c.URLs,
		Icon:           c.PreferredIcon(),
		Provided:       c.Provided,
		Screenshots:    c.Screenshots,
		Origin:         c.Origin,
		Source:         c.Source.String(),
	}
	if locale == models.LocaleAll {
		view.Names = c.Name
		view.Summaries = c.Summary
		view.Descriptions = c.Description
		view.DeveloperNames = c.DeveloperName
	}
	for _, r := range c.Releases {
		view.Releases = append(view.Releases, releaseView{
			Version:   r.Version,
			Timestamp: r.Timestamp,
			Kind:      string(r.Kind),
			URL:       r.URL,
		})
	}
	return view
}

// componentViews maps a component list into resolved views.
func componentViews(components []*models.Component, locale string) []ComponentView {
	views := make([]ComponentView, 0, len(components))
	for _, c := range components {
		views = append(views, NewComponentView(c, locale))
	}
	return views
}
