package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"freedesktop.org/appstream/models"
)

// dep11FileTag identifies a DEP-11 catalog header document.
const dep11FileTag = "DEP-11"

// yamlStringList accepts either a scalar or a sequence in the document
// and always serializes back the shortest form.
type yamlStringList []string

func (l *yamlStringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value != "" {
			*l = yamlStringList{value.Value}
		}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = yamlStringList(items)
		return nil
	}
	return fmt.Errorf("expected scalar or sequence, got yaml kind %d", value.Kind)
}

func (l yamlStringList) MarshalYAML() (interface{}, error) {
	if len(l) == 1 {
		return l[0], nil
	}
	return []string(l), nil
}

type dep11Header struct {
	File         string `yaml:"File"`
	Version      string `yaml:"Version"`
	Origin       string `yaml:"Origin"`
	Architecture string `yaml:"Architecture,omitempty"`
	Priority     int    `yaml:"Priority,omitempty"`
}

type dep11IconFile struct {
	Name   string `yaml:"name,omitempty"`
	URL    string `yaml:"url,omitempty"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

type dep11Icon struct {
	Stock  string          `yaml:"stock,omitempty"`
	Cached []dep11IconFile `yaml:"cached,omitempty"`
	Local  []dep11IconFile `yaml:"local,omitempty"`
	Remote []dep11IconFile `yaml:"remote,omitempty"`
}

type dep11Provides struct {
	Binaries   []string `yaml:"binaries,omitempty"`
	Libraries  []string `yaml:"libraries,omitempty"`
	Mediatypes []string `yaml:"mediatypes,omitempty"`
	Fonts      []string `yaml:"fonts,omitempty"`
	Modaliases []string `yaml:"modaliases,omitempty"`
	Firmware   []string `yaml:"firmware,omitempty"`
	Python3    []string `yaml:"python3,omitempty"`
	DBusUser   []string `yaml:"dbus-user,omitempty"`
	DBusSystem []string `yaml:"dbus-system,omitempty"`
	IDs        []string `yaml:"ids,omitempty"`
}

type dep11Release struct {
	Version       string            `yaml:"version"`
	UnixTimestamp int64             `yaml:"unix-timestamp,omitempty"`
	Type          string            `yaml:"type,omitempty"`
	URL           string            `yaml:"url,omitempty"`
	Description   map[string]string `yaml:"description,omitempty"`
}

type dep11Image struct {
	URL    string `yaml:"url"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

type dep11Screenshot struct {
	Default     bool              `yaml:"default,omitempty"`
	Caption     map[string]string `yaml:"caption,omitempty"`
	SourceImage *dep11Image       `yaml:"source-image,omitempty"`
	Thumbnails  []dep11Image      `yaml:"thumbnails,omitempty"`
}

type dep11Bundle struct {
	Type string `yaml:"type"`
	ID   string `yaml:"id"`
}

type dep11Translation struct {
	Type string `yaml:"type"`
	ID   string `yaml:"id"`
}

type dep11Color struct {
	Type             string `yaml:"type"`
	SchemePreference string `yaml:"scheme-preference,omitempty"`
	Value            string `yaml:"value"`
}

type dep11Branding struct {
	Colors []dep11Color `yaml:"colors,omitempty"`
}

// dep11Relation is one relation entry: one key names the item kind and
// holds the value, an optional "version" key holds "<predicate> <version>"
// (for example "ge 5.10").
type dep11Relation map[string]string

type dep11Component struct {
	Type                  string              `yaml:"Type"`
	ID                    string              `yaml:"ID"`
	Priority              int                 `yaml:"Priority,omitempty"`
	Package               yamlStringList      `yaml:"Package,omitempty"`
	Name                  map[string]string   `yaml:"Name,omitempty"`
	Summary               map[string]string   `yaml:"Summary,omitempty"`
	Description           map[string]string   `yaml:"Description,omitempty"`
	DeveloperName         map[string]string   `yaml:"DeveloperName,omitempty"`
	ProjectLicense        string              `yaml:"ProjectLicense,omitempty"`
	MetadataLicense       string              `yaml:"MetadataLicense,omitempty"`
	ProjectGroup          string              `yaml:"ProjectGroup,omitempty"`
	Categories            []string            `yaml:"Categories,omitempty"`
	Keywords              map[string][]string `yaml:"Keywords,omitempty"`
	URL                   map[string]string   `yaml:"Url,omitempty"`
	Icon                  *dep11Icon          `yaml:"Icon,omitempty"`
	Bundles               []dep11Bundle       `yaml:"Bundles,omitempty"`
	Launchable            map[string][]string `yaml:"Launchable,omitempty"`
	Provides              *dep11Provides      `yaml:"Provides,omitempty"`
	Releases              []dep11Release      `yaml:"Releases,omitempty"`
	Screenshots           []dep11Screenshot   `yaml:"Screenshots,omitempty"`
	Extends               []string            `yaml:"Extends,omitempty"`
	CompulsoryForDesktops []string            `yaml:"CompulsoryForDesktops,omitempty"`
	Requires              []dep11Relation     `yaml:"Requires,omitempty"`
	Recommends            []dep11Relation     `yaml:"Recommends,omitempty"`
	Supports              []dep11Relation     `yaml:"Supports,omitempty"`
	Translation           []dep11Translation  `yaml:"Translation,omitempty"`
	Branding              *dep11Branding      `yaml:"Branding,omitempty"`
}

// parseYAML parses a DEP-11 catalog document stream: a header document
// followed by one document per component.
func parseYAML(data []byte, path string) (*ParseResult, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var header dep11Header
	if err := dec.Decode(&header); err != nil {
		return nil, newDocumentError(path, "invalid YAML header document", err)
	}
	if header.File != dep11FileTag {
		return nil, newDocumentError(path, fmt.Sprintf("not a DEP-11 document (File: %q)", header.File), nil)
	}

	result := &ParseResult{
		Origin:       header.Origin,
		Architecture: header.Architecture,
	}

	for {
		var doc dep11Component
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// One broken component document; skip it and keep reading.
			result.warnf("%s: skipping malformed component document: %v", path, err)
			continue
		}
		c := doc.toComponent(result)
		if c.Priority == 0 {
			c.Priority = header.Priority
		}
		result.addComponent(c)
	}
	return result, nil
}

func localizedFromMap(m map[string]string) models.LocalizedText {
	lt := models.LocalizedText{}
	for locale, value := range m {
		lt.Set(locale, value)
	}
	return lt
}

func descriptionFromMap(m map[string]string) models.LocalizedText {
	lt := models.LocalizedText{}
	for locale, value := range m {
		lt.Set(locale, sanitizeDescriptionFragment(value))
	}
	return lt
}

func (d *dep11Component) toComponent(r *ParseResult) *models.Component {
	c := models.NewComponent(models.ComponentKindFromString(d.Type))
	c.ID = d.ID
	c.Priority = d.Priority
	c.PackageNames = append([]string(nil), d.Package...)
	c.Name = localizedFromMap(d.Name)
	c.Summary = localizedFromMap(d.Summary)
	c.Description = descriptionFromMap(d.Description)
	c.DeveloperName = localizedFromMap(d.DeveloperName)
	c.ProjectLicense = d.ProjectLicense
	c.MetadataLicense = d.MetadataLicense
	c.ProjectGroup = d.ProjectGroup
	c.Extends = append([]string(nil), d.Extends...)
	c.CompulsoryForDesktops = append([]string(nil), d.CompulsoryForDesktops...)
	for _, cat := range d.Categories {
		c.AddCategory(cat)
	}
	for locale, kws := range d.Keywords {
		for _, kw := range kws {
			c.AddKeyword(locale, kw)
		}
	}
	for kind, url := range d.URL {
		c.SetURL(kind, url)
	}
	if d.Icon != nil {
		d.Icon.apply(c)
	}
	for _, b := range d.Bundles {
		kind := models.BundleKindFromString(b.Type)
		if kind == models.BundleKindUnknown {
			r.warnf("component %s: ignoring bundle of unknown type %q", c.ID, b.Type)
			continue
		}
		c.AddBundle(models.Bundle{Kind: kind, ID: b.ID})
	}
	for kindStr, entries := range d.Launchable {
		c.Launch = append(c.Launch, models.LaunchEntry{
			Kind:    models.LaunchKind(kindStr),
			Entries: append([]string(nil), entries...),
		})
	}
	if d.Provides != nil {
		d.Provides.apply(c)
	}
	for _, rel := range d.Releases {
		if rel.Version == "" {
			r.warnf("component %s: ignoring release without version", c.ID)
			continue
		}
		kind := models.ReleaseKind(rel.Type)
		if kind == "" {
			kind = models.ReleaseKindStable
		}
		c.Releases = append(c.Releases, models.Release{
			Version:     rel.Version,
			Timestamp:   rel.UnixTimestamp,
			Kind:        kind,
			URL:         rel.URL,
			Description: descriptionFromMap(rel.Description),
		})
	}
	for _, scr := range d.Screenshots {
		s := models.Screenshot{
			Default: scr.Default,
			Caption: localizedFromMap(scr.Caption),
		}
		if scr.SourceImage != nil {
			s.Images = append(s.Images, models.Image{
				Kind: models.ImageKindSource, URL: scr.SourceImage.URL,
				Width: scr.SourceImage.Width, Height: scr.SourceImage.Height,
			})
		}
		for _, th := range scr.Thumbnails {
			s.Images = append(s.Images, models.Image{
				Kind: models.ImageKindThumbnail, URL: th.URL,
				Width: th.Width, Height: th.Height,
			})
		}
		c.Screenshots = append(c.Screenshots, s)
	}
	applyYAMLRelations(c, models.RelationKindRequires, d.Requires, r)
	applyYAMLRelations(c, models.RelationKindRecommends, d.Recommends, r)
	applyYAMLRelations(c, models.RelationKindSupports, d.Supports, r)
	for _, tr := range d.Translation {
		kind := models.TranslationKind(tr.Type)
		if kind == "" {
			kind = models.TranslationKindGettext
		}
		c.Translations = append(c.Translations, models.Translation{Kind: kind, ID: tr.ID})
	}
	if d.Branding != nil {
		for _, col := range d.Branding.Colors {
			kind := col.Type
			if kind == "" {
				kind = "primary"
			}
			c.Branding = append(c.Branding, models.BrandingColor{
				Kind:   kind,
				Scheme: models.ColorScheme(col.SchemePreference),
				Value:  col.Value,
			})
		}
	}
	return c
}

// apply adds the DEP-11 icon entries in stock, cached, local, remote
// order; precedence is then handled by Component.AddIcon like in the XML
// path, so both catalog forms resolve icons identically.
func (i *dep11Icon) apply(c *models.Component) {
	if i.Stock != "" {
		c.AddIcon(models.Icon{Kind: models.IconKindStock, Value: i.Stock})
	}
	for _, f := range i.Cached {
		c.AddIcon(models.Icon{Kind: models.IconKindCached, Value: f.Name, Width: f.Width, Height: f.Height})
	}
	for _, f := range i.Local {
		c.AddIcon(models.Icon{Kind: models.IconKindLocal, Value: f.Name, Width: f.Width, Height: f.Height})
	}
	for _, f := range i.Remote {
		c.AddIcon(models.Icon{Kind: models.IconKindRemote, Value: f.URL, Width: f.Width, Height: f.Height})
	}
}

func (p *dep11Provides) apply(c *models.Component) {
	add := func(kind models.ProvidedKind, values []string) {
		for _, v := range values {
			c.AddProvided(models.ProvidedItem{Kind: kind, Value: v})
		}
	}
	add(models.ProvidedKindBinary, p.Binaries)
	add(models.ProvidedKindLibrary, p.Libraries)
	add(models.ProvidedKindMimetype, p.Mediatypes)
	add(models.ProvidedKindFont, p.Fonts)
	add(models.ProvidedKindModalias, p.Modaliases)
	add(models.ProvidedKindFirmware, p.Firmware)
	add(models.ProvidedKindPython, p.Python3)
	add(models.ProvidedKindDBusUser, p.DBusUser)
	add(models.ProvidedKindDBusSystem, p.DBusSystem)
	add(models.ProvidedKindID, p.IDs)
}

func applyYAMLRelations(c *models.Component, kind models.RelationKind, entries []dep11Relation, r *ParseResult) {
	for _, entry := range entries {
		rel := models.Relation{Kind: kind}
		for key, value := range entry {
			if key == "version" {
				pred, ver, found := strings.Cut(value, " ")
				if found {
					rel.Compare = models.RelationCompareFromString(pred)
					rel.Version = ver
				} else {
					rel.Compare = models.CompareEq
					rel.Version = value
				}
				continue
			}
			itemKind := models.RelationItemKindFromString(key)
			if itemKind == models.RelationItemKindUnknown {
				r.warnf("component %s: ignoring %s item of unknown kind %q", c.ID, kind, key)
				continue
			}
			rel.ItemKind = itemKind
			rel.Value = value
		}
		if rel.ItemKind == "" || rel.ItemKind == models.RelationItemKindUnknown {
			continue
		}
		c.Relations = append(c.Relations, rel)
	}
}
