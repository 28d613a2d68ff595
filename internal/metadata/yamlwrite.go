package metadata

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"freedesktop.org/appstream/models"
)

func mapFromLocalized(lt models.LocalizedText) map[string]string {
	if len(lt) == 0 {
		return nil
	}
	out := make(map[string]string, len(lt))
	for locale, value := range lt {
		out[locale] = value
	}
	return out
}

func sanitizedDescriptionMap(lt models.LocalizedText) map[string]string {
	if len(lt) == 0 {
		return nil
	}
	out := make(map[string]string, len(lt))
	for locale, value := range lt {
		out[locale] = sanitizeDescriptionFragment(value)
	}
	return out
}

func dep11FromComponent(c *models.Component) *dep11Component {
	d := &dep11Component{
		Type:                  c.Kind.String(),
		ID:                    c.ID,
		Priority:              c.Priority,
		Package:               yamlStringList(c.PackageNames),
		Name:                  mapFromLocalized(c.Name),
		Summary:               mapFromLocalized(c.Summary),
		Description:           sanitizedDescriptionMap(c.Description),
		DeveloperName:         mapFromLocalized(c.DeveloperName),
		ProjectLicense:        c.ProjectLicense,
		MetadataLicense:       c.MetadataLicense,
		ProjectGroup:          c.ProjectGroup,
		Categories:            c.Categories,
		Extends:               c.Extends,
		CompulsoryForDesktops: c.CompulsoryForDesktops,
	}
	if len(c.Keywords) > 0 {
		d.Keywords = c.Keywords
	}
	if len(c.URLs) > 0 {
		d.URL = c.URLs
	}
	if len(c.Icons) > 0 {
		icon := &dep11Icon{}
		for _, ic := range c.Icons {
			file := dep11IconFile{Width: ic.Width, Height: ic.Height}
			switch ic.Kind {
			case models.IconKindStock:
				icon.Stock = ic.Value
			case models.IconKindCached:
				file.Name = ic.Value
				icon.Cached = append(icon.Cached, file)
			case models.IconKindLocal:
				file.Name = ic.Value
				icon.Local = append(icon.Local, file)
			case models.IconKindRemote:
				file.URL = ic.Value
				icon.Remote = append(icon.Remote, file)
			}
		}
		d.Icon = icon
	}
	for _, b := range c.Bundles {
		d.Bundles = append(d.Bundles, dep11Bundle{Type: string(b.Kind), ID: b.ID})
	}
	if len(c.Launch) > 0 {
		d.Launchable = map[string][]string{}
		for _, l := range c.Launch {
			d.Launchable[string(l.Kind)] = append(d.Launchable[string(l.Kind)], l.Entries...)
		}
	}
	if len(c.Provided) > 0 {
		p := &dep11Provides{}
		for _, item := range c.Provided {
			switch item.Kind {
			case models.ProvidedKindBinary:
				p.Binaries = append(p.Binaries, item.Value)
			case models.ProvidedKindLibrary:
				p.Libraries = append(p.Libraries, item.Value)
			case models.ProvidedKindMimetype:
				p.Mediatypes = append(p.Mediatypes, item.Value)
			case models.ProvidedKindFont:
				p.Fonts = append(p.Fonts, item.Value)
			case models.ProvidedKindModalias:
				p.Modaliases = append(p.Modaliases, item.Value)
			case models.ProvidedKindFirmware:
				p.Firmware = append(p.Firmware, item.Value)
			case models.ProvidedKindPython:
				p.Python3 = append(p.Python3, item.Value)
			case models.ProvidedKindDBusUser:
				p.DBusUser = append(p.DBusUser, item.Value)
			case models.ProvidedKindDBusSystem:
				p.DBusSystem = append(p.DBusSystem, item.Value)
			case models.ProvidedKindID:
				p.IDs = append(p.IDs, item.Value)
			}
		}
		d.Provides = p
	}
	for _, rel := range c.Releases {
		d.Releases = append(d.Releases, dep11Release{
			Version:       rel.Version,
			UnixTimestamp: rel.Timestamp,
			Type:          string(rel.Kind),
			URL:           rel.URL,
			Description:   sanitizedDescriptionMap(rel.Description),
		})
	}
	for _, scr := range c.Screenshots {
		s := dep11Screenshot{
			Default: scr.Default,
			Caption: mapFromLocalized(scr.Caption),
		}
		for _, img := range scr.Images {
			di := dep11Image{URL: img.URL, Width: img.Width, Height: img.Height}
			if img.Kind == models.ImageKindThumbnail {
				s.Thumbnails = append(s.Thumbnails, di)
			} else if s.SourceImage == nil {
				s.SourceImage = &di
			}
		}
		d.Screenshots = append(d.Screenshots, s)
	}
	d.Requires = yamlRelations(c.Relations, models.RelationKindRequires)
	d.Recommends = yamlRelations(c.Relations, models.RelationKindRecommends)
	d.Supports = yamlRelations(c.Relations, models.RelationKindSupports)
	for _, tr := range c.Translations {
		d.Translation = append(d.Translation, dep11Translation{Type: string(tr.Kind), ID: tr.ID})
	}
	if len(c.Branding) > 0 {
		branding := &dep11Branding{}
		for _, col := range c.Branding {
			branding.Colors = append(branding.Colors, dep11Color{
				Type:             col.Kind,
				SchemePreference: string(col.Scheme),
				Value:            col.Value,
			})
		}
		d.Branding = branding
	}
	return d
}

func yamlRelations(relations []models.Relation, kind models.RelationKind) []dep11Relation {
	var out []dep11Relation
	for _, rel := range relations {
		if rel.Kind != kind {
			continue
		}
		entry := dep11Relation{string(rel.ItemKind): rel.Value}
		if rel.Compare != models.CompareUnknown && rel.Version != "" {
			entry["version"] = fmt.Sprintf("%s %s", rel.Compare, rel.Version)
		}
		out = append(out, entry)
	}
	return out
}

// SerializeCatalogYAML writes a DEP-11 catalog document stream: one
// header document followed by one document per component.
func SerializeCatalogYAML(components []*models.Component, origin, architecture string) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	header := dep11Header{
		File:         dep11FileTag,
		Version:      catalogVersion,
		Origin:       origin,
		Architecture: architecture,
	}
	if err := enc.Encode(&header); err != nil {
		return nil, fmt.Errorf("encoding catalog header: %w", err)
	}
	for _, c := range components {
		if err := enc.Encode(dep11FromComponent(c)); err != nil {
			return nil, fmt.Errorf("encoding component %s: %w", c.ID, err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalizing catalog stream: %w", err)
	}
	return buf.Bytes(), nil
}
