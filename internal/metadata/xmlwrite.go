package metadata

import (
	"fmt"
	"sort"
	"strings"

	"freedesktop.org/appstream/models"
)

// sortedLocales returns the locales of a translated field in output
// order: the untranslated entry first, the rest sorted.
func sortedLocales(lt models.LocalizedText) []string {
	out := make([]string, 0, len(lt))
	for locale := range lt {
		if locale != "C" {
			out = append(out, locale)
		}
	}
	sort.Strings(out)
	if _, ok := lt["C"]; ok {
		out = append([]string{"C"}, out...)
	}
	return out
}

type xmlWriter struct {
	b      strings.Builder
	indent int
}

func (w *xmlWriter) line(s string) {
	w.b.WriteString(strings.Repeat("  ", w.indent))
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *xmlWriter) open(tag string) {
	w.line("<" + tag + ">")
	w.indent++
}

func (w *xmlWriter) close(tag string) {
	w.indent--
	w.line("</" + tag + ">")
}

// elem writes a simple element with escaped text content. Attributes are
// passed pre-rendered, values already escaped by attrs().
func (w *xmlWriter) elem(tag, attrs, text string) {
	if attrs != "" {
		attrs = " " + attrs
	}
	w.line("<" + tag + attrs + ">" + xmlEscape(text) + "</" + tag + ">")
}

// rawElem writes an element whose content is an already-normalized markup
// fragment (descriptions), which must not be escaped again.
func (w *xmlWriter) rawElem(tag, attrs, fragment string) {
	if attrs != "" {
		attrs = " " + attrs
	}
	w.line("<" + tag + attrs + ">" + fragment + "</" + tag + ">")
}

// attrs renders attribute pairs, skipping empty values.
func attrs(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%q", pairs[i], xmlEscape(pairs[i+1])))
	}
	return strings.Join(parts, " ")
}

func langAttrFor(locale string) string {
	if locale == "C" || locale == "" {
		return ""
	}
	return attrs("xml:lang", locale)
}

func (w *xmlWriter) localized(tag string, lt models.LocalizedText) {
	for _, locale := range sortedLocales(lt) {
		w.elem(tag, langAttrFor(locale), lt[locale])
	}
}

func (w *xmlWriter) description(tag string, lt models.LocalizedText) {
	for _, locale := range sortedLocales(lt) {
		w.rawElem(tag, langAttrFor(locale), sanitizeDescriptionFragment(lt[locale]))
	}
}

// providedElementName maps a provided kind back to its metainfo element.
func providedElementName(kind models.ProvidedKind) (tag, typeAttr string) {
	switch kind {
	case models.ProvidedKindBinary:
		return "binary", ""
	case models.ProvidedKindLibrary:
		return "library", ""
	case models.ProvidedKindMimetype:
		return "mediatype", ""
	case models.ProvidedKindFont:
		return "font", ""
	case models.ProvidedKindModalias:
		return "modalias", ""
	case models.ProvidedKindFirmware:
		return "firmware", ""
	case models.ProvidedKindPython:
		return "python3", ""
	case models.ProvidedKindDBusUser:
		return "dbus", "user"
	case models.ProvidedKindDBusSystem:
		return "dbus", "system"
	case models.ProvidedKindID:
		return "id", ""
	}
	return "", ""
}

// writeComponent serializes one component. Catalog style additionally
// emits the priority attribute stamped by the pool; metainfo style leaves
// pool-managed metadata out entirely.
func (w *xmlWriter) writeComponent(c *models.Component, style Style) {
	attrParts := []string{"type", c.Kind.String()}
	if style == StyleCatalog && c.Priority != 0 {
		attrParts = append(attrParts, "priority", fmt.Sprintf("%d", c.Priority))
	}
	w.line("<component " + attrs(attrParts...) + ">")
	w.indent++

	w.elem("id", "", c.ID)
	for _, pkg := range c.PackageNames {
		w.elem("pkgname", "", pkg)
	}
	if c.MetadataLicense != "" {
		w.elem("metadata_license", "", c.MetadataLicense)
	}
	if c.ProjectLicense != "" {
		w.elem("project_license", "", c.ProjectLicense)
	}
	if c.ProjectGroup != "" {
		w.elem("project_group", "", c.ProjectGroup)
	}
	w.localized("name", c.Name)
	w.localized("summary", c.Summary)
	w.localized("developer_name", c.DeveloperName)
	w.description("description", c.Description)

	for _, ic := range c.Icons {
		w.elem("icon", attrs(
			"type", string(ic.Kind),
			"width", intAttr(ic.Width),
			"height", intAttr(ic.Height),
		), ic.Value)
	}

	if len(c.Categories) > 0 {
		w.open("categories")
		for _, cat := range c.Categories {
			w.elem("category", "", cat)
		}
		w.close("categories")
	}

	if len(c.Keywords) > 0 {
		w.open("keywords")
		for _, locale := range sortedKeywordLocales(c.Keywords) {
			for _, kw := range c.Keywords[locale] {
				w.elem("keyword", langAttrFor(locale), kw)
			}
		}
		w.close("keywords")
	}

	for _, kind := range sortedURLKinds(c.URLs) {
		w.elem("url", attrs("type", kind), c.URLs[kind])
	}
	for _, b := range c.Bundles {
		w.elem("bundle", attrs("type", string(b.Kind)), b.ID)
	}
	for _, ext := range c.Extends {
		w.elem("extends", "", ext)
	}
	for _, desktop := range c.CompulsoryForDesktops {
		w.elem("compulsory_for_desktop", "", desktop)
	}
	for _, l := range c.Launch {
		for _, entry := range l.Entries {
			w.elem("launchable", attrs("type", string(l.Kind)), entry)
		}
	}
	for _, tr := range c.Translations {
		w.elem("translation", attrs("type", string(tr.Kind)), tr.ID)
	}

	if len(c.Provided) > 0 {
		w.open("provides")
		for _, p := range c.Provided {
			tag, typeAttr := providedElementName(p.Kind)
			if tag == "" {
				continue
			}
			w.elem(tag, attrs("type", typeAttr), p.Value)
		}
		w.close("provides")
	}

	w.writeRelations("requires", models.RelationKindRequires, c.Relations)
	w.writeRelations("recommends", models.RelationKindRecommends, c.Relations)
	w.writeRelations("supports", models.RelationKindSupports, c.Relations)

	if len(c.Releases) > 0 {
		w.open("releases")
		for _, rel := range c.Releases {
			relAttrs := attrs(
				"version", rel.Version,
				"type", string(rel.Kind),
				"timestamp", int64Attr(rel.Timestamp),
			)
			if len(rel.Description) == 0 && rel.URL == "" {
				w.line("<release " + relAttrs + "/>")
				continue
			}
			w.line("<release " + relAttrs + ">")
			w.indent++
			if rel.URL != "" {
				w.elem("url", "", rel.URL)
			}
			w.description("description", rel.Description)
			w.indent--
			w.line("</release>")
		}
		w.close("releases")
	}

	if len(c.Screenshots) > 0 {
		w.open("screenshots")
		for _, scr := range c.Screenshots {
			var scrType string
			if scr.Default {
				scrType = "default"
			}
			if scrAttrs := attrs("type", scrType); scrAttrs != "" {
				w.line("<screenshot " + scrAttrs + ">")
			} else {
				w.line("<screenshot>")
			}
			w.indent++
			w.localized("caption", scr.Caption)
			for _, img := range scr.Images {
				w.elem("image", attrs(
					"type", string(img.Kind),
					"width", intAttr(img.Width),
					"height", intAttr(img.Height),
				), img.URL)
			}
			w.indent--
			w.line("</screenshot>")
		}
		w.close("screenshots")
	}

	if len(c.Branding) > 0 {
		w.open("branding")
		for _, col := range c.Branding {
			w.elem("color", attrs(
				"type", col.Kind,
				"scheme_preference", string(col.Scheme),
			), col.Value)
		}
		w.close("branding")
	}

	w.indent--
	w.line("</component>")
}

func (w *xmlWriter) writeRelations(tag string, kind models.RelationKind, relations []models.Relation) {
	var matching []models.Relation
	for _, rel := range relations {
		if rel.Kind == kind {
			matching = append(matching, rel)
		}
	}
	if len(matching) == 0 {
		return
	}
	w.open(tag)
	for _, rel := range matching {
		w.elem(string(rel.ItemKind), attrs(
			"version", rel.Version,
			"compare", string(rel.Compare),
		), rel.Value)
	}
	w.close(tag)
}

func intAttr(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func int64Attr(n int64) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func sortedKeywordLocales(kw map[string][]string) []string {
	out := make([]string, 0, len(kw))
	for locale := range kw {
		if locale != "C" {
			out = append(out, locale)
		}
	}
	sort.Strings(out)
	if _, ok := kw["C"]; ok {
		out = append([]string{"C"}, out...)
	}
	return out
}

func sortedURLKinds(urls map[string]string) []string {
	out := make([]string, 0, len(urls))
	for kind := range urls {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// SerializeMetainfo writes one component as a metainfo XML document.
// Pool-stamped metadata (origin, priority, source) is not part of the
// metainfo form and is not serialized.
func SerializeMetainfo(c *models.Component) []byte {
	w := &xmlWriter{}
	w.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	w.writeComponent(c, StyleMetainfo)
	return []byte(w.b.String())
}

// SerializeCatalogXML writes a catalog XML document containing the given
// components under one origin header.
func SerializeCatalogXML(components []*models.Component, origin, architecture string) []byte {
	w := &xmlWriter{}
	w.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	headerAttrs := attrs("version", catalogVersion, "origin", origin, "architecture", architecture)
	w.line("<components " + headerAttrs + ">")
	w.indent++
	for _, c := range components {
		w.writeComponent(c, StyleCatalog)
	}
	w.indent--
	w.line("</components>")
	return []byte(w.b.String())
}

// catalogVersion is the catalog format revision this codec writes.
const catalogVersion = "0.8"
