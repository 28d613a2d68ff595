package metadata

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"freedesktop.org/appstream/models"
)

// xmlNode is a generic element-tree node. The codec unmarshals whole
// documents into this shape and walks it with the declarative field table
// below instead of hand-written string-compare chains.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
	Inner    string     `xml:",innerxml"`
}

func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *xmlNode) text() string {
	return strings.TrimSpace(n.Text)
}

func (n *xmlNode) lang() string {
	return langAttr(n.Attrs)
}

// fieldHandler applies one parsed element to a component under
// construction.
type fieldHandler func(c *models.Component, n *xmlNode, r *ParseResult)

// componentFieldTable maps element names to their handlers. One generic
// traversal loop consults it; elements without an entry are ignored, which
// keeps forward compatibility with newer metadata revisions.
var componentFieldTable map[string]fieldHandler

func init() {
	// Built in init to allow handlers that reference the table (none do
	// today, but the indirection also breaks an initialization cycle
	// with the localized-text helpers).
	componentFieldTable = map[string]fieldHandler{
		"id":          func(c *models.Component, n *xmlNode, _ *ParseResult) { c.ID = n.text() },
		"pkgname":     func(c *models.Component, n *xmlNode, _ *ParseResult) { c.PackageNames = append(c.PackageNames, n.text()) },
		"name":        localizedHandler(func(c *models.Component) models.LocalizedText { return c.Name }),
		"summary":     localizedHandler(func(c *models.Component) models.LocalizedText { return c.Summary }),
		"developer_name": localizedHandler(func(c *models.Component) models.LocalizedText { return c.DeveloperName }),
		"description": parseDescriptionField,
		"icon":        parseIconField,
		"categories":  parseCategoriesField,
		"keywords":    parseKeywordsField,
		"bundle":      parseBundleField,
		"url":         parseURLField,
		"project_license":  func(c *models.Component, n *xmlNode, _ *ParseResult) { c.ProjectLicense = n.text() },
		"metadata_license": func(c *models.Component, n *xmlNode, _ *ParseResult) { c.MetadataLicense = n.text() },
		"project_group":    func(c *models.Component, n *xmlNode, _ *ParseResult) { c.ProjectGroup = n.text() },
		"extends":          func(c *models.Component, n *xmlNode, _ *ParseResult) { c.Extends = append(c.Extends, n.text()) },
		"compulsory_for_desktop": func(c *models.Component, n *xmlNode, _ *ParseResult) {
			c.CompulsoryForDesktops = append(c.CompulsoryForDesktops, n.text())
		},
		"provides":    parseProvidesField,
		"launchable":  parseLaunchableField,
		"releases":    parseReleasesField,
		"screenshots": parseScreenshotsField,
		"requires":    relationHandler(models.RelationKindRequires),
		"recommends":  relationHandler(models.RelationKindRecommends),
		"supports":    relationHandler(models.RelationKindSupports),
		"branding":    parseBrandingField,
		"translation": parseTranslationField,
	}
}

// localizedHandler sets a translated text field; duplicate entries for the
// same locale overwrite (last occurrence wins).
func localizedHandler(field func(*models.Component) models.LocalizedText) fieldHandler {
	return func(c *models.Component, n *xmlNode, _ *ParseResult) {
		field(c).Set(n.lang(), n.text())
	}
}

func parseDescriptionField(c *models.Component, n *xmlNode, _ *ParseResult) {
	parseDescriptionMarkup(n.Inner, n.lang(), c.Description)
}

func parseIconField(c *models.Component, n *xmlNode, r *ParseResult) {
	kind := models.IconKindFromString(n.attr("type"))
	if kind == models.IconKindUnknown {
		r.warnf("component %s: ignoring icon of unknown type %q", c.ID, n.attr("type"))
		return
	}
	c.AddIcon(models.Icon{
		Kind:   kind,
		Value:  n.text(),
		Width:  atoiOrZero(n.attr("width")),
		Height: atoiOrZero(n.attr("height")),
	})
}

func parseCategoriesField(c *models.Component, n *xmlNode, _ *ParseResult) {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == "category" {
			c.AddCategory(n.Children[i].text())
		}
	}
}

func parseKeywordsField(c *models.Component, n *xmlNode, _ *ParseResult) {
	outer := n.lang()
	for i := range n.Children {
		kw := &n.Children[i]
		if kw.XMLName.Local != "keyword" {
			continue
		}
		locale := kw.lang()
		if locale == "" {
			locale = outer
		}
		c.AddKeyword(locale, kw.text())
	}
}

func parseBundleField(c *models.Component, n *xmlNode, r *ParseResult) {
	kind := models.BundleKindFromString(n.attr("type"))
	if kind == models.BundleKindUnknown {
		r.warnf("component %s: ignoring bundle of unknown type %q", c.ID, n.attr("type"))
		return
	}
	c.AddBundle(models.Bundle{Kind: kind, ID: n.text()})
}

func parseURLField(c *models.Component, n *xmlNode, _ *ParseResult) {
	kind := n.attr("type")
	if kind == "" {
		kind = "homepage"
	}
	c.SetURL(kind, n.text())
}

func parseProvidesField(c *models.Component, n *xmlNode, r *ParseResult) {
	for i := range n.Children {
		item := &n.Children[i]
		name := item.XMLName.Local
		var kind models.ProvidedKind
		if name == "dbus" {
			if item.attr("type") == "user" {
				kind = models.ProvidedKindDBusUser
			} else {
				kind = models.ProvidedKindDBusSystem
			}
		} else {
			kind = models.ProvidedKindFromString(name)
		}
		if kind == models.ProvidedKindUnknown {
			r.warnf("component %s: ignoring provided item of unknown kind %q", c.ID, name)
			continue
		}
		c.AddProvided(models.ProvidedItem{Kind: kind, Value: item.text()})
	}
}

func parseLaunchableField(c *models.Component, n *xmlNode, _ *ParseResult) {
	kind := models.LaunchKind(n.attr("type"))
	if kind == "" {
		kind = models.LaunchKindDesktopID
	}
	for i := range c.Launch {
		if c.Launch[i].Kind == kind {
			c.Launch[i].Entries = append(c.Launch[i].Entries, n.text())
			return
		}
	}
	c.Launch = append(c.Launch, models.LaunchEntry{Kind: kind, Entries: []string{n.text()}})
}

func parseReleasesField(c *models.Component, n *xmlNode, r *ParseResult) {
	for i := range n.Children {
		rel := &n.Children[i]
		if rel.XMLName.Local != "release" {
			continue
		}
		release := models.Release{
			Version:     rel.attr("version"),
			Timestamp:   parseReleaseTime(rel.attr("timestamp"), rel.attr("date")),
			Kind:        models.ReleaseKind(rel.attr("type")),
			Description: models.LocalizedText{},
		}
		if release.Kind == "" {
			release.Kind = models.ReleaseKindStable
		}
		for j := range rel.Children {
			child := &rel.Children[j]
			switch child.XMLName.Local {
			case "description":
				parseDescriptionMarkup(child.Inner, child.lang(), release.Description)
			case "url":
				release.URL = child.text()
			}
		}
		if release.Version == "" {
			r.warnf("component %s: ignoring release without version", c.ID)
			continue
		}
		c.Releases = append(c.Releases, release)
	}
}

func parseScreenshotsField(c *models.Component, _n *xmlNode, r *ParseResult) {
	for i := range _n.Children {
		node := &_n.Children[i]
		if node.XMLName.Local != "screenshot" {
			continue
		}
		scr := models.Screenshot{
			Default: node.attr("type") == "default",
			Caption: models.LocalizedText{},
		}
		for j := range node.Children {
			child := &node.Children[j]
			switch child.XMLName.Local {
			case "caption":
				scr.Caption.Set(child.lang(), child.text())
			case "image":
				url := child.text()
				if url == "" {
					r.warnf("component %s: ignoring screenshot image without url", c.ID)
					continue
				}
				scr.Images = append(scr.Images, models.Image{
					Kind:   models.ImageKindFromString(child.attr("type")),
					URL:    url,
					Width:  atoiOrZero(child.attr("width")),
					Height: atoiOrZero(child.attr("height")),
				})
			}
		}
		c.Screenshots = append(c.Screenshots, scr)
	}
}

func relationHandler(kind models.RelationKind) fieldHandler {
	return func(c *models.Component, n *xmlNode, r *ParseResult) {
		for i := range n.Children {
			item := &n.Children[i]
			itemKind := models.RelationItemKindFromString(item.XMLName.Local)
			if itemKind == models.RelationItemKindUnknown {
				r.warnf("component %s: ignoring %s item of unknown kind %q", c.ID, kind, item.XMLName.Local)
				continue
			}
			c.Relations = append(c.Relations, models.Relation{
				Kind:     kind,
				ItemKind: itemKind,
				Value:    item.text(),
				Compare:  models.RelationCompareFromString(item.attr("compare")),
				Version:  item.attr("version"),
			})
		}
	}
}

func parseBrandingField(c *models.Component, n *xmlNode, _ *ParseResult) {
	for i := range n.Children {
		col := &n.Children[i]
		if col.XMLName.Local != "color" {
			continue
		}
		kind := col.attr("type")
		if kind == "" {
			kind = "primary"
		}
		c.Branding = append(c.Branding, models.BrandingColor{
			Kind:   kind,
			Scheme: models.ColorScheme(col.attr("scheme_preference")),
			Value:  col.text(),
		})
	}
}

func parseTranslationField(c *models.Component, n *xmlNode, _ *ParseResult) {
	kind := models.TranslationKind(n.attr("type"))
	if kind == "" {
		kind = models.TranslationKindGettext
	}
	c.Translations = append(c.Translations, models.Translation{Kind: kind, ID: n.text()})
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// parseReleaseTime prefers the unix timestamp attribute and falls back to
// the ISO date attribute used by older metainfo files.
func parseReleaseTime(timestamp, date string) int64 {
	if timestamp != "" {
		if n, err := strconv.ParseInt(timestamp, 10, 64); err == nil {
			return n
		}
	}
	if date != "" {
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, date); err == nil {
				return t.Unix()
			}
		}
	}
	return 0
}

// parseComponentNode builds a component from one component element.
func parseComponentNode(node *xmlNode) (*models.Component, *ParseResult) {
	sub := &ParseResult{}
	kindStr := node.attr("type")
	if kindStr == "" {
		kindStr = string(models.ComponentKindGeneric)
	}
	if node.XMLName.Local == "application" {
		// Legacy appdata root element implies a desktop application.
		kindStr = string(models.ComponentKindDesktopApp)
	}
	c := models.NewComponent(models.ComponentKindFromString(kindStr))
	c.Priority = atoiOrZero(node.attr("priority"))

	for i := range node.Children {
		child := &node.Children[i]
		if handler, ok := componentFieldTable[child.XMLName.Local]; ok {
			handler(c, child, sub)
		}
	}
	return c, sub
}

// parseXML parses a metainfo or catalog XML document. The two schemas are
// told apart by the root element.
func parseXML(data []byte, path string) (*ParseResult, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, newDocumentError(path, "invalid XML", err)
	}

	result := &ParseResult{}
	switch root.XMLName.Local {
	case "component", "application":
		c, sub := parseComponentNode(&root)
		result.Warnings = append(result.Warnings, sub.Warnings...)
		result.addComponent(c)
		if len(result.Components) == 0 {
			// A metainfo document holds exactly one component; if that
			// one is invalid the whole document failed.
			return nil, newDocumentError(path, "metainfo document contains no valid component", nil)
		}
		return result, nil

	case "components":
		result.Origin = root.attr("origin")
		result.Architecture = root.attr("architecture")
		for i := range root.Children {
			child := &root.Children[i]
			if child.XMLName.Local != "component" {
				continue
			}
			c, sub := parseComponentNode(child)
			result.Warnings = append(result.Warnings, sub.Warnings...)
			result.addComponent(c)
		}
		return result, nil
	}
	return nil, newDocumentError(path, "unexpected root element <"+root.XMLName.Local+">", nil)
}
