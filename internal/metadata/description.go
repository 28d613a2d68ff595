package metadata

import (
	"encoding/xml"
	"strings"

	"freedesktop.org/appstream/models"
)

// Description markup is restricted to a small whitelist. Anything else in
// a description is dropped on input and can therefore never appear in
// serialized output.
var (
	descriptionBlocks = map[string]bool{"p": true, "ol": true, "ul": true}
	descriptionInline = map[string]bool{"em": true, "code": true}
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// langAttr extracts the xml:lang attribute, empty when untranslated.
func langAttr(attrs []xml.Attr) string {
	for _, a := range attrs {
		if a.Name.Local == "lang" && (a.Name.Space == "xml" || a.Name.Space == xmlNamespace || a.Name.Space == "") {
			return a.Value
		}
	}
	return ""
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// parseDescriptionMarkup normalizes the inner markup of a description
// element into per-locale fragments and merges them into the given
// LocalizedText. Paragraphs and lists may carry their own xml:lang; blocks
// of the same locale are concatenated in document order. The defaultLang
// applies to blocks without their own language attribute (catalog-style
// documents put xml:lang on the description element itself).
func parseDescriptionMarkup(inner, defaultLang string, into models.LocalizedText) {
	if defaultLang == "" {
		defaultLang = "C"
	}
	builders := map[string]*strings.Builder{}
	builder := func(locale string) *strings.Builder {
		if b, ok := builders[locale]; ok {
			return b
		}
		b := &strings.Builder{}
		if existing := into.Get(locale); existing != "" {
			b.WriteString(existing)
		}
		builders[locale] = b
		return b
	}

	dec := xml.NewDecoder(strings.NewReader(inner))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		name := start.Name.Local
		if !descriptionBlocks[name] {
			_ = dec.Skip()
			continue
		}
		locale := langAttr(start.Attr)
		if locale == "" {
			locale = defaultLang
		}
		renderBlock(dec, start, builder(locale))
	}

	for locale, b := range builders {
		if s := b.String(); s != "" {
			into.Set(locale, s)
		}
	}
}

// renderBlock writes one normalized block element (p, ol or ul).
func renderBlock(dec *xml.Decoder, start xml.StartElement, out *strings.Builder) {
	name := start.Name.Local
	out.WriteString("<" + name + ">")
	if name == "p" {
		var body strings.Builder
		renderInline(dec, start.Name, &body)
		out.WriteString(strings.TrimSpace(body.String()))
	} else {
		renderListItems(dec, start.Name, out)
	}
	out.WriteString("</" + name + ">")
}

// renderListItems walks the children of an ol/ul, keeping only li.
func renderListItems(dec *xml.Decoder, parent xml.Name, out *strings.Builder) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "li" {
				var body strings.Builder
				renderInline(dec, t.Name, &body)
				out.WriteString("<li>" + strings.TrimSpace(body.String()) + "</li>")
			} else {
				_ = dec.Skip()
			}
		case xml.EndElement:
			if t.Name == parent {
				return
			}
		}
	}
}

// renderInline writes the mixed content of a p or li, escaping text and
// keeping only whitelisted inline elements. Unknown elements are dropped
// with their entire subtree.
func renderInline(dec *xml.Decoder, parent xml.Name, out *strings.Builder) {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.CharData:
			out.WriteString(xmlEscape(collapseSpace(string(t))))
		case xml.StartElement:
			if descriptionInline[t.Name.Local] {
				out.WriteString("<" + t.Name.Local + ">")
				depth++
			} else {
				_ = dec.Skip()
			}
		case xml.EndElement:
			if t.Name == parent && depth == 0 {
				return
			}
			if descriptionInline[t.Name.Local] && depth > 0 {
				out.WriteString("</" + t.Name.Local + ">")
				depth--
			}
		}
	}
}

// collapseSpace folds runs of whitespace into single spaces, preserving a
// single boundary space so that text around inline elements keeps its
// separation ("uses <em>pens</em> too").
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// sanitizeDescriptionFragment re-parses a stored fragment so that no raw
// markup beyond the whitelist ever reaches serialized output, even when a
// caller set Description directly instead of going through the parser.
func sanitizeDescriptionFragment(fragment string) string {
	lt := models.LocalizedText{}
	parseDescriptionMarkup(fragment, "C", lt)
	return lt.Get("C")
}
