package metadata

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"freedesktop.org/appstream/models"
)

const sampleMetainfo = `<?xml version="1.0" encoding="UTF-8"?>
<component type="desktop-application">
  <id>org.example.Paint</id>
  <pkgname>example-paint</pkgname>
  <metadata_license>FSFAP</metadata_license>
  <project_license>GPL-3.0-or-later</project_license>
  <name>Paint</name>
  <name xml:lang="de">Malen</name>
  <summary>Draw colorful pictures</summary>
  <summary xml:lang="de">Bunte Bilder malen</summary>
  <description>
    <p>Paint lets you draw with <em>pens</em> and brushes.</p>
    <ul>
      <li>Layers</li>
      <li>Filters</li>
    </ul>
  </description>
  <icon type="cached" width="64" height="64">paint_64.png</icon>
  <icon type="remote">https://example.com/paint.png</icon>
  <categories>
    <category>Graphics</category>
    <category>2DGraphics</category>
  </categories>
  <keywords>
    <keyword>drawing</keyword>
    <keyword xml:lang="de">malen</keyword>
  </keywords>
  <url type="homepage">https://example.com/paint</url>
  <launchable type="desktop-id">org.example.Paint.desktop</launchable>
  <provides>
    <binary>paint</binary>
    <mediatype>image/png</mediatype>
    <dbus type="user">org.example.Paint</dbus>
  </provides>
  <requires>
    <kernel version="5.10" compare="ge">Linux</kernel>
  </requires>
  <releases>
    <release version="1.2.0" type="stable" timestamp="1672531200">
      <description><p>Bug fixes.</p></description>
    </release>
  </releases>
  <screenshots>
    <screenshot type="default">
      <caption>The main window</caption>
      <image type="source" width="1600" height="900">https://example.com/shot.png</image>
    </screenshot>
  </screenshots>
</component>
`

func TestParseXML_Metainfo(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleMetainfo), "paint.metainfo.xml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(res.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(res.Components))
	}
	c := res.Components[0]

	if c.ID != "org.example.Paint" {
		t.Errorf("wrong id: %q", c.ID)
	}
	if c.Kind != models.ComponentKindDesktopApp {
		t.Errorf("wrong kind: %q", c.Kind)
	}
	if got := c.Name.ResolveOrEmpty("de_DE"); got != "Malen" {
		t.Errorf("wrong german name: %q", got)
	}
	if got := c.Summary.ResolveOrEmpty("fr"); got != "Draw colorful pictures" {
		t.Errorf("expected C summary fallback, got %q", got)
	}

	desc := c.Description.Get("C")
	if !strings.Contains(desc, "<p>Paint lets you draw with <em>pens</em> and brushes.</p>") {
		t.Errorf("description paragraph not normalized: %q", desc)
	}
	if !strings.Contains(desc, "<ul><li>Layers</li><li>Filters</li></ul>") {
		t.Errorf("description list not normalized: %q", desc)
	}

	ic := c.PreferredIcon()
	if ic == nil || ic.Value != "paint_64.png" {
		t.Errorf("remote icon must not override cached, got %+v", ic)
	}

	if !c.HasCategory("Graphics") || !c.HasCategory("2DGraphics") {
		t.Errorf("categories missing: %v", c.Categories)
	}
	if kw := c.KeywordsFor("de"); len(kw) != 1 || kw[0] != "malen" {
		t.Errorf("wrong de keywords: %v", kw)
	}
	if c.URLs["homepage"] != "https://example.com/paint" {
		t.Errorf("wrong homepage: %v", c.URLs)
	}

	wantProvided := []models.ProvidedItem{
		{Kind: models.ProvidedKindBinary, Value: "paint"},
		{Kind: models.ProvidedKindMimetype, Value: "image/png"},
		{Kind: models.ProvidedKindDBusUser, Value: "org.example.Paint"},
	}
	if !reflect.DeepEqual(c.Provided, wantProvided) {
		t.Errorf("wrong provided items: %+v", c.Provided)
	}

	if len(c.Relations) != 1 || c.Relations[0].ItemKind != models.RelationItemKindKernel ||
		c.Relations[0].Compare != models.CompareGe || c.Relations[0].Version != "5.10" {
		t.Errorf("wrong relations: %+v", c.Relations)
	}

	if len(c.Releases) != 1 || c.Releases[0].Version != "1.2.0" || c.Releases[0].Timestamp != 1672531200 {
		t.Errorf("wrong releases: %+v", c.Releases)
	}
	if len(c.Screenshots) != 1 || !c.Screenshots[0].Default ||
		len(c.Screenshots[0].Images) != 1 || c.Screenshots[0].Images[0].Width != 1600 {
		t.Errorf("wrong screenshots: %+v", c.Screenshots)
	}
}

func TestParseXML_WrongRootElement(t *testing.T) {
	_, err := Parse(strings.NewReader("<catalog><x/></catalog>"), "bad.xml")
	if err == nil {
		t.Fatal("expected document error for wrong root element")
	}
	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected *DocumentError, got %T", err)
	}
	if !errors.Is(err, ErrMalformedDocument) {
		t.Error("document errors must match ErrMalformedDocument")
	}
}

func TestParseXML_CatalogPartialFailure(t *testing.T) {
	catalog := `<?xml version="1.0"?>
<components version="0.8" origin="tuxdistro-main">
  <component type="generic"><id>org.example.A</id><name>A</name></component>
  <component type="generic"><name>no id here</name></component>
  <component type="generic"><id>org.example.B</id><name>B</name></component>
  <component type="generic"><id>org.example.C</id><name>C</name></component>
</components>`

	res, err := Parse(strings.NewReader(catalog), "catalog.xml")
	if err != nil {
		t.Fatalf("catalog with one bad component must not hard-fail: %v", err)
	}
	if res.Origin != "tuxdistro-main" {
		t.Errorf("wrong origin: %q", res.Origin)
	}
	if len(res.Components) != 3 {
		t.Errorf("expected 3 valid components, got %d", len(res.Components))
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the dropped component")
	}
}

func TestParseXML_DuplicateLocalizedEntryLastWins(t *testing.T) {
	doc := `<component type="generic">
  <id>org.example.Dup</id>
  <name>First</name>
  <name>Second</name>
  <name xml:lang="de">Erste</name>
  <name xml:lang="de">Zweite</name>
</component>`
	res, err := Parse(strings.NewReader(doc), "dup.metainfo.xml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	c := res.Components[0]
	if got := c.Name.Get("C"); got != "Second" {
		t.Errorf("expected last untranslated entry to win, got %q", got)
	}
	if got := c.Name.Get("de"); got != "Zweite" {
		t.Errorf("expected last de entry to win, got %q", got)
	}
}

func TestParseXML_DescriptionDropsUnknownMarkup(t *testing.T) {
	doc := `<component type="generic">
  <id>org.example.Evil</id>
  <description><p>safe &amp; sound</p><script>alert(1)</script></description>
</component>`
	res, err := Parse(strings.NewReader(doc), "evil.metainfo.xml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	desc := res.Components[0].Description.Get("C")
	if strings.Contains(desc, "script") {
		t.Errorf("unknown markup leaked into description: %q", desc)
	}
	if !strings.Contains(desc, "safe &amp; sound") {
		t.Errorf("text content not preserved/escaped: %q", desc)
	}
}

func TestMetainfoRoundTrip(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleMetainfo), "paint.metainfo.xml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	original := res.Components[0]

	out := SerializeMetainfo(original)
	res2, err := Parse(strings.NewReader(string(out)), "roundtrip.metainfoxml.xml")
	if err != nil {
		t.Fatalf("reparse failed: %v\n%s", err, out)
	}
	assertComponentsEqual(t, original, res2.Components[0])
}

func TestCatalogXMLRoundTrip(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleMetainfo), "paint.metainfo.xml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	original := res.Components[0]
	original.Priority = 5

	out := SerializeCatalogXML([]*models.Component{original}, "tuxdistro-main", "amd64")
	res2, err := Parse(strings.NewReader(string(out)), "catalog.xml")
	if err != nil {
		t.Fatalf("reparse failed: %v\n%s", err, out)
	}
	if res2.Origin != "tuxdistro-main" || res2.Architecture != "amd64" {
		t.Errorf("header lost: origin=%q arch=%q", res2.Origin, res2.Architecture)
	}
	assertComponentsEqual(t, original, res2.Components[0])
}

// assertComponentsEqual compares the serializable projection of two
// components, which sidesteps nil-vs-empty container differences and
// unexported bookkeeping.
func assertComponentsEqual(t *testing.T, want, got *models.Component) {
	t.Helper()
	wantJSON, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal want: %v", err)
	}
	gotJSON, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal got: %v", err)
	}
	var wantAny, gotAny interface{}
	if err := json.Unmarshal(wantJSON, &wantAny); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(gotJSON, &gotAny); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(wantAny, gotAny) {
		t.Errorf("components differ:\nwant: %s\ngot:  %s", wantJSON, gotJSON)
	}
}
