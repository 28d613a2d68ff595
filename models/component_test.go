package models

import "testing"

func TestComponent_IsValid(t *testing.T) {
	c := NewComponent(ComponentKindDesktopApp)
	if c.IsValid() {
		t.Error("component without id must be invalid")
	}

	c.ID = "org.example.Foo"
	if !c.IsValid() {
		t.Error("component with id and kind must be valid")
	}

	c.Kind = ComponentKindUnknown
	if c.IsValid() {
		t.Error("component of unknown kind must be invalid")
	}
}

func TestComponent_IconPrecedence(t *testing.T) {
	// Remote never overrides an existing cached icon.
	c := NewComponent(ComponentKindDesktopApp)
	c.AddIcon(Icon{Kind: IconKindCached, Value: "foo.png"})
	c.AddIcon(Icon{Kind: IconKindRemote, Value: "http://example.com/foo.png"})

	ic := c.PreferredIcon()
	if ic == nil || ic.Value != "foo.png" {
		t.Fatalf("expected cached icon to survive remote, got %+v", ic)
	}

	// A local icon always wins, even over an earlier cached one.
	c = NewComponent(ComponentKindDesktopApp)
	c.AddIcon(Icon{Kind: IconKindRemote, Value: "http://example.com/foo.png"})
	c.AddIcon(Icon{Kind: IconKindLocal, Value: "/usr/share/icons/foo.png"})

	ic = c.PreferredIcon()
	if ic == nil || ic.Value != "/usr/share/icons/foo.png" {
		t.Fatalf("expected local icon to win, got %+v", ic)
	}

	// Cached upgrades a remote-only slot.
	c = NewComponent(ComponentKindDesktopApp)
	c.AddIcon(Icon{Kind: IconKindRemote, Value: "http://example.com/foo.png"})
	c.AddIcon(Icon{Kind: IconKindCached, Value: "foo_64.png"})

	ic = c.PreferredIcon()
	if ic == nil || ic.Value != "foo_64.png" {
		t.Fatalf("expected cached icon to upgrade remote, got %+v", ic)
	}
}

func TestComponent_PreferredIconRecomputed(t *testing.T) {
	// After a round-trip through a serialized form only the icon list
	// survives; the preference slot must be recomputed on demand.
	c := &Component{
		Kind: ComponentKindDesktopApp,
		ID:   "org.example.Foo",
		Icons: []Icon{
			{Kind: IconKindRemote, Value: "http://example.com/a.png"},
			{Kind: IconKindCached, Value: "a.png"},
		},
	}
	ic := c.PreferredIcon()
	if ic == nil || ic.Kind != IconKindCached {
		t.Fatalf("expected recomputed cached icon, got %+v", ic)
	}
}

func TestComponent_AddProvidedDeduplicates(t *testing.T) {
	c := NewComponent(ComponentKindGeneric)
	c.AddProvided(ProvidedItem{Kind: ProvidedKindBinary, Value: "foo"})
	c.AddProvided(ProvidedItem{Kind: ProvidedKindBinary, Value: "foo"})
	c.AddProvided(ProvidedItem{Kind: ProvidedKindLibrary, Value: "foo"})

	if len(c.Provided) != 2 {
		t.Errorf("expected 2 provided items, got %d: %+v", len(c.Provided), c.Provided)
	}
}

func TestComponent_CloneIsDeep(t *testing.T) {
	c := NewComponent(ComponentKindDesktopApp)
	c.ID = "org.example.Foo"
	c.Name.Set("C", "Foo")
	c.AddCategory("Graphics")
	c.AddKeyword("C", "paint")
	c.Screenshots = []Screenshot{{Caption: LocalizedText{"C": "main window"}}}

	clone := c.Clone()
	clone.Name.Set("C", "Bar")
	clone.Categories[0] = "Office"
	clone.Keywords["C"][0] = "draw"
	clone.Screenshots[0].Caption.Set("C", "other")

	if c.Name.Get("C") != "Foo" {
		t.Error("clone shares Name map with original")
	}
	if c.Categories[0] != "Graphics" {
		t.Error("clone shares Categories slice with original")
	}
	if c.Keywords["C"][0] != "paint" {
		t.Error("clone shares Keywords with original")
	}
	if c.Screenshots[0].Caption.Get("C") != "main window" {
		t.Error("clone shares screenshot caption with original")
	}
}

func TestComponent_KeywordsForFallsBack(t *testing.T) {
	c := NewComponent(ComponentKindDesktopApp)
	c.AddKeyword("C", "browser")
	c.AddKeyword("de", "netz")

	kw := c.KeywordsFor("de_DE")
	if len(kw) != 1 || kw[0] != "netz" {
		t.Errorf("expected de keywords for de_DE, got %v", kw)
	}

	kw = c.KeywordsFor("fr")
	if len(kw) != 1 || kw[0] != "browser" {
		t.Errorf("expected C keywords for fr, got %v", kw)
	}
}
