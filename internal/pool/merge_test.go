package pool

import (
	"testing"

	"freedesktop.org/appstream/models"
)

func desktopApp(id string) *models.Component {
	c := models.NewComponent(models.ComponentKindDesktopApp)
	c.ID = id
	return c
}

func TestMerge_HigherPriorityWins(t *testing.T) {
	low := desktopApp("org.example.App")
	low.Name.Set("C", "Old Name")
	low.Summary.Set("C", "Only the low source has a summary")
	high := desktopApp("org.example.App")
	high.Name.Set("C", "New Name")

	merged := Merge([]Candidate{
		{Component: low, Priority: 0, Source: models.SourceKindOSCatalog, seq: 0},
		{Component: high, Priority: 10, Source: models.SourceKindOSCatalog, seq: 1},
	})

	c := merged["org.example.App"]
	if c == nil {
		t.Fatal("component missing after merge")
	}
	if got := c.Name.ResolveOrEmpty("C"); got != "New Name" {
		t.Errorf("base must come from the higher-priority source, got name %q", got)
	}
	if got := c.Summary.ResolveOrEmpty("C"); got != "Only the low source has a summary" {
		t.Errorf("missing fields must be filled from lower sources, got %q", got)
	}
}

func TestMerge_SourceKindBreaksPriorityTie(t *testing.T) {
	catalog := desktopApp("org.example.App")
	catalog.Name.Set("C", "From Catalog")
	metainfo := desktopApp("org.example.App")
	metainfo.Name.Set("C", "From Metainfo")

	merged := Merge([]Candidate{
		{Component: catalog, Priority: 0, Source: models.SourceKindOSCatalog, seq: 0},
		{Component: metainfo, Priority: 0, Source: models.SourceKindMetainfo, seq: 1},
	})

	if got := merged["org.example.App"].Name.ResolveOrEmpty("C"); got != "From Metainfo" {
		t.Errorf("metainfo must beat catalog data at equal priority, got %q", got)
	}
}

func TestMerge_DeterministicAcrossInputOrder(t *testing.T) {
	build := func() []Candidate {
		a := desktopApp("org.example.App")
		a.Name.Set("C", "A")
		a.AddCategory("Graphics")
		b := desktopApp("org.example.App")
		b.Name.Set("C", "B")
		b.Name.Set("de", "B auf Deutsch")
		b.AddCategory("Office")
		return []Candidate{
			{Component: a, Priority: 0, Source: models.SourceKindMetainfo, seq: 0},
			{Component: b, Priority: 0, Source: models.SourceKindMetainfo, seq: 1},
		}
	}

	cands := build()
	first := Merge(cands)["org.example.App"]
	// Same candidates presented in reverse slice order; seq still decides.
	rev := build()
	rev[0], rev[1] = rev[1], rev[0]
	second := Merge(rev)["org.example.App"]

	if first.Name.ResolveOrEmpty("C") != "A" || second.Name.ResolveOrEmpty("C") != "A" {
		t.Errorf("ingestion order must break ties: got %q and %q",
			first.Name.ResolveOrEmpty("C"), second.Name.ResolveOrEmpty("C"))
	}
	if got := first.Name.ResolveOrEmpty("de"); got != "B auf Deutsch" {
		t.Errorf("locales missing from the base must merge in, got %q", got)
	}
	if !first.HasCategory("Graphics") || !first.HasCategory("Office") {
		t.Errorf("categories must union: %v", first.Categories)
	}
}

func TestMerge_MergeComponentInjectsOnly(t *testing.T) {
	target := desktopApp("org.example.App")
	target.Name.Set("C", "App")

	inject := models.NewComponent(models.ComponentKindMerge)
	inject.ID = "org.example.App"
	inject.AddCategory("Featured")
	inject.AddKeyword("C", "curated")

	orphan := models.NewComponent(models.ComponentKindMerge)
	orphan.ID = "org.example.Nowhere"
	orphan.AddCategory("Featured")

	merged := Merge([]Candidate{
		// Higher priority than the target: must still not become a base.
		{Component: inject, Priority: 100, Source: models.SourceKindOSCatalog, seq: 0},
		{Component: target, Priority: 0, Source: models.SourceKindMetainfo, seq: 1},
		{Component: orphan, Priority: 0, Source: models.SourceKindOSCatalog, seq: 2},
	})

	c := merged["org.example.App"]
	if c == nil {
		t.Fatal("target missing")
	}
	if c.Kind != models.ComponentKindDesktopApp {
		t.Errorf("merge component must never become the base, got kind %s", c.Kind)
	}
	if !c.HasCategory("Featured") {
		t.Errorf("injected category missing: %v", c.Categories)
	}
	if kw := c.KeywordsFor("C"); len(kw) != 1 || kw[0] != "curated" {
		t.Errorf("injected keywords missing: %v", kw)
	}
	if _, ok := merged["org.example.Nowhere"]; ok {
		t.Error("merge component without a target must be dropped")
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := desktopApp("org.example.App")
	a.Name.Set("C", "A")
	b := desktopApp("org.example.App")
	b.Name.Set("de", "B")

	Merge([]Candidate{
		{Component: a, Priority: 0, Source: models.SourceKindMetainfo, seq: 0},
		{Component: b, Priority: 0, Source: models.SourceKindMetainfo, seq: 1},
	})

	if _, ok := a.Name.Resolve("de"); ok {
		t.Error("merge mutated an input component")
	}
}

func TestMerge_Idempotent(t *testing.T) {
	a := desktopApp("org.example.App")
	a.Name.Set("C", "A")
	a.AddCategory("Graphics")
	a.AddProvided(models.ProvidedItem{Kind: models.ProvidedKindBinary, Value: "app"})

	once := Merge([]Candidate{
		{Component: a, Priority: 0, Source: models.SourceKindMetainfo, seq: 0},
	})["org.example.App"]
	twice := Merge([]Candidate{
		{Component: once, Priority: once.Priority, Source: once.Source, seq: 0},
		{Component: once, Priority: once.Priority, Source: once.Source, seq: 1},
	})["org.example.App"]

	if len(twice.Categories) != 1 || len(twice.Provided) != 1 {
		t.Errorf("re-merging merged output must not duplicate data: %v %v",
			twice.Categories, twice.Provided)
	}
}

func TestMerge_InvalidCandidatesIgnored(t *testing.T) {
	invalid := models.NewComponent(models.ComponentKindDesktopApp)
	merged := Merge([]Candidate{
		{Component: invalid, Priority: 0, Source: models.SourceKindMetainfo, seq: 0},
	})
	if len(merged) != 0 {
		t.Errorf("invalid candidates must not produce components: %v", merged)
	}
}
