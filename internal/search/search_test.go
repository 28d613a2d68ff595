package search

import (
	"reflect"
	"testing"

	"freedesktop.org/appstream/models"
)

func TestStemmer_EnglishStemsTokens(t *testing.T) {
	st := NewStemmer("en_US")
	if st.Stem("drawing") != st.Stem("draw") {
		t.Errorf("expected 'drawing' and 'draw' to share a stem, got %q vs %q",
			st.Stem("drawing"), st.Stem("draw"))
	}
}

func TestStemmer_UnsupportedLocaleIsIdentity(t *testing.T) {
	st := NewStemmer("ja_JP")
	if got := st.Stem("drawing"); got != "drawing" {
		t.Errorf("unstemmable locale must fall back to exact tokens, got %q", got)
	}
}

func TestTokenize(t *testing.T) {
	c := models.NewComponent(models.ComponentKindDesktopApp)
	c.ID = "org.example.Paint"
	c.Name.Set("C", "Paint")
	c.Summary.Set("C", "Draw colorful pictures")
	c.Description.Set("C", "<p>Paint lets you <em>draw</em>.</p>")
	c.AddKeyword("C", "graphics")

	tokens := Tokenize(c, "en", NewStemmer("en"))

	want := map[string]bool{}
	st := NewStemmer("en")
	for _, w := range []string{"org", "example", "paint", "draw", "colorful", "pictures", "lets", "you", "graphics"} {
		want[st.Stem(w)] = true
	}
	got := map[string]bool{}
	for _, tok := range tokens {
		got[tok] = true
	}
	for tok := range want {
		if !got[tok] {
			t.Errorf("missing token %q in %v", tok, tokens)
		}
	}
	if got["p"] || got["em"] {
		t.Errorf("markup leaked into tokens: %v", tokens)
	}
}

func TestMemoryIndex_RankedSearch(t *testing.T) {
	idx := NewMemoryIndex()
	err := idx.Index([]Document{
		{ID: "org.example.A", Tokens: []string{"paint", "draw", "paint"}},
		{ID: "org.example.B", Tokens: []string{"paint"}},
		{ID: "org.example.C", Tokens: []string{"editor"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	matches, err := idx.Search([]string{"paint", "draw"})
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	if !reflect.DeepEqual(ids, []string{"org.example.A", "org.example.B"}) {
		t.Errorf("wrong ranking: %v", ids)
	}
}

func TestMemoryIndex_SearchBeforeIndex(t *testing.T) {
	idx := NewMemoryIndex()
	matches, err := idx.Search([]string{"anything"})
	if err != nil || len(matches) != 0 {
		t.Errorf("empty index must return no matches, got %v (%v)", matches, err)
	}
}

func TestMemoryIndex_IndexReplacesContent(t *testing.T) {
	idx := NewMemoryIndex()
	_ = idx.Index([]Document{{ID: "org.example.Old", Tokens: []string{"stale"}}})
	_ = idx.Index([]Document{{ID: "org.example.New", Tokens: []string{"fresh"}}})

	if m, _ := idx.Search([]string{"stale"}); len(m) != 0 {
		t.Errorf("old content must be gone after re-index, got %v", m)
	}
	if m, _ := idx.Search([]string{"fresh"}); len(m) != 1 || m[0].ID != "org.example.New" {
		t.Errorf("new content missing: %v", m)
	}
}

func TestFTSIndex(t *testing.T) {
	idx, err := OpenFTSIndex(":memory:")
	if err != nil {
		t.Fatalf("open fts index: %v", err)
	}
	defer idx.Close()

	err = idx.Index([]Document{
		{ID: "org.example.A", Tokens: []string{"paint", "draw"}},
		{ID: "org.example.B", Tokens: []string{"editor", "text"}},
	})
	if err != nil {
		t.Fatalf("index: %v", err)
	}

	matches, err := idx.Search([]string{"paint"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "org.example.A" {
		t.Errorf("wrong fts matches: %+v", matches)
	}

	if m, err := idx.Search(nil); err != nil || m != nil {
		t.Errorf("empty query must return nothing, got %v (%v)", m, err)
	}
}
