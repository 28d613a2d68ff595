package search

import "sort"

// Document is one component's token list as fed into a text index.
type Document struct {
	ID     string
	Tokens []string
}

// Match is one ranked search hit.
type Match struct {
	ID    string
	Score float64
}

// TextIndex is the boundary to the full-text engine. The pool feeds token
// lists in at build time and issues ranked queries; ranking itself is the
// index's business. Implementations must tolerate Search before Index
// (empty result) and must be safe for concurrent Search calls once Index
// has returned.
type TextIndex interface {
	// Index replaces the whole index content with the given documents.
	Index(docs []Document) error

	// Search returns matches for the (already tokenized) query, best
	// first. Ties are broken by id for stable output.
	Search(tokens []string) ([]Match, error)

	Close() error
}

// MemoryIndex is the default TextIndex: a token -> id -> term-frequency
// table ranked by summed frequency. It has no persistence; the pool
// rebuilds it from the cache on startup.
type MemoryIndex struct {
	postings map[string]map[string]int
}

// NewMemoryIndex returns an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{postings: map[string]map[string]int{}}
}

// Index replaces the index content.
func (m *MemoryIndex) Index(docs []Document) error {
	postings := map[string]map[string]int{}
	for _, doc := range docs {
		for _, tok := range doc.Tokens {
			ids := postings[tok]
			if ids == nil {
				ids = map[string]int{}
				postings[tok] = ids
			}
			ids[doc.ID]++
		}
	}
	m.postings = postings
	return nil
}

// Search ranks by the number of matched query tokens, then total term
// frequency, then id.
func (m *MemoryIndex) Search(tokens []string) ([]Match, error) {
	type hit struct {
		matched int
		freq    int
	}
	hits := map[string]*hit{}
	for _, tok := range tokens {
		for id, freq := range m.postings[tok] {
			h := hits[id]
			if h == nil {
				h = &hit{}
				hits[id] = h
			}
			h.matched++
			h.freq += freq
		}
	}

	out := make([]Match, 0, len(hits))
	for id, h := range hits {
		out = append(out, Match{ID: id, Score: float64(h.matched)*1000 + float64(h.freq)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Close is a no-op for the in-memory index.
func (m *MemoryIndex) Close() error { return nil }
