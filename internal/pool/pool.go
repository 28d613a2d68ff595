package pool

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"freedesktop.org/appstream/internal/cache"
	"freedesktop.org/appstream/internal/metadata"
	"freedesktop.org/appstream/internal/search"
	"freedesktop.org/appstream/models"
)

// Source is one metadata location feeding the pool: a directory (scanned
// recursively) or a single file. Kind and Priority decide merge
// precedence for components found there.
type Source struct {
	Path     string
	Kind     models.SourceKind
	Priority int
}

// Options configures a pool.
type Options struct {
	Sources []Source

	// CachePath and FingerprintPath locate the persisted pool state.
	// Empty paths disable persistence.
	CachePath       string
	FingerprintPath string

	// Locale selects the stemmer for the search index.
	Locale string

	// Index is the text index implementation; nil means the in-memory
	// index.
	Index search.TextIndex
}

// RefreshOutcome is the three-way result of a refresh: everything loaded,
// loaded with some documents or components skipped, or nothing usable.
type RefreshOutcome int

const (
	RefreshFailed RefreshOutcome = iota
	RefreshFullSuccess
	RefreshPartialSuccess
)

func (o RefreshOutcome) String() string {
	switch o {
	case RefreshFullSuccess:
		return "success"
	case RefreshPartialSuccess:
		return "success-with-omissions"
	default:
		return "failed"
	}
}

// RefreshResult reports what a refresh did.
type RefreshResult struct {
	Outcome    RefreshOutcome
	Components int
	FromCache  bool
	Warnings   []string
}

type providedKey struct {
	kind  models.ProvidedKind
	value string
}

// Snapshot is an immutable view of the merged pool. Queries running
// against a snapshot are unaffected by concurrent refreshes.
type Snapshot struct {
	components []*models.Component
	byID       map[string]*models.Component
	byProvided map[providedKey][]*models.Component
	byCategory map[string][]*models.Component
}

// Pool loads, merges and indexes components from the configured sources.
// All query methods operate on the snapshot published by the most recent
// successful Refresh and are safe for concurrent use.
type Pool struct {
	opts     Options
	stemmer  *search.Stemmer
	index    search.TextIndex
	snapshot atomic.Pointer[Snapshot]
}

// New creates a pool. Call Refresh before querying.
func New(opts Options) *Pool {
	idx := opts.Index
	if idx == nil {
		idx = search.NewMemoryIndex()
	}
	return &Pool{
		opts:    opts,
		stemmer: search.NewStemmer(opts.Locale),
		index:   idx,
	}
}

// Close releases the search index.
func (p *Pool) Close() error {
	return p.index.Close()
}

func (p *Pool) watchedPaths() []string {
	paths := make([]string, len(p.opts.Sources))
	for i, s := range p.opts.Sources {
		paths[i] = s.Path
	}
	return paths
}

// Refresh rebuilds the pool from its sources. With force false, a valid
// cache whose fingerprint still matches the sources is loaded instead of
// re-parsing. Per-document failures are omissions, not errors; only an
// unusable result or a failure to persist it is.
func (p *Pool) Refresh(ctx context.Context, force bool) (*RefreshResult, error) {
	if !force {
		if res := p.tryLoadCache(); res != nil {
			return res, nil
		}
	}

	// Stat the sources before reading them so that an update racing the
	// refresh makes the next staleness check fail rather than pass.
	fingerprint := cache.ComputeFingerprint(p.watchedPaths())

	result := &RefreshResult{}
	var candidates []Candidate
	seq := 0
	sourcesRead := 0
	for _, src := range p.opts.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := metadataFiles(src.Path)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping source %s: %v", src.Path, err))
			continue
		}
		sourcesRead++
		for _, file := range files {
			parsed, err := metadata.ParseFile(file)
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("skipping %s: %v", file, err))
				continue
			}
			result.Warnings = append(result.Warnings, parsed.Warnings...)
			for _, c := range parsed.Components {
				if c.Origin == "" {
					c.Origin = parsed.Origin
				}
				if c.Architecture == "" {
					c.Architecture = parsed.Architecture
				}
				c.Source = src.Kind
				candidates = append(candidates, Candidate{
					Component: c,
					Priority:  src.Priority + c.Priority,
					Source:    src.Kind,
					seq:       seq,
				})
				seq++
			}
		}
	}
	if sourcesRead == 0 && len(p.opts.Sources) > 0 {
		result.Outcome = RefreshFailed
		return result, fmt.Errorf("no metadata source could be read (%d configured)", len(p.opts.Sources))
	}

	merged := Merge(candidates)
	components := make([]*models.Component, 0, len(merged))
	for _, c := range merged {
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool { return components[i].ID < components[j].ID })

	if p.opts.CachePath != "" {
		if err := cache.Write(p.opts.CachePath, components); err != nil {
			result.Outcome = RefreshFailed
			return result, err
		}
	}
	if p.opts.FingerprintPath != "" {
		if err := fingerprint.Save(p.opts.FingerprintPath); err != nil {
			result.Outcome = RefreshFailed
			return result, err
		}
	}

	if err := p.publish(components); err != nil {
		result.Outcome = RefreshFailed
		return result, err
	}

	result.Components = len(components)
	if len(result.Warnings) > 0 {
		result.Outcome = RefreshPartialSuccess
	} else {
		result.Outcome = RefreshFullSuccess
	}
	return result, nil
}

// tryLoadCache loads the persisted pool if the fingerprint says the
// sources have not changed. Any problem just means "rebuild".
func (p *Pool) tryLoadCache() *RefreshResult {
	if p.opts.CachePath == "" || p.opts.FingerprintPath == "" {
		return nil
	}
	recorded, err := cache.LoadFingerprint(p.opts.FingerprintPath)
	if err != nil || cache.IsStale(recorded, p.watchedPaths()) {
		return nil
	}
	store, err := cache.Open(p.opts.CachePath)
	if err != nil {
		// Missing or version-mismatched cache both fall back to a
		// rebuild.
		return nil
	}
	defer store.Close()
	components, err := store.LoadAll()
	if err != nil {
		return nil
	}
	if err := p.publish(components); err != nil {
		return nil
	}
	return &RefreshResult{
		Outcome:    RefreshFullSuccess,
		Components: len(components),
		FromCache:  true,
	}
}

// publish builds the lookup tables and the search index and swaps the new
// snapshot in.
func (p *Pool) publish(components []*models.Component) error {
	snap := &Snapshot{
		components: components,
		byID:       make(map[string]*models.Component, len(components)),
		byProvided: make(map[providedKey][]*models.Component),
		byCategory: make(map[string][]*models.Component),
	}
	docs := make([]search.Document, 0, len(components))
	for _, c := range components {
		snap.byID[c.ID] = c
		for _, item := range c.Provided {
			key := providedKey{kind: item.Kind, value: item.Value}
			snap.byProvided[key] = append(snap.byProvided[key], c)
		}
		for _, cat := range c.Categories {
			snap.byCategory[cat] = append(snap.byCategory[cat], c)
		}
		docs = append(docs, search.Document{
			ID:     c.ID,
			Tokens: search.Tokenize(c, p.opts.Locale, p.stemmer),
		})
	}
	if err := p.index.Index(docs); err != nil {
		return fmt.Errorf("rebuilding search index: %w", err)
	}
	p.snapshot.Store(snap)
	return nil
}

// ErrNotRefreshed is returned by queries before the first successful
// Refresh.
var ErrNotRefreshed = errors.New("pool has not been refreshed")

func (p *Pool) current() (*Snapshot, error) {
	snap := p.snapshot.Load()
	if snap == nil {
		return nil, ErrNotRefreshed
	}
	return snap, nil
}

// All returns every component, sorted by id.
func (p *Pool) All() ([]*models.Component, error) {
	snap, err := p.current()
	if err != nil {
		return nil, err
	}
	return snap.components, nil
}

// ByID returns the component with the given id, or nil.
func (p *Pool) ByID(id string) (*models.Component, error) {
	snap, err := p.current()
	if err != nil {
		return nil, err
	}
	return snap.byID[id], nil
}

// ByProvided returns all components providing the given item.
func (p *Pool) ByProvided(kind models.ProvidedKind, value string) ([]*models.Component, error) {
	snap, err := p.current()
	if err != nil {
		return nil, err
	}
	return snap.byProvided[providedKey{kind: kind, value: value}], nil
}

// ByCategories returns components filed under any of the given
// categories, sorted by id.
func (p *Pool) ByCategories(categories ...string) ([]*models.Component, error) {
	snap, err := p.current()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []*models.Component
	for _, cat := range categories {
		for _, c := range snap.byCategory[cat] {
			if !seen[c.ID] {
				seen[c.ID] = true
				out = append(out, c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Search runs a ranked full-text query over the indexed components.
func (p *Pool) Search(query string) ([]*models.Component, error) {
	snap, err := p.current()
	if err != nil {
		return nil, err
	}
	tokens := search.TokenizeQuery(query, p.stemmer)
	if len(tokens) == 0 {
		return nil, nil
	}
	matches, err := p.index.Search(tokens)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Component, 0, len(matches))
	for _, m := range matches {
		if c, ok := snap.byID[m.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// metadataFiles lists the metadata documents under a source path. A file
// path is returned as-is; a directory is scanned recursively for XML and
// YAML documents, compressed or not.
func metadataFiles(path string) ([]string, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isMetadataFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func isMetadataFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	switch filepath.Ext(name) {
	case ".xml", ".yml", ".yaml":
		return true
	}
	return false
}
