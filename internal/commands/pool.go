package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"freedesktop.org/appstream/internal/config"
	"freedesktop.org/appstream/internal/pool"
	"freedesktop.org/appstream/internal/search"
	"freedesktop.org/appstream/models"
)

// poolSources maps the configured path groups to pool sources with their
// configured merge precedence.
func poolSources(cfg *config.Config) []pool.Source {
	var sources []pool.Source
	for _, dir := range cfg.Paths.CatalogDirs {
		sources = append(sources, pool.Source{
			Path:     dir,
			Kind:     models.SourceKindOSCatalog,
			Priority: cfg.Paths.CatalogPriority,
		})
	}
	for _, dir := range cfg.Paths.FlatpakDirs {
		sources = append(sources, pool.Source{
			Path:     dir,
			Kind:     models.SourceKindFlatpak,
			Priority: cfg.Paths.FlatpakPriority,
		})
	}
	for _, dir := range cfg.Paths.MetainfoDirs {
		sources = append(sources, pool.Source{
			Path:     dir,
			Kind:     models.SourceKindMetainfo,
			Priority: cfg.Paths.MetainfoPriority,
		})
	}
	return sources
}

// newPool builds a pool from the loaded configuration.
func newPool(cfg *config.Config) (*pool.Pool, error) {
	var index search.TextIndex
	if cfg.Search.Backend == "fts" {
		fts, err := search.OpenFTSIndex(filepath.Join(cfg.Cache.Dir, "search.db"))
		if err != nil {
			return nil, fmt.Errorf("opening search index: %w", err)
		}
		index = fts
	}
	return pool.New(pool.Options{
		Sources:         poolSources(cfg),
		CachePath:       cfg.Cache.ComponentsPath(),
		FingerprintPath: cfg.Cache.FingerprintPath(),
		Locale:          cfg.Locale.Active(),
		Index:           index,
	}), nil
}

// loadPool builds the pool and refreshes it, printing warnings to
// stderr. Most read commands go through here with force false so an
// up-to-date cache is used as-is.
func loadPool(ctx context.Context, force bool) (*pool.Pool, *pool.RefreshResult, error) {
	p, err := newPool(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := p.Refresh(ctx, force)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return p, res, nil
}
