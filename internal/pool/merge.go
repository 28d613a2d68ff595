// Package pool maintains the merged, queryable set of components built
// from all configured metadata locations. Refreshing a pool parses every
// source, merges components sharing an id by precedence, persists the
// result together with a source fingerprint, and publishes an immutable
// query snapshot.
package pool

import (
	"sort"

	"freedesktop.org/appstream/models"
)

// Candidate is one parsed component together with the precedence data of
// the source it came from. seq is the ingestion order and breaks ties so
// that merging is deterministic regardless of map iteration.
type Candidate struct {
	Component *models.Component
	Priority  int
	Source    models.SourceKind
	seq       int
}

// Merge combines all candidates into one component per id. Precedence is
// source priority first, then source kind, then ingestion order; the
// winner becomes the base and lower-precedence candidates only fill in
// data the base lacks. Merge-kind components never become a base, they
// only inject into an existing one. Inputs are never mutated.
func Merge(candidates []Candidate) map[string]*models.Component {
	byID := make(map[string][]Candidate)
	for _, cand := range candidates {
		if !cand.Component.IsValid() {
			continue
		}
		byID[cand.Component.ID] = append(byID[cand.Component.ID], cand)
	}

	out := make(map[string]*models.Component, len(byID))
	for id, cands := range byID {
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].Priority != cands[j].Priority {
				return cands[i].Priority > cands[j].Priority
			}
			if cands[i].Source != cands[j].Source {
				return cands[i].Source > cands[j].Source
			}
			return cands[i].seq < cands[j].seq
		})

		var base *models.Component
		var rest []Candidate
		for i, cand := range cands {
			if !cand.Component.IsMergeComponent() {
				base = cand.Component.Clone()
				base.Priority = cand.Priority
				base.Source = cand.Source
				rest = append(append([]Candidate(nil), cands[:i]...), cands[i+1:]...)
				break
			}
		}
		if base == nil {
			// Merge components with no target are dropped.
			continue
		}
		for _, cand := range rest {
			fillMissing(base, cand.Component)
		}
		out[id] = base
	}
	return out
}

// fillMissing copies data from src into dst without overwriting anything
// dst already has. Translated fields merge per locale; set-like fields
// take the union.
func fillMissing(dst, src *models.Component) {
	dst.Name.MergeMissing(src.Name)
	dst.Summary.MergeMissing(src.Summary)
	dst.Description.MergeMissing(src.Description)
	dst.DeveloperName.MergeMissing(src.DeveloperName)

	if dst.ProjectLicense == "" {
		dst.ProjectLicense = src.ProjectLicense
	}
	if dst.MetadataLicense == "" {
		dst.MetadataLicense = src.MetadataLicense
	}
	if dst.ProjectGroup == "" {
		dst.ProjectGroup = src.ProjectGroup
	}
	if len(dst.PackageNames) == 0 {
		dst.PackageNames = append([]string(nil), src.PackageNames...)
	}
	for _, b := range src.Bundles {
		if _, ok := dst.BundleID(b.Kind); !ok {
			dst.Bundles = append(dst.Bundles, b)
		}
	}
	for _, ext := range src.Extends {
		addUnique(&dst.Extends, ext)
	}
	for _, cat := range src.Categories {
		dst.AddCategory(cat)
	}
	for locale, words := range src.Keywords {
		if _, ok := dst.Keywords[locale]; !ok {
			for _, w := range words {
				dst.AddKeyword(locale, w)
			}
		}
	}
	for kind, url := range src.URLs {
		if _, ok := dst.URLs[kind]; !ok {
			dst.SetURL(kind, url)
		}
	}
	for _, d := range src.CompulsoryForDesktops {
		addUnique(&dst.CompulsoryForDesktops, d)
	}
	for _, ic := range src.Icons {
		dst.AddIcon(ic)
	}
	for _, p := range src.Provided {
		dst.AddProvided(p)
	}
	if len(dst.Screenshots) == 0 {
		for _, s := range src.Screenshots {
			dst.Screenshots = append(dst.Screenshots, s.Clone())
		}
	}
	if len(dst.Releases) == 0 {
		for _, r := range src.Releases {
			dst.Releases = append(dst.Releases, r.Clone())
		}
	}
	if len(dst.Relations) == 0 {
		dst.Relations = append([]models.Relation(nil), src.Relations...)
	}
	if len(dst.Launch) == 0 {
		for _, l := range src.Launch {
			dst.Launch = append(dst.Launch, l.Clone())
		}
	}
	if len(dst.Branding) == 0 {
		dst.Branding = append([]models.BrandingColor(nil), src.Branding...)
	}
	if len(dst.Translations) == 0 {
		dst.Translations = append([]models.Translation(nil), src.Translations...)
	}
	if dst.Origin == "" {
		dst.Origin = src.Origin
	}
	if dst.Architecture == "" {
		dst.Architecture = src.Architecture
	}
}

func addUnique(list *[]string, value string) {
	if value == "" {
		return
	}
	for _, v := range *list {
		if v == value {
			return
		}
	}
	*list = append(*list, value)
}
