// Package registry maps dataset names to the API endpoints they are fetched from.
package registry

import (
	"fmt"
	"slices"

	"github.com/antzucaro/matchr"
)

type Dataset struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

// Registry is an ordered, immutable set of datasets. The zero value is empty.
type Registry struct {
	datasets []Dataset
	byName   map[string]int
}

// New validates the datasets and builds a Registry that keeps their order.
func New(datasets []Dataset) (Registry, error) {
	r := Registry{
		datasets: slices.Clone(datasets),
		byName:   make(map[string]int, len(datasets)),
	}
	for i, d := range r.datasets {
		if d.Name == "" {
			return Registry{}, fmt.Errorf("dataset %d has no name", i)
		}
		if d.Url == "" {
			return Registry{}, fmt.Errorf("dataset %q has no url", d.Name)
		}
		if _, exists := r.byName[d.Name]; exists {
			return Registry{}, fmt.Errorf("dataset %q is registered twice", d.Name)
		}
		r.byName[d.Name] = i
	}
	return r, nil
}

// Datasets returns the datasets in registration order.
func (r Registry) Datasets() []Dataset {
	return slices.Clone(r.datasets)
}

func (r Registry) Len() int {
	return len(r.datasets)
}

func (r Registry) Get(name string) (Dataset, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Dataset{}, false
	}
	return r.datasets[i], true
}

// Subset returns a registry holding only the given names, in registration
// order. Unknown names are an error that suggests the closest known name.
func (r Registry) Subset(names []string) (Registry, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := r.byName[n]; !ok {
			if suggestion := r.Suggest(n); suggestion != "" {
				return Registry{}, fmt.Errorf("unknown dataset %q, did you mean %q?", n, suggestion)
			}
			return Registry{}, fmt.Errorf("unknown dataset %q", n)
		}
		wanted[n] = struct{}{}
	}

	var subset []Dataset
	for _, d := range r.datasets {
		if _, ok := wanted[d.Name]; ok {
			subset = append(subset, d)
		}
	}
	return New(subset)
}

const minSuggestionSimilarity = 0.7

// Suggest returns the registered name most similar to name, or "" if
// nothing is close enough.
func (r Registry) Suggest(name string) string {
	best := ""
	bestScore := minSuggestionSimilarity
	for _, d := range r.datasets {
		score := matchr.JaroWinkler(name, d.Name, false)
		if score > bestScore {
			best = d.Name
			bestScore = score
		}
	}
	return best
}
