package proxy

import (
	"fmt"
	"sort"
	"time"
)

// Spec pairs a resolver with the request field name its API expects the
// share link under.
type Spec struct {
	Resolver Resolver
	Field    string
}

// Registry maps resolver names to their specs. Lookups are by the name
// stored on the catalog's api_options rows.
type Registry struct {
	specs map[string]Spec
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

func (r *Registry) Register(name, field string, res Resolver) {
	r.specs[name] = Spec{Resolver: res, Field: field}
}

func (r *Registry) Get(name string) (Spec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown resolver %q", name)
	}
	return spec, nil
}

// Names returns the registered resolver names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns name -> request field for every registered resolver, in the
// shape the option store's seeder expects.
func (r *Registry) Fields() map[string]string {
	out := make(map[string]string, len(r.specs))
	for name, spec := range r.specs {
		out[name] = spec.Field
	}
	return out
}

// DefaultRegistry wires up every built-in resolver with a shared timeout.
func DefaultRegistry(timeout time.Duration) *Registry {
	r := NewRegistry()
	r.Register("TeraFast", "url", NewTeraFast(timeout))
	r.Register("IteraPlay", "link", NewIteraPlay(timeout))
	r.Register("PlayerTera", "url", NewPlayerTera(timeout))
	r.Register("RapidAPI", "link", NewRapidAPI(timeout))
	r.Register("TeraDownloadr", "link", NewTeraDownloadr(timeout))
	r.Register("TeraDownloaderCC", "link", NewTeraDownloaderCC(timeout))
	r.Register("MDisk", "url", NewMDisk(timeout))
	return r
}
