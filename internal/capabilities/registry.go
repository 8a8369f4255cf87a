package capabilities

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the capability set of every view
type Registry struct {
	views map[View]ViewCapabilities
	mu    sync.RWMutex
}

// NewRegistry creates a registry from the embedded view configuration
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/views.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read views.yaml: %w", err)
	}
	return NewRegistryFromYAML(data)
}

// NewRegistryFromYAML creates a registry from a YAML document keyed by view name
func NewRegistryFromYAML(data []byte) (*Registry, error) {
	var raw map[string]ViewCapabilities
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal view capabilities: %w", err)
	}

	r := &Registry{views: make(map[View]ViewCapabilities, len(raw))}
	for name, caps := range raw {
		view, err := ParseView(name)
		if err != nil {
			return nil, err
		}
		r.views[view] = caps
	}

	for _, view := range []View{ViewDrive, ViewStarred, ViewTrash} {
		if _, ok := r.views[view]; !ok {
			return nil, fmt.Errorf("missing capabilities for view %s", view)
		}
	}
	return r, nil
}

// Get returns the capabilities of a view
func (r *Registry) Get(view View) (ViewCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.views[view]
	if !ok {
		return ViewCapabilities{}, fmt.Errorf("unknown view: %s", view)
	}
	return caps, nil
}

// Views returns the registered views in name order
func (r *Registry) Views() []View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]View, 0, len(r.views))
	for v := range r.views {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i] < views[j] })
	return views
}
