package sensor

import (
	"fmt"
	"sort"
)

// Options carries everything a source constructor may need.
type Options struct {
	Synthetic SyntheticConfig
	Path      string
}

type Factory func(Options) (Source, error)

type Registry struct {
	sources map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{sources: make(map[string]Factory)}

	r.sources["synthetic"] = func(o Options) (Source, error) {
		return NewSynthetic(o.Synthetic), nil
	}
	r.sources["replay"] = func(o Options) (Source, error) {
		if o.Path == "" {
			return nil, fmt.Errorf("replay source needs a sample file path")
		}
		return OpenReplay(o.Path)
	}
	r.sources["manual"] = func(o Options) (Source, error) {
		return NewManual(WallClock), nil
	}

	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.sources[name] = f
}

func (r *Registry) Get(name string, o Options) (Source, error) {
	f, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownSource, name, r.Names())
	}
	return f(o)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
