package plugin

import (
	"sync"

	"github.com/kappasdr/streamcore/cmn/errkind"
)

// Registry tracks every module opened so far and checks a newcomer's
// declared Dependencies against what's already loaded before
// admitting it (spec §6 / original_source's ModuleStruct.dependencies).
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]*Module
	provides map[string]Version // block-type name -> providing module's version
}

func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*Module, 4),
		provides: make(map[string]Version, 8),
	}
}

// LoadAndRegister opens the plugin at path, verifies its declared
// Dependencies are all already provided at a version at least as
// high as required, and registers it.
func (r *Registry) LoadAndRegister(path string) (*Module, error) {
	mod, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := r.Admit(mod); err != nil {
		return nil, err
	}
	return mod, nil
}

// Admit runs the dependency check and registers mod, without going
// through Open. Exposed separately so the check can be exercised
// against constructed Descriptors in tests.
func (r *Registry) Admit(mod *Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byName[mod.Descriptor.Name]; dup {
		return errkind.Named(errkind.AlreadyDefined, mod.Descriptor.Name, "module already loaded")
	}
	for _, dep := range mod.Descriptor.Dependencies {
		have, ok := r.provides[dep.Name]
		if !ok {
			return errkind.Named(errkind.InvalidProcessorBlock, mod.Descriptor.Name,
				"requires %s, which is not provided by any loaded module", dep.Name)
		}
		if versionLess(have, dep.Version) {
			return errkind.Named(errkind.InvalidProcessorBlock, mod.Descriptor.Name,
				"requires %s >= %s, have %s", dep.Name, dep.Version, have)
		}
	}

	r.byName[mod.Descriptor.Name] = mod
	for _, provided := range mod.Descriptor.Provides {
		r.provides[provided] = mod.Descriptor.Version
	}
	return nil
}

// Get returns the named module, if loaded.
func (r *Registry) Get(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

func versionLess(a, b Version) bool {
	if a.Major != b.Major {
		return a.Major < b.Major
	}
	if a.Minor != b.Minor {
		return a.Minor < b.Minor
	}
	return a.Build < b.Build
}
