// Package memory implements the runtime's Memory Manager: a
// process-wide, mode-partitioned registry of named State, Statics,
// and Parameter variables, serializable as a single JSON snapshot.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package memory

import (
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/kappasdr/streamcore/cmn/errkind"
)

// Variable is the type-erased handle every concrete State/Statics/
// Parameter stores itself as inside a Mode's registry, so the
// registry can iterate and serialize heterogeneous element types.
type Variable interface {
	Name() string
	MarshalJSON() ([]byte, error)
}

// Mode is one mode's worth of registered variables: three
// qualified-name -> Variable maps (state / statics / parameters),
// matching spec §4.4's MemoryMode.
type Mode struct {
	mu         sync.RWMutex
	state      map[string]Variable
	statics    map[string]Variable
	parameters map[string]Variable
}

func newMode() *Mode {
	return &Mode{
		state:      make(map[string]Variable, 16),
		statics:    make(map[string]Variable, 16),
		parameters: make(map[string]Variable, 16),
	}
}

func (m *Mode) registerInto(reg map[string]Variable, name string, v Variable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := reg[name]; dup {
		return errkind.Named(errkind.AlreadyDefined, name, "already registered in this mode")
	}
	reg[name] = v
	return nil
}

func (m *Mode) RegisterState(name string, v Variable) error { return m.registerInto(m.state, name, v) }
func (m *Mode) RegisterStatics(name string, v Variable) error {
	return m.registerInto(m.statics, name, v)
}
func (m *Mode) RegisterParameter(name string, v Variable) error {
	return m.registerInto(m.parameters, name, v)
}

func (m *Mode) updateIn(reg map[string]Variable, name string, v Variable) {
	m.mu.Lock()
	reg[name] = v
	m.mu.Unlock()
}

func (m *Mode) UpdateState(name string, v Variable)      { m.updateIn(m.state, name, v) }
func (m *Mode) UpdateStatics(name string, v Variable)     { m.updateIn(m.statics, name, v) }
func (m *Mode) UpdateParameter(name string, v Variable)   { m.updateIn(m.parameters, name, v) }

func (m *Mode) snapshot() map[string]map[string]Variable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := func(src map[string]Variable) map[string]Variable {
		dst := make(map[string]Variable, len(src))
		for k, v := range src {
			dst[k] = v
		}
		return dst
	}
	return map[string]map[string]Variable{
		"state":      cp(m.state),
		"statics":    cp(m.statics),
		"parameters": cp(m.parameters),
	}
}

// Manager is the process-wide, lazily-initialized singleton registry
// partitioned by mode index (spec §4.4).
type Manager struct {
	mu      sync.Mutex
	modes   map[int]*Mode
	current int
}

var (
	mgrOnce sync.Once
	mgr     *Manager
)

// Get returns the process-wide Memory Manager, initializing it on
// first use.
func Get() *Manager {
	mgrOnce.Do(func() {
		mgr = &Manager{modes: make(map[int]*Mode, 4)}
	})
	return mgr
}

// Reset discards all modes and variables; test-only.
func Reset() {
	m := Get() // lazily inits the manager if Reset runs before any Get
	m.mu.Lock()
	m.modes = make(map[int]*Mode, 4)
	m.current = 0
	m.mu.Unlock()
}

// AddMode registers an (initially empty) mode at idx if not already
// present.
func (m *Manager) AddMode(idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.modes[idx]; !ok {
		m.modes[idx] = newMode()
	}
}

// SetMode switches the "current" index new variable construction
// registers into. Existing modes' contents are untouched — this is
// the memory-mode half of the atomic mode switch spec §4.7 describes.
func (m *Manager) SetMode(idx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.modes[idx]; !ok {
		return errkind.New(errkind.GenericError, "unknown memory mode %d", idx)
	}
	m.current = idx
	return nil
}

func (m *Manager) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// currentMode returns (without locking Manager's own mutex across a long
// section) the Mode for the currently-active index, creating it on
// first touch so bare-variable construction before any AddMode call
// degrades gracefully rather than panicking.
func (m *Manager) currentMode() *Mode {
	m.mu.Lock()
	idx := m.current
	mode, ok := m.modes[idx]
	if !ok {
		mode = newMode()
		m.modes[idx] = mode
	}
	m.mu.Unlock()
	return mode
}

func (m *Manager) modeAt(idx int) (*Mode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mode, ok := m.modes[idx]
	return mode, ok
}

// SerializeAll produces the single-snapshot JSON document spec §6
// describes: {"memory_mapped":{"state":{...},"statics":{...},"parameters":{...}}}
// for the currently active mode.
func (m *Manager) SerializeAll() ([]byte, error) { return m.Serialize(m.CurrentIndex()) }

// Serialize produces the snapshot for a specific mode index (used to
// inspect a mode that isn't currently active, e.g. right after a
// switch away from it).
func (m *Manager) Serialize(idx int) ([]byte, error) {
	mode, ok := m.modeAt(idx)
	if !ok {
		return nil, errkind.New(errkind.GenericError, "unknown memory mode %d", idx)
	}
	snap := mode.snapshot()
	out := make(map[string]map[string]jsoniter.RawMessage, 3)
	for kind, vars := range snap {
		section := make(map[string]jsoniter.RawMessage, len(vars))
		for name, v := range vars {
			raw, err := jsoniter.Marshal(v)
			if err != nil {
				return nil, err
			}
			section[name] = raw
		}
		out[kind] = section
	}
	return jsoniter.Marshal(map[string]any{"memory_mapped": out})
}
