package engine

import (
	"sync"

	"github.com/kappasdr/streamcore/cmn/errkind"
	"github.com/kappasdr/streamcore/memory"
	"github.com/kappasdr/streamcore/task"
)

// Manager holds Modes by integer index and coordinates mode
// switching: stop the old mode, quiesce it, switch the Memory
// Manager's current mode, then start the new one — all under one
// lock, so processor-mode and memory-mode indices move together
// (spec §4.7, invariant 6).
type Manager struct {
	mu      sync.Mutex
	modes   map[int]*Mode
	current int
	running bool

	mem     *memory.Manager
	taskMgr *task.Manager
}

func NewManager(mem *memory.Manager, taskMgr *task.Manager) *Manager {
	return &Manager{modes: make(map[int]*Mode, 4), mem: mem, taskMgr: taskMgr}
}

// AddMode registers a mode under idx, also creating the matching
// (initially empty) Memory Manager mode so SwitchMode never targets
// an unknown memory mode.
func (pm *Manager) AddMode(idx int, mode *Mode) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.modes[idx] = mode
	pm.mem.AddMode(idx)
}

// CurrentIndex reports the currently active mode index; meaningless
// (and 0) before the first SwitchMode.
func (pm *Manager) CurrentIndex() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.current
}

// SwitchMode stops and quiesces the currently running mode (if any),
// switches the Memory Manager's current mode index, and starts the
// requested mode. A request for the mode already running is a no-op.
func (pm *Manager) SwitchMode(newIdx int) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.running && newIdx == pm.current {
		return nil
	}
	newMode, ok := pm.modes[newIdx]
	if !ok {
		return errkind.New(errkind.GenericError, "unknown processor mode %d", newIdx)
	}

	if pm.running {
		oldMode := pm.modes[pm.current]
		if err := oldMode.Stop(); err != nil {
			return err
		}
	}

	if err := pm.mem.SetMode(newIdx); err != nil {
		return err
	}
	pm.current = newIdx
	pm.running = true

	return newMode.Run()
}

// Stop halts the currently running mode, if any.
func (pm *Manager) Stop() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if !pm.running {
		return nil
	}
	pm.running = false
	return pm.modes[pm.current].Stop()
}
