package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kappasdr/streamcore/cmn/errkind"
	"github.com/kappasdr/streamcore/cmn/nlog"
	"github.com/kappasdr/streamcore/task"
)

// defaultQuiesceTimeout bounds how long SwitchMode waits for a mode's
// drivers to actually stop looping before declaring the switch
// failed.
const defaultQuiesceTimeout = 5 * time.Second

// Mode is a named parallel set of chains, each run on its own looping
// driver task (spec §4.7). Exactly one Mode is active at a time under
// a Manager.
type Mode struct {
	name   string
	chains []*Chain

	taskMgr *task.Manager
	active  atomic.Int32 // count of chains whose driver loop is still executing
	tasks   []*task.Task
}

func NewMode(name string, taskMgr *task.Manager) *Mode {
	return &Mode{name: name, taskMgr: taskMgr}
}

func (m *Mode) Name() string { return m.name }

// AddChain registers a chain to be driven by its own task once Run is
// called.
func (m *Mode) AddChain(c *Chain) { m.chains = append(m.chains, c) }

// Run asks the Task Manager for one driver task per chain; each
// driver loops Chain.Process until told to stop or until Process
// itself fails.
func (m *Mode) Run() error {
	m.tasks = m.tasks[:0]
	for i, c := range m.chains {
		c := c
		name := fmt.Sprintf("%s.chain%d.%s", m.name, i, c.Name())
		m.active.Add(1)
		t, err := m.taskMgr.CreateTask(name, func(stop <-chan struct{}) {
			defer m.active.Add(-1)
			for {
				select {
				case <-stop:
					return
				default:
				}
				if err := c.Process(); err != nil {
					nlog.Errorf("chain %s: driver stopping on error: %v", c.Name(), err)
					return
				}
			}
		})
		if err != nil {
			return errkind.Named(errkind.TaskError, name, "failed to start chain driver: %v", err)
		}
		m.tasks = append(m.tasks, t)
	}
	return nil
}

// Stop signals every chain's blocks and every driver task to stop,
// then waits (bounded by defaultQuiesceTimeout) for every driver to
// actually exit its loop.
func (m *Mode) Stop() error {
	for _, c := range m.chains {
		c.Stop()
	}
	for _, t := range m.tasks {
		t.Stop()
	}
	if err := quiesce(&m.active, defaultQuiesceTimeout); err != nil {
		return err
	}
	return m.join()
}

func (m *Mode) join() error {
	g := new(errgroup.Group)
	for _, t := range m.tasks {
		t := t
		g.Go(func() error {
			t.Join()
			return nil
		})
	}
	return g.Wait()
}
