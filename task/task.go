// Package task implements the Task Manager: a process-wide singleton
// that spawns named OS threads, samples their per-thread CPU
// occupancy on a fixed cadence, and rolls the samples up into
// percentile statistics (spec §4.5).
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package task

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kappasdr/streamcore/cmn/cos"
	"github.com/kappasdr/streamcore/cmn/errkind"
	"github.com/kappasdr/streamcore/cmn/mono"
	"github.com/kappasdr/streamcore/cmn/nlog"
	"github.com/kappasdr/streamcore/hk"
	"github.com/kappasdr/streamcore/sys"
)

const (
	defaultUpdateInterval = 100 * time.Millisecond
	defaultStatsInterval  = time.Second
)

// Task is one named OS thread under management: the record spec §4.5
// describes as {name, os_thread_id, cpu_clock_id, last_cpu_time,
// last_wall_time, occupancy_ring}. "cpu_clock_id" is, on this
// platform, simply the kernel thread id used to read
// /proc/self/task/<tid>/stat (sys.ThreadCPUTimeOf).
type Task struct {
	name       string
	osThreadID int32

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	lastCPU  float64
	lastWall int64 // mono.NanoTime(), 0 until the first sample
	ring     *occupancyRing
}

func (t *Task) Name() string { return t.name }

// Stop signals the task's function to return by closing its stop
// channel; safe to call more than once.
func (t *Task) Stop() { t.stopOnce.Do(func() { close(t.stop) }) }

// Join blocks until the task's function has returned.
func (t *Task) Join() { <-t.done }

// Manager owns the task table and the single monitor thread that
// samples every registered task's CPU occupancy.
type Manager struct {
	mu    sync.Mutex
	tasks map[string]*Task

	updateInterval time.Duration
	statsInterval  time.Duration
	sendStats      atomic.Bool

	statsMu sync.RWMutex
	stats   map[string]TaskStatistics

	monitorOnce sync.Once
	sampleJob   string
	statsJob    string
}

// TaskStatistics is the exported rolling-statistics record (spec §6
// "Task statistics record").
type TaskStatistics struct {
	Timestamp int64 // unix milliseconds
	Statistics
}

func New() *Manager {
	id := cos.GenUUID()
	return &Manager{
		tasks:          make(map[string]*Task, 8),
		updateInterval: defaultUpdateInterval,
		statsInterval:  defaultStatsInterval,
		stats:          make(map[string]TaskStatistics, 8),
		sampleJob:      "task.sample." + id + hk.NameSuffix,
		statsJob:       "task.stats." + id + hk.NameSuffix,
	}
}

var (
	defOnce sync.Once
	def     *Manager
)

// Default returns the process-wide Task Manager singleton (spec §9's
// guarded-cell idiom), initializing it on first use.
func Default() *Manager {
	defOnce.Do(func() { def = New() })
	return def
}

// SetUpdateInterval sets the occupancy sampling cadence.
func (m *Manager) SetUpdateInterval(d time.Duration) {
	m.mu.Lock()
	m.updateInterval = d
	m.mu.Unlock()
}

// SetStatisticsInterval sets how often rolling statistics are
// recomputed from each task's ring.
func (m *Manager) SetStatisticsInterval(d time.Duration) {
	m.mu.Lock()
	m.statsInterval = d
	m.mu.Unlock()
}

// EnableStatisticsSending toggles whether recomputed statistics are
// also exported (Prometheus gauges); they remain readable via
// Statistics regardless.
func (m *Manager) EnableStatisticsSending(on bool) { m.sendStats.Store(on) }

// CreateTask spawns fn on a newly locked OS thread named name,
// records it, and ensures the monitor loop is running. fn receives a
// stop channel it must select on to know when to return; the caller
// is responsible for calling Stop and Join.
func (m *Manager) CreateTask(name string, fn func(stop <-chan struct{})) (*Task, error) {
	m.mu.Lock()
	if _, dup := m.tasks[name]; dup {
		m.mu.Unlock()
		return nil, errkind.Named(errkind.AlreadyDefined, name, "task already registered")
	}
	t := &Task{
		name: name,
		stop: make(chan struct{}),
		done: make(chan struct{}),
		ring: &occupancyRing{},
	}
	m.tasks[name] = t
	m.mu.Unlock()

	tidCh := make(chan int32, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		tidCh <- sys.Gettid()
		defer close(t.done)
		fn(t.stop)
	}()
	t.osThreadID = <-tidCh

	m.startMonitor()
	return t, nil
}

// Remove drops a task from the registry; callers must Stop and Join
// it themselves first. Its last computed statistics are discarded.
func (m *Manager) Remove(name string) {
	m.mu.Lock()
	delete(m.tasks, name)
	m.mu.Unlock()
	m.statsMu.Lock()
	delete(m.stats, name)
	m.statsMu.Unlock()
}

// Statistics returns the most recently computed rolling statistics
// for name, if any have been computed yet.
func (m *Manager) Statistics(name string) (TaskStatistics, bool) {
	m.statsMu.RLock()
	defer m.statsMu.RUnlock()
	s, ok := m.stats[name]
	return s, ok
}

var hkRunOnce sync.Once

// startMonitor registers the manager's sampling and statistics-rollup
// jobs on the process-wide housekeeper (spec §4.5's periodic sampling
// and rollup, grounded on hk.HK's min-heap job scheduler) and ensures
// its single drain goroutine is running.
func (m *Manager) startMonitor() {
	m.monitorOnce.Do(func() {
		hkRunOnce.Do(func() { go hk.DefaultHK.Run() })

		m.mu.Lock()
		update, stats := m.updateInterval, m.statsInterval
		m.mu.Unlock()

		hk.Reg(m.sampleJob, func() time.Duration {
			m.sampleOnce()
			m.mu.Lock()
			d := m.updateInterval
			m.mu.Unlock()
			return d
		}, update)

		hk.Reg(m.statsJob, func() time.Duration {
			m.recomputeAll()
			m.mu.Lock()
			d := m.statsInterval
			m.mu.Unlock()
			return d
		}, stats)
	})
}

func (m *Manager) tasksSnapshot() []*Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out
}

func (m *Manager) sampleOnce() {
	now := mono.NanoTime()
	for _, t := range m.tasksSnapshot() {
		cpu, err := sys.ThreadCPUTimeOf(t.osThreadID)
		if err != nil {
			nlog.Warningf("task %s: cpu sample failed: %v", t.name, err)
			continue
		}
		var occ float64
		if t.lastWall != 0 {
			dwall := float64(now-t.lastWall) / 1e9
			if dwall > 0 {
				occ = (cpu - t.lastCPU) / dwall
			}
		}
		t.lastCPU = cpu
		t.lastWall = now
		t.ring.push(occ)
	}
}

func (m *Manager) recomputeAll() {
	for _, t := range m.tasksSnapshot() {
		stats := computeStatistics(t.ring.snapshot())
		rec := TaskStatistics{Timestamp: time.Now().UnixMilli(), Statistics: stats}
		m.statsMu.Lock()
		m.stats[t.name] = rec
		m.statsMu.Unlock()
		if m.sendStats.Load() {
			exportPrometheus(t.name, stats)
		}
	}
}

// Stop halts the monitor loop; tasks themselves are unaffected and
// must still be Stopped/Joined individually.
func (m *Manager) Stop() {
	hk.Unreg(m.sampleJob)
	hk.Unreg(m.statsJob)
}
