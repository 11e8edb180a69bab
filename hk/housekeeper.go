// Package hk provides a mechanism for registering cleanup and
// maintenance callbacks invoked at specified (and self-adjustable)
// intervals: periodic statistics recomputation (Task Manager, spec
// §4.5) and similar upkeep that doesn't belong on any single chain's
// hot path.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package hk

import (
	"container/heap"
	"sync"
	"time"

	"github.com/kappasdr/streamcore/cmn/debug"
	"github.com/kappasdr/streamcore/cmn/nlog"
)

// NameSuffix is the fixed suffix appended to housekeeping job names
// registered in this module; it does not make names unique by itself.
const NameSuffix = ".hk"

// CB is a housekeeping callback. Its return value is the delay until
// it should run again; a non-positive value re-uses the interval the
// job was registered with.
type CB func() time.Duration

type job struct {
	name     string
	f        CB
	interval time.Duration
	due      time.Time
	index    int // heap bookkeeping
}

type jobQueue []*job

func (q jobQueue) Len() int            { return len(q) }
func (q jobQueue) Less(i, j int) bool  { return q[i].due.Before(q[j].due) }
func (q jobQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index, q[j].index = i, j }
func (q *jobQueue) Push(x any)         { j := x.(*job); j.index = len(*q); *q = append(*q, j) }
func (q *jobQueue) Pop() any {
	old := *q
	n := len(old)
	j := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return j
}

// HK is a single process-wide housekeeper: one goroutine draining a
// min-heap of jobs ordered by next-due time.
type HK struct {
	mu      sync.Mutex
	byName  map[string]*job
	queue   jobQueue
	wake    chan struct{}
	started chan struct{}
	stop    chan struct{}
	once    sync.Once
}

// DefaultHK is the process-wide housekeeper; callers Reg against it
// and a single goroutine running `DefaultHK.Run()` (started by
// task.Manager on its first CreateTask) drains it.
var DefaultHK = New()

func New() *HK {
	return &HK{
		byName:  make(map[string]*job, 16),
		wake:    make(chan struct{}, 1),
		started: make(chan struct{}),
		stop:    make(chan struct{}),
	}
}

// TestInit resets DefaultHK for a fresh test run.
func TestInit() { DefaultHK = New() }

// Reg registers (or replaces) a named periodic job. interval==0 means
// "run once, immediately, then rely on the callback's own return
// value for subsequent scheduling."
func Reg(name string, f CB, interval time.Duration) { DefaultHK.Reg(name, f, interval) }

func Unreg(name string) { DefaultHK.Unreg(name) }

func (h *HK) Reg(name string, f CB, interval time.Duration) {
	debug.Assert(f != nil, "nil housekeeping callback: ", name)
	j := &job{name: name, f: f, interval: interval, due: time.Now().Add(interval)}

	h.mu.Lock()
	if old, ok := h.byName[name]; ok {
		heap.Remove(&h.queue, old.index)
	}
	h.byName[name] = j
	heap.Push(&h.queue, j)
	h.mu.Unlock()

	h.poke()
}

func (h *HK) Unreg(name string) {
	h.mu.Lock()
	if j, ok := h.byName[name]; ok {
		heap.Remove(&h.queue, j.index)
		delete(h.byName, name)
	}
	h.mu.Unlock()
}

func (h *HK) poke() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// WaitStarted blocks until Run has entered its main loop.
func (h *HK) WaitStarted() { <-h.started }

// Stop terminates Run.
func (h *HK) Stop() { close(h.stop) }

// Run drains the job queue forever (or until Stop), sleeping until
// the next job is due; callers run it on a dedicated goroutine.
func (h *HK) Run() error {
	h.once.Do(func() { close(h.started) })
	for {
		d := h.nextWait()
		t := time.NewTimer(d)
		select {
		case <-h.stop:
			t.Stop()
			return nil
		case <-h.wake:
			t.Stop()
			continue
		case <-t.C:
			h.runDue()
		}
	}
}

func (h *HK) nextWait() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return time.Hour
	}
	d := time.Until(h.queue[0].due)
	if d < 0 {
		d = 0
	}
	return d
}

func (h *HK) runDue() {
	now := time.Now()
	for {
		h.mu.Lock()
		if len(h.queue) == 0 || h.queue[0].due.After(now) {
			h.mu.Unlock()
			return
		}
		j := heap.Pop(&h.queue).(*job)
		delete(h.byName, j.name)
		h.mu.Unlock()

		next := j.f()
		if next <= 0 {
			next = j.interval
		}
		if next > 0 {
			j.due = now.Add(next)
			h.mu.Lock()
			h.byName[j.name] = j
			heap.Push(&h.queue, j)
			h.mu.Unlock()
		} else {
			nlog.Infof("hk: job %q completed (no further schedule)", j.name)
		}
	}
}
