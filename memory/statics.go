package memory

import (
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/kappasdr/streamcore/cmn/errkind"
)

// Statics is a write-once memory variable: `Set` succeeds only while
// settable is true and flips it to false on success; any further Set
// fails with InvalidOperation. An optional [lo,hi] limit rejects an
// out-of-range write with OutOfRange instead of freezing it. Used for
// configuration a block requires before init (spec §3).
type Statics[T Ordered] struct {
	name string

	mu       sync.RWMutex
	value    T
	settable bool
	hasLimit bool
	lo, hi   T
}

// NewStatics constructs an unset, unbounded Statics variable
// registered under name in the current mode.
func NewStatics[T Ordered](name string) *Statics[T] {
	s := &Statics[T]{name: name, settable: true}
	_ = Get().currentMode().RegisterStatics(name, s)
	return s
}

// NewStaticsRange is NewStatics with an inclusive [lo, hi] limit
// enforced on the one Set a Statics variable ever accepts.
func NewStaticsRange[T Ordered](name string, lo, hi T) *Statics[T] {
	s := &Statics[T]{name: name, settable: true, hasLimit: true, lo: lo, hi: hi}
	_ = Get().currentMode().RegisterStatics(name, s)
	return s
}

func (s *Statics[T]) Name() string { return s.name }

// Set assigns the value exactly once. A second call fails with
// InvalidOperation; a call outside the configured range (if any)
// fails with OutOfRange and leaves the variable still settable.
func (s *Statics[T]) Set(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settable {
		return errkind.Named(errkind.InvalidOperation, s.name, "statics already frozen")
	}
	if s.hasLimit && (v < s.lo || v > s.hi) {
		return errkind.Named(errkind.OutOfRange, s.name, "value %v outside [%v, %v]", v, s.lo, s.hi)
	}
	s.value = v
	s.settable = false
	Get().currentMode().UpdateStatics(s.name, s)
	return nil
}

// Get returns the current value; before the first successful Set
// this is T's zero value.
func (s *Statics[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// IsSettable reports whether Set has not yet succeeded — the
// condition a block's is_initialized check tests across all its
// Statics.
func (s *Statics[T]) IsSettable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settable
}

func (s *Statics[T]) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(s.Get())
}
