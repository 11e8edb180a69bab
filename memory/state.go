package memory

import (
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// State is a broadcast-on-write memory variable: every Set fans the
// new value out to any subscriber channels registered via Watch, in
// addition to updating the value readers see through Get. It
// registers itself with the process Memory Manager's current mode at
// construction time; that mode is created on first use if it does
// not exist yet, and a rejected registration (a duplicate name) is
// silently ignored.
type State[T any] struct {
	name string

	mu    sync.RWMutex
	value T

	wmu    sync.Mutex
	watchers []chan<- T
}

// NewState constructs and registers a State variable under name in
// the current mode, seeded with the zero value of T.
func NewState[T any](name string) *State[T] {
	var zero T
	return NewStateValue(name, zero)
}

// NewStateValue is NewState with an explicit initial value.
func NewStateValue[T any](name string, initial T) *State[T] {
	s := &State[T]{name: name, value: initial}
	_ = Get().currentMode().RegisterState(name, s)
	return s
}

// NewStateValueChecked is NewStateValue but surfaces AlreadyDefined
// when name collides with an existing registration in the current
// mode, instead of swallowing it. Only the registration result is
// returned; the constructed State itself is not handed back to the
// caller.
func NewStateValueChecked[T any](name string, initial T) error {
	s := &State[T]{name: name, value: initial}
	return Get().currentMode().RegisterState(name, s)
}

func (s *State[T]) Name() string { return s.name }

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and broadcasts it to every watcher, then
// reflects the change in the Memory Manager's registry (used for
// whole-snapshot serialization).
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()

	Get().currentMode().UpdateState(s.name, s)

	s.wmu.Lock()
	watchers := s.watchers
	s.wmu.Unlock()
	for _, w := range watchers {
		trySendState(w, v)
	}
}

// Watch registers a channel to receive every subsequent Set. The
// channel is never closed by State; callers own its lifetime. Sends
// are non-blocking best-effort: a slow watcher misses updates rather
// than stalling the writer, matching the connector package's
// at-most-once back-pressure posture for a fan-out that isn't the
// primary data path.
func (s *State[T]) Watch(ch chan<- T) {
	s.wmu.Lock()
	s.watchers = append(s.watchers, ch)
	s.wmu.Unlock()
}

func trySendState[T any](ch chan<- T, v T) {
	defer func() { recover() }()
	select {
	case ch <- v:
	default:
	}
}

func (s *State[T]) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(s.Get())
}
