package memory

import (
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/kappasdr/streamcore/cmn/errkind"
)

// Parameter is a mutable, range-checked memory variable: every Set is
// validated against an optional [min, max] bound before being
// accepted, rejecting out-of-range writes with OutOfRange rather than
// silently clamping (spec §3's "parameters reject bad
// writes, they don't coerce them").
type Parameter[T Ordered] struct {
	name string

	mu       sync.RWMutex
	value    T
	hasLimit bool
	min, max T
}

// NewParameter constructs a Parameter with no range limit, registered
// under name in the current mode.
func NewParameter[T Ordered](name string, initial T) *Parameter[T] {
	p := &Parameter[T]{name: name, value: initial}
	_ = Get().currentMode().RegisterParameter(name, p)
	return p
}

// NewParameterRange is NewParameter with an inclusive [min, max] range
// enforced on every Set, including the initial value.
func NewParameterRange[T Ordered](name string, initial, min, max T) (*Parameter[T], error) {
	p := &Parameter[T]{name: name, hasLimit: true, min: min, max: max}
	if initial < min || initial > max {
		return nil, errkind.Named(errkind.OutOfRange, name, "initial value %v outside [%v, %v]", initial, min, max)
	}
	p.value = initial
	_ = Get().currentMode().RegisterParameter(name, p)
	return p, nil
}

func (p *Parameter[T]) Name() string { return p.name }

func (p *Parameter[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set validates v against the configured range (if any) before
// applying it.
func (p *Parameter[T]) Set(v T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasLimit && (v < p.min || v > p.max) {
		return errkind.Named(errkind.OutOfRange, p.name, "value %v outside [%v, %v]", v, p.min, p.max)
	}
	p.value = v
	Get().currentMode().UpdateParameter(p.name, p)
	return nil
}

// Range reports the configured [min, max] bound, if any.
func (p *Parameter[T]) Range() (min, max T, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.min, p.max, p.hasLimit
}

func (p *Parameter[T]) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(p.Get())
}
