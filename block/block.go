// Package block implements the Stream Block substrate: a polymorphic
// container that owns five name-indexed maps (inputs, outputs,
// parameters, statics, state), a lifecycle state, and a qualified
// name — the uniform typed/dynamic split that lets heterogeneous
// algorithm blocks live in one engine (spec §4.2).
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package block

import (
	"sync"

	"github.com/kappasdr/streamcore/cmn/errkind"
	"github.com/kappasdr/streamcore/connector"
	"github.com/kappasdr/streamcore/memory"
)

// settable is implemented by every memory.Statics[T] regardless of T,
// letting Block.IsInitialized inspect frozen-ness without knowing the
// concrete element type (spec §9 "dynamic typing erased").
type settable interface {
	IsSettable() bool
}

// Block is the stream-processing unit every concrete algorithm or
// adapter embeds. It is safe for concurrent use.
type Block struct {
	name string

	mapsMu     sync.RWMutex
	inputs     map[string]any
	outputs    map[string]any
	parameters map[string]any
	statics    map[string]any
	state      map[string]any

	stateMu   sync.Mutex
	procState ProcState

	// lock is available to concrete blocks to serialize their own
	// algorithm's critical section; the core never takes it itself.
	lock sync.Mutex
}

// New constructs an empty Block with the given logical name and
// lifecycle state Null.
func New(name string) *Block {
	return &Block{
		name:       name,
		inputs:     make(map[string]any, 4),
		outputs:    make(map[string]any, 4),
		parameters: make(map[string]any, 4),
		statics:    make(map[string]any, 4),
		state:      make(map[string]any, 4),
		procState:  Null,
	}
}

func (b *Block) Name() string { return b.name }

// Qualify forms "<block>.<local>", the sole key into every registry.
func (b *Block) Qualify(local string) string { return b.name + "." + local }

// Lock exposes the block's own critical-section mutex to the
// concrete algorithm embedding this Block.
func (b *Block) Lock()   { b.lock.Lock() }
func (b *Block) Unlock() { b.lock.Unlock() }

func registerInto(mu *sync.RWMutex, m map[string]any, qualified string, v any) error {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := m[qualified]; dup {
		return errkind.Named(errkind.AlreadyDefined, qualified, "already registered")
	}
	m[qualified] = v
	return nil
}

func lookup[T any](mu *sync.RWMutex, m map[string]any, qualified string, notFound errkind.Kind) (T, error) {
	mu.RLock()
	v, ok := m[qualified]
	mu.RUnlock()
	var zero T
	if !ok {
		return zero, errkind.Named(notFound, qualified, "not found")
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errkind.Named(errkind.WrongType, qualified, "stored type does not match requested type")
	}
	return typed, nil
}

// --- Inputs ---

// NewInput constructs and registers a bounded Input[T] under local.
func NewInput[T any](b *Block, local string) (*connector.Input[T], error) {
	qualified := b.Qualify(local)
	in := connector.NewInput[T](qualified)
	if err := registerInto(&b.mapsMu, b.inputs, qualified, in); err != nil {
		return nil, err
	}
	return in, nil
}

// GetInput performs a typed lookup of a previously registered Input.
func GetInput[T any](b *Block, local string) (*connector.Input[T], error) {
	return lookup[*connector.Input[T]](&b.mapsMu, b.inputs, b.Qualify(local), errkind.InvalidInput)
}

// RecvInput is the typed shortcut for GetInput(...).Recv().
func RecvInput[T any](b *Block, local string) (T, error) {
	in, err := GetInput[T](b, local)
	if err != nil {
		var zero T
		return zero, err
	}
	return in.Recv()
}

// GetInputChannel hands out a clone of the Input's sender so upstream
// blocks may push into it.
func GetInputChannel[T any](b *Block, local string) (connector.Sender[T], error) {
	in, err := GetInput[T](b, local)
	if err != nil {
		return nil, err
	}
	return in.Sender(), nil
}

// --- Outputs ---

// NewOutput constructs and registers a fan-out Output[T] under local.
func NewOutput[T any](b *Block, local string) (*connector.Output[T], error) {
	qualified := b.Qualify(local)
	out := connector.NewOutput[T](qualified)
	if err := registerInto(&b.mapsMu, b.outputs, qualified, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOutput performs a typed lookup of a previously registered Output.
func GetOutput[T any](b *Block, local string) (*connector.Output[T], error) {
	return lookup[*connector.Output[T]](&b.mapsMu, b.outputs, b.Qualify(local), errkind.InvalidOutput)
}

// SendOutput is the typed shortcut for GetOutput(...).Send(value).
func SendOutput[T any](b *Block, local string, value T) error {
	out, err := GetOutput[T](b, local)
	if err != nil {
		return err
	}
	return out.Send(value)
}

// Connect attaches a downstream Input's sender to this block's named
// Output.
func Connect[T any](b *Block, outputLocal string, sender connector.Sender[T]) error {
	out, err := GetOutput[T](b, outputLocal)
	if err != nil {
		return err
	}
	out.Connect(sender)
	return nil
}

// --- Parameters ---

// NewParameter constructs and registers an unranged Parameter[T].
func NewParameter[T memory.Ordered](b *Block, local string, value T) (*memory.Parameter[T], error) {
	qualified := b.Qualify(local)
	p := memory.NewParameter(qualified, value)
	if err := registerInto(&b.mapsMu, b.parameters, qualified, p); err != nil {
		return nil, err
	}
	return p, nil
}

// NewParameterRange constructs and registers a range-checked
// Parameter[T].
func NewParameterRange[T memory.Ordered](b *Block, local string, value, lo, hi T) (*memory.Parameter[T], error) {
	qualified := b.Qualify(local)
	p, err := memory.NewParameterRange(qualified, value, lo, hi)
	if err != nil {
		return nil, err
	}
	if err := registerInto(&b.mapsMu, b.parameters, qualified, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetParameter performs a typed lookup of a previously registered
// Parameter.
func GetParameter[T memory.Ordered](b *Block, local string) (*memory.Parameter[T], error) {
	return lookup[*memory.Parameter[T]](&b.mapsMu, b.parameters, b.Qualify(local), errkind.InvalidParameter)
}

func GetParameterValue[T memory.Ordered](b *Block, local string) (T, error) {
	p, err := GetParameter[T](b, local)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.Get(), nil
}

func SetParameterValue[T memory.Ordered](b *Block, local string, value T) error {
	p, err := GetParameter[T](b, local)
	if err != nil {
		return err
	}
	return p.Set(value)
}

// --- Statics ---

// NewStatics constructs and registers an unranged, unset Statics[T].
func NewStatics[T memory.Ordered](b *Block, local string) (*memory.Statics[T], error) {
	qualified := b.Qualify(local)
	s := memory.NewStatics[T](qualified)
	if err := registerInto(&b.mapsMu, b.statics, qualified, s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticsRange constructs and registers a range-checked,
// unset Statics[T].
func NewStaticsRange[T memory.Ordered](b *Block, local string, lo, hi T) (*memory.Statics[T], error) {
	qualified := b.Qualify(local)
	s := memory.NewStaticsRange[T](qualified, lo, hi)
	if err := registerInto(&b.mapsMu, b.statics, qualified, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetStatics performs a typed lookup of a previously registered
// Statics.
func GetStatics[T memory.Ordered](b *Block, local string) (*memory.Statics[T], error) {
	return lookup[*memory.Statics[T]](&b.mapsMu, b.statics, b.Qualify(local), errkind.InvalidStatics)
}

func GetStaticsValue[T memory.Ordered](b *Block, local string) (T, error) {
	s, err := GetStatics[T](b, local)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Get(), nil
}

func SetStaticsValue[T memory.Ordered](b *Block, local string, value T) error {
	s, err := GetStatics[T](b, local)
	if err != nil {
		return err
	}
	return s.Set(value)
}

// --- State ---

// NewState constructs and registers a broadcast-on-write State[T]
// seeded with the zero value of T.
func NewState[T any](b *Block, local string) (*memory.State[T], error) {
	var zero T
	return NewStateValue[T](b, local, zero)
}

// NewStateValue is NewState with an explicit initial value.
func NewStateValue[T any](b *Block, local string, initial T) (*memory.State[T], error) {
	qualified := b.Qualify(local)
	s := memory.NewStateValue(qualified, initial)
	if err := registerInto(&b.mapsMu, b.state, qualified, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetState performs a typed lookup of a previously registered State.
func GetState[T any](b *Block, local string) (*memory.State[T], error) {
	return lookup[*memory.State[T]](&b.mapsMu, b.state, b.Qualify(local), errkind.InvalidState)
}

func GetStateValue[T any](b *Block, local string) (T, error) {
	s, err := GetState[T](b, local)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Get(), nil
}

func SetStateValue[T any](b *Block, local string, value T) error {
	s, err := GetState[T](b, local)
	if err != nil {
		return err
	}
	s.Set(value)
	return nil
}

// --- Dynamic side ---

// CheckState reports whether the block's current lifecycle state
// equals s.
func (b *Block) CheckState(s ProcState) bool {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.procState == s
}

// SetState unconditionally transitions the block's lifecycle state.
// Legality is enforced by the caller (Init/Run/Stop), not here.
func (b *Block) SetState(s ProcState) {
	b.stateMu.Lock()
	b.procState = s
	b.stateMu.Unlock()
}

func (b *Block) State() ProcState {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.procState
}

func keys(mu *sync.RWMutex, m map[string]any) []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func (b *Block) InputList() []string     { return keys(&b.mapsMu, b.inputs) }
func (b *Block) OutputList() []string    { return keys(&b.mapsMu, b.outputs) }
func (b *Block) ParameterList() []string { return keys(&b.mapsMu, b.parameters) }
func (b *Block) StaticsList() []string   { return keys(&b.mapsMu, b.statics) }
func (b *Block) StateList() []string     { return keys(&b.mapsMu, b.state) }

// IsInitialized reports whether every registered Statics variable has
// already been written at least once (i.e. none is still settable).
func (b *Block) IsInitialized() bool {
	b.mapsMu.RLock()
	defer b.mapsMu.RUnlock()
	for _, v := range b.statics {
		if s, ok := v.(settable); ok && s.IsSettable() {
			return false
		}
	}
	return true
}
