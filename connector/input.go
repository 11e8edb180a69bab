// Package connector provides the typed, bounded FIFO primitives
// (Input, Output) that carry samples, vectors, and messages between
// blocks. Every connector carries a qualified-name header and is the
// sole unit of inter-block communication in the runtime.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package connector

import (
	"github.com/kappasdr/streamcore/cmn/errkind"
)

// DefaultCapacity is the bounded-channel depth every Input is built
// with: large enough to absorb short bursts, small enough that a
// stalled consumer gives the producer genuine back-pressure rather
// than unbounded memory growth (spec §4.1). Overridable at process
// start via SetDefaultCapacity, sourced from config's connector knob.
var DefaultCapacity = 50

// SetDefaultCapacity overrides DefaultCapacity; meant to be called
// once at process start, before any block registers its inputs.
func SetDefaultCapacity(n int) { DefaultCapacity = n }

// Sender is the cloneable, send-only half of an Input's queue —
// handed out via Sender() so any number of upstream Outputs can push
// into the same Input.
type Sender[T any] chan<- T

// Input owns a bounded FIFO: its receive half is private to the
// Input, its send half (Sender) is freely cloneable so many upstream
// blocks may feed the same queue.
type Input[T any] struct {
	name string
	ch   chan T
}

// NewInput constructs an Input bound to the given qualified name with
// the default bounded capacity.
func NewInput[T any](name string) *Input[T] { return NewInputSize[T](name, DefaultCapacity) }

// NewInputSize is NewInput with an explicit capacity, for blocks that
// need a different buffering policy than the spec's default of 50.
func NewInputSize[T any](name string, capacity int) *Input[T] {
	return &Input[T]{name: name, ch: make(chan T, capacity)}
}

func (in *Input[T]) Name() string { return in.name }

// Sender returns a cloneable handle for upstream blocks to push into
// this Input's queue.
func (in *Input[T]) Sender() Sender[T] { return in.ch }

// Send enqueues data on the Input's own queue (a block feeding its own
// input directly, e.g. a timer-driven source). Blocks if the queue is
// full — the bounded-capacity back-pressure spec §4.1 describes.
func (in *Input[T]) Send(data T) error {
	select {
	case in.ch <- data:
		return nil
	default:
	}
	// queue momentarily full: fall back to a blocking send so a slow
	// consumer throttles the producer instead of silently dropping.
	in.ch <- data
	return nil
}

// TrySend is the non-blocking variant: returns SendDataError
// immediately if the queue is currently full, rather than applying
// back-pressure.
func (in *Input[T]) TrySend(data T) error {
	select {
	case in.ch <- data:
		return nil
	default:
		return errkind.Named(errkind.SendDataError, in.name, "queue full (capacity %d)", cap(in.ch))
	}
}

// Recv blocks until an item arrives or every Sender has been dropped
// and the queue has drained, in which case it returns ReceiveDataError.
func (in *Input[T]) Recv() (T, error) {
	v, ok := <-in.ch
	if !ok {
		var zero T
		return zero, errkind.Named(errkind.ReceiveDataError, in.name, "all senders dropped")
	}
	return v, nil
}

// Close closes the underlying channel; safe to call once all upstream
// Senders are known to be retired. Further Recv calls drain any
// buffered items before returning ReceiveDataError.
func (in *Input[T]) Close() { close(in.ch) }

// Len reports the number of items currently queued — used by
// diagnostics, not by the spec's core contract.
func (in *Input[T]) Len() int { return len(in.ch) }
