// Package connector provides the typed, bounded FIFO primitives
// (Input, Output) that carry samples, vectors, and messages between
// blocks.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package connector

import (
	"sync"

	"github.com/kappasdr/streamcore/cmn/errkind"
)

// Output fans data out to every downstream Input connected to it, in
// the deterministic order senders were attached (spec §5 "Ordering
// guarantees").
type Output[T any] struct {
	name string

	mu      sync.RWMutex
	senders []Sender[T]
}

func NewOutput[T any](name string) *Output[T] {
	return &Output[T]{name: name}
}

func (o *Output[T]) Name() string { return o.name }

// Connect attaches a downstream Input's Sender; fan-out order is
// insertion order.
func (o *Output[T]) Connect(s Sender[T]) {
	o.mu.Lock()
	o.senders = append(o.senders, s)
	o.mu.Unlock()
}

// NumConnected reports how many downstream senders are attached.
func (o *Output[T]) NumConnected() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.senders)
}

// Send clones data into every attached sender in insertion order. A
// zero-sender Output is a no-op success (spec §8 boundary behavior).
// On the first sender-side failure, Send stops and returns
// SendDataError; senders already written to keep their delivered
// item — the spec leaves this first-failure-aborts semantics
// intentional (spec §9 open question, resolved as "leave as-is, no
// all-or-nothing rollback": rolling back a channel send that
// succeeded would require a protocol the bounded-channel abstraction
// doesn't have).
func (o *Output[T]) Send(data T) error {
	o.mu.RLock()
	senders := o.senders
	o.mu.RUnlock()

	for i, s := range senders {
		if !trySend(s, data) {
			return errkind.Named(errkind.SendDataError, o.name, "downstream sender %d closed", i)
		}
	}
	return nil
}

// trySend sends data, blocking while the downstream queue is full, and
// reports false instead of panicking on a send to a closed channel (a
// downstream Input that has already torn down).
func trySend[T any](s Sender[T], data T) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case s <- data:
		return true
	default:
		// downstream full: block, same back-pressure policy as Input.Send,
		// but still subject to the panic recovery above if it closes
		// while we're waiting.
		s <- data
		return true
	}
}
