// Package engine implements the execution engine: chains (ordered
// pipelines of blocks), modes (parallel sets of chains), a mode
// manager enforcing single-active-mode semantics, and a flat block
// registry for out-of-band operations (spec §4.6-4.8).
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package engine

import (
	"sync"

	"github.com/kappasdr/streamcore/block"
)

// Chain is an ordered, strictly sequential pipeline of blocks: one
// Process call drives every block's Process once, in insertion
// order, on the same thread — giving block N visibility into
// whatever block N-1 just produced without needing the channel
// between them drained separately (spec §4.6 rationale).
type Chain struct {
	name string

	mu     sync.RWMutex
	blocks []block.Processor
}

func NewChain(name string) *Chain { return &Chain{name: name} }

func (c *Chain) Name() string { return c.name }

// AddProcessor appends a block to the end of the pipeline.
func (c *Chain) AddProcessor(p block.Processor) {
	c.mu.Lock()
	c.blocks = append(c.blocks, p)
	c.mu.Unlock()
}

// Process drives every block's Process once, in order. The first
// failure aborts the iteration and is returned without invoking the
// remaining blocks.
func (c *Chain) Process() error {
	c.mu.RLock()
	blocks := c.blocks
	c.mu.RUnlock()

	for _, b := range blocks {
		if err := b.Process(); err != nil {
			return err
		}
	}
	return nil
}

// Stop calls Stop on every block unconditionally, collecting no
// individual error but propagating the last one encountered.
func (c *Chain) Stop() error {
	c.mu.RLock()
	blocks := c.blocks
	c.mu.RUnlock()

	var last error
	for _, b := range blocks {
		if err := b.Stop(); err != nil {
			last = err
		}
	}
	return last
}

// Len reports the number of blocks in the chain.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}
