package engine

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kappasdr/streamcore/block"
	"github.com/kappasdr/streamcore/cmn/errkind"
	"github.com/kappasdr/streamcore/cmn/nlog"
)

// Engine is a flat name -> block registry, orthogonal to chains and
// modes, used for out-of-band bulk init/stop and command dispatch
// (spec §4.8).
type Engine struct {
	mu     sync.RWMutex
	blocks map[string]block.Processor
}

func NewEngine() *Engine {
	return &Engine{blocks: make(map[string]block.Processor, 16)}
}

// Register adds a block under name; a duplicate name is rejected.
func (e *Engine) Register(name string, p block.Processor) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, dup := e.blocks[name]; dup {
		return errkind.Named(errkind.AlreadyDefined, name, "block already registered")
	}
	e.blocks[name] = p
	return nil
}

func (e *Engine) snapshot() map[string]block.Processor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]block.Processor, len(e.blocks))
	for k, v := range e.blocks {
		out[k] = v
	}
	return out
}

// Init calls Init on every registered block concurrently. On any
// failure it best-effort-stops every block (ignoring their individual
// stop errors) and propagates the first Init failure.
func (e *Engine) Init() error {
	blocks := e.snapshot()
	g := new(errgroup.Group)
	for name, p := range blocks {
		name, p := name, p
		g.Go(func() error {
			if err := p.Init(); err != nil {
				return errkind.Named(errkind.GenericError, name, "init failed: %v", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.stopAll(blocks)
		return err
	}
	return nil
}

// Stop stops every registered block concurrently, logging (but not
// propagating) individual failures.
func (e *Engine) Stop() error {
	e.stopAll(e.snapshot())
	return nil
}

func (e *Engine) stopAll(blocks map[string]block.Processor) {
	var wg sync.WaitGroup
	for name, p := range blocks {
		name, p := name, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Stop(); err != nil {
				nlog.Errorf("block %s: stop failed: %v", name, err)
			}
		}()
	}
	wg.Wait()
}

// ExecuteCommand dispatches to the named block's ExecuteCommand;
// an unknown block name yields InvalidInput.
func (e *Engine) ExecuteCommand(blockName, cmd, args string) (string, error) {
	e.mu.RLock()
	p, ok := e.blocks[blockName]
	e.mu.RUnlock()
	if !ok {
		return "", errkind.Named(errkind.InvalidInput, blockName, "no such block")
	}
	return p.ExecuteCommand(cmd, args)
}
