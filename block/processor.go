package block

import (
	"time"

	"github.com/kappasdr/streamcore/cmn/errkind"
)

// Processor is the lifecycle contract every Block is paired with
// (spec §4.3). Go has no default trait methods, so the Default*
// functions below stand in for the source's default implementations:
// a concrete block embeds *Block and, for the steps it doesn't need
// to customize, simply forwards to the matching Default* function.
type Processor interface {
	Init() error
	Run() error
	Process() error
	Stop() error
	ExecuteCommand(name string, args string) (string, error)
}

// DefaultInit implements the standard init() sequence: refuse from
// Running, refuse while any Statics is still settable, otherwise
// transition to Initial.
func DefaultInit(b *Block) error {
	if b.CheckState(Running) {
		return errkind.Named(errkind.InvalidStateTransition, b.name, "cannot init a running block")
	}
	if !b.IsInitialized() {
		return errkind.Named(errkind.InvalidStatics, b.name, "one or more statics still unset")
	}
	b.SetState(Initial)
	return nil
}

// DefaultRun implements the standard run() loop: refuse from Stopped,
// otherwise transition to Running and call p.Process() repeatedly
// until the block's state becomes Stopped. p is the outer Processor
// so the loop dispatches to the concrete block's override, not this
// package's DefaultProcess.
func DefaultRun(b *Block, p Processor) error {
	if b.CheckState(Stopped) {
		return errkind.Named(errkind.InvalidStateTransition, b.name, "cannot run an already-stopped block")
	}
	b.SetState(Running)
	for !b.CheckState(Stopped) {
		if err := p.Process(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultProcess is one no-op unit of work: a 100ms sleep, used by
// long-lived driver blocks whose real work happens in an overridden
// Run.
func DefaultProcess() error {
	time.Sleep(100 * time.Millisecond)
	return nil
}

// DefaultStop unconditionally transitions the block to Stopped —
// stop is legal from any state (spec §4.3's state diagram: "any --
// stop --> Stopped").
func DefaultStop(b *Block) error {
	b.SetState(Stopped)
	return nil
}

// DefaultExecuteCommand is the fallback command handler: unknown or
// unhandled commands are rejected with InvalidOperation.
func DefaultExecuteCommand(b *Block, name string) (string, error) {
	return "", errkind.Named(errkind.InvalidOperation, b.name, "no handler for command %q", name)
}
