package engine

import (
	"sync/atomic"
	"time"

	"github.com/kappasdr/streamcore/cmn/errkind"
)

// quiRes is the outcome of one quiescence poll.
type quiRes int

const (
	quiActive quiRes = iota
	quiInactive
	quiTimeout
)

// refcntQuiCB is a ref-counted quiescence check: as long as refc is
// above zero, the thing being quiesced is still active; once it
// drops to zero the caller has quiesced, unless totalSoFar has
// already exceeded maxTimeout.
func refcntQuiCB(refc *atomic.Int32, maxTimeout, totalSoFar time.Duration) quiRes {
	if refc.Load() > 0 {
		return quiActive
	}
	if totalSoFar > maxTimeout {
		return quiTimeout
	}
	return quiInactive
}

const quiescePoll = 10 * time.Millisecond

// quiesce polls refc every quiescePoll until it reaches zero or
// maxTimeout elapses — the mechanism SwitchMode uses to make sure
// every driver of the old mode has actually stopped iterating before
// any block of the new mode runs (spec §4.7, invariant 6).
func quiesce(refc *atomic.Int32, maxTimeout time.Duration) error {
	var elapsed time.Duration
	for {
		switch refcntQuiCB(refc, maxTimeout, elapsed) {
		case quiInactive:
			return nil
		case quiTimeout:
			return errkind.New(errkind.GenericError, "mode switch: quiescence timed out after %s", elapsed)
		}
		if elapsed > maxTimeout {
			return errkind.New(errkind.GenericError, "mode switch: quiescence timed out after %s", elapsed)
		}
		time.Sleep(quiescePoll)
		elapsed += quiescePoll
	}
}
