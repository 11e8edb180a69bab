// Package cos provides common low-level types and utilities shared by
// every streamcore package.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/kappasdr/streamcore/cmn/debug"
	"github.com/kappasdr/streamcore/cmn/nlog"
)

// Errs is a deduplicating, capped multi-error accumulator for bulk
// operations that attempt every sibling before reporting. Chain and
// Engine do not use it.
type Errs struct {
	errs []error
	mu   sync.Mutex
}

const maxErrs = 4

func (e *Errs) Add(err error) {
	debug.Assert(err != nil)
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, added := range e.errs {
		if added.Error() == err.Error() {
			return
		}
	}
	if len(e.errs) < maxErrs {
		e.errs = append(e.errs, err)
	}
}

func (e *Errs) Cnt() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errs)
}

// JoinErr returns the accumulated count and a single joined error
// (nil, 0 if nothing was added).
func (e *Errs) JoinErr() (cnt int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cnt = len(e.errs); cnt == 0 {
		return 0, nil
	}
	return cnt, errors.Join(e.errs...)
}

// Error makes *Errs itself usable as a plain error: the first error,
// plus a tally of how many more were recorded.
func (e *Errs) Error() (s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return ""
	}
	err := e.errs[0]
	if len(e.errs) > 1 {
		return fmt.Sprintf("%v (and %d more error%s)", err, len(e.errs)-1, Plural(len(e.errs)-1))
	}
	return err.Error()
}

func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

//
// Abnormal termination - flushes the logger before exiting, so the
// fatal reason survives process death.
//

const fatalPrefix = "FATAL ERROR: "

func Exitf(f string, a ...any) {
	_exit(fmt.Sprintf(fatalPrefix+f, a...))
}

// +log
func ExitLogf(f string, a ...any) {
	msg := fmt.Sprintf(fatalPrefix+f, a...)
	if flag.Parsed() {
		nlog.ErrorDepth(1, msg)
		nlog.Flush(true)
	}
	_exit(msg)
}

func ExitLog(a ...any) {
	msg := fatalPrefix + fmt.Sprint(a...)
	if flag.Parsed() {
		nlog.ErrorDepth(1, msg)
		nlog.Flush(true)
	}
	_exit(msg)
}

func _exit(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
