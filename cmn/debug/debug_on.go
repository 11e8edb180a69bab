//go:build debug

// Package debug provides invariant-checking assertions that compile
// away to no-ops unless the binary is built with -tags debug.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import (
	"fmt"
	"sync"
)

func ON() bool { return true }

func Assert(cond bool, args ...any) {
	if cond {
		return
	}
	panic(fmt.Sprintln(append([]any{"assertion failed:"}, args...)...))
}

func Assertf(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(fmt.Sprintf("assertion failed: "+format, args...))
}

func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

func AssertFunc(fn func() bool, args ...any) {
	Assert(fn(), args...)
}

// AssertMutexLocked documents a "must be held by caller" invariant at
// call sites; cheap enough to leave as a presence check rather than
// reach into sync.Mutex's unexported state.
func AssertMutexLocked(m *sync.Mutex) {
	Assert(m != nil, "nil mutex")
}

func AssertRWMutexLocked(m *sync.RWMutex) {
	Assert(m != nil, "nil rwmutex")
}
