//go:build linux

package sys

import "golang.org/x/sys/unix"

// Gettid returns the calling OS thread's kernel thread ID. The caller
// must have called runtime.LockOSThread so the goroutine doesn't
// migrate off this thread before the id is recorded.
func Gettid() int32 { return int32(unix.Gettid()) }
