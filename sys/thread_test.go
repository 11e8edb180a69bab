package sys_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/kappasdr/streamcore/sys"
)

// spinFor busy-loops until d has elapsed, so the calling thread
// accumulates measurable CPU time for ThreadCPUTimeOf to observe.
func spinFor(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

func TestGettidReturnsStableValueForLockedThread(t *testing.T) {
	done := make(chan struct{})
	var tid1, tid2 int32
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		tid1 = sys.Gettid()
		tid2 = sys.Gettid()
	}()
	<-done
	if tid1 != tid2 {
		t.Fatalf("Gettid changed across calls on the same locked thread: %d != %d", tid1, tid2)
	}
}

func TestThreadCPUTimeOfNeverDecreases(t *testing.T) {
	tidCh := make(chan int32, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		tidCh <- sys.Gettid()
		spinFor(50 * time.Millisecond)
	}()
	tid := <-tidCh

	before, err := sys.ThreadCPUTimeOf(tid)
	if err != nil {
		t.Skipf("ThreadCPUTimeOf unavailable on this platform: %v", err)
	}
	<-done
	after, err := sys.ThreadCPUTimeOf(tid)
	if err != nil {
		t.Fatalf("ThreadCPUTimeOf after spin: %v", err)
	}
	if after < before {
		t.Fatalf("cpu time went backwards: before=%v after=%v", before, after)
	}
}
