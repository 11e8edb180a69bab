//go:build linux

package sys

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kappasdr/streamcore/cmn/cos"
)

// clockTicksPerSec is the kernel's USER_HZ, exposed to userspace via
// sysconf(_SC_CLK_TCK). It is 100 on every mainstream Linux
// distribution/architecture this runs on; hardcoding avoids a cgo
// dependency just to call sysconf.
const clockTicksPerSec = 100

// ThreadCPUTimeOf samples another OS thread's accumulated user+system
// CPU time by reading /proc/self/task/<tid>/stat — unlike
// RUSAGE_THREAD, which only reports the calling thread's own usage,
// this works from any thread in the process, which is what lets the
// Task Manager's single monitor thread sample every task's thread
// (spec §4.5).
func ThreadCPUTimeOf(tid int32) (float64, error) {
	line, err := cos.ReadOneLine(fmt.Sprintf("/proc/self/task/%d/stat", tid))
	if err != nil {
		return 0, err
	}
	// Fields are space-separated; comm (field 2) may itself contain
	// spaces and is parenthesized, so split on the closing paren
	// first and index from there.
	paren := strings.LastIndexByte(line, ')')
	if paren < 0 || paren+2 >= len(line) {
		return 0, fmt.Errorf("sys: unexpected /proc stat format for tid %d", tid)
	}
	fields := strings.Fields(line[paren+2:])
	// fields[0] here == stat field 3; utime/stime are stat fields 14/15,
	// i.e. fields[11] and fields[12] in this post-comm slice.
	const utimeIdx, stimeIdx = 11, 12
	if len(fields) <= stimeIdx {
		return 0, fmt.Errorf("sys: short /proc stat line for tid %d", tid)
	}
	utime, err := strconv.ParseUint(fields[utimeIdx], 10, 64)
	if err != nil {
		return 0, err
	}
	stime, err := strconv.ParseUint(fields[stimeIdx], 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(utime+stime) / clockTicksPerSec, nil
}
