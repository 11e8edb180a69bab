//go:build !linux

package sys

// ThreadCPUTimeOf has no portable cross-thread equivalent outside
// Linux's /proc; callers treat the error as "occupancy unavailable on
// this platform."
func ThreadCPUTimeOf(_ int32) (float64, error) {
	return 0, errUnsupported
}

type unsupportedErr struct{}

func (unsupportedErr) Error() string { return "per-thread CPU time: linux only" }

var errUnsupported = unsupportedErr{}
