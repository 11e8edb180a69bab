// Package mono provides a single monotonic-clock read used for
// interval math (logger last-write timestamps, task occupancy sampling) where
// wall-clock adjustments must never be observed.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package mono

import "time"

// start anchors NanoTime on the Unix epoch; time.Since(start) reads
// Go's monotonic clock, so later wall-clock adjustments are not seen.
var (
	start     = time.Now()
	startNano = start.UnixNano()
)

// NanoTime returns a monotonic nanosecond counter. Only differences
// between two calls are meaningful.
func NanoTime() int64 { return startNano + int64(time.Since(start)) }

// Since is a small convenience used throughout the module for
// readable Δt math against a NanoTime() sample.
func Since(t int64) time.Duration { return time.Duration(NanoTime() - t) }
