// Package hk provides mechanism for registering cleanup
// functions which are invoked at specified intervals.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package hk_test

import (
	"sync/atomic"
	"time"

	"github.com/kappasdr/streamcore/hk"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Housekeeper", func() {
	It("runs a registered job at least once", func() {
		var n atomic.Int64
		hk.Reg("count"+hk.NameSuffix, func() time.Duration {
			n.Add(1)
			return 0 // non-positive: rescheduled at the registered 1ms interval
		}, time.Millisecond)

		Eventually(func() int64 { return n.Load() }, 2*time.Second, 10*time.Millisecond).
			Should(BeNumerically(">=", int64(1)))
	})

	It("reschedules a job that returns a positive interval", func() {
		var n atomic.Int64
		hk.Reg("reschedule"+hk.NameSuffix, func() time.Duration {
			n.Add(1)
			return 5 * time.Millisecond
		}, time.Millisecond)

		Eventually(func() int64 { return n.Load() }, 2*time.Second, 10*time.Millisecond).
			Should(BeNumerically(">=", int64(3)))

		hk.Unreg("reschedule" + hk.NameSuffix)
	})
})
