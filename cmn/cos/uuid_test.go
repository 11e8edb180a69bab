// Package cos provides common low-level types and utilities shared by
// every streamcore package.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package cos_test

import (
	"errors"

	"github.com/kappasdr/streamcore/cmn/cos"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("GenUUID", func() {
	It("generates valid, distinct IDs", func() {
		a := cos.GenUUID()
		b := cos.GenUUID()
		Expect(a).NotTo(Equal(b))
		Expect(cos.IsValidUUID(a)).To(BeTrue())
		Expect(cos.IsValidUUID(b)).To(BeTrue())
	})
})

var _ = Describe("IsAlphaNice", func() {
	It("rejects leading/trailing separators", func() {
		Expect(cos.IsAlphaNice("-abc")).To(BeFalse())
		Expect(cos.IsAlphaNice("abc-")).To(BeFalse())
		Expect(cos.IsAlphaNice("ab-c")).To(BeTrue())
	})
	It("rejects the empty string and overlong names", func() {
		Expect(cos.IsAlphaNice("")).To(BeFalse())
		Expect(cos.IsAlphaNice("abcdefghijklmnopqrstuvwxyz0123456")).To(BeFalse())
	})
})

var _ = Describe("CryptoRandS", func() {
	It("generates distinct fixed-length strings", func() {
		a := cos.CryptoRandS(8)
		b := cos.CryptoRandS(8)
		Expect(a).To(HaveLen(8))
		Expect(b).To(HaveLen(8))
		Expect(a).NotTo(Equal(b))
	})
})

var _ = Describe("Errs", func() {
	It("deduplicates by message and caps accumulation", func() {
		var e cos.Errs
		for i := 0; i < 10; i++ {
			e.Add(errors.New("boom"))
		}
		Expect(e.Cnt()).To(Equal(1))

		var capped cos.Errs
		for i := 0; i < 10; i++ {
			capped.Add(errors.New(string(rune('a' + i))))
		}
		Expect(capped.Cnt()).To(Equal(4))
	})

	It("joins accumulated errors", func() {
		var e cos.Errs
		e.Add(errors.New("first"))
		e.Add(errors.New("second"))
		cnt, err := e.JoinErr()
		Expect(cnt).To(Equal(2))
		Expect(err).To(HaveOccurred())
	})
})
