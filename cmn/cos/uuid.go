// Package cos provides common low-level types and utilities shared by
// every streamcore package.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"crypto/rand"
	"sync/atomic"

	"github.com/OneOfOne/xxhash"
	"github.com/teris-io/shortid"
)

// Alphabet for generating short IDs, similar to shortid.DEFAULT_ABC.
const uuidABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

const (
	LenShortID = 9  // as per https://github.com/teris-io/shortid#id-length
	tooLongID  = 32 // cannot be smaller than any valid max length above
)

var (
	sid  *shortid.Shortid
	rtie atomic.Uint32
)

// InitShortID seeds the generator. Call once at process start; a
// fixed seed (e.g. the qualified host name hashed via xxhash) makes
// test runs reproducible.
func InitShortID(seed uint64) {
	sid = shortid.MustNew(4 /*worker*/, uuidABC, seed)
}

func init() { InitShortID(xxhash.Checksum64(nil)) }

// GenUUID returns a short, URL-safe, collision-resistant identifier,
// used to make each task.Manager's housekeeping job names unique.
func GenUUID() (uuid string) {
	var h, t string
	uuid = sid.MustGenerate()
	if !isAlpha(uuid[0]) {
		tie := int(rtie.Add(1))
		h = string(rune('A' + tie%26))
	}
	c := uuid[len(uuid)-1]
	if c == '-' || c == '_' {
		tie := int(rtie.Add(1))
		t = string(rune('a' + tie%26))
	}
	return h + uuid + t
}

func IsValidUUID(uuid string) bool {
	return len(uuid) >= LenShortID && IsAlphaNice(uuid)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsAlphaNice reports whether s is letters/numbers with interior-only
// '-'/'_', up to tooLongID chars — used to validate caller-supplied
// qualified-name prefixes (block logical names).
func IsAlphaNice(s string) bool {
	l := len(s)
	if l == 0 || l > tooLongID {
		return false
	}
	for i := 0; i < l; i++ {
		c := s[i]
		if isAlpha(c) || (c >= '0' && c <= '9') {
			continue
		}
		if c != '-' && c != '_' {
			return false
		}
		if i == 0 || i == l-1 {
			return false
		}
	}
	return true
}

// CryptoRandS returns n cryptographically random alphanumeric
// characters — used where a UUID would be overkill (e.g. plugin
// instance suffixes) but predictable test IDs are unacceptable.
func CryptoRandS(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is a host-level emergency; fall back to
		// a fixed pattern rather than panic in a logging/ID helper.
		for i := range b {
			b[i] = letters[i%len(letters)]
		}
		return string(b)
	}
	for i, c := range buf {
		b[i] = letters[int(c)%len(letters)]
	}
	return string(b)
}
