// Package hash provides content digests used to derive storage locations.
//
// Scopekv hashes a workspace's location (and its uid, when known) to name the
// per-workspace storage directory, so that two workspaces never share a
// directory and a recreated workspace gets a fresh one. The package provides
// both a real implementation using crypto/sha256 and a fake implementation for
// testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher provides an abstraction for digest computation.
type Hasher interface {
	// Sum returns the hex-encoded digest of the concatenation of parts.
	Sum(parts ...string) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Sum computes the SHA-256 digest of the concatenated parts.
// Parts are fed without a separator: Sum("ab", "c") == Sum("a", "bc").
func (h *SHA256Hasher) Sum(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		// hash.Hash never returns an error from Write
		_, _ = hasher.Write([]byte(part))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// FakeHasher implements Hasher with deterministic digests for testing.
type FakeHasher struct {
	sums  map[string]string
	calls int
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		sums: make(map[string]string),
	}
}

// SetSum sets the digest returned for the concatenated input (for testing).
func (h *FakeHasher) SetSum(input, sum string) {
	h.sums[input] = sum
}

// Calls returns how many times Sum has been invoked.
func (h *FakeHasher) Calls() int {
	return h.calls
}

// Sum returns the predetermined digest for the concatenated parts.
func (h *FakeHasher) Sum(parts ...string) string {
	h.calls++
	var input string
	for _, part := range parts {
		input += part
	}
	if sum, ok := h.sums[input]; ok {
		return sum
	}
	// Default digest if not set
	return "fakehash"
}
