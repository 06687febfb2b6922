package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine builds an aggregate hash: H( content || part1 || part2 ... ).
// The order of parts must be deterministic.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// OfBytes hashes raw bytes into a Digest.
func OfBytes(b []byte) Digest {
	return sha256.Sum256(b)
}

// OfString hashes a string into a Digest.
func OfString(s string) Digest {
	return sha256.Sum256([]byte(s))
}
