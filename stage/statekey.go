package stage

import "math"

// HashWords XORs a state key's fields together as 32-bit words, the
// same scheme original_source/src/Device/VertexProcessor.cpp's
// State::computeHash uses (there: reinterpret_cast the whole struct to
// uint32 and XOR every word). Go has no portable struct-to-word-slice
// cast, so each state type's Hash method lists its own fields as words
// explicitly instead of relying on an unsafe reinterpret.
func HashWords(words ...uint32) uint32 {
	var h uint32
	for _, w := range words {
		h ^= w
	}
	return h
}

// CanonFloat32 canonicalizes a float32 state-key field before hashing,
// per spec.md §4.E: every NaN collapses to one representative bit
// pattern, and negative zero becomes positive zero, so two states that
// differ only in NaN payload or zero sign still hash and compare equal.
func CanonFloat32(f float32) uint32 {
	if f != f { // NaN
		return 0x7fc00000
	}
	if f == 0 {
		return 0
	}
	return math.Float32bits(f)
}

// BoolWord packs a bool into a hashable 32-bit word.
func BoolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
