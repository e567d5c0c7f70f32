package cache

import (
	"encoding/binary"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/xess-engine/xsc/internal/shader"
)

// Key is the 64-bit fingerprint identifying a unique (source, stage,
// options) combination. Two inputs that collide on the key are treated
// as identical; there is no raw-content double check.
type Key uint64

// Hex formats the key for use in cache file names.
func (k Key) Hex() string {
	return strconv.FormatUint(uint64(k), 16)
}

// mixConstant is the odd constant folded into every hash-combine step
// (the 64-bit golden ratio gamma).
const mixConstant = 0x9e3779b97f4a7c15

// DeriveKey computes the cache key for a compile. It seeds from a hash of
// the raw source text, then folds in the stage, the option set, and each
// macro in list order. Macro order is part of the identity and is never
// normalized: persisted caches are keyed by it.
//
// The derivation is a pure function: identical inputs always yield the
// identical key. Include paths do not participate.
func DeriveKey(source string, stage shader.Stage, opts shader.Options) Key {
	h := hashString(source)

	h = combine(h, uint64(stage))
	h = combine(h, uint64(opts.TargetModel))
	h = combine(h, boolBit(opts.DebugInfo))
	h = combine(h, boolBit(opts.Optimize))
	h = combine(h, uint64(opts.OptimizationLevel))

	for _, m := range opts.Macros {
		h = combine(h, hashString(m.Name+"="+m.Definition))
	}

	return Key(h)
}

func combine(h, v uint64) uint64 {
	return h ^ (v + mixConstant + (h << 6) + (h >> 2))
}

func hashString(s string) uint64 {
	sum := blake3.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(sum[:8])
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}

	return 0
}
