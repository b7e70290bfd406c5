// Package random provides power-on/reset randomisation (real hardware RAM
// and registers do not start at zero) while keeping
// save-state rewind deterministic: values drawn via Rewindable are seeded
// from the emulated master-clock position, so replaying the same tick
// sequence after a state load reproduces the same "random" draws; values
// drawn via NoRewind use a free-running seed that is never reproduced.
package random

import (
	"math/rand"
)

// TickSource supplies the current master-clock tick, used to seed
// rewindable random draws.
type TickSource interface {
	CurrentTick() uint64
}

// Random is the per-System random source.
type Random struct {
	src TickSource

	// ZeroSeed forces the rewindable generator to seed from zero every
	// call, which is useful in tests that need two independently
	// constructed Random values to agree.
	ZeroSeed bool

	freeRunning *rand.Rand
}

// NewRandom creates a Random bound to the given tick source.
func NewRandom(src TickSource) *Random {
	return &Random{
		src:         src,
		freeRunning: rand.New(rand.NewSource(1)),
	}
}

// Rewindable returns a pseudo-random value in [0, ceiling) seeded from the
// current master-clock tick (or zero, if ZeroSeed is set). Two Random
// instances fed the same tick sequence produce the same Rewindable
// sequence, which is required for save-state round-trip determinism.
func (r *Random) Rewindable(ceiling int) int {
	if ceiling <= 0 {
		return 0
	}

	var seed uint64
	if !r.ZeroSeed && r.src != nil {
		seed = r.src.CurrentTick()
	}

	rnd := rand.New(rand.NewSource(int64(seed)))
	return rnd.Intn(ceiling)
}

// NoRewind returns a pseudo-random value in [0, ceiling) from a
// free-running generator not tied to the master clock. Used for values
// that do not need to replay identically after a state load (e.g. initial
// power-on noise that is immediately overwritten by the running program).
func (r *Random) NoRewind(ceiling int) int {
	if ceiling <= 0 {
		return 0
	}
	return r.freeRunning.Intn(ceiling)
}
