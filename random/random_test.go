package random_test

import (
	"testing"

	"github.com/silicontrace/multicore/random"
	"github.com/silicontrace/multicore/test"
)

type tickSource struct {
	tick uint64
}

func (t *tickSource) CurrentTick() uint64 { return t.tick }

func TestRewindableDeterminism(t *testing.T) {
	a := random.NewRandom(&tickSource{tick: 100})
	b := random.NewRandom(&tickSource{tick: 100})
	a.ZeroSeed = true
	b.ZeroSeed = true

	for i := 1; i < 256; i++ {
		test.ExpectEquality(t, a.Rewindable(i), b.Rewindable(i))
	}
}

func TestNoRewindInRange(t *testing.T) {
	r := random.NewRandom(&tickSource{})
	for i := 0; i < 100; i++ {
		v := r.NoRewind(16)
		if v < 0 || v >= 16 {
			t.Errorf("NoRewind(16) out of range: %d", v)
		}
	}
}
