package sim

import "testing"

func TestTickRNG_SameSeedSameDraws(t *testing.T) {
	a := TickRNG(42, 7)
	b := TickRNG(42, 7)
	for i := 0; i < 100; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d diverged: %v vs %v", i, x, y)
		}
	}
}

func TestTickRNG_DifferentTicksDiverge(t *testing.T) {
	a := TickRNG(42, 7)
	b := TickRNG(42, 8)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("ticks 7 and 8 produced identical draw sequences")
	}
}

func TestTickRNG_DifferentSeedsDiverge(t *testing.T) {
	a := TickRNG(1, 5)
	b := TickRNG(2, 5)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("seeds 1 and 2 produced identical draw sequences")
	}
}
