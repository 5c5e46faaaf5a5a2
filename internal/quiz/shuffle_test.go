package quiz

import (
	"sort"
	"testing"
)

func canonicals(o Order) []int {
	out := make([]int, len(o))
	for i, s := range o {
		out[i] = s.Canonical
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSeededShufflerKnownOrders(t *testing.T) {
	tests := []struct {
		question int
		n        int
		want     []int
	}{
		{0, 4, []int{2, 0, 1, 3}},
		{0, 3, []int{2, 0, 1}},
		{0, 2, []int{1, 0}},
		{1, 4, []int{3, 1, 2, 0}},
		{1, 2, []int{0, 1}},
		{2, 4, []int{3, 1, 2, 0}},
		{3, 4, []int{0, 3, 2, 1}},
	}

	for _, tt := range tests {
		got := canonicals(SeededShuffler{}.Order(tt.n, tt.question))
		if !equalInts(got, tt.want) {
			t.Errorf("Order(%d, %d) = %v, want %v", tt.n, tt.question, got, tt.want)
		}
	}
}

func TestSeededShufflerIsRepeatable(t *testing.T) {
	s := SeededShuffler{}
	for q := 0; q < 20; q++ {
		first := canonicals(s.Order(11, q))
		second := canonicals(s.Order(11, q))
		if !equalInts(first, second) {
			t.Fatalf("question %d: %v then %v", q, first, second)
		}
	}
}

func TestShufflersProducePermutations(t *testing.T) {
	shufflers := map[string]Shuffler{
		"random":   NewRandomShuffler(42),
		"seeded":   SeededShuffler{},
		"identity": IdentityShuffler{},
	}

	for name, s := range shufflers {
		for n := 0; n <= 11; n++ {
			o := s.Order(n, n)
			if len(o) != n {
				t.Fatalf("%s: len = %d, want %d", name, len(o), n)
			}
			got := canonicals(o)
			sort.Ints(got)
			for i, c := range got {
				if c != i {
					t.Fatalf("%s: n=%d is not a permutation: %v", name, n, canonicals(o))
				}
			}
			for i, slot := range o {
				if slot.Display != i {
					t.Errorf("%s: slot %d has display %d", name, i, slot.Display)
				}
			}
		}
	}
}

func TestShuffleOfTinyListsIsIdentity(t *testing.T) {
	for _, n := range []int{0, 1} {
		for _, s := range []Shuffler{NewRandomShuffler(1), SeededShuffler{}} {
			o := s.Order(n, 5)
			if n == 1 && o[0].Canonical != 0 {
				t.Errorf("n=1: canonical = %d, want 0", o[0].Canonical)
			}
			if len(o) != n {
				t.Errorf("n=%d: len = %d", n, len(o))
			}
		}
	}
}

func TestRandomShufflerFollowsSeed(t *testing.T) {
	a := NewRandomShuffler(7)
	b := NewRandomShuffler(7)
	for i := 0; i < 5; i++ {
		if x, y := canonicals(a.Order(8, 0)), canonicals(b.Order(8, 0)); !equalInts(x, y) {
			t.Fatalf("same seed diverged: %v vs %v", x, y)
		}
	}
}

func TestOrderLookups(t *testing.T) {
	o := SeededShuffler{}.Order(4, 0)

	for _, display := range []int{-1, 4, 100} {
		if c, ok := o.Canonical(display); ok || c != -1 {
			t.Errorf("Canonical(%d) = %d, %v; want -1, false", display, c, ok)
		}
	}
	for display := range o {
		c, _ := o.Canonical(display)
		back, ok := o.Display(c)
		if !ok || back != display {
			t.Errorf("Display(Canonical(%d)) = %d, %v", display, back, ok)
		}
	}

	var empty Order
	if _, ok := empty.Canonical(0); ok {
		t.Error("empty order resolved a position")
	}
}

func TestNewShufflerModes(t *testing.T) {
	if _, ok := NewShuffler(ShuffleSeeded).(SeededShuffler); !ok {
		t.Error("seeded mode did not return SeededShuffler")
	}
	if _, ok := NewShuffler(ShuffleRandom).(*RandomShuffler); !ok {
		t.Error("random mode did not return *RandomShuffler")
	}
	if _, ok := NewShuffler(ShuffleNone).(IdentityShuffler); !ok {
		t.Error("none mode did not return IdentityShuffler")
	}
}
