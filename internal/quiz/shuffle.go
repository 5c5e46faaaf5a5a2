package quiz

import (
	"math/rand"
	"sync"
	"time"
)

// Slot pairs a display position with the canonical index shown there.
type Slot struct {
	Display   int `json:"display"`
	Canonical int `json:"canonical"`
}

// Order is a presentation order: Order[i].Display == i.
type Order []Slot

// Identity returns the unshuffled order over n items.
func Identity(n int) Order {
	if n < 0 {
		n = 0
	}
	o := make(Order, n)
	for i := range o {
		o[i] = Slot{Display: i, Canonical: i}
	}
	return o
}

// Canonical resolves a display position to its canonical index.
func (o Order) Canonical(display int) (int, bool) {
	if display < 0 || display >= len(o) {
		return -1, false
	}
	return o[display].Canonical, true
}

// Display finds where a canonical index is shown.
func (o Order) Display(canonical int) (int, bool) {
	for _, s := range o {
		if s.Canonical == canonical {
			return s.Display, true
		}
	}
	return -1, false
}

// Shuffler produces a presentation order for n items of a given study.
type Shuffler interface {
	Order(n, questionIndex int) Order
}

// NewShuffler returns the shuffler for a variant's shuffle mode.
func NewShuffler(mode ShuffleMode) Shuffler {
	switch mode {
	case ShuffleRandom:
		return NewRandomShuffler(time.Now().UnixNano())
	case ShuffleSeeded:
		return SeededShuffler{}
	default:
		return IdentityShuffler{}
	}
}

// IdentityShuffler never reorders.
type IdentityShuffler struct{}

func (IdentityShuffler) Order(n, _ int) Order {
	return Identity(n)
}

// RandomShuffler is a uniform Fisher-Yates shuffle; every call gives a fresh order.
type RandomShuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomShuffler(seed int64) *RandomShuffler {
	return &RandomShuffler{rnd: rand.New(rand.NewSource(seed))}
}

func (s *RandomShuffler) Order(n, _ int) Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return permute(n, func(i int) int {
		return s.rnd.Intn(i + 1)
	})
}

// SeededShuffler derives the order from the study position, so going back
// and forth always shows the same order without storing it.
type SeededShuffler struct{}

const (
	seedMultiplier = 9301
	seedIncrement  = 49297
	seedModulus    = 233280
)

func (SeededShuffler) Order(n, questionIndex int) Order {
	if questionIndex < 0 {
		return Identity(n)
	}
	seed := questionIndex*seedMultiplier + seedIncrement
	return permute(n, func(i int) int {
		r := float64((seed*(i+1))%seedModulus) / seedModulus
		return int(r * float64(i+1))
	})
}

// permute runs a Fisher-Yates pass; pick(i) chooses the swap partner in [0, i].
func permute(n int, pick func(i int) int) Order {
	o := Identity(n)
	if n <= 1 {
		return o
	}
	for i := n - 1; i > 0; i-- {
		j := pick(i)
		if j < 0 || j > i {
			j = i
		}
		o[i].Canonical, o[j].Canonical = o[j].Canonical, o[i].Canonical
	}
	return o
}
