package engine

// Deck is the draw pile. Cards[Len-1] is the top; Cards[0] is the bottom,
// which holds the visible trump card after the deal.
type Deck struct {
	Cards [DeckSize]Card
	Len   uint8
}

// NewDeck returns the 36 cards in ascending order.
func NewDeck() Deck {
	var d Deck
	for i := 0; i < DeckSize; i++ {
		d.Cards[i] = Card(i)
	}
	d.Len = DeckSize
	return d
}

// NewShuffledDeck returns a full deck shuffled from seed.
func NewShuffledDeck(seed uint64) Deck {
	d := NewDeck()
	rng := newRNG(seed)
	d.Shuffle(&rng)
	return d
}

// Shuffle performs a Fisher-Yates shuffle of the remaining cards.
func (d *Deck) Shuffle(rng *RNG) {
	for i := int(d.Len) - 1; i > 0; i-- {
		j := int(rng.Intn(uint64(i + 1)))
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw removes and returns the top card, or ErrEmptyDeck.
func (d *Deck) Draw() (Card, error) {
	if d.Len == 0 {
		return EmptyCard, ErrEmptyDeck
	}
	d.Len--
	c := d.Cards[d.Len]
	d.Cards[d.Len] = EmptyCard
	return c, nil
}

// Size returns the number of cards left to draw.
func (d *Deck) Size() int { return int(d.Len) }

// Bottom returns the bottom card, or EmptyCard when the deck is empty.
func (d *Deck) Bottom() Card {
	if d.Len == 0 {
		return EmptyCard
	}
	return d.Cards[0]
}

// Remaining returns the undrawn cards, bottom first.
func (d *Deck) Remaining() []Card {
	out := make([]Card, d.Len)
	copy(out, d.Cards[:d.Len])
	return out
}

// ---------------------------------------------------------------------------
// xorshift64 RNG, inline with no interface
// ---------------------------------------------------------------------------

// RNG is a seedable xorshift64 generator.
type RNG struct{ state uint64 }

// newRNG scrambles seed with a splitmix64 step so neighbouring seeds,
// including 0, start from unrelated states.
func newRNG(seed uint64) RNG {
	x := seed + 0x9e3779b97f4a7c15
	x = (x ^ x>>30) * 0xbf58476d1ce4e5b9
	x = (x ^ x>>27) * 0x94d049bb133111eb
	x ^= x >> 31
	if x == 0 {
		x = 1 // xorshift can't start at 0
	}
	return RNG{state: x}
}

// NewRNG returns an RNG seeded with seed.
func NewRNG(seed uint64) *RNG {
	r := newRNG(seed)
	return &r
}

// Uint64 advances the generator.
func (r *RNG) Uint64() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Intn returns a number in [0, n).
func (r *RNG) Intn(n uint64) uint64 {
	return r.Uint64() % n
}
