// Package bot provides baseline Durak agents for self-play and testing.
package bot

import (
	"errors"
	rand "math/rand/v2"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/engine/agent"
	"github.com/rsaeta/durak/env"
)

// ErrNoLegalAction is returned when an agent is asked to move with an
// empty legal set.
var ErrNoLegalAction = errors.New("bot: no legal action offered")

const goldenRatio64 = 0x9e3779b97f4a7c15

// newRand returns a *rand.Rand seeded deterministically from seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(mix(seed), mix(seed+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Random plays a uniformly random legal action. Not safe for concurrent use.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random agent seeded with seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: newRand(seed)}
}

func (r *Random) ChooseAction(_ agent.Observation, legal env.LegalSet, _ []agent.Observation) (uint16, error) {
	if legal.Len() == 0 {
		return 0, ErrNoLegalAction
	}
	return legal.Index(r.rng.IntN(legal.Len())), nil
}

// Greedy sheds its cheapest cards: it attacks and defends with the lowest
// card that works, keeps trumps back when throwing in, and takes only when
// it cannot beat the attack.
type Greedy struct{}

func (Greedy) ChooseAction(obs agent.Observation, legal env.LegalSet, _ []agent.Observation) (uint16, error) {
	if legal.Len() == 0 {
		return 0, ErrNoLegalAction
	}
	trump := obs.Trump.Suit()

	best := -1
	bestCost := 0
	for i, a := range legal.Actions {
		if a.Kind == engine.KindTake || a.Kind == engine.KindStopAttack {
			continue
		}
		// Trumps are kept back from throw-ins.
		if a.Kind == engine.KindThrowIn && a.Card.Suit() == trump {
			continue
		}
		if c := cost(a.Card, trump); best < 0 || c < bestCost {
			best, bestCost = i, c
		}
	}
	if best >= 0 {
		return legal.Index(best), nil
	}

	switch {
	case legal.Has(engine.ActionStopAttack):
		return engine.ActionStopAttack, nil
	case legal.Has(engine.ActionTake):
		return engine.ActionTake, nil
	}
	return legal.Index(0), nil
}

// cost orders cards by rank with every trump above every plain card.
func cost(c engine.Card, trump uint8) int {
	v := int(c.Rank())
	if c.Suit() == trump {
		v += engine.NumRanks * 2
	}
	return v
}

var (
	_ env.Agent = (*Random)(nil)
	_ env.Agent = Greedy{}
)
