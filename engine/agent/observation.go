// Package agent turns engine states into per-player observations and the
// fixed-shape float vectors consumed by learning agents.
package agent

import (
	"fmt"
	"strings"

	engine "github.com/rsaeta/durak/engine"
)

// Observation is what one player may see of a game. It never holds the
// identity of the opponent's cards or the deck order.
type Observation struct {
	Viewer      engine.Player
	Acting      engine.Player
	Attacker    engine.Player
	Defender    engine.Player
	Hand        engine.CardSet
	Attack      [MaxTable]engine.Card
	AttackLen   uint8
	Defense     [MaxTable]engine.Card
	DefenseLen  uint8
	Discard     engine.CardSet
	DeckSize    uint8
	Trump       engine.Card
	Taken       bool
	OppHandSize uint8
	Terminal    bool
}

// Observe builds viewer's view of g. A viewer outside the two seats gets an
// empty observation with every player field set to NoPlayer.
func Observe(g *engine.GameState, viewer engine.Player) Observation {
	if viewer >= NumPlayers {
		return Observation{
			Viewer:   engine.NoPlayer,
			Acting:   engine.NoPlayer,
			Attacker: engine.NoPlayer,
			Defender: engine.NoPlayer,
			Trump:    engine.EmptyCard,
		}
	}
	o := Observation{
		Viewer:      viewer,
		Acting:      g.Acting,
		Attacker:    g.Attacker,
		Defender:    g.Defender,
		Hand:        g.Hands[viewer],
		Attack:      g.Attack,
		AttackLen:   g.AttackLen,
		Defense:     g.Defense,
		DefenseLen:  g.DefenseLen,
		Discard:     g.Discard,
		DeckSize:    uint8(g.DeckSize()),
		Trump:       g.Trump,
		Taken:       g.DefenderHasTaken(),
		OppHandSize: uint8(g.HandLen(viewer.Other())),
		Terminal:    g.IsTerminal(),
	}
	return o
}

// MyTurn reports whether the viewer is the acting player.
func (o *Observation) MyTurn() bool {
	return !o.Terminal && o.Viewer < NumPlayers && o.Acting == o.Viewer
}

// Undefended returns the number of attack cards not yet beaten.
func (o *Observation) Undefended() int { return int(o.AttackLen) - int(o.DefenseLen) }

func (o Observation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v view: hand %v, trump %v, deck %d, opponent holds %d\n",
		o.Viewer, o.Hand, o.Trump, o.DeckSize, o.OppHandSize)
	fmt.Fprintf(&b, "attacker %v, defender %v, %v to act", o.Attacker, o.Defender, o.Acting)
	if o.Taken {
		b.WriteString(" (defender took)")
	}
	b.WriteString("\ntable:")
	if o.AttackLen == 0 {
		b.WriteString(" empty")
	}
	for i := uint8(0); i < o.AttackLen; i++ {
		if i < o.DefenseLen {
			fmt.Fprintf(&b, " %v/%v", o.Attack[i], o.Defense[i])
		} else {
			fmt.Fprintf(&b, " %v", o.Attack[i])
		}
	}
	return b.String()
}
