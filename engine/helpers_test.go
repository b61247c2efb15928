package engine

import (
	"strings"
	"testing"
)

// mustCards parses a space separated card list such as "6C 10H AS".
func mustCards(t testing.TB, s string) []Card {
	t.Helper()
	var out []Card
	for _, f := range strings.Fields(s) {
		c, err := ParseCard(f)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", f, err)
		}
		out = append(out, c)
	}
	return out
}

func mustCard(t testing.TB, s string) Card {
	t.Helper()
	return mustCards(t, s)[0]
}

// table describes a hand-built position at the start of a round. Cards not
// placed in a hand or the deck go to the discard pile.
type table struct {
	hand1, hand2 string
	deck         string // bottom first; the bottom card is the trump
	trump        string // only used when deck is empty
	attacker     Player
}

func (tb table) build(t testing.TB) GameState {
	t.Helper()
	g := GameState{Rules: DefaultHouseRules(), Winner: NoPlayer}
	g.clearTable()

	g.Hands[Player1] = SetOf(mustCards(t, tb.hand1)...)
	g.Hands[Player2] = SetOf(mustCards(t, tb.hand2)...)

	for i := range g.Deck.Cards {
		g.Deck.Cards[i] = EmptyCard
	}
	deck := mustCards(t, tb.deck)
	copy(g.Deck.Cards[:], deck)
	g.Deck.Len = uint8(len(deck))

	if len(deck) > 0 {
		g.Trump = deck[0]
	} else {
		g.Trump = mustCard(t, tb.trump)
	}

	used := g.Hands[Player1] | g.Hands[Player2] | SetOf(deck...)
	for c := Card(0); c < DeckSize; c++ {
		if !used.Has(c) {
			g.Discard = g.Discard.Add(c)
		}
	}

	g.startRound(tb.attacker)
	if err := g.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v\n%v", err, &g)
	}
	return g
}

// mustApply applies a and fails the test on error.
func mustApply(t testing.TB, g *GameState, a Action) {
	t.Helper()
	if err := g.Apply(a); err != nil {
		t.Fatalf("Apply(%v): %v\n%v", a, err, g)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("after %v: %v\n%v", a, err, g)
	}
}

func actionsEqual(a, b []Action) bool {
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
