// Package engine implements the two-player Durak rules.
//
// GameState is a flat value type (arrays only, no pointers) so it can be
// copied with =, compared with == and saved for undo without allocation.
// The same state drives live play through the env package and bulk
// self-play for training.
package engine

import (
	"fmt"
	"strings"
)

const (
	NumPlayers = 2
	DeckSize   = NumSuits * NumRanks // 36
	MaxTable   = 6
)

// GameState holds the complete, self-contained state of a Durak game.
type GameState struct {
	Hands      [NumPlayers]CardSet
	Deck       Deck
	Attack     [MaxTable]Card
	AttackLen  uint8
	Defense    [MaxTable]Card // Defense[i] beats Attack[i]; filled as a prefix
	DefenseLen uint8
	Discard    CardSet
	Trump      Card // visible trump card, drawn last
	Attacker   Player
	Defender   Player
	Acting     Player
	Phase      Phase
	Flags      uint8
	Winner     Player
	Round      uint16
	Steps      uint32
	Seed       uint64
	Rules      HouseRules
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagDefenderTook uint8 = 1 << 0
	FlagGameOver     uint8 = 1 << 1
	FlagDraw         uint8 = 1 << 2
)

func (g *GameState) DefenderHasTaken() bool { return g.Flags&FlagDefenderTook != 0 }
func (g *GameState) IsTerminal() bool       { return g.Flags&FlagGameOver != 0 }
func (g *GameState) IsDraw() bool           { return g.Flags&FlagDraw != 0 }

// ---------------------------------------------------------------------------
// NewGame
// ---------------------------------------------------------------------------

// NewGame shuffles a fresh deck from seed, deals both hands, reveals the
// trump and picks the first attacker.
func NewGame(seed uint64, rules HouseRules) GameState {
	var g GameState
	g.Seed = seed
	g.Rules = rules
	g.Winner = NoPlayer
	g.clearTable()

	g.Deck = NewShuffledDeck(seed)

	// Deal cards: alternate between players.
	for c := 0; c < g.Rules.handSize(); c++ {
		for p := 0; p < NumPlayers; p++ {
			card, _ := g.Deck.Draw()
			g.Hands[p] = g.Hands[p].Add(card)
		}
	}

	// The bottom card is shown face up and drawn last.
	g.Trump = g.Deck.Bottom()

	first := Player1
	if g.Rules.LowestTrumpLeads {
		first = lowestTrumpHolder(g.Hands, g.TrumpSuit())
	}
	g.startRound(first)
	return g
}

// lowestTrumpHolder returns the player holding the lowest trump. Player1
// leads when neither holds one.
func lowestTrumpHolder(hands [NumPlayers]CardSet, trump uint8) Player {
	c1 := hands[Player1].Lowest(trump)
	c2 := hands[Player2].Lowest(trump)
	switch {
	case c1 != EmptyCard && c2 != EmptyCard:
		if c2 < c1 {
			return Player2
		}
		return Player1
	case c2 != EmptyCard:
		return Player2
	default:
		return Player1
	}
}

// startRound sets up an empty table with attacker to act.
func (g *GameState) startRound(attacker Player) {
	g.Attacker = attacker
	g.Defender = attacker.Other()
	g.Acting = attacker
	g.Phase = PhaseAttacking
}

func (g *GameState) clearTable() {
	for i := range g.Attack {
		g.Attack[i] = EmptyCard
		g.Defense[i] = EmptyCard
	}
	g.AttackLen = 0
	g.DefenseLen = 0
	g.Flags &^= FlagDefenderTook
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// TrumpSuit returns the trump suit for the game.
func (g *GameState) TrumpSuit() uint8 { return g.Trump.Suit() }

// ActingPlayer returns the player who must act next.
func (g *GameState) ActingPlayer() Player { return g.Acting }

// DeckSize returns the number of cards left in the draw pile.
func (g *GameState) DeckSize() int { return g.Deck.Size() }

// Hand returns a copy of the player's hand.
func (g *GameState) Hand(p Player) CardSet { return g.Hands[p] }

// HandLen returns the number of cards in the player's hand.
func (g *GameState) HandLen(p Player) int { return g.Hands[p].Len() }

// AttackTable returns the attack cards in play order.
func (g *GameState) AttackTable() []Card {
	out := make([]Card, g.AttackLen)
	copy(out, g.Attack[:g.AttackLen])
	return out
}

// DefenseTable returns the defending cards, position-aligned with AttackTable.
func (g *GameState) DefenseTable() []Card {
	out := make([]Card, g.DefenseLen)
	copy(out, g.Defense[:g.DefenseLen])
	return out
}

// Undefended returns the number of attack cards not yet beaten.
func (g *GameState) Undefended() int { return int(g.AttackLen) - int(g.DefenseLen) }

// TableEmpty reports whether no card is on the table.
func (g *GameState) TableEmpty() bool { return g.AttackLen == 0 }

// tableRanks returns a bitmask of ranks (bit rank-6) present on the table.
func (g *GameState) tableRanks() uint16 {
	var ranks uint16
	for i := uint8(0); i < g.AttackLen; i++ {
		ranks |= 1 << (g.Attack[i].Rank() - RankSix)
	}
	for i := uint8(0); i < g.DefenseLen; i++ {
		ranks |= 1 << (g.Defense[i].Rank() - RankSix)
	}
	return ranks
}

// tableSet returns the table cards as a set.
func (g *GameState) tableSet() CardSet {
	var s CardSet
	for i := uint8(0); i < g.AttackLen; i++ {
		s = s.Add(g.Attack[i])
	}
	for i := uint8(0); i < g.DefenseLen; i++ {
		s = s.Add(g.Defense[i])
	}
	return s
}

// Rewards returns the terminal rewards: +1 for the safe player, -1 for the
// durak, 0 for both on a draw or while the game is running.
func (g *GameState) Rewards() [NumPlayers]float32 {
	var r [NumPlayers]float32
	if !g.IsTerminal() || g.IsDraw() || g.Winner == NoPlayer {
		return r
	}
	r[g.Winner] = 1
	r[g.Winner.Other()] = -1
	return r
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }

// String renders the full state for debugging. It reveals both hands.
func (g *GameState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{\n")
	fmt.Fprintf(&b, "\tDeck: %d %v\n", g.Deck.Len, g.Deck.Remaining())
	fmt.Fprintf(&b, "\tTrump: %v\n", g.Trump)
	fmt.Fprintf(&b, "\tAttack: %v\n", g.AttackTable())
	fmt.Fprintf(&b, "\tDefense: %v\n", g.DefenseTable())
	fmt.Fprintf(&b, "\tHand1: %v\n", g.Hands[Player1])
	fmt.Fprintf(&b, "\tHand2: %v\n", g.Hands[Player2])
	fmt.Fprintf(&b, "\tAttacker: %v Defender: %v Acting: %v Phase: %v\n", g.Attacker, g.Defender, g.Acting, g.Phase)
	fmt.Fprintf(&b, "\tDefender has taken: %v\n", g.DefenderHasTaken())
	fmt.Fprintf(&b, "\tDiscard: %v\n", g.Discard)
	fmt.Fprintf(&b, "}")
	return b.String()
}
