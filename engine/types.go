package engine

import (
	"fmt"
	"math/bits"
	"strings"
)

// Suit constants, in canonical (ascending) order.
const (
	SuitClubs    uint8 = 0
	SuitDiamonds uint8 = 1
	SuitHearts   uint8 = 2
	SuitSpades   uint8 = 3
	NumSuits           = 4
)

// Rank constants. Ranks are ordinal: Six (6) through Ace (14).
const (
	RankSix   uint8 = 6
	RankSeven uint8 = 7
	RankEight uint8 = 8
	RankNine  uint8 = 9
	RankTen   uint8 = 10
	RankJack  uint8 = 11
	RankQueen uint8 = 12
	RankKing  uint8 = 13
	RankAce   uint8 = 14
	NumRanks        = 9
)

// Card is a dense index in [0, DeckSize): suit*NumRanks + (rank - RankSix).
// Ascending index order is ascending suit, then ascending rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card(suit*NumRanks + (rank - RankSix))
}

// Suit returns the card's suit.
func (c Card) Suit() uint8 { return uint8(c) / NumRanks }

// Rank returns the card's ordinal rank (6–14).
func (c Card) Rank() uint8 { return uint8(c)%NumRanks + RankSix }

// Valid reports whether c names one of the 36 cards.
func (c Card) Valid() bool { return c < DeckSize }

// Beats reports whether c beats other under the given trump suit: a higher
// card of the same suit, or any trump against a non-trump.
func (c Card) Beats(other Card, trump uint8) bool {
	if c.Suit() == other.Suit() {
		return c.Rank() > other.Rank()
	}
	return c.Suit() == trump
}

var (
	suitLetters = [NumSuits]byte{'C', 'D', 'H', 'S'}
	rankNames   = [NumRanks]string{"6", "7", "8", "9", "10", "J", "Q", "K", "A"}
)

// String renders the card as rank followed by a suit letter, e.g. "10H" or "AS".
func (c Card) String() string {
	if c == EmptyCard {
		return "--"
	}
	if !c.Valid() {
		return fmt.Sprintf("?%d", uint8(c))
	}
	return rankNames[c.Rank()-RankSix] + string(suitLetters[c.Suit()])
}

// ParseCard is the inverse of Card.String.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return EmptyCard, fmt.Errorf("card %q: too short", s)
	}
	suitCh := s[len(s)-1]
	suit := uint8(NumSuits)
	for i, l := range suitLetters {
		if l == suitCh {
			suit = uint8(i)
		}
	}
	if suit == NumSuits {
		return EmptyCard, fmt.Errorf("card %q: unknown suit %q", s, suitCh)
	}
	rankStr := s[:len(s)-1]
	for i, name := range rankNames {
		if name == rankStr {
			return NewCard(suit, RankSix+uint8(i)), nil
		}
	}
	return EmptyCard, fmt.Errorf("card %q: unknown rank %q", s, rankStr)
}

// ---------------------------------------------------------------------------
// CardSet
// ---------------------------------------------------------------------------

// CardSet is a bitset over the 36 cards. Bit i is set when Card(i) is present.
type CardSet uint64

// SetOf builds a CardSet from the given cards.
func SetOf(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.Add(c)
	}
	return s
}

func (s CardSet) Add(c Card) CardSet    { return s | 1<<c }
func (s CardSet) Remove(c Card) CardSet { return s &^ (1 << c) }
func (s CardSet) Has(c Card) bool       { return c.Valid() && s&(1<<c) != 0 }
func (s CardSet) Len() int              { return bits.OnesCount64(uint64(s)) }
func (s CardSet) Empty() bool           { return s == 0 }

// Cards returns the cards in ascending index order.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Len())
	for w := uint64(s); w != 0; w &= w - 1 {
		out = append(out, Card(bits.TrailingZeros64(w)))
	}
	return out
}

// Lowest returns the lowest card of the given suit in s, or EmptyCard.
func (s CardSet) Lowest(suit uint8) Card {
	suitBits := uint64(s) >> (suit * NumRanks) & (1<<NumRanks - 1)
	if suitBits == 0 {
		return EmptyCard
	}
	return Card(suit*NumRanks + uint8(bits.TrailingZeros64(suitBits)))
}

func (s CardSet) String() string {
	cards := s.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ---------------------------------------------------------------------------
// Players and phases
// ---------------------------------------------------------------------------

// Player identifies one of the two seats.
type Player uint8

const (
	Player1 Player = 0
	Player2 Player = 1

	// NoPlayer marks an unset Winner.
	NoPlayer Player = 0xFF
)

// Other returns the opposing seat.
func (p Player) Other() Player { return 1 - p }

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return "none"
	}
}

// Phase is the round phase.
type Phase uint8

const (
	PhaseAttacking Phase = iota // attacker to act
	PhaseDefending              // defender to act
	PhaseResolved               // table cleared; only observable once the game is over
)

func (p Phase) String() string {
	switch p {
	case PhaseAttacking:
		return "attacking"
	case PhaseDefending:
		return "defending"
	case PhaseResolved:
		return "resolved"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// ---------------------------------------------------------------------------
// Action index constants
// ---------------------------------------------------------------------------
//
// Layout:
//   0–35  PlayCard(card): Attack, ThrowIn or Defend depending on the role
//   36    Take
//   37    StopAttack

const (
	ActionBaseCard   uint16 = 0
	ActionTake       uint16 = 36
	ActionStopAttack uint16 = 37

	NumActions uint16 = 38
)

// ActionKind is the semantic kind of an action.
type ActionKind uint8

const (
	KindAttack ActionKind = iota
	KindThrowIn
	KindDefend
	KindTake
	KindStopAttack
)

func (k ActionKind) String() string {
	switch k {
	case KindAttack:
		return "Attack"
	case KindThrowIn:
		return "ThrowIn"
	case KindDefend:
		return "Defend"
	case KindTake:
		return "Take"
	case KindStopAttack:
		return "StopAttack"
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// Action is a semantic game action. Card is EmptyCard for Take and StopAttack.
type Action struct {
	Kind ActionKind
	Card Card
}

func Attack(c Card) Action  { return Action{Kind: KindAttack, Card: c} }
func ThrowIn(c Card) Action { return Action{Kind: KindThrowIn, Card: c} }
func Defend(c Card) Action  { return Action{Kind: KindDefend, Card: c} }

var (
	Take       = Action{Kind: KindTake, Card: EmptyCard}
	StopAttack = Action{Kind: KindStopAttack, Card: EmptyCard}
)

func (a Action) String() string {
	if a.Kind == KindTake || a.Kind == KindStopAttack {
		return a.Kind.String()
	}
	return a.Kind.String() + "(" + a.Card.String() + ")"
}

// EncodeAction returns the action index for a semantic action. Card-playing
// kinds share the 36 card slots.
func EncodeAction(a Action) uint16 {
	switch a.Kind {
	case KindTake:
		return ActionTake
	case KindStopAttack:
		return ActionStopAttack
	default:
		return ActionBaseCard + uint16(a.Card)
	}
}

// EncodePlayCard returns the action index for playing card c.
func EncodePlayCard(c Card) uint16 { return ActionBaseCard + uint16(c) }

// ActionIsCard returns the card if idx encodes a card play.
func ActionIsCard(idx uint16) (Card, bool) {
	if idx >= ActionBaseCard && idx < ActionBaseCard+DeckSize {
		return Card(idx - ActionBaseCard), true
	}
	return EmptyCard, false
}

// ActionMask is a bitmap over the NumActions action indices.
type ActionMask uint64

func (m ActionMask) set(idx uint16) ActionMask { return m | 1<<idx }

// Has reports whether idx is in the mask.
func (m ActionMask) Has(idx uint16) bool { return idx < NumActions && m&(1<<idx) != 0 }

// Len returns the number of set indices.
func (m ActionMask) Len() int { return bits.OnesCount64(uint64(m)) }

// Indices returns the set indices in ascending order.
func (m ActionMask) Indices() []uint16 {
	out := make([]uint16, 0, m.Len())
	for w := uint64(m); w != 0; w &= w - 1 {
		out = append(out, uint16(bits.TrailingZeros64(w)))
	}
	return out
}

// Bitmap expands the mask into a fixed-length boolean vector.
func (m ActionMask) Bitmap() [NumActions]bool {
	var out [NumActions]bool
	for i := uint16(0); i < NumActions; i++ {
		out[i] = m.Has(i)
	}
	return out
}

// MaskOf returns the mask holding exactly the encodings of actions.
func MaskOf(actions []Action) ActionMask {
	var m ActionMask
	for _, a := range actions {
		m = m.set(EncodeAction(a))
	}
	return m
}
