package engine

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const snapshotHeader = "durak-state v1"

// MarshalText renders the state as one "key value" line per field. Card
// lists use Card.String; the deck is written bottom first.
func (g *GameState) MarshalText() ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintln(&b, snapshotHeader)
	fmt.Fprintf(&b, "seed %d\n", g.Seed)
	fmt.Fprintf(&b, "rules %d %d %t\n", g.Rules.HandSize, g.Rules.MaxTableCards, g.Rules.LowestTrumpLeads)
	fmt.Fprintf(&b, "trump %v\n", g.Trump)
	fmt.Fprintf(&b, "deck %s\n", cardList(g.Deck.Cards[:g.Deck.Len]))
	fmt.Fprintf(&b, "hand1 %s\n", cardList(g.Hands[Player1].Cards()))
	fmt.Fprintf(&b, "hand2 %s\n", cardList(g.Hands[Player2].Cards()))
	fmt.Fprintf(&b, "attack %s\n", cardList(g.Attack[:g.AttackLen]))
	fmt.Fprintf(&b, "defense %s\n", cardList(g.Defense[:g.DefenseLen]))
	fmt.Fprintf(&b, "discard %s\n", cardList(g.Discard.Cards()))
	fmt.Fprintf(&b, "roles %d %d %d\n", g.Attacker, g.Defender, g.Acting)
	fmt.Fprintf(&b, "phase %d\n", g.Phase)
	fmt.Fprintf(&b, "flags %d\n", g.Flags)
	fmt.Fprintf(&b, "winner %d\n", g.Winner)
	fmt.Fprintf(&b, "round %d\n", g.Round)
	fmt.Fprintf(&b, "steps %d\n", g.Steps)
	return b.Bytes(), nil
}

func cardList(cards []Card) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func parseCardList(fields []string) ([]Card, error) {
	if len(fields) == 1 && fields[0] == "-" {
		return nil, nil
	}
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// UnmarshalText parses the output of MarshalText and validates the result.
// On error g is left unchanged.
func (g *GameState) UnmarshalText(text []byte) error {
	var s GameState
	s.clearTable()

	sc := bufio.NewScanner(bytes.NewReader(text))
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != snapshotHeader {
		return fmt.Errorf("%w: missing %q header", ErrBadSnapshot, snapshotHeader)
	}

	required := map[string]bool{
		"seed": false, "rules": false, "trump": false, "deck": false,
		"hand1": false, "hand2": false, "attack": false, "defense": false,
		"discard": false, "roles": false, "phase": false, "flags": false,
		"winner": false, "round": false, "steps": false,
	}

	line := 1
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		key, args := fields[0], fields[1:]
		if _, ok := required[key]; !ok {
			return fmt.Errorf("%w: line %d: unknown key %q", ErrBadSnapshot, line, key)
		}
		if len(args) == 0 {
			return fmt.Errorf("%w: line %d: %s has no value", ErrBadSnapshot, line, key)
		}
		if err := s.setField(key, args); err != nil {
			return fmt.Errorf("%w: line %d: %s: %v", ErrBadSnapshot, line, key, err)
		}
		required[key] = true
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	for key, ok := range required {
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrBadSnapshot, key)
		}
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	*g = s
	return nil
}

func (g *GameState) setField(key string, args []string) error {
	switch key {
	case "seed":
		v, err := strconv.ParseUint(args[0], 10, 64)
		g.Seed = v
		return err
	case "rules":
		if len(args) != 3 {
			return fmt.Errorf("want 3 values, got %d", len(args))
		}
		hs, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return err
		}
		mt, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return err
		}
		lt, err := strconv.ParseBool(args[2])
		if err != nil {
			return err
		}
		g.Rules = HouseRules{HandSize: uint8(hs), MaxTableCards: uint8(mt), LowestTrumpLeads: lt}
	case "trump":
		c, err := ParseCard(args[0])
		g.Trump = c
		return err
	case "deck":
		cards, err := parseCardList(args)
		if err != nil {
			return err
		}
		if len(cards) > DeckSize {
			return fmt.Errorf("%d cards", len(cards))
		}
		g.Deck = Deck{}
		for i := range g.Deck.Cards {
			g.Deck.Cards[i] = EmptyCard
		}
		copy(g.Deck.Cards[:], cards)
		g.Deck.Len = uint8(len(cards))
	case "hand1", "hand2", "discard":
		cards, err := parseCardList(args)
		if err != nil {
			return err
		}
		set := SetOf(cards...)
		if set.Len() != len(cards) {
			return fmt.Errorf("duplicate cards")
		}
		switch key {
		case "hand1":
			g.Hands[Player1] = set
		case "hand2":
			g.Hands[Player2] = set
		default:
			g.Discard = set
		}
	case "attack", "defense":
		cards, err := parseCardList(args)
		if err != nil {
			return err
		}
		if len(cards) > MaxTable {
			return fmt.Errorf("%d cards, table holds %d", len(cards), MaxTable)
		}
		if key == "attack" {
			copy(g.Attack[:], cards)
			g.AttackLen = uint8(len(cards))
		} else {
			copy(g.Defense[:], cards)
			g.DefenseLen = uint8(len(cards))
		}
	case "roles":
		if len(args) != 3 {
			return fmt.Errorf("want 3 values, got %d", len(args))
		}
		var roles [3]Player
		for i, a := range args {
			v, err := strconv.ParseUint(a, 10, 8)
			if err != nil {
				return err
			}
			if Player(v) > Player2 {
				return fmt.Errorf("player %d out of range", v)
			}
			roles[i] = Player(v)
		}
		g.Attacker, g.Defender, g.Acting = roles[0], roles[1], roles[2]
	case "phase":
		v, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return err
		}
		if Phase(v) > PhaseResolved {
			return fmt.Errorf("unknown phase %d", v)
		}
		g.Phase = Phase(v)
	case "flags":
		v, err := strconv.ParseUint(args[0], 10, 8)
		g.Flags = uint8(v)
		return err
	case "winner":
		v, err := strconv.ParseUint(args[0], 10, 8)
		g.Winner = Player(v)
		return err
	case "round":
		v, err := strconv.ParseUint(args[0], 10, 16)
		g.Round = uint16(v)
		return err
	case "steps":
		v, err := strconv.ParseUint(args[0], 10, 32)
		g.Steps = uint32(v)
		return err
	}
	return nil
}
