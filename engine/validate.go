package engine

import "fmt"

// Validate checks the structural invariants of the state: every card in
// exactly one place, well-formed table, consistent roles and flags.
func (g *GameState) Validate() error {
	if !g.Trump.Valid() {
		return fmt.Errorf("trump card %v is not a card", g.Trump)
	}
	if int(g.AttackLen) > g.Rules.maxTableCards() {
		return fmt.Errorf("attack table holds %d cards, limit %d", g.AttackLen, g.Rules.maxTableCards())
	}
	if g.DefenseLen > g.AttackLen {
		return fmt.Errorf("defense table (%d) longer than attack table (%d)", g.DefenseLen, g.AttackLen)
	}
	if int(g.Deck.Len) > DeckSize {
		return fmt.Errorf("deck length %d exceeds %d", g.Deck.Len, DeckSize)
	}

	// Conservation: 36 cards, each in exactly one location.
	var seen CardSet
	place := func(c Card, where string) error {
		if !c.Valid() {
			return fmt.Errorf("%s holds invalid card %v", where, c)
		}
		if seen.Has(c) {
			return fmt.Errorf("card %v appears twice (again in %s)", c, where)
		}
		seen = seen.Add(c)
		return nil
	}
	for p := Player1; p <= Player2; p++ {
		for _, c := range g.Hands[p].Cards() {
			if err := place(c, p.String()+" hand"); err != nil {
				return err
			}
		}
	}
	for _, c := range g.Discard.Cards() {
		if err := place(c, "discard"); err != nil {
			return err
		}
	}
	for i := uint8(0); i < g.Deck.Len; i++ {
		if err := place(g.Deck.Cards[i], "deck"); err != nil {
			return err
		}
	}
	for i := 0; i < MaxTable; i++ {
		if i < int(g.AttackLen) {
			if err := place(g.Attack[i], "attack table"); err != nil {
				return err
			}
		} else if g.Attack[i] != EmptyCard {
			return fmt.Errorf("attack slot %d beyond length holds %v", i, g.Attack[i])
		}
		if i < int(g.DefenseLen) {
			if err := place(g.Defense[i], "defense table"); err != nil {
				return err
			}
			if !g.Defense[i].Beats(g.Attack[i], g.TrumpSuit()) {
				return fmt.Errorf("defense %v does not beat attack %v", g.Defense[i], g.Attack[i])
			}
		} else if g.Defense[i] != EmptyCard {
			return fmt.Errorf("defense slot %d beyond length holds %v", i, g.Defense[i])
		}
	}
	if seen.Len() != DeckSize {
		return fmt.Errorf("%d cards accounted for, want %d", seen.Len(), DeckSize)
	}
	if g.Deck.Len > 0 && g.Deck.Cards[0] != g.Trump {
		return fmt.Errorf("bottom of deck %v is not the trump card %v", g.Deck.Cards[0], g.Trump)
	}

	if g.Attacker > Player2 || g.Defender != g.Attacker.Other() {
		return fmt.Errorf("bad roles: attacker %v defender %v", g.Attacker, g.Defender)
	}

	if g.IsTerminal() {
		if !g.TableEmpty() {
			return fmt.Errorf("finished game with cards on the table")
		}
		if g.Phase != PhaseResolved {
			return fmt.Errorf("finished game in phase %v", g.Phase)
		}
		if g.Winner != NoPlayer && g.Winner > Player2 {
			return fmt.Errorf("winner %d out of range", g.Winner)
		}
		if g.IsDraw() != (g.Winner == NoPlayer) {
			return fmt.Errorf("winner %v inconsistent with draw flag", g.Winner)
		}
		return nil
	}

	if g.Winner != NoPlayer {
		return fmt.Errorf("winner %v set on a running game", g.Winner)
	}
	if g.DefenderHasTaken() && g.TableEmpty() {
		return fmt.Errorf("defender has taken with an empty table")
	}
	switch g.Phase {
	case PhaseAttacking:
		if g.Acting != g.Attacker {
			return fmt.Errorf("attacking phase but %v to act", g.Acting)
		}
		if g.Undefended() > 0 && !g.DefenderHasTaken() {
			return fmt.Errorf("attacker to act with %d undefended cards", g.Undefended())
		}
	case PhaseDefending:
		if g.Acting != g.Defender {
			return fmt.Errorf("defending phase but %v to act", g.Acting)
		}
		if g.Undefended() == 0 || g.DefenderHasTaken() {
			return fmt.Errorf("defender to act with nothing to answer")
		}
	default:
		return fmt.Errorf("running game in phase %v", g.Phase)
	}
	return nil
}
