package engine

import "fmt"

func errInvalidIndex(idx uint16) error {
	if idx >= NumActions {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidAction, idx, NumActions)
	}
	return fmt.Errorf("%w: index %d is not legal in this state", ErrInvalidAction, idx)
}

// ApplyAction decodes an action index against the current legal set and
// applies it.
func (g *GameState) ApplyAction(actionIdx uint16) error {
	if g.IsTerminal() {
		return ErrGameOver
	}
	a, err := g.DecodeAction(actionIdx)
	if err != nil {
		return err
	}
	return g.Apply(a)
}

// Apply applies a semantic action. Actions outside LegalActionList are
// rejected with ErrRuleViolation and leave the state untouched.
func (g *GameState) Apply(a Action) error {
	if g.IsTerminal() {
		return ErrGameOver
	}
	if !g.IsLegal(a) {
		return fmt.Errorf("%w: %v by %v in phase %v", ErrRuleViolation, a, g.Acting, g.Phase)
	}

	switch a.Kind {
	case KindAttack:
		g.attack(a.Card)
	case KindThrowIn:
		g.throwIn(a.Card)
	case KindDefend:
		g.defend(a.Card)
	case KindTake:
		g.take()
	case KindStopAttack:
		g.stopAttack()
	}
	g.Steps++
	return nil
}

// attack opens the round with card c.
func (g *GameState) attack(c Card) {
	g.Hands[g.Attacker] = g.Hands[g.Attacker].Remove(c)
	g.Attack[g.AttackLen] = c
	g.AttackLen++

	g.Acting = g.Defender
	g.Phase = PhaseDefending
}

// throwIn adds another card of a rank already on the table. After the
// defender has taken, control stays with the attacker so more cards can be
// passed over before StopAttack.
func (g *GameState) throwIn(c Card) {
	g.Hands[g.Attacker] = g.Hands[g.Attacker].Remove(c)
	g.Attack[g.AttackLen] = c
	g.AttackLen++

	if g.DefenderHasTaken() {
		return
	}
	g.Acting = g.Defender
	g.Phase = PhaseDefending
}

// defend covers the earliest undefended attack card with c.
func (g *GameState) defend(c Card) {
	g.Hands[g.Defender] = g.Hands[g.Defender].Remove(c)
	g.Defense[g.DefenseLen] = c
	g.DefenseLen++

	// Everything covered: attacker may throw in or stop.
	if g.Undefended() == 0 {
		g.Acting = g.Attacker
		g.Phase = PhaseAttacking
	}
}

// take records the defender's concession. If the attacker can still add
// cards they get the turn back; otherwise the defender picks up at once.
// Either way the attacker leads the next round.
func (g *GameState) take() {
	g.Flags |= FlagDefenderTook

	if g.hasThrowIn() {
		g.Acting = g.Attacker
		g.Phase = PhaseAttacking
		return
	}
	g.pickUpTable()
	g.resolve(g.Attacker)
}

// stopAttack ends the round: the table goes to the defender if they took,
// otherwise to the discard pile and the defender attacks next.
func (g *GameState) stopAttack() {
	if g.DefenderHasTaken() {
		g.pickUpTable()
		g.resolve(g.Attacker)
		return
	}
	g.Discard |= g.tableSet()
	g.resolve(g.Defender)
}

// pickUpTable moves every table card into the defender's hand.
func (g *GameState) pickUpTable() {
	g.Hands[g.Defender] |= g.tableSet()
}

// resolve clears the table, refills hands (round attacker first), checks
// for the end of the game and starts the next round.
func (g *GameState) resolve(nextAttacker Player) {
	g.Phase = PhaseResolved
	g.clearTable()

	g.refill(g.Attacker)
	g.refill(g.Defender)
	g.Round++

	if g.checkGameEnd() {
		return
	}
	g.startRound(nextAttacker)
}

// refill draws cards for p up to the hand size while the deck lasts.
func (g *GameState) refill(p Player) {
	for g.Hands[p].Len() < g.Rules.handSize() && g.Deck.Size() > 0 {
		c, err := g.Deck.Draw()
		if err != nil {
			return
		}
		g.Hands[p] = g.Hands[p].Add(c)
	}
}

// checkGameEnd sets the terminal flags once the deck is empty and at least
// one hand is empty.
func (g *GameState) checkGameEnd() bool {
	if g.Deck.Size() > 0 {
		return false
	}
	empty1 := g.Hands[Player1].Empty()
	empty2 := g.Hands[Player2].Empty()
	switch {
	case empty1 && empty2:
		g.Flags |= FlagGameOver | FlagDraw
		g.Winner = NoPlayer
	case empty1:
		g.Flags |= FlagGameOver
		g.Winner = Player1
	case empty2:
		g.Flags |= FlagGameOver
		g.Winner = Player2
	default:
		return false
	}
	return true
}

// Durak returns the loser once the game is over.
func (g *GameState) Durak() (Player, bool) {
	if !g.IsTerminal() || g.IsDraw() {
		return NoPlayer, false
	}
	return g.Winner.Other(), true
}
