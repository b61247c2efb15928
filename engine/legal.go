package engine

// LegalActions returns a bitmask of legal action indices for the acting
// player. Zero heap allocation.
func (g *GameState) LegalActions() ActionMask {
	var mask ActionMask

	switch {
	case g.IsTerminal():
		// No legal actions.

	case g.Acting == g.Defender:
		mask = g.legalDefense(mask)

	case g.TableEmpty():
		mask = g.legalAttack(mask)

	default:
		mask = g.legalThrowIn(mask)
	}

	return mask
}

// LegalActionList returns the legal semantic actions in canonical order:
// ascending card (suit, then rank), then Take, then StopAttack.
func (g *GameState) LegalActionList() []Action {
	mask := g.LegalActions()
	out := make([]Action, 0, mask.Len())
	for _, idx := range mask.Indices() {
		out = append(out, g.actionFor(idx))
	}
	return out
}

// IsLegal reports whether a is in the current legal set.
func (g *GameState) IsLegal(a Action) bool {
	if a.Kind != KindTake && a.Kind != KindStopAttack && !a.Card.Valid() {
		return false
	}
	idx := EncodeAction(a)
	return g.LegalActions().Has(idx) && g.actionFor(idx).Kind == a.Kind
}

// DecodeAction maps a legal action index to its semantic action.
func (g *GameState) DecodeAction(idx uint16) (Action, error) {
	if !g.LegalActions().Has(idx) {
		return Action{}, errInvalidIndex(idx)
	}
	return g.actionFor(idx), nil
}

// actionFor gives the semantic meaning of idx for the acting role. The
// index is assumed legal.
func (g *GameState) actionFor(idx uint16) Action {
	switch idx {
	case ActionTake:
		return Take
	case ActionStopAttack:
		return StopAttack
	}
	c, _ := ActionIsCard(idx)
	switch {
	case g.Acting == g.Defender:
		return Defend(c)
	case g.TableEmpty():
		return Attack(c)
	default:
		return ThrowIn(c)
	}
}

// legalAttack: every hand card may open the round.
func (g *GameState) legalAttack(mask ActionMask) ActionMask {
	for _, c := range g.Hands[g.Attacker].Cards() {
		mask = mask.set(EncodePlayCard(c))
	}
	return mask
}

// legalThrowIn: matching-rank cards within the caps, plus StopAttack.
func (g *GameState) legalThrowIn(mask ActionMask) ActionMask {
	mask = mask.set(ActionStopAttack)
	if !g.canThrowIn() {
		return mask
	}
	ranks := g.tableRanks()
	for _, c := range g.Hands[g.Attacker].Cards() {
		if ranks&(1<<(c.Rank()-RankSix)) != 0 {
			mask = mask.set(EncodePlayCard(c))
		}
	}
	return mask
}

// canThrowIn reports whether the caps leave room for one more attack card:
// the table limit, and the defender must be able to answer every
// undefended card.
func (g *GameState) canThrowIn() bool {
	if int(g.AttackLen) >= g.Rules.maxTableCards() {
		return false
	}
	return g.Undefended() < g.Hands[g.Defender].Len()
}

// hasThrowIn reports whether the attacker holds at least one legal throw-in.
func (g *GameState) hasThrowIn() bool {
	if !g.canThrowIn() {
		return false
	}
	ranks := g.tableRanks()
	for _, c := range g.Hands[g.Attacker].Cards() {
		if ranks&(1<<(c.Rank()-RankSix)) != 0 {
			return true
		}
	}
	return false
}

// legalDefense: every card beating the earliest undefended attack card,
// plus Take.
func (g *GameState) legalDefense(mask ActionMask) ActionMask {
	mask = mask.set(ActionTake)
	if g.Undefended() == 0 {
		return mask
	}
	target := g.Attack[g.DefenseLen]
	trump := g.TrumpSuit()
	for _, c := range g.Hands[g.Defender].Cards() {
		if c.Beats(target, trump) {
			mask = mask.set(EncodePlayCard(c))
		}
	}
	return mask
}
