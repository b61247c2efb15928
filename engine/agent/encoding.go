package agent

import engine "github.com/rsaeta/durak/engine"

// Encode writes the InputDim feature vector into out. out is zeroed
// internally before writing.
//
// Layout:
//
//	[0-1]     viewer one-hot
//	[2-3]     acting player one-hot (all zero once the game is over)
//	[4-39]    own hand multi-hot
//	[40-255]  attack table: 6 slots × 36 one-hot, empty slots all zero
//	[256-471] defense table: 6 slots × 36 one-hot, aligned with attack slots
//	[472-507] discard pile multi-hot
//	[508]     deck size / 36
//	[509-544] visible trump card one-hot
//	[545]     defender has taken
//	[546-547] defender one-hot
//	[548]     opponent hand size / 36
func (o *Observation) Encode(out *[InputDim]float32) {
	*out = [InputDim]float32{}

	onePlayer(o.Viewer, out[OffViewer:OffViewer+NumPlayers])
	if !o.Terminal {
		onePlayer(o.Acting, out[OffActing:OffActing+NumPlayers])
	}

	multiHot(o.Hand, out[OffHand:OffHand+NumCards])

	for i := uint8(0); i < o.AttackLen; i++ {
		out[OffAttack+int(i)*NumCards+int(o.Attack[i])] = 1.0
	}
	for i := uint8(0); i < o.DefenseLen; i++ {
		out[OffDefense+int(i)*NumCards+int(o.Defense[i])] = 1.0
	}

	multiHot(o.Discard, out[OffDiscard:OffDiscard+NumCards])

	out[OffDeckSize] = float32(o.DeckSize) / NumCards
	if o.Trump.Valid() {
		out[OffTrump+int(o.Trump)] = 1.0
	}
	if o.Taken {
		out[OffTaken] = 1.0
	}
	onePlayer(o.Defender, out[OffDefender:OffDefender+NumPlayers])
	out[OffOppHandSize] = float32(o.OppHandSize) / NumCards
}

// onePlayer sets p's slot; NoPlayer leaves the group zero.
func onePlayer(p engine.Player, out []float32) {
	if int(p) < len(out) {
		out[p] = 1.0
	}
}

func multiHot(s engine.CardSet, out []float32) {
	for _, c := range s.Cards() {
		out[c] = 1.0
	}
}

// ActionMask writes the legal action mask into out.
// legalActions is the bitmask from GameState.LegalActions().
func ActionMask(legalActions engine.ActionMask, out *[NumActions]bool) {
	*out = legalActions.Bitmap()
}
