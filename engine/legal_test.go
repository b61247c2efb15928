package engine

import (
	"errors"
	"testing"
)

func TestLegalOpeningAttack(t *testing.T) {
	g := table{hand1: "6C 7H KS", hand2: "8C 9D", deck: "AS", attacker: Player1}.build(t)
	got := g.LegalActionList()
	want := []Action{Attack(mustCard(t, "6C")), Attack(mustCard(t, "7H")), Attack(mustCard(t, "KS"))}
	if !actionsEqual(got, want) {
		t.Fatalf("legal = %v, want %v", got, want)
	}
	if g.LegalActions().Has(ActionTake) || g.LegalActions().Has(ActionStopAttack) {
		t.Error("Take/StopAttack legal on an empty table")
	}
}

func TestLegalDefense(t *testing.T) {
	g := table{hand1: "6C 7H", hand2: "6D 8C 9D QS", deck: "AS", attacker: Player1}.build(t)
	mustApply(t, &g, Attack(mustCard(t, "6C")))

	// 8C beats by rank, QS by trump; 6D and 9D are off-suit.
	got := g.LegalActionList()
	want := []Action{Defend(mustCard(t, "8C")), Defend(mustCard(t, "QS")), Take}
	if !actionsEqual(got, want) {
		t.Fatalf("legal = %v, want %v", got, want)
	}
}

func TestLegalAfterFullDefense(t *testing.T) {
	g := table{hand1: "6C 8H 8S 9D", hand2: "8C 7D", deck: "AS", attacker: Player1}.build(t)
	mustApply(t, &g, Attack(mustCard(t, "6C")))
	mustApply(t, &g, Defend(mustCard(t, "8C")))

	if g.Acting != Player1 || g.Phase != PhaseAttacking {
		t.Fatalf("acting %v phase %v after full defense", g.Acting, g.Phase)
	}
	// Ranks on the table: 6 and 8.
	got := g.LegalActionList()
	want := []Action{ThrowIn(mustCard(t, "8H")), ThrowIn(mustCard(t, "8S")), StopAttack}
	if !actionsEqual(got, want) {
		t.Fatalf("legal = %v, want %v", got, want)
	}
}

// TestThrowInCappedByDefenderHand: the defender must be able to answer
// every undefended card.
func TestThrowInCappedByDefenderHand(t *testing.T) {
	g := table{hand1: "6C 6H 6D", hand2: "7C 9S", deck: "AS", attacker: Player1}.build(t)
	mustApply(t, &g, Attack(mustCard(t, "6C")))
	mustApply(t, &g, Defend(mustCard(t, "7C")))

	// Defender holds one card: one throw-in allowed.
	if !g.LegalActions().Has(EncodePlayCard(mustCard(t, "6H"))) {
		t.Fatalf("throw-in 6H not legal: %v", g.LegalActionList())
	}
	mustApply(t, &g, ThrowIn(mustCard(t, "6H")))
	mustApply(t, &g, Defend(mustCard(t, "9S")))

	// Defender hand is now empty: no more throw-ins.
	got := g.LegalActionList()
	if !actionsEqual(got, []Action{StopAttack}) {
		t.Fatalf("legal = %v, want only StopAttack", got)
	}
}

func TestThrowInCappedByTable(t *testing.T) {
	hr := DefaultHouseRules()
	hr.MaxTableCards = 2
	g := table{hand1: "6C 6H 6D", hand2: "7C 7H 7D", deck: "AS", attacker: Player1}.build(t)
	g.Rules = hr
	mustApply(t, &g, Attack(mustCard(t, "6C")))
	mustApply(t, &g, Defend(mustCard(t, "7C")))
	mustApply(t, &g, ThrowIn(mustCard(t, "6H")))
	mustApply(t, &g, Defend(mustCard(t, "7H")))

	if got := g.LegalActionList(); !actionsEqual(got, []Action{StopAttack}) {
		t.Fatalf("legal = %v, want only StopAttack at the table limit", got)
	}
}

func TestLegalTerminalEmpty(t *testing.T) {
	g := table{hand1: "6C", hand2: "7C", trump: "AS", attacker: Player1}.build(t)
	mustApply(t, &g, Attack(mustCard(t, "6C")))
	mustApply(t, &g, Defend(mustCard(t, "7C")))
	mustApply(t, &g, StopAttack)
	if !g.IsTerminal() {
		t.Fatal("expected terminal state")
	}
	if g.LegalActions() != 0 || len(g.LegalActionList()) != 0 {
		t.Errorf("terminal state has legal actions %v", g.LegalActionList())
	}
}

// TestDecodeRoundTrip: EncodeAction(DecodeAction(i)) == i for every legal i,
// and illegal indices fail with ErrInvalidAction.
func TestDecodeRoundTrip(t *testing.T) {
	g := NewGame(11, DefaultHouseRules())
	for step := 0; step < 40 && !g.IsTerminal(); step++ {
		mask := g.LegalActions()
		for i := uint16(0); i < NumActions+2; i++ {
			a, err := g.DecodeAction(i)
			if !mask.Has(i) {
				if !errors.Is(err, ErrInvalidAction) {
					t.Fatalf("step %d: DecodeAction(%d) err = %v, want ErrInvalidAction", step, i, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("step %d: DecodeAction(%d): %v", step, i, err)
			}
			if EncodeAction(a) != i {
				t.Fatalf("step %d: EncodeAction(DecodeAction(%d)) = %d", step, i, EncodeAction(a))
			}
			if !g.IsLegal(a) {
				t.Fatalf("step %d: decoded %v not legal", step, a)
			}
		}
		if MaskOf(g.LegalActionList()) != mask {
			t.Fatalf("step %d: list and mask disagree", step)
		}
		mustApply(t, &g, g.LegalActionList()[0])
	}
}

// TestLegalNeverEmpty: a running game always offers an action.
func TestLegalNeverEmpty(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		g := NewGame(seed, DefaultHouseRules())
		rng := NewRNG(seed)
		for !g.IsTerminal() {
			list := g.LegalActionList()
			if len(list) == 0 {
				t.Fatalf("seed %d: no legal actions\n%v", seed, &g)
			}
			mustApply(t, &g, list[rng.Intn(uint64(len(list)))])
		}
	}
}
