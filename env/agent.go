package env

import (
	"fmt"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/engine/agent"
)

// LegalSet is the acting player's legal actions as both a mask and the
// semantic list in canonical order.
type LegalSet struct {
	Mask    engine.ActionMask
	Actions []engine.Action
}

func newLegalSet(g *engine.GameState) LegalSet {
	return LegalSet{Mask: g.LegalActions(), Actions: g.LegalActionList()}
}

// Len returns the number of legal actions.
func (l LegalSet) Len() int { return len(l.Actions) }

// Has reports whether idx is legal.
func (l LegalSet) Has(idx uint16) bool { return l.Mask.Has(idx) }

// Index returns the action index of the i-th legal action.
func (l LegalSet) Index(i int) uint16 { return engine.EncodeAction(l.Actions[i]) }

// Agent chooses an action index for the acting player.
type Agent interface {
	ChooseAction(obs agent.Observation, legal LegalSet, history []agent.Observation) (uint16, error)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(obs agent.Observation, legal LegalSet, history []agent.Observation) (uint16, error)

func (f AgentFunc) ChooseAction(obs agent.Observation, legal LegalSet, history []agent.Observation) (uint16, error) {
	return f(obs, legal, history)
}

// Play drives the current game to completion, asking p1 and p2 for moves
// in turn, and returns their rewards. Reset must have been called. The Env
// stays locked for the whole game, so agents must not call back into it.
func (e *Env) Play(p1, p2 Agent) (float32, float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusUninitialized {
		return 0, 0, ErrNotReady
	}
	agents := [engine.NumPlayers]Agent{p1, p2}

	for e.status != StatusDone {
		acting := e.game.Acting
		obs := agent.Observe(&e.game, acting)
		idx, err := agents[acting].ChooseAction(obs, newLegalSet(&e.game), e.historyFor(acting))
		if err != nil {
			return 0, 0, fmt.Errorf("game %s: %v chose: %w", e.id, acting, err)
		}
		if _, err := e.step(idx); err != nil {
			return 0, 0, fmt.Errorf("game %s: %v played %d: %w", e.id, acting, idx, err)
		}
	}

	r := e.game.Rewards()
	return r[engine.Player1], r[engine.Player2], nil
}
