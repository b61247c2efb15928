package env

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/rsaeta/durak/engine"
)

// snapshot is the persisted form of an Env. Game states are embedded in
// their text encoding.
type snapshot struct {
	Version int               `json:"version"`
	ID      uuid.UUID         `json:"id"`
	Seed    uint64            `json:"seed"`
	Start   *engine.GameState `json:"start"`
	Actions []uint16          `json:"actions"`
	Current *engine.GameState `json:"current"`
}

const snapshotVersion = 1

// Save writes the start state, the action log and the current state to w.
func (e *Env) Save(w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusUninitialized {
		return ErrNotReady
	}
	snap := snapshot{
		Version: snapshotVersion,
		ID:      e.id,
		Seed:    e.seed,
		Start:   &e.start,
		Actions: make([]uint16, len(e.actions)),
		Current: &e.game,
	}
	for i, a := range e.actions {
		snap.Actions[i] = a.Index
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&snap); err != nil {
		return fmt.Errorf("save game %s: %w", e.id, err)
	}
	return nil
}

// Load replaces the environment with a saved game. The action log is
// replayed from the start state and must reproduce the saved current state
// exactly; otherwise Load fails with engine.ErrBadSnapshot and the Env is
// unchanged.
func (e *Env) Load(r io.Reader) error {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrBadSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: version %d, want %d", engine.ErrBadSnapshot, snap.Version, snapshotVersion)
	}
	if snap.Start == nil || snap.Current == nil {
		return fmt.Errorf("%w: missing game state", engine.ErrBadSnapshot)
	}

	g := *snap.Start
	history := make([]engine.GameState, 0, len(snap.Actions))
	actions := make([]LogEntry, 0, len(snap.Actions))
	for i, idx := range snap.Actions {
		actor := g.Acting
		a, err := g.DecodeAction(idx)
		if err != nil {
			return fmt.Errorf("%w: action %d: %v", engine.ErrBadSnapshot, i, err)
		}
		history = append(history, g)
		if err := g.Apply(a); err != nil {
			return fmt.Errorf("%w: action %d: %v", engine.ErrBadSnapshot, i, err)
		}
		actions = append(actions, LogEntry{Step: i, Actor: actor, Index: idx, Action: a})
	}
	if g != *snap.Current {
		return fmt.Errorf("%w: replaying %d actions does not reproduce the saved state", engine.ErrBadSnapshot, len(snap.Actions))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = snap.ID
	e.seed = snap.Seed
	e.rules = snap.Start.Rules
	e.start = *snap.Start
	e.game = g
	e.history = history
	e.actions = actions
	e.status = StatusReady
	if g.IsTerminal() {
		e.status = StatusDone
	}

	e.log.WithFields(logrus.Fields{
		"game_id": e.id,
		"seed":    e.seed,
		"steps":   len(actions),
	}).Debug("game loaded")
	return nil
}
