// Package env wraps the Durak engine in a reset/step environment for
// reinforcement learning: per-player observations, terminal rewards and a
// driver that plays two agents against each other.
package env

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/engine/agent"
)

// Status is the environment lifecycle state.
type Status uint8

const (
	StatusUninitialized Status = iota
	StatusReady
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusReady:
		return "ready"
	case StatusDone:
		return "done"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

var (
	// ErrNotReady is returned by Step and Play before the first Reset.
	ErrNotReady = errors.New("environment has not been reset")

	// ErrGameOver is returned by Step once the game has finished.
	ErrGameOver = engine.ErrGameOver
)

// Info carries per-step metadata alongside the observation.
type Info struct {
	Actor         engine.Player // who took the step
	Action        engine.Action // what they played
	Acting        engine.Player // who acts next; NoPlayer once done
	AwaitOpponent bool          // the next decision belongs to the other seat
	Winner        engine.Player // NoPlayer unless done with a winner
	Draw          bool
}

// StepResult is the outcome of one Step.
type StepResult struct {
	Observation agent.Observation // next acting player's view, or the actor's once done
	Reward      float32           // reward for the actor
	Done        bool
	Info        Info
}

// LogEntry is one applied action in the game's action log.
type LogEntry struct {
	Step   int
	Actor  engine.Player
	Index  uint16
	Action engine.Action
}

// Env is a single two-player Durak game. All methods are safe for
// concurrent use, but one Env models one sequential game.
type Env struct {
	mu sync.Mutex

	id      uuid.UUID
	fixedID bool
	rules   engine.HouseRules
	log     logrus.FieldLogger

	status  Status
	seed    uint64
	start   engine.GameState
	game    engine.GameState
	history []engine.GameState // state before each applied action
	actions []LogEntry
}

// Option configures an Env.
type Option func(*Env)

// WithRules overrides the default house rules.
func WithRules(r engine.HouseRules) Option {
	return func(e *Env) { e.rules = r }
}

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Env) { e.log = l }
}

// WithID pins the game ID instead of generating a new one on every Reset.
func WithID(id uuid.UUID) Option {
	return func(e *Env) {
		e.id = id
		e.fixedID = true
	}
}

// New returns an uninitialized environment. Call Reset before Step.
func New(opts ...Option) *Env {
	e := &Env{
		rules: engine.DefaultHouseRules(),
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset starts a new game from seed and returns the first acting player's
// observation.
func (e *Env) Reset(seed uint64) (agent.Observation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.fixedID {
		id, err := uuid.NewRandom()
		if err != nil {
			return agent.Observation{}, fmt.Errorf("generate game id: %w", err)
		}
		e.id = id
	}
	e.seed = seed
	e.game = engine.NewGame(seed, e.rules)
	e.start = e.game
	e.history = e.history[:0]
	e.actions = e.actions[:0]
	e.status = StatusReady

	e.log.WithFields(logrus.Fields{
		"game_id":  e.id,
		"seed":     seed,
		"attacker": e.game.Attacker,
		"trump":    e.game.Trump,
	}).Debug("game reset")

	return agent.Observe(&e.game, e.game.Acting), nil
}

// Step applies the action index for the acting player.
func (e *Env) Step(actionIdx uint16) (StepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step(actionIdx)
}

func (e *Env) step(actionIdx uint16) (StepResult, error) {
	switch e.status {
	case StatusUninitialized:
		return StepResult{}, ErrNotReady
	case StatusDone:
		return StepResult{}, ErrGameOver
	}

	a, err := e.game.DecodeAction(actionIdx)
	if err != nil {
		return StepResult{}, err
	}
	actor := e.game.Acting
	pre := e.game
	if err := e.game.Apply(a); err != nil {
		return StepResult{}, err
	}
	e.history = append(e.history, pre)
	e.actions = append(e.actions, LogEntry{Step: len(e.actions), Actor: actor, Index: actionIdx, Action: a})

	done := e.game.IsTerminal()
	res := StepResult{
		Reward: e.game.Rewards()[actor],
		Done:   done,
		Info: Info{
			Actor:  actor,
			Action: a,
			Acting: engine.NoPlayer,
			Winner: engine.NoPlayer,
		},
	}

	if done {
		e.status = StatusDone
		res.Info.Winner = e.game.Winner
		res.Info.Draw = e.game.IsDraw()
		res.Observation = agent.Observe(&e.game, actor)
		e.log.WithFields(logrus.Fields{
			"game_id": e.id,
			"seed":    e.seed,
			"round":   e.game.Round,
			"steps":   e.game.Steps,
			"winner":  e.game.Winner,
		}).Debug("game over")
		return res, nil
	}

	if e.game.LegalActions().Len() == 0 {
		return res, fmt.Errorf("%w: game %s after %v", engine.ErrNoLegalActions, e.id, a)
	}
	res.Info.Acting = e.game.Acting
	res.Info.AwaitOpponent = e.game.Acting != actor
	res.Observation = agent.Observe(&e.game, e.game.Acting)
	return res, nil
}

// Observe returns viewer's view of the current state. A viewer outside the
// two seats gets an empty observation.
func (e *Env) Observe(viewer engine.Player) agent.Observation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return agent.Observe(&e.game, viewer)
}

// Legal returns the acting player's legal actions.
func (e *Env) Legal() LegalSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return newLegalSet(&e.game)
}

// IsDone reports whether the game has finished.
func (e *Env) IsDone() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status == StatusDone
}

// Status returns the lifecycle state.
func (e *Env) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Rewards returns both players' rewards: ±1 once decided, 0 on a draw or
// while running.
func (e *Env) Rewards() [engine.NumPlayers]float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Rewards()
}

// Winner returns the safe player. ok is false while running or on a draw.
func (e *Env) Winner() (engine.Player, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusDone || e.game.IsDraw() {
		return engine.NoPlayer, false
	}
	return e.game.Winner, true
}

// History returns viewer's observation of every state an action was taken
// from, oldest first.
func (e *Env) History(viewer engine.Player) []agent.Observation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.historyFor(viewer)
}

func (e *Env) historyFor(viewer engine.Player) []agent.Observation {
	out := make([]agent.Observation, len(e.history))
	for i := range e.history {
		out[i] = agent.Observe(&e.history[i], viewer)
	}
	return out
}

// Actions returns a copy of the action log.
func (e *Env) Actions() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LogEntry, len(e.actions))
	copy(out, e.actions)
	return out
}

// State returns a copy of the full game state, both hands included.
func (e *Env) State() engine.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game
}

// ID returns the current game ID.
func (e *Env) ID() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// Seed returns the seed of the current game.
func (e *Env) Seed() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seed
}
