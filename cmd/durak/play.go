package main

import (
	"context"
	"fmt"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/env"
	"github.com/rsaeta/durak/internal/store"
)

type PlayCmd struct {
	RulesFlags `embed:""`

	Seed  uint64 `default:"${seed}" help:"Deal seed"`
	P1    string `default:"greedy" enum:"random,greedy" help:"Bot in seat P1"`
	P2    string `default:"random" enum:"random,greedy" help:"Bot in seat P2"`
	Quiet bool   `short:"q" help:"Only print the result"`
	Save  bool   `help:"Save the finished game to the snapshot store"`
}

func (c *PlayCmd) Run(g *Globals) error {
	ctx := context.Background()

	var agents [engine.NumPlayers]env.Agent
	for p, name := range []string{c.P1, c.P2} {
		factory, err := agentFactory(name)
		if err != nil {
			return err
		}
		agents[p] = factory(engine.Player(p), c.Seed)
	}

	e := newEnv(g, c.rules())
	if _, err := e.Reset(c.Seed); err != nil {
		return err
	}
	if !c.Quiet {
		state := e.State()
		fmt.Fprintf(g.out, "game %s seed %d\n%s\n", e.ID(), c.Seed, state.String())
	}

	for !e.IsDone() {
		state := e.State()
		acting := state.Acting
		idx, err := agents[acting].ChooseAction(e.Observe(acting), e.Legal(), e.History(acting))
		if err != nil {
			return fmt.Errorf("%v chose: %w", acting, err)
		}
		res, err := e.Step(idx)
		if err != nil {
			return err
		}
		if !c.Quiet {
			fmt.Fprintf(g.out, "%4d  %v %v\n", state.Steps, res.Info.Actor, res.Info.Action)
		}
	}

	if err := printResult(g, e); err != nil {
		return err
	}
	if !c.Save {
		return nil
	}
	s, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("--save needs a store, got driver %q", g.Store)
	}
	defer s.Close()
	key, err := store.SaveEnv(ctx, s, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out, "saved %s\n", key)
	return nil
}

func printResult(g *Globals, e *env.Env) error {
	state := e.State()
	r := e.Rewards()
	if winner, ok := e.Winner(); ok {
		_, err := fmt.Fprintf(g.out, "winner %v, durak %v after %d rounds, %d steps (rewards %+.0f %+.0f)\n",
			winner, winner.Other(), state.Round, state.Steps, r[engine.Player1], r[engine.Player2])
		return err
	}
	if e.IsDone() {
		_, err := fmt.Fprintf(g.out, "draw after %d rounds, %d steps\n", state.Round, state.Steps)
		return err
	}
	_, err := fmt.Fprintf(g.out, "in progress: round %d, step %d, %v to act\n", state.Round, state.Steps, state.Acting)
	return err
}
