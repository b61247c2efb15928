package main

import (
	"context"
	"fmt"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/engine/agent"
	"github.com/rsaeta/durak/internal/store"
)

type InspectCmd struct {
	Key     string `arg:"" help:"Snapshot key (the game ID)"`
	Actions bool   `short:"a" help:"List every applied action"`
	Viewer  string `enum:"all,p1,p2" default:"all" help:"Show one player's view instead of the full state"`
}

func (c *InspectCmd) Run(g *Globals) error {
	ctx := context.Background()
	s, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("inspect needs a store, got driver %q", g.Store)
	}
	defer s.Close()

	e := newEnv(g, engine.DefaultHouseRules())
	if err := store.LoadEnv(ctx, s, c.Key, e); err != nil {
		return fmt.Errorf("load %s: %w", c.Key, err)
	}

	fmt.Fprintf(g.out, "game %s seed %d status %v\n", e.ID(), e.Seed(), e.Status())
	if c.Actions {
		for _, entry := range e.Actions() {
			fmt.Fprintf(g.out, "%4d  %v %v (#%d)\n", entry.Step, entry.Actor, entry.Action, entry.Index)
		}
	}

	switch c.Viewer {
	case "p1":
		fmt.Fprintln(g.out, e.Observe(engine.Player1).String())
	case "p2":
		fmt.Fprintln(g.out, e.Observe(engine.Player2).String())
	default:
		state := e.State()
		fmt.Fprintln(g.out, state.String())
	}
	return printResult(g, e)
}

type ShapeCmd struct{}

func (ShapeCmd) Run(g *Globals) error {
	_, err := fmt.Fprintf(g.out, "input_dim   %d\nnum_actions %d\nstate_shape %v\n",
		agent.InputDim, agent.NumActions, agent.StateShape())
	return err
}
