package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/internal/selfplay"
)

type SelfplayCmd struct {
	RulesFlags `embed:""`

	Games    int    `short:"n" default:"${games}" help:"Number of games"`
	Workers  int    `short:"w" default:"${workers}" help:"Parallel workers, 0 for one per CPU"`
	Seed     uint64 `default:"${seed}" help:"Base seed; game i uses a seed derived from it"`
	P1       string `default:"random" enum:"random,greedy" help:"Bot in seat P1"`
	P2       string `default:"random" enum:"random,greedy" help:"Bot in seat P2"`
	Progress int    `default:"0" help:"Log progress every N games per worker"`
	Save     bool   `help:"Save every finished game to the snapshot store"`
}

func (c *SelfplayCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p1, err := agentFactory(c.P1)
	if err != nil {
		return err
	}
	p2, err := agentFactory(c.P2)
	if err != nil {
		return err
	}

	cfg := selfplay.Config{
		Games:         c.Games,
		Workers:       c.Workers,
		Seed:          c.Seed,
		Rules:         c.rules(),
		Player1:       p1,
		Player2:       p2,
		Logger:        g.log,
		ProgressEvery: c.Progress,
	}
	if c.Save {
		s, err := g.openStore(ctx)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("--save needs a store, got driver %q", g.Store)
		}
		defer s.Close()
		cfg.Store = s
	}

	st, err := selfplay.Run(ctx, cfg)
	if err != nil {
		return err
	}
	printStats(g, c.P1, c.P2, st)
	return nil
}

func printStats(g *Globals, p1, p2 string, st selfplay.Stats) {
	pct := func(n int) float64 {
		if st.Games == 0 {
			return 0
		}
		return 100 * float64(n) / float64(st.Games)
	}
	fmt.Fprintf(g.out, "games      %d in %v\n", st.Games, st.Duration)
	fmt.Fprintf(g.out, "P1 (%s)  wins %d (%.1f%%)  reward %+.0f\n", p1, st.Wins[engine.Player1], pct(st.Wins[engine.Player1]), st.Rewards[engine.Player1])
	fmt.Fprintf(g.out, "P2 (%s)  wins %d (%.1f%%)  reward %+.0f\n", p2, st.Wins[engine.Player2], pct(st.Wins[engine.Player2]), st.Rewards[engine.Player2])
	fmt.Fprintf(g.out, "draws      %d (%.1f%%)\n", st.Draws, pct(st.Draws))
	fmt.Fprintf(g.out, "mean steps %.1f\n", st.MeanSteps())
}
