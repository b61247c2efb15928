// Package selfplay runs many independent games in parallel and aggregates
// their results.
package selfplay

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rsaeta/durak/bot"
	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/env"
	"github.com/rsaeta/durak/internal/store"
)

// AgentFactory builds the agent for one seat of one game.
type AgentFactory func(seat engine.Player, gameSeed uint64) env.Agent

// RandomAgents seeds a fresh bot.Random per seat and game.
func RandomAgents(seat engine.Player, gameSeed uint64) env.Agent {
	return bot.NewRandom(gameSeed*2 + uint64(seat))
}

// GreedyAgents returns bot.Greedy for every seat.
func GreedyAgents(engine.Player, uint64) env.Agent { return bot.Greedy{} }

// Config describes a self-play batch.
type Config struct {
	Games   int
	Workers int // 0 means runtime.NumCPU()
	Seed    uint64
	Rules   engine.HouseRules

	Player1 AgentFactory // nil means RandomAgents
	Player2 AgentFactory

	Logger        logrus.FieldLogger
	ProgressEvery int         // log every n finished games per worker; 0 disables
	Store         store.Store // when set, every finished game is saved
}

// Stats aggregates finished games.
type Stats struct {
	Games    int
	Wins     [engine.NumPlayers]int
	Draws    int
	Rewards  [engine.NumPlayers]float64
	Steps    int
	Rounds   int
	Duration time.Duration
}

func (s *Stats) add(o Stats) {
	s.Games += o.Games
	s.Draws += o.Draws
	s.Steps += o.Steps
	s.Rounds += o.Rounds
	for p := range s.Wins {
		s.Wins[p] += o.Wins[p]
		s.Rewards[p] += o.Rewards[p]
	}
}

// MeanSteps returns the average number of actions per game.
func (s Stats) MeanSteps() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Steps) / float64(s.Games)
}

// GameSeed derives the seed of game i so results do not depend on the
// worker count.
func GameSeed(base uint64, i int) uint64 {
	x := base + uint64(i)*0x9e3779b97f4a7c15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Run plays cfg.Games games across cfg.Workers goroutines, each with its
// own Env. The first error cancels the batch.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	if cfg.Games < 0 {
		return Stats{}, fmt.Errorf("selfplay: negative game count %d", cfg.Games)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.Games {
		workers = cfg.Games
	}
	if cfg.Player1 == nil {
		cfg.Player1 = RandomAgents
	}
	if cfg.Player2 == nil {
		cfg.Player2 = RandomAgents
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	results := make(chan Stats, workers)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			st, err := runWorker(ctx, cfg, w, workers)
			if err != nil {
				return err
			}
			select {
			case results <- st:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	var total Stats
	for st := range results {
		total.add(st)
	}
	if err := g.Wait(); err != nil {
		return total, err
	}
	total.Duration = time.Since(start)

	cfg.Logger.WithFields(logrus.Fields{
		"games":      total.Games,
		"wins_p1":    total.Wins[engine.Player1],
		"wins_p2":    total.Wins[engine.Player2],
		"draws":      total.Draws,
		"mean_steps": total.MeanSteps(),
		"duration":   total.Duration,
	}).Info("self-play finished")
	return total, nil
}

// runWorker plays games w, w+n, w+2n, ...
func runWorker(ctx context.Context, cfg Config, w, n int) (Stats, error) {
	log := cfg.Logger.WithField("worker", w)
	e := env.New(env.WithRules(cfg.Rules), env.WithLogger(log))

	var st Stats
	for i := w; i < cfg.Games; i += n {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		seed := GameSeed(cfg.Seed, i)
		if _, err := e.Reset(seed); err != nil {
			return st, err
		}
		r1, r2, err := e.Play(cfg.Player1(engine.Player1, seed), cfg.Player2(engine.Player2, seed))
		if err != nil {
			return st, fmt.Errorf("game %d (seed %d): %w", i, seed, err)
		}

		game := e.State()
		st.Games++
		st.Steps += int(game.Steps)
		st.Rounds += int(game.Round)
		st.Rewards[engine.Player1] += float64(r1)
		st.Rewards[engine.Player2] += float64(r2)
		if winner, ok := e.Winner(); ok {
			st.Wins[winner]++
		} else {
			st.Draws++
		}

		if cfg.Store != nil {
			if _, err := store.SaveEnv(ctx, cfg.Store, e); err != nil {
				return st, err
			}
		}
		if cfg.ProgressEvery > 0 && st.Games%cfg.ProgressEvery == 0 {
			log.WithFields(logrus.Fields{"played": st.Games, "seed": seed}).Info("self-play progress")
		}
	}
	return st, nil
}
