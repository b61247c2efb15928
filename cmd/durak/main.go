package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/env"
	"github.com/rsaeta/durak/internal/config"
	"github.com/rsaeta/durak/internal/logging"
	"github.com/rsaeta/durak/internal/selfplay"
	"github.com/rsaeta/durak/internal/store"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command. Their defaults come from
// the environment (see internal/config).
type Globals struct {
	LogLevel    string        `name:"log-level" default:"${log_level}" help:"Log level (debug|info|warn|error)"`
	LogFormat   string        `name:"log-format" default:"${log_format}" enum:"text,json" help:"Log format (text|json)"`
	Store       string        `default:"${store}" enum:"none,sqlite,postgres,redis" help:"Snapshot store driver"`
	StoreDSN    string        `name:"store-dsn" default:"${store_dsn}" help:"SQLite path, Postgres DSN or redis:// URL"`
	SnapshotTTL time.Duration `name:"snapshot-ttl" default:"${snapshot_ttl}" help:"Redis snapshot expiry, 0 keeps forever"`

	out io.Writer      `kong:"-"`
	log *logrus.Logger `kong:"-"`
}

// RulesFlags select the house rules of a game.
type RulesFlags struct {
	HandSize         uint8 `name:"hand-size" default:"${hand_size}" help:"Cards dealt to each player"`
	MaxTableCards    uint8 `name:"max-table" default:"${max_table}" help:"Attack cards allowed per round"`
	LowestTrumpLeads bool  `name:"lowest-trump-leads" default:"${lowest_trump_leads}" negatable:"" help:"Holder of the lowest trump attacks first"`
}

func (r RulesFlags) rules() engine.HouseRules {
	return engine.HouseRules{
		HandSize:         r.HandSize,
		MaxTableCards:    r.MaxTableCards,
		LowestTrumpLeads: r.LowestTrumpLeads,
	}
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play one game between two bots and print it"`
	Selfplay SelfplayCmd      `cmd:"" help:"Run many bot games in parallel and report statistics"`
	Inspect  InspectCmd       `cmd:"" help:"Print a stored game snapshot"`
	Shape    ShapeCmd         `cmd:"" help:"Print the observation and action dimensions"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("durak"),
		kong.Description("Two-player Durak engine and self-play tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		configVars(cfg),
	)

	cli.out = os.Stdout
	cli.log, err = logging.New(cli.LogLevel, cli.LogFormat)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

func configVars(cfg config.Config) kong.Vars {
	return kong.Vars{
		"version":            version,
		"seed":               strconv.FormatUint(cfg.Seed, 10),
		"games":              strconv.Itoa(cfg.Games),
		"workers":            strconv.Itoa(cfg.Workers),
		"hand_size":          strconv.Itoa(int(cfg.HandSize)),
		"max_table":          strconv.Itoa(int(cfg.MaxTableCards)),
		"lowest_trump_leads": strconv.FormatBool(cfg.LowestTrumpLeads),
		"log_level":          cfg.LogLevel,
		"log_format":         cfg.LogFormat,
		"store":              cfg.StoreDriver,
		"store_dsn":          cfg.StoreDSN,
		"snapshot_ttl":       cfg.SnapshotTTL.String(),
	}
}

// openStore returns nil when the driver is "none".
func (g *Globals) openStore(ctx context.Context) (store.Store, error) {
	if g.Store == config.StoreNone {
		return nil, nil
	}
	return store.Open(ctx, g.Store, g.StoreDSN, g.SnapshotTTL)
}

// agentFactory maps a bot name to a selfplay.AgentFactory.
func agentFactory(name string) (selfplay.AgentFactory, error) {
	switch name {
	case "random":
		return selfplay.RandomAgents, nil
	case "greedy":
		return selfplay.GreedyAgents, nil
	}
	return nil, fmt.Errorf("unknown bot: %s (available: random, greedy)", name)
}

func newEnv(g *Globals, rules engine.HouseRules) *env.Env {
	return env.New(env.WithRules(rules), env.WithLogger(g.log))
}
