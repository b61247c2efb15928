package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/internal/config"
)

func testGlobals(t *testing.T, driver string) (*Globals, *bytes.Buffer) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	var out bytes.Buffer
	return &Globals{
		LogLevel:  "info",
		LogFormat: "text",
		Store:     driver,
		StoreDSN:  filepath.Join(t.TempDir(), "cli.db"),
		out:       &out,
		log:       logger,
	}, &out
}

func defaultRules() RulesFlags {
	r := engine.DefaultHouseRules()
	return RulesFlags{HandSize: r.HandSize, MaxTableCards: r.MaxTableCards, LowestTrumpLeads: r.LowestTrumpLeads}
}

func TestShape(t *testing.T) {
	g, out := testGlobals(t, config.StoreNone)
	require.NoError(t, ShapeCmd{}.Run(g))
	assert.Contains(t, out.String(), "input_dim   549")
}

func TestPlayPrintsGame(t *testing.T) {
	g, out := testGlobals(t, config.StoreNone)
	cmd := &PlayCmd{RulesFlags: defaultRules(), Seed: 5, P1: "greedy", P2: "random"}
	require.NoError(t, cmd.Run(g))
	assert.Contains(t, out.String(), "seed 5")
	assert.Regexp(t, `(?m)^(winner player[12], durak player[12]|draw after) `, out.String())
}

func TestPlayIsDeterministic(t *testing.T) {
	run := func() string {
		g, out := testGlobals(t, config.StoreNone)
		cmd := &PlayCmd{RulesFlags: defaultRules(), Seed: 77, P1: "random", P2: "random", Quiet: true}
		require.NoError(t, cmd.Run(g))
		return out.String()
	}
	assert.Equal(t, run(), run())
}

func TestPlaySaveNeedsStore(t *testing.T) {
	g, _ := testGlobals(t, config.StoreNone)
	cmd := &PlayCmd{RulesFlags: defaultRules(), Seed: 1, P1: "random", P2: "random", Quiet: true, Save: true}
	assert.ErrorContains(t, cmd.Run(g), "needs a store")
}

func TestPlaySaveThenInspect(t *testing.T) {
	g, out := testGlobals(t, config.StoreSQLite)
	play := &PlayCmd{RulesFlags: defaultRules(), Seed: 12, P1: "greedy", P2: "greedy", Quiet: true, Save: true}
	require.NoError(t, play.Run(g))

	m := regexp.MustCompile(`saved (\S+)`).FindStringSubmatch(out.String())
	require.Len(t, m, 2, out.String())
	result := out.String()[:bytes.Index(out.Bytes(), []byte("saved"))]

	out.Reset()
	inspect := &InspectCmd{Key: m[1], Actions: true, Viewer: "all"}
	require.NoError(t, inspect.Run(g))
	assert.Contains(t, out.String(), "game "+m[1]+" seed 12 status done")
	assert.Contains(t, out.String(), result, "inspect reports the same outcome")

	out.Reset()
	inspect.Viewer = "p2"
	require.NoError(t, inspect.Run(g))
	assert.Contains(t, out.String(), "seed 12")
}

func TestInspectMissing(t *testing.T) {
	g, _ := testGlobals(t, config.StoreSQLite)
	err := (&InspectCmd{Key: "nope", Viewer: "all"}).Run(g)
	assert.ErrorContains(t, err, "load nope")
}

func TestSelfplayCmd(t *testing.T) {
	g, out := testGlobals(t, config.StoreNone)
	cmd := &SelfplayCmd{RulesFlags: defaultRules(), Games: 20, Workers: 2, Seed: 4, P1: "greedy", P2: "random"}
	require.NoError(t, cmd.Run(g))
	assert.Contains(t, out.String(), "games      20")
	assert.Contains(t, out.String(), "P1 (greedy)")
}

func TestAgentFactory(t *testing.T) {
	_, err := agentFactory("minimax")
	assert.ErrorContains(t, err, "unknown bot")
	for _, name := range []string{"random", "greedy"} {
		f, err := agentFactory(name)
		require.NoError(t, err)
		assert.NotNil(t, f(engine.Player1, 1))
	}
}

func TestConfigVars(t *testing.T) {
	vars := configVars(config.Config{Seed: 3, HandSize: 6, MaxTableCards: 5, StoreDriver: "none", SnapshotTTL: 0})
	assert.Equal(t, "3", vars["seed"])
	assert.Equal(t, "5", vars["max_table"])
	assert.Equal(t, "0s", vars["snapshot_ttl"])
}
