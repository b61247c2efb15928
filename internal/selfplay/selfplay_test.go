package selfplay

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/rsaeta/durak/engine"
	"github.com/rsaeta/durak/engine/agent"
	"github.com/rsaeta/durak/env"
	"github.com/rsaeta/durak/internal/store"
)

func quietLogger() *logrus.Logger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

// recordingStore remembers the keys written through it.
type recordingStore struct {
	store.Store
	mu   sync.Mutex
	seen []string
}

func (r *recordingStore) Put(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	r.seen = append(r.seen, key)
	r.mu.Unlock()
	return r.Store.Put(ctx, key, data)
}

func (r *recordingStore) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func TestRunAggregates(t *testing.T) {
	st, err := Run(context.Background(), Config{
		Games:   200,
		Workers: 4,
		Seed:    1,
		Rules:   engine.DefaultHouseRules(),
		Logger:  quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, 200, st.Games)
	assert.Equal(t, 200, st.Wins[0]+st.Wins[1]+st.Draws)
	assert.InDelta(t, 0, st.Rewards[0]+st.Rewards[1], 1e-9, "zero-sum")
	assert.InDelta(t, float64(st.Wins[0]-st.Wins[1]), st.Rewards[0], 1e-9)
	assert.Greater(t, st.MeanSteps(), 0.0)
	assert.Positive(t, st.Duration)
}

// TestRunIndependentOfWorkers: game seeds depend only on the game index.
func TestRunIndependentOfWorkers(t *testing.T) {
	base := Config{Games: 60, Seed: 9, Rules: engine.DefaultHouseRules(), Logger: quietLogger()}

	one := base
	one.Workers = 1
	a, err := Run(context.Background(), one)
	require.NoError(t, err)

	many := base
	many.Workers = 7
	b, err := Run(context.Background(), many)
	require.NoError(t, err)

	a.Duration, b.Duration = 0, 0
	assert.Equal(t, a, b)
}

func TestRunGreedyVsRandom(t *testing.T) {
	st, err := Run(context.Background(), Config{
		Games:   100,
		Workers: 2,
		Seed:    3,
		Player1: GreedyAgents,
		Player2: RandomAgents,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, st.Games)
}

func TestRunZeroGames(t *testing.T) {
	st, err := Run(context.Background(), Config{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Zero(t, st.Games)

	_, err = Run(context.Background(), Config{Games: -1, Logger: quietLogger()})
	assert.Error(t, err)
}

func TestRunAgentErrorCancels(t *testing.T) {
	boom := errors.New("boom")
	failing := func(engine.Player, uint64) env.Agent {
		return env.AgentFunc(func(agent.Observation, env.LegalSet, []agent.Observation) (uint16, error) {
			return 0, boom
		})
	}
	_, err := Run(context.Background(), Config{Games: 50, Workers: 3, Player1: failing, Logger: quietLogger()})
	assert.ErrorIs(t, err, boom)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Games: 10, Workers: 2, Logger: quietLogger()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSavesToStore(t *testing.T) {
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "sp.db"))
	require.NoError(t, err)
	defer s.Close()

	recorder := &recordingStore{Store: s}
	st, err := Run(context.Background(), Config{Games: 5, Workers: 2, Logger: quietLogger(), Store: recorder})
	require.NoError(t, err)
	require.Len(t, recorder.keys(), st.Games)

	e := env.New(env.WithLogger(quietLogger()))
	for _, key := range recorder.keys() {
		require.NoError(t, store.LoadEnv(context.Background(), s, key, e))
		assert.True(t, e.IsDone())
	}
}

func TestRunLogsSummary(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	_, err := Run(context.Background(), Config{Games: 4, Workers: 2, Logger: logger, ProgressEvery: 1})
	require.NoError(t, err)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "self-play finished", last.Message)
	assert.Equal(t, 4, last.Data["games"])

	progress := 0
	for _, entry := range hook.AllEntries() {
		if entry.Message == "self-play progress" {
			progress++
		}
	}
	assert.Equal(t, 4, progress)
}
