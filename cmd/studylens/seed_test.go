package studylens

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSessions(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	sessions := demoSessions(25, now, rand.New(rand.NewPCG(7, 7)))
	require.Len(t, sessions, 25)

	var prev time.Time
	for i, s := range sessions {
		v := validator.New()
		s.Validate(v)
		assert.True(t, v.Valid(), "session %d: %v", i, v.Errors)

		require.NotNil(t, s.Timestamp)
		assert.True(t, s.Timestamp.Before(now))
		assert.True(t, s.Timestamp.After(prev), "timestamps must increase")
		prev = *s.Timestamp

		assert.LessOrEqual(t, *s.FocusedTimeSec, *s.TotalDurationSec)
		assert.LessOrEqual(t, *s.WastedPercentage, 100.0)
	}
}

func TestDemoSessions_Deterministic(t *testing.T) {
	now := time.Now()
	a := demoSessions(5, now, rand.New(rand.NewPCG(1, 2)))
	b := demoSessions(5, now, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b)
}

func TestRootCmd_Structure(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"migrate", "version"}, {"seed"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	seed, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	for _, name := range []string{"sessions", "broker", "force", "seed"} {
		assert.NotNil(t, seed.Flags().Lookup(name), name)
	}

	mode := root.Flags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "api", mode.DefValue)
}

func TestMigrateDown_RejectsBadSteps(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"--config-path", "", "migrate", "down", "zero"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive integer")
}
