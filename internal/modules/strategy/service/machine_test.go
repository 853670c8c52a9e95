package service

import (
	"testing"

	"band_monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_TransitionTable(t *testing.T) {
	cases := []struct {
		from   models.Position
		class  models.Classification
		to     models.Position
		action models.Action
	}{
		{models.PositionFlat, models.Oversold, models.PositionLong, models.ActionEnter},
		{models.PositionFlat, models.Overbought, models.PositionFlat, models.ActionNone},
		{models.PositionFlat, models.Neutral, models.PositionFlat, models.ActionNone},
		{models.PositionLong, models.Overbought, models.PositionFlat, models.ActionExit},
		{models.PositionLong, models.Oversold, models.PositionLong, models.ActionNone},
		{models.PositionLong, models.Neutral, models.PositionLong, models.ActionNone},
	}
	for _, tc := range cases {
		m := NewMachine(tc.from)
		tr := m.Decide(tc.class)
		assert.Equal(t, tc.to, tr.To, "%s/%s", tc.from, tc.class)
		assert.Equal(t, tc.action, tr.Action, "%s/%s", tc.from, tc.class)
		assert.Equal(t, tc.from, m.Position(), "Decide must not mutate")
	}
}

// run прогоняет классификации так же, как координатор: Decide, затем Commit.
func run(m *Machine, classes ...models.Classification) []models.Action {
	var fired []models.Action
	for _, c := range classes {
		tr := m.Decide(c)
		if tr.Fired() {
			fired = append(fired, tr.Action)
			m.Commit(tr)
		}
	}
	return fired
}

func TestMachine_Debounce(t *testing.T) {
	m := NewMachine(models.PositionFlat)
	fired := run(m, models.Oversold, models.Oversold, models.Oversold)

	assert.Equal(t, []models.Action{models.ActionEnter}, fired)
	assert.Equal(t, models.PositionLong, m.Position())
}

func TestMachine_RoundTrip(t *testing.T) {
	m := NewMachine(models.PositionFlat)
	fired := run(m,
		models.Neutral,
		models.Oversold,
		models.Neutral, models.Oversold, models.Neutral,
		models.Overbought,
		models.Neutral, models.Overbought,
		models.Oversold,
		models.Neutral,
	)

	assert.Equal(t, []models.Action{models.ActionEnter, models.ActionExit, models.ActionEnter}, fired)
	assert.Equal(t, models.PositionLong, m.Position())
}

func TestMachine_ResumeLong(t *testing.T) {
	m := NewMachine(models.PositionLong)
	assert.Equal(t, []models.Action{models.ActionExit}, run(m, models.Oversold, models.Overbought))
}

func TestMachine_CommitGuards(t *testing.T) {
	m := NewMachine(models.PositionFlat)

	require.False(t, m.Commit(m.Decide(models.Neutral)))

	tr := m.Decide(models.Oversold)
	require.True(t, m.Commit(tr))
	// тот же переход второй раз уже не применим
	require.False(t, m.Commit(tr))
	assert.Equal(t, models.PositionLong, m.Position())
}
