package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

func TestEnsureAllPresent_SixPlayersOneInterval(t *testing.T) {
	players := roster("A", "B", "C", "D", "E", "F")
	s, err := NewScheduler(players, Options{Intervals: 1, IgnoreGK: true, Seed: 11})
	require.NoError(t, err)
	res := s.Generate()
	require.Len(t, res.Schedule, 1)

	resting := models.Resting(res.Schedule[0], players)
	require.Len(t, resting, 1)
	ledger := ComputeLedger(res.Schedule, players, true)
	assert.Zero(t, ledger.Minutes[resting[0]])

	before := res.Schedule.Clone()
	repaired, stats := EnsureAllPresent(res.Schedule, players, ledger, RepairOptions{IgnoreGK: true, MaxGKPerPlayer: 1})
	assert.Equal(t, before, res.Schedule, "input schedule must not be mutated")
	assert.True(t, repaired[0].Contains(resting[0]))
	assert.NoError(t, ValidateEdit(repaired[0]))
	// the goalkeeper has no minutes either, so at most the keeper and one
	// player off the field remain at zero
	assert.LessOrEqual(t, len(stats.Missing), 2)
	assert.Len(t, models.Resting(repaired[0], players), 1)
	assert.Greater(t, stats.Swaps, 0)
}

func TestEnsureAllPresent_DisplacedPlayersShiftAlong(t *testing.T) {
	players := roster("A", "B", "C", "D", "E", "F")
	schedule := models.Schedule{{"A", "B", "C", "D", "E"}}

	ledger := ComputeLedger(schedule, players, true)
	repaired, stats := EnsureAllPresent(schedule, players, ledger, RepairOptions{IgnoreGK: true, MaxGKPerPlayer: 1})

	// F takes the defender slot, then each displaced player takes the next
	// unclaimed slot until the forward is the one left out
	assert.Equal(t, models.Lineup{"A", "F", "B", "C", "D"}, repaired[0])
	assert.Equal(t, 4, stats.Swaps)
	assert.Equal(t, 5, stats.Rounds)
	assert.Equal(t, []string{"A", "E"}, stats.Missing)
}

func TestEnsureAllPresent_DisplacesFirstEligibleSlot(t *testing.T) {
	players := roster("A", "B", "C", "D", "E", "F")
	schedule := models.Schedule{{"A", "B", "C", "D", "E"}}

	// goalkeeper minutes counted: F may take the goal since F has never kept it
	ledger := ComputeLedger(schedule, players, false)
	repaired, _ := EnsureAllPresent(schedule, players, ledger, RepairOptions{MaxRounds: 1})
	assert.Equal(t, models.Lineup{"F", "B", "C", "D", "E"}, repaired[0])

	// goalkeeper minutes ignored: A has 0 minutes so the defender is displaced
	ledger = ComputeLedger(schedule, players, true)
	repaired, _ = EnsureAllPresent(schedule, players, ledger, RepairOptions{IgnoreGK: true, MaxRounds: 1})
	assert.Equal(t, models.Lineup{"A", "F", "C", "D", "E"}, repaired[0])
}

func TestEnsureAllPresent_RespectsGoalkeeperCap(t *testing.T) {
	players := roster("A", "B", "C", "D", "E", "F")
	schedule := models.Schedule{{"A", "B", "C", "D", "E"}}
	ledger := ComputeLedger(schedule, players, false)
	ledger.Goalkeeping["F"] = 1

	repaired, _ := EnsureAllPresent(schedule, players, ledger, RepairOptions{MaxGKPerPlayer: 1, MaxRounds: 1})
	assert.Equal(t, "A", repaired[0][models.SlotGoalkeeper])
	assert.Equal(t, "F", repaired[0][models.SlotDefender])
}

func TestEnsureAllPresent_NoOpWhenEveryonePlays(t *testing.T) {
	players := roster("A", "B", "C", "D", "E", "F")
	schedule := models.Schedule{
		{"A", "B", "C", "D", "E"},
		{"B", "F", "C", "D", "E"},
	}
	ledger := ComputeLedger(schedule, players, false)
	repaired, stats := EnsureAllPresent(schedule, players, ledger, RepairOptions{})
	assert.Equal(t, schedule, repaired)
	assert.Zero(t, stats.Rounds)
	assert.Empty(t, stats.Missing)
}

func TestEnsureAllPresent_SpreadsMissingAcrossIntervals(t *testing.T) {
	players := roster("A", "B", "C", "D", "E", "F", "G", "H")
	schedule := models.Schedule{
		{"A", "B", "C", "D", "E"},
		{"A", "B", "C", "D", "E"},
		{"A", "B", "C", "D", "E"},
	}
	ledger := ComputeLedger(schedule, players, false)
	require.Len(t, Missing(ledger, players), 3)

	repaired, stats := EnsureAllPresent(schedule, players, ledger, RepairOptions{})
	final := ComputeLedger(repaired, players, false)
	assert.Empty(t, Missing(final, players))
	assert.Empty(t, stats.Missing)
	for _, l := range repaired {
		assert.NoError(t, ValidateEdit(l))
	}
}

func TestEnsureAllPresent_Monotonic(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for seed := int64(0); seed < 25; seed++ {
		players := roster(names[:6+seed%3]...)
		s, err := NewScheduler(players, Options{Intervals: 1 + int(seed%4), Attempts: 3, Seed: seed})
		require.NoError(t, err)
		res := s.Generate()

		for _, ignoreGK := range []bool{true, false} {
			ledger := ComputeLedger(res.Schedule, players, ignoreGK)
			before := len(Missing(ledger, players))
			repaired, stats := EnsureAllPresent(res.Schedule, players, ledger, RepairOptions{IgnoreGK: ignoreGK})
			after := len(Missing(ComputeLedger(repaired, players, ignoreGK), players))
			assert.LessOrEqual(t, after, before, "seed %d ignoreGK %v", seed, ignoreGK)
			assert.Equal(t, after, len(stats.Missing))
			assert.LessOrEqual(t, stats.Rounds, DefaultRepairRounds)
			for _, l := range repaired {
				assert.NoError(t, ValidateEdit(l))
			}
		}
	}
}

func TestEnsureAllPresent_GoalkeeperOnlyPlayerIsFound(t *testing.T) {
	players := roster("A", "B", "C", "D", "E", "F")
	schedule := models.Schedule{
		{"F", "B", "C", "D", "E"},
		{"B", "A", "C", "D", "E"},
	}
	// F only kept goal; with goalkeeper minutes ignored F still has 0 minutes
	ledger := ComputeLedger(schedule, players, true)
	require.Contains(t, Missing(ledger, players), "F")

	repaired, stats := EnsureAllPresent(schedule, players, ledger, RepairOptions{IgnoreGK: true})
	assert.Equal(t, schedule, repaired)
	assert.Equal(t, 1, stats.Rounds)
}
