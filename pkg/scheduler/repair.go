package scheduler

import (
	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

const DefaultRepairRounds = 50

// RepairOptions bounds a repair pass
type RepairOptions struct {
	IgnoreGK       bool
	MaxGKPerPlayer int
	MaxRounds      int
}

// RepairStats describes what a repair pass did
type RepairStats struct {
	Rounds int
	Swaps  int
	// Missing is who still has zero minutes afterwards
	Missing []string
}

type slotRef struct {
	interval int
	slot     models.Slot
}

// EnsureAllPresent tries to give every zero-minute roster player a slot by
// replacing an occupant who has played more. The input schedule is not
// modified; the repaired copy is returned.
//
// A slot filled during the call is never reclaimed by a later round, so two
// players can never trade one slot back and forth until the round budget runs
// out. A player pushed off the field can still claim another open slot, which
// shifts occupants along the lineup: with six players and one interval
// {A,B,C,D,E} ends as {A,F,B,C,D} and E is the one left out. Players still
// missing afterwards are reported in the stats, not as an error.
func EnsureAllPresent(schedule models.Schedule, roster []models.Player, ledger models.Ledger, opts RepairOptions) (models.Schedule, RepairStats) {
	if opts.MaxGKPerPlayer <= 0 {
		opts.MaxGKPerPlayer = DefaultMaxGKPerPlayer
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultRepairRounds
	}

	out := schedule.Clone()
	claimed := make(map[slotRef]bool)
	missing := Missing(ledger, roster)
	var stats RepairStats

	for stats.Rounds < opts.MaxRounds && len(missing) > 0 {
		stats.Rounds++
		changed := false

		for _, m := range missing {
			for idx := range out {
				if out[idx].Contains(m) {
					break
				}
				slot, ok := claimableSlot(out[idx], idx, m, ledger, claimed, opts.MaxGKPerPlayer)
				if !ok {
					continue
				}
				out[idx][slot] = m
				claimed[slotRef{idx, slot}] = true
				stats.Swaps++
				changed = true
				break
			}
		}

		if !changed {
			break
		}
		ledger = ComputeLedger(out, roster, opts.IgnoreGK)
		missing = Missing(ledger, roster)
	}

	stats.Missing = missing
	return out, stats
}

// claimableSlot finds the first slot in lineup whose occupant has played more
// than player and may be replaced. The ledger is the one from the start of the
// round.
func claimableSlot(lineup models.Lineup, idx int, player string, ledger models.Ledger, claimed map[slotRef]bool, maxGK int) (models.Slot, bool) {
	for _, slot := range models.Slots {
		current := lineup[slot]
		if current == player || claimed[slotRef{idx, slot}] {
			continue
		}
		if slot == models.SlotGoalkeeper && ledger.Goalkeeping[player] >= maxGK {
			continue
		}
		if ledger.Minutes[current] > ledger.Minutes[player] {
			return slot, true
		}
	}
	return 0, false
}
