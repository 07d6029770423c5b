package scheduler

import (
	"math"
	"sort"

	"github.com/arnavshah/lineup-rotator-go/pkg/models"
	"gonum.org/v1/gonum/stat"
)

// ComputeLedger derives minutes and goalkeeper appearances from a schedule.
// Every roster player gets an entry in both maps, zero if they never appear.
func ComputeLedger(schedule models.Schedule, roster []models.Player, ignoreGK bool) models.Ledger {
	ledger := models.Ledger{
		Minutes:     make(map[string]int, len(roster)),
		Goalkeeping: make(map[string]int, len(roster)),
	}
	for _, p := range roster {
		ledger.Minutes[p.Name] = 0
		ledger.Goalkeeping[p.Name] = 0
	}
	for _, lineup := range schedule {
		credit(lineup, ledger.Minutes, ledger.Goalkeeping, ignoreGK)
	}
	return ledger
}

// credit adds one interval's worth of playing time
func credit(lineup models.Lineup, minutes, goalkeeping map[string]int, ignoreGK bool) {
	for _, slot := range models.Slots {
		p := lineup[slot]
		if slot == models.SlotGoalkeeper {
			goalkeeping[p]++
			if ignoreGK {
				continue
			}
		}
		minutes[p]++
	}
}

// Spread is the difference between the most and least used roster player
func Spread(minutes map[string]int, roster []models.Player) int {
	if len(roster) == 0 {
		return 0
	}
	lo, hi := math.MaxInt, math.MinInt
	for _, p := range roster {
		m := minutes[p.Name]
		lo = min(lo, m)
		hi = max(hi, m)
	}
	return hi - lo
}

// Missing returns the roster players with zero minutes, in roster order
func Missing(ledger models.Ledger, roster []models.Player) []string {
	missing := []string{}
	for _, p := range roster {
		if ledger.Minutes[p.Name] == 0 {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// Percent is minutes as a share of all intervals, rounded to one decimal
func Percent(minutes, intervals int) float64 {
	if intervals <= 0 {
		return 0
	}
	return math.Round(float64(minutes)/float64(intervals)*1000) / 10
}

// CalculateFairnessScore returns a percentage (0-100) representing how evenly
// minutes are distributed. 100% is perfectly fair (Standard Deviation = 0).
func CalculateFairnessScore(minutes map[string]int, roster []models.Player) float64 {
	if len(roster) == 0 {
		return 100.0
	}
	values := make([]float64, 0, len(roster))
	var sum float64
	for _, p := range roster {
		v := float64(minutes[p.Name])
		values = append(values, v)
		sum += v
	}
	if sum == 0 {
		return 100.0
	}
	mean, stdDev := stat.PopMeanStdDev(values, nil)
	score := (1.0 - stdDev/mean) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}

// Summary lists every roster player by minutes, most first. Ties keep roster order.
func Summary(ledger models.Ledger, roster []models.Player, intervals int) []models.PlayerMinutes {
	rows := make([]models.PlayerMinutes, 0, len(roster))
	for _, p := range roster {
		m := ledger.Minutes[p.Name]
		rows = append(rows, models.PlayerMinutes{
			Player:      p.Name,
			Minutes:     m,
			Goalkeeping: ledger.Goalkeeping[p.Name],
			Percent:     Percent(m, intervals),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Minutes > rows[j].Minutes })
	return rows
}
