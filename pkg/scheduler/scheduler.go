package scheduler

import (
	"math"
	"math/rand"
	"slices"

	"github.com/arnavshah/lineup-rotator-go/pkg/logger"
	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

const (
	DefaultAttempts       = 800
	DefaultMaxGKPerPlayer = 1
)

// Options configures a rotation search
type Options struct {
	Intervals      int
	IgnoreGK       bool
	MaxGKPerPlayer int
	Attempts       int
	Seed           int64
	Logger         logger.Logger
}

// Result is the best schedule found by Generate
type Result struct {
	Schedule models.Schedule
	Spread   int
	// AllPlayed is false when some roster player never made a lineup
	AllPlayed bool
	// Attempts is how many attempts ran before the search stopped
	Attempts int
}

// Scheduler builds fair rotations for one roster
type Scheduler struct {
	Players []models.Player
	Options Options

	byName map[string]models.Player
	rng    *rand.Rand
	log    logger.Logger
}

// NewScheduler creates a new scheduler instance. The roster is validated here,
// before any search begins.
func NewScheduler(players []models.Player, opts Options) (*Scheduler, error) {
	if err := ValidateRoster(players); err != nil {
		return nil, err
	}
	if err := ValidateIntervals(opts.Intervals); err != nil {
		return nil, err
	}
	if opts.MaxGKPerPlayer <= 0 {
		opts.MaxGKPerPlayer = DefaultMaxGKPerPlayer
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop{}
	}

	byName := make(map[string]models.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}

	return &Scheduler{
		Players: players,
		Options: opts,
		byName:  byName,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		log:     log,
	}, nil
}

// attempt is one candidate produced by a single randomized pass
type attempt struct {
	schedule  models.Schedule
	spread    int
	allPlayed bool
}

// Generate runs the multi-start search and keeps the lowest-spread schedule.
// It stops early once a pass reaches spread <= 1 with everybody on the field
// at least once.
func (s *Scheduler) Generate() *Result {
	best := Result{Spread: math.MaxInt}

	for i := 1; i <= s.Options.Attempts; i++ {
		cand := s.runAttempt()
		best.Attempts = i

		if cand.spread < best.Spread {
			best.Schedule = cand.schedule
			best.Spread = cand.spread
			best.AllPlayed = cand.allPlayed
			s.log.Debugw("improved rotation", map[string]any{
				"attempt":    i,
				"spread":     cand.spread,
				"all_played": cand.allPlayed,
			})
		}

		if cand.spread <= 1 && cand.allPlayed {
			break
		}
	}

	s.log.Infow("rotation search finished", map[string]any{
		"players":    len(s.Players),
		"intervals":  s.Options.Intervals,
		"attempts":   best.Attempts,
		"spread":     best.Spread,
		"all_played": best.AllPlayed,
	})
	return &best
}

func (s *Scheduler) runAttempt() attempt {
	minutes := make(map[string]int, len(s.Players))
	goalkeeping := make(map[string]int, len(s.Players))
	used := make(map[string]bool, len(s.Players))

	starters := make([]string, 0, models.SlotCount)
	for _, i := range s.rng.Perm(len(s.Players))[:models.SlotCount] {
		starters = append(starters, s.Players[i].Name)
	}
	for _, p := range starters {
		used[p] = true
	}

	schedule := make(models.Schedule, 0, s.Options.Intervals)
	for i := 0; i < s.Options.Intervals; i++ {
		lineup := s.buildLineup(starters, minutes, goalkeeping)
		credit(lineup, minutes, goalkeeping, s.Options.IgnoreGK)
		for _, p := range lineup {
			used[p] = true
		}
		schedule = append(schedule, lineup)
		starters = s.nextStarters(lineup)
	}

	allPlayed := true
	for _, p := range s.Players {
		if !used[p.Name] {
			minutes[p.Name] = 0
			allPlayed = false
		}
	}

	return attempt{
		schedule:  schedule,
		spread:    Spread(minutes, s.Players),
		allPlayed: allPlayed,
	}
}

// buildLineup fills the slots in fixed order from the starter pool, picking the
// least played candidate each time
func (s *Scheduler) buildLineup(starters []string, minutes, goalkeeping map[string]int) models.Lineup {
	var lineup models.Lineup
	available := slices.Clone(starters)

	for _, slot := range models.Slots {
		candidates := s.preferring(available, slot.Category())
		if len(candidates) == 0 {
			candidates = available
		}
		if slot == models.SlotGoalkeeper {
			if under := underCap(candidates, goalkeeping, s.Options.MaxGKPerPlayer); len(under) > 0 {
				candidates = under
			}
		}

		pick := leastPlayed(candidates, minutes)
		lineup[slot] = pick
		available = slices.DeleteFunc(slices.Clone(available), func(p string) bool { return p == pick })
	}
	return lineup
}

func (s *Scheduler) preferring(names []string, c models.Category) []string {
	var out []string
	for _, n := range names {
		if s.byName[n].Prefers(c) {
			out = append(out, n)
		}
	}
	return out
}

func underCap(names []string, goalkeeping map[string]int, limit int) []string {
	var out []string
	for _, n := range names {
		if goalkeeping[n] < limit {
			out = append(out, n)
		}
	}
	return out
}

// leastPlayed returns the first candidate with the fewest minutes
func leastPlayed(names []string, minutes map[string]int) string {
	best := names[0]
	for _, n := range names[1:] {
		if minutes[n] < minutes[best] {
			best = n
		}
	}
	return best
}

// nextStarters rests as many of the current five as there are players on the
// bench, chosen at random, and brings the whole bench on
func (s *Scheduler) nextStarters(lineup models.Lineup) []string {
	assigned := lineup[:]
	resting := models.Resting(lineup, s.Players)
	if len(resting) == 0 {
		return slices.Clone(assigned)
	}

	n := min(len(resting), len(assigned))
	toRest := make(map[string]bool, n)
	for _, i := range s.rng.Perm(len(assigned))[:n] {
		toRest[assigned[i]] = true
	}

	next := make([]string, 0, len(assigned)-n+len(resting))
	for _, p := range assigned {
		if !toRest[p] {
			next = append(next, p)
		}
	}
	return append(next, resting...)
}
