// Package session owns generated rotations: it runs the generator, applies
// manual interval edits, keeps everybody on the field with the repair pass and
// persists the result per API key.
package session

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/arnavshah/lineup-rotator-go/pkg/config"
	"github.com/arnavshah/lineup-rotator-go/pkg/logger"
	"github.com/arnavshah/lineup-rotator-go/pkg/models"
	"github.com/arnavshah/lineup-rotator-go/pkg/scheduler"
)

var (
	ErrSessionNotFound    = errors.New("rotation session not found")
	ErrIntervalOutOfRange = errors.New("interval out of range")
	ErrUnknownPlayer      = errors.New("player is not on the roster")
)

// Rotation is a roster, its settings and the current schedule. The ledger is
// never stored; it is derived from the schedule on demand.
type Rotation struct {
	Players      []models.Player
	Settings     models.Settings
	Schedule     models.Schedule
	RepairRounds int
}

// NewSeed draws a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NormalizeSettings fills unset fields from defaults and the standard match
// form, and pins a seed so the rotation can be regenerated.
func NormalizeSettings(s models.Settings, defaults config.RotationDefaults) (models.Settings, error) {
	switch {
	case s.IntervalCount < 0:
		return s, fmt.Errorf("%w: %d", scheduler.ErrInvalidIntervals, s.IntervalCount)
	case s.IntervalCount == 0:
		base := config.DefaultSettings()
		if s.Parts == 0 {
			s.Parts = base.Parts
		}
		if s.Divisions == 0 {
			s.Divisions = base.Divisions
		}
		if err := scheduler.ValidateMatchFormat(s.Parts, s.Divisions); err != nil {
			return s, err
		}
	}
	if err := scheduler.ValidateIntervals(s.Intervals()); err != nil {
		return s, err
	}
	if s.MaxGKPerPlayer <= 0 {
		s.MaxGKPerPlayer = defaults.MaxGKPerPlayer
	}
	if s.Attempts <= 0 {
		s.Attempts = defaults.Attempts
	}
	if err := scheduler.ValidateAttempts(s.Attempts); err != nil {
		return s, err
	}
	if s.Seed == nil {
		seed, err := NewSeed()
		if err != nil {
			return s, err
		}
		s.Seed = &seed
	}
	return s, nil
}

// Generate builds a rotation and runs the repair pass over it. Settings must
// already be normalized.
func Generate(players []models.Player, settings models.Settings, repairRounds int, log logger.Logger) (*Rotation, *scheduler.Result, scheduler.RepairStats, error) {
	var seed int64
	if settings.Seed != nil {
		seed = *settings.Seed
	}
	s, err := scheduler.NewScheduler(players, scheduler.Options{
		Intervals:      settings.Intervals(),
		IgnoreGK:       settings.IgnoreGK,
		MaxGKPerPlayer: settings.MaxGKPerPlayer,
		Attempts:       settings.Attempts,
		Seed:           seed,
		Logger:         log,
	})
	if err != nil {
		return nil, nil, scheduler.RepairStats{}, err
	}
	res := s.Generate()

	r := &Rotation{
		Players:      players,
		Settings:     settings,
		Schedule:     res.Schedule,
		RepairRounds: repairRounds,
	}
	stats := r.Repair()
	return r, res, stats, nil
}

// Ledger recomputes minutes from the current schedule.
func (r *Rotation) Ledger() models.Ledger {
	return scheduler.ComputeLedger(r.Schedule, r.Players, r.Settings.IgnoreGK)
}

// Repair runs the repair pass and replaces the schedule with its result.
func (r *Rotation) Repair() scheduler.RepairStats {
	repaired, stats := scheduler.EnsureAllPresent(r.Schedule, r.Players, r.Ledger(), scheduler.RepairOptions{
		IgnoreGK:       r.Settings.IgnoreGK,
		MaxGKPerPlayer: r.Settings.MaxGKPerPlayer,
		MaxRounds:      r.RepairRounds,
	})
	r.Schedule = repaired
	return stats
}

// Edit replaces interval n (1-based) and repairs the schedule. A rejected edit
// leaves the rotation untouched.
func (r *Rotation) Edit(n int, lineup models.Lineup) (scheduler.RepairStats, error) {
	if n < 1 || n > len(r.Schedule) {
		return scheduler.RepairStats{}, fmt.Errorf("%w: %d of %d", ErrIntervalOutOfRange, n, len(r.Schedule))
	}
	if err := scheduler.ValidateEdit(lineup); err != nil {
		return scheduler.RepairStats{}, err
	}
	for _, slot := range models.Slots {
		if !r.onRoster(lineup[slot]) {
			return scheduler.RepairStats{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, lineup[slot])
		}
	}

	r.Schedule = r.Schedule.Clone()
	r.Schedule[n-1] = lineup
	return r.Repair(), nil
}

func (r *Rotation) onRoster(name string) bool {
	for _, p := range r.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// View renders the rotation for clients.
func (r *Rotation) View(id string) models.RotationResponse {
	ledger := r.Ledger()
	intervals := make([]models.IntervalView, 0, len(r.Schedule))
	for i, lineup := range r.Schedule {
		intervals = append(intervals, models.IntervalView{
			Number:  i + 1,
			Lineup:  lineup,
			Resting: models.Resting(lineup, r.Players),
		})
	}
	return models.RotationResponse{
		ID:            id,
		Players:       r.Players,
		Settings:      r.Settings,
		Intervals:     intervals,
		Summary:       scheduler.Summary(ledger, r.Players, len(r.Schedule)),
		Spread:        scheduler.Spread(ledger.Minutes, r.Players),
		FairnessScore: scheduler.CalculateFairnessScore(ledger.Minutes, r.Players),
		Missing:       scheduler.Missing(ledger, r.Players),
	}
}
