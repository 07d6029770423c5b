package scheduler

import (
	"errors"
	"fmt"

	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

const (
	// MinPlayers is the smallest roster that leaves at least one player resting
	MinPlayers = 6
	// MaxPlayers bounds request size; the algorithm itself has no upper limit
	MaxPlayers = 64
	// MaxIntervals is the longest schedule accepted
	MaxIntervals = 16
	// MaxParts and MaxDivisions bound the parts x divisions match format
	MaxParts     = 4
	MaxDivisions = 4
	// MaxAttempts caps the generator restarts a single request may ask for
	MaxAttempts = 10000
)

var (
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrTooManyPlayers      = errors.New("too many players")
	ErrDuplicateRosterName = errors.New("duplicate player name in roster")
	ErrEmptyPlayerName     = errors.New("player name is empty")
	ErrUnknownCategory     = errors.New("unknown position category")
	ErrInvalidIntervals    = errors.New("invalid interval count")
	ErrInvalidAttempts     = errors.New("invalid attempt count")
	ErrDuplicatePlayer     = errors.New("duplicate player in lineup")
	ErrIncompleteLineup    = errors.New("lineup has an empty slot")
)

// ValidateRoster checks the roster before any search begins
func ValidateRoster(players []models.Player) error {
	if len(players) < MinPlayers {
		return fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientPlayers, len(players), MinPlayers)
	}
	if len(players) > MaxPlayers {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyPlayers, len(players), MaxPlayers)
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.Name == "" {
			return ErrEmptyPlayerName
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateRosterName, p.Name)
		}
		seen[p.Name] = true
		for _, c := range p.PreferredPositions {
			if !c.Valid() {
				return fmt.Errorf("%w: %q for %s", ErrUnknownCategory, c, p.Name)
			}
		}
	}
	return nil
}

// ValidateMatchFormat checks parts and divisions before they are multiplied
func ValidateMatchFormat(parts, divisions int) error {
	if parts < 1 || parts > MaxParts {
		return fmt.Errorf("%w: %d parts (must be 1-%d)", ErrInvalidIntervals, parts, MaxParts)
	}
	if divisions < 1 || divisions > MaxDivisions {
		return fmt.Errorf("%w: %d divisions (must be 1-%d)", ErrInvalidIntervals, divisions, MaxDivisions)
	}
	return nil
}

// ValidateAttempts bounds the generator restarts
func ValidateAttempts(n int) error {
	if n < 1 || n > MaxAttempts {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidAttempts, n, MaxAttempts)
	}
	return nil
}

// ValidateIntervals bounds the schedule length
func ValidateIntervals(n int) error {
	if n < 1 || n > MaxIntervals {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidIntervals, n, MaxIntervals)
	}
	return nil
}
