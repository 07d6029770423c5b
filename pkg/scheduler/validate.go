package scheduler

import (
	"fmt"

	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

// ValidateEdit rejects a replacement lineup that names the same player twice.
// Preferences and the goalkeeper cap are not enforced for manual edits.
func ValidateEdit(lineup models.Lineup) error {
	seen := make(map[string]models.Slot, models.SlotCount)
	for _, slot := range models.Slots {
		name := lineup[slot]
		if name == "" {
			return fmt.Errorf("%w: %s", ErrIncompleteLineup, slot)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s is both %s and %s", ErrDuplicatePlayer, name, prev, slot)
		}
		seen[name] = slot
	}
	return nil
}
