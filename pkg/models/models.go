package models

import (
	"encoding/json"
	"fmt"
)

// Category is a general position a player can list as preferred
type Category string

const (
	CategoryGoalkeeper Category = "Goalkeeper"
	CategoryDefender   Category = "Defender"
	CategoryMidfielder Category = "Midfielder"
	CategoryForward    Category = "Forward"
)

// Categories lists every valid preference category
var Categories = []Category{CategoryGoalkeeper, CategoryDefender, CategoryMidfielder, CategoryForward}

// Valid reports whether c is one of the four known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryGoalkeeper, CategoryDefender, CategoryMidfielder, CategoryForward:
		return true
	}
	return false
}

// Slot is one of the five field positions of a lineup
type Slot int

const (
	SlotGoalkeeper Slot = iota
	SlotDefender
	SlotMidfielder1
	SlotMidfielder2
	SlotForward
)

// SlotCount is the number of players on the field in every interval
const SlotCount = 5

// Slots is the fixed fill order used by the generator
var Slots = [SlotCount]Slot{SlotGoalkeeper, SlotDefender, SlotMidfielder1, SlotMidfielder2, SlotForward}

var slotNames = [SlotCount]string{"Goalkeeper", "Defender", "Midfielder1", "Midfielder2", "Forward"}

func (s Slot) String() string {
	if s < 0 || int(s) >= SlotCount {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// Category returns the preference category a slot satisfies.
// Both midfield slots map to CategoryMidfielder.
func (s Slot) Category() Category {
	switch s {
	case SlotGoalkeeper:
		return CategoryGoalkeeper
	case SlotDefender:
		return CategoryDefender
	case SlotMidfielder1, SlotMidfielder2:
		return CategoryMidfielder
	default:
		return CategoryForward
	}
}

// Point is a field coordinate on a 10x6 pitch
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var slotCoordinates = [SlotCount]Point{
	{X: 0.5, Y: 3},
	{X: 3, Y: 3},
	{X: 5, Y: 4.5},
	{X: 5, Y: 1.5},
	{X: 7.5, Y: 3},
}

// Coordinate returns where renderers draw the slot. It has no meaning for scheduling.
func (s Slot) Coordinate() Point {
	return slotCoordinates[s]
}

// ParseSlot resolves a slot from its label
func ParseSlot(name string) (Slot, error) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q", name)
}

// Player is a roster entry
type Player struct {
	Name               string     `json:"name" yaml:"name"`
	PreferredPositions []Category `json:"preferred_positions" yaml:"preferred_positions"`
}

// Prefers reports whether the player listed c as a preferred category
func (p Player) Prefers(c Category) bool {
	for _, pc := range p.PreferredPositions {
		if pc == c {
			return true
		}
	}
	return false
}

// Lineup maps every slot to exactly one player name
type Lineup [SlotCount]string

// Contains reports whether name occupies any slot
func (l Lineup) Contains(name string) bool {
	for _, p := range l {
		if p == name {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the lineup as an object keyed by slot label
func (l Lineup) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, SlotCount)
	for _, s := range Slots {
		m[s.String()] = l[s]
	}
	return json.Marshal(m)
}

// UnmarshalJSON requires all five slots to be present
func (l *Lineup) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out Lineup
	for name, player := range m {
		s, err := ParseSlot(name)
		if err != nil {
			return err
		}
		out[s] = player
	}
	for _, s := range Slots {
		if out[s] == "" {
			return fmt.Errorf("lineup is missing slot %s", s)
		}
	}
	*l = out
	return nil
}

// Schedule is the ordered list of lineups for a match
type Schedule []Lineup

// Clone returns a copy that shares nothing with s
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}

// Resting returns the roster players not on the field in lineup, in roster order
func Resting(lineup Lineup, roster []Player) []string {
	resting := []string{}
	for _, p := range roster {
		if !lineup.Contains(p.Name) {
			resting = append(resting, p.Name)
		}
	}
	return resting
}

// Ledger is the minutes accounting derived from a schedule
type Ledger struct {
	Minutes     map[string]int `json:"minutes"`
	Goalkeeping map[string]int `json:"goalkeeping"`
}

// Settings describes the match being rotated
type Settings struct {
	Parts          int    `json:"parts" yaml:"parts"`
	Divisions      int    `json:"divisions" yaml:"divisions"`
	IntervalCount  int    `json:"interval_count" yaml:"interval_count"`
	IgnoreGK       bool   `json:"ignore_gk" yaml:"ignore_gk"`
	MaxGKPerPlayer int    `json:"max_gk_per_player" yaml:"max_gk_per_player"`
	Attempts       int    `json:"attempts" yaml:"attempts"`
	Seed           *int64 `json:"seed,omitempty" yaml:"seed"`
}

// Intervals returns the explicit interval count or parts x divisions
func (s Settings) Intervals() int {
	if s.IntervalCount > 0 {
		return s.IntervalCount
	}
	return s.Parts * s.Divisions
}

// RotationInput is the body of the generate and validate endpoints
type RotationInput struct {
	Players  []Player `json:"players"`
	Settings Settings `json:"settings"`
}

// EditInput replaces one interval
type EditInput struct {
	Lineup Lineup `json:"lineup"`
}

// IntervalView is one interval as shown to clients
type IntervalView struct {
	Number  int      `json:"number"`
	Lineup  Lineup   `json:"lineup"`
	Resting []string `json:"resting"`
}

// PlayerMinutes is one row of the minutes summary
type PlayerMinutes struct {
	Player      string  `json:"player"`
	Minutes     int     `json:"minutes"`
	Goalkeeping int     `json:"goalkeeping"`
	Percent     float64 `json:"percent"`
}

// RotationResponse is the session view returned by the rotation endpoints
type RotationResponse struct {
	ID            string          `json:"id"`
	Players       []Player        `json:"players"`
	Settings      Settings        `json:"settings"`
	Intervals     []IntervalView  `json:"intervals"`
	Summary       []PlayerMinutes `json:"summary"`
	Spread        int             `json:"spread"`
	FairnessScore float64         `json:"fairness_score"`
	Missing       []string        `json:"missing"`
}
