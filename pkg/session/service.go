package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnavshah/lineup-rotator-go/pkg/config"
	"github.com/arnavshah/lineup-rotator-go/pkg/database"
	"github.com/arnavshah/lineup-rotator-go/pkg/logger"
	"github.com/arnavshah/lineup-rotator-go/pkg/metrics"
	"github.com/arnavshah/lineup-rotator-go/pkg/models"
	"github.com/arnavshah/lineup-rotator-go/pkg/scheduler"
)

// Service stores rotations in the database. Every session is scoped to the
// API key that created it and edits of one session are serialized.
type Service struct {
	DB       *gorm.DB
	Defaults config.RotationDefaults
	Log      logger.Logger
	Metrics  metrics.Recorder

	locks sync.Map // session id -> *sync.Mutex
}

// NewService wires a Service with no-op logging and metrics when nil.
func NewService(db *gorm.DB, defaults config.RotationDefaults, log logger.Logger, rec metrics.Recorder) *Service {
	if log == nil {
		log = logger.Nop{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{DB: db, Defaults: defaults, Log: log, Metrics: rec}
}

func (s *Service) lock(id string) func() {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Prepare validates a generate request and normalizes its settings without
// running the search.
func (s *Service) Prepare(input models.RotationInput) (models.Settings, error) {
	if err := scheduler.ValidateRoster(input.Players); err != nil {
		return input.Settings, err
	}
	return NormalizeSettings(input.Settings, s.Defaults)
}

// Create generates a rotation for keyID and stores it.
func (s *Service) Create(keyID uint, input models.RotationInput) (string, *Rotation, error) {
	settings, err := s.Prepare(input)
	if err != nil {
		return "", nil, err
	}

	rot, res, stats, err := Generate(input.Players, settings, s.Defaults.RepairRounds, s.Log)
	if err != nil {
		return "", nil, err
	}
	s.Metrics.RecordGeneration(res.Attempts, res.Spread, res.AllPlayed)
	s.Metrics.RecordRepair(stats.Swaps, len(stats.Missing))

	row := database.RotationSession{
		ID:       uuid.NewString(),
		KeyID:    keyID,
		Players:  rot.Players,
		Settings: rot.Settings,
		Schedule: rot.Schedule,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return "", nil, fmt.Errorf("store rotation: %w", err)
	}

	s.Log.Infow("rotation created", map[string]any{
		"session":   row.ID,
		"key_id":    keyID,
		"players":   len(rot.Players),
		"intervals": len(rot.Schedule),
		"spread":    res.Spread,
		"swaps":     stats.Swaps,
		"missing":   len(stats.Missing),
	})
	return row.ID, rot, nil
}

func (s *Service) load(keyID uint, id string) (*database.RotationSession, error) {
	var row database.RotationSession
	err := s.DB.Where("id = ? AND key_id = ?", id, keyID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load rotation: %w", err)
	}
	return &row, nil
}

func (s *Service) rotation(row *database.RotationSession) *Rotation {
	return &Rotation{
		Players:      row.Players,
		Settings:     row.Settings,
		Schedule:     row.Schedule,
		RepairRounds: s.Defaults.RepairRounds,
	}
}

// Get loads a rotation owned by keyID.
func (s *Service) Get(keyID uint, id string) (*Rotation, error) {
	row, err := s.load(keyID, id)
	if err != nil {
		return nil, err
	}
	return s.rotation(row), nil
}

// EditInterval replaces interval n, repairs the schedule and stores it. A
// rejected edit stores nothing.
func (s *Service) EditInterval(keyID uint, id string, n int, lineup models.Lineup) (*Rotation, error) {
	defer s.lock(id)()

	row, err := s.load(keyID, id)
	if err != nil {
		return nil, err
	}
	rot := s.rotation(row)

	stats, err := rot.Edit(n, lineup)
	if err != nil {
		if errors.Is(err, scheduler.ErrDuplicatePlayer) {
			s.Metrics.RecordEdit(metrics.EditDuplicate)
		} else {
			s.Metrics.RecordEdit(metrics.EditRejected)
		}
		return nil, err
	}
	s.Metrics.RecordEdit(metrics.EditAccepted)
	s.Metrics.RecordRepair(stats.Swaps, len(stats.Missing))

	row.Schedule = rot.Schedule
	if err := s.DB.Save(row).Error; err != nil {
		return nil, fmt.Errorf("store rotation: %w", err)
	}
	s.Log.Debugw("interval edited", map[string]any{
		"session":  id,
		"interval": n,
		"swaps":    stats.Swaps,
		"missing":  len(stats.Missing),
	})
	return rot, nil
}

// Delete removes a rotation owned by keyID.
func (s *Service) Delete(keyID uint, id string) error {
	defer s.lock(id)()
	res := s.DB.Where("id = ? AND key_id = ?", id, keyID).Delete(&database.RotationSession{})
	if res.Error != nil {
		return fmt.Errorf("delete rotation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	s.locks.Delete(id)
	return nil
}
