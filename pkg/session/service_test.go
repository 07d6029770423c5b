package session

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arnavshah/lineup-rotator-go/pkg/database"
	"github.com/arnavshah/lineup-rotator-go/pkg/models"
	"github.com/arnavshah/lineup-rotator-go/pkg/scheduler"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func input(seed int64, names ...string) models.RotationInput {
	return models.RotationInput{
		Players:  players(names...),
		Settings: seeded(models.Settings{IntervalCount: 6, IgnoreGK: true}, seed),
	}
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := NewService(testDB(t), defaults, nil, nil)

	id, rot, err := svc.Create(1, input(3, "A", "B", "C", "D", "E", "F", "G"))
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Len(t, rot.Schedule, 6)

	got, err := svc.Get(1, id)
	require.NoError(t, err)
	assert.Equal(t, rot.Schedule, got.Schedule)
	assert.Equal(t, rot.Players, got.Players)
	assert.EqualValues(t, 3, *got.Settings.Seed)
}

func TestServiceCreateRejectsSmallRoster(t *testing.T) {
	svc := NewService(testDB(t), defaults, nil, nil)
	_, _, err := svc.Create(1, input(1, "A", "B", "C"))
	assert.ErrorIs(t, err, scheduler.ErrInsufficientPlayers)

	var count int64
	svc.DB.Model(&database.RotationSession{}).Count(&count)
	assert.Zero(t, count)
}

func TestServiceSessionsAreScopedToKey(t *testing.T) {
	svc := NewService(testDB(t), defaults, nil, nil)
	id, _, err := svc.Create(1, input(4, "A", "B", "C", "D", "E", "F"))
	require.NoError(t, err)

	_, err = svc.Get(2, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.EditInterval(2, id, 1, models.Lineup{"A", "B", "C", "D", "E"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Delete(2, id), ErrSessionNotFound)

	require.NoError(t, svc.Delete(1, id))
	_, err = svc.Get(1, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceEditInterval(t *testing.T) {
	svc := NewService(testDB(t), defaults, nil, nil)
	id, rot, err := svc.Create(1, input(5, "A", "B", "C", "D", "E", "F", "G"))
	require.NoError(t, err)

	_, err = svc.EditInterval(1, id, 2, models.Lineup{"A", "B", "A", "D", "E"})
	require.ErrorIs(t, err, scheduler.ErrDuplicatePlayer)
	stored, err := svc.Get(1, id)
	require.NoError(t, err)
	assert.Equal(t, rot.Schedule, stored.Schedule, "rejected edit must not be stored")

	edited, err := svc.EditInterval(1, id, 2, models.Lineup{"G", "F", "E", "D", "C"})
	require.NoError(t, err)
	stored, err = svc.Get(1, id)
	require.NoError(t, err)
	assert.Equal(t, edited.Schedule, stored.Schedule)
	for _, l := range stored.Schedule {
		assert.NoError(t, scheduler.ValidateEdit(l))
	}
}

func TestServiceConcurrentEdits(t *testing.T) {
	svc := NewService(testDB(t), defaults, nil, nil)
	id, _, err := svc.Create(1, input(6, "A", "B", "C", "D", "E", "F", "G"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 6)
	for n := 1; n <= 6; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.EditInterval(1, id, n, models.Lineup{"A", "B", "C", "D", "E"})
			errs <- err
		}(n)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	stored, err := svc.Get(1, id)
	require.NoError(t, err)
	assert.Len(t, stored.Schedule, 6)
	for _, l := range stored.Schedule {
		assert.NoError(t, scheduler.ValidateEdit(l))
	}
}
