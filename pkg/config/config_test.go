package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func withSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("API_MASTER_SECRET", "master")
}

func TestFromEnvDefaults(t *testing.T) {
	withSecrets(t)
	unsetenv(t, "PORT", "DATA_PATH", "ROTATION_ATTEMPTS", "REPAIR_ROUNDS", "MAX_GK_PER_PLAYER")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "rotator.db", cfg.DataPath)
	assert.Equal(t, 800, cfg.Rotation.Attempts)
	assert.Equal(t, 50, cfg.Rotation.RepairRounds)
	assert.Equal(t, 1, cfg.Rotation.MaxGKPerPlayer)
}

func TestFromEnvOverrides(t *testing.T) {
	withSecrets(t)
	unsetenv(t, "REPAIR_ROUNDS")
	t.Setenv("PORT", "9090")
	t.Setenv("ROTATION_ATTEMPTS", "50")
	t.Setenv("MAX_GK_PER_PLAYER", "2")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 50, cfg.Rotation.Attempts)
	assert.Equal(t, 2, cfg.Rotation.MaxGKPerPlayer)
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	withSecrets(t)
	unsetenv(t, "ROTATION_ATTEMPTS", "MAX_GK_PER_PLAYER")
	t.Setenv("REPAIR_ROUNDS", "0")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("REPAIR_ROUNDS", "abc")
	_, err = FromEnv()
	assert.Error(t, err)

	unsetenv(t, "REPAIR_ROUNDS")
	t.Setenv("ROTATION_ATTEMPTS", "1000000")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestFromEnvRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("API_MASTER_SECRET", "")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "jwt")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "API_MASTER_SECRET")

	unsetenv(t, "JWT_SECRET")
	t.Setenv("API_MASTER_SECRET", "master")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET")

	withSecrets(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "jwt", cfg.JWTSecret)
	assert.Equal(t, "master", cfg.APIMasterSecret)
}

func TestLoadRotationDefaultsNeedsNoSecrets(t *testing.T) {
	unsetenv(t, "JWT_SECRET", "API_MASTER_SECRET", "ROTATION_ATTEMPTS", "MAX_GK_PER_PLAYER")
	t.Setenv("REPAIR_ROUNDS", "7")
	r, err := LoadRotationDefaults()
	require.NoError(t, err)
	assert.Equal(t, 800, r.Attempts)
	assert.Equal(t, 7, r.RepairRounds)
	assert.Equal(t, 1, r.MaxGKPerPlayer)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadMatchYAML(t *testing.T) {
	p := writeFile(t, "match.yaml", `
players:
  - name: Ana
    preferred_positions: [Goalkeeper]
  - name: Ben
    preferred_positions: [Defender, Forward]
  - name: Cai
  - name: Dee
  - name: Eli
  - name: Fay
settings:
  parts: 2
  divisions: 3
  seed: 99
`)
	m, err := LoadMatch(p)
	require.NoError(t, err)
	require.Len(t, m.Players, 6)
	assert.Equal(t, []models.Category{models.CategoryGoalkeeper}, m.Players[0].PreferredPositions)
	assert.True(t, m.Players[1].Prefers(models.CategoryForward))
	assert.Equal(t, 6, m.Settings.Intervals())
	assert.True(t, m.Settings.IgnoreGK, "default kept")
	require.NotNil(t, m.Settings.Seed)
	assert.EqualValues(t, 99, *m.Settings.Seed)
}

func TestLoadMatchJSONWithEnvOverride(t *testing.T) {
	t.Setenv("ROTATOR_SETTINGS__IGNORE_GK", "false")
	p := writeFile(t, "match.json", `{"players":[{"name":"A"},{"name":"B"}],"settings":{"interval_count":5}}`)
	m, err := LoadMatch(p)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Settings.Intervals())
	assert.False(t, m.Settings.IgnoreGK)
}

func TestLoadMatchErrors(t *testing.T) {
	_, err := LoadMatch(writeFile(t, "match.toml", "x = 1"))
	assert.Error(t, err)

	_, err = LoadMatch(writeFile(t, "empty.yaml", "settings:\n  parts: 1\n"))
	assert.Error(t, err)
}
