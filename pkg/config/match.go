package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

// Match is a roster plus settings read from a file.
type Match struct {
	Players  []models.Player `json:"players"`
	Settings models.Settings `json:"settings"`
}

// DefaultSettings is the usual match format: four parts of two intervals,
// goalkeeper time not counted.
func DefaultSettings() models.Settings {
	return models.Settings{
		Parts:          4,
		Divisions:      2,
		IgnoreGK:       true,
		MaxGKPerPlayer: 1,
	}
}

// LoadMatch reads a YAML or JSON match file. ROTATOR_SETTINGS__* environment
// variables override the settings block, e.g. ROTATOR_SETTINGS__IGNORE_GK=false.
func LoadMatch(path string) (*Match, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported match file format: %s", filepath.Ext(path))
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load match file: %w", err)
	}
	if err := k.Load(env.Provider("ROTATOR_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rotator_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	m := Match{Settings: DefaultSettings()}
	if err := k.UnmarshalWithConf("", &m, koanf.UnmarshalConf{Tag: "json", FlatPaths: false}); err != nil {
		return nil, fmt.Errorf("decode match file: %w", err)
	}
	if len(m.Players) == 0 {
		return nil, fmt.Errorf("match file %s lists no players", path)
	}
	return &m, nil
}
