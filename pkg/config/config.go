// Package config loads dorfname settings from YAML, the environment and a
// local .env file.
package config

import (
	"time"

	"github.com/japaniel/dorfname/pkg/names"
)

// DefaultPreset is the name of the built-in preset.
const DefaultPreset = "dwarf"

// Config is the root application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Names    NamesConfig    `yaml:"names"`
	Roster   RosterConfig   `yaml:"roster"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// DataConfig locates the raw language files.
type DataConfig struct {
	Words   string `yaml:"words"   env:"DORFNAME_WORDS"   env-default:"data/language_words.txt"`
	Symbols string `yaml:"symbols" env:"DORFNAME_SYMBOLS" env-default:"data/language_SYM.txt"`
	// Translations maps a language code to its T_WORD table.
	Translations map[string]string `yaml:"translations" env:"DORFNAME_TRANSLATIONS" env-default:"DWARF:data/language_DWARF.txt"`
	Encoding     string            `yaml:"encoding"     env:"DORFNAME_ENCODING"     env-default:"utf-8"`
}

// NamesConfig selects what the generator draws from.
type NamesConfig struct {
	Language string                  `yaml:"language" env:"DORFNAME_LANGUAGE" env-default:"DWARF"`
	Preset   string                  `yaml:"preset"   env:"DORFNAME_PRESET"   env-default:"dwarf"`
	Presets  map[string]names.Preset `yaml:"presets"`
	// MaxAttempts bounds redraws for a single name.
	MaxAttempts int `yaml:"max_attempts" env:"DORFNAME_MAX_ATTEMPTS" env-default:"10"`
	// Seed 0 means a random seed per run.
	Seed uint64 `yaml:"seed" env:"DORFNAME_SEED"`
}

// RosterConfig holds batch generation settings.
type RosterConfig struct {
	Workers       int           `yaml:"workers"        env:"DORFNAME_WORKERS"        env-default:"4"`
	BatchSize     int           `yaml:"batch_size"     env:"DORFNAME_BATCH_SIZE"     env-default:"50"`
	FlushInterval time.Duration `yaml:"flush_interval" env:"DORFNAME_FLUSH_INTERVAL" env-default:"100ms"`
}

// DatabaseConfig holds the sqlite location. An empty path disables storage.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DORFNAME_DB"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"DORFNAME_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"DORFNAME_LOG_FORMAT" env-default:"text"`
}

// Preset returns the named preset. The built-in dwarf preset is used unless
// the configuration defines one with the same name.
func (c *Config) Preset(name string) (names.Preset, bool) {
	if p, ok := c.Names.Presets[name]; ok {
		return p, true
	}
	if name == DefaultPreset {
		return names.DwarfPreset(), true
	}
	return names.Preset{}, false
}
