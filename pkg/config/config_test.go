package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/dorfname/pkg/names"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "dorfname.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// chdirTemp moves into an empty directory so the fallback file and .env are absent.
func chdirTemp(t *testing.T) {
	t.Helper()
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(t.TempDir()))
}

const validYAML = `
data:
  words: "raw/objects/language_words.txt"
  symbols: "raw/objects/language_SYM.txt"
  translations:
    DWARF: "raw/objects/language_DWARF.txt"
    ELF: "raw/objects/language_ELF.txt"
  encoding: "cp437"

names:
  language: "ELF"
  preset: "gentle"
  max_attempts: 3
  seed: 77
  presets:
    gentle:
      favor: ["NATURE"]
      exclude: ["EVIL"]

roster:
  workers: 8
  batch_size: 20
  flush_interval: "250ms"

database:
  path: "names.db"

log:
  level: "debug"
  format: "json"
`

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "raw/objects/language_words.txt", cfg.Data.Words)
	assert.Equal(t, "raw/objects/language_SYM.txt", cfg.Data.Symbols)
	assert.Equal(t, map[string]string{
		"DWARF": "raw/objects/language_DWARF.txt",
		"ELF":   "raw/objects/language_ELF.txt",
	}, cfg.Data.Translations)
	assert.Equal(t, "cp437", cfg.Data.Encoding)

	assert.Equal(t, "ELF", cfg.Names.Language)
	assert.Equal(t, 3, cfg.Names.MaxAttempts)
	assert.Equal(t, uint64(77), cfg.Names.Seed)
	p, ok := cfg.Preset("gentle")
	require.True(t, ok)
	assert.Equal(t, []string{"NATURE"}, p.Favor)
	assert.Equal(t, []string{"EVIL"}, p.Exclude)

	assert.Equal(t, 8, cfg.Roster.Workers)
	assert.Equal(t, 20, cfg.Roster.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Roster.FlushInterval)
	assert.Equal(t, "names.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	src := cfg.Data.Sources()
	assert.Equal(t, cfg.Data.Words, src.Words)
	assert.Equal(t, "cp437", src.Encoding)
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("DORFNAME_WORKERS", "2")
	t.Setenv("DORFNAME_LOG_LEVEL", "warn")
	t.Setenv("DORFNAME_LANGUAGE", "DWARF")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Roster.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "DWARF", cfg.Names.Language)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ELF", cfg.Names.Language)
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	t.Setenv(PathEnv, "")
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/language_words.txt", cfg.Data.Words)
	assert.Equal(t, "data/language_SYM.txt", cfg.Data.Symbols)
	assert.Equal(t, map[string]string{"DWARF": "data/language_DWARF.txt"}, cfg.Data.Translations)
	assert.Equal(t, "utf-8", cfg.Data.Encoding)
	assert.Equal(t, "DWARF", cfg.Names.Language)
	assert.Equal(t, DefaultPreset, cfg.Names.Preset)
	assert.Equal(t, 10, cfg.Names.MaxAttempts)
	assert.Zero(t, cfg.Names.Seed)
	assert.Equal(t, 4, cfg.Roster.Workers)
	assert.Equal(t, 50, cfg.Roster.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Roster.FlushInterval)
	assert.Empty(t, cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	p, ok := cfg.Preset(DefaultPreset)
	require.True(t, ok)
	assert.Contains(t, p.Favor, "ARTIFICE")
	assert.Contains(t, p.Exclude, "NEGATOR")
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	_, err := Load("/nonexistent/dorfname.yaml")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "config: file"), err.Error())

	t.Setenv(PathEnv, "/nonexistent/from-env.yaml")
	_, err = Load("")
	assert.ErrorContains(t, err, "from-env.yaml")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown preset", "names:\n  preset: \"elvish\"\n", `names.preset "elvish" is not defined`},
		{"bad encoding", "data:\n  encoding: \"latin-9\"\n", `encoding "latin-9" is not supported`},
		{"negative workers", "roster:\n  workers: -1\n", "roster.workers must be > 0"},
		{"empty translation path", "data:\n  translations:\n    DWARF: \"\"\n", "translations.DWARF path must be set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeYAML(t, t.TempDir(), tt.yaml)
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestPreset_OverrideBuiltIn(t *testing.T) {
	cfg := &Config{}
	_, ok := cfg.Preset("nope")
	assert.False(t, ok)

	custom := names.Preset{Favor: []string{"EARTH"}}
	cfg.Names.Presets = map[string]names.Preset{DefaultPreset: custom}
	p, ok := cfg.Preset(DefaultPreset)
	require.True(t, ok)
	assert.Equal(t, custom, p)
}
