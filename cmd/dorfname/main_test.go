package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points a config file at the lang fixtures and returns its path.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	fixtures, err := filepath.Abs(filepath.Join("..", "..", "pkg", "lang", "testdata"))
	require.NoError(t, err)
	content := fmt.Sprintf(`data:
  words: %q
  symbols: %q
  translations:
    DWARF: %q
log:
  level: "error"
%s`,
		filepath.Join(fixtures, "language_words.txt"),
		filepath.Join(fixtures, "language_SYM.txt"),
		filepath.Join(fixtures, "language_DWARF.txt"),
		extra)
	path := filepath.Join(t.TempDir(), "dorfname.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLI_GeneratesCountNames(t *testing.T) {
	cfg := writeConfig(t, "")

	code, out, errOut := runCLI(t, "-config", cfg, "-count", "5", "-seed", "11")
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	for _, l := range lines {
		parts := strings.Split(l, " ")
		require.Len(t, parts, 2, l)
		assert.Contains(t, []string{"Itnet", "Urist", "Nil"}, parts[0])
	}

	code, again, _ := runCLI(t, "-config", cfg, "-count", "5", "-seed", "11")
	require.Equal(t, 0, code)
	assert.Equal(t, out, again)
}

func TestCLI_DefaultIsOneName(t *testing.T) {
	code, out, errOut := runCLI(t, "-config", writeConfig(t, ""))
	require.Equal(t, 0, code, errOut)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
}

func TestCLI_JSONNames(t *testing.T) {
	code, out, errOut := runCLI(t, "-config", writeConfig(t, ""), "-count", "3", "-seed", "2", "-format", "json")
	require.Equal(t, 0, code, errOut)

	var got []struct {
		Given     string `json:"given"`
		Surname   string `json:"surname"`
		Language  string `json:"language"`
		GivenRoot string `json:"given_root"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	for _, n := range got {
		assert.Equal(t, "DWARF", n.Language)
		assert.Contains(t, []string{"ABBEY", "ACT", "CRAFT"}, n.GivenRoot)
		assert.NotEmpty(t, n.Surname)
	}
}

func TestCLI_WordDump(t *testing.T) {
	cfg := writeConfig(t, "")

	code, out, errOut := runCLI(t, "-config", cfg, "-word", "abbey")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "root: ABBEY")
	assert.Contains(t, out, "singular: abbey")
	assert.Contains(t, out, "FRONT_COMPOUND_NOUN_SING")
	assert.Contains(t, out, "DWARF: itnet")

	code, out, _ = runCLI(t, "-config", cfg, "-word", "blue", "-format", "json")
	require.Equal(t, 0, code)
	var w map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &w))
	assert.Equal(t, "BLUE", w["root"])
	assert.Contains(t, w, "prefix")

	code, out, _ = runCLI(t, "-config", cfg, "-word", "dragon")
	require.Equal(t, 0, code)
	assert.Equal(t, "The dwarves have no word for dragon.\n", out)
}

func TestCLI_SnapshotAndHistory(t *testing.T) {
	cfg := writeConfig(t, "")
	dbPath := filepath.Join(t.TempDir(), "dorfname.db")

	code, out, errOut := runCLI(t, "-config", cfg, "-db", dbPath, "-snapshot")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Saved 6 words and 5 symbols")

	code, fromFiles, errOut := runCLI(t, "-config", cfg, "-count", "4", "-seed", "8")
	require.Equal(t, 0, code, errOut)
	code, fromDB, errOut := runCLI(t, "-config", cfg, "-db", dbPath, "-from-db", "-count", "4", "-seed", "8")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, fromFiles, fromDB)

	code, hist, errOut := runCLI(t, "-config", cfg, "-db", dbPath, "-history", "10")
	require.Equal(t, 0, code, errOut)
	histLines := strings.Split(strings.TrimSpace(hist), "\n")
	require.Len(t, histLines, 4)
	generated := strings.Split(strings.TrimSpace(fromDB), "\n")
	// History is newest first.
	assert.True(t, strings.HasSuffix(histLines[0], "\t"+generated[3]), histLines[0])
	assert.True(t, strings.HasSuffix(histLines[3], "\t"+generated[0]), histLines[3])
}

func TestCLI_Version(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "dorfname "+version+"\n", out)
}

func TestCLI_Errors(t *testing.T) {
	cfg := writeConfig(t, "")

	code, _, errOut := runCLI(t, "-config", cfg, "-format", "xml")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown -format")

	code, _, _ = runCLI(t, "-config", cfg, "-count", "0")
	assert.Equal(t, 2, code)

	code, _, errOut = runCLI(t, "-config", cfg, "-history", "3")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "need a database")

	code, _, errOut = runCLI(t, "-config", cfg, "-preset", "elvish")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "elvish")

	code, _, errOut = runCLI(t, "-config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Failed to load config")

	code, _, errOut = runCLI(t, "-config", cfg, "-lang", "elf", "-count", "2")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no translation")
}
