package main_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func TestCLI_Binary(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	tmp := t.TempDir()

	fixtures, err := filepath.Abs(filepath.Join("..", "..", "pkg", "lang", "testdata"))
	if err != nil {
		t.Fatalf("fixture path: %v", err)
	}
	dbPath := filepath.Join(tmp, "dorfname.db")
	cfg := fmt.Sprintf("data:\n  words: %q\n  symbols: %q\n  translations:\n    DWARF: %q\ndatabase:\n  path: %q\nlog:\n  level: \"error\"\n",
		filepath.Join(fixtures, "language_words.txt"),
		filepath.Join(fixtures, "language_SYM.txt"),
		filepath.Join(fixtures, "language_DWARF.txt"),
		dbPath)
	// The binary runs with working dir = tmp, so the default config file is picked up.
	if err := os.WriteFile(filepath.Join(tmp, "dorfname.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	bin := filepath.Join(tmp, "dorfname.bin")
	build := exec.Command("go", "build", "-o", bin, "github.com/japaniel/dorfname/cmd/dorfname")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("failed to build CLI: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, "-count", "7")
	cmd.Dir = tmp
	cmd.Env = append(os.Environ(), "DORFNAME_CONFIG=")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		t.Fatalf("cli timed out, output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("cli failed: %v\noutput:\n%s", err, out)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 names, got %d:\n%s", len(lines), out)
	}

	dbConn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer dbConn.Close()

	var cnt int
	if err := dbConn.QueryRow("SELECT COUNT(*) FROM generated_names").Scan(&cnt); err != nil {
		t.Fatalf("db query failed: %v", err)
	}
	if cnt != 7 {
		t.Fatalf("expected 7 recorded names, got %d", cnt)
	}
}
