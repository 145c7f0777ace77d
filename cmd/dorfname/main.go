package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/dorfname/pkg/config"
	"github.com/japaniel/dorfname/pkg/db"
	"github.com/japaniel/dorfname/pkg/lang"
	"github.com/japaniel/dorfname/pkg/logger"
	"github.com/japaniel/dorfname/pkg/names"
	"github.com/japaniel/dorfname/pkg/roster"
)

const version = "0.1.0"

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

type options struct {
	configPath string
	count      int
	word       string
	format     string
	language   string
	preset     string
	seed       uint64
	dbPath     string
	snapshot   bool
	fromDB     bool
	history    int
	version    bool
	set        map[string]bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("dorfname", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{set: make(map[string]bool)}
	fs.StringVar(&opts.configPath, "config", "", "Path to YAML config (default $"+config.PathEnv+" or ./dorfname.yaml)")
	fs.IntVar(&opts.count, "count", 1, "Number of names to generate")
	fs.StringVar(&opts.word, "word", "", "Dump the dictionary record for a word instead of generating names")
	fs.StringVar(&opts.format, "format", formatText, "Output format: text, yaml or json")
	fs.StringVar(&opts.language, "lang", "", "Translation language for given names (overrides config)")
	fs.StringVar(&opts.preset, "preset", "", "Symbol preset (overrides config)")
	fs.Uint64Var(&opts.seed, "seed", 0, "Random seed; 0 picks one")
	fs.StringVar(&opts.dbPath, "db", "", "Path to SQLite database (overrides config)")
	fs.BoolVar(&opts.snapshot, "snapshot", false, "Save the loaded language to the database")
	fs.BoolVar(&opts.fromDB, "from-db", false, "Load the language from the database snapshot instead of the text files")
	fs.IntVar(&opts.history, "history", 0, "Print the N most recently generated names and exit")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	switch opts.format {
	case formatText, formatYAML, formatJSON:
	default:
		return nil, fmt.Errorf("unknown -format %q", opts.format)
	}
	if opts.count < 1 {
		return nil, fmt.Errorf("-count must be at least 1 (got %d)", opts.count)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "dorfname %s\n", version)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}
	log := logger.NewWriter(stderr, cfg.Log)

	if err := execute(ctx, cfg, opts, log, stdout); err != nil {
		log.Error("dorfname failed", slog.Any("error", err))
		return 1
	}
	return 0
}

func applyOverrides(cfg *config.Config, opts *options) {
	if opts.language != "" {
		cfg.Names.Language = strings.ToUpper(opts.language)
	}
	if opts.preset != "" {
		cfg.Names.Preset = opts.preset
	}
	if opts.seed != 0 {
		cfg.Names.Seed = opts.seed
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
}

func execute(ctx context.Context, cfg *config.Config, opts *options, log *slog.Logger, stdout io.Writer) error {
	needDB := opts.snapshot || opts.fromDB || opts.history > 0
	if needDB && cfg.Database.Path == "" {
		return fmt.Errorf("-snapshot, -from-db and -history need a database (-db or database.path)")
	}

	var conn *sql.DB
	if cfg.Database.Path != "" {
		c, err := db.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer c.Close()
		conn = c
	}

	if opts.history > 0 {
		return printHistory(conn, opts.history, opts.format, stdout)
	}

	language, err := loadLanguage(ctx, cfg, opts, conn, log)
	if err != nil {
		return err
	}

	if opts.snapshot {
		if err := db.SaveLanguage(ctx, conn, language); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintf(stdout, "Saved %d words and %d symbols to %s\n", language.Len(), language.Symbols().Len(), cfg.Database.Path)
		if !opts.set["count"] && opts.word == "" {
			return nil
		}
	}

	if opts.word != "" {
		return dumpWord(language, opts.word, opts.format, stdout)
	}

	return generate(ctx, cfg, language, conn, opts, log, stdout)
}

func loadLanguage(ctx context.Context, cfg *config.Config, opts *options, conn *sql.DB, log *slog.Logger) (*lang.Language, error) {
	if opts.fromDB {
		l, err := db.LoadLanguage(ctx, conn)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		if l.Len() == 0 {
			return nil, fmt.Errorf("database %s holds no language snapshot", cfg.Database.Path)
		}
		log.Info("language loaded from snapshot", slog.Int("words", l.Len()), slog.Int("symbols", l.Symbols().Len()))
		return l, nil
	}
	l, err := lang.Load(cfg.Data.Sources(), log)
	if err != nil {
		return nil, fmt.Errorf("load language: %w", err)
	}
	return l, nil
}

func dumpWord(l *lang.Language, query, format string, stdout io.Writer) error {
	w, ok := l.Lookup(query)
	if !ok {
		fmt.Fprintf(stdout, "The dwarves have no word for %s.\n", query)
		return nil
	}
	return encode(stdout, format, w)
}

func generate(ctx context.Context, cfg *config.Config, l *lang.Language, conn *sql.DB, opts *options, log *slog.Logger, stdout io.Writer) error {
	preset, _ := cfg.Preset(cfg.Names.Preset)
	gen := names.NewGenerator(l, preset, cfg.Names.Language)
	log.Debug("candidate pool built",
		slog.String("preset", cfg.Names.Preset),
		slog.Int("raw", len(gen.Pool().Raw)),
		slog.Int("candidates", gen.Pool().Len()))

	seed := cfg.Names.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	r := roster.NewRunner(gen, seed)
	r.DB = conn
	r.Workers = cfg.Roster.Workers
	r.BatchSize = cfg.Roster.BatchSize
	r.FlushInterval = cfg.Roster.FlushInterval
	r.MaxAttempts = cfg.Names.MaxAttempts
	r.Logger = log
	if opts.format == formatText {
		r.OnName = func(_ int, n *names.Name) {
			fmt.Fprintln(stdout, n.String())
		}
	}

	res, err := r.Run(ctx, opts.count)
	if err != nil {
		return err
	}
	log.Debug("names generated", slog.String("run_id", res.ID.String()), slog.Uint64("seed", seed))

	if opts.format == formatText {
		return nil
	}
	return encode(stdout, opts.format, res.Names)
}

func printHistory(conn *sql.DB, limit int, format string, stdout io.Writer) error {
	recs, err := db.RecentNames(conn, limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if format != formatText {
		return encode(stdout, format, recs)
	}
	for _, r := range recs {
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Language, r.Name)
	}
	return nil
}

// encode writes v as JSON, or as YAML for both the yaml and text formats.
func encode(w io.Writer, format string, v any) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
