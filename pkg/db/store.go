package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/japaniel/dorfname/pkg/lang"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

var snapshotTables = []string{"symbol_words", "symbols", "translations", "word_symbols", "word_usages", "word_forms", "words"}

// SaveLanguage replaces the stored snapshot with l in a single transaction.
func SaveLanguage(ctx context.Context, conn *sql.DB, l *lang.Language) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, table := range snapshotTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, root := range l.Roots() {
		w, _ := l.Word(root)
		if err := insertWord(tx, w); err != nil {
			return err
		}
	}

	pos := 0
	for name, roots := range l.Symbols().All() {
		if err := insertSymbol(tx, name, pos, roots); err != nil {
			return err
		}
		pos++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func insertWord(db DBExecutor, w *lang.Word) error {
	res, err := db.Exec(`INSERT INTO words (root) VALUES (?)`, w.Root)
	if err != nil {
		return fmt.Errorf("insert word %s: %w", w.Root, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, f := range wordForms(w) {
		if _, err := db.Exec(`INSERT INTO word_forms (word_id, form_type, position, form) VALUES (?, ?, ?, ?)`,
			id, f.FormType, f.Position, f.Form); err != nil {
			return fmt.Errorf("insert %s form of %s: %w", f.FormType, w.Root, err)
		}
	}
	for _, u := range wordUsages(w) {
		if _, err := db.Exec(`INSERT INTO word_usages (word_id, form_type, position, usage) VALUES (?, ?, ?, ?)`,
			id, u.FormType, u.Position, u.Usage); err != nil {
			return fmt.Errorf("insert usage of %s: %w", w.Root, err)
		}
	}
	for i, sym := range w.Symbols {
		if _, err := db.Exec(`INSERT INTO word_symbols (word_id, position, symbol) VALUES (?, ?, ?)`, id, i, sym); err != nil {
			return fmt.Errorf("insert symbol of %s: %w", w.Root, err)
		}
	}
	for language, text := range w.Translations {
		if _, err := db.Exec(`INSERT INTO translations (word_id, language, text) VALUES (?, ?, ?)`, id, language, text); err != nil {
			return fmt.Errorf("insert %s translation of %s: %w", language, w.Root, err)
		}
	}
	return nil
}

func insertSymbol(db DBExecutor, name string, position int, roots []string) error {
	res, err := db.Exec(`INSERT INTO symbols (name, position) VALUES (?, ?)`, name, position)
	if err != nil {
		return fmt.Errorf("insert symbol %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i, root := range roots {
		if _, err := db.Exec(`INSERT INTO symbol_words (symbol_id, position, root) VALUES (?, ?, ?)`, id, i, root); err != nil {
			return fmt.Errorf("insert root %s of %s: %w", root, name, err)
		}
	}
	return nil
}

func wordForms(w *lang.Word) []formRow {
	var out []formRow
	add := func(kind string, fields ...string) {
		for i, f := range fields {
			out = append(out, formRow{FormType: kind, Position: i, Form: f})
		}
	}
	if n := w.Noun; n != nil {
		add(lang.FormNoun, n.Singular, n.Plural)
	}
	if v := w.Verb; v != nil {
		add(lang.FormVerb, v.Infinitive, v.ThirdPersonSing, v.PastTense, v.PastParticiple, v.PresentParticiple)
	}
	if a := w.Adjective; a != nil {
		add(lang.FormAdj, a.Form)
	}
	if p := w.Prefix; p != nil {
		add(lang.FormPrefix, p.Form)
	}
	return out
}

func wordUsages(w *lang.Word) []usageRow {
	var out []usageRow
	add := func(kind string, usages []lang.Usage) {
		for i, u := range usages {
			out = append(out, usageRow{FormType: kind, Position: i, Usage: u.String()})
		}
	}
	if w.Noun != nil {
		add(lang.FormNoun, w.Noun.Usages)
	}
	if w.Verb != nil {
		add(lang.FormVerb, w.Verb.Usages)
	}
	if w.Adjective != nil {
		add(lang.FormAdj, w.Adjective.Usages)
	}
	if w.Prefix != nil {
		add(lang.FormPrefix, w.Prefix.Usages)
	}
	return out
}

// LoadLanguage rebuilds the stored snapshot. It returns an empty language if
// nothing was saved.
func LoadLanguage(ctx context.Context, conn *sql.DB) (*lang.Language, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin load tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	byID, err := loadWords(tx)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	if err := loadForms(tx, byID); err != nil {
		return nil, fmt.Errorf("load forms: %w", err)
	}
	if err := loadUsages(tx, byID); err != nil {
		return nil, fmt.Errorf("load usages: %w", err)
	}
	if err := loadWordSymbols(tx, byID); err != nil {
		return nil, fmt.Errorf("load word symbols: %w", err)
	}
	if err := loadTranslations(tx, byID); err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	index, err := loadSymbols(tx)
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}

	words := make(map[string]*lang.Word, len(byID))
	for _, w := range byID {
		words[w.Root] = w
	}
	return lang.New(words, index), nil
}

func loadWords(db DBExecutor) (map[int64]*lang.Word, error) {
	rows, err := db.Query(`SELECT id, root FROM words`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]*lang.Word)
	for rows.Next() {
		var id int64
		var root string
		if err := rows.Scan(&id, &root); err != nil {
			return nil, err
		}
		out[id] = lang.NewWord(root)
	}
	return out, rows.Err()
}

func loadForms(db DBExecutor, byID map[int64]*lang.Word) error {
	rows, err := db.Query(`SELECT word_id, form_type, position, form FROM word_forms ORDER BY word_id, form_type, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	fields := make(map[int64]map[string][]string)
	for rows.Next() {
		var id int64
		var r formRow
		if err := rows.Scan(&id, &r.FormType, &r.Position, &r.Form); err != nil {
			return err
		}
		if fields[id] == nil {
			fields[id] = make(map[string][]string)
		}
		fields[id][r.FormType] = append(fields[id][r.FormType], r.Form)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for id, kinds := range fields {
		w, ok := byID[id]
		if !ok {
			continue
		}
		for kind, f := range kinds {
			if err := setSlot(w, kind, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func setSlot(w *lang.Word, kind string, f []string) error {
	short := func(n int) error {
		if len(f) < n {
			return fmt.Errorf("%s of %s has %d fields, want %d", kind, w.Root, len(f), n)
		}
		return nil
	}
	switch kind {
	case lang.FormNoun:
		if err := short(2); err != nil {
			return err
		}
		w.Noun = &lang.Noun{Singular: f[0], Plural: f[1]}
	case lang.FormVerb:
		if err := short(5); err != nil {
			return err
		}
		w.Verb = &lang.Verb{Infinitive: f[0], ThirdPersonSing: f[1], PastTense: f[2], PastParticiple: f[3], PresentParticiple: f[4]}
	case lang.FormAdj:
		if err := short(1); err != nil {
			return err
		}
		w.Adjective = &lang.Adjective{Form: f[0]}
	case lang.FormPrefix:
		if err := short(1); err != nil {
			return err
		}
		w.Prefix = &lang.Prefix{Form: f[0]}
	default:
		return fmt.Errorf("unknown form type %q for %s", kind, w.Root)
	}
	return nil
}

func loadUsages(db DBExecutor, byID map[int64]*lang.Word) error {
	rows, err := db.Query(`SELECT word_id, form_type, position, usage FROM word_usages ORDER BY word_id, form_type, position`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var r usageRow
		if err := rows.Scan(&id, &r.FormType, &r.Position, &r.Usage); err != nil {
			return err
		}
		w, ok := byID[id]
		if !ok {
			continue
		}
		u, ok := lang.ParseUsageName(r.Usage)
		if !ok {
			return fmt.Errorf("unknown usage %q for %s", r.Usage, w.Root)
		}
		switch r.FormType {
		case lang.FormNoun:
			if w.Noun != nil {
				w.Noun.Usages = append(w.Noun.Usages, u)
			}
		case lang.FormVerb:
			if w.Verb != nil {
				w.Verb.Usages = append(w.Verb.Usages, u)
			}
		case lang.FormAdj:
			if w.Adjective != nil {
				w.Adjective.Usages = append(w.Adjective.Usages, u)
			}
		case lang.FormPrefix:
			if w.Prefix != nil {
				w.Prefix.Usages = append(w.Prefix.Usages, u)
			}
		}
	}
	return rows.Err()
}

func loadWordSymbols(db DBExecutor, byID map[int64]*lang.Word) error {
	rows, err := db.Query(`SELECT word_id, symbol FROM word_symbols ORDER BY word_id, position`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var sym string
		if err := rows.Scan(&id, &sym); err != nil {
			return err
		}
		if w, ok := byID[id]; ok {
			w.Symbols = append(w.Symbols, sym)
		}
	}
	return rows.Err()
}

func loadTranslations(db DBExecutor, byID map[int64]*lang.Word) error {
	rows, err := db.Query(`SELECT word_id, language, text FROM translations`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var language, text string
		if err := rows.Scan(&id, &language, &text); err != nil {
			return err
		}
		if w, ok := byID[id]; ok {
			w.Translations[language] = text
		}
	}
	return rows.Err()
}

func loadSymbols(db DBExecutor) (*lang.SymbolIndex, error) {
	rows, err := db.Query(`SELECT s.name, sw.root
		FROM symbols s
		LEFT JOIN symbol_words sw ON sw.symbol_id = s.id
		ORDER BY s.position, sw.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := lang.NewSymbolIndex()
	var current string
	var roots []string
	started := false
	flush := func() {
		if started {
			index.Set(current, roots)
		}
	}
	for rows.Next() {
		var name string
		var root sql.NullString
		if err := rows.Scan(&name, &root); err != nil {
			return nil, err
		}
		if !started || name != current {
			flush()
			current, roots, started = name, []string{}, true
		}
		if root.Valid {
			roots = append(roots, root.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	flush()
	return index, nil
}

// RecordName appends one generated name to the history and returns its id.
func RecordName(db DBExecutor, rec NameRecord) (int64, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return 0, fmt.Errorf("name must be non-empty")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	var id int64
	err := db.QueryRow(`INSERT INTO generated_names (run_id, seq, name, language, given_root, surname_roots, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		rec.RunID, rec.Seq, rec.Name, rec.Language, rec.GivenRoot,
		strings.Join(rec.SurnameRoots[:], " "), rec.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("record name: %w", err)
	}
	return id, nil
}

// RecentNames returns up to limit names, newest first.
func RecentNames(db DBExecutor, limit int) ([]NameRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	return queryNames(db, `SELECT id, run_id, seq, name, language, given_root, surname_roots, created_at
		FROM generated_names ORDER BY id DESC LIMIT ?`, limit)
}

// NamesByRun returns the names of one run in generation order.
func NamesByRun(db DBExecutor, runID string) ([]NameRecord, error) {
	return queryNames(db, `SELECT id, run_id, seq, name, language, given_root, surname_roots, created_at
		FROM generated_names WHERE run_id = ? ORDER BY seq`, runID)
}

func queryNames(db DBExecutor, query string, args ...interface{}) ([]NameRecord, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []NameRecord
	for rows.Next() {
		var r NameRecord
		var surname string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Seq, &r.Name, &r.Language, &r.GivenRoot, &surname, &r.CreatedAt); err != nil {
			return nil, err
		}
		first, second, _ := strings.Cut(surname, " ")
		r.SurnameRoots = [2]string{first, second}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
