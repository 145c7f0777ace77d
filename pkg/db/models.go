package db

import "time"

// NameRecord is one row of generated-name history.
type NameRecord struct {
	ID           int64
	RunID        string
	Seq          int
	Name         string
	Language     string
	GivenRoot    string
	SurnameRoots [2]string
	CreatedAt    time.Time
}

// formRow is a single stored field of a grammatical slot.
type formRow struct {
	FormType string
	Position int
	Form     string
}

// usageRow is a single stored usage tag of a grammatical slot.
type usageRow struct {
	FormType string
	Position int
	Usage    string
}
