package config

import (
	"fmt"
	"strings"

	"github.com/japaniel/dorfname/pkg/lang"
)

// Validate checks the loaded configuration. Load calls it automatically;
// callers that change fields afterwards (e.g. from flags) should call it again.
func (c *Config) Validate() error {
	if err := c.Data.validate(); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if strings.TrimSpace(c.Names.Language) == "" {
		return fmt.Errorf("names.language must be set")
	}
	if _, ok := c.Preset(c.Names.Preset); !ok {
		return fmt.Errorf("names.preset %q is not defined", c.Names.Preset)
	}
	if c.Names.MaxAttempts <= 0 {
		return fmt.Errorf("names.max_attempts must be > 0 (got %d)", c.Names.MaxAttempts)
	}
	if c.Roster.Workers <= 0 {
		return fmt.Errorf("roster.workers must be > 0 (got %d)", c.Roster.Workers)
	}
	if c.Roster.BatchSize <= 0 {
		return fmt.Errorf("roster.batch_size must be > 0 (got %d)", c.Roster.BatchSize)
	}
	if c.Roster.FlushInterval < 0 {
		return fmt.Errorf("roster.flush_interval must be >= 0 (got %v)", c.Roster.FlushInterval)
	}
	return nil
}

func (d *DataConfig) validate() error {
	if strings.TrimSpace(d.Words) == "" {
		return fmt.Errorf("words path must be set")
	}
	if strings.TrimSpace(d.Symbols) == "" {
		return fmt.Errorf("symbols path must be set")
	}
	for code, path := range d.Translations {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("translations.%s path must be set", code)
		}
	}
	switch strings.ToLower(d.Encoding) {
	case "", lang.EncodingUTF8, "utf8", lang.EncodingCP437, "ibm437":
	default:
		return fmt.Errorf("encoding %q is not supported", d.Encoding)
	}
	return nil
}

// Sources converts the data section for lang.Load.
func (d DataConfig) Sources() lang.Sources {
	return lang.Sources{
		Words:        d.Words,
		Symbols:      d.Symbols,
		Translations: d.Translations,
		Encoding:     d.Encoding,
	}
}
