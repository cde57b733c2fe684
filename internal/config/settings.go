package config

import (
	"fmt"
	"log/slog"

	"github.com/zephyrtronium/exprfmt"
)

// Formatting conventions accepted for the "style" key.
const (
	StyleMinimal  = "minimal"
	StyleExplicit = "explicit"
)

// Settings is the typed form of an exprfmt configuration file:
//
//	style: explicit    # or minimal
//	compact: true
//	max_depth: 64
//	log_level: debug   # debug, info, warn, or error
//	no_empty_calls: true
//	check: false
//	telemetry: true
type Settings struct {
	Style        string
	Compact      bool
	MaxDepth     int
	NoEmptyCalls bool
	LogLevel     string
	Check        bool
	Telemetry    bool
}

// Defaults returns the settings used when no file is given.
func Defaults() Settings {
	return Settings{
		Style:    StyleMinimal,
		MaxDepth: exprfmt.DefaultMaxDepth,
		LogLevel: "warn",
	}
}

// Load projects c onto the defaults and validates the result.
func Load(c Config) (Settings, error) {
	d := Defaults()
	s := Settings{
		Style:        c.String("style", d.Style),
		Compact:      c.Bool("compact", d.Compact),
		MaxDepth:     c.Int("max_depth", d.MaxDepth),
		NoEmptyCalls: c.Bool("no_empty_calls", d.NoEmptyCalls),
		LogLevel:     c.String("log_level", d.LogLevel),
		Check:        c.Bool("check", d.Check),
		Telemetry:    c.Bool("telemetry", d.Telemetry),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports the first invalid setting.
func (s Settings) Validate() error {
	switch s.Style {
	case StyleMinimal, StyleExplicit:
	default:
		return fmt.Errorf("invalid style %q (want %q or %q)", s.Style, StyleMinimal, StyleExplicit)
	}
	if s.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", s.MaxDepth)
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (s Settings) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s.LogLevel, err)
	}
	return l, nil
}

// ParseOptions converts the settings into parse options.
func (s Settings) ParseOptions() []exprfmt.ParseOption {
	opts := []exprfmt.ParseOption{exprfmt.MaxDepth(s.MaxDepth)}
	if s.NoEmptyCalls {
		opts = append(opts, exprfmt.NoEmptyCalls())
	}
	return opts
}

// FormatOptions converts the settings into format options.
func (s Settings) FormatOptions() []exprfmt.FormatOption {
	var opts []exprfmt.FormatOption
	if s.Style == StyleExplicit {
		opts = append(opts, exprfmt.Explicit())
	}
	if s.Compact {
		opts = append(opts, exprfmt.Compact())
	}
	return opts
}

// Options combines ParseOptions and FormatOptions for exprfmt.Reformat.
func (s Settings) Options() []exprfmt.Option {
	var opts []exprfmt.Option
	for _, o := range s.ParseOptions() {
		opts = append(opts, o)
	}
	for _, o := range s.FormatOptions() {
		opts = append(opts, o)
	}
	return opts
}
