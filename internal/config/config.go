package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"bscard/internal/scorecard"
)

// Config is the complete application configuration. Values load from
// environment variables (BSCARD_ prefix) first, then a YAML file
// overlays whatever it sets.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Windows   WindowsConfig   `yaml:"windows" envconfig:"WINDOWS"`
	Scorecard ScorecardConfig `yaml:"scorecard" envconfig:"SCORECARD"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/bscard.log"`
}

// PathsConfig contains input and output file locations.
type PathsConfig struct {
	TransactionsFile string `yaml:"transactions_file" envconfig:"TRANSACTIONS_FILE" json:"transactions_file" validate:"required"`
	BalancesFile     string `yaml:"balances_file" envconfig:"BALANCES_FILE" json:"balances_file" validate:"required"`
	ReportsDir       string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
}

// WindowDates is one explicit window boundary pair, day/month/year.
type WindowDates struct {
	Start string `yaml:"start" json:"start" validate:"required"`
	End   string `yaml:"end" json:"end" validate:"required"`
}

// WindowsConfig defines the six scoring windows: either six explicit
// boundary pairs (M1 first) or an as-of date the windows tile backward
// from.
type WindowsConfig struct {
	// Dates holds explicit boundaries; when set it must hold exactly
	// six pairs and takes precedence over AsOf.
	Dates []WindowDates `yaml:"dates" json:"dates" validate:"omitempty,len=6,dive"`

	// AsOf tiles six windows of Length days ending Offset days before
	// this date.
	AsOf   string `yaml:"as_of" json:"as_of"`
	Offset int    `yaml:"offset" envconfig:"OFFSET" json:"offset" validate:"min=0"`
	Length int    `yaml:"length" envconfig:"LENGTH" default:"30" json:"length" validate:"min=1"`
}

// ScorecardConfig contains engine options.
type ScorecardConfig struct {
	// CrossAccountRunLengths enables the legacy run-length counters
	// that do not reset at account boundaries. Off by default; only
	// for parity runs against old reports.
	CrossAccountRunLengths bool `yaml:"cross_account_run_lengths" envconfig:"CROSS_ACCOUNT_RUN_LENGTHS" default:"false"`

	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"0" validate:"min=0"`

	Top3InflowPct  float64 `yaml:"top3_inflow_pct" envconfig:"TOP3_INFLOW_PCT" default:"30.0" validate:"min=0,max=100"`
	Top3OutflowPct float64 `yaml:"top3_outflow_pct" envconfig:"TOP3_OUTFLOW_PCT" default:"40.0" validate:"min=0,max=100"`
}

// Load loads configuration from environment variables and an optional
// YAML file.
func Load(configFile string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("BSCARD", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.Struct(c); err != nil {
		return err
	}
	if len(c.Windows.Dates) == 0 && c.Windows.AsOf == "" {
		return fmt.Errorf("windows: either dates or as_of is required")
	}
	return nil
}

// WindowSet resolves the configured boundaries into a validated
// scorecard window set.
func (c *Config) WindowSet() (scorecard.WindowSet, error) {
	if len(c.Windows.Dates) == scorecard.WindowCount {
		var pairs [scorecard.WindowCount]scorecard.DatePair
		for i, wd := range c.Windows.Dates {
			start, err := time.ParseInLocation(scorecard.DateLayout, wd.Start, time.UTC)
			if err != nil {
				return scorecard.WindowSet{}, fmt.Errorf("windows.dates[%d].start: %w", i, err)
			}
			end, err := time.ParseInLocation(scorecard.DateLayout, wd.End, time.UTC)
			if err != nil {
				return scorecard.WindowSet{}, fmt.Errorf("windows.dates[%d].end: %w", i, err)
			}
			pairs[i] = scorecard.DatePair{Start: start, End: end}
		}
		return scorecard.WindowsFromDates(pairs)
	}

	asOf, err := time.ParseInLocation(scorecard.DateLayout, c.Windows.AsOf, time.UTC)
	if err != nil {
		return scorecard.WindowSet{}, fmt.Errorf("windows.as_of: %w", err)
	}
	return scorecard.TileWindows(asOf, c.Windows.Offset, c.Windows.Length)
}

// Options maps the engine configuration onto calculator options.
func (c *Config) Options() scorecard.Options {
	return scorecard.Options{
		CrossAccountRunLengths: c.Scorecard.CrossAccountRunLengths,
		MaxConcurrency:         c.Scorecard.MaxConcurrency,
		Composer: scorecard.ComposerOptions{
			Top3InflowPct:  c.Scorecard.Top3InflowPct,
			Top3OutflowPct: c.Scorecard.Top3OutflowPct,
		},
	}
}
