//-------------------------------------------------------------------------
//
// mfgetl - Manufacturing Analytics Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for mfgetl.
// Configuration is loaded from config files, MFGETL_-prefixed environment
// variables, and CLI flags. Flags take precedence over the environment,
// which takes precedence over the config file.
//
// Database credentials are never defaulted: either a full connection string
// or user/password/database must be supplied explicitly.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for mfgetl.
type Config struct {
	// Connection is a full PostgreSQL connection string. When set it
	// takes precedence over the discrete DB settings.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// DB holds discrete connection settings used when Connection is empty.
	DB DBConfig `mapstructure:"db"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Run holds configuration for the run subcommand.
	Run RunConfig `mapstructure:"run"`
}

// DBConfig holds discrete PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// InitConfig holds configuration for warehouse initialization.
type InitConfig struct {
	// StartDate is the first day of the date spine (YYYY-MM-DD).
	// Defaults to one year before EndDate.
	StartDate string `mapstructure:"start_date"`

	// EndDate is the last day of the date spine (YYYY-MM-DD).
	// Defaults to today.
	EndDate string `mapstructure:"end_date"`

	// DropExisting drops the existing schema before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// RunConfig holds configuration for a pipeline run.
type RunConfig struct {
	// Days is the size of the historical window to generate, counted
	// back from the newest date dimension row.
	Days int `mapstructure:"days"`

	// MinRecordsPerDay and MaxRecordsPerDay bound the uniform draw of
	// production records per day.
	MinRecordsPerDay int `mapstructure:"min_records_per_day"`
	MaxRecordsPerDay int `mapstructure:"max_records_per_day"`

	// BatchSize is the number of rows per copy chunk during loading.
	BatchSize int `mapstructure:"batch_size"`

	// Seed seeds the random source for reproducible runs. Zero means
	// derive a seed from the clock.
	Seed int64 `mapstructure:"seed"`
}

// DateLayout is the wire format for date configuration values.
const DateLayout = "2006-01-02"

// DefaultConfig returns a Config with default values. Credentials have no
// defaults on purpose.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		DB: DBConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "prefer",
		},
		Init: InitConfig{},
		Run: RunConfig{
			Days:             90,
			MinRecordsPerDay: 5,
			MaxRecordsPerDay: 20,
			BatchSize:        500,
		},
	}
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./mfgetl.yaml
// 3. ~/.config/mfgetl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("mfgetl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "mfgetl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetEnvPrefix("MFGETL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Nested keys must be known to viper for AutomaticEnv to see them.
	for _, key := range []string{
		"connection", "log_level",
		"db.host", "db.port", "db.user", "db.password", "db.database", "db.sslmode",
		"init.start_date", "init.end_date", "init.drop_existing",
		"run.days", "run.min_records_per_day", "run.max_records_per_day",
		"run.batch_size", "run.seed",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment: %w", err)
		}
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string, composing one from the
// discrete DB settings when no full connection string was supplied.
func (c *Config) DSN() string {
	if c.Connection != "" {
		return c.Connection
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:   "/" + c.DB.Database,
	}
	if c.DB.User != "" {
		if c.DB.Password != "" {
			u.User = url.UserPassword(c.DB.User, c.DB.Password)
		} else {
			u.User = url.User(c.DB.User)
		}
	}
	if c.DB.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", c.DB.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection != "" {
		return nil
	}
	if c.DB.User == "" || c.DB.Password == "" || c.DB.Database == "" {
		return fmt.Errorf("database credentials are required: set connection, " +
			"or db.user, db.password and db.database (MFGETL_DB_USER, " +
			"MFGETL_DB_PASSWORD, MFGETL_DB_DATABASE)")
	}
	if c.DB.Host == "" {
		return fmt.Errorf("db.host is required")
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		return fmt.Errorf("db.port must be in [1, 65535]")
	}
	return nil
}

// ValidateInit checks configuration required for the init command.
func (c *Config) ValidateInit() error {
	if err := c.Validate(); err != nil {
		return err
	}
	start, end, err := c.Init.DateRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("init.end_date must not be before init.start_date")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Run.Days < 1 {
		return fmt.Errorf("run.days must be at least 1")
	}
	if c.Run.MinRecordsPerDay < 1 {
		return fmt.Errorf("run.min_records_per_day must be at least 1")
	}
	if c.Run.MaxRecordsPerDay < c.Run.MinRecordsPerDay {
		return fmt.Errorf("run.max_records_per_day must be >= run.min_records_per_day")
	}
	if c.Run.BatchSize < 1 {
		return fmt.Errorf("run.batch_size must be at least 1")
	}
	return nil
}

// DateRange resolves the configured date spine bounds, applying defaults:
// EndDate defaults to today, StartDate to one year before EndDate.
func (ic InitConfig) DateRange() (time.Time, time.Time, error) {
	end := time.Now().Truncate(24 * time.Hour)
	if ic.EndDate != "" {
		parsed, err := time.Parse(DateLayout, ic.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid init.end_date %q: %w", ic.EndDate, err)
		}
		end = parsed
	}

	start := end.AddDate(-1, 0, 0)
	if ic.StartDate != "" {
		parsed, err := time.Parse(DateLayout, ic.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid init.start_date %q: %w", ic.StartDate, err)
		}
		start = parsed
	}

	return start, end, nil
}
