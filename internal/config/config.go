// Package config resolves the CLI configuration from flags, environment
// variables, and an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL   string
	OwnerID     string
	Year        int
	Month       int
	LogLevel    string
	NoColor     bool
	Verbose     bool
	ShowVersion bool
}

// Parse resolves the configuration from args. Flags win over environment
// variables; a .env file in the working directory seeds the environment
// without overriding variables already set.
func Parse(args []string) (Config, error) {
	// Missing .env is the normal case
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "server", "", "Schedule server base URL")
	fs.StringVar(&cfg.OwnerID, "owner", "", "Schedule owner identifier")
	fs.IntVar(&cfg.Year, "year", 0, "Schedule year (defaults to the current month)")
	fs.IntVar(&cfg.Month, "month", 0, "Schedule month, 1-12 (defaults to the current month)")
	fs.StringVar(&cfg.LogLevel, "loglevel", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.NoColor, "nocolor", false, "Disable ANSI colors in output")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log every API request")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = os.Getenv("CALENDAR_SERVER_URL")
	}
	if cfg.ServerURL == "" {
		return Config{}, errors.New("server URL required (use -server or CALENDAR_SERVER_URL env)")
	}

	if cfg.OwnerID == "" {
		cfg.OwnerID = os.Getenv("CALENDAR_OWNER")
	}
	if cfg.OwnerID == "" {
		return Config{}, errors.New("owner identifier required (use -owner or CALENDAR_OWNER env)")
	}

	if cfg.Year == 0 {
		if yearStr := os.Getenv("CALENDAR_YEAR"); yearStr != "" {
			year, err := strconv.Atoi(yearStr)
			if err != nil {
				return Config{}, errors.New("invalid CALENDAR_YEAR env variable")
			}
			cfg.Year = year
		}
	}
	if cfg.Month == 0 {
		if monthStr := os.Getenv("CALENDAR_MONTH"); monthStr != "" {
			month, err := strconv.Atoi(monthStr)
			if err != nil {
				return Config{}, errors.New("invalid CALENDAR_MONTH env variable")
			}
			cfg.Month = month
		}
	}

	now := time.Now()
	if cfg.Year == 0 {
		cfg.Year = now.Year()
	}
	if cfg.Month == 0 {
		cfg.Month = int(now.Month())
	}
	if cfg.Month < 1 || cfg.Month > 12 {
		return Config{}, fmt.Errorf("month must be 1-12, got %d", cfg.Month)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("CALENDAR_LOG_LEVEL")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}
