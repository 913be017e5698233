// Package config loads the watcher's static configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dm/halla-watch/internal/client"
	"github.com/dm/halla-watch/internal/model"
	"github.com/dm/halla-watch/internal/notifier"
)

// EnvBaseURL overrides base_url when set.
const EnvBaseURL = "HALLA_BASE_URL"

var visitDatePattern = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// Config is the static configuration of a run. It never changes after Load.
type Config struct {
	BaseURL        string               `yaml:"base_url"`
	ReserveURL     string               `yaml:"reserve_url"`
	Interval       time.Duration        `yaml:"interval"`
	RequestTimeout time.Duration        `yaml:"request_timeout"`
	TimeSlot       string               `yaml:"time_slot"`
	AlertCooldown  time.Duration        `yaml:"alert_cooldown"`
	Courses        []model.Course       `yaml:"courses"`
	Dates          []model.WatchDate    `yaml:"dates"`
	Email          notifier.EmailConfig `yaml:"email"`
}

// DefaultConfig returns the built-in watch list: both summit trails on the
// last four days of December, first entry slot.
func DefaultConfig() Config {
	return Config{
		BaseURL:        client.DefaultBaseURL,
		Interval:       10 * time.Second,
		RequestTimeout: 5 * time.Second,
		TimeSlot:       model.DefaultTimeSlot,
		Courses: []model.Course{
			{Seq: "244", Name: "관음사"},
			{Seq: "242", Name: "성판악"},
		},
		Dates: []model.WatchDate{
			{Date: "2024.12.28", Label: "12월 28일"},
			{Date: "2024.12.29", Label: "12월 29일"},
			{Date: "2024.12.30", Label: "12월 30일"},
			{Date: "2024.12.31", Label: "12월 31일"},
		},
	}
}

// Load reads configuration from a YAML file. An empty path or a missing
// file yields the defaults. The environment override is applied last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(content, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = client.DefaultBaseURL
	}
	if c.ReserveURL == "" {
		c.ReserveURL = c.BaseURL
	}
	if c.Interval <= 0 {
		c.Interval = 10 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	if c.TimeSlot == "" {
		c.TimeSlot = model.DefaultTimeSlot
	}
	for i := range c.Courses {
		if c.Courses[i].Name == "" {
			c.Courses[i].Name = c.Courses[i].Seq
		}
	}
	for i := range c.Dates {
		if c.Dates[i].Label == "" {
			c.Dates[i].Label = c.Dates[i].Date
		}
	}
}

// Validate checks the watch list and notifier settings.
func (c Config) Validate() error {
	if len(c.Courses) == 0 {
		return errors.New("configuration must define at least one course")
	}
	if len(c.Dates) == 0 {
		return errors.New("configuration must define at least one date")
	}
	if c.AlertCooldown < 0 {
		return errors.New("alert_cooldown must not be negative")
	}

	seqs := make(map[string]bool, len(c.Courses))
	for i, course := range c.Courses {
		if course.Seq == "" {
			return fmt.Errorf("course %d is missing seq", i)
		}
		if seqs[course.Seq] {
			return fmt.Errorf("duplicate course seq %q", course.Seq)
		}
		seqs[course.Seq] = true
	}

	dates := make(map[string]bool, len(c.Dates))
	for _, d := range c.Dates {
		if !visitDatePattern.MatchString(d.Date) {
			return fmt.Errorf("date %q must use the YYYY.MM.DD format", d.Date)
		}
		if _, err := time.Parse("2006.01.02", d.Date); err != nil {
			return fmt.Errorf("date %q is not a calendar date", d.Date)
		}
		if dates[d.Date] {
			return fmt.Errorf("duplicate date %q", d.Date)
		}
		dates[d.Date] = true
	}

	return c.Email.Validate()
}
