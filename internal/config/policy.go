package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy holds the booking rules that shops tune without a redeploy.
type Policy struct {
	Timezone string `yaml:"timezone"`

	Availability struct {
		OpenAt                 string `yaml:"open_at"`
		CloseAt                string `yaml:"close_at"`
		SlotIntervalMinutes    int    `yaml:"slot_interval_minutes"`
		DefaultDurationMinutes int    `yaml:"default_duration_minutes"`
		EnforceSchedule        bool   `yaml:"enforce_schedule"`
	} `yaml:"availability"`

	Waitlist struct {
		ExpiryDays                int    `yaml:"expiry_days"`
		NotificationWindowMinutes int    `yaml:"notification_window_minutes"`
		CleanupCron               string `yaml:"cleanup_cron"`
	} `yaml:"waitlist"`

	Jobs struct {
		Workers     int `yaml:"workers"`
		MaxAttempts int `yaml:"max_attempts"`
		QueueSize   int `yaml:"queue_size"`
	} `yaml:"jobs"`

	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
		Burst     int `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// LoadPolicy reads a YAML policy file; an empty path yields the defaults.
func LoadPolicy(path string) (*Policy, error) {
	var p Policy

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		// ${ENV_VAR} placeholders are expanded before parsing.
		data = []byte(os.ExpandEnv(string(data)))

		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, err
		}
	}

	p.applyDefaults()
	return &p, nil
}

func (p *Policy) applyDefaults() {
	if p.Timezone == "" {
		p.Timezone = "America/Argentina/Buenos_Aires"
	}
	if p.Availability.OpenAt == "" {
		p.Availability.OpenAt = "10:00"
	}
	if p.Availability.CloseAt == "" {
		p.Availability.CloseAt = "20:00"
	}
	if p.Availability.SlotIntervalMinutes <= 0 {
		p.Availability.SlotIntervalMinutes = 30
	}
	if p.Availability.DefaultDurationMinutes <= 0 {
		p.Availability.DefaultDurationMinutes = 30
	}
	if p.Waitlist.ExpiryDays <= 0 {
		p.Waitlist.ExpiryDays = 7
	}
	if p.Waitlist.NotificationWindowMinutes <= 0 {
		p.Waitlist.NotificationWindowMinutes = 120
	}
	if p.Waitlist.CleanupCron == "" {
		p.Waitlist.CleanupCron = "@every 15m"
	}
	if p.Jobs.Workers <= 0 {
		p.Jobs.Workers = 2
	}
	if p.Jobs.MaxAttempts <= 0 {
		p.Jobs.MaxAttempts = 3
	}
	if p.Jobs.QueueSize <= 0 {
		p.Jobs.QueueSize = 100
	}
	if p.RateLimit.PerMinute <= 0 {
		p.RateLimit.PerMinute = 30
	}
	if p.RateLimit.Burst <= 0 {
		p.RateLimit.Burst = 10
	}
}

func (p *Policy) SlotInterval() time.Duration {
	return time.Duration(p.Availability.SlotIntervalMinutes) * time.Minute
}

func (p *Policy) NotificationWindow() time.Duration {
	return time.Duration(p.Waitlist.NotificationWindowMinutes) * time.Minute
}

// WaitlistExpiry returns the expiry window as calendar days.
func (p *Policy) WaitlistExpiry() int {
	return p.Waitlist.ExpiryDays
}
