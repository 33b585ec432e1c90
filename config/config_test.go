package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines(t *testing.T) {
	lines, err := parseLines(" 1, 2,3 ,6,7,8,")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 6, 7, 8}, lines)

	_, err = parseLines("1,2,x")
	assert.Error(t, err)

	_, err = parseLines("1,2,1")
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		Database:  Database{Driver: "sqlite", Path: "test.db"},
		Session:   Session{Store: "memory", Resume: true, TTL: time.Hour},
		Selection: Selection{Strategy: "new_first"},
		Schedule: Schedule{
			Lines:       []int{1, 2, 3, 6, 7, 8},
			Window:      5,
			DailyQuota:  5,
			NumericLine: 8,
			Location:    time.UTC,
		},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"store", func(c *Config) { c.Session.Store = "file" }},
		{"strategy", func(c *Config) { c.Selection.Strategy = "random" }},
		{"no lines", func(c *Config) { c.Schedule.Lines = nil }},
		{"window too wide", func(c *Config) { c.Schedule.Window = 7 }},
		{"zero window", func(c *Config) { c.Schedule.Window = 0 }},
		{"quota", func(c *Config) { c.Schedule.DailyQuota = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
