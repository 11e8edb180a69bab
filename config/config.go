// Package config holds the process-wide knobs the runtime needs
// before any mode starts: task-manager sampling cadence, the default
// connector queue capacity, and logging destination.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package config

import (
	"encoding/json"
	"os"
	"time"
)

// Config is loaded once at process start from a JSON file; every
// field has a usable zero-config default via Default().
type Config struct {
	Task struct {
		UpdateIntervalMS     int64 `json:"update_interval_ms"`
		StatisticsIntervalMS int64 `json:"statistics_interval_ms"`
		SendStatistics       bool  `json:"send_statistics"`
	} `json:"task"`

	Connector struct {
		DefaultCapacity int `json:"default_capacity"`
	} `json:"connector"`

	Log struct {
		Dir      string `json:"dir"`
		ToStderr bool   `json:"to_stderr"`
	} `json:"log"`
}

// Default returns the configuration the spec's components assume
// when no file is supplied: 100ms sampling, 1s statistics rollup,
// statistics export off, capacity-50 connectors (spec §4.1, §4.5).
func Default() *Config {
	c := &Config{}
	c.Task.UpdateIntervalMS = 100
	c.Task.StatisticsIntervalMS = 1000
	c.Task.SendStatistics = false
	c.Connector.DefaultCapacity = 50
	c.Log.ToStderr = true
	return c
}

// Load reads a JSON configuration file, starting from Default() so
// an omitted field keeps its default rather than zeroing out.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) TaskUpdateInterval() time.Duration {
	return time.Duration(c.Task.UpdateIntervalMS) * time.Millisecond
}

func (c *Config) TaskStatisticsInterval() time.Duration {
	return time.Duration(c.Task.StatisticsIntervalMS) * time.Millisecond
}
