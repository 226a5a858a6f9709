// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package trackerserver

import "time"

// Config defines trackerserver configuration. Defaults match the
// original tracker's constants: a 60s announce interval, a 10s cleaner
// sweep, and a 90s staleness threshold.
type Config struct {
	// AnnounceIntervalSec is the interval, in seconds, a peer is told to
	// wait before re-announcing.
	AnnounceIntervalSec int `yaml:"announce_interval_sec"`

	// CheckingTime is how often the cleaner sweeps for stale peers.
	CheckingTime time.Duration `yaml:"checking_time"`

	// Threshold is how long a peer may go without announcing before the
	// cleaner evicts it.
	Threshold time.Duration `yaml:"threshold"`
}

func (c *Config) applyDefaults() {
	if c.AnnounceIntervalSec == 0 {
		c.AnnounceIntervalSec = 60
	}
	if c.CheckingTime == 0 {
		c.CheckingTime = 10 * time.Second
	}
	if c.Threshold == 0 {
		c.Threshold = 90 * time.Second
	}
}
