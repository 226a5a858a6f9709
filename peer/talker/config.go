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
package talker

import "time"

// Config controls the talker's dial-sweep cadence and per-connection
// timeouts. Defaults match original_source's SimpleClient constants.
type Config struct {
	// ScanInterval is how often the talker re-scans the shared swarm
	// list for remotes without a live requester.
	ScanInterval time.Duration `yaml:"scan_interval"`

	// HavingInterval is how long a requester sleeps between HAVING
	// polls of a connected remote.
	HavingInterval time.Duration `yaml:"having_interval"`

	// DialTimeout bounds how long a requester waits to establish a
	// TCP connection to a remote before giving up.
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

func (c *Config) applyDefaults() {
	if c.ScanInterval == 0 {
		c.ScanInterval = 40 * time.Second
	}
	if c.HavingInterval == 0 {
		c.HavingInterval = 10 * time.Second
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}
}
