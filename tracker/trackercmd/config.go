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

// Package trackercmd wires up configuration, the swarm registry, and the
// HTTP server into a runnable tracker process.
package trackercmd

import (
	"go.uber.org/zap"

	"github.com/hiveswarm/hive/metrics"
	"github.com/hiveswarm/hive/tracker/swarmstore"
	"github.com/hiveswarm/hive/tracker/trackerserver"
)

// Config defines tracker process configuration.
type Config struct {
	ZapLogging    zap.Config           `yaml:"zap"`
	SwarmStore    swarmstore.Config    `yaml:"swarmstore"`
	TrackerServer trackerserver.Config `yaml:"trackerserver"`
	Metrics       metrics.Config       `yaml:"metrics"`
	Addr          string               `yaml:"addr"`
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":9010"
	}
}
