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

// Package peercmd wires up configuration and the announcer, listener,
// and talker components into a runnable peer process, plus the
// supporting torrent-creation and inspection subcommands.
package peercmd

import (
	"go.uber.org/zap"

	"github.com/hiveswarm/hive/metrics"
	"github.com/hiveswarm/hive/peer/talker"
)

// clientPrefix identifies this implementation in every PeerID this
// process generates.
const clientPrefix = "HIVE1"

// Config defines peer process configuration.
type Config struct {
	ZapLogging zap.Config     `yaml:"zap"`
	Metrics    metrics.Config `yaml:"metrics"`
	Talker     talker.Config  `yaml:"talker"`
}

func (c *Config) applyDefaults() {
	// talker.New applies its own defaults; nothing peer-process-wide to
	// default here yet.
}
