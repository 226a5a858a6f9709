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

import (
	"sync"
	"time"

	"github.com/andres-erbsen/clock"

	"github.com/hiveswarm/hive/tracker/swarmstore"
	"github.com/hiveswarm/hive/utils/log"
)

// Cleaner periodically evicts swarm members that have gone quiet: it
// wakes every CheckingTime and evicts anyone whose last announce is
// older than Threshold.
type Cleaner struct {
	registry  swarmstore.SwarmRegistry
	clk       clock.Clock
	threshold time.Duration
	ticker    *clock.Ticker
	stopOnce  sync.Once
	stop      chan struct{}
}

// NewCleaner starts a Cleaner that sweeps registry on config's interval.
func NewCleaner(config Config, registry swarmstore.SwarmRegistry, clk clock.Clock) *Cleaner {
	config.applyDefaults()
	c := &Cleaner{
		registry:  registry,
		clk:       clk,
		threshold: config.Threshold,
		ticker:    clk.Ticker(config.CheckingTime),
		stop:      make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Cleaner) run() {
	for {
		select {
		case <-c.ticker.C:
			now := c.clk.Now().Unix()
			if err := c.registry.Evict(int64(c.threshold.Seconds()), now); err != nil {
				log.Errorf("tracker: evict sweep: %s", err)
			}
		case <-c.stop:
			return
		}
	}
}

// Stop halts the cleaner's background sweep.
func (c *Cleaner) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
		c.ticker.Stop()
	})
}
