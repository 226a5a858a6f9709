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

// Package swarmstore holds the tracker's view of swarm membership: which
// peers are announcing for which info hashes, and for how long they stay
// registered after their last announce.
package swarmstore

import (
	"fmt"

	"github.com/andres-erbsen/clock"

	"github.com/hiveswarm/hive/core"
)

// TrackedPeer is a swarm member as the tracker knows it: the peer's last
// announced fields, plus the time of that announce for eviction purposes.
type TrackedPeer struct {
	Peer             core.PeerInfo
	LastAnnounceTime int64 // Unix seconds.
}

// SwarmRegistry tracks swarm membership across all info hashes. A single
// registry serves every swarm, trading lock contention for a single,
// auditable critical section rather than sharding a lock per swarm.
type SwarmRegistry interface {
	// Started registers p as a new member of its swarm.
	Started(p *core.PeerInfo, now int64) error

	// Stopped removes p from its swarm. If the swarm is left with no
	// members, its entry is removed entirely.
	Stopped(p *core.PeerInfo, now int64) error

	// ReAnnounce refreshes p's last-announce time, re-registering p (and
	// its swarm, if the cleaner had evicted it) when necessary.
	ReAnnounce(p *core.PeerInfo, now int64) error

	// Swarm returns the current members of the swarm identified by h.
	Swarm(h core.InfoHash) ([]*core.PeerInfo, error)

	// Evict removes every TrackedPeer whose LastAnnounceTime is more than
	// threshold seconds before now, deleting any swarm left empty.
	Evict(threshold int64, now int64) error

	// Close releases any resources held by the registry.
	Close()
}

// New creates a SwarmRegistry from config. clk is not read by the
// registry; every method takes the current time from its caller.
func New(config Config, clk clock.Clock) (SwarmRegistry, error) {
	config.applyDefaults()
	if config.Redis.Enabled {
		s, err := newRedisStore(config.Redis)
		if err != nil {
			return nil, fmt.Errorf("new redis swarm registry: %s", err)
		}
		return s, nil
	}
	return newLocalStore(), nil
}
