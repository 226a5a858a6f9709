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

// Package talker drives the outbound half of a peer: periodically
// scanning the shared swarm list for remotes without a live requester
// and spawning one per remote, each pulling pieces until the local
// download completes.
package talker

import (
	"time"

	"github.com/uber-go/tally"

	"github.com/hiveswarm/hive/core"
	"github.com/hiveswarm/hive/lib/fileio"
	"github.com/hiveswarm/hive/lib/metainfo"
	"github.com/hiveswarm/hive/lib/peerstate"
	"github.com/hiveswarm/hive/lib/piecetracker"
)

// swarmView is the subset of *announcer.SwarmList the talker depends on.
type swarmView interface {
	Peers() []*core.PeerInfo
	Remove(id core.PeerID)
}

// Talker periodically scans the shared swarm list and maintains at most
// one live requester per remote peer.
type Talker struct {
	self    core.PeerID
	meta    *metainfo.TorrentMeta
	file    *fileio.File
	tracker *piecetracker.Tracker
	state   *peerstate.State
	swarm   swarmView
	config  Config
	stats   tally.Scope
	dial    *dialSet
	stop    chan struct{}
}

// New creates a Talker for a single torrent. self is excluded from every
// scan so a peer never dials itself. A nil stats scope is replaced with a
// no-op scope.
func New(self core.PeerID, meta *metainfo.TorrentMeta, file *fileio.File, tracker *piecetracker.Tracker, state *peerstate.State, swarm swarmView, config Config, stats tally.Scope) *Talker {
	config.applyDefaults()
	if stats == nil {
		stats = tally.NoopScope
	}
	return &Talker{
		self:    self,
		meta:    meta,
		file:    file,
		tracker: tracker,
		state:   state,
		swarm:   swarm,
		config:  config,
		stats:   stats,
		dial:    newDialSet(),
		stop:    make(chan struct{}),
	}
}

// Run blocks, scanning the swarm list every ScanInterval and spawning a
// requester goroutine for each remote not already in the dial set. Run
// stops scanning once the local download completes; requesters already
// in flight finish their own DONE handshake independently. Run is meant
// to be invoked in its own goroutine.
func (t *Talker) Run() {
	ticker := time.NewTicker(t.config.ScanInterval)
	defer ticker.Stop()

	for {
		if t.state.Completed() {
			return
		}

		select {
		case <-ticker.C:
			t.scan()
		case <-t.stop:
			return
		}
	}
}

// Stop halts the scan loop. It does not interrupt requesters already in
// flight.
func (t *Talker) Stop() {
	close(t.stop)
}

func (t *Talker) scan() {
	for _, p := range t.swarm.Peers() {
		if p.PeerID == t.self {
			continue
		}
		if !t.dial.addIfAbsent(p.PeerID) {
			continue
		}
		t.stats.Counter("requesters_started").Inc(1)
		req := &requester{
			remote:  p,
			meta:    t.meta,
			file:    t.file,
			tracker: t.tracker,
			state:   t.state,
			swarm:   t.swarm,
			dial:    t.dial,
			config:  t.config,
			stats:   t.stats,
		}
		go req.run()
	}
}
