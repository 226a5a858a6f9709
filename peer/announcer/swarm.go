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

// Package announcer owns the tracker conversation: joining, leaving, and
// periodically re-announcing a torrent's swarm.
package announcer

import (
	"sync"

	"github.com/hiveswarm/hive/core"
)

// SwarmList is the shared, lock-protected view of a torrent's swarm that
// the announcer replaces in place on every successful (re-)announce, and
// the talker reads on every dial sweep. Neither side ever hands out the
// underlying slice -- Peers returns a fresh copy.
type SwarmList struct {
	mu    sync.Mutex
	peers []*core.PeerInfo
}

// Peers returns a copy of the current swarm contents.
func (s *SwarmList) Peers() []*core.PeerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := make([]*core.PeerInfo, len(s.peers))
	copy(c, s.peers)
	return c
}

// Replace atomically swaps the swarm contents for peers.
func (s *SwarmList) Replace(peers []*core.PeerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers = peers
}

// Remove drops the entry for id from the swarm view, if present. The
// talker calls this when a dial or connection to id fails, so a dead
// remote does not get retried again before the next re-announce
// refreshes the view from the tracker.
func (s *SwarmList) Remove(id core.PeerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.peers {
		if p.PeerID == id {
			s.peers = append(s.peers[:i], s.peers[i+1:]...)
			return
		}
	}
}
