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
package swarmstore

import (
	"sync"

	"github.com/hiveswarm/hive/core"
)

// localStore is an in-memory SwarmRegistry. A single mutex guards the
// entire registry rather than sharding a lock per swarm, since the
// target scale doesn't need the extra concurrency.
type localStore struct {
	mu     sync.Mutex
	swarms map[core.InfoHash]map[core.PeerID]*TrackedPeer
}

func newLocalStore() *localStore {
	return &localStore{
		swarms: make(map[core.InfoHash]map[core.PeerID]*TrackedPeer),
	}
}

// Started implements SwarmRegistry.
func (s *localStore) Started(p *core.PeerInfo, now int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	swarm, ok := s.swarms[p.InfoHash]
	if !ok {
		swarm = make(map[core.PeerID]*TrackedPeer)
		s.swarms[p.InfoHash] = swarm
	}
	swarm[p.PeerID] = &TrackedPeer{Peer: *p, LastAnnounceTime: now}
	return nil
}

// Stopped implements SwarmRegistry.
func (s *localStore) Stopped(p *core.PeerInfo, now int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	swarm, ok := s.swarms[p.InfoHash]
	if !ok {
		return nil
	}
	delete(swarm, p.PeerID)
	if len(swarm) == 0 {
		delete(s.swarms, p.InfoHash)
	}
	return nil
}

// ReAnnounce implements SwarmRegistry.
//
// Mirrors the original tracker's re-announce handling exactly: if the
// swarm itself was evicted by the cleaner, it is recreated with just this
// peer; if only this peer's entry was evicted (or never existed), it is
// re-added; otherwise the existing entry is replaced with p's current
// fields and last-announce time.
func (s *localStore) ReAnnounce(p *core.PeerInfo, now int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	swarm, ok := s.swarms[p.InfoHash]
	if !ok {
		swarm = make(map[core.PeerID]*TrackedPeer)
		s.swarms[p.InfoHash] = swarm
		swarm[p.PeerID] = &TrackedPeer{Peer: *p, LastAnnounceTime: now}
		return nil
	}
	swarm[p.PeerID] = &TrackedPeer{Peer: *p, LastAnnounceTime: now}
	return nil
}

// Swarm implements SwarmRegistry.
func (s *localStore) Swarm(h core.InfoHash) ([]*core.PeerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swarm, ok := s.swarms[h]
	if !ok {
		return nil, nil
	}
	peers := make([]*core.PeerInfo, 0, len(swarm))
	for _, tp := range swarm {
		p := tp.Peer
		peers = append(peers, &p)
	}
	return peers, nil
}

// Evict implements SwarmRegistry.
func (s *localStore) Evict(threshold int64, now int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for h, swarm := range s.swarms {
		for id, tp := range swarm {
			if now-tp.LastAnnounceTime > threshold {
				delete(swarm, id)
			}
		}
		if len(swarm) == 0 {
			delete(s.swarms, h)
		}
	}
	return nil
}

// Close implements SwarmRegistry.
func (s *localStore) Close() {}
