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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiveswarm/hive/core"
)

func TestLocalStoreStartedAddsPeer(t *testing.T) {
	require := require.New(t)

	s := newLocalStore()
	p := core.PeerInfoFixture()

	require.NoError(s.Started(p, 100))

	peers, err := s.Swarm(p.InfoHash)
	require.NoError(err)
	require.Equal([]*core.PeerInfo{p}, peers)
}

func TestLocalStoreStoppedRemovesEmptySwarm(t *testing.T) {
	require := require.New(t)

	s := newLocalStore()
	p := core.PeerInfoFixture()
	require.NoError(s.Started(p, 100))
	require.NoError(s.Stopped(p, 101))

	peers, err := s.Swarm(p.InfoHash)
	require.NoError(err)
	require.Empty(peers)

	s.mu.Lock()
	_, ok := s.swarms[p.InfoHash]
	s.mu.Unlock()
	require.False(ok)
}

func TestLocalStoreStoppedLeavesOtherPeers(t *testing.T) {
	require := require.New(t)

	s := newLocalStore()
	h := core.InfoHashFixture()
	p1 := core.PeerInfoFixture()
	p1.InfoHash = h
	p2 := core.PeerInfoFixture()
	p2.InfoHash = h

	require.NoError(s.Started(p1, 100))
	require.NoError(s.Started(p2, 100))
	require.NoError(s.Stopped(p1, 101))

	peers, err := s.Swarm(h)
	require.NoError(err)
	require.Equal([]*core.PeerInfo{p2}, peers)
}

func TestLocalStoreReAnnounceRefreshesExisting(t *testing.T) {
	require := require.New(t)

	s := newLocalStore()
	p := core.PeerInfoFixture()
	require.NoError(s.Started(p, 100))

	updated := *p
	updated.Left = 0
	require.NoError(s.ReAnnounce(&updated, 200))

	s.mu.Lock()
	tp := s.swarms[p.InfoHash][p.PeerID]
	s.mu.Unlock()
	require.EqualValues(200, tp.LastAnnounceTime)
	require.EqualValues(0, tp.Peer.Left)
}

func TestLocalStoreReAnnounceRecreatesEvictedSwarm(t *testing.T) {
	require := require.New(t)

	s := newLocalStore()
	p := core.PeerInfoFixture()

	// No Started call -- the swarm was never created, or was fully
	// evicted by the cleaner. ReAnnounce must recreate it.
	require.NoError(s.ReAnnounce(p, 100))

	peers, err := s.Swarm(p.InfoHash)
	require.NoError(err)
	require.Equal([]*core.PeerInfo{p}, peers)
}

func TestLocalStoreReAnnounceReAddsEvictedPeer(t *testing.T) {
	require := require.New(t)

	s := newLocalStore()
	h := core.InfoHashFixture()
	p1 := core.PeerInfoFixture()
	p1.InfoHash = h
	p2 := core.PeerInfoFixture()
	p2.InfoHash = h

	require.NoError(s.Started(p1, 100))
	require.NoError(s.Started(p2, 110))

	// Cleaner evicts p1 but leaves the swarm entry (p2 still present).
	require.NoError(s.Evict(10, 115))

	peers, err := s.Swarm(h)
	require.NoError(err)
	require.Equal([]*core.PeerInfo{p2}, peers)

	// p1 re-announces; it must be re-added to the still-existing swarm.
	require.NoError(s.ReAnnounce(p1, 120))

	peers, err = s.Swarm(h)
	require.NoError(err)
	require.ElementsMatch([]*core.PeerInfo{p1, p2}, peers)
}

func TestLocalStoreEvictThreshold(t *testing.T) {
	require := require.New(t)

	s := newLocalStore()
	h := core.InfoHashFixture()
	stale := core.PeerInfoFixture()
	stale.InfoHash = h
	fresh := core.PeerInfoFixture()
	fresh.InfoHash = h

	require.NoError(s.Started(stale, 0))
	require.NoError(s.Started(fresh, 85))

	// threshold=90, now=100: stale (age 100) is evicted, fresh (age 15) stays.
	require.NoError(s.Evict(90, 100))

	peers, err := s.Swarm(h)
	require.NoError(err)
	require.Equal([]*core.PeerInfo{fresh}, peers)
}

func TestLocalStoreEvictDeletesEmptySwarm(t *testing.T) {
	require := require.New(t)

	s := newLocalStore()
	p := core.PeerInfoFixture()
	require.NoError(s.Started(p, 0))
	require.NoError(s.Evict(10, 100))

	s.mu.Lock()
	_, ok := s.swarms[p.InfoHash]
	s.mu.Unlock()
	require.False(ok)
}
