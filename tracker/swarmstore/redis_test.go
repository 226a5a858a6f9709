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

	"github.com/alicebob/miniredis"
	"github.com/stretchr/testify/require"

	"github.com/hiveswarm/hive/core"
)

func redisConfigFixture(t *testing.T) RedisConfig {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	c := RedisConfig{Addr: s.Addr()}
	c.applyDefaults()
	return c
}

func TestRedisStoreStartedAndSwarm(t *testing.T) {
	require := require.New(t)

	s, err := newRedisStore(redisConfigFixture(t))
	require.NoError(err)
	defer s.Close()

	p := core.PeerInfoFixture()
	require.NoError(s.Started(p, 100))

	peers, err := s.Swarm(p.InfoHash)
	require.NoError(err)
	require.Equal([]*core.PeerInfo{p}, peers)
}

func TestRedisStoreStoppedDeletesEmptySwarm(t *testing.T) {
	require := require.New(t)

	s, err := newRedisStore(redisConfigFixture(t))
	require.NoError(err)
	defer s.Close()

	p := core.PeerInfoFixture()
	require.NoError(s.Started(p, 100))
	require.NoError(s.Stopped(p, 101))

	peers, err := s.Swarm(p.InfoHash)
	require.NoError(err)
	require.Empty(peers)
}

func TestRedisStoreEvictThreshold(t *testing.T) {
	require := require.New(t)

	s, err := newRedisStore(redisConfigFixture(t))
	require.NoError(err)
	defer s.Close()

	stale := core.PeerInfoFixture()
	fresh := core.PeerInfoFixture()
	fresh.InfoHash = stale.InfoHash

	require.NoError(s.Started(stale, 0))
	require.NoError(s.Started(fresh, 85))
	require.NoError(s.Evict(90, 100))

	peers, err := s.Swarm(stale.InfoHash)
	require.NoError(err)
	require.Equal([]*core.PeerInfo{fresh}, peers)
}
