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
	"testing"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/stretchr/testify/require"

	"github.com/hiveswarm/hive/core"
	"github.com/hiveswarm/hive/tracker/swarmstore"
)

func TestCleanerEvictsStalePeers(t *testing.T) {
	require := require.New(t)

	registry, err := swarmstore.New(swarmstore.Config{}, clock.New())
	require.NoError(err)

	mock := clock.NewMock()
	mock.Set(time.Unix(0, 0))

	p := core.PeerInfoFixture()
	require.NoError(registry.Started(p, mock.Now().Unix()))

	cleaner := NewCleaner(Config{CheckingTime: 10 * time.Second, Threshold: 90 * time.Second}, registry, mock)
	defer cleaner.Stop()

	mock.Add(91 * time.Second)
	mock.Add(10 * time.Second) // trips the checking-time ticker.

	require.Eventually(func() bool {
		peers, err := registry.Swarm(p.InfoHash)
		return err == nil && len(peers) == 0
	}, time.Second, 10*time.Millisecond)
}
