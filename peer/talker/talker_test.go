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
package talker

import (
	"bytes"
	"crypto/sha1"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hiveswarm/hive/core"
	"github.com/hiveswarm/hive/lib/fileio"
	"github.com/hiveswarm/hive/lib/metainfo"
	"github.com/hiveswarm/hive/lib/peerstate"
	"github.com/hiveswarm/hive/lib/piecetracker"
	"github.com/hiveswarm/hive/peer/listener"
)

// fakeSwarm is a minimal swarmView for tests: a fixed peer list that
// records removals instead of actually mutating under lock.
type fakeSwarm struct {
	peers   []*core.PeerInfo
	removed []core.PeerID
}

func (s *fakeSwarm) Peers() []*core.PeerInfo { return s.peers }
func (s *fakeSwarm) Remove(id core.PeerID) {
	s.removed = append(s.removed, id)
	kept := s.peers[:0]
	for _, p := range s.peers {
		if p.PeerID != id {
			kept = append(kept, p)
		}
	}
	s.peers = kept
}

func seededMeta(fileLength, pieceLength int64) *metainfo.TorrentMeta {
	numPieces := int((fileLength + pieceLength - 1) / pieceLength)
	return &metainfo.TorrentMeta{
		FileLength:  fileLength,
		PieceLength: pieceLength,
		PieceHashes: make([][20]byte, numPieces),
		InfoHash:    core.InfoHashFixture(),
	}
}

// newSeederListener starts a listener.Listener fully seeded with data
// and correct piece hashes, acting as the remote peer under test.
func newSeederListener(t *testing.T, meta *metainfo.TorrentMeta, content []byte) *listener.Listener {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "blob")

	require.NoError(t, fileio.Preallocate(path, meta.FileLength))
	f, err := fileio.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	require.NoError(t, f.WritePiece(content, 0))

	tracker := piecetracker.New(meta.NumPieces(), core.PieceAvailable)
	state := peerstate.New(0)

	l, err := listener.New("127.0.0.1:0", meta, f, tracker, state, nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	go l.Serve()
	return l
}

func TestRequesterDownloadsAndVerifiesPiece(t *testing.T) {
	require := require.New(t)

	piece := bytes.Repeat([]byte{0x42}, 10)
	hash := sha1.Sum(piece)

	meta := seededMeta(10, 10)
	meta.PieceHashes[0] = hash

	seeder := newSeederListener(t, meta, piece)

	host, portStr, err := net.SplitHostPort(seeder.Addr().String())
	require.NoError(err)
	port, err := strconv.Atoi(portStr)
	require.NoError(err)

	remote := &core.PeerInfo{
		InfoHash: meta.InfoHash,
		PeerID:   core.PeerID("REMOTEAAAAAAAAAAAAAA"),
		PeerIP:   host,
		PeerPort: port,
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "blob")
	require.NoError(t, fileio.Preallocate(path, meta.FileLength))
	f, err := fileio.Open(path)
	require.NoError(err)
	t.Cleanup(func() { f.Close() })

	tracker := piecetracker.New(meta.NumPieces(), core.PieceUnavailable)
	state := peerstate.New(int64(meta.NumPieces()))

	r := &requester{
		remote:  remote,
		meta:    meta,
		file:    f,
		tracker: tracker,
		state:   state,
		swarm:   &fakeSwarm{},
		dial:    newDialSet(),
		config:  Config{HavingInterval: time.Millisecond, DialTimeout: time.Second},
	}

	r.dial.addIfAbsent(remote.PeerID)
	r.run()

	require.True(state.Completed())
	require.Equal(core.PieceAvailable, tracker.State(0))

	got, err := f.ReadPiece(0, 10)
	require.NoError(err)
	require.Equal(piece, got)
}

func TestRequesterRemovesRemoteOnDialFailure(t *testing.T) {
	require := require.New(t)

	meta := seededMeta(10, 10)
	remote := &core.PeerInfo{
		InfoHash: meta.InfoHash,
		PeerID:   core.PeerID("DEADAAAAAAAAAAAAAAAA"),
		PeerIP:   "127.0.0.1",
		PeerPort: 1, // nothing listens here
	}

	swarm := &fakeSwarm{peers: []*core.PeerInfo{remote}}
	d := newDialSet()
	d.addIfAbsent(remote.PeerID)

	r := &requester{
		remote: remote,
		meta:   meta,
		swarm:  swarm,
		dial:   d,
		config: Config{DialTimeout: 200 * time.Millisecond},
	}
	r.run()

	require.Contains(swarm.removed, remote.PeerID)
	require.True(d.addIfAbsent(remote.PeerID), "requester must remove itself from the dial set on dial failure")
}

func TestDialSetPreventsDuplicateEntry(t *testing.T) {
	require := require.New(t)
	d := newDialSet()
	id := core.PeerID(strings.Repeat("A", 20))
	require.True(d.addIfAbsent(id))
	require.False(d.addIfAbsent(id))
	d.remove(id)
	require.True(d.addIfAbsent(id))
}
