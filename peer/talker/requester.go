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
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/uber-go/tally"

	"github.com/hiveswarm/hive/core"
	"github.com/hiveswarm/hive/lib/fileio"
	"github.com/hiveswarm/hive/lib/metainfo"
	"github.com/hiveswarm/hive/lib/peerstate"
	"github.com/hiveswarm/hive/lib/piecetracker"
	"github.com/hiveswarm/hive/utils/log"
)

// requester owns one outbound connection to a single remote peer,
// repeatedly polling its HAVING state and pulling any piece the remote
// has that this peer does not, until the local download completes.
type requester struct {
	remote  *core.PeerInfo
	meta    *metainfo.TorrentMeta
	file    *fileio.File
	tracker *piecetracker.Tracker
	state   *peerstate.State
	swarm   swarmView
	dial    *dialSet
	config  Config
	stats   tally.Scope
}

// run dials the remote and drives its lifecycle end to end. It always
// removes the remote from the dial set exactly once before returning.
func (r *requester) run() {
	if r.stats == nil {
		r.stats = tally.NoopScope
	}
	defer r.dial.remove(r.remote.PeerID)

	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", r.remote.PeerIP, r.remote.PeerPort), r.config.DialTimeout)
	if err != nil {
		log.Infof("talker: dial %s: %s", r.remote.PeerID, err)
		r.stats.Counter("dial_failures").Inc(1)
		r.swarm.Remove(r.remote.PeerID)
		return
	}
	defer conn.Close()

	if err := r.fetchLoop(conn); err != nil {
		log.Infof("talker: %s: %s", r.remote.PeerID, err)
		r.swarm.Remove(r.remote.PeerID)
		return
	}

	r.done(conn)
}

// fetchLoop polls HAVING and requests any newly-interesting piece until
// the local download is complete. A transport failure here ends the
// connection, as does a failed or short read of piece data; a hash
// mismatch or a local write failure only abandons the one piece in flight.
func (r *requester) fetchLoop(conn net.Conn) error {
	for !r.state.Completed() {
		time.Sleep(r.config.HavingInterval)

		remoteHave, err := r.requestHaving(conn)
		if err != nil {
			return err
		}

		for i := 0; i < r.meta.NumPieces(); i++ {
			if remoteHave[i] != core.PieceAvailable {
				continue
			}
			if r.tracker.State(i) != core.PieceUnavailable {
				continue
			}
			if err := r.requestInterest(conn, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// requestHaving sends HAVING and decodes the remote's piece-state
// snapshot, keyed by piece index.
func (r *requester) requestHaving(conn net.Conn) ([]core.PieceState, error) {
	if _, err := conn.Write([]byte("HAVING\n")); err != nil {
		return nil, fmt.Errorf("send HAVING: %s", err)
	}

	var lenPrefix [4]byte
	if _, err := io.ReadFull(conn, lenPrefix[:]); err != nil {
		return nil, fmt.Errorf("read HAVING length: %s", err)
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])

	payload := make([]byte, n)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, fmt.Errorf("read HAVING payload: %s", err)
	}

	var byIndex map[string]string
	if err := json.Unmarshal(payload, &byIndex); err != nil {
		return nil, fmt.Errorf("decode HAVING payload: %s", err)
	}

	states := make([]core.PieceState, r.meta.NumPieces())
	for k, v := range byIndex {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= len(states) {
			continue
		}
		s, ok := core.ParsePieceState(v)
		if !ok {
			continue
		}
		states[i] = s
	}
	return states, nil
}

// requestInterest fetches, verifies, and persists a single piece. A hash
// mismatch or a local disk write failure reverts the piece to UNAVAILABLE
// and is not treated as a connection failure: the scan continues with the
// next index. A failure writing to or reading from conn itself means the
// socket is unusable, so those errors still propagate and abort the
// connection.
func (r *requester) requestInterest(conn net.Conn, i int) error {
	if err := r.tracker.SetDownloading(i); err != nil {
		return nil
	}

	if _, err := conn.Write([]byte(fmt.Sprintf("INTEREST %d\n", i))); err != nil {
		r.tracker.SetUnavailable(i)
		return fmt.Errorf("send INTEREST %d: %s", i, err)
	}

	length := r.meta.PieceLen(i)
	data := make([]byte, length)
	if _, err := io.ReadFull(conn, data); err != nil {
		r.tracker.SetUnavailable(i)
		return fmt.Errorf("read piece %d: %s", i, err)
	}

	sum := sha1.Sum(data)
	if sum != r.meta.PieceHashes[i] {
		log.Infof("talker: piece %d from %s failed integrity check", i, r.remote.PeerID)
		r.stats.Counter("integrity_failures").Inc(1)
		r.tracker.SetUnavailable(i)
		return nil
	}

	if err := r.file.WritePiece(data, r.meta.PieceOffset(i)); err != nil {
		log.Infof("talker: write piece %d from %s: %s", i, r.remote.PeerID, err)
		r.tracker.SetUnavailable(i)
		return nil
	}

	if err := r.tracker.SetAvailable(i); err != nil {
		return nil
	}
	r.state.AddDownloaded(int64(len(data)))
	r.state.DecrementLeft()
	log.Infof("talker: downloaded piece %d from %s", i, r.remote.PeerID)
	return nil
}

// done sends DONE and waits for the remote's acknowledgement before the
// caller closes the connection.
func (r *requester) done(conn net.Conn) {
	if _, err := conn.Write([]byte("DONE\n")); err != nil {
		log.Infof("talker: send DONE to %s: %s", r.remote.PeerID, err)
		return
	}
	ack := make([]byte, len("DONE_OK"))
	if _, err := io.ReadFull(conn, ack); err != nil {
		log.Infof("talker: read DONE_OK from %s: %s", r.remote.PeerID, err)
		return
	}
	if string(ack) != "DONE_OK" {
		log.Infof("talker: unexpected DONE ack from %s: %q", r.remote.PeerID, ack)
	}
}
