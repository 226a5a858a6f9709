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
package listener

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/uber-go/tally"

	"github.com/hiveswarm/hive/lib/fileio"
	"github.com/hiveswarm/hive/lib/metainfo"
	"github.com/hiveswarm/hive/lib/peerstate"
	"github.com/hiveswarm/hive/lib/piecetracker"
	"github.com/hiveswarm/hive/utils/log"
)

// handler serves one inbound connection. Handlers share no per-connection
// state with each other; they read the shared file and piece tracker,
// which are already safe for concurrent access.
type handler struct {
	id      string
	conn    net.Conn
	meta    *metainfo.TorrentMeta
	file    *fileio.File
	tracker *piecetracker.Tracker
	state   *peerstate.State
	stats   tally.Scope
}

// run processes newline-framed requests until DONE, disconnect, or a
// protocol error. Any failure terminates this handler only.
func (h *handler) run() {
	defer h.conn.Close()

	scanner := bufio.NewScanner(h.conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "HAVING":
			h.stats.Counter("having_requests").Inc(1)
			if err := h.handleHaving(); err != nil {
				log.Warnf("listener[%s]: HAVING: %s", h.id, err)
				return
			}
		case line == "DONE":
			h.stats.Counter("done_requests").Inc(1)
			h.handleDone()
			return
		case strings.HasPrefix(line, "INTEREST"):
			h.stats.Counter("interest_requests").Inc(1)
			if err := h.handleInterest(line); err != nil {
				log.Warnf("listener[%s]: INTEREST: %s", h.id, err)
				return
			}
		default:
			log.Warnf("listener[%s]: unrecognized request %q", h.id, line)
			return
		}
	}
}

func (h *handler) handleHaving() error {
	snapshot := h.tracker.Snapshot()
	byIndex := make(map[string]string, len(snapshot))
	for i, s := range snapshot {
		byIndex[strconv.Itoa(i)] = s.String()
	}
	payload, err := json.Marshal(byIndex)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %s", err)
	}

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(payload)))
	if _, err := h.conn.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("write length prefix: %s", err)
	}
	if _, err := h.conn.Write(payload); err != nil {
		return fmt.Errorf("write payload: %s", err)
	}
	return nil
}

func (h *handler) handleInterest(line string) error {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return fmt.Errorf("malformed request %q", line)
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("malformed piece index: %s", err)
	}

	length := h.meta.PieceLen(index)
	if length <= 0 {
		return fmt.Errorf("invalid piece index %d", index)
	}

	data, err := h.file.ReadPiece(h.meta.PieceOffset(index), length)
	if err != nil {
		return fmt.Errorf("read piece %d: %s", index, err)
	}
	if _, err := h.conn.Write(data); err != nil {
		return fmt.Errorf("write piece %d: %s", index, err)
	}
	h.state.AddUploaded(int64(len(data)))
	return nil
}

func (h *handler) handleDone() {
	if _, err := h.conn.Write([]byte("DONE_OK")); err != nil {
		log.Warnf("listener[%s]: write DONE_OK: %s", h.id, err)
	}
}
