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

// Package listener serves inbound peer connections: HAVING snapshots,
// INTEREST piece reads, and DONE teardown.
package listener

import (
	"fmt"
	"net"

	uuid "github.com/satori/go.uuid"
	"github.com/uber-go/tally"

	"github.com/hiveswarm/hive/lib/fileio"
	"github.com/hiveswarm/hive/lib/metainfo"
	"github.com/hiveswarm/hive/lib/peerstate"
	"github.com/hiveswarm/hive/lib/piecetracker"
	"github.com/hiveswarm/hive/utils/log"
)

// Listener accepts inbound connections from other peers and serves
// pieces of a single torrent out of its backing file.
type Listener struct {
	addr     string
	meta     *metainfo.TorrentMeta
	file     *fileio.File
	tracker  *piecetracker.Tracker
	state    *peerstate.State
	stats    tally.Scope
	listener net.Listener
}

// New binds a TCP listener on addr. The caller must have already created
// and pre-allocated the backing file. A nil stats scope is replaced with
// a no-op scope.
func New(addr string, meta *metainfo.TorrentMeta, file *fileio.File, tracker *piecetracker.Tracker, state *peerstate.State, stats tally.Scope) (*Listener, error) {
	if stats == nil {
		stats = tally.NoopScope
	}
	// net.Listen leaves the accept backlog at the kernel default (on Linux,
	// min(somaxconn, net.core.somaxconn), typically in the hundreds) rather
	// than the 128 historically passed to listen(2) by the old syscall
	// package; net.ListenConfig has no field to lower or raise it, and the
	// default already clears the 10-connection floor this listener needs.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listener: bind %s: %s", addr, err)
	}
	return &Listener{
		addr:     addr,
		meta:     meta,
		file:     file,
		tracker:  tracker,
		state:    state,
		stats:    stats,
		listener: ln,
	}, nil
}

// Addr returns the address the listener is bound to.
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.listener.Close()
}

// Serve runs the accept loop, spawning an independent handler goroutine
// per connection. Serve blocks until the listener is closed.
func (l *Listener) Serve() error {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			return err
		}
		id := uuid.NewV4()
		l.stats.Counter("connections_accepted").Inc(1)
		h := &handler{
			id:      id.String(),
			conn:    conn,
			meta:    l.meta,
			file:    l.file,
			tracker: l.tracker,
			state:   l.state,
			stats:   l.stats,
		}
		go h.run()
	}
}
