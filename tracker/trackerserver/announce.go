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

// Package trackerserver exposes the tracker's HTTP API: a single
// GET /announce endpoint, a health check, and the background cleaner that
// evicts stale swarm members.
package trackerserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/andres-erbsen/clock"

	"github.com/hiveswarm/hive/core"
	"github.com/hiveswarm/hive/tracker/swarmstore"
	"github.com/hiveswarm/hive/utils/log"
)

// announceResponse is the wire-shaped reply for STARTED/RE_ANNOUNCE.
type announceResponse struct {
	Interval int            `json:"interval"`
	Peers    []announcePeer `json:"peers"`
}

// announcePeer mirrors the fields a peer sends on announce.
type announcePeer struct {
	InfoHash   string `json:"info_hash"`
	PeerID     string `json:"peer_id"`
	PeerIP     string `json:"peer_ip"`
	PeerPort   int    `json:"peer_port"`
	Uploaded   int64  `json:"uploaded"`
	Downloaded int64  `json:"downloaded"`
	Left       int64  `json:"left"`
	Event      string `json:"event"`
}

func toAnnouncePeer(p *core.PeerInfo) announcePeer {
	return announcePeer{
		InfoHash:   p.InfoHash.Hex(),
		PeerID:     p.PeerID.String(),
		PeerIP:     p.PeerIP,
		PeerPort:   p.PeerPort,
		Uploaded:   p.Uploaded,
		Downloaded: p.Downloaded,
		Left:       p.Left,
		Event:      p.Event.String(),
	}
}

type announceHandler struct {
	config   Config
	registry swarmstore.SwarmRegistry
	clk      clock.Clock
}

func (h *announceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := parseAnnounceParams(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := h.clk.Now().Unix()

	switch p.Event {
	case core.EventStarted:
		if err := h.registry.Started(p, now); err != nil {
			log.Errorf("tracker: started announce for %s: %s", p.PeerID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	case core.EventStopped:
		if err := h.registry.Stopped(p, now); err != nil {
			log.Errorf("tracker: stopped announce for %s: %s", p.PeerID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "OK")
		return
	case core.EventReannounce, core.EventNone:
		if err := h.registry.ReAnnounce(p, now); err != nil {
			log.Errorf("tracker: re-announce for %s: %s", p.PeerID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	swarm, err := h.registry.Swarm(p.InfoHash)
	if err != nil {
		log.Errorf("tracker: read swarm for %s: %s", p.InfoHash, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	peers := make([]announcePeer, len(swarm))
	for i, sp := range swarm {
		peers[i] = toAnnouncePeer(sp)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(announceResponse{
		Interval: h.config.AnnounceIntervalSec,
		Peers:    peers,
	}); err != nil {
		log.Errorf("tracker: encode announce response: %s", err)
	}
}

// parseAnnounceParams relies on core.PeerInfo.Validate, which checks
// info_hash/peer_id/peer_ip/peer_port but not uploaded/downloaded/left.

func parseAnnounceParams(q map[string][]string) (*core.PeerInfo, error) {
	get := func(key string) string {
		if v, ok := q[key]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}
	parseInt := func(key string) (int64, error) {
		v := get(key)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, err)
		}
		return n, nil
	}

	infoHash, err := core.NewInfoHashFromHex(get("info_hash"))
	if err != nil {
		return nil, fmt.Errorf("invalid info_hash: %s", err)
	}
	peerID, err := core.NewPeerID(get("peer_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid peer_id: %s", err)
	}
	peerPort, err := parseInt("peer_port")
	if err != nil {
		return nil, err
	}
	uploaded, err := parseInt("uploaded")
	if err != nil {
		return nil, err
	}
	downloaded, err := parseInt("downloaded")
	if err != nil {
		return nil, err
	}
	left, err := parseInt("left")
	if err != nil {
		return nil, err
	}
	event, ok := core.ParseAnnounceEvent(get("event"))
	if !ok {
		return nil, fmt.Errorf("invalid event: %q", get("event"))
	}

	return &core.PeerInfo{
		InfoHash:   infoHash,
		PeerID:     peerID,
		PeerIP:     get("peer_ip"),
		PeerPort:   int(peerPort),
		Uploaded:   uploaded,
		Downloaded: downloaded,
		Left:       left,
		Event:      event,
	}, nil
}
