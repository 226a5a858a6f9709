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
package announcer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hiveswarm/hive/core"
	"github.com/hiveswarm/hive/lib/httputil"
	"github.com/hiveswarm/hive/lib/peerstate"
)

// ErrTrackerUnreachable is returned when an announce HTTP call yields a
// non-success status or a transport error.
type ErrTrackerUnreachable struct {
	Event core.AnnounceEvent
	Cause error
}

func (e *ErrTrackerUnreachable) Error() string {
	return fmt.Sprintf("tracker unreachable on %s announce: %s", e.Event, e.Cause)
}

func (e *ErrTrackerUnreachable) Unwrap() error { return e.Cause }

// wireResponse mirrors trackerserver's JSON reply for STARTED/RE_ANNOUNCE.
type wireResponse struct {
	Interval int `json:"interval"`
	Peers    []struct {
		InfoHash   string `json:"info_hash"`
		PeerID     string `json:"peer_id"`
		PeerIP     string `json:"peer_ip"`
		PeerPort   int    `json:"peer_port"`
		Uploaded   int64  `json:"uploaded"`
		Downloaded int64  `json:"downloaded"`
		Left       int64  `json:"left"`
		Event      string `json:"event"`
	} `json:"peers"`
}

// Announcer holds this peer's identity and talks to a single torrent's
// tracker on its behalf.
type Announcer struct {
	announceURL string
	infoHash    core.InfoHash
	peerID      core.PeerID
	peerIP      string
	peerPort    int
	state       *peerstate.State
}

// New creates an Announcer for one torrent.
func New(announceURL string, infoHash core.InfoHash, peerID core.PeerID, peerIP string, peerPort int, state *peerstate.State) *Announcer {
	return &Announcer{
		announceURL: announceURL,
		infoHash:    infoHash,
		peerID:      peerID,
		peerIP:      peerIP,
		peerPort:    peerPort,
		state:       state,
	}
}

func (a *Announcer) params(event core.AnnounceEvent) url.Values {
	uploaded, downloaded, left, _ := a.state.Snapshot()
	v := url.Values{}
	v.Set("info_hash", a.infoHash.Hex())
	v.Set("peer_id", a.peerID.String())
	v.Set("peer_ip", a.peerIP)
	v.Set("peer_port", strconv.Itoa(a.peerPort))
	v.Set("uploaded", strconv.FormatInt(uploaded, 10))
	v.Set("downloaded", strconv.FormatInt(downloaded, 10))
	v.Set("left", strconv.FormatInt(left, 10))
	v.Set("event", event.String())
	return v
}

func (a *Announcer) announce(event core.AnnounceEvent) (int, []*core.PeerInfo, error) {
	a.state.SetEvent(event)

	u := a.announceURL + "?" + a.params(event).Encode()
	resp, err := httputil.Get(u)
	if err != nil {
		return 0, nil, &ErrTrackerUnreachable{event, err}
	}
	defer resp.Body.Close()

	// The tracker acknowledges STOPPED with plain text, not JSON.
	if event == core.EventStopped {
		return 0, nil, nil
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return 0, nil, &ErrTrackerUnreachable{event, err}
	}

	peers := make([]*core.PeerInfo, 0, len(wire.Peers))
	for _, wp := range wire.Peers {
		h, err := core.NewInfoHashFromHex(wp.InfoHash)
		if err != nil {
			continue
		}
		id, err := core.NewPeerID(wp.PeerID)
		if err != nil {
			continue
		}
		evt, _ := core.ParseAnnounceEvent(wp.Event)
		peers = append(peers, &core.PeerInfo{
			InfoHash:   h,
			PeerID:     id,
			PeerIP:     wp.PeerIP,
			PeerPort:   wp.PeerPort,
			Uploaded:   wp.Uploaded,
			Downloaded: wp.Downloaded,
			Left:       wp.Left,
			Event:      evt,
		})
	}
	return wire.Interval, peers, nil
}

// StartedAnnounce sets event=STARTED and issues one synchronous announce.
// Failure is fatal: the peer cannot begin operating without an initial
// swarm view.
func (a *Announcer) StartedAnnounce() (interval int, peers []*core.PeerInfo, err error) {
	return a.announce(core.EventStarted)
}

// StopAnnounce sets event=STOPPED and issues one synchronous announce.
// It is best-effort: callers should log a failure but never block
// shutdown on it, matching original_source's stop_announce.
func (a *Announcer) StopAnnounce() error {
	_, _, err := a.announce(core.EventStopped)
	return err
}

// ReAnnounce sets event=RE_ANNOUNCE and issues one synchronous announce,
// used by the re-announce loop.
func (a *Announcer) ReAnnounce() (interval int, peers []*core.PeerInfo, err error) {
	return a.announce(core.EventReannounce)
}
