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
package core

import "sort"

// PeerInfo is the wire-shaped announce record exchanged between a peer
// and the tracker: both the parameters a peer sends on announce, and the
// swarm entries the tracker hands back.
type PeerInfo struct {
	InfoHash   InfoHash      `json:"info_hash"`
	PeerID     PeerID        `json:"peer_id"`
	PeerIP     string        `json:"peer_ip"`
	PeerPort   int           `json:"peer_port"`
	Uploaded   int64         `json:"uploaded"`
	Downloaded int64         `json:"downloaded"`
	Left       int64         `json:"left"`
	Event      AnnounceEvent `json:"event"`
}

// Validate rejects a PeerInfo missing any of the fields required to
// register or update a swarm membership record.
func (p *PeerInfo) Validate() error {
	if p.InfoHash == (InfoHash{}) {
		return errEmptyInfoHash
	}
	if p.PeerID.Empty() {
		return errEmptyPeerID
	}
	if p.PeerIP == "" {
		return errEmptyPeerIP
	}
	if p.PeerPort <= 0 {
		return errInvalidPeerPort
	}
	return nil
}

// PeerInfos groups PeerInfo for sorting.
type PeerInfos []*PeerInfo

// SortedByPeerID returns a copy of peers sorted by peer id, giving
// deterministic ordering for tests and logs.
func SortedByPeerID(peers []*PeerInfo) []*PeerInfo {
	c := make([]*PeerInfo, len(peers))
	copy(c, peers)
	sort.Slice(c, func(i, j int) bool { return c[i].PeerID.LessThan(c[j].PeerID) })
	return c
}
