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
	"fmt"
	"strconv"
	"strings"

	"github.com/gomodule/redigo/redis"

	"github.com/hiveswarm/hive/core"
)

// redisStore is a SwarmRegistry backed by Redis, so a tracker deployment
// can run more than one tracker process behind a load balancer, or
// survive a tracker restart without losing swarm membership. Selected by
// Config.Redis.Enabled.
type redisStore struct {
	config RedisConfig
	pool   *redis.Pool
}

func newRedisStore(config RedisConfig) (*redisStore, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("invalid config: missing addr")
	}
	s := &redisStore{
		config: config,
		pool: &redis.Pool{
			Dial: func() (redis.Conn, error) {
				return redis.Dial(
					"tcp",
					config.Addr,
					redis.DialConnectTimeout(config.DialTimeout),
					redis.DialReadTimeout(config.ReadTimeout),
					redis.DialWriteTimeout(config.WriteTimeout))
			},
			MaxIdle:     config.MaxIdleConns,
			MaxActive:   config.MaxActiveConns,
			IdleTimeout: config.IdleConnTimeout,
			Wait:        true,
		},
	}
	c, err := s.pool.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial redis: %s", err)
	}
	c.Close()
	return s, nil
}

func swarmKey(h core.InfoHash) string {
	return fmt.Sprintf("swarm:%s", h.String())
}

func serializePeer(p *core.PeerInfo) string {
	return fmt.Sprintf("%s:%s:%d:%d:%d:%d:%d",
		p.PeerID.String(), p.PeerIP, p.PeerPort, p.Uploaded, p.Downloaded, p.Left, int(p.Event))
}

func deserializePeer(h core.InfoHash, s string) (*core.PeerInfo, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 7 {
		return nil, fmt.Errorf("invalid peer encoding: expected 7 fields, got %d", len(parts))
	}
	peerID, err := core.NewPeerID(parts[0])
	if err != nil {
		return nil, fmt.Errorf("parse peer id: %s", err)
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("parse port: %s", err)
	}
	uploaded, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse uploaded: %s", err)
	}
	downloaded, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse downloaded: %s", err)
	}
	left, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse left: %s", err)
	}
	event, err := strconv.Atoi(parts[6])
	if err != nil {
		return nil, fmt.Errorf("parse event: %s", err)
	}
	return &core.PeerInfo{
		InfoHash:   h,
		PeerID:     peerID,
		PeerIP:     parts[1],
		PeerPort:   port,
		Uploaded:   uploaded,
		Downloaded: downloaded,
		Left:       left,
		Event:      core.AnnounceEvent(event),
	}, nil
}

// Started implements SwarmRegistry.
func (s *redisStore) Started(p *core.PeerInfo, now int64) error {
	return s.put(p, now)
}

// ReAnnounce implements SwarmRegistry.
func (s *redisStore) ReAnnounce(p *core.PeerInfo, now int64) error {
	return s.put(p, now)
}

func (s *redisStore) put(p *core.PeerInfo, now int64) error {
	c := s.pool.Get()
	defer c.Close()

	k := swarmKey(p.InfoHash)
	member := serializePeer(p)

	if err := c.Send("HSET", k, p.PeerID.String(), fmt.Sprintf("%d:%s", now, member)); err != nil {
		return fmt.Errorf("send HSET: %s", err)
	}
	if err := c.Flush(); err != nil {
		return fmt.Errorf("flush: %s", err)
	}
	if _, err := c.Receive(); err != nil {
		return fmt.Errorf("HSET: %s", err)
	}
	return nil
}

// Stopped implements SwarmRegistry.
func (s *redisStore) Stopped(p *core.PeerInfo, now int64) error {
	c := s.pool.Get()
	defer c.Close()

	k := swarmKey(p.InfoHash)
	if _, err := c.Do("HDEL", k, p.PeerID.String()); err != nil {
		return fmt.Errorf("HDEL: %s", err)
	}
	n, err := redis.Int(c.Do("HLEN", k))
	if err != nil {
		return fmt.Errorf("HLEN: %s", err)
	}
	if n == 0 {
		if _, err := c.Do("DEL", k); err != nil {
			return fmt.Errorf("DEL: %s", err)
		}
	}
	return nil
}

// Swarm implements SwarmRegistry.
func (s *redisStore) Swarm(h core.InfoHash) ([]*core.PeerInfo, error) {
	c := s.pool.Get()
	defer c.Close()

	entries, err := redis.StringMap(c.Do("HGETALL", swarmKey(h)))
	if err != nil {
		return nil, fmt.Errorf("HGETALL: %s", err)
	}
	peers := make([]*core.PeerInfo, 0, len(entries))
	for _, v := range entries {
		parts := strings.SplitN(v, ":", 2)
		if len(parts) != 2 {
			continue
		}
		p, err := deserializePeer(h, parts[1])
		if err != nil {
			return nil, err
		}
		peers = append(peers, p)
	}
	return peers, nil
}

// Evict implements SwarmRegistry.
//
// No per-key TTLs are set, so this sweep is the only way stale peers
// leave Redis, exactly as with localStore.
func (s *redisStore) Evict(threshold int64, now int64) error {
	c := s.pool.Get()
	defer c.Close()

	keys, err := redis.Strings(c.Do("KEYS", "swarm:*"))
	if err != nil {
		return fmt.Errorf("KEYS: %s", err)
	}
	for _, k := range keys {
		entries, err := redis.StringMap(c.Do("HGETALL", k))
		if err != nil {
			return fmt.Errorf("HGETALL: %s", err)
		}
		for peerID, v := range entries {
			parts := strings.SplitN(v, ":", 2)
			if len(parts) != 2 {
				continue
			}
			lastAnnounce, err := strconv.ParseInt(parts[0], 10, 64)
			if err != nil {
				continue
			}
			if now-lastAnnounce > threshold {
				if _, err := c.Do("HDEL", k, peerID); err != nil {
					return fmt.Errorf("HDEL: %s", err)
				}
			}
		}
		n, err := redis.Int(c.Do("HLEN", k))
		if err != nil {
			return fmt.Errorf("HLEN: %s", err)
		}
		if n == 0 {
			if _, err := c.Do("DEL", k); err != nil {
				return fmt.Errorf("DEL: %s", err)
			}
		}
	}
	return nil
}

// Close implements SwarmRegistry.
func (s *redisStore) Close() {
	s.pool.Close()
}
