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
package peercmd

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hiveswarm/hive/core"
	"github.com/hiveswarm/hive/lib/fileio"
	"github.com/hiveswarm/hive/lib/metainfo"
	"github.com/hiveswarm/hive/lib/peerstate"
	"github.com/hiveswarm/hive/lib/piecetracker"
	"github.com/hiveswarm/hive/metrics"
	"github.com/hiveswarm/hive/peer/announcer"
	"github.com/hiveswarm/hive/peer/listener"
	"github.com/hiveswarm/hive/peer/progress"
	"github.com/hiveswarm/hive/peer/talker"
	"github.com/hiveswarm/hive/utils/log"
)

var joinFlags struct {
	torrent string
	file    string
	ip      string
	port    int
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join a torrent's swarm as a seeder or leecher.",
	Run: func(cmd *cobra.Command, args []string) {
		join()
	},
}

func init() {
	joinCmd.Flags().StringVarP(&joinFlags.torrent, "torrent", "t", "", "path to torrent metafile")
	joinCmd.Flags().StringVarP(&joinFlags.file, "file", "f", "", "path to the local copy of the shared file")
	joinCmd.Flags().StringVarP(&joinFlags.ip, "ip", "", "", "this peer's IP address")
	joinCmd.Flags().IntVarP(&joinFlags.port, "port", "p", 0, "this peer's listen port")
	joinCmd.MarkFlagRequired("torrent")
	joinCmd.MarkFlagRequired("file")
	joinCmd.MarkFlagRequired("ip")
	joinCmd.MarkFlagRequired("port")
}

func join() {
	config := loadConfig()

	meta, err := metainfo.LoadMetainfo(joinFlags.torrent)
	if err != nil {
		log.Fatalf("Failed to load torrent: %s", err)
	}

	stdin := bufio.NewReader(os.Stdin)
	seeding := prompt(stdin, "Are you a seeder (yes/no): ") == "yes"

	var (
		file         *fileio.File
		state        *peerstate.State
		initialState core.PieceState
	)
	if seeding {
		initialState = core.PieceAvailable
		state = peerstate.New(0)
	} else {
		initialState = core.PieceUnavailable
		state = peerstate.New(int64(meta.NumPieces()))
		if err := fileio.Preallocate(joinFlags.file, meta.FileLength); err != nil {
			log.Fatalf("Failed to allocate file: %s", err)
		}
	}
	file, err = fileio.Open(joinFlags.file)
	if err != nil {
		log.Fatalf("Failed to open file: %s", err)
	}
	defer file.Close()

	tracker := piecetracker.New(meta.NumPieces(), initialState)

	stats, closer, err := metrics.New(config.Metrics, "hive-peer")
	if err != nil {
		log.Fatalf("Failed to init metrics: %s", err)
	}
	defer closer.Close()

	peerID, err := core.GeneratePeerID(clientPrefix)
	if err != nil {
		log.Fatalf("Failed to generate peer id: %s", err)
	}

	a := announcer.New(meta.AnnounceURL, meta.InfoHash, peerID, joinFlags.ip, joinFlags.port, state)

	interval, peers, err := a.StartedAnnounce()
	if err != nil {
		log.Fatalf("Failed to announce to tracker: %s", err)
	}
	fmt.Printf("%+v\n", core.SortedByPeerID(peers))

	swarm := &announcer.SwarmList{}
	swarm.Replace(peers)

	ra := announcer.NewReAnnouncer(a, swarm, time.Duration(interval)*time.Second, 0)

	addr := net.JoinHostPort(joinFlags.ip, strconv.Itoa(joinFlags.port))
	l, err := listener.New(addr, meta, file, tracker, state, stats)
	if err != nil {
		log.Fatalf("Failed to start listener: %s", err)
	}

	var g errgroup.Group
	g.Go(l.Serve)
	go ra.Run()

	if !seeding {
		tk := talker.New(peerID, meta, file, tracker, state, swarm, config.Talker, stats)
		g.Go(func() error {
			tk.Run()
			return nil
		})
	}

	go func() {
		if err := g.Wait(); err != nil {
			log.Warnf("peer: background component exited: %s", err)
		}
	}()

	progress.Display(os.Stdout, int64(meta.NumPieces()), state.Left, 100*time.Millisecond)

	for {
		answer := prompt(stdin, "Download successfully, continue to seed? (yes/no): ")
		if answer == "no" {
			if err := a.StopAnnounce(); err != nil {
				log.Warnf("peer: stop announce: %s", err)
			}
			ra.Stop()
			l.Close()
			return
		}
		fmt.Println("Seeding...")
	}
}

func prompt(r *bufio.Reader, question string) string {
	fmt.Print(question)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
