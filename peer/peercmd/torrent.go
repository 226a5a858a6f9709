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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hiveswarm/hive/lib/metainfo"
)

const defaultPieceLength = 512 * 1024

var torrentFlags struct {
	file        string
	trackerIP   string
	trackerPort int
	pieceLength int64
	destination string
}

var torrentCmd = &cobra.Command{
	Use:   "torrent",
	Short: "Create a torrent metafile describing a file and its tracker.",
	Run: func(cmd *cobra.Command, args []string) {
		announceURL := fmt.Sprintf("http://%s:%d/announce", torrentFlags.trackerIP, torrentFlags.trackerPort)

		meta, err := metainfo.CreateMetainfo(torrentFlags.file, announceURL, torrentFlags.pieceLength)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hive-peer: %s\n", err)
			os.Exit(1)
		}

		out := filepath.Join(torrentFlags.destination, meta.FileName+".torrent")
		f, err := os.Create(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hive-peer: %s\n", err)
			os.Exit(1)
		}
		defer f.Close()

		if err := meta.Serialize(f); err != nil {
			fmt.Fprintf(os.Stderr, "hive-peer: %s\n", err)
			os.Exit(1)
		}

		fmt.Printf("Creating torrent from file %s\n", torrentFlags.file)
		fmt.Printf("Saving torrent to %s\n", out)
	},
}

func init() {
	torrentCmd.Flags().StringVarP(&torrentFlags.file, "file", "f", "", "name of file to share")
	torrentCmd.Flags().StringVarP(&torrentFlags.trackerIP, "ip", "", "", "IP address of tracker")
	torrentCmd.Flags().IntVarP(&torrentFlags.trackerPort, "port", "p", 0, "port of tracker")
	torrentCmd.Flags().Int64VarP(&torrentFlags.pieceLength, "piece-length", "l", defaultPieceLength, "length of piece in bytes")
	torrentCmd.Flags().StringVarP(&torrentFlags.destination, "destination", "d", ".", "destination directory for the metafile")
	torrentCmd.MarkFlagRequired("file")
	torrentCmd.MarkFlagRequired("ip")
	torrentCmd.MarkFlagRequired("port")
	torrentCmd.MarkFlagRequired("destination")
}
