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

	"github.com/spf13/cobra"

	"github.com/hiveswarm/hive/lib/metainfo"
)

var metaFlags struct {
	torrent string
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Print a torrent metafile's fields, with piece hashes elided.",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := metainfo.LoadMetainfo(metaFlags.torrent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hive-peer: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("announce: %s\n", m.AnnounceURL)
		fmt.Printf("name: %s\n", m.FileName)
		fmt.Printf("length: %d\n", m.FileLength)
		fmt.Printf("piece length: %d\n", m.PieceLength)
		fmt.Printf("pieces: %d\n", m.NumPieces())
		fmt.Printf("info_hash: %s\n", m.InfoHash.Hex())
	},
}

func init() {
	metaCmd.Flags().StringVarP(&metaFlags.torrent, "torrent", "t", "", "path to torrent metafile")
	metaCmd.MarkFlagRequired("torrent")
}
