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
	"github.com/spf13/cobra"

	"github.com/hiveswarm/hive/utils/configutil"
	"github.com/hiveswarm/hive/utils/log"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "hive-peer",
	Short: "hive-peer creates, inspects, and shares torrents with a tracker-coordinated swarm.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "", "", "configuration file path")
	rootCmd.AddCommand(torrentCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(joinCmd)
}

// Execute runs the peer root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() Config {
	var config Config
	if configFile != "" {
		if err := configutil.Load(configFile, &config); err != nil {
			log.Fatalf("Failed to load config: %s", err)
		}
	}
	config.applyDefaults()
	log.ConfigureLogger(config.ZapLogging)
	return config
}
