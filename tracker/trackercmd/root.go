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
package trackercmd

import (
	"net/http"

	"github.com/andres-erbsen/clock"
	"github.com/spf13/cobra"

	"github.com/hiveswarm/hive/metrics"
	"github.com/hiveswarm/hive/tracker/swarmstore"
	"github.com/hiveswarm/hive/tracker/trackerserver"
	"github.com/hiveswarm/hive/utils/configutil"
	"github.com/hiveswarm/hive/utils/log"
)

var configFile string

var rootCmd = &cobra.Command{
	Short: "hive-tracker keeps track of which peers are announcing for which swarms.",
	Run: func(cmd *cobra.Command, args []string) {
		start()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "", "", "configuration file path")
}

// Execute runs the tracker root command.
func Execute() {
	rootCmd.Execute()
}

func start() {
	var config Config
	if configFile != "" {
		if err := configutil.Load(configFile, &config); err != nil {
			panic(err)
		}
	}
	config.applyDefaults()

	log.ConfigureLogger(config.ZapLogging)

	stats, closer, err := metrics.New(config.Metrics, "hive-tracker")
	if err != nil {
		log.Fatalf("Failed to init metrics: %s", err)
	}
	defer closer.Close()

	clk := clock.New()

	registry, err := swarmstore.New(config.SwarmStore, clk)
	if err != nil {
		log.Fatalf("Failed to init swarm registry: %s", err)
	}
	defer registry.Close()

	cleaner := trackerserver.NewCleaner(config.TrackerServer, registry, clk)
	defer cleaner.Stop()

	h := trackerserver.Handler(config.TrackerServer, registry, clk, stats)

	log.Infof("Starting hive-tracker on %s", config.Addr)
	log.Fatal(http.ListenAndServe(config.Addr, h))
}
