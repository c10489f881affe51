/*
Copyright The FSxOps Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package peer implements the peer subcommand: establish cluster peering
// and SVM peering between two ONTAP clusters.
package peer

import (
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-password/password"
	"github.com/spf13/cobra"

	"github.com/fsxops/fsxops/internal/cmd/cmdutil"
	"github.com/fsxops/fsxops/pkg/maintenance"
	"github.com/fsxops/fsxops/pkg/ontap"
)

const generatedPassphraseLength = 32

// NewCmd creates the peer subcommand.
func NewCmd() *cobra.Command {
	var (
		sourceHost     string
		sourceName     string
		sourceUsername string
		sourcePassword string
		sourceLIFs     []string
		sourceSVM      string

		destinationHost     string
		destinationName     string
		destinationUsername string
		destinationPassword string
		destinationLIFs     []string
		destinationSVM      string

		passphrase   string
		insecureTLS  bool
		peerTimeout  time.Duration
		pollInterval time.Duration
		settleDelay  time.Duration

		windowSchedule string
		windowDuration time.Duration
		windowTimezone string
	)

	cmd := &cobra.Command{
		Use:   "peer",
		Short: "Establish cluster and SVM peering between two ONTAP clusters",
		Long: `Creates a cluster peer object on each of the two clusters, waits for
the relation to become available, then initiates SVM peering from the
source cluster and accepts it on the destination.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := cmdutil.NewLogger(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			resolvedSourcePassword, err := cmdutil.ResolvePassword(sourcePassword,
				"ONTAP password for "+sourceUsername+"@"+sourceHost)
			if err != nil {
				return err
			}
			resolvedDestinationPassword, err := cmdutil.ResolvePassword(destinationPassword,
				"ONTAP password for "+destinationUsername+"@"+destinationHost)
			if err != nil {
				return err
			}

			if passphrase == "" {
				passphrase, err = password.Generate(
					generatedPassphraseLength, 10, 0, false, false)
				if err != nil {
					return fmt.Errorf("generating peer passphrase: %w", err)
				}
				// Printed once so the operator can keep it; it is
				// needed again to repair a half-established peering.
				fmt.Fprintf(os.Stderr, "Generated cluster peer passphrase: %s\n", passphrase)
			}

			var opts []ontap.Option
			if insecureTLS {
				opts = append(opts, ontap.WithInsecureTLS())
			}
			source := ontap.NewClient(sourceHost, sourceUsername, resolvedSourcePassword, opts...)
			destination := ontap.NewClient(
				destinationHost, destinationUsername, resolvedDestinationPassword, opts...)

			cfg := Config{
				Source: ClusterConfig{
					Name: sourceName,
					LIFs: sourceLIFs,
					SVM:  sourceSVM,
				},
				Destination: ClusterConfig{
					Name: destinationName,
					LIFs: destinationLIFs,
					SVM:  destinationSVM,
				},
				Passphrase:   passphrase,
				PeerTimeout:  peerTimeout,
				PollInterval: pollInterval,
				SettleDelay:  settleDelay,
				Window: maintenance.Window{
					Schedule: windowSchedule,
					Duration: windowDuration,
					Timezone: windowTimezone,
				},
			}
			return Run(cmd.Context(), source, destination, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&sourceHost, "source-cluster", "",
		"Source cluster management address")
	cmd.Flags().StringVar(&sourceName, "source-name", "source_cluster",
		"Name the destination will know the source cluster by")
	cmd.Flags().StringVar(&sourceUsername, "source-username", "fsxadmin",
		"Source cluster admin user")
	cmd.Flags().StringVar(&sourcePassword, "source-password", "",
		"Source cluster admin password (prompted when omitted)")
	cmd.Flags().StringSliceVar(&sourceLIFs, "source-lifs", nil,
		"Source cluster inter-cluster LIF addresses")
	cmd.Flags().StringVar(&sourceSVM, "source-svm", "",
		"SVM on the source cluster")

	cmd.Flags().StringVar(&destinationHost, "destination-cluster", "",
		"Destination cluster management address")
	cmd.Flags().StringVar(&destinationName, "destination-name", "dest_cluster",
		"Name the source will know the destination cluster by")
	cmd.Flags().StringVar(&destinationUsername, "destination-username", "fsxadmin",
		"Destination cluster admin user")
	cmd.Flags().StringVar(&destinationPassword, "destination-password", "",
		"Destination cluster admin password (prompted when omitted)")
	cmd.Flags().StringSliceVar(&destinationLIFs, "destination-lifs", nil,
		"Destination cluster inter-cluster LIF addresses")
	cmd.Flags().StringVar(&destinationSVM, "destination-svm", "",
		"SVM on the destination cluster")

	cmd.Flags().StringVar(&passphrase, "passphrase", "",
		"Cluster peer passphrase (generated when omitted)")
	cmd.Flags().BoolVar(&insecureTLS, "insecure-tls", false,
		"Skip TLS certificate verification")
	cmd.Flags().DurationVar(&peerTimeout, "peer-timeout", 2*time.Minute,
		"How long to wait for cluster peers to become available")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 5*time.Second,
		"Interval between cluster peer state checks")
	cmd.Flags().DurationVar(&settleDelay, "settle-delay", 0,
		"Fixed delay instead of state polling (fallback, 0 to disable)")
	cmd.Flags().StringVar(&windowSchedule, "maintenance-schedule", "",
		"6-field cron expression gating the operation (empty: always allowed)")
	cmd.Flags().DurationVar(&windowDuration, "maintenance-duration", maintenance.DefaultDuration,
		"Length of the maintenance window")
	cmd.Flags().StringVar(&windowTimezone, "maintenance-timezone", "",
		"IANA timezone of the maintenance window (default UTC)")

	for _, flag := range []string{
		"source-cluster", "source-lifs", "source-svm",
		"destination-cluster", "destination-lifs", "destination-svm",
	} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}
