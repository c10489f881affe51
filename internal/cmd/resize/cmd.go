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

// Package resize implements the resize subcommand: grow an ONTAP volume
// and the LUN it contains, keeping a fixed 5% volume overhead.
package resize

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fsxops/fsxops/internal/cmd/cmdutil"
	"github.com/fsxops/fsxops/pkg/maintenance"
	"github.com/fsxops/fsxops/pkg/ontap"
	"github.com/fsxops/fsxops/pkg/sizing"
)

// NewCmd creates the resize subcommand.
func NewCmd() *cobra.Command {
	var (
		cluster     string
		vserver     string
		volume      string
		lunPath     string
		size        string
		username    string
		password    string
		insecureTLS bool

		windowSchedule string
		windowDuration time.Duration
		windowTimezone string
	)

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Grow an ONTAP volume and its contained LUN proportionally",
		Long: `Grows the named volume to the requested size and the LUN inside it
to 95% of that size, leaving the remainder as volume overhead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := cmdutil.NewLogger(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			sizeBytes, err := sizing.ParseSize(size)
			if err != nil {
				return err
			}

			resolvedPassword, err := cmdutil.ResolvePassword(password,
				"ONTAP password for "+username+"@"+cluster)
			if err != nil {
				return err
			}

			var opts []ontap.Option
			if insecureTLS {
				opts = append(opts, ontap.WithInsecureTLS())
			}
			client := ontap.NewClient(cluster, username, resolvedPassword, opts...)

			cfg := Config{
				VServer:   vserver,
				Volume:    volume,
				LUNPath:   lunPath,
				SizeBytes: sizeBytes,
				Window: maintenance.Window{
					Schedule: windowSchedule,
					Duration: windowDuration,
					Timezone: windowTimezone,
				},
			}
			return Run(cmd.Context(), client, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&cluster, "cluster", "", "ONTAP cluster management address")
	cmd.Flags().StringVar(&vserver, "vserver", "", "SVM owning the volume")
	cmd.Flags().StringVar(&volume, "volume", "", "Volume name")
	cmd.Flags().StringVar(&lunPath, "lun-path", "", "LUN path (e.g. /vol/vol1/lun1)")
	cmd.Flags().StringVar(&size, "size", "", "New volume size, bytes or quantity (e.g. 100Gi)")
	cmd.Flags().StringVar(&username, "username", "", "ONTAP admin user")
	cmd.Flags().StringVar(&password, "password", "",
		"ONTAP admin password (prompted when omitted)")
	cmd.Flags().BoolVar(&insecureTLS, "insecure-tls", false,
		"Skip TLS certificate verification")
	cmd.Flags().StringVar(&windowSchedule, "maintenance-schedule", "",
		"6-field cron expression gating the operation (empty: always allowed)")
	cmd.Flags().DurationVar(&windowDuration, "maintenance-duration", maintenance.DefaultDuration,
		"Length of the maintenance window")
	cmd.Flags().StringVar(&windowTimezone, "maintenance-timezone", "",
		"IANA timezone of the maintenance window (default UTC)")

	for _, flag := range []string{"cluster", "vserver", "volume", "lun-path", "size", "username"} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}
