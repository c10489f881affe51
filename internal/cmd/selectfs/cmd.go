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

// Package selectfs implements the select-filesystem subcommand: pick the
// least utilized tagged FSx for ONTAP file system and export its
// management, iSCSI and inter-cluster addresses.
package selectfs

import (
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsfsx "github.com/aws/aws-sdk-go-v2/service/fsx"
	"github.com/spf13/cobra"

	"github.com/fsxops/fsxops/internal/cmd/cmdutil"
	"github.com/fsxops/fsxops/pkg/fsx"
)

// NewCmd creates the select-filesystem subcommand.
func NewCmd() *cobra.Command {
	var configFile string
	flagCfg := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "select-filesystem",
		Short: "Select the least utilized tagged FSx for ONTAP file system",
		Long: `Selects the FSx for ONTAP file system with the lowest combined
IOPS and capacity utilization among those carrying the given tag, then
writes its management, iSCSI and inter-cluster addresses to a report file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := DefaultConfig()
			if configFile != "" {
				loaded, err := LoadFile(configFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			mergeFlags(cmd, &cfg, flagCfg)

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cmdutil.NewLogger(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx := cmd.Context()

			var awsOpts []func(*awsconfig.LoadOptions) error
			if cfg.Region != "" {
				awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.Region))
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
			if err != nil {
				return err
			}

			runner := &Runner{
				Inventory: fsx.NewAWSInventory(awsfsx.NewFromConfig(awsCfg)),
				Metrics:   fsx.NewCloudWatchMetrics(cloudwatch.NewFromConfig(awsCfg)),
				Logger:    logger,
				Out:       os.Stdout,
			}
			return runner.Run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	cmd.Flags().StringVar(&flagCfg.Region, "region", "", "AWS region (default: SDK default chain)")
	cmd.Flags().StringVar(&flagCfg.TagKey, "tag-key", "", "Tag key candidates must carry")
	cmd.Flags().StringVar(&flagCfg.TagValue, "tag-value", "", "Tag value candidates must carry")
	cmd.Flags().StringVar(&flagCfg.SVMName, "svm", "", "SVM whose iSCSI addresses are exported")
	cmd.Flags().DurationVar(&flagCfg.MetricWindow, "metric-window", flagCfg.MetricWindow,
		"Lookback window for metric queries")
	cmd.Flags().DurationVar(&flagCfg.MetricPeriod, "metric-period", flagCfg.MetricPeriod,
		"Aggregation period for metric queries")
	cmd.Flags().Float64Var(&flagCfg.IOPSWeight, "iops-weight", flagCfg.IOPSWeight,
		"Weight of the IOPS term in the utilization score")
	cmd.Flags().Float64Var(&flagCfg.CapacityWeight, "capacity-weight", flagCfg.CapacityWeight,
		"Weight of the capacity term in the utilization score")
	cmd.Flags().StringVar(&flagCfg.OutputFile, "output-file", flagCfg.OutputFile,
		"Path of the plain-text report")

	return cmd
}

// mergeFlags overlays explicitly set flags onto cfg, so flags win over the
// configuration file.
func mergeFlags(cmd *cobra.Command, cfg *Config, flagCfg Config) {
	if cmd.Flags().Changed("region") {
		cfg.Region = flagCfg.Region
	}
	if cmd.Flags().Changed("tag-key") {
		cfg.TagKey = flagCfg.TagKey
	}
	if cmd.Flags().Changed("tag-value") {
		cfg.TagValue = flagCfg.TagValue
	}
	if cmd.Flags().Changed("svm") {
		cfg.SVMName = flagCfg.SVMName
	}
	if cmd.Flags().Changed("metric-window") {
		cfg.MetricWindow = flagCfg.MetricWindow
	}
	if cmd.Flags().Changed("metric-period") {
		cfg.MetricPeriod = flagCfg.MetricPeriod
	}
	if cmd.Flags().Changed("iops-weight") {
		cfg.IOPSWeight = flagCfg.IOPSWeight
	}
	if cmd.Flags().Changed("capacity-weight") {
		cfg.CapacityWeight = flagCfg.CapacityWeight
	}
	if cmd.Flags().Changed("output-file") {
		cfg.OutputFile = flagCfg.OutputFile
	}
}
