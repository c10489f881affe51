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

// Package cmd assembles the fsxops command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fsxops/fsxops/internal/cmd/peer"
	"github.com/fsxops/fsxops/internal/cmd/resize"
	"github.com/fsxops/fsxops/internal/cmd/selectfs"
)

// NewRootCmd creates the fsxops root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fsxops",
		Short: "Operational toolkit for NetApp ONTAP and AWS FSx for ONTAP storage",
		Long: `fsxops bundles the day-2 operations for FSx for ONTAP fleets:
selecting the least-utilized file system, growing a volume together with
its contained LUN, and peering two ONTAP clusters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(
		"log-level", "info", "Log level. One of debug|info|warn|error")

	rootCmd.AddCommand(selectfs.NewCmd())
	rootCmd.AddCommand(resize.NewCmd())
	rootCmd.AddCommand(peer.NewCmd())

	return rootCmd
}
