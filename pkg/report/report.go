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

// Package report renders the result of a file-system selection, both as
// the plain-text artifact downstream tooling consumes and as a console
// table for the operator.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/logrusorgru/aurora/v4"
)

// DefaultOutputFile is where the selection artifact lands when no path is
// configured.
const DefaultOutputFile = "fsx_ontap_ips.txt"

// Selection is the outcome of a select-filesystem run.
type Selection struct {
	SVMName         string
	FileSystemID    string
	ManagementIP    string
	IscsiIPs        []string
	InterclusterIPs []string
	AverageIOPS     float64
	CapacityPercent float64
}

// Text renders the fixed-layout plain-text artifact. The field layout is
// part of the contract with downstream consumers and must not change.
func (s Selection) Text() string {
	return fmt.Sprintf(
		`Results for SVM '%s' in File System '%s':
Cluster Management IP: %s
SVM iSCSI IPs: %s
Inter-Cluster IPs: %s
Average IOPS: %g
Capacity Utilization: %.2f%%`,
		s.SVMName,
		s.FileSystemID,
		s.ManagementIP,
		strings.Join(s.IscsiIPs, ", "),
		strings.Join(s.InterclusterIPs, ", "),
		s.AverageIOPS,
		s.CapacityPercent,
	)
}

// WriteFile persists the artifact to path.
func (s Selection) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(s.Text()+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}

// Render prints a console table of the selection.
func (s Selection) Render(w io.Writer) {
	fmt.Fprintf(w, "Selected file system: %s\n\n", aurora.Bold(s.FileSystemID))

	t := tabby.NewCustom(newTabWriter(w))
	t.AddLine("SVM:", s.SVMName)
	t.AddLine("Cluster Management IP:", s.ManagementIP)
	t.AddLine("SVM iSCSI IPs:", strings.Join(s.IscsiIPs, ", "))
	t.AddLine("Inter-Cluster IPs:", strings.Join(s.InterclusterIPs, ", "))
	t.AddLine("Average IOPS:", fmt.Sprintf("%g", s.AverageIOPS))
	t.AddLine("Capacity Utilization:", fmt.Sprintf("%.2f%%", s.CapacityPercent))
	t.Print()
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
