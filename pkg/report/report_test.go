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

package report

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Selection", func() {
	selection := Selection{
		SVMName:         "SVM1",
		FileSystemID:    "fs-0123456789abcdef0",
		ManagementIP:    "10.0.0.10",
		IscsiIPs:        []string{"10.0.1.5", "10.0.1.6"},
		InterclusterIPs: []string{"10.0.0.1", "10.0.0.2"},
		AverageIOPS:     125.5,
		CapacityPercent: 48.375,
	}

	Describe("Text", func() {
		It("renders the fixed field layout", func() {
			Expect(selection.Text()).To(Equal(
				`Results for SVM 'SVM1' in File System 'fs-0123456789abcdef0':
Cluster Management IP: 10.0.0.10
SVM iSCSI IPs: 10.0.1.5, 10.0.1.6
Inter-Cluster IPs: 10.0.0.1, 10.0.0.2
Average IOPS: 125.5
Capacity Utilization: 48.38%`))
		})
	})

	Describe("WriteFile", func() {
		It("persists the artifact with a trailing newline", func() {
			path := filepath.Join(GinkgoT().TempDir(), "fsx_ontap_ips.txt")
			Expect(selection.WriteFile(path)).To(Succeed())

			content, err := os.ReadFile(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(content)).To(Equal(selection.Text() + "\n"))
		})
	})

	Describe("Render", func() {
		It("includes every address in the console table", func() {
			var buf bytes.Buffer
			selection.Render(&buf)

			out := buf.String()
			Expect(out).To(ContainSubstring("fs-0123456789abcdef0"))
			Expect(out).To(ContainSubstring("10.0.0.10"))
			Expect(out).To(ContainSubstring("10.0.1.5, 10.0.1.6"))
			Expect(out).To(ContainSubstring("10.0.0.1, 10.0.0.2"))
			Expect(out).To(ContainSubstring("48.38%"))
		})
	})
})
