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

package maintenance

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Window", func() {
	// Nightly window opening at 03:00 UTC.
	nightly := Window{
		Schedule: "0 0 3 * * *",
		Duration: 2 * time.Hour,
	}

	It("is always open when unconfigured", func() {
		open, err := Window{}.IsOpen(time.Now())
		Expect(err).ToNot(HaveOccurred())
		Expect(open).To(BeTrue())
	})

	It("is open inside the window", func() {
		open, err := nightly.IsOpen(time.Date(2026, 8, 30, 4, 30, 0, 0, time.UTC))
		Expect(err).ToNot(HaveOccurred())
		Expect(open).To(BeTrue())
	})

	It("is closed outside the window", func() {
		open, err := nightly.IsOpen(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
		Expect(err).ToNot(HaveOccurred())
		Expect(open).To(BeFalse())
	})

	It("is closed right after the window ends", func() {
		open, err := nightly.IsOpen(time.Date(2026, 8, 30, 5, 0, 0, 1, time.UTC))
		Expect(err).ToNot(HaveOccurred())
		Expect(open).To(BeFalse())
	})

	It("evaluates the schedule in the configured timezone", func() {
		window := Window{
			Schedule: "0 0 3 * * *",
			Duration: time.Hour,
			Timezone: "America/New_York",
		}

		// 03:30 in New York is 07:30 UTC during DST.
		open, err := window.IsOpen(time.Date(2026, 8, 30, 7, 30, 0, 0, time.UTC))
		Expect(err).ToNot(HaveOccurred())
		Expect(open).To(BeTrue())

		open, err = window.IsOpen(time.Date(2026, 8, 30, 3, 30, 0, 0, time.UTC))
		Expect(err).ToNot(HaveOccurred())
		Expect(open).To(BeFalse())
	})

	It("rejects an invalid schedule", func() {
		_, err := Window{Schedule: "not-cron"}.IsOpen(time.Now())
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown timezone", func() {
		window := Window{Schedule: "0 0 3 * * *", Timezone: "Mars/Olympus"}
		_, err := window.IsOpen(time.Now())
		Expect(err).To(HaveOccurred())
	})

	It("falls back to the default duration", func() {
		window := Window{Schedule: "0 0 3 * * *"}
		open, err := window.IsOpen(time.Date(2026, 8, 30, 4, 59, 0, 0, time.UTC))
		Expect(err).ToNot(HaveOccurred())
		Expect(open).To(BeTrue())
	})
})
