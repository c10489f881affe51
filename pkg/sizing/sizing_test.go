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

package sizing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LUNSizeFor", func() {
	It("keeps 95% of the volume, truncating toward zero", func() {
		Expect(LUNSizeFor(100)).To(Equal(int64(95)))
		Expect(LUNSizeFor(1000)).To(Equal(int64(950)))
		Expect(LUNSizeFor(1)).To(Equal(int64(0)))
	})

	It("handles realistic volume sizes", func() {
		hundredGi := int64(100) << 30
		Expect(LUNSizeFor(hundredGi)).To(Equal(int64(float64(hundredGi) * 0.95)))
	})

	It("is zero for a zero volume", func() {
		Expect(LUNSizeFor(0)).To(BeZero())
	})
})

var _ = Describe("ParseSize", func() {
	It("accepts raw byte counts", func() {
		bytes, err := ParseSize("107374182400")
		Expect(err).ToNot(HaveOccurred())
		Expect(bytes).To(Equal(int64(107374182400)))
	})

	It("accepts quantity notation", func() {
		bytes, err := ParseSize("100Gi")
		Expect(err).ToNot(HaveOccurred())
		Expect(bytes).To(Equal(int64(100) << 30))
	})

	It("rejects negative sizes", func() {
		_, err := ParseSize("-5")
		Expect(err).To(HaveOccurred())

		_, err = ParseSize("-5Gi")
		Expect(err).To(HaveOccurred())
	})

	It("rejects garbage", func() {
		_, err := ParseSize("a-lot")
		Expect(err).To(HaveOccurred())
	})
})
