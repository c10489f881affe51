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

// Package sizing computes the dependent sizes used when growing an ONTAP
// volume together with the LUN it contains.
package sizing

import (
	"fmt"
	"strconv"

	"k8s.io/apimachinery/pkg/api/resource"
)

// LUNReserveRatio is the share of the volume a contained LUN may occupy.
// The remaining 5% is reserved volume overhead. This is a policy constant.
const LUNReserveRatio = 0.95

// LUNSizeFor returns the LUN size for a volume of the given size in bytes,
// truncating toward zero.
func LUNSizeFor(volumeBytes int64) int64 {
	return int64(float64(volumeBytes) * LUNReserveRatio)
}

// ParseSize parses a size given either as a raw byte count ("107374182400")
// or in Kubernetes quantity notation ("100Gi", "1.5Ti") and returns bytes.
func ParseSize(value string) (int64, error) {
	if bytes, err := strconv.ParseInt(value, 10, 64); err == nil {
		if bytes < 0 {
			return 0, fmt.Errorf("size must not be negative: %d", bytes)
		}
		return bytes, nil
	}

	qty, err := resource.ParseQuantity(value)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if qty.Sign() < 0 {
		return 0, fmt.Errorf("size must not be negative: %s", value)
	}

	return qty.Value(), nil
}
