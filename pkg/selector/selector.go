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

// Package selector implements utilization-based selection of FSx for ONTAP
// file systems. Candidates are ranked by a weighted combination of observed
// throughput and capacity utilization, both normalized against the maximum
// observed across the candidate set, and the least-loaded candidate wins.
package selector

import (
	"errors"
)

// ErrNoCandidates is returned when selection is attempted over an empty
// candidate set.
var ErrNoCandidates = errors.New("no candidate file systems to select from")

// Candidate is a storage system eligible for selection, together with the
// capacity and throughput figures observed for it.
type Candidate struct {
	// FileSystemID identifies the storage system.
	FileSystemID string

	// ConsumedBytes is the storage currently in use.
	ConsumedBytes int64

	// TotalBytes is the provisioned storage capacity.
	TotalBytes int64

	// Throughput is the average operations per second observed over the
	// metric lookback window.
	Throughput float64
}

// Weights holds the relative importance of the two utilization terms.
// They are not required to sum to 1.
type Weights struct {
	// IOPS weighs the normalized throughput term.
	IOPS float64

	// Capacity weighs the normalized capacity-utilization term.
	Capacity float64
}

// DefaultWeights returns the reference configuration: an unweighted average
// of throughput and capacity utilization.
func DefaultWeights() Weights {
	return Weights{IOPS: 0.5, Capacity: 0.5}
}

// ScoredCandidate is a Candidate annotated with its normalized utilization
// terms and combined score.
type ScoredCandidate struct {
	Candidate

	// CapacityPercent is consumed/total expressed as a percentage,
	// 0 when the total capacity is unknown.
	CapacityPercent float64

	// NormThroughput is Throughput relative to the maximum observed
	// across all candidates, in [0,1].
	NormThroughput float64

	// NormCapacity is CapacityPercent relative to the maximum observed
	// across all candidates, in [0,1].
	NormCapacity float64

	// Score is the weighted sum of the two normalized terms. Lower is
	// less utilized.
	Score float64
}

// capacityPercent computes the capacity utilization of a candidate,
// guarding against unknown (zero) total capacity.
func capacityPercent(c Candidate) float64 {
	if c.TotalBytes == 0 {
		return 0
	}
	return float64(c.ConsumedBytes) / float64(c.TotalBytes) * 100
}

// Score computes the normalized utilization terms and combined score for
// every candidate, preserving input order. The normalization denominators
// are floored at 1 so that a candidate set reporting zero throughput or
// zero capacity everywhere scores without a division fault.
func Score(candidates []Candidate, weights Weights) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))

	maxThroughput := 1.0
	maxCapacityPercent := 1.0
	for _, c := range candidates {
		if c.Throughput > maxThroughput {
			maxThroughput = c.Throughput
		}
		if pct := capacityPercent(c); pct > maxCapacityPercent {
			maxCapacityPercent = pct
		}
	}

	for _, c := range candidates {
		pct := capacityPercent(c)
		normThroughput := c.Throughput / maxThroughput
		normCapacity := pct / maxCapacityPercent

		scored = append(scored, ScoredCandidate{
			Candidate:       c,
			CapacityPercent: pct,
			NormThroughput:  normThroughput,
			NormCapacity:    normCapacity,
			Score:           weights.IOPS*normThroughput + weights.Capacity*normCapacity,
		})
	}

	return scored
}

// Select returns the candidate with the strictly smallest combined score.
// Ties keep the earliest-listed candidate: the scan compares with < and
// proceeds left to right. Selection over an empty set is undefined and
// fails with ErrNoCandidates.
func Select(candidates []Candidate, weights Weights) (ScoredCandidate, error) {
	if len(candidates) == 0 {
		return ScoredCandidate{}, ErrNoCandidates
	}

	scored := Score(candidates, weights)

	selected := scored[0]
	for _, s := range scored[1:] {
		if s.Score < selected.Score {
			selected = s
		}
	}

	return selected, nil
}
