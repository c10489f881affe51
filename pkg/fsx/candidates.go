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

package fsx

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fsxops/fsxops/pkg/selector"
)

// CandidateSource builds selection candidates from the inventory and
// metrics collaborators.
type CandidateSource struct {
	Inventory Inventory
	Metrics   Metrics
	Logger    *zap.SugaredLogger
}

// Collect lists the tagged ONTAP file systems and attaches their observed
// throughput and consumed capacity. A failed metric query degrades that
// figure to 0 for the affected candidate instead of aborting the run; the
// failures are logged individually and summarized once.
func (s *CandidateSource) Collect(
	ctx context.Context,
	tagKey, tagValue string,
	window, period time.Duration,
) ([]selector.Candidate, error) {
	fileSystems, err := s.Inventory.ListONTAPFileSystems(ctx, tagKey, tagValue)
	if err != nil {
		return nil, err
	}

	var warnings error
	candidates := make([]selector.Candidate, 0, len(fileSystems))
	for _, fs := range fileSystems {
		iops, err := s.Metrics.AverageIOPS(ctx, fs.ID, window, period)
		if err != nil {
			s.Logger.Warnw("IOPS query failed, treating file system as idle",
				"fileSystemID", fs.ID, "error", err)
			warnings = multierr.Append(warnings, err)
			iops = 0
		}

		used, err := s.Metrics.StorageUsedBytes(ctx, fs.ID, window, period)
		if err != nil {
			s.Logger.Warnw("storage-used query failed, treating file system as empty",
				"fileSystemID", fs.ID, "error", err)
			warnings = multierr.Append(warnings, err)
			used = 0
		}

		candidates = append(candidates, selector.Candidate{
			FileSystemID:  fs.ID,
			ConsumedBytes: int64(used),
			TotalBytes:    fs.TotalBytes,
			Throughput:    iops,
		})
	}

	if warnings != nil {
		s.Logger.Warnw("selection proceeding with degraded metrics",
			"failedQueries", len(multierr.Errors(warnings)))
	}

	return candidates, nil
}
