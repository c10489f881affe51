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

package selectfs

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fsxops/fsxops/pkg/fsx"
	"github.com/fsxops/fsxops/pkg/report"
	"github.com/fsxops/fsxops/pkg/selector"
)

// Runner executes the selection flow against injected collaborators.
type Runner struct {
	Inventory fsx.Inventory
	Metrics   fsx.Metrics
	Logger    *zap.SugaredLogger
	Out       io.Writer
}

// Run lists the tagged candidates, selects the least utilized one, looks
// up the requested SVM on it and writes the address report.
func (r *Runner) Run(ctx context.Context, cfg Config) error {
	r.Logger.Infow("collecting candidate file systems",
		"tagKey", cfg.TagKey, "tagValue", cfg.TagValue,
		"metricWindow", cfg.MetricWindow, "metricPeriod", cfg.MetricPeriod)

	source := &fsx.CandidateSource{
		Inventory: r.Inventory,
		Metrics:   r.Metrics,
		Logger:    r.Logger,
	}
	candidates, err := source.Collect(ctx, cfg.TagKey, cfg.TagValue, cfg.MetricWindow, cfg.MetricPeriod)
	if err != nil {
		return err
	}

	selected, err := selector.Select(candidates, selector.Weights{
		IOPS:     cfg.IOPSWeight,
		Capacity: cfg.CapacityWeight,
	})
	if err != nil {
		return err
	}

	r.Logger.Infow("selected least utilized file system",
		"fileSystemID", selected.FileSystemID,
		"score", selected.Score,
		"averageIOPS", selected.Throughput,
		"capacityPercent", selected.CapacityPercent)

	endpoints, err := r.Inventory.FileSystemEndpoints(ctx, selected.FileSystemID)
	if err != nil {
		return err
	}
	if len(endpoints.ManagementIPs) == 0 {
		return fmt.Errorf("file system %s has no management address", selected.FileSystemID)
	}

	svm, err := r.Inventory.LookupSVM(ctx, selected.FileSystemID, cfg.SVMName)
	if err != nil {
		return err
	}

	sel := report.Selection{
		SVMName:         svm.Name,
		FileSystemID:    selected.FileSystemID,
		ManagementIP:    endpoints.ManagementIPs[0],
		IscsiIPs:        svm.IscsiIPs,
		InterclusterIPs: endpoints.InterclusterIPs,
		AverageIOPS:     selected.Throughput,
		CapacityPercent: selected.CapacityPercent,
	}

	sel.Render(r.Out)
	if err := sel.WriteFile(cfg.OutputFile); err != nil {
		return err
	}
	r.Logger.Infow("report written", "path", cfg.OutputFile)

	return nil
}
