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
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	metricNamespace   = "AWS/FSx"
	metricTotalIops   = "TotalIops"
	metricStorageUsed = "StorageUsed"

	fileSystemDimension = "FileSystemId"
)

// CloudWatchAPI is the slice of the CloudWatch client the metrics source uses.
type CloudWatchAPI interface {
	GetMetricStatistics(
		ctx context.Context,
		params *cloudwatch.GetMetricStatisticsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// CloudWatchMetrics implements Metrics over the CloudWatch API.
type CloudWatchMetrics struct {
	api CloudWatchAPI

	// now is injected for tests.
	now func() time.Time
}

// NewCloudWatchMetrics creates a metrics source backed by the given
// CloudWatch client.
func NewCloudWatchMetrics(api CloudWatchAPI) *CloudWatchMetrics {
	return &CloudWatchMetrics{api: api, now: time.Now}
}

// AverageIOPS queries the AWS/FSx TotalIops Average statistic. A window
// with no datapoints yields 0, not an error: a freshly created file system
// has no samples yet and counts as idle.
func (m *CloudWatchMetrics) AverageIOPS(
	ctx context.Context,
	fileSystemID string,
	window, period time.Duration,
) (float64, error) {
	return m.latestAverage(ctx, metricTotalIops, fileSystemID, window, period)
}

// StorageUsedBytes queries the AWS/FSx StorageUsed Average statistic.
// DescribeFileSystems does not report consumed capacity, so the consumed
// figure comes from here.
func (m *CloudWatchMetrics) StorageUsedBytes(
	ctx context.Context,
	fileSystemID string,
	window, period time.Duration,
) (float64, error) {
	return m.latestAverage(ctx, metricStorageUsed, fileSystemID, window, period)
}

// latestAverage returns the Average of the most recent datapoint in the
// window, 0 when the window is empty.
func (m *CloudWatchMetrics) latestAverage(
	ctx context.Context,
	metricName, fileSystemID string,
	window, period time.Duration,
) (float64, error) {
	endTime := m.now().UTC()
	startTime := endTime.Add(-window)

	out, err := m.api.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(metricNamespace),
		MetricName: aws.String(metricName),
		Dimensions: []cwtypes.Dimension{
			{
				Name:  aws.String(fileSystemDimension),
				Value: aws.String(fileSystemID),
			},
		},
		StartTime:  aws.Time(startTime),
		EndTime:    aws.Time(endTime),
		Period:     aws.Int32(int32(period.Seconds())), //nolint:gosec
		Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage},
	})
	if err != nil {
		return 0, fmt.Errorf("querying %s for %s: %w", metricName, fileSystemID, err)
	}

	var latest *cwtypes.Datapoint
	for i := range out.Datapoints {
		dp := &out.Datapoints[i]
		if dp.Average == nil {
			continue
		}
		if latest == nil || (dp.Timestamp != nil && latest.Timestamp != nil &&
			dp.Timestamp.After(*latest.Timestamp)) {
			latest = dp
		}
	}
	if latest == nil {
		return 0, nil
	}

	return *latest.Average, nil
}
