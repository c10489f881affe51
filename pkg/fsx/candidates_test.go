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
	"errors"
	"time"

	"go.uber.org/zap/zaptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeInventory struct {
	fileSystems []FileSystem
	listErr     error
}

func (f *fakeInventory) ListONTAPFileSystems(
	_ context.Context, _, _ string,
) ([]FileSystem, error) {
	return f.fileSystems, f.listErr
}

func (f *fakeInventory) FileSystemEndpoints(_ context.Context, _ string) (*Endpoints, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeInventory) LookupSVM(_ context.Context, _, _ string) (*SVM, error) {
	return nil, errors.New("not implemented")
}

type fakeMetrics struct {
	iops    map[string]float64
	used    map[string]float64
	iopsErr map[string]error
	usedErr map[string]error
}

func (f *fakeMetrics) AverageIOPS(
	_ context.Context, fileSystemID string, _, _ time.Duration,
) (float64, error) {
	if err := f.iopsErr[fileSystemID]; err != nil {
		return 0, err
	}
	return f.iops[fileSystemID], nil
}

func (f *fakeMetrics) StorageUsedBytes(
	_ context.Context, fileSystemID string, _, _ time.Duration,
) (float64, error) {
	if err := f.usedErr[fileSystemID]; err != nil {
		return 0, err
	}
	return f.used[fileSystemID], nil
}

var _ = Describe("CandidateSource", func() {
	It("builds one candidate per file system, in listing order", func() {
		source := &CandidateSource{
			Inventory: &fakeInventory{fileSystems: []FileSystem{
				{ID: "fs-a", TotalBytes: 100},
				{ID: "fs-b", TotalBytes: 200},
			}},
			Metrics: &fakeMetrics{
				iops: map[string]float64{"fs-a": 20, "fs-b": 100},
				used: map[string]float64{"fs-a": 50, "fs-b": 80},
			},
			Logger: zaptest.NewLogger(GinkgoT()).Sugar(),
		}

		candidates, err := source.Collect(context.Background(), "k", "v", time.Hour, time.Hour)
		Expect(err).ToNot(HaveOccurred())
		Expect(candidates).To(HaveLen(2))
		Expect(candidates[0].FileSystemID).To(Equal("fs-a"))
		Expect(candidates[0].Throughput).To(Equal(20.0))
		Expect(candidates[0].ConsumedBytes).To(Equal(int64(50)))
		Expect(candidates[1].FileSystemID).To(Equal("fs-b"))
	})

	It("degrades failed metric queries to zero instead of aborting", func() {
		source := &CandidateSource{
			Inventory: &fakeInventory{fileSystems: []FileSystem{
				{ID: "fs-a", TotalBytes: 100},
				{ID: "fs-b", TotalBytes: 100},
			}},
			Metrics: &fakeMetrics{
				iops:    map[string]float64{"fs-b": 100},
				used:    map[string]float64{"fs-b": 80},
				iopsErr: map[string]error{"fs-a": errors.New("throttled")},
				usedErr: map[string]error{"fs-a": errors.New("throttled")},
			},
			Logger: zaptest.NewLogger(GinkgoT()).Sugar(),
		}

		candidates, err := source.Collect(context.Background(), "k", "v", time.Hour, time.Hour)
		Expect(err).ToNot(HaveOccurred())
		Expect(candidates[0].Throughput).To(BeZero())
		Expect(candidates[0].ConsumedBytes).To(BeZero())
		Expect(candidates[1].Throughput).To(Equal(100.0))
	})

	It("propagates listing failures", func() {
		source := &CandidateSource{
			Inventory: &fakeInventory{listErr: ErrNoFileSystems},
			Metrics:   &fakeMetrics{},
			Logger:    zaptest.NewLogger(GinkgoT()).Sugar(),
		}

		_, err := source.Collect(context.Background(), "k", "v", time.Hour, time.Hour)
		Expect(err).To(MatchError(ErrNoFileSystems))
	})
})
