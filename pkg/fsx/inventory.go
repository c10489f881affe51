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

	"github.com/aws/aws-sdk-go-v2/service/fsx"
	"github.com/aws/aws-sdk-go-v2/service/fsx/types"
)

const gibibyte = int64(1) << 30

// FSxAPI is the slice of the FSx service client the inventory uses.
// Narrowing the dependency keeps the inventory testable without AWS.
type FSxAPI interface {
	DescribeFileSystems(
		ctx context.Context,
		params *fsx.DescribeFileSystemsInput,
		optFns ...func(*fsx.Options),
	) (*fsx.DescribeFileSystemsOutput, error)
	DescribeStorageVirtualMachines(
		ctx context.Context,
		params *fsx.DescribeStorageVirtualMachinesInput,
		optFns ...func(*fsx.Options),
	) (*fsx.DescribeStorageVirtualMachinesOutput, error)
}

// AWSInventory implements Inventory over the FSx API.
type AWSInventory struct {
	api FSxAPI
}

// NewAWSInventory creates an inventory backed by the given FSx client.
func NewAWSInventory(api FSxAPI) *AWSInventory {
	return &AWSInventory{api: api}
}

// ListONTAPFileSystems lists every file system in the region and keeps the
// ONTAP ones carrying the tag. DescribeFileSystems offers no server-side
// tag filter, so the filtering happens here.
func (inv *AWSInventory) ListONTAPFileSystems(
	ctx context.Context,
	tagKey, tagValue string,
) ([]FileSystem, error) {
	var matched []FileSystem

	paginator := fsx.NewDescribeFileSystemsPaginator(inv.api, &fsx.DescribeFileSystemsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing file systems: %w", err)
		}

		for _, fs := range page.FileSystems {
			if fs.FileSystemType != types.FileSystemTypeOntap || fs.FileSystemId == nil {
				continue
			}

			tags := tagMap(fs.Tags)
			if tags[tagKey] != tagValue {
				continue
			}

			var totalBytes int64
			if fs.StorageCapacity != nil {
				totalBytes = int64(*fs.StorageCapacity) * gibibyte
			}

			matched = append(matched, FileSystem{
				ID:         *fs.FileSystemId,
				TotalBytes: totalBytes,
				Tags:       tags,
			})
		}
	}

	if len(matched) == 0 {
		return nil, fmt.Errorf("tag %s=%s: %w", tagKey, tagValue, ErrNoFileSystems)
	}

	return matched, nil
}

// FileSystemEndpoints describes one file system and extracts its
// management and inter-cluster addresses.
func (inv *AWSInventory) FileSystemEndpoints(
	ctx context.Context,
	fileSystemID string,
) (*Endpoints, error) {
	out, err := inv.api.DescribeFileSystems(ctx, &fsx.DescribeFileSystemsInput{
		FileSystemIds: []string{fileSystemID},
	})
	if err != nil {
		return nil, fmt.Errorf("describing file system %s: %w", fileSystemID, err)
	}
	if len(out.FileSystems) == 0 {
		return nil, fmt.Errorf("file system %s: %w", fileSystemID, ErrNoFileSystems)
	}

	cfg := out.FileSystems[0].OntapConfiguration
	if cfg == nil || cfg.Endpoints == nil {
		return nil, fmt.Errorf("file system %s has no ONTAP endpoints", fileSystemID)
	}

	endpoints := &Endpoints{}
	if cfg.Endpoints.Management != nil {
		endpoints.ManagementIPs = cfg.Endpoints.Management.IpAddresses
	}
	if cfg.Endpoints.Intercluster != nil {
		endpoints.InterclusterIPs = cfg.Endpoints.Intercluster.IpAddresses
	}

	return endpoints, nil
}

// LookupSVM finds an SVM by name within a file system. The API filters by
// file system; the name match happens here.
func (inv *AWSInventory) LookupSVM(
	ctx context.Context,
	fileSystemID, name string,
) (*SVM, error) {
	out, err := inv.api.DescribeStorageVirtualMachines(ctx, &fsx.DescribeStorageVirtualMachinesInput{
		Filters: []types.StorageVirtualMachineFilter{
			{
				Name:   types.StorageVirtualMachineFilterNameFileSystemId,
				Values: []string{fileSystemID},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing SVMs of file system %s: %w", fileSystemID, err)
	}

	for _, svm := range out.StorageVirtualMachines {
		if svm.Name == nil || *svm.Name != name {
			continue
		}

		found := &SVM{
			Name:         name,
			FileSystemID: fileSystemID,
		}
		if svm.StorageVirtualMachineId != nil {
			found.ID = *svm.StorageVirtualMachineId
		}
		if svm.Endpoints != nil && svm.Endpoints.Iscsi != nil {
			found.IscsiIPs = svm.Endpoints.Iscsi.IpAddresses
		}

		return found, nil
	}

	return nil, fmt.Errorf("SVM %q on file system %s: %w", name, fileSystemID, ErrSVMNotFound)
}

func tagMap(tags []types.Tag) map[string]string {
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key != nil && tag.Value != nil {
			result[*tag.Key] = *tag.Value
		}
	}
	return result
}
