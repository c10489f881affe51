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

// Package fsx wraps the AWS FSx and CloudWatch APIs behind the two
// collaborator interfaces the selection flow depends on: an inventory of
// tagged ONTAP file systems and a source of time-averaged metrics.
package fsx

import (
	"context"
	"errors"
	"time"
)

// ErrNoFileSystems reports that no ONTAP file system matched the tag filter.
var ErrNoFileSystems = errors.New("no matching ONTAP file systems")

// ErrSVMNotFound reports that the named SVM does not exist on the file system.
var ErrSVMNotFound = errors.New("SVM not found")

// FileSystem is an FSx for ONTAP file system from the inventory listing.
type FileSystem struct {
	// ID is the file system id (fs-xxxxxxxx).
	ID string

	// TotalBytes is the provisioned SSD storage capacity.
	TotalBytes int64

	// Tags are the resource tags.
	Tags map[string]string
}

// Endpoints are the network endpoints of a file system relevant to
// operations: the cluster management address and the inter-cluster LIF
// addresses used for peering traffic.
type Endpoints struct {
	ManagementIPs   []string
	InterclusterIPs []string
}

// SVM is a storage virtual machine hosted by a file system.
type SVM struct {
	ID           string
	Name         string
	FileSystemID string

	// IscsiIPs are the SVM's iSCSI endpoint addresses.
	IscsiIPs []string
}

// Inventory lists and describes FSx for ONTAP resources.
type Inventory interface {
	// ListONTAPFileSystems returns the ONTAP file systems carrying the
	// given tag. An empty result is ErrNoFileSystems.
	ListONTAPFileSystems(ctx context.Context, tagKey, tagValue string) ([]FileSystem, error)

	// FileSystemEndpoints returns the endpoint addresses of one file system.
	FileSystemEndpoints(ctx context.Context, fileSystemID string) (*Endpoints, error)

	// LookupSVM finds an SVM by name on the given file system.
	LookupSVM(ctx context.Context, fileSystemID, name string) (*SVM, error)
}

// Metrics queries time-averaged statistics for a file system.
type Metrics interface {
	// AverageIOPS returns the average total operations per second over
	// the window ending now, aggregated at the given period.
	AverageIOPS(ctx context.Context, fileSystemID string, window, period time.Duration) (float64, error)

	// StorageUsedBytes returns the most recent observed consumed
	// storage in bytes over the window ending now.
	StorageUsedBytes(ctx context.Context, fileSystemID string, window, period time.Duration) (float64, error)
}
