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

package ontap

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
)

// ClusterPeerStateAvailable is the peer state once both sides have
// authenticated each other.
const ClusterPeerStateAvailable = "available"

// ClusterPeer is a cluster-level peer object.
type ClusterPeer struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

// ClusterPeerRequest describes the peer object to create on one cluster,
// referencing the other cluster's inter-cluster LIF addresses.
type ClusterPeerRequest struct {
	// Name is the name the remote cluster will be known by locally.
	Name string

	// RemoteAddresses are the remote cluster's inter-cluster LIF IPs.
	RemoteAddresses []string

	// Passphrase authenticates the two peer objects to each other and
	// must match on both clusters.
	Passphrase string
}

type clusterPeerCreateResponse struct {
	NumRecords int           `json:"num_records"`
	Records    []ClusterPeer `json:"records"`
}

// CreateClusterPeer creates a cluster peer object proposing TLS-PSK
// encryption. The call is not retried on failure.
func (c *Client) CreateClusterPeer(ctx context.Context, req ClusterPeerRequest) (*ClusterPeer, error) {
	body := map[string]any{
		"name": req.Name,
		"remote": map[string]any{
			"ip_addresses": req.RemoteAddresses,
		},
		"encryption": map[string]any{
			"proposed": "tls_psk",
		},
		"passphrase": req.Passphrase,
	}

	query := url.Values{}
	query.Set("return_records", "true")

	var response clusterPeerCreateResponse
	if err := c.do(ctx, http.MethodPost, "/api/cluster/peers", query, body, &response); err != nil {
		return nil, fmt.Errorf("creating cluster peer %q: %w", req.Name, err)
	}
	if len(response.Records) == 0 {
		return nil, fmt.Errorf("creating cluster peer %q: no record returned", req.Name)
	}

	return &response.Records[0], nil
}

// GetClusterPeer fetches a cluster peer by uuid, including its state.
func (c *Client) GetClusterPeer(ctx context.Context, uuid string) (*ClusterPeer, error) {
	query := url.Values{}
	query.Set("fields", "state")

	var peer ClusterPeer
	if err := c.get(ctx, "/api/cluster/peers/"+uuid, query, &peer); err != nil {
		return nil, fmt.Errorf("getting cluster peer %s: %w", uuid, err)
	}

	return &peer, nil
}

// WaitClusterPeerAvailable polls the peer state every interval until it
// reports "available", bounded by timeout.
func (c *Client) WaitClusterPeerAvailable(ctx context.Context, uuid string, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	attempts := uint(timeout / interval) //nolint:gosec
	if attempts < 1 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			peer, err := c.GetClusterPeer(ctx, uuid)
			if err != nil {
				return err
			}
			if peer.State != ClusterPeerStateAvailable {
				return fmt.Errorf("cluster peer %s is %q", uuid, peer.State)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("waiting for cluster peer %s to become available: %w", uuid, err)
	}

	return nil
}

// SVMPeerRequest describes an SVM peer relation between a local SVM and
// an SVM on a peered cluster.
type SVMPeerRequest struct {
	// LocalSVM is the SVM on the cluster receiving the call.
	LocalSVM string

	// PeerSVM is the SVM on the other cluster.
	PeerSVM string

	// PeerCluster is the name of the other cluster as known locally,
	// i.e. the cluster peer name.
	PeerCluster string
}

// InitiateSVMPeer creates the SVM peer relation from the initiating side,
// requesting the snapmirror application. The call is not retried.
func (c *Client) InitiateSVMPeer(ctx context.Context, req SVMPeerRequest) error {
	body := map[string]any{
		"svm": map[string]any{"name": req.LocalSVM},
		"peer": map[string]any{
			"svm":     map[string]any{"name": req.PeerSVM},
			"cluster": map[string]any{"name": req.PeerCluster},
		},
		"applications": []string{"snapmirror"},
	}

	if err := c.do(ctx, http.MethodPost, "/api/svm/peers", nil, body, nil); err != nil {
		return fmt.Errorf("initiating SVM peering %s -> %s: %w", req.LocalSVM, req.PeerSVM, err)
	}

	return nil
}

// AcceptSVMPeer accepts a previously initiated SVM peer relation on the
// other cluster. The call is not retried.
func (c *Client) AcceptSVMPeer(ctx context.Context, req SVMPeerRequest) error {
	body := map[string]any{
		"svm": map[string]any{"name": req.LocalSVM},
		"peer": map[string]any{
			"svm":     map[string]any{"name": req.PeerSVM},
			"cluster": map[string]any{"name": req.PeerCluster},
		},
	}

	if err := c.do(ctx, http.MethodPost, "/api/svm/peers", nil, body, nil); err != nil {
		return fmt.Errorf("accepting SVM peering %s <- %s: %w", req.LocalSVM, req.PeerSVM, err)
	}

	return nil
}
