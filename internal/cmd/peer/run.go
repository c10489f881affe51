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

package peer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fsxops/fsxops/pkg/maintenance"
	"github.com/fsxops/fsxops/pkg/ontap"
)

// ClusterConfig names one side of the peering relation.
type ClusterConfig struct {
	// Name is how the other side will refer to this cluster.
	Name string

	// LIFs are this cluster's inter-cluster LIF addresses, given to the
	// other side as the remote addresses of its peer object.
	LIFs []string

	// SVM is the SVM participating in the SVM peer relation.
	SVM string
}

// Config drives a peering run.
type Config struct {
	Source      ClusterConfig
	Destination ClusterConfig

	// Passphrase authenticates the two cluster peer objects.
	Passphrase string

	// PeerTimeout bounds the wait for each cluster peer to report
	// available, polled every PollInterval.
	PeerTimeout  time.Duration
	PollInterval time.Duration

	// SettleDelay, when positive, replaces state polling with a fixed
	// delay. Fallback for clusters whose peer state is not readable.
	SettleDelay time.Duration

	Window maintenance.Window
}

// API is the slice of the ONTAP client the peering flow needs on each
// cluster.
type API interface {
	CreateClusterPeer(ctx context.Context, req ontap.ClusterPeerRequest) (*ontap.ClusterPeer, error)
	WaitClusterPeerAvailable(ctx context.Context, uuid string, timeout, interval time.Duration) error
	InitiateSVMPeer(ctx context.Context, req ontap.SVMPeerRequest) error
	AcceptSVMPeer(ctx context.Context, req ontap.SVMPeerRequest) error
}

// Run establishes cluster peering and then SVM peering between the two
// clusters. The phases are strictly ordered: SVM peering starts only once
// the cluster peer objects exist on both sides and have settled, and the
// accept call follows a successful initiate.
func Run(ctx context.Context, source, destination API, cfg Config, logger *zap.SugaredLogger) error {
	open, err := cfg.Window.IsOpen(time.Now())
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("maintenance window %q is closed, refusing to peer", cfg.Window.Schedule)
	}

	// Phase 1: cluster peer objects on both sides, each pointing at the
	// other cluster's inter-cluster LIFs.
	sourcePeer, err := source.CreateClusterPeer(ctx, ontap.ClusterPeerRequest{
		Name:            cfg.Destination.Name,
		RemoteAddresses: cfg.Destination.LIFs,
		Passphrase:      cfg.Passphrase,
	})
	if err != nil {
		return err
	}
	logger.Infow("cluster peer created on source cluster",
		"peer", sourcePeer.Name, "uuid", sourcePeer.UUID)

	destinationPeer, err := destination.CreateClusterPeer(ctx, ontap.ClusterPeerRequest{
		Name:            cfg.Source.Name,
		RemoteAddresses: cfg.Source.LIFs,
		Passphrase:      cfg.Passphrase,
	})
	if err != nil {
		return err
	}
	logger.Infow("cluster peer created on destination cluster",
		"peer", destinationPeer.Name, "uuid", destinationPeer.UUID)

	if err := settle(ctx, source, destination, sourcePeer.UUID, destinationPeer.UUID, cfg, logger); err != nil {
		return err
	}

	// Phase 2: SVM peering, initiated from the source and accepted on
	// the destination.
	if err := source.InitiateSVMPeer(ctx, ontap.SVMPeerRequest{
		LocalSVM:    cfg.Source.SVM,
		PeerSVM:     cfg.Destination.SVM,
		PeerCluster: cfg.Destination.Name,
	}); err != nil {
		return err
	}
	logger.Infow("SVM peering initiated",
		"localSVM", cfg.Source.SVM, "peerSVM", cfg.Destination.SVM)

	if err := destination.AcceptSVMPeer(ctx, ontap.SVMPeerRequest{
		LocalSVM:    cfg.Destination.SVM,
		PeerSVM:     cfg.Source.SVM,
		PeerCluster: cfg.Source.Name,
	}); err != nil {
		return err
	}
	logger.Infow("SVM peering accepted",
		"localSVM", cfg.Destination.SVM, "peerSVM", cfg.Source.SVM)

	logger.Infow("cluster and SVM peering established")

	return nil
}

// settle waits for both cluster peer objects to become usable, either by
// polling their state or, as a fallback, by a fixed delay.
func settle(
	ctx context.Context,
	source, destination API,
	sourcePeerUUID, destinationPeerUUID string,
	cfg Config,
	logger *zap.SugaredLogger,
) error {
	if cfg.SettleDelay > 0 {
		logger.Infow("waiting fixed settle delay", "delay", cfg.SettleDelay)
		select {
		case <-time.After(cfg.SettleDelay):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logger.Infow("polling cluster peers until available",
		"timeout", cfg.PeerTimeout, "interval", cfg.PollInterval)
	if err := source.WaitClusterPeerAvailable(ctx, sourcePeerUUID, cfg.PeerTimeout, cfg.PollInterval); err != nil {
		return err
	}
	return destination.WaitClusterPeerAvailable(ctx, destinationPeerUUID, cfg.PeerTimeout, cfg.PollInterval)
}
