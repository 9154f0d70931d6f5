// Package kindprovisioner creates and deletes the managed kind cluster from
// its typed in-process topology, without writing config files to disk.
package kindprovisioner

import (
	"context"
	"fmt"
	"slices"

	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/kind/pkg/cluster"

	"github.com/slipway-dev/slipway/pkg/errdefs"
)

// NetworkName is the docker network kind creates and attaches every node to.
// The registry container joins this network so nodes reach it by name.
const NetworkName = "kind"

// KindProvider describes the subset of methods from kind's Provider used here.
type KindProvider interface {
	Create(name string, opts ...cluster.CreateOption) error
	Delete(name, kubeconfigPath string) error
	List() ([]string, error)
	ListNodes(name string) ([]string, error)
}

// Provisioner provisions the managed cluster through the kind SDK. kind's
// API is not context-aware, so every operation fails fast when the caller's
// context is already done and otherwise blocks until kind returns.
type Provisioner struct {
	topology       *v1alpha4.Cluster
	nodeImage      string
	kubeconfigPath string
	provider       KindProvider
}

// NewProvisioner constructs a Provisioner for the given topology. nodeImage
// overrides the node image for every node when non-empty. kubeconfigPath is
// where kind writes (and on delete, prunes) the cluster's credentials; empty
// means kind's default loading rules.
func NewProvisioner(
	topology *v1alpha4.Cluster,
	nodeImage string,
	kubeconfigPath string,
	provider KindProvider,
) *Provisioner {
	return &Provisioner{
		topology:       topology,
		nodeImage:      nodeImage,
		kubeconfigPath: kubeconfigPath,
		provider:       provider,
	}
}

// Create provisions the cluster from the typed topology. kind pulls the node
// image, boots the nodes, and writes the kubeconfig before returning.
func (p *Provisioner) Create(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cluster create aborted: %w", err)
	}

	opts := []cluster.CreateOption{
		cluster.CreateWithV1Alpha4Config(p.topology),
		cluster.CreateWithDisplayUsage(false),
		cluster.CreateWithDisplaySalutation(false),
	}

	if p.nodeImage != "" {
		opts = append(opts, cluster.CreateWithNodeImage(p.nodeImage))
	}

	if p.kubeconfigPath != "" {
		opts = append(opts, cluster.CreateWithKubeconfigPath(p.kubeconfigPath))
	}

	err := p.provider.Create(p.topology.Name, opts...)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to create kind cluster %q: %w", p.topology.Name, err),
		)
	}

	return nil
}

// Delete removes the cluster and prunes its entry from the kubeconfig.
func (p *Provisioner) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cluster delete aborted: %w", err)
	}

	err := p.provider.Delete(p.topology.Name, p.kubeconfigPath)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to delete kind cluster %q: %w", p.topology.Name, err),
		)
	}

	return nil
}

// List returns the names of all kind clusters on this host.
func (p *Provisioner) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cluster list aborted: %w", err)
	}

	clusters, err := p.provider.List()
	if err != nil {
		return nil, errdefs.ExternalFailure(
			fmt.Errorf("failed to list kind clusters: %w", err),
		)
	}

	return clusters, nil
}

// Exists reports whether the managed cluster is present.
func (p *Provisioner) Exists(ctx context.Context) (bool, error) {
	clusters, err := p.List(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(clusters, p.topology.Name), nil
}

// Nodes returns the node container names of the managed cluster. These double
// as the Kubernetes node names.
func (p *Provisioner) Nodes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cluster node list aborted: %w", err)
	}

	nodes, err := p.provider.ListNodes(p.topology.Name)
	if err != nil {
		return nil, errdefs.ExternalFailure(
			fmt.Errorf("failed to list nodes of kind cluster %q: %w", p.topology.Name, err),
		)
	}

	return nodes, nil
}
