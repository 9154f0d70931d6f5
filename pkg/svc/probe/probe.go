// Package probe answers the existence questions every slipway operation asks
// before mutating anything: does the cluster exist, is the registry running,
// and which port does a service declare.
package probe

import (
	"context"
	"fmt"
)

// ClusterSource reports cluster existence. The kind provisioner is the
// production implementation.
type ClusterSource interface {
	Exists(ctx context.Context) (bool, error)
}

// RegistrySource reports registry liveness. The registry provisioner is the
// production implementation.
type RegistrySource interface {
	Running(ctx context.Context) bool
}

// ServiceSource resolves a service's first declared port. k8s.Client is the
// production implementation.
type ServiceSource interface {
	ServiceFirstPort(ctx context.Context, namespace, name string) (int32, bool, error)
}

// ServiceSourceFactory acquires the ServiceSource on first use. Service
// lookups go through the cluster API, which is only reachable once the
// cluster's kubeconfig entry exists.
type ServiceSourceFactory func() (ServiceSource, error)

// Probe bundles the existence checks over the injected sources.
type Probe struct {
	cluster   ClusterSource
	registry  RegistrySource
	services  ServiceSourceFactory
	namespace string
}

// NewProbe constructs a Probe. namespace scopes ServicePort lookups.
func NewProbe(
	cluster ClusterSource,
	registry RegistrySource,
	services ServiceSourceFactory,
	namespace string,
) *Probe {
	return &Probe{
		cluster:   cluster,
		registry:  registry,
		services:  services,
		namespace: namespace,
	}
}

// ClusterExists reports whether the managed cluster is present on this host.
func (p *Probe) ClusterExists(ctx context.Context) (bool, error) {
	exists, err := p.cluster.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to probe cluster: %w", err)
	}

	return exists, nil
}

// RegistryRunning reports whether the registry container is running. Engine
// errors report false, never an error.
func (p *Probe) RegistryRunning(ctx context.Context) bool {
	return p.registry.Running(ctx)
}

// ServicePort returns the first declared port of the named service in the
// probe's namespace. (0, false, nil) means the service is absent or declares
// no ports; that is a normal outcome. Transport failures surface as errors.
func (p *Probe) ServicePort(ctx context.Context, name string) (int32, bool, error) {
	source, err := p.services()
	if err != nil {
		return 0, false, fmt.Errorf("failed to reach cluster API: %w", err)
	}

	return source.ServiceFirstPort(ctx, p.namespace, name)
}
