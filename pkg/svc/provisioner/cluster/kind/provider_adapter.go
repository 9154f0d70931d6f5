package kindprovisioner

import (
	"fmt"
	"io"

	"sigs.k8s.io/kind/pkg/cluster"
)

// DefaultProviderAdapter wraps kind's Provider behind the KindProvider
// interface.
type DefaultProviderAdapter struct {
	provider *cluster.Provider
}

// NewDefaultProviderAdapter creates an adapter whose kind Provider streams
// progress output to out.
func NewDefaultProviderAdapter(out io.Writer) *DefaultProviderAdapter {
	return &DefaultProviderAdapter{
		provider: cluster.NewProvider(
			cluster.ProviderWithLogger(newStreamLogger(out)),
		),
	}
}

// Create creates a new kind cluster.
func (a *DefaultProviderAdapter) Create(name string, opts ...cluster.CreateOption) error {
	err := a.provider.Create(name, opts...)
	if err != nil {
		return fmt.Errorf("kind create: %w", err)
	}

	return nil
}

// Delete deletes a kind cluster.
func (a *DefaultProviderAdapter) Delete(name, kubeconfigPath string) error {
	err := a.provider.Delete(name, kubeconfigPath)
	if err != nil {
		return fmt.Errorf("kind delete: %w", err)
	}

	return nil
}

// List lists all kind clusters.
func (a *DefaultProviderAdapter) List() ([]string, error) {
	clusters, err := a.provider.List()
	if err != nil {
		return nil, fmt.Errorf("kind list: %w", err)
	}

	return clusters, nil
}

// ListNodes lists the node container names of a kind cluster.
func (a *DefaultProviderAdapter) ListNodes(name string) ([]string, error) {
	nodes, err := a.provider.ListNodes(name)
	if err != nil {
		return nil, fmt.Errorf("kind list nodes: %w", err)
	}

	names := make([]string, len(nodes))
	for i, node := range nodes {
		names[i] = node.String()
	}

	return names, nil
}
