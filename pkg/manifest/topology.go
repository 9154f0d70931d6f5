package manifest

import (
	"fmt"

	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/yaml"
)

// ingressReadyPatch labels the control-plane node so the ingress controller's
// node selector schedules onto it.
const ingressReadyPatch = `kind: InitConfiguration
nodeRegistration:
  kubeletExtraArgs:
    node-labels: "ingress-ready=true"`

// TopologyOptions parameterizes the cluster topology.
type TopologyOptions struct {
	// ClusterName names the cluster in the rendered config.
	ClusterName string
	// RegistryName is the registry container's name on the cluster network.
	RegistryName string
	// RegistryHostPort is the registry port published on the host. In-cluster
	// image references use localhost:<RegistryHostPort> and containerd
	// rewrites them to the registry container.
	RegistryHostPort int
	// RegistryContainerPort is the port the registry listens on inside its
	// container, reachable from the cluster network.
	RegistryContainerPort int
	// HostHTTPPort is the host port mapped to the ingress HTTP port (80).
	HostHTTPPort int32
	// HostHTTPSPort is the host port mapped to the ingress HTTPS port (443).
	HostHTTPSPort int32
}

// ClusterTopology builds the fixed two-node topology: a control-plane node
// labeled ingress-ready with the host HTTP/HTTPS ports mapped onto it, one
// worker node, and a containerd mirror so in-cluster pulls of
// localhost:<port> images transparently hit the local registry.
func ClusterTopology(opts TopologyOptions) *v1alpha4.Cluster {
	return &v1alpha4.Cluster{
		TypeMeta: v1alpha4.TypeMeta{
			Kind:       "Cluster",
			APIVersion: "kind.x-k8s.io/v1alpha4",
		},
		Name: opts.ClusterName,
		Nodes: []v1alpha4.Node{
			{
				Role:                 v1alpha4.ControlPlaneRole,
				KubeadmConfigPatches: []string{ingressReadyPatch},
				ExtraPortMappings: []v1alpha4.PortMapping{
					{
						ContainerPort: 80,
						HostPort:      opts.HostHTTPPort,
						Protocol:      v1alpha4.PortMappingProtocolTCP,
					},
					{
						ContainerPort: 443,
						HostPort:      opts.HostHTTPSPort,
						Protocol:      v1alpha4.PortMappingProtocolTCP,
					},
				},
			},
			{Role: v1alpha4.WorkerRole},
		},
		ContainerdConfigPatches: []string{registryMirrorPatch(opts)},
	}
}

// TopologyYAML renders a topology for display or inspection.
func TopologyYAML(topology *v1alpha4.Cluster) ([]byte, error) {
	out, err := yaml.Marshal(topology)
	if err != nil {
		return nil, fmt.Errorf("marshal cluster topology: %w", err)
	}

	return out, nil
}

// registryMirrorPatch maps the registry's host-visible address to its
// cluster-network endpoint in containerd's mirror configuration.
func registryMirrorPatch(opts TopologyOptions) string {
	return fmt.Sprintf(
		"[plugins.\"io.containerd.grpc.v1.cri\".registry.mirrors.\"localhost:%d\"]\n"+
			"  endpoint = [\"http://%s:%d\"]",
		opts.RegistryHostPort,
		opts.RegistryName,
		opts.RegistryContainerPort,
	)
}
