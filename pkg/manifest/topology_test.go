package manifest_test

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"

	"github.com/slipway-dev/slipway/pkg/manifest"
)

func TestMain(m *testing.M) {
	exitCode := m.Run()

	snaps.Clean(m, snaps.CleanOpts{Sort: true})

	os.Exit(exitCode)
}

func testTopologyOptions() manifest.TopologyOptions {
	return manifest.TopologyOptions{
		ClusterName:           "slipway",
		RegistryName:          "slipway-registry",
		RegistryHostPort:      5000,
		RegistryContainerPort: 5000,
		HostHTTPPort:          80,
		HostHTTPSPort:         443,
	}
}

func TestClusterTopologyShape(t *testing.T) {
	t.Parallel()

	topology := manifest.ClusterTopology(testTopologyOptions())

	require.Len(t, topology.Nodes, 2)

	controlPlane := topology.Nodes[0]
	assert.Equal(t, v1alpha4.ControlPlaneRole, controlPlane.Role)
	require.Len(t, controlPlane.KubeadmConfigPatches, 1)
	assert.Contains(t, controlPlane.KubeadmConfigPatches[0], `node-labels: "ingress-ready=true"`)

	require.Len(t, controlPlane.ExtraPortMappings, 2)
	assert.Equal(t, int32(80), controlPlane.ExtraPortMappings[0].ContainerPort)
	assert.Equal(t, int32(80), controlPlane.ExtraPortMappings[0].HostPort)
	assert.Equal(t, v1alpha4.PortMappingProtocolTCP, controlPlane.ExtraPortMappings[0].Protocol)
	assert.Equal(t, int32(443), controlPlane.ExtraPortMappings[1].ContainerPort)
	assert.Equal(t, int32(443), controlPlane.ExtraPortMappings[1].HostPort)

	assert.Equal(t, v1alpha4.WorkerRole, topology.Nodes[1].Role)
}

func TestClusterTopologyRegistryMirror(t *testing.T) {
	t.Parallel()

	topology := manifest.ClusterTopology(testTopologyOptions())

	require.Len(t, topology.ContainerdConfigPatches, 1)
	assert.Equal(
		t,
		"[plugins.\"io.containerd.grpc.v1.cri\".registry.mirrors.\"localhost:5000\"]\n"+
			"  endpoint = [\"http://slipway-registry:5000\"]",
		topology.ContainerdConfigPatches[0],
	)
}

func TestClusterTopologyCustomPorts(t *testing.T) {
	t.Parallel()

	opts := testTopologyOptions()
	opts.RegistryHostPort = 5050
	opts.HostHTTPPort = 8080
	opts.HostHTTPSPort = 8443

	topology := manifest.ClusterTopology(opts)

	assert.Equal(t, int32(8080), topology.Nodes[0].ExtraPortMappings[0].HostPort)
	assert.Equal(t, int32(8443), topology.Nodes[0].ExtraPortMappings[1].HostPort)
	assert.Contains(t, topology.ContainerdConfigPatches[0], `mirrors."localhost:5050"`)
	assert.Contains(t, topology.ContainerdConfigPatches[0], `endpoint = ["http://slipway-registry:5000"]`)
}

func TestTopologyYAMLDeterministic(t *testing.T) {
	t.Parallel()

	first, err := manifest.TopologyYAML(manifest.ClusterTopology(testTopologyOptions()))
	require.NoError(t, err)

	second, err := manifest.TopologyYAML(manifest.ClusterTopology(testTopologyOptions()))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	snaps.MatchSnapshot(t, string(first))
}
