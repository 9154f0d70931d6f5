package manifest

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

// Names fixed by the local registry hosting convention (KEP-1755): tooling
// discovers the registry through this ConfigMap.
const (
	registryHostingName      = "local-registry-hosting"
	registryHostingNamespace = "kube-public"
	registryHostingKey       = "localRegistryHosting.v1"
	registryHostingHelpURL   = "https://kind.sigs.k8s.io/docs/user/local-registry/"
)

// registryHosting is the documented payload schema for the ConfigMap.
type registryHosting struct {
	Host                   string `json:"host"`
	HostFromClusterNetwork string `json:"hostFromClusterNetwork,omitempty"`
	Help                   string `json:"help,omitempty"`
}

// RegistryHostingConfigMap builds the kube-public/local-registry-hosting
// ConfigMap advertising the local registry to cluster tooling. host is the
// registry address from the host machine, hostFromClusterNetwork the address
// from inside the cluster network.
func RegistryHostingConfigMap(host, hostFromClusterNetwork string) (*corev1.ConfigMap, error) {
	payload, err := yaml.Marshal(registryHosting{
		Host:                   host,
		HostFromClusterNetwork: hostFromClusterNetwork,
		Help:                   registryHostingHelpURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal registry hosting payload: %w", err)
	}

	return &corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ConfigMap",
			APIVersion: "v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      registryHostingName,
			Namespace: registryHostingNamespace,
		},
		Data: map[string]string{
			registryHostingKey: string(payload),
		},
	}, nil
}
