// Package config holds the environment configuration injected into every
// slipway component. All resource names, pinned versions, and timeouts live
// here so that multiple named environments can coexist; nothing downstream
// hardcodes them.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults for every configurable value. Overridable via slipway.yaml,
// SLIPWAY_* environment variables, or command flags.
const (
	// DefaultClusterName is the reserved name of the managed cluster.
	DefaultClusterName = "slipway"
	// DefaultNodeImage is the pinned node image used for cluster nodes.
	DefaultNodeImage = "kindest/node:v1.33.1"
	// DefaultRegistryName is the reserved name of the local registry container.
	DefaultRegistryName = "slipway-registry"
	// DefaultRegistryImage is the image the local registry runs.
	DefaultRegistryImage = "registry:3"
	// DefaultRegistryHostPort is the host port the local registry publishes.
	DefaultRegistryHostPort = 5000
	// RegistryContainerPort is the port the registry image listens on inside
	// its container. Fixed by the image, not configurable.
	RegistryContainerPort = 5000
	// DefaultHostHTTPPort is the host port mapped to the cluster's ingress HTTP port.
	DefaultHostHTTPPort = 80
	// DefaultHostHTTPSPort is the host port mapped to the cluster's ingress HTTPS port.
	DefaultHostHTTPSPort = 443
	// DefaultDomainSuffix is the wildcard DNS suffix for exposed services.
	// nip.io resolves any <name>.127.0.0.1.nip.io to 127.0.0.1.
	DefaultDomainSuffix = "127.0.0.1.nip.io"
	// DefaultIngressVersion is the pinned ingress-nginx release.
	DefaultIngressVersion = "controller-v1.12.1"
	// DefaultIngressManifestURL is the canonical deploy manifest for the pinned release.
	DefaultIngressManifestURL = "https://raw.githubusercontent.com/kubernetes/ingress-nginx/" +
		DefaultIngressVersion + "/deploy/static/provider/kind/deploy.yaml"
	// DefaultIngressNamespace is the namespace the ingress controller deploys into.
	DefaultIngressNamespace = "ingress-nginx"
	// DefaultIngressDeployment is the controller deployment waited on during start.
	DefaultIngressDeployment = "ingress-nginx-controller"
	// DefaultServiceNamespace is the namespace expose looks up services in.
	DefaultServiceNamespace = "default"
	// DefaultRolloutTimeout bounds the ingress controller rollout wait.
	DefaultRolloutTimeout = 5 * time.Minute

	envPrefix      = "SLIPWAY"
	configFileName = "slipway"
)

// ErrViperNil is returned when a Manager is used without a viper instance.
var ErrViperNil = errors.New("viper instance cannot be nil")

// Config is the environment configuration for one slipway invocation.
type Config struct {
	// ClusterName is the reserved cluster name.
	ClusterName string `mapstructure:"cluster-name"`
	// NodeImage is the pinned node image for cluster nodes.
	NodeImage string `mapstructure:"node-image"`
	// RegistryName is the reserved registry container name.
	RegistryName string `mapstructure:"registry-name"`
	// RegistryImage is the image the registry container runs.
	RegistryImage string `mapstructure:"registry-image"`
	// RegistryHostPort is the host port the registry publishes on 127.0.0.1.
	RegistryHostPort int `mapstructure:"registry-port"`
	// HostHTTPPort maps to container port 80 on the control-plane node.
	HostHTTPPort int32 `mapstructure:"host-http-port"`
	// HostHTTPSPort maps to container port 443 on the control-plane node.
	HostHTTPSPort int32 `mapstructure:"host-https-port"`
	// DomainSuffix is the wildcard DNS suffix for exposed services.
	DomainSuffix string `mapstructure:"domain-suffix"`
	// IngressVersion is the pinned ingress-nginx release tag.
	IngressVersion string `mapstructure:"ingress-version"`
	// IngressManifestURL is the remote deploy manifest applied during start.
	IngressManifestURL string `mapstructure:"ingress-manifest-url"`
	// IngressNamespace is the ingress controller namespace.
	IngressNamespace string `mapstructure:"ingress-namespace"`
	// IngressDeployment is the ingress controller deployment name.
	IngressDeployment string `mapstructure:"ingress-deployment"`
	// ServiceNamespace is the namespace expose resolves services in.
	ServiceNamespace string `mapstructure:"namespace"`
	// RolloutTimeout bounds the ingress controller rollout wait.
	RolloutTimeout time.Duration `mapstructure:"rollout-timeout"`
	// Kubeconfig is an explicit kubeconfig path. Empty uses standard loading rules.
	Kubeconfig string `mapstructure:"kubeconfig"`
	// Context is an explicit kubeconfig context. Empty derives the cluster's own context.
	Context string `mapstructure:"context"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		ClusterName:        DefaultClusterName,
		NodeImage:          DefaultNodeImage,
		RegistryName:       DefaultRegistryName,
		RegistryImage:      DefaultRegistryImage,
		RegistryHostPort:   DefaultRegistryHostPort,
		HostHTTPPort:       DefaultHostHTTPPort,
		HostHTTPSPort:      DefaultHostHTTPSPort,
		DomainSuffix:       DefaultDomainSuffix,
		IngressVersion:     DefaultIngressVersion,
		IngressManifestURL: DefaultIngressManifestURL,
		IngressNamespace:   DefaultIngressNamespace,
		IngressDeployment:  DefaultIngressDeployment,
		ServiceNamespace:   DefaultServiceNamespace,
		RolloutTimeout:     DefaultRolloutTimeout,
	}
}

// KubeContext returns the kubeconfig context to use: the explicit Context if
// set, otherwise the context the node runtime writes for this cluster.
func (c *Config) KubeContext() string {
	if c.Context != "" {
		return c.Context
	}

	return "kind-" + c.ClusterName
}

// RegistryHostAddress returns the registry address as seen from the host.
func (c *Config) RegistryHostAddress() string {
	return fmt.Sprintf("localhost:%d", c.RegistryHostPort)
}

// RegistryClusterAddress returns the registry address as seen from inside the
// cluster network, where the container port applies rather than the published
// host port.
func (c *Config) RegistryClusterAddress() string {
	return fmt.Sprintf("%s:%d", c.RegistryName, RegistryContainerPort)
}

// Manager loads configuration with the precedence
// defaults < slipway.yaml < environment < flags.
type Manager struct {
	// Viper is the underlying viper instance, exposed for flag binding.
	Viper *viper.Viper
}

// NewManager constructs a Manager with defaults and environment handling
// registered. The config file (slipway.yaml in the working directory) is
// optional.
func NewManager() *Manager {
	viperInstance := viper.New()
	viperInstance.SetEnvPrefix(envPrefix)
	viperInstance.AutomaticEnv()
	viperInstance.SetEnvKeyReplacer(newEnvKeyReplacer())

	viperInstance.SetConfigName(configFileName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")

	for key, value := range defaultValues() {
		viperInstance.SetDefault(key, value)
	}

	return &Manager{Viper: viperInstance}
}

// BindFlag binds a command flag to a configuration key so set flags take
// precedence over file and environment values.
func (m *Manager) BindFlag(key string, flag *pflag.Flag) error {
	if m.Viper == nil {
		return ErrViperNil
	}

	err := m.Viper.BindPFlag(key, flag)
	if err != nil {
		return fmt.Errorf("bind flag %q: %w", key, err)
	}

	return nil
}

// newEnvKeyReplacer maps kebab-case config keys onto environment variable
// segments, e.g. cluster-name becomes SLIPWAY_CLUSTER_NAME.
func newEnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer("-", "_")
}

func defaultValues() map[string]any {
	return map[string]any{
		"cluster-name":         DefaultClusterName,
		"node-image":           DefaultNodeImage,
		"registry-name":        DefaultRegistryName,
		"registry-image":       DefaultRegistryImage,
		"registry-port":        DefaultRegistryHostPort,
		"host-http-port":       DefaultHostHTTPPort,
		"host-https-port":      DefaultHostHTTPSPort,
		"domain-suffix":        DefaultDomainSuffix,
		"ingress-version":      DefaultIngressVersion,
		"ingress-manifest-url": DefaultIngressManifestURL,
		"ingress-namespace":    DefaultIngressNamespace,
		"ingress-deployment":   DefaultIngressDeployment,
		"namespace":            DefaultServiceNamespace,
		"rollout-timeout":      DefaultRolloutTimeout,
		"kubeconfig":           "",
		"context":              "",
	}
}

// Load reads the optional config file and returns the resolved Config.
// A missing config file is not an error; all other read failures are.
func (m *Manager) Load() (*Config, error) {
	if m.Viper == nil {
		return nil, ErrViperNil
	}

	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}

	err = m.Viper.Unmarshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	return cfg, nil
}
