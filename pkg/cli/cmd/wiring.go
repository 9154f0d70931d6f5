package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/client/docker"
	"github.com/slipway-dev/slipway/pkg/config"
	"github.com/slipway-dev/slipway/pkg/k8s"
	"github.com/slipway-dev/slipway/pkg/manifest"
	ingressnginxinstaller "github.com/slipway-dev/slipway/pkg/svc/installer/ingressnginx"
	"github.com/slipway-dev/slipway/pkg/svc/orchestrator"
	"github.com/slipway-dev/slipway/pkg/svc/probe"
	kindprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/kind"
	registryprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/registry"
	"github.com/slipway-dev/slipway/pkg/utils/notify"
	"github.com/slipway-dev/slipway/pkg/utils/timer"
)

// Flag names shared across subcommands.
const (
	nameFlag       = "name"
	kubeconfigFlag = "kubeconfig"
	contextFlag    = "context"
	timeoutFlag    = "timeout"
	namespaceFlag  = "namespace"
)

// addCommonFlags registers the flags every subcommand accepts.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String(nameFlag, config.DefaultClusterName, "cluster name")
	cmd.Flags().String(
		kubeconfigFlag,
		"",
		"kubeconfig path (defaults to $KUBECONFIG, then ~/.kube/config)",
	)
	cmd.Flags().String(
		contextFlag,
		"",
		"kubeconfig context (defaults to the cluster's own context)",
	)
}

// flagBindings maps configuration keys to the flag names that override them.
// Flags a command does not register are skipped during binding.
func flagBindings() map[string]string {
	return map[string]string{
		"cluster-name":    nameFlag,
		"kubeconfig":      kubeconfigFlag,
		"context":         contextFlag,
		"rollout-timeout": timeoutFlag,
		"namespace":       namespaceFlag,
	}
}

// loadConfig binds the command's flags into the manager and resolves the
// effective configuration (defaults < slipway.yaml < environment < flags).
func loadConfig(manager *config.Manager, cmd *cobra.Command) (*config.Config, error) {
	for key, flagName := range flagBindings() {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			continue
		}

		err := manager.BindFlag(key, flag)
		if err != nil {
			return nil, err
		}
	}

	return manager.Load()
}

// runOperation resolves configuration, wires an orchestrator, and runs one
// operation with the command's context.
func runOperation(
	cmd *cobra.Command,
	manager *config.Manager,
	operation func(ctx context.Context, orch *orchestrator.Orchestrator) error,
) error {
	cfg, err := loadConfig(manager, cmd)
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(cmd, cfg)
	if err != nil {
		return err
	}

	return operation(cmd.Context(), orch)
}

// buildOrchestrator wires the collaborators for one invocation: engine
// client, provisioners, probes, installer, and the lazily connected cluster
// API. Construction performs no I/O; the engine client and cluster clients
// dial on first use.
func buildOrchestrator(
	cmd *cobra.Command,
	cfg *config.Config,
) (*orchestrator.Orchestrator, error) {
	writer := notify.NewStageSeparatingWriter(cmd.OutOrStdout())

	engineClient, err := docker.GetDockerClient()
	if err != nil {
		return nil, err
	}

	registryManager := docker.NewRegistryManager(engineClient)
	registrySpec := docker.RegistrySpec{
		Name:          cfg.RegistryName,
		Image:         cfg.RegistryImage,
		HostPort:      cfg.RegistryHostPort,
		ContainerPort: config.RegistryContainerPort,
	}
	registryProv := registryprovisioner.NewProvisioner(registryManager, registrySpec, writer)

	kubeconfig := resolveKubeconfig(cfg)
	kubecontext := cfg.KubeContext()

	topology := manifest.ClusterTopology(manifest.TopologyOptions{
		ClusterName:           cfg.ClusterName,
		RegistryName:          cfg.RegistryName,
		RegistryHostPort:      cfg.RegistryHostPort,
		RegistryContainerPort: config.RegistryContainerPort,
		HostHTTPPort:          cfg.HostHTTPPort,
		HostHTTPSPort:         cfg.HostHTTPSPort,
	})
	clusterProv := kindprovisioner.NewProvisioner(
		topology,
		cfg.NodeImage,
		kubeconfig,
		kindprovisioner.NewDefaultProviderAdapter(writer),
	)

	prober := probe.NewProbe(
		clusterProv,
		registryProv,
		func() (probe.ServiceSource, error) {
			return k8s.NewClient(kubeconfig, kubecontext)
		},
		cfg.ServiceNamespace,
	)

	ingressInstaller := ingressnginxinstaller.NewIngressNginxInstaller(
		ingressnginxinstaller.Options{
			ManifestURL: cfg.IngressManifestURL,
			Namespace:   cfg.IngressNamespace,
			Deployment:  cfg.IngressDeployment,
			Timeout:     cfg.RolloutTimeout,
		},
		ingressnginxinstaller.DefaultClientsFactory(kubeconfig, kubecontext),
		writer,
	)

	deps := orchestrator.Deps{
		Probe:     prober,
		Cluster:   clusterProv,
		Registry:  registryProv,
		Installer: ingressInstaller,
		API: func() (orchestrator.ClusterAPI, error) {
			return k8s.NewClient(kubeconfig, kubecontext)
		},
		Timer:  timer.New(),
		Writer: writer,
	}

	return orchestrator.New(cfg, deps), nil
}

// resolveKubeconfig picks the kubeconfig path: explicit configuration, then
// the KUBECONFIG environment variable, then the standard default path.
func resolveKubeconfig(cfg *config.Config) string {
	if cfg.Kubeconfig != "" {
		return cfg.Kubeconfig
	}

	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}

	return k8s.DefaultKubeconfigPath()
}
