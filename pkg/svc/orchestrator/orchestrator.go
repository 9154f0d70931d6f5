// Package orchestrator sequences slipway's lifecycle operations across the
// container engine, the cluster-node runtime, and the cluster API. Operations
// are strictly sequential and re-probe current state before mutating, so a
// re-run after a partial failure converges instead of duplicating work.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/slipway-dev/slipway/pkg/config"
	"github.com/slipway-dev/slipway/pkg/errdefs"
	"github.com/slipway-dev/slipway/pkg/manifest"
	"github.com/slipway-dev/slipway/pkg/svc/installer"
	kindprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/kind"
	"github.com/slipway-dev/slipway/pkg/utils/notify"
	"github.com/slipway-dev/slipway/pkg/utils/timer"
)

// RegistryAnnotationKey is the node annotation advertising the registry's
// host-visible address to tooling that inspects nodes.
const RegistryAnnotationKey = "slipway.dev/registry"

// Prober answers existence questions without mutating anything.
type Prober interface {
	ClusterExists(ctx context.Context) (bool, error)
	RegistryRunning(ctx context.Context) bool
	ServicePort(ctx context.Context, name string) (int32, bool, error)
}

// ClusterProvisioner creates and deletes the managed cluster.
type ClusterProvisioner interface {
	Create(ctx context.Context) error
	Delete(ctx context.Context) error
	Nodes(ctx context.Context) ([]string, error)
}

// RegistryProvisioner converges the registry container on a desired state.
type RegistryProvisioner interface {
	EnsureRunning(ctx context.Context) error
	Teardown(ctx context.Context) error
	ConnectToNetwork(ctx context.Context, networkName string) error
}

// ClusterAPI is the slice of the cluster API the orchestrator drives.
// k8s.Client is the production implementation.
type ClusterAPI interface {
	ApplyObject(ctx context.Context, obj runtime.Object) error
	AnnotateNode(ctx context.Context, nodeName, key, value string) error
	ListNamespaces(ctx context.Context) ([]string, error)
	ServerVersion() (string, error)
}

// ClusterAPIFactory acquires the cluster API on demand. The API is
// unreachable until the cluster exists and its kubeconfig entry is written,
// so acquisition must not happen before cluster creation.
type ClusterAPIFactory func() (ClusterAPI, error)

// Deps are the collaborators an Orchestrator drives.
type Deps struct {
	Probe     Prober
	Cluster   ClusterProvisioner
	Registry  RegistryProvisioner
	Installer installer.Installer
	API       ClusterAPIFactory
	Timer     timer.Timer
	Writer    io.Writer
}

// Orchestrator sequences Start, Stop, Status, and Expose for one configured
// environment.
type Orchestrator struct {
	cfg  *config.Config
	deps Deps
}

// New constructs an Orchestrator for the environment described by cfg.
func New(cfg *config.Config, deps Deps) *Orchestrator {
	return &Orchestrator{cfg: cfg, deps: deps}
}

// Start brings the environment up: registry container, cluster, registry
// wiring, ingress controller. A cluster that already exists turns the whole
// call into a no-op.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.deps.Timer.Start()

	exists, err := o.deps.Probe.ClusterExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		notify.Successf(
			o.deps.Writer,
			"cluster '%s' already exists, nothing to do",
			o.cfg.ClusterName,
		)

		return nil
	}

	err = o.ensureRegistry(ctx)
	if err != nil {
		return err
	}

	err = o.createCluster(ctx)
	if err != nil {
		return err
	}

	err = o.wireRegistry(ctx)
	if err != nil {
		return err
	}

	err = o.installIngress(ctx)
	if err != nil {
		return err
	}

	notify.Successf(o.deps.Writer, "cluster '%s' is ready", o.cfg.ClusterName)

	return nil
}

// Stop tears the environment down. Cluster deletion and registry removal are
// independently gated by their probes, so stopping an absent environment is
// a clean no-op.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.deps.Timer.Start()
	notify.Titlef(o.deps.Writer, "🛑", "Stop cluster...")

	exists, err := o.deps.Probe.ClusterExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		notify.Activityf(o.deps.Writer, "deleting cluster '%s'", o.cfg.ClusterName)

		err = o.deps.Cluster.Delete(ctx)
		if err != nil {
			return err
		}
	} else {
		notify.Activityf(o.deps.Writer, "cluster '%s' is not running", o.cfg.ClusterName)
	}

	err = o.teardownRegistry(ctx)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(o.deps.Writer, o.deps.Timer, "environment stopped")

	return nil
}

// Status reports whether the environment is up. When the cluster exists the
// report includes proof of API liveness, not just container existence. The
// check is read-only.
func (o *Orchestrator) Status(ctx context.Context) error {
	exists, err := o.deps.Probe.ClusterExists(ctx)
	if err != nil {
		return err
	}

	if !exists {
		notify.Infof(o.deps.Writer, "cluster '%s' is not running", o.cfg.ClusterName)

		return nil
	}

	api, err := o.deps.API()
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to connect to cluster API: %w", err),
		)
	}

	version, err := api.ServerVersion()
	if err != nil {
		return errdefs.ExternalFailure(err)
	}

	namespaces, err := api.ListNamespaces(ctx)
	if err != nil {
		return errdefs.ExternalFailure(err)
	}

	nodes, err := o.deps.Cluster.Nodes(ctx)
	if err != nil {
		return err
	}

	notify.Successf(o.deps.Writer, "cluster '%s' is running", o.cfg.ClusterName)
	notify.Infof(o.deps.Writer, "server version: %s", version)
	notify.Infof(o.deps.Writer, "nodes: %s", strings.Join(nodes, ", "))
	notify.Infof(o.deps.Writer, "namespaces: %s", strings.Join(namespaces, ", "))

	if o.deps.Probe.RegistryRunning(ctx) {
		notify.Infof(
			o.deps.Writer,
			"registry '%s' is running on %s",
			o.cfg.RegistryName, o.cfg.RegistryHostAddress(),
		)
	} else {
		notify.Warningf(o.deps.Writer, "registry '%s' is not running", o.cfg.RegistryName)
	}

	return nil
}

// Expose publishes a service under its own host rule. The service must exist
// and declare at least one port before any ingress record is written.
func (o *Orchestrator) Expose(ctx context.Context, service string) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errdefs.Preconditionf("service name must not be empty")
	}

	port, found, err := o.deps.Probe.ServicePort(ctx, service)
	if err != nil {
		return err
	}

	if !found {
		return errdefs.Preconditionf(
			"service '%s' not found in namespace '%s' or has no declared port",
			service, o.cfg.ServiceNamespace,
		)
	}

	ingress := manifest.ServiceIngress(service, port, o.cfg.DomainSuffix)
	ingress.Namespace = o.cfg.ServiceNamespace

	api, err := o.deps.API()
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to connect to cluster API: %w", err),
		)
	}

	err = api.ApplyObject(ctx, ingress)
	if err != nil {
		return errdefs.ExternalFailure(err)
	}

	notify.Successf(
		o.deps.Writer,
		"service '%s' exposed at http://%s",
		service, manifest.IngressHost(service, o.cfg.DomainSuffix),
	)

	return nil
}

// ensureRegistry brings the registry container up before the cluster is
// created, so the containerd mirror endpoint resolves from the first pull.
func (o *Orchestrator) ensureRegistry(ctx context.Context) error {
	o.deps.Timer.NewStage()
	notify.Titlef(o.deps.Writer, "📦", "Ensure registry...")

	if o.deps.Probe.RegistryRunning(ctx) {
		notify.Activityf(
			o.deps.Writer,
			"registry '%s' is already running",
			o.cfg.RegistryName,
		)
	} else {
		err := o.deps.Registry.EnsureRunning(ctx)
		if err != nil {
			return err
		}
	}

	notify.SuccessWithTimerf(o.deps.Writer, o.deps.Timer, "registry ready")

	return nil
}

// createCluster provisions the cluster from its typed topology.
func (o *Orchestrator) createCluster(ctx context.Context) error {
	o.deps.Timer.NewStage()
	notify.Titlef(o.deps.Writer, "🚀", "Create cluster...")
	notify.Activityf(
		o.deps.Writer,
		"creating cluster '%s' from %s",
		o.cfg.ClusterName, o.cfg.NodeImage,
	)

	err := o.deps.Cluster.Create(ctx)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(o.deps.Writer, o.deps.Timer, "cluster created")

	return nil
}

// wireRegistry attaches the registry to the cluster network and records its
// address in the cluster: one annotation per node plus the local registry
// hosting ConfigMap.
func (o *Orchestrator) wireRegistry(ctx context.Context) error {
	o.deps.Timer.NewStage()
	notify.Titlef(o.deps.Writer, "🔗", "Wire registry...")

	notify.Activityf(
		o.deps.Writer,
		"connecting registry '%s' to network '%s'",
		o.cfg.RegistryName, kindprovisioner.NetworkName,
	)

	err := o.deps.Registry.ConnectToNetwork(ctx, kindprovisioner.NetworkName)
	if err != nil {
		return err
	}

	api, err := o.deps.API()
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to connect to cluster API: %w", err),
		)
	}

	nodes, err := o.deps.Cluster.Nodes(ctx)
	if err != nil {
		return err
	}

	for _, node := range nodes {
		notify.Activityf(o.deps.Writer, "annotating node '%s'", node)

		err = api.AnnotateNode(ctx, node, RegistryAnnotationKey, o.cfg.RegistryHostAddress())
		if err != nil {
			return errdefs.ExternalFailure(err)
		}
	}

	configMap, err := manifest.RegistryHostingConfigMap(
		o.cfg.RegistryHostAddress(),
		o.cfg.RegistryClusterAddress(),
	)
	if err != nil {
		return fmt.Errorf("failed to build registry hosting config map: %w", err)
	}

	err = api.ApplyObject(ctx, configMap)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to publish registry hosting config map: %w", err),
		)
	}

	notify.SuccessWithTimerf(o.deps.Writer, o.deps.Timer, "registry wired into cluster")

	return nil
}

// installIngress installs the ingress controller and waits for its rollout.
func (o *Orchestrator) installIngress(ctx context.Context) error {
	o.deps.Timer.NewStage()
	notify.Titlef(o.deps.Writer, "🌐", "Install ingress controller...")

	err := o.deps.Installer.Install(ctx)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(o.deps.Writer, o.deps.Timer, "ingress controller ready")

	return nil
}

// teardownRegistry removes the registry container when it is running.
func (o *Orchestrator) teardownRegistry(ctx context.Context) error {
	o.deps.Timer.NewStage()

	if !o.deps.Probe.RegistryRunning(ctx) {
		notify.Activityf(o.deps.Writer, "registry '%s' is not running", o.cfg.RegistryName)

		return nil
	}

	return o.deps.Registry.Teardown(ctx)
}
