// Package ingressnginxinstaller installs the pinned ingress-nginx controller
// release on the managed cluster: fetch the deploy manifest, server-side
// apply it, patch the controller for TLS passthrough, and wait for the
// rollout to finish. The order apply, patch, wait is fixed.
package ingressnginxinstaller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/slipway-dev/slipway/pkg/errdefs"
	"github.com/slipway-dev/slipway/pkg/k8s"
	"github.com/slipway-dev/slipway/pkg/manifest"
	"github.com/slipway-dev/slipway/pkg/utils/notify"
)

// ManifestApplier applies a multi-document manifest to the cluster.
// k8s.Applier is the production implementation.
type ManifestApplier interface {
	Apply(ctx context.Context, manifest []byte) (int, error)
}

// Clients bundles the cluster-side collaborators used during an install.
type Clients struct {
	Applier   ManifestApplier
	Clientset kubernetes.Interface
}

// ClientsFactory creates Clients on demand. Install connects lazily because
// the cluster's kubeconfig entry only exists once the cluster is up.
type ClientsFactory func() (*Clients, error)

// DefaultClientsFactory returns a ClientsFactory that connects through the
// given kubeconfig path and context.
func DefaultClientsFactory(kubeconfig, kubecontext string) ClientsFactory {
	return func() (*Clients, error) {
		client, err := k8s.NewClient(kubeconfig, kubecontext)
		if err != nil {
			return nil, fmt.Errorf("failed to create cluster client: %w", err)
		}

		return &Clients{Applier: client.Applier, Clientset: client.Clientset}, nil
	}
}

// Options configures the installer. The pinned release version is implied by
// ManifestURL; both come from the environment configuration.
type Options struct {
	// ManifestURL is the deploy manifest of the pinned controller release.
	ManifestURL string
	// Namespace is the namespace the controller deploys into.
	Namespace string
	// Deployment is the controller deployment the rollout wait watches.
	Deployment string
	// Timeout bounds the rollout wait.
	Timeout time.Duration
}

// IngressNginxInstaller installs the ingress-nginx controller.
type IngressNginxInstaller struct {
	options Options
	clients ClientsFactory
	writer  io.Writer
}

// NewIngressNginxInstaller creates a new ingress-nginx installer instance.
// Progress lines go to writer.
func NewIngressNginxInstaller(
	options Options,
	clients ClientsFactory,
	writer io.Writer,
) *IngressNginxInstaller {
	return &IngressNginxInstaller{
		options: options,
		clients: clients,
		writer:  writer,
	}
}

// Install fetches the deploy manifest, applies it, enables TLS passthrough on
// the controller deployment, and waits for the rollout to finish.
func (i *IngressNginxInstaller) Install(ctx context.Context) error {
	manifestBytes, err := i.fetchManifest(ctx)
	if err != nil {
		return err
	}

	clients, err := i.clients()
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to connect to cluster: %w", err),
		)
	}

	applied, err := clients.Applier.Apply(ctx, manifestBytes)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to apply ingress-nginx manifest: %w", err),
		)
	}

	notify.Activityf(i.writer, "applied %d ingress-nginx objects", applied)

	err = i.enableSSLPassthrough(ctx, clients.Clientset)
	if err != nil {
		return err
	}

	return i.waitForController(ctx, clients.Clientset)
}

// Uninstall is a no-op: the controller lives inside the cluster and is torn
// down with it.
func (i *IngressNginxInstaller) Uninstall(_ context.Context) error {
	return nil
}

// fetchManifest downloads the deploy manifest of the pinned release.
func (i *IngressNginxInstaller) fetchManifest(ctx context.Context) ([]byte, error) {
	notify.Activityf(i.writer, "fetching ingress-nginx manifest from %s", i.options.ManifestURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.options.ManifestURL, nil)
	if err != nil {
		return nil, errdefs.Precondition(
			fmt.Errorf("failed to create manifest request: %w", err),
		)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errdefs.ExternalFailure(
			fmt.Errorf("failed to fetch ingress-nginx manifest: %w", err),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errdefs.ExternalFailuref(
			"failed to fetch ingress-nginx manifest: unexpected status code %d",
			resp.StatusCode,
		)
	}

	manifestBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errdefs.ExternalFailure(
			fmt.Errorf("failed to read ingress-nginx manifest: %w", err),
		)
	}

	return manifestBytes, nil
}

// enableSSLPassthrough appends the passthrough argument to the controller
// container. The upstream manifest ships with passthrough disabled.
func (i *IngressNginxInstaller) enableSSLPassthrough(
	ctx context.Context,
	clientset kubernetes.Interface,
) error {
	notify.Activityf(
		i.writer,
		"enabling TLS passthrough on %s/%s",
		i.options.Namespace, i.options.Deployment,
	)

	patch, err := manifest.ControllerArgsPatch(manifest.SSLPassthroughArg)
	if err != nil {
		return fmt.Errorf("failed to build controller args patch: %w", err)
	}

	err = k8s.PatchDeployment(ctx, clientset, i.options.Namespace, i.options.Deployment, patch)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to enable TLS passthrough: %w", err),
		)
	}

	return nil
}

// waitForController blocks until the controller deployment is ready or the
// timeout expires. A failed wait carries a summary of the namespace's
// unhealthy pods so the report points at the actual problem.
func (i *IngressNginxInstaller) waitForController(
	ctx context.Context,
	clientset kubernetes.Interface,
) error {
	notify.Activityf(
		i.writer,
		"waiting up to %s for %s/%s rollout",
		i.options.Timeout, i.options.Namespace, i.options.Deployment,
	)

	err := k8s.WaitForDeploymentReady(
		ctx,
		clientset,
		i.options.Namespace,
		i.options.Deployment,
		i.options.Timeout,
	)
	if err == nil {
		return nil
	}

	summary := k8s.PodFailureSummary(ctx, clientset, i.options.Namespace)
	if summary != "" {
		err = fmt.Errorf("%w\n%s", err, summary)
	}

	if errdefs.IsTimeout(err) {
		return err
	}

	return errdefs.ExternalFailure(err)
}
