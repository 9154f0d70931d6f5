// Package registry manages the lifecycle of the local image registry
// container that accompanies the cluster.
package registry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"

	"github.com/slipway-dev/slipway/pkg/client/docker"
	"github.com/slipway-dev/slipway/pkg/errdefs"
	"github.com/slipway-dev/slipway/pkg/utils/notify"
)

// Backend defines the container operations the provisioner sequences.
// docker.RegistryManager is the production implementation.
type Backend interface {
	FindContainer(ctx context.Context, name string) (*container.Summary, error)
	EnsureImage(ctx context.Context, ref string) error
	CreateAndStart(ctx context.Context, spec docker.RegistrySpec) error
	Start(ctx context.Context, containerID string) error
	StopAndRemove(ctx context.Context, containerID string) error
	ConnectToNetwork(ctx context.Context, containerName, networkName string) error
}

// Provisioner converges the registry container on a desired state. Every
// operation inspects current engine truth first, so re-running after a
// partial failure picks up where the last run left off.
type Provisioner struct {
	backend Backend
	spec    docker.RegistrySpec
	writer  io.Writer
}

// NewProvisioner constructs a Provisioner for the registry described by spec.
// Progress lines go to writer.
func NewProvisioner(backend Backend, spec docker.RegistrySpec, writer io.Writer) *Provisioner {
	return &Provisioner{
		backend: backend,
		spec:    spec,
		writer:  writer,
	}
}

// EnsureRunning brings the registry container to the running state: created
// and started when absent, restarted when stopped, left alone when already
// running.
func (p *Provisioner) EnsureRunning(ctx context.Context) error {
	found, err := p.backend.FindContainer(ctx, p.spec.Name)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to inspect registry '%s': %w", p.spec.Name, err),
		)
	}

	switch {
	case found == nil:
		notify.Activityf(
			p.writer,
			"creating registry '%s' on %s:%d",
			p.spec.Name, docker.RegistryHostIP, p.spec.HostPort,
		)

		err = p.backend.EnsureImage(ctx, p.spec.Image)
		if err != nil {
			return errdefs.ExternalFailure(
				fmt.Errorf("failed to ensure registry image: %w", err),
			)
		}

		err = p.backend.CreateAndStart(ctx, p.spec)
		if err != nil {
			return errdefs.ExternalFailure(
				fmt.Errorf("failed to create registry '%s': %w", p.spec.Name, err),
			)
		}
	case strings.EqualFold(found.State, docker.StateRunning):
		notify.Activityf(p.writer, "skipping registry '%s' as it is already running", p.spec.Name)
	default:
		notify.Activityf(p.writer, "starting existing registry '%s'", p.spec.Name)

		err = p.backend.Start(ctx, found.ID)
		if err != nil {
			return errdefs.ExternalFailure(
				fmt.Errorf("failed to start registry '%s': %w", p.spec.Name, err),
			)
		}
	}

	return nil
}

// Running reports whether the registry container is currently running.
// Engine errors report false; this is a probe, not a health check.
func (p *Provisioner) Running(ctx context.Context) bool {
	found, err := p.backend.FindContainer(ctx, p.spec.Name)
	if err != nil || found == nil {
		return false
	}

	return strings.EqualFold(found.State, docker.StateRunning)
}

// Teardown stops and removes the registry container. An absent container is
// a no-op, making teardown safe to re-run.
func (p *Provisioner) Teardown(ctx context.Context) error {
	found, err := p.backend.FindContainer(ctx, p.spec.Name)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to inspect registry '%s': %w", p.spec.Name, err),
		)
	}

	if found == nil {
		notify.Activityf(p.writer, "no registry '%s' to remove", p.spec.Name)

		return nil
	}

	notify.Activityf(p.writer, "removing registry '%s'", p.spec.Name)

	err = p.backend.StopAndRemove(ctx, found.ID)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf("failed to remove registry '%s': %w", p.spec.Name, err),
		)
	}

	return nil
}

// ConnectToNetwork attaches the registry container to the named network so
// cluster nodes can reach it by container name. Already attached is success.
func (p *Provisioner) ConnectToNetwork(ctx context.Context, networkName string) error {
	err := p.backend.ConnectToNetwork(ctx, p.spec.Name, networkName)
	if err != nil {
		return errdefs.ExternalFailure(
			fmt.Errorf(
				"failed to connect registry '%s' to network '%s': %w",
				p.spec.Name, networkName, err,
			),
		)
	}

	return nil
}
