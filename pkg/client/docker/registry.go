package docker

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"
)

const (
	// RegistryLabelKey marks registry containers as managed by slipway.
	RegistryLabelKey = "dev.slipway.registry"
	// RegistryHostIP is the host address registry ports bind to.
	RegistryHostIP = "127.0.0.1"
	// StateRunning is the engine's state string for a running container.
	StateRunning = "running"
)

// RegistryManager runs the local registry container through the engine API.
type RegistryManager struct {
	client ContainerAPI
}

// NewRegistryManager constructs a RegistryManager on top of the given engine client.
func NewRegistryManager(client ContainerAPI) *RegistryManager {
	return &RegistryManager{client: client}
}

// RegistrySpec describes the registry container to create.
type RegistrySpec struct {
	// Name is the container name, also its DNS name on container networks.
	Name string
	// Image is the registry image reference.
	Image string
	// HostPort publishes the registry on 127.0.0.1:<HostPort>.
	HostPort int
	// ContainerPort is the port the registry listens on inside the container.
	ContainerPort int
}

// FindContainer looks up the registry container by exact name, in any state.
// Returns nil without error when no such container exists.
func (rm *RegistryManager) FindContainer(
	ctx context.Context,
	name string,
) (*container.Summary, error) {
	// Anchor the name filter so "registry" does not match "registry-2".
	filterArgs := filters.NewArgs()
	filterArgs.Add("name", "^/"+name+"$")

	containers, err := rm.client.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	if len(containers) == 0 {
		return nil, nil
	}

	return &containers[0], nil
}

// IsRunning reports whether the named registry container exists and is running.
func (rm *RegistryManager) IsRunning(ctx context.Context, name string) (bool, error) {
	found, err := rm.FindContainer(ctx, name)
	if err != nil {
		return false, err
	}

	if found == nil {
		return false, nil
	}

	return strings.EqualFold(found.State, StateRunning), nil
}

// EnsureImage pulls the image unless it is already present locally.
func (rm *RegistryManager) EnsureImage(ctx context.Context, ref string) error {
	_, err := rm.client.ImageInspect(ctx, ref)
	if err == nil {
		return nil
	}

	if !cerrdefs.IsNotFound(err) {
		return fmt.Errorf("failed to inspect image %q: %w", ref, err)
	}

	reader, err := rm.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %q: %w", ref, err)
	}

	// Pull completes only once the progress stream is drained.
	_, err = io.Copy(io.Discard, reader)
	closeErr := reader.Close()

	if err != nil {
		return fmt.Errorf("failed to read image pull output: %w", err)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close image pull reader: %w", closeErr)
	}

	return nil
}

// CreateAndStart creates the registry container detached with restart policy
// "always" and its container port published on 127.0.0.1:<HostPort>, then
// starts it.
func (rm *RegistryManager) CreateAndStart(ctx context.Context, spec RegistrySpec) error {
	containerPort := nat.Port(strconv.Itoa(spec.ContainerPort) + "/tcp")

	containerConfig := &container.Config{
		Image: spec.Image,
		ExposedPorts: nat.PortSet{
			containerPort: struct{}{},
		},
		Labels: map[string]string{
			RegistryLabelKey: spec.Name,
		},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			containerPort: []nat.PortBinding{
				{
					HostIP:   RegistryHostIP,
					HostPort: strconv.Itoa(spec.HostPort),
				},
			},
		},
		RestartPolicy: container.RestartPolicy{
			Name: container.RestartPolicyAlways,
		},
	}

	resp, err := rm.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return fmt.Errorf("failed to create registry container: %w", err)
	}

	err = rm.client.ContainerStart(ctx, resp.ID, container.StartOptions{})
	if err != nil {
		return fmt.Errorf("failed to start registry container: %w", err)
	}

	return nil
}

// Start starts an existing, stopped registry container.
func (rm *RegistryManager) Start(ctx context.Context, containerID string) error {
	err := rm.client.ContainerStart(ctx, containerID, container.StartOptions{})
	if err != nil {
		return fmt.Errorf("failed to start registry container: %w", err)
	}

	return nil
}

// StopAndRemove stops the container and removes it by its resolved ID.
func (rm *RegistryManager) StopAndRemove(ctx context.Context, containerID string) error {
	err := rm.client.ContainerStop(ctx, containerID, container.StopOptions{})
	if err != nil {
		return fmt.Errorf("failed to stop registry container: %w", err)
	}

	err = rm.client.ContainerRemove(ctx, containerID, container.RemoveOptions{})
	if err != nil && !cerrdefs.IsNotFound(err) {
		return fmt.Errorf("failed to remove registry container: %w", err)
	}

	return nil
}

// ConnectToNetwork attaches the container to the named network. A container
// already attached to the network reports success, so re-running start after
// a partial failure converges instead of aborting.
func (rm *RegistryManager) ConnectToNetwork(ctx context.Context, containerName, networkName string) error {
	err := rm.client.NetworkConnect(ctx, networkName, containerName, &network.EndpointSettings{})
	if err != nil {
		if isAlreadyConnected(err) {
			return nil
		}

		return fmt.Errorf(
			"failed to connect container %q to network %q: %w",
			containerName,
			networkName,
			err,
		)
	}

	return nil
}

// isAlreadyConnected matches the engine's duplicate-endpoint error.
func isAlreadyConnected(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists in network")
}
