package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// ContainerAPI describes the subset of methods from Docker's APIClient used
// by slipway. Satisfied by *client.Client; narrow enough to fake in tests.
type ContainerAPI interface {
	ContainerList(
		ctx context.Context,
		options container.ListOptions,
	) ([]container.Summary, error)
	ContainerCreate(
		ctx context.Context,
		config *container.Config,
		hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig,
		platform *ocispec.Platform,
		containerName string,
	) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ImageInspect(
		ctx context.Context,
		imageID string,
		inspectOpts ...client.ImageInspectOption,
	) (image.InspectResponse, error)
	ImagePull(
		ctx context.Context,
		refStr string,
		options image.PullOptions,
	) (io.ReadCloser, error)
	NetworkConnect(
		ctx context.Context,
		networkID, containerID string,
		config *network.EndpointSettings,
	) error
}

// GetDockerClient creates a Docker client using environment configuration.
func GetDockerClient() (ContainerAPI, error) {
	dockerClient, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return dockerClient, nil
}
