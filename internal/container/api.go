// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

type (
	// dockerAPI is the subset of the Docker Engine client used by APIEngine.
	dockerAPI interface {
		Ping(ctx context.Context) (types.Ping, error)
		ImageInspectWithRaw(ctx context.Context, imageID string) (image.InspectResponse, []byte, error)
		ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
		ContainerCreate(ctx context.Context, config *containertypes.Config, hostConfig *containertypes.HostConfig,
			networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string,
		) (containertypes.CreateResponse, error)
		ContainerWait(ctx context.Context, containerID string, condition containertypes.WaitCondition,
		) (<-chan containertypes.WaitResponse, <-chan error)
		ContainerStart(ctx context.Context, containerID string, options containertypes.StartOptions) error
		ContainerAttach(ctx context.Context, containerID string, options containertypes.AttachOptions) (types.HijackedResponse, error)
		ContainerRemove(ctx context.Context, containerID string, options containertypes.RemoveOptions) error
		Close() error
	}

	// APIEngineOption configures an APIEngine.
	APIEngineOption func(*APIEngine)

	// APIEngine implements Engine against the Docker daemon's HTTP API.
	APIEngine struct {
		client dockerAPI
		logger *slog.Logger
	}
)

// WithAPILogger sets the logger used for pull progress and lifecycle messages.
func WithAPILogger(logger *slog.Logger) APIEngineOption {
	return func(e *APIEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// withDockerAPI replaces the Docker client, for tests.
func withDockerAPI(api dockerAPI) APIEngineOption {
	return func(e *APIEngine) {
		e.client = api
	}
}

// NewAPIEngine creates an engine using the Docker client configured from the
// environment (DOCKER_HOST, DOCKER_CERT_PATH, ...), with API version negotiation.
func NewAPIEngine(opts ...APIEngineOption) (*APIEngine, error) {
	e := &APIEngine{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("failed to create Docker client: %w", err)
		}
		e.client = cli
	}
	return e, nil
}

// Name returns the engine name.
func (e *APIEngine) Name() string {
	return string(EngineTypeDocker)
}

// Available pings the daemon.
func (e *APIEngine) Available(ctx context.Context) bool {
	_, err := e.client.Ping(ctx)
	return err == nil
}

// Close releases the underlying client.
func (e *APIEngine) Close() error {
	return e.client.Close()
}

// ImageExists checks if an image is present in the daemon's image store.
func (e *APIEngine) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, _, err := e.client.ImageInspectWithRaw(ctx, ref)
	if err == nil {
		return true, nil
	}
	if cerrdefs.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to inspect image %s: %w", ref, err)
}

// Run pulls the image when absent, creates the container, attaches to its output
// streams and waits for it to exit. With opts.Remove the daemon removes the container
// on exit; a container that fails to attach or start is removed here.
func (e *APIEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	binds, err := bindSpecs(opts.Volumes)
	if err != nil {
		return nil, err
	}

	if err := e.ensureImage(ctx, opts.Image); err != nil {
		return nil, err
	}

	config := &containertypes.Config{
		Image:        opts.Image,
		Cmd:          opts.Command,
		WorkingDir:   opts.WorkDir,
		AttachStdout: true,
		AttachStderr: true,
	}
	hostConfig := &containertypes.HostConfig{
		AutoRemove: opts.Remove,
		Binds:      binds,
	}

	resp, err := e.client.ContainerCreate(ctx, config, hostConfig, nil, nil, opts.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create container from %s: %w", opts.Image, err)
	}
	for _, w := range resp.Warnings {
		e.logger.Warn("container engine warning", "container", opts.Name, "warning", w)
	}

	// Attaching and waiting before start keeps the output and exit status of a
	// container that exits and is auto-removed right away.
	stream, err := e.client.ContainerAttach(ctx, resp.ID, containertypes.AttachOptions{
		Stream: true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		e.remove(ctx, resp.ID)
		return nil, fmt.Errorf("failed to attach to container %s: %w", resp.ID, err)
	}
	defer stream.Close()

	condition := containertypes.WaitConditionNotRunning
	if opts.Remove {
		condition = containertypes.WaitConditionRemoved
	}
	statusCh, errCh := e.client.ContainerWait(ctx, resp.ID, condition)

	if err := e.client.ContainerStart(ctx, resp.ID, containertypes.StartOptions{}); err != nil {
		e.remove(ctx, resp.ID)
		return nil, fmt.Errorf("failed to start container %s: %w", resp.ID, err)
	}

	if err := copyOutput(resp.ID, stream.Reader, opts.Output); err != nil {
		return nil, err
	}

	result := &RunResult{ContainerID: resp.ID}
	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("failed waiting for container %s: %w", resp.ID, err)
		}
	case status := <-statusCh:
		if status.Error != nil && status.Error.Message != "" {
			return nil, fmt.Errorf("container %s: %s", resp.ID, status.Error.Message)
		}
		result.ExitCode = int(status.StatusCode)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return result, nil
}

func (e *APIEngine) ensureImage(ctx context.Context, ref string) error {
	exists, err := e.ImageExists(ctx, ref)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	e.logger.Debug("pulling image", "image", ref)
	err = RetryWithBackoff(ctx, pullAttempts, pullBackoffBase, func(attempt int) (bool, error) {
		reader, err := e.client.ImagePull(ctx, ref, image.PullOptions{})
		if err == nil {
			_, err = io.Copy(io.Discard, reader)
			reader.Close()
		}
		if err != nil {
			e.logger.Debug("image pull failed", "image", ref, "attempt", attempt+1, "error", err)
			return IsTransientError(err), err
		}
		return false, nil
	})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	return nil
}

// remove force-removes a container that never ran to completion. It runs even
// when ctx is canceled.
func (e *APIEngine) remove(ctx context.Context, containerID string) {
	err := e.client.ContainerRemove(context.WithoutCancel(ctx), containerID, containertypes.RemoveOptions{Force: true})
	if err != nil && !cerrdefs.IsNotFound(err) {
		e.logger.Debug("failed to remove container", "container", containerID, "error", err)
	}
}

func copyOutput(containerID string, stream io.Reader, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if _, err := stdcopy.StdCopy(out, out, stream); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read container %s output: %w", containerID, err)
	}
	return nil
}
