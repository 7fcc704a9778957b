package docker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// defaultPingTimeout bounds a Ping. Docker Desktop on macOS can take a
// few seconds to answer after waking up.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client. It handles Docker socket
// detection across platforms and exposes the small API surface the CLI
// needs.
//
// Usage:
//
//	c, err := docker.NewClient()
//	if err != nil { /* handle */ }
//	defer c.Close()
//	containers, err := docker.ListProjectContainers(ctx, c.Inner(), "myproject")
type Client struct {
	inner *client.Client
}

// NewClient creates a new Docker client with automatic socket detection.
//
// The detection strategy follows this priority order:
//  1. DOCKER_HOST environment variable (if set, used as-is)
//  2. Platform-specific default socket paths:
//     - Linux: /var/run/docker.sock
//     - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//     - Windows: npipe:////./pipe/docker_engine
//
// Failures are environment errors wrapping model.ErrDockerNotRunning.
func NewClient() (*Client, error) {
	if dockerHost := os.Getenv("DOCKER_HOST"); dockerHost != "" {
		return newClientWithHost(dockerHost)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.NewEnvironmentError("Docker socket not found",
			errors.Join(model.ErrDockerNotRunning, err))
	}

	return newClientWithHost(host)
}

// newClientWithHost creates a Docker client connected to host, e.g.
// "unix:///var/run/docker.sock" or "npipe:////./pipe/docker_engine".
func newClientWithHost(host string) (*Client, error) {
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.NewEnvironmentError(
			fmt.Sprintf("failed to create Docker client for host %q", host),
			errors.Join(model.ErrDockerNotRunning, err),
		)
	}

	return &Client{inner: c}, nil
}

// detectDockerHost determines the Docker socket path for the current platform.
// It checks known socket paths and returns the first one that exists.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
		})

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return detectUnixSocket([]string{
				"/var/run/docker.sock",
			})
		}
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
			homeDir + "/.docker/run/docker.sock",
		})

	case "windows":
		// os.Stat does not work on named pipes, so dial briefly instead.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err == nil {
			conn.Close()
			return "npipe://" + pipePath, nil
		}
		return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectUnixSocket returns the Docker host URI for the first path in
// paths that exists. Existence does not prove the daemon is listening;
// Ping does that.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf(
		"Docker socket not found at any of: %v; is Docker running?",
		paths,
	)
}

// Ping verifies that the Docker daemon is reachable and responsive,
// waiting at most defaultPingTimeout.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.NewEnvironmentError(
			"Docker daemon is not responding, is Docker running?",
			errors.Join(model.ErrDockerNotRunning, err),
		)
	}
	return nil
}

// Close releases all resources held by the Docker client.
// Close is safe to call multiple times.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the underlying Docker SDK client.
func (c *Client) Inner() *client.Client {
	return c.inner
}
