// Package docker provides Docker Engine API wrappers for the dc-scaffold CLI.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Daemon connectivity checks (Ping)
//   - Listing the containers of a docker-compose project through the
//     com.docker.compose.* labels that compose puts on every container
//
// Everything that mutates the stack (up, down, exec, cp) goes through the
// compose and docker CLIs instead, via the scaffold package, so the user's
// docker user prefix and compose binary apply uniformly.
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
