// Package model defines the domain types for the dc-scaffold CLI.
//
// These types are shared by the orchestrator, the CLI layer and the Docker
// wrappers. None of them is persisted: everything is derived at runtime from
// the configuration, the filesystem and the Docker daemon.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Service identifies one member of the compose stack.
//
// The service name doubles as the docker-compose service key and as the
// middle segment of the container name convention <project>_<service>_1.
type Service string

const (
	// ServiceFrontend is the frontend application service.
	ServiceFrontend Service = "frontend"

	// ServiceBackend is the backend application service.
	ServiceBackend Service = "backend"

	// ServiceDB is the PostgreSQL database service.
	ServiceDB Service = "db"
)

// String returns the string representation of Service.
func (s Service) String() string {
	return string(s)
}

// IsValid checks whether the Service value is one of the predefined services.
func (s Service) IsValid() bool {
	switch s {
	case ServiceFrontend, ServiceBackend, ServiceDB:
		return true
	default:
		return false
	}
}

// HasTestSuite reports whether the service has an in-container test runner.
// Only the two application services do; the database does not.
func (s Service) HasTestSuite() bool {
	return s == ServiceFrontend || s == ServiceBackend
}

// ParseService converts a string to a Service.
// Returns an error if the string does not match any valid service.
func ParseService(s string) (Service, error) {
	svc := Service(strings.ToLower(strings.TrimSpace(s)))
	if !svc.IsValid() {
		return "", fmt.Errorf("invalid service: %q (valid: frontend, backend, db)", s)
	}
	return svc, nil
}

// Ref selects the point in a repository's history to clone.
//
// Branch and Tag are mutually exclusive in intent. When both are set,
// Branch takes precedence (see Name).
type Ref struct {
	// Branch is the branch name to check out. Empty means "not given".
	Branch string `json:"branch,omitempty"`

	// Tag is the tag name to check out. Empty means "not given".
	Tag string `json:"tag,omitempty"`
}

// Name returns the ref passed to `git clone -b`: the branch if given,
// otherwise the tag, otherwise an empty string (clone the default branch).
func (r Ref) Name() string {
	if r.Branch != "" {
		return r.Branch
	}
	return r.Tag
}

// IsZero reports whether neither a branch nor a tag was given.
func (r Ref) IsZero() bool {
	return r.Branch == "" && r.Tag == ""
}

// IsAmbiguous reports whether both a branch and a tag were given.
func (r Ref) IsAmbiguous() bool {
	return r.Branch != "" && r.Tag != ""
}

// ContainerInfo holds runtime information about a Docker container.
// This data is fetched dynamically from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// ServiceName is the Docker Compose service name, if applicable.
	ServiceName string `json:"serviceName,omitempty"`

	// Image is the image reference the container was created from.
	Image string `json:"image,omitempty"`

	// State is the short Docker state (e.g., "running", "exited", "created").
	State string `json:"state"`

	// Status is Docker's human-readable status (e.g., "Up 3 minutes").
	Status string `json:"status,omitempty"`
}

// ExitCode defines the process exit codes produced by the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unclassified error, such as a
	// malformed command line rejected by cobra.
	ExitGeneralError ExitCode = 1

	// ExitFailure is returned for every classified operational failure
	// (directory removal, clone ref not found, clone failure, Docker not
	// running). Scripts built around the tool check for this value.
	ExitFailure ExitCode = -1
)

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	// KindUserInput is a failure caused by a value the user supplied,
	// e.g. a branch or tag that does not exist upstream.
	KindUserInput ErrorKind = "user-input"

	// KindEnvironment is a failure caused by the surrounding system:
	// no network, Docker daemon down, a directory that cannot be deleted.
	KindEnvironment ErrorKind = "environment"

	// KindInvalidArgument is a programming-level misuse of an operation,
	// e.g. an unknown test-suite section.
	KindInvalidArgument ErrorKind = "invalid-argument"
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	return string(k)
}

// Sentinel errors wrapped by CLIError. Callers match them with errors.Is.
var (
	// ErrRefNotFound means the requested branch or tag does not exist upstream.
	ErrRefNotFound = errors.New("ref not found in upstream origin")

	// ErrCloneFailed means a clone failed for a reason other than a missing ref.
	ErrCloneFailed = errors.New("clone failed")

	// ErrDockerNotRunning means the Docker daemon could not be reached.
	ErrDockerNotRunning = errors.New("docker is not running")

	// ErrUnknownSection means a test-suite section other than frontend/backend.
	ErrUnknownSection = errors.New("unknown test section")

	// ErrRemoveFailed means a service directory could not be deleted.
	ErrRemoveFailed = errors.New("directory removal failed")

	// ErrCommandFailed means an external command exited non-zero.
	ErrCommandFailed = errors.New("command failed")
)

// CLIError is a custom error type that carries an exit code and a failure
// kind. It is the tagged result of every orchestrator operation: nil means
// success, a *CLIError says which kind of failure happened and how the
// process should exit if the caller decides to terminate.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Kind classifies the failure.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new unclassified CLIError with the given exit code
// and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new unclassified CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// NewUserError creates a fatal user-input failure.
func NewUserError(message string, err error) *CLIError {
	return &CLIError{Code: ExitFailure, Kind: KindUserInput, Message: message, Err: err}
}

// NewEnvironmentError creates a fatal environment failure.
func NewEnvironmentError(message string, err error) *CLIError {
	return &CLIError{Code: ExitFailure, Kind: KindEnvironment, Message: message, Err: err}
}

// NewInvalidArgumentError creates a failure for a misused operation.
func NewInvalidArgumentError(message string, err error) *CLIError {
	return &CLIError{Code: ExitFailure, Kind: KindInvalidArgument, Message: message, Err: err}
}

// KindOf returns the ErrorKind of err if it is (or wraps) a *CLIError,
// and an empty kind otherwise.
func KindOf(err error) ErrorKind {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Kind
	}
	return ""
}
