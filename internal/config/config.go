package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// Default values for the configurable commands and names.
const (
	DefaultFrontendDir        = "frontend"
	DefaultBackendDir         = "backend"
	DefaultCloneCommand       = "git clone"
	DefaultComposeCommand     = "docker-compose"
	DefaultBackendShell       = "python manage.py shell"
	DefaultFrontendTestRunner = "npm run test"
	DefaultBackendTestRunner  = "pytest"
	DefaultDatabaseUser       = "postgres"
	DefaultDatabaseName       = "postgres"
)

// ErrEmptyProjectName is returned by Resolve when the working directory has
// no usable base name. Container names are derived from it, so an empty
// project name would produce names like "_db_1".
var ErrEmptyProjectName = errors.New("project name derived from working directory is empty")

// Config is the orchestrator configuration.
//
// Field tags serve both file formats: yaml for .yml/.yaml files and json
// for .json (JSONC) files. Command strings such as CloneCommand are split
// on whitespace into an executable and its leading arguments; they are
// never passed through a shell.
type Config struct {
	// DockerUser is an optional prefix for every docker-family command,
	// e.g. "sudo" or "sudo -u deploy".
	DockerUser string `yaml:"docker_user" json:"docker_user"`

	// FrontendDir and BackendDir are directory names relative to WorkingDir.
	FrontendDir string `yaml:"frontend_dir" json:"frontend_dir"`
	BackendDir  string `yaml:"backend_dir" json:"backend_dir"`

	// FrontendRepo and BackendRepo are repository path segments appended
	// to RepoBase to form the clone URL.
	FrontendRepo string `yaml:"frontend_repo" json:"frontend_repo"`
	BackendRepo  string `yaml:"backend_repo" json:"backend_repo"`

	// RepoBase is the URL prefix shared by both repositories,
	// e.g. "git@github.com:acme/".
	RepoBase string `yaml:"repo_base" json:"repo_base"`

	// CloneCommand is the clone invocation, "git clone" by default.
	CloneCommand string `yaml:"clone_command" json:"clone_command"`

	// WorkingDir is the directory holding docker-compose.yml and the
	// service checkouts. Its base name is the compose project name.
	WorkingDir string `yaml:"working_dir" json:"working_dir"`

	// ComposeCommand is the compose binary invocation, "docker-compose"
	// by default. Set it to "docker compose" for the plugin form.
	ComposeCommand string `yaml:"compose_command" json:"compose_command"`

	// BackendShell is run inside the backend container by the shell command.
	BackendShell string `yaml:"backend_shell" json:"backend_shell"`

	// FrontendTestRunner and BackendTestRunner are run inside their
	// containers by the test command, followed by any extra arguments.
	FrontendTestRunner string `yaml:"frontend_test_runner" json:"frontend_test_runner"`
	BackendTestRunner  string `yaml:"backend_test_runner" json:"backend_test_runner"`

	// DatabaseUser and DatabaseName are used for psql imports and pg_dump.
	DatabaseUser string `yaml:"database_user" json:"database_user"`
	DatabaseName string `yaml:"database_name" json:"database_name"`

	// SkipCredentialCache disables the temporary
	// `git config --global credential.helper store` around clones.
	SkipCredentialCache bool `yaml:"skip_credential_cache" json:"skip_credential_cache"`

	// TTY requests a pseudo-terminal (-t) for interactive docker exec
	// calls. The CLI sets it when stdin is a terminal.
	TTY bool `yaml:"-" json:"-"`
}

// Default returns a Config populated with built-in defaults.
// WorkingDir is left empty; Resolve fills it with the process working
// directory.
func Default() Config {
	return Config{
		FrontendDir:        DefaultFrontendDir,
		BackendDir:         DefaultBackendDir,
		CloneCommand:       DefaultCloneCommand,
		ComposeCommand:     DefaultComposeCommand,
		BackendShell:       DefaultBackendShell,
		FrontendTestRunner: DefaultFrontendTestRunner,
		BackendTestRunner:  DefaultBackendTestRunner,
		DatabaseUser:       DefaultDatabaseUser,
		DatabaseName:       DefaultDatabaseName,
	}
}

// Merge returns c with every non-empty field of other copied over it.
// Boolean fields are OR-ed so a file or flag can switch them on.
func (c Config) Merge(other Config) Config {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&c.DockerUser, other.DockerUser)
	set(&c.FrontendDir, other.FrontendDir)
	set(&c.BackendDir, other.BackendDir)
	set(&c.FrontendRepo, other.FrontendRepo)
	set(&c.BackendRepo, other.BackendRepo)
	set(&c.RepoBase, other.RepoBase)
	set(&c.CloneCommand, other.CloneCommand)
	set(&c.WorkingDir, other.WorkingDir)
	set(&c.ComposeCommand, other.ComposeCommand)
	set(&c.BackendShell, other.BackendShell)
	set(&c.FrontendTestRunner, other.FrontendTestRunner)
	set(&c.BackendTestRunner, other.BackendTestRunner)
	set(&c.DatabaseUser, other.DatabaseUser)
	set(&c.DatabaseName, other.DatabaseName)
	c.SkipCredentialCache = c.SkipCredentialCache || other.SkipCredentialCache
	c.TTY = c.TTY || other.TTY
	return c
}

// Resolve fills defaults for empty fields, makes WorkingDir absolute and
// checks that a project name can be derived from it.
func (c Config) Resolve() (Config, error) {
	c = Default().Merge(c)

	if c.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("failed to determine working directory: %w", err)
		}
		c.WorkingDir = wd
	}

	abs, err := filepath.Abs(c.WorkingDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve working directory %q: %w", c.WorkingDir, err)
	}
	c.WorkingDir = abs

	if c.ProjectName() == "" {
		return Config{}, fmt.Errorf("%w: %s", ErrEmptyProjectName, c.WorkingDir)
	}

	return c, nil
}

// FrontendPath returns the absolute path of the frontend checkout.
func (c Config) FrontendPath() string {
	return filepath.Join(c.WorkingDir, c.FrontendDir)
}

// BackendPath returns the absolute path of the backend checkout.
func (c Config) BackendPath() string {
	return filepath.Join(c.WorkingDir, c.BackendDir)
}

// ProjectName returns the compose project name, the base name of WorkingDir.
// A filesystem root or an unset WorkingDir yields an empty string.
func (c Config) ProjectName() string {
	if c.WorkingDir == "" {
		return ""
	}
	name := filepath.Base(filepath.Clean(c.WorkingDir))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// ContainerName returns the container name docker-compose (v1 naming)
// gives the first replica of a service: <project>_<service>_1.
func (c Config) ContainerName(svc model.Service) string {
	return fmt.Sprintf("%s_%s_1", c.ProjectName(), svc)
}

// ServiceDir returns the configured directory name for an application
// service.
func (c Config) ServiceDir(svc model.Service) string {
	if svc == model.ServiceFrontend {
		return c.FrontendDir
	}
	return c.BackendDir
}

// ServicePath returns the absolute checkout path for an application service.
func (c Config) ServicePath(svc model.Service) string {
	return filepath.Join(c.WorkingDir, c.ServiceDir(svc))
}

// ServiceRepo returns the repository path segment for an application service.
func (c Config) ServiceRepo(svc model.Service) string {
	if svc == model.ServiceFrontend {
		return c.FrontendRepo
	}
	return c.BackendRepo
}

// Fields splits a command string into an executable and arguments.
// An empty or blank string yields nil.
func Fields(command string) []string {
	return strings.Fields(command)
}
