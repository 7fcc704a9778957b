package compose

import (
	"fmt"
	"path/filepath"

	"github.com/shinji-kodama/dc-scaffold/internal/config"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// Issue is one mismatch between the compose file and what dc-scaffold
// assumes about the stack.
type Issue struct {
	// Field is the compose path at fault, e.g. "services.db".
	Field string `json:"field"`

	// Message describes the mismatch.
	Message string `json:"message"`
}

// String renders the issue as "field: message".
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Validate checks f against cfg and returns the issues found (empty means
// the file fits).
//
// Checks performed:
//   - frontend, backend and db services are defined
//   - no top-level name overrides the directory-derived project name
//   - no service sets container_name, which would break the
//     <project>_<service>_1 naming used by docker exec
//   - locally built application services build from their checkout
func Validate(f *File, cfg config.Config) []Issue {
	var issues []Issue

	if f.Name != "" && f.Name != cfg.ProjectName() {
		issues = append(issues, Issue{
			Field: "name",
			Message: fmt.Sprintf("project name %q differs from the directory name %q; container names will not match",
				f.Name, cfg.ProjectName()),
		})
	}

	for _, svc := range []model.Service{model.ServiceFrontend, model.ServiceBackend, model.ServiceDB} {
		field := "services." + svc.String()

		def, ok := f.Services[svc.String()]
		if !ok {
			issues = append(issues, Issue{Field: field, Message: "service is not defined"})
			continue
		}

		if def.ContainerName != "" && def.ContainerName != cfg.ContainerName(svc) {
			issues = append(issues, Issue{
				Field:   field + ".container_name",
				Message: fmt.Sprintf("%q replaces the expected name %q", def.ContainerName, cfg.ContainerName(svc)),
			})
		}

		if svc == model.ServiceDB {
			continue
		}
		if ctx := def.BuildContext(); ctx != "" && !sameDir(ctx, cfg.ServiceDir(svc)) {
			issues = append(issues, Issue{
				Field:   field + ".build",
				Message: fmt.Sprintf("builds from %q, not the %s checkout %q", ctx, svc, cfg.ServiceDir(svc)),
			})
		}
	}

	return issues
}

// sameDir compares two relative paths after cleaning.
func sameDir(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
