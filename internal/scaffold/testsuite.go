package scaffold

import (
	"context"
	"fmt"

	"github.com/shinji-kodama/dc-scaffold/internal/config"
	"github.com/shinji-kodama/dc-scaffold/internal/execx"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// TestSuiteCommand builds the command RunTestSuite would execute.
//
// section[0] selects the service ("frontend" or "backend"); the remaining
// elements are appended to that service's test runner. Anything else is an
// invalid-argument error wrapping model.ErrUnknownSection.
func (o *Orchestrator) TestSuiteCommand(section []string) (execx.Command, error) {
	if len(section) == 0 {
		return execx.Command{}, model.NewInvalidArgumentError("no test section given (frontend or backend)", model.ErrUnknownSection)
	}

	svc := model.Service(section[0])
	var runner string
	switch svc {
	case model.ServiceFrontend:
		runner = o.cfg.FrontendTestRunner
	case model.ServiceBackend:
		runner = o.cfg.BackendTestRunner
	default:
		return execx.Command{}, model.NewInvalidArgumentError(
			fmt.Sprintf("unknown test section %q (frontend or backend)", section[0]),
			model.ErrUnknownSection,
		)
	}

	args := []string{"exec"}
	if !o.cfg.TTY {
		args = append(args, "-T")
	}
	args = append(args, svc.String())
	args = append(args, config.Fields(runner)...)
	args = append(args, section[1:]...)

	return o.composeCmd(args...), nil
}

// RunTestSuite runs the test suite selected by section inside its
// container. Nothing is executed for an unknown section.
func (o *Orchestrator) RunTestSuite(ctx context.Context, section []string) error {
	cmd, err := o.TestSuiteCommand(section)
	if err != nil {
		return err
	}

	o.log.Info("running tests", "service", section[0])
	return o.runOne(ctx, fmt.Sprintf("the %s tests failed", section[0]), o.interactive(cmd))
}
