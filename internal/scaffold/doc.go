// Package scaffold drives a two-repository docker-compose development stack.
//
// The Orchestrator owns one resolved config.Config and an execx.Runner.
// Each exported method performs one user-facing operation (clone the
// service repositories, bring the stack up or down, import or dump the
// PostgreSQL database, run a test suite, tail logs) by issuing git, docker
// and docker-compose commands in order and waiting for each one.
//
// Operations never terminate the process. They return nil on success or a
// *model.CLIError whose Kind says whether the user, the environment or the
// caller is at fault. The cli package decides how to exit.
package scaffold
