package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/LinqLover/git-backup/internal/errors"
)

// CommandExecutor defines an interface for executing commands.
//
// The Env variants run the command with extra environment variables
// appended to the ambient environment. This is how staging operations
// are redirected to the snapshot index (GIT_INDEX_FILE) and how the
// backup committer identity is applied, without mutating the process
// environment.
type CommandExecutor interface {
	// Execute runs a command, discarding its output
	Execute(ctx context.Context, name string, args ...string) error

	// ExecuteWithOutput runs a command and returns its standard output
	ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error)

	// ExecuteWithEnv runs a command with extra environment variables
	ExecuteWithEnv(ctx context.Context, env []string, name string, args ...string) error

	// ExecuteWithEnvAndOutput runs a command with extra environment
	// variables and returns its standard output
	ExecuteWithEnvAndOutput(ctx context.Context, env []string, name string, args ...string) (string, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute implements CommandExecutor.Execute
func (e *ExecExecutor) Execute(ctx context.Context, name string, args ...string) error {
	return e.ExecuteWithEnv(ctx, nil, name, args...)
}

// ExecuteWithOutput implements CommandExecutor.ExecuteWithOutput
func (e *ExecExecutor) ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error) {
	return e.ExecuteWithEnvAndOutput(ctx, nil, name, args...)
}

// ExecuteWithEnv implements CommandExecutor.ExecuteWithEnv
func (e *ExecExecutor) ExecuteWithEnv(ctx context.Context, env []string, name string, args ...string) error {
	_, err := e.ExecuteWithEnvAndOutput(ctx, env, name, args...)
	return err
}

// ExecuteWithEnvAndOutput implements CommandExecutor.ExecuteWithEnvAndOutput
func (e *ExecExecutor) ExecuteWithEnvAndOutput(ctx context.Context, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Create a GitError that wraps the ErrGitOperationFailed sentinel error
		wrappedErr := errors.Wrap(errors.ErrGitOperationFailed, err.Error())
		gitErr := errors.NewGitError(operationFromArgs(args), args, wrappedErr, strings.TrimSpace(stderr.String()))

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			gitErr.ExitCode = exitErr.ExitCode()
		}

		return "", gitErr
	}

	return stdout.String(), nil
}

// operationFromArgs extracts the git subcommand from an argument list,
// skipping the leading "-C <path>" pair when present.
func operationFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-C" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}
