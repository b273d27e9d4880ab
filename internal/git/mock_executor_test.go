package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/LinqLover/git-backup/internal/errors"
)

// executorCall records a single command dispatched through the executor.
type executorCall struct {
	Name string
	Args []string
	Env  []string
}

// Subcommand returns the git subcommand of the call, skipping the
// leading "-C <path>" pair.
func (c executorCall) Subcommand() string {
	return operationFromArgs(c.Args)
}

// MockCommandExecutor records calls and delegates responses to Handler.
type MockCommandExecutor struct {
	Calls   []executorCall
	Handler func(env []string, name string, args ...string) (string, error)
}

func (m *MockCommandExecutor) record(env []string, name string, args []string) (string, error) {
	m.Calls = append(m.Calls, executorCall{Name: name, Args: args, Env: env})
	if m.Handler != nil {
		return m.Handler(env, name, args...)
	}
	return "", nil
}

func (m *MockCommandExecutor) Execute(ctx context.Context, name string, args ...string) error {
	_, err := m.record(nil, name, args)
	return err
}

func (m *MockCommandExecutor) ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error) {
	return m.record(nil, name, args)
}

func (m *MockCommandExecutor) ExecuteWithEnv(ctx context.Context, env []string, name string, args ...string) error {
	_, err := m.record(env, name, args)
	return err
}

func (m *MockCommandExecutor) ExecuteWithEnvAndOutput(ctx context.Context, env []string, name string, args ...string) (string, error) {
	return m.record(env, name, args)
}

// CallsFor returns all recorded calls for the given git subcommand.
func (m *MockCommandExecutor) CallsFor(subcommand string) []executorCall {
	var calls []executorCall
	for _, c := range m.Calls {
		if c.Subcommand() == subcommand {
			calls = append(calls, c)
		}
	}
	return calls
}

// exitError builds the GitError the real executor would produce for a
// command failing with the given exit code.
func exitError(operation string, code int) error {
	gitErr := errors.NewGitError(operation, nil,
		errors.Wrap(errors.ErrGitOperationFailed, fmt.Sprintf("exit status %d", code)), "")
	gitErr.ExitCode = code
	return gitErr
}

// fakeRepo emulates the git commands the backup pipeline issues,
// backed by in-memory repository state.
type fakeRepo struct {
	branch    string // current branch, "" when detached
	head      string // current commit, "" when the repository has no commits
	shortHead string
	gitDir    string
	refs      map[string]string // branch name -> commit
	config    map[string]string
	treeHash  string
	commit    string
	pushErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		branch:    "main",
		head:      "c0ffee0000000000000000000000000000000000",
		shortHead: "c0ffee0",
		gitDir:    "/nonexistent/.git",
		refs:      map[string]string{},
		config:    map[string]string{},
		treeHash:  "7ree0000000000000000000000000000000000aa",
		commit:    "bac0000000000000000000000000000000000001",
	}
}

// handle implements MockCommandExecutor.Handler over the fake state.
func (f *fakeRepo) handle(env []string, name string, args ...string) (string, error) {
	// Skip "-C <path>"
	rest := args
	for len(rest) >= 2 && rest[0] == "-C" {
		rest = rest[2:]
	}
	if len(rest) == 0 {
		return "", exitError("", 129)
	}

	switch rest[0] {
	case "branch":
		return f.branch + "\n", nil

	case "rev-parse":
		switch {
		case rest[1] == "--git-dir":
			return f.gitDir + "\n", nil
		case rest[1] == "--short":
			if f.head == "" {
				return "", exitError("rev-parse", 128)
			}
			return f.shortHead + "\n", nil
		case rest[1] == "HEAD":
			if f.head == "" {
				return "", exitError("rev-parse", 128)
			}
			return f.head + "\n", nil
		case strings.HasPrefix(rest[1], "refs/heads/"):
			branch := strings.TrimPrefix(rest[1], "refs/heads/")
			if commit, ok := f.refs[branch]; ok {
				return commit + "\n", nil
			}
			return "", exitError("rev-parse", 128)
		}
		return "", exitError("rev-parse", 128)

	case "show-ref":
		branch := strings.TrimPrefix(rest[len(rest)-1], "refs/heads/")
		if _, ok := f.refs[branch]; ok {
			return "", nil
		}
		return "", exitError("show-ref", 1)

	case "add":
		return "", nil

	case "write-tree":
		return f.treeHash + "\n", nil

	case "commit-tree":
		return f.commit + "\n", nil

	case "update-ref":
		branch := strings.TrimPrefix(rest[1], "refs/heads/")
		newValue := rest[2]
		if len(rest) > 3 {
			oldValue := rest[3]
			current := f.refs[branch]
			if current != oldValue {
				return "", exitError("update-ref", 128)
			}
		}
		f.refs[branch] = newValue
		return "", nil

	case "config":
		if rest[1] == "--get" {
			if value, ok := f.config[rest[2]]; ok {
				return value + "\n", nil
			}
			return "", exitError("config", 1)
		}
		f.config[rest[1]] = rest[2]
		return "", nil

	case "push":
		if f.pushErr != nil {
			return "", f.pushErr
		}
		return "", nil
	}

	return "", exitError(rest[0], 129)
}
