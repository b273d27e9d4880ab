package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	originalErr := New("original error")
	wrappedErr := Wrap(originalErr, "wrapped message")

	if !Is(wrappedErr, originalErr) {
		t.Errorf("Expected wrapped error to match original, but it didn't")
	}

	expectedMsg := "wrapped message: original error"
	if wrappedErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, wrappedErr.Error())
	}
}

func TestWrapf(t *testing.T) {
	originalErr := New("original error")
	wrappedErr := Wrapf(originalErr, "wrapped message with %s", "format")

	if !Is(wrappedErr, originalErr) {
		t.Errorf("Expected wrapped error to match original, but it didn't")
	}

	expectedMsg := "wrapped message with format: original error"
	if wrappedErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, wrappedErr.Error())
	}
}

func TestGitError(t *testing.T) {
	err := errors.New("command failed")
	gitErr := NewGitError("push", []string{"origin", "main"}, err, "Permission denied")

	expectedMsg := "git push failed: Permission denied: command failed"
	if gitErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, gitErr.Error())
	}

	if !errors.Is(gitErr, err) {
		t.Errorf("Expected GitError.Unwrap() to return the original error")
	}
}

func TestGitErrorWithoutOutput(t *testing.T) {
	err := errors.New("exit status 1")
	gitErr := NewGitError("write-tree", nil, err, "")

	expectedMsg := "git write-tree failed: exit status 1"
	if gitErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, gitErr.Error())
	}
}

func TestConfigError(t *testing.T) {
	err := errors.New("must not be empty")
	cfgErr := NewConfigError("repoPath", "", err)

	if !errors.Is(cfgErr, err) {
		t.Errorf("Expected ConfigError.Unwrap() to return the original error")
	}

	cfgErr = NewConfigError("branch", "bad name", err)
	expectedMsg := "configuration error for branch = bad name: must not be empty"
	if cfgErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, cfgErr.Error())
	}
}

func TestSentinelIdentity(t *testing.T) {
	wrapped := Wrap(ErrNoParentCommit, "resolving parent")
	if !Is(wrapped, ErrNoParentCommit) {
		t.Errorf("Expected wrapped sentinel to satisfy errors.Is")
	}

	gitErr := NewGitError("update-ref", nil, Wrap(ErrGitOperationFailed, "exit status 128"), "")
	if !Is(gitErr, ErrGitOperationFailed) {
		t.Errorf("Expected GitError chain to contain ErrGitOperationFailed")
	}
}
