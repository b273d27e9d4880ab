package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	backupErrors "github.com/LinqLover/git-backup/internal/errors"
	"github.com/LinqLover/git-backup/internal/logger"
)

// BackupConfig contains configuration for a backup run.
// This struct holds all the settings that control how the backup commit
// is created: repository location, backup branch naming, committer
// identity, and push behavior.
type BackupConfig struct {
	// RepoPath specifies the filesystem path to the Git repository.
	// Can be absolute or relative path. If empty, validation will fail.
	RepoPath string

	// BranchName is the explicit backup branch name supplied by the caller.
	// If empty, the name is derived as "backup/<currentBranch>", or
	// "backup/detached-<shortHash>" when no branch is checked out.
	BranchName string

	// Push enables pushing the backup branch to the original branch's
	// remote after the local commit is created.
	Push bool

	// CommitterName is the fixed committer identity stamped on backup
	// commits, distinguishing them from user commits. Must not be empty.
	CommitterName string

	// CommitterEmail pairs with CommitterName on backup commits.
	CommitterEmail string

	// RemoteIdentity is the sanitized user identity that namespaces the
	// backup branch on the remote (see SanitizeIdentity). Resolved once
	// at startup and threaded in; empty when no user.name is configured,
	// in which case the remote branch path is not namespaced.
	RemoteIdentity string

	// Verbose controls the amount of informational output.
	Verbose bool
}

// Validate sanity-checks the config and returns an error if something is wrong.
//
// The following validations are performed:
//   - RepoPath must not be empty
//   - CommitterName must not be empty
//
// Returns nil if the configuration is valid, or an error describing the issue.
func (c *BackupConfig) Validate() error {
	if c.RepoPath == "" {
		return fmt.Errorf("RepoPath must not be empty")
	}
	if c.CommitterName == "" {
		return fmt.Errorf("CommitterName must not be empty")
	}
	return nil
}

// Backup creates out-of-band safety-net commits of the working tree.
//
// A run snapshots the complete working tree (tracked and untracked
// modifications) into a commit on a dedicated backup branch without
// touching the caller's index, working directory, or commit history.
type Backup struct {
	// config holds all the settings for this backup run
	config BackupConfig

	// logger handles all output messages with appropriate formatting
	logger logger.Logger

	// executor runs Git commands and captures their output
	executor CommandExecutor
}

// Result describes a completed backup run.
type Result struct {
	// BranchName is the backup branch the commit was published on
	BranchName string

	// Commit is the identifier of the new backup commit
	Commit string

	// Parent is the first parent of the new commit: the prior tip of the
	// backup branch if it existed, the pre-run current commit otherwise
	Parent string

	// RemotePath is the derived remote branch path, empty when the
	// original branch has no remote configured
	RemotePath string

	// Pushed reports whether the backup branch was pushed successfully
	Pushed bool
}

// refState is the Reference Resolver's output: the backup branch name,
// the parent commit for the new backup commit, and how they were derived.
type refState struct {
	branchName     string
	parent         string
	refExisted     bool
	originalBranch string
}

// NewBackup creates a new backup instance with default dependencies.
//
// Parameters:
//   - config: The configuration for this backup run
//   - logger: The logger to use for output messages
//
// Returns:
//   - A configured backup instance ready to run
//   - An error if the configuration is invalid
func NewBackup(config BackupConfig, logger logger.Logger) (*Backup, error) {
	return NewBackupWithDeps(config, logger, NewExecExecutor())
}

// NewBackupWithDeps creates a new backup instance with a custom executor
func NewBackupWithDeps(config BackupConfig, logger logger.Logger, executor CommandExecutor) (*Backup, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backup configuration: %w", err)
	}

	return &Backup{
		config:   config,
		logger:   logger,
		executor: executor,
	}, nil
}

// IsRepository checks if the given path is a git repository
// Returns true if it is a repository, false otherwise.
// If path is not a repository due to git exit code 128, returns (false, nil).
// For other errors (git not found, permission issues, etc), returns (false, err).
func IsRepository(ctx context.Context, path string) (bool, error) {
	executor := NewExecExecutor()
	err := executor.Execute(ctx, "git", "-C", path, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		// Exit code 128 is git's generic fatal error code - for this
		// command it typically means the directory is not part of a git
		// repository. Other repository-level problems map to the same
		// code, but any of them is equally fatal here, so they are all
		// treated as "not a repository".
		if backupErrors.GitExitCode(err) == 128 {
			return false, nil
		}

		// Unexpected failure (git binary missing, permissions, etc)
		return false, err
	}
	return true, nil
}

// UserName returns the git user.name configured for the repository,
// including global configuration, or the empty string when the key is
// not set anywhere (git config exits 1 for an absent key).
func UserName(ctx context.Context, path string) (string, error) {
	executor := NewExecExecutor()
	out, err := executor.ExecuteWithOutput(ctx, "git", "-C", path, "config", "--get", "user.name")
	if err != nil {
		if backupErrors.GitExitCode(err) == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Run performs one backup: resolve the backup ref, snapshot the working
// tree into an isolated index, build the tree and commit objects,
// publish the ref, and link/push upstream if configured.
//
// The caller's real index is never modified; the isolated index is
// removed on every exit path.
func (b *Backup) Run(ctx context.Context) (*Result, error) {
	ref, err := b.resolveBackupRef(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Resolved backup branch %s with parent %s", ref.branchName, ref.parent)

	var tree string
	err = b.withSnapshotIndex(ctx, func(indexFile string) error {
		var stageErr error
		tree, stageErr = b.stageAndWriteTree(ctx, indexFile)
		return stageErr
	})
	if err != nil {
		return nil, err
	}

	commit, err := b.commitTree(ctx, tree, ref.parent)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Built backup commit %s (tree %s)", commit, tree)

	if err := b.publishRef(ctx, ref, commit); err != nil {
		return nil, err
	}

	result := &Result{
		BranchName: ref.branchName,
		Commit:     commit,
		Parent:     ref.parent,
	}

	b.logger.Success("Created backup commit %s on branch %s", shortHash(commit), ref.branchName)

	// Upstream linking and pushing are non-fatal relative to the
	// completed local backup.
	if err := b.linkUpstream(ctx, ref, commit, result); err != nil {
		if backupErrors.Is(err, backupErrors.ErrNoRemoteConfigured) {
			b.logger.InfoToUser("Branch %s has no remote configured - backup stays local", ref.originalBranch)
		} else {
			b.logger.WarningToUser("Backup created locally, but upstream handling failed: %v", err)
		}
	}

	return result, nil
}

// resolveBackupRef determines the backup branch name and the parent
// commit for the new backup commit. Pure query; no side effects.
func (b *Backup) resolveBackupRef(ctx context.Context) (*refState, error) {
	currentBranch, err := b.currentBranch(ctx)
	if err != nil {
		return nil, backupErrors.Wrap(err, "failed to determine current branch")
	}

	branchName := b.config.BranchName
	if branchName == "" {
		if currentBranch != "" {
			branchName = "backup/" + currentBranch
		} else {
			short, err := b.runGitCommandWithOutput(ctx, "rev-parse", "--short", "HEAD")
			if err != nil {
				return nil, backupErrors.Wrap(backupErrors.ErrNoParentCommit, "cannot name a backup branch for a detached head without commits")
			}
			branchName = "backup/detached-" + strings.TrimSpace(short)
		}
	}

	refExisted, err := b.refExists(ctx, branchName)
	if err != nil {
		return nil, backupErrors.Wrap(err, "failed to check backup branch existence")
	}

	var parent string
	if refExisted {
		// Append to the prior backup lineage
		out, err := b.runGitCommandWithOutput(ctx, "rev-parse", "refs/heads/"+branchName)
		if err != nil {
			return nil, backupErrors.Wrap(err, "failed to resolve existing backup branch")
		}
		parent = strings.TrimSpace(out)
	} else {
		// Root the first backup in real history
		out, err := b.runGitCommandWithOutput(ctx, "rev-parse", "HEAD")
		if err != nil {
			if backupErrors.GitExitCode(err) == 128 {
				return nil, backupErrors.ErrNoParentCommit
			}
			return nil, backupErrors.Wrap(err, "failed to resolve current commit")
		}
		parent = strings.TrimSpace(out)
	}

	return &refState{
		branchName:     branchName,
		parent:         parent,
		refExisted:     refExisted,
		originalBranch: currentBranch,
	}, nil
}

// withSnapshotIndex runs fn with the path of an isolated index file that
// starts as a copy of the real index. When the repository has never been
// staged there is no real index to copy; the reserved path is then left
// absent, since git rejects a pre-existing empty index file but happily
// creates a fresh index at a nonexistent path. The isolated index is
// removed on every exit path, and if no real index existed before the
// run, any default index file created as a side effect is removed as
// well; its mere existence would change git's behavior for the caller's
// next staging operation.
func (b *Backup) withSnapshotIndex(ctx context.Context, fn func(indexFile string) error) error {
	gitDir, err := b.gitDir(ctx)
	if err != nil {
		return err
	}

	realIndex := filepath.Join(gitDir, "index")
	_, statErr := os.Stat(realIndex)
	hadRealIndex := statErr == nil

	tmp, err := os.CreateTemp(gitDir, "git-backup-index-*")
	if err != nil {
		return backupErrors.Wrap(err, "failed to create snapshot index")
	}
	snapshotIndex := tmp.Name()

	defer func() {
		if removeErr := os.Remove(snapshotIndex); removeErr != nil && !os.IsNotExist(removeErr) {
			b.logger.Warning("Failed to remove snapshot index %s: %v", snapshotIndex, removeErr)
		}
		if !hadRealIndex {
			if removeErr := os.Remove(realIndex); removeErr != nil && !os.IsNotExist(removeErr) {
				b.logger.Warning("Failed to remove incidentally created index %s: %v", realIndex, removeErr)
			}
		}
	}()

	if hadRealIndex {
		src, err := os.Open(realIndex)
		if err != nil {
			_ = tmp.Close()
			return backupErrors.Wrap(err, "failed to read real index")
		}
		_, copyErr := io.Copy(tmp, src)
		_ = src.Close()
		if copyErr != nil {
			_ = tmp.Close()
			return backupErrors.Wrap(copyErr, "failed to copy real index into snapshot")
		}
		if err := tmp.Close(); err != nil {
			return backupErrors.Wrap(err, "failed to close snapshot index")
		}
	} else {
		// git add fails on an existing zero-byte index file, so free the
		// reserved path and let git create the index there
		if err := tmp.Close(); err != nil {
			return backupErrors.Wrap(err, "failed to close snapshot index")
		}
		if err := os.Remove(snapshotIndex); err != nil {
			return backupErrors.Wrap(err, "failed to reset snapshot index")
		}
	}

	return fn(snapshotIndex)
}

// stageAndWriteTree stages the complete working tree into the snapshot
// index and writes it out as a tree object, returning the tree hash.
// All staging is redirected through GIT_INDEX_FILE; the real index is
// never touched.
func (b *Backup) stageAndWriteTree(ctx context.Context, indexFile string) (string, error) {
	env := []string{"GIT_INDEX_FILE=" + indexFile}

	if err := b.runGitCommandWithEnv(ctx, env, "add", "-A"); err != nil {
		return "", backupErrors.Wrap(err, "failed to stage working tree into snapshot")
	}

	out, err := b.runGitCommandWithEnvAndOutput(ctx, env, "write-tree")
	if err != nil {
		return "", backupErrors.Wrap(err, "failed to write tree object")
	}

	return strings.TrimSpace(out), nil
}

// commitTree wraps the tree in a commit object parented on parent. The
// committer identity is the fixed backup identity; the author identity
// is inherited from ambient git configuration.
func (b *Backup) commitTree(ctx context.Context, tree, parent string) (string, error) {
	message := fmt.Sprintf("Backup on %s", time.Now().Format("2006-01-02 15:04:05"))

	env := []string{
		"GIT_COMMITTER_NAME=" + b.config.CommitterName,
		"GIT_COMMITTER_EMAIL=" + b.config.CommitterEmail,
	}

	out, err := b.runGitCommandWithEnvAndOutput(ctx, env, "commit-tree", tree, "-p", parent, "-m", message)
	if err != nil {
		return "", backupErrors.Wrap(err, "failed to create commit object")
	}

	return strings.TrimSpace(out), nil
}

// publishRef points the backup branch at the new commit with a
// compare-and-swap update: the expected old value is the resolved
// parent, or "must not exist" when the branch is being created. A ref
// moved concurrently by another writer fails the update instead of
// being clobbered.
func (b *Backup) publishRef(ctx context.Context, ref *refState, commit string) error {
	fullRef := "refs/heads/" + ref.branchName

	oldValue := ""
	if ref.refExisted {
		oldValue = ref.parent
	}

	if err := b.runGitCommand(ctx, "update-ref", fullRef, commit, oldValue); err != nil {
		return backupErrors.Wrap(err, "failed to update backup branch")
	}

	return nil
}

// linkUpstream associates the backup branch with the original branch's
// remote under an identity-namespaced path, and pushes it when
// requested. Absence of a remote is a documented limitation, reported
// as a diagnostic rather than silently ignored.
func (b *Backup) linkUpstream(ctx context.Context, ref *refState, commit string, result *Result) error {
	if ref.originalBranch == "" {
		b.logger.InfoToUser("Detached head has no upstream remote - skipping upstream link")
		return nil
	}

	remote, err := b.runGitCommandWithOutput(ctx, "config", "--get", "branch."+ref.originalBranch+".remote")
	if err != nil {
		if backupErrors.GitExitCode(err) == 1 {
			return backupErrors.ErrNoRemoteConfigured
		}
		return backupErrors.Wrap(err, "failed to read remote configuration")
	}
	remote = strings.TrimSpace(remote)

	identity := b.config.RemoteIdentity
	if identity == "" {
		b.logger.Warning("No user identity configured - remote backup branch will not be namespaced")
	}

	remotePath := RemoteBranchPath(identity, ref.branchName)
	result.RemotePath = remotePath

	if err := b.runGitCommand(ctx, "config", "branch."+ref.branchName+".remote", remote); err != nil {
		return backupErrors.Wrap(err, "failed to record upstream remote")
	}
	if err := b.runGitCommand(ctx, "config", "branch."+ref.branchName+".merge", "refs/heads/"+remotePath); err != nil {
		return backupErrors.Wrap(err, "failed to record upstream branch")
	}
	b.logger.Info("Linked %s to %s/%s", ref.branchName, remote, remotePath)

	if !b.config.Push {
		return nil
	}

	b.logger.StatusMessage("Pushing %s to %s/%s...", ref.branchName, remote, remotePath)
	if err := b.runGitCommand(ctx, "push", remote, commit+":refs/heads/"+remotePath); err != nil {
		return backupErrors.Wrap(backupErrors.ErrPushFailed, err.Error())
	}

	result.Pushed = true
	b.logger.Success("Pushed backup branch to %s/%s", remote, remotePath)

	return nil
}

// Git operations

// currentBranch returns the name of the current git branch, or the
// empty string when the head is detached.
func (b *Backup) currentBranch(ctx context.Context) (string, error) {
	output, err := b.runGitCommandWithOutput(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// refExists checks if a local branch ref with the given name exists.
func (b *Backup) refExists(ctx context.Context, branchName string) (bool, error) {
	err := b.runGitCommand(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+branchName)
	if err == nil {
		return true, nil
	}

	// Exit code 1 is the expected "ref not found" case
	if backupErrors.GitExitCode(err) == 1 {
		return false, nil
	}
	// Unexpected error – bubble up.
	return false, err
}

// gitDir resolves the repository's git directory as an absolute path.
func (b *Backup) gitDir(ctx context.Context) (string, error) {
	out, err := b.runGitCommandWithOutput(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", backupErrors.Wrap(err, "failed to locate git directory")
	}

	dir := strings.TrimSpace(out)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(b.config.RepoPath, dir)
	}
	return dir, nil
}

// runGitCommand executes a git command in the repository directory with context.
func (b *Backup) runGitCommand(ctx context.Context, args ...string) error {
	allArgs := append([]string{"-C", b.config.RepoPath}, args...)
	return b.executor.Execute(ctx, "git", allArgs...)
}

// runGitCommandWithOutput executes a git command and returns its output with context.
func (b *Backup) runGitCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	allArgs := append([]string{"-C", b.config.RepoPath}, args...)
	return b.executor.ExecuteWithOutput(ctx, "git", allArgs...)
}

// runGitCommandWithEnv executes a git command with extra environment variables.
func (b *Backup) runGitCommandWithEnv(ctx context.Context, env []string, args ...string) error {
	allArgs := append([]string{"-C", b.config.RepoPath}, args...)
	return b.executor.ExecuteWithEnv(ctx, env, "git", allArgs...)
}

// runGitCommandWithEnvAndOutput executes a git command with extra
// environment variables and returns its output.
func (b *Backup) runGitCommandWithEnvAndOutput(ctx context.Context, env []string, args ...string) (string, error) {
	allArgs := append([]string{"-C", b.config.RepoPath}, args...)
	return b.executor.ExecuteWithEnvAndOutput(ctx, env, "git", allArgs...)
}

// shortHash abbreviates a commit hash for display.
func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
