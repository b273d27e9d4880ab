// Package git provides the backup pipeline for the git-backup application.
//
// This package abstracts the Git commands used to create an out-of-band
// safety-net commit of the complete working tree on a dedicated backup
// branch, without mutating the caller's index, working directory, or
// commit history.
//
// # Core Components
//
// - Backup: Main type that performs one backup run
// - CommandExecutor: Interface for executing Git commands
//
// # Pipeline
//
// A run consists of five ordered stages:
//
//  1. Resolve the backup branch name and the parent commit (the prior
//     backup tip if the branch exists, the current commit otherwise)
//  2. Snapshot the working tree into an isolated index redirected
//     through GIT_INDEX_FILE, so the real index is never touched
//  3. Build a tree object and a commit object with the fixed backup
//     committer identity
//  4. Publish the backup branch with a compare-and-swap ref update
//  5. Link the backup branch to the original branch's remote under an
//     identity-namespaced path, and push it when requested
//
// The isolated index is removed on every exit path, including errors
// and interruption. Push failures are non-fatal relative to the
// completed local backup.
//
// # Usage
//
// Basic usage pattern:
//
//	config := git.BackupConfig{
//	    RepoPath:       "/path/to/repo",
//	    Push:           false,
//	    CommitterName:  "o1",
//	    CommitterEmail: "o1",
//	    Verbose:        true,
//	}
//
//	backup, err := git.NewBackup(config, logger)
//	if err != nil {
//	    // Handle error
//	}
//
//	result, err := backup.Run(ctx)
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(result.Commit)
//
// # Implementation Notes
//
// The package uses the command-line Git executable rather than a Go Git
// library. This delegates ignore rules, index formats, and object
// hashing to the same implementation the user's repository is managed
// with.
//
// # Concurrency Model
//
// A Backup instance is not thread-safe and should be accessed from a
// single goroutine. Concurrent runs against the same repository and the
// same backup branch are not protected against each other; the
// compare-and-swap ref update turns a lost race into an error rather
// than a silent overwrite.
//
// # Dependencies
//
// This package requires:
//
// - A functional Git installation in the system PATH
// - A valid Git repository at the configured path
// - Write permissions for the repository
package git
