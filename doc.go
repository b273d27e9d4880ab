// Package gitbackup is an out-of-band safety net for git working trees.
//
// git-backup captures the complete current working-tree state (tracked
// and untracked modifications) as a commit on a dedicated backup branch
// - without mutating the index, the working directory, or the commit
// history. It is the "I should have committed an hour ago" escape
// hatch: one command, one backup commit, nothing else changes.
//
// # Quick Start
//
//	# Navigate to your Git repository
//	cd /path/to/your/repo
//
//	# Create a backup commit on backup/<current-branch>
//	git-backup
//
//	# Create it and push it to the branch's remote
//	git-backup --push
//
// # Key Features
//
//   - Full working-tree snapshot: staged, unstaged, and untracked
//     changes are all captured (ignore rules still apply)
//   - Append-only backup branch: each run parents its commit on the
//     previous backup, so the lineage is never rewritten
//   - Untouched working state: the real index is byte-identical before
//     and after a run, even when the run fails
//   - Identity-namespaced remote backups: pushes land under
//     <user>/backup/<branch> so contributors do not collide
//
// # How It Works
//
// The working tree is staged into a temporary index (never the real
// one), written out as a tree object, and wrapped in a commit whose
// parent is the previous backup commit - or the current commit for the
// first backup. The backup branch is then advanced with a
// compare-and-swap ref update.
//
// # Layout
//
//   - cmd/git-backup: command-line interface
//   - internal/git: the backup pipeline and git command execution
//   - internal/config: configuration handling
//   - internal/logger: logging utilities
//   - internal/errors: error types and handling
package gitbackup
