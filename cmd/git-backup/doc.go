// Command git-backup creates an out-of-band safety-net commit of the
// complete working tree on a dedicated backup branch.
//
// Usage:
//
//	git-backup [--push] [BACKUP_BRANCH]
//
// The backup branch defaults to backup/<currentBranch>, or
// backup/detached-<shortHash> when no branch is checked out. Each run
// appends a new commit to the prior backup lineage; the caller's index,
// working directory, and commit history are never modified.
//
// With --push, the backup branch is pushed to the original branch's
// remote under an identity-namespaced path (for example
// jane.doe/backup/main). A push failure is reported as a warning and
// does not change the exit code once the local backup has been created.
//
// Exit codes: 0 on success, 1 on usage errors and on any failure to
// create the local backup.
package main
