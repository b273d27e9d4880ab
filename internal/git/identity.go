package git

import "strings"

// SanitizeIdentity converts a user display name into a path-safe token
// used to namespace backup branches on a shared remote: lower-cased,
// with runs of whitespace collapsed to a single dot.
//
// "Jane Doe" becomes "jane.doe".
func SanitizeIdentity(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), ".")
}

// RemoteBranchPath derives the remote-side branch path for a backup
// branch. The sanitized identity prefixes the branch name so that
// backups from different contributors do not collide on the remote.
// With an empty identity the branch name is used unprefixed.
func RemoteBranchPath(identity, branchName string) string {
	if identity == "" {
		return branchName
	}
	return identity + "/" + branchName
}
