// Package errors provides error handling utilities for the git-backup application.
//
// This package implements specialized error types and error handling functions
// to improve error management throughout the application. It focuses on
// providing rich context for errors while maintaining compatibility with
// the standard error handling practices.
//
// # Features
//
//   - Sentinel errors for the failure taxonomy (usage, precondition,
//     object-store, push)
//   - Error wrapping with context
//   - Standardized error formatting
//
// # Usage
//
// Basic error wrapping:
//
//	if err != nil {
//	    return errors.Wrap(err, "failed to open file")
//	}
//
// Checking the failure category:
//
//	if errors.Is(err, errors.ErrNoParentCommit) {
//	    // precondition failure: nothing was written
//	}
//
// # Error Wrapping
//
// The package uses standard error wrapping conventions, allowing errors to be
// unwrapped and inspected using errors.Is and errors.As.
//
// # Compatibility
//
// The package is fully compatible with the standard library errors package
// and can be used as a drop-in replacement with additional functionality.
package errors
