// Package git clones course repositories for builds that start from a Git
// URL instead of a local working copy.
//
// Clones land below a workspace directory, optionally shallow and pinned to
// a branch. There is no update path: every build of a remote course starts
// from a fresh checkout.
package git
