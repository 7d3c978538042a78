package archive

import "fmt"

// Pre-flight errors. Each aborts the entire run before any archive call;
// per-target failures during execution are collected in RunResult instead.

// MissingOwnerError reports a bare name or pattern with no default owner
// configured.
type MissingOwnerError struct {
	Spec string
}

func (e *MissingOwnerError) Error() string {
	return fmt.Sprintf("missing owner for %q; set a default owner or use OWNER/REPO", e.Spec)
}

// InvalidOwnerError reports a pattern whose owner portion contains a
// wildcard.
type InvalidOwnerError struct {
	Owner string
}

func (e *InvalidOwnerError) Error() string {
	return fmt.Sprintf("owner must be explicit (no wildcards): %s", e.Owner)
}

// UnknownOwnerError reports a pattern owner that does not exist or is not
// readable.
type UnknownOwnerError struct {
	Owner string
}

func (e *UnknownOwnerError) Error() string {
	return fmt.Sprintf("cannot read owner: %s", e.Owner)
}

// UnknownRepositoryError reports an explicit slug that is not viewable.
type UnknownRepositoryError struct {
	Slug string
}

func (e *UnknownRepositoryError) Error() string {
	return fmt.Sprintf("cannot view repo: %s", e.Slug)
}

// NotARepositoryError reports a local path that is not a directory or whose
// checkout exposes no resolvable remote repository.
type NotARepositoryError struct {
	Path   string
	Reason string
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("not a GitHub repo (%s): %s", e.Reason, e.Path)
}
