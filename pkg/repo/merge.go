package repo

import (
	"fmt"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// MergeCommits folds the commit otherRef names into the commit baseRef
// names and commits the result on top of base.
//
// Both commits are materialized independently (HEAD and the work tree are
// untouched), the merge function is called with other as source and base
// as target, and the merged base is committed with previous set to base.
// There is no common-ancestor search and no conflict reporting: the merge
// function's policy decides every overlap.
func (r *Repo) MergeCommits(baseRef, otherRef string) (object.Hash, error) {
	if r.mergeFn == nil {
		return "", fmt.Errorf("merge: no merge function configured: %w", object.ErrConsistency)
	}

	baseHash, err := r.resolveCommitHash(baseRef)
	if err != nil {
		return "", fmt.Errorf("merge: base: %w", err)
	}
	otherHash, err := r.resolveCommitHash(otherRef)
	if err != nil {
		return "", fmt.Errorf("merge: other: %w", err)
	}

	base, err := r.snapshotMap(baseHash)
	if err != nil {
		return "", fmt.Errorf("merge: base: %w", err)
	}
	other, err := r.snapshotMap(otherHash)
	if err != nil {
		return "", fmt.Errorf("merge: other: %w", err)
	}

	if err := r.mergeFn(other, base); err != nil {
		return "", fmt.Errorf("merge %s into %s: %w", otherHash.Short(), baseHash.Short(), err)
	}

	h, err := r.Commit(base, string(baseHash))
	if err != nil {
		return "", fmt.Errorf("merge: %w", err)
	}
	r.log.Debug("merge",
		zapHash("hash", h),
		zapHash("base", baseHash),
		zapHash("other", otherHash),
	)
	return h, nil
}

// snapshotMap returns a private copy of commit h, which must hold a map.
func (r *Repo) snapshotMap(h object.Hash) (map[string]any, error) {
	snapshot, err := r.snapshot(h)
	if err != nil {
		return nil, err
	}
	m, ok := cloneValue(snapshot).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("commit %s holds a %T, merge needs a map: %w", h.Short(), snapshot, object.ErrInvalidInput)
	}
	return m, nil
}
