package repo

import (
	"fmt"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string to be stored under the "signature" metadata key.
type CommitSigner func(payload []byte) (string, error)

// Commit snapshots data as a new commit on the branch HEAD follows.
//
//  1. Resolve the previous commit: the optional explicit ref, else HEAD.
//  2. Build the tree from data.
//  3. Create the Commit with the configured metadata.
//  4. Write it to the store.
//  5. Advance the branch HEAD follows.
//
// Committing on a detached HEAD fails with object.ErrConsistency: without
// an explicit previous there is no ancestry to pick, and with one there is
// no branch to advance.
func (r *Repo) Commit(data any, previous ...string) (object.Hash, error) {
	return r.CommitWithSigner(data, nil, previous...)
}

// CommitWithSigner creates a new commit and signs it when signer is provided.
func (r *Repo) CommitWithSigner(data any, signer CommitSigner, previous ...string) (object.Hash, error) {
	if len(previous) > 1 {
		return "", fmt.Errorf("commit: at most one previous ref, got %d: %w", len(previous), object.ErrInvalidInput)
	}

	// 1. Resolve the previous commit.
	explicit := len(previous) == 1 && previous[0] != ""
	if r.IsDetached() {
		if !explicit {
			return "", fmt.Errorf("commit: HEAD is detached at %s and no previous commit was given: %w", object.Hash(r.head).Short(), object.ErrConsistency)
		}
		return "", fmt.Errorf("commit: HEAD is detached at %s, no branch to advance: %w", object.Hash(r.head).Short(), object.ErrConsistency)
	}
	branch, _, err := parseSymbolic(r.head)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	prevRef := r.head
	if explicit {
		prevRef = previous[0]
	}
	prevHash, err := r.resolveCommitHash(prevRef)
	if err != nil {
		return "", fmt.Errorf("commit: previous: %w", err)
	}

	// 2. Build the tree.
	treeHash, err := r.BuildTree(data)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	// 3. Create the commit.
	c := &object.Commit{
		TreeHash: treeHash,
		Metadata: r.cfg.metaPairs(),
		Previous: prevHash,
	}
	if signer != nil {
		payload, err := object.CommitSigningPayload(c)
		if err != nil {
			return "", fmt.Errorf("commit: signing payload: %w", err)
		}
		signature, err := signer(payload)
		if err != nil {
			return "", fmt.Errorf("commit: sign commit: %w", err)
		}
		c.Metadata = append(c.Metadata, object.MetaPair{Key: object.SignatureKey, Value: signature})
	}

	// 4. Write it.
	commitHash, err := r.Store.WriteCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	// 5. Advance the branch.
	r.setRef(branch, commitHash, "commit")
	r.log.Debug("commit",
		zapHash("hash", commitHash),
		zapHash("tree", treeHash),
		zapHash("previous", prevHash),
		zapRef(branch),
	)
	return commitHash, nil
}

// Save commits the current work tree on top of HEAD.
func (r *Repo) Save() (object.Hash, error) {
	h, err := r.Commit(r.workTree)
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	return h, nil
}

// LogEntry is one commit in a history walk.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Log walks the history starting at ref, following previous links until
// the zero hash, and returns up to limit commits newest first. A limit of
// zero or less means no limit.
func (r *Repo) Log(ref string, limit int) ([]LogEntry, error) {
	current, err := r.ResolveRef(ref)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}

	var entries []LogEntry
	for current != object.ZeroHash {
		if limit > 0 && len(entries) >= limit {
			break
		}
		c, err := r.Store.ReadCommit(current)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		entries = append(entries, LogEntry{Hash: current, Commit: c})
		current = c.Previous
	}
	return entries, nil
}
