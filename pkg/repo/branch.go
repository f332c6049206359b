package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// CreateBranch creates heads/<name> pointing at the commit target resolves
// to. Returns an error if the branch already exists.
func (r *Repo) CreateBranch(name, target string) error {
	if err := validBranchName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	refName := branchRef(name)
	if _, exists := r.refs[refName]; exists {
		return fmt.Errorf("create branch: branch %q already exists: %w", name, object.ErrConsistency)
	}
	h, err := r.resolveCommitHash(target)
	if err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	r.setRef(refName, h, "branch: created from "+target)
	return nil
}

// DeleteBranch removes heads/<name>. The current branch cannot be deleted.
func (r *Repo) DeleteBranch(name string) error {
	if r.CurrentBranch() == name {
		return fmt.Errorf("delete branch: cannot delete current branch %q: %w", name, object.ErrConsistency)
	}
	refName := branchRef(name)
	if _, ok := r.refs[refName]; !ok {
		return fmt.Errorf("delete branch: branch %q does not exist: %w", name, object.ErrNotFound)
	}
	r.dropRef(refName)
	return nil
}

// ListBranches returns the branch names sorted alphabetically.
func (r *Repo) ListBranches() []string {
	var names []string
	for name := range r.refs {
		if b, ok := strings.CutPrefix(name, branchPrefix); ok {
			names = append(names, b)
		}
	}
	sort.Strings(names)
	return names
}

// CurrentBranch returns the branch name HEAD follows ("main" for
// "ref: heads/main"), or "" when HEAD is detached.
func (r *Repo) CurrentBranch() string {
	name, symbolic, err := parseSymbolic(r.head)
	if !symbolic || err != nil {
		return ""
	}
	return strings.TrimPrefix(name, branchPrefix)
}

// SwitchBranch makes HEAD follow heads/<name> and checks out its commit.
func (r *Repo) SwitchBranch(name string) error {
	refName := branchRef(name)
	if _, ok := r.refs[refName]; !ok {
		return fmt.Errorf("switch branch: branch %q does not exist: %w", name, object.ErrNotFound)
	}
	if err := r.Checkout(symbolicRef(refName)); err != nil {
		return fmt.Errorf("switch branch %q: %w", name, err)
	}
	return nil
}

// DetachHead points HEAD directly at the commit ref resolves to. The work
// tree is left untouched.
func (r *Repo) DetachHead(ref string) error {
	h, err := r.resolveCommitHash(ref)
	if err != nil {
		return fmt.Errorf("detach head: %w", err)
	}
	r.setDetachedHead(h, "detach: "+ref)
	r.log.Debug("head detached", zapHash("hash", h))
	return nil
}

func validBranchName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\n") || strings.HasPrefix(name, symbolicPrefix) {
		return fmt.Errorf("invalid branch name %q: %w", name, object.ErrInvalidInput)
	}
	return nil
}
