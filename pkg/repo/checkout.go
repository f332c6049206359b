package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// WorkTree returns the live work tree. Checkout updates this same map in
// place, so the reference stays valid across checkouts.
func (r *Repo) WorkTree() map[string]any {
	return r.workTree
}

// GetObject resolves ref and returns the object it names.
func (r *Repo) GetObject(ref string) (object.Object, error) {
	h, err := r.ResolveRef(ref)
	if err != nil {
		return nil, err
	}
	obj, err := r.Store.Get(h)
	if err != nil {
		return nil, &RefError{Ref: ref, Err: err}
	}
	return obj, nil
}

// Show returns the object ref names without touching HEAD or the work tree.
func (r *Repo) Show(ref string) (object.Object, error) {
	obj, err := r.GetObject(ref)
	if err != nil {
		return nil, fmt.Errorf("show: %w", err)
	}
	return obj, nil
}

// Resolve materializes the commit ref names into plain data without
// touching HEAD or the work tree. The result is owned by the caller.
func (r *Repo) Resolve(ref string) (any, error) {
	h, err := r.resolveCommitHash(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	snapshot, err := r.snapshot(h)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	return cloneValue(snapshot), nil
}

// snapshot returns the memoized materialization of commit h. The zero hash
// is the empty initial state. The returned value is shared with the cache.
func (r *Repo) snapshot(h object.Hash) (any, error) {
	if h == object.ZeroHash {
		return map[string]any{}, nil
	}
	if cached, ok := r.cache.Get(h); ok {
		return cached, nil
	}

	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, err
	}
	data, err := r.materialize(c.TreeHash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", h.Short(), err)
	}
	r.cache.Add(h, data)
	return data, nil
}

// Checkout replaces the work tree with the contents of the commit ref names
// and moves HEAD.
//
//  1. Resolve ref to a commit and materialize it (memoized per commit).
//  2. Remove work-tree keys the snapshot does not have.
//  3. Write every snapshot key.
//  4. Move HEAD: a branch ref makes HEAD follow that branch; any other ref
//     moves the branch HEAD follows, or HEAD itself when detached.
func (r *Repo) Checkout(ref string) error {
	// 1. Resolve.
	h, err := r.resolveCommitHash(ref)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	snapshot, err := r.snapshot(h)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	root, ok := snapshot.(map[string]any)
	if !ok {
		return fmt.Errorf("checkout: commit %s holds a %T, work tree needs a map: %w", h.Short(), snapshot, object.ErrInvalidInput)
	}

	// 2-3. Replace the work tree in place.
	for k := range r.workTree {
		if _, keep := root[k]; !keep {
			delete(r.workTree, k)
		}
	}
	for k, v := range root {
		r.workTree[k] = cloneValue(v)
	}

	// 4. Move HEAD.
	if branch, ok := r.branchTarget(ref); ok {
		old, _ := r.resolveRef("HEAD")
		r.head = symbolicRef(branch)
		r.appendReflog(headLog, old, h, "checkout: moving to "+branch)
	} else if name, symbolic, _ := parseSymbolic(r.head); symbolic {
		r.setRef(name, h, "checkout: "+ref)
	} else {
		r.setDetachedHead(h, "checkout: "+ref)
	}

	r.log.Debug("checkout",
		zapHash("hash", h),
		zapRef(r.head),
	)
	return nil
}

// branchTarget reports the branch ref names directly, if any. Only heads/
// entries are branches; tags and other refs are plain commit names.
func (r *Repo) branchTarget(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "HEAD" {
		return "", false
	}
	if name, symbolic, err := parseSymbolic(ref); symbolic {
		if err != nil {
			return "", false
		}
		if _, ok := r.refs[name]; ok && strings.HasPrefix(name, branchPrefix) {
			return name, true
		}
		return "", false
	}
	name, _, ok := r.lookupRef(ref)
	if !ok || !strings.HasPrefix(name, branchPrefix) {
		return "", false
	}
	return name, true
}

// Restore discards work-tree changes by checking out HEAD again.
func (r *Repo) Restore() error {
	if err := r.Checkout("HEAD"); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}
