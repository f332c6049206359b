package repo

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/vcsettings/pkg/object"
)

const symbolicPrefix = "ref:"

// RefError reports a ref that could not be resolved or applied.
type RefError struct {
	Ref string
	Err error
}

func (e *RefError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("resolve ref %q: %v", e.Ref, e.Err)
}

func (e *RefError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

const branchPrefix = "heads/"

func branchRef(name string) string {
	return branchPrefix + name
}

func symbolicRef(name string) string {
	return symbolicPrefix + " " + name
}

// parseSymbolic splits a "ref: <name>" value. A value without the prefix is
// not symbolic; a prefix with an empty name is malformed.
func parseSymbolic(value string) (string, bool, error) {
	if !strings.HasPrefix(value, symbolicPrefix) {
		return "", false, nil
	}
	name := strings.TrimSpace(strings.TrimPrefix(value, symbolicPrefix))
	if name == "" {
		return "", true, fmt.Errorf("malformed symbolic ref %q: %w", value, object.ErrConsistency)
	}
	return name, true, nil
}

// Head returns the raw HEAD value: "ref: heads/<branch>" when HEAD follows
// a branch, or a commit hash when detached.
func (r *Repo) Head() string {
	return r.head
}

// IsDetached reports whether HEAD holds a commit hash rather than a
// symbolic ref.
func (r *Repo) IsDetached() bool {
	return !strings.HasPrefix(r.head, symbolicPrefix)
}

// Refs returns a copy of the refs table.
func (r *Repo) Refs() map[string]object.Hash {
	out := make(map[string]object.Hash, len(r.refs))
	for k, v := range r.refs {
		out[k] = v
	}
	return out
}

// lookupRef finds a refs-table entry by its full name ("heads/main") or by
// bare branch name ("main").
func (r *Repo) lookupRef(name string) (string, object.Hash, bool) {
	if h, ok := r.refs[name]; ok {
		return name, h, true
	}
	if h, ok := r.refs[branchRef(name)]; ok {
		return branchRef(name), h, true
	}
	return "", "", false
}

// ResolveRef resolves ref to a full object hash.
//
// Resolution order:
//  1. "HEAD" is replaced by the current HEAD value.
//  2. "ref: <name>" looks name up in the refs table; an unknown name is
//     carried on as a literal value. A bare ref matching a refs-table entry
//     is looked up the same way.
//  3. A full-length hash is returned verbatim, without a store lookup.
//  4. Anything else is expanded as a unique hash prefix.
func (r *Repo) ResolveRef(ref string) (object.Hash, error) {
	h, err := r.resolveRef(ref)
	if err != nil {
		return "", &RefError{Ref: ref, Err: err}
	}
	return h, nil
}

func (r *Repo) resolveRef(ref string) (object.Hash, error) {
	value := strings.TrimSpace(ref)
	if value == "HEAD" {
		value = r.head
	}

	name, symbolic, err := parseSymbolic(value)
	if err != nil {
		return "", err
	}
	if symbolic {
		value = name
		if h, ok := r.refs[name]; ok {
			value = string(h)
		}
	} else if _, h, ok := r.lookupRef(value); ok {
		value = string(h)
	}

	if object.Hash(value).IsFull() {
		return object.Hash(value), nil
	}
	return r.Store.Expand(value)
}

// UpdateRef points the named ref at the commit ref resolves to, creating
// the ref if needed.
func (r *Repo) UpdateRef(name string, ref string) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, symbolicPrefix) {
		return fmt.Errorf("update ref: invalid ref name %q: %w", name, object.ErrInvalidInput)
	}
	h, err := r.resolveCommitHash(ref)
	if err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}
	r.setRef(name, h, "update-ref")
	return nil
}

func (r *Repo) setRef(name string, h object.Hash, reason string) {
	old := r.refs[name]
	r.refs[name] = h
	r.appendReflog(name, old, h, reason)
	r.log.Debug("ref updated",
		zapRef(name),
		zapHash("old", old),
		zapHash("new", h),
		zap.String("reason", reason),
	)
}

// dropRef removes a ref together with its reflog.
func (r *Repo) dropRef(name string) {
	delete(r.refs, name)
	delete(r.reflog, name)
	r.log.Debug("ref deleted", zapRef(name))
}

// setDetachedHead points a detached HEAD at h.
func (r *Repo) setDetachedHead(h object.Hash, reason string) {
	var old object.Hash
	if r.IsDetached() {
		old = object.Hash(r.head)
	}
	r.head = string(h)
	r.appendReflog(headLog, old, h, reason)
}

// ListRefs returns ref names starting with prefix, sorted.
func (r *Repo) ListRefs(prefix string) []string {
	var names []string
	for name := range r.refs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// resolveCommitHash resolves ref and checks that it names a stored commit
// or the zero hash.
func (r *Repo) resolveCommitHash(ref string) (object.Hash, error) {
	h, err := r.ResolveRef(ref)
	if err != nil {
		return "", err
	}
	if h == object.ZeroHash {
		return h, nil
	}
	if _, err := r.Store.ReadCommit(h); err != nil {
		return "", err
	}
	return h, nil
}
