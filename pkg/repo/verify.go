package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// VerifySummary describes a successful integrity check.
type VerifySummary struct {
	Refs      int // refs checked, including a detached HEAD
	Reachable int // objects reachable from them
}

// Verify checks that a symbolic HEAD follows an existing ref, that every ref
// names a commit and that every object reachable from the refs is present
// in the store.
func (r *Repo) Verify() (*VerifySummary, error) {
	if name, symbolic, err := parseSymbolic(r.head); err != nil {
		return nil, fmt.Errorf("verify: HEAD: %w", err)
	} else if symbolic {
		if _, ok := r.refs[name]; !ok {
			return nil, fmt.Errorf("verify: HEAD follows missing ref %q: %w", name, object.ErrConsistency)
		}
	}

	roots := make([]object.Hash, 0, len(r.refs)+1)
	names := r.ListRefs("")
	for _, name := range names {
		roots = append(roots, r.refs[name])
	}
	if r.IsDetached() {
		roots = append(roots, object.Hash(r.head))
	}

	for i, h := range roots {
		if h == object.ZeroHash {
			continue
		}
		label := "HEAD"
		if i < len(names) {
			label = names[i]
		}
		if _, err := r.Store.ReadCommit(h); err != nil {
			return nil, fmt.Errorf("verify: ref %s: %w", label, err)
		}
	}

	reachable, missing, err := r.Store.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if len(missing) > 0 {
		shorts := make([]string, 0, len(missing))
		for _, h := range missing {
			shorts = append(shorts, h.Short())
		}
		sort.Strings(shorts)
		return nil, fmt.Errorf("verify: %d missing objects (%s): %w", len(missing), strings.Join(shorts, ", "), object.ErrNotFound)
	}
	return &VerifySummary{Refs: len(roots), Reachable: len(reachable)}, nil
}
