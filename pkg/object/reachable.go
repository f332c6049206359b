package object

import (
	"fmt"
	"sort"
)

// ReachableSet returns all object hashes reachable from roots by following
// commit, previous and tree references, and separately every referenced
// hash that is not in the store. The zero hash is never followed.
func (s *Store) ReachableSet(roots []Hash) (map[Hash]struct{}, []Hash, error) {
	out := make(map[Hash]struct{}, len(roots))
	missing := make(map[Hash]struct{})

	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" || h == ZeroHash {
			continue
		}
		if _, ok := out[h]; ok {
			continue
		}
		if !s.Has(h) {
			missing[h] = struct{}{}
			continue
		}
		out[h] = struct{}{}

		obj, err := s.Get(h)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set read %s: %w", h, err)
		}
		stack = append(stack, referencedHashes(obj)...)
	}

	missingList := make([]Hash, 0, len(missing))
	for h := range missing {
		missingList = append(missingList, h)
	}
	sort.Slice(missingList, func(i, j int) bool { return missingList[i] < missingList[j] })
	return out, missingList, nil
}

func referencedHashes(obj Object) []Hash {
	switch o := obj.(type) {
	case *Commit:
		return []Hash{o.TreeHash, o.Previous}
	case *Tree:
		refs := make([]Hash, 0, len(o.Records))
		for _, rec := range o.Records {
			refs = append(refs, rec.Hash)
		}
		return refs
	}
	return nil
}
