package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/vcsettings/pkg/object"
)

const tagPrefix = "tags/"

// CreateTag creates or updates a lightweight tag ref under tags/ pointing
// at the commit target resolves to.
func (r *Repo) CreateTag(name, target string, force bool) error {
	name = strings.TrimSpace(name)
	if err := validateTagName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	refName := tagPrefix + name
	if _, exists := r.refs[refName]; exists && !force {
		return fmt.Errorf("create tag: tag %q already exists: %w", name, object.ErrConsistency)
	}
	h, err := r.resolveCommitHash(target)
	if err != nil {
		return fmt.Errorf("create tag %q: %w", name, err)
	}
	r.setRef(refName, h, "tag: "+name)
	return nil
}

// DeleteTag removes a tag ref from tags/.
func (r *Repo) DeleteTag(name string) error {
	name = strings.TrimSpace(name)
	if err := validateTagName(name); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	refName := tagPrefix + name
	if _, ok := r.refs[refName]; !ok {
		return fmt.Errorf("delete tag: tag %q does not exist: %w", name, object.ErrNotFound)
	}
	r.dropRef(refName)
	return nil
}

// ResolveTag returns the commit a tag points at.
func (r *Repo) ResolveTag(name string) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if err := validateTagName(name); err != nil {
		return "", fmt.Errorf("resolve tag: %w", err)
	}
	h, ok := r.refs[tagPrefix+name]
	if !ok {
		return "", fmt.Errorf("resolve tag: tag %q does not exist: %w", name, object.ErrNotFound)
	}
	return h, nil
}

// ListTags lists tag names sorted alphabetically.
func (r *Repo) ListTags() []string {
	names := make([]string, 0)
	for _, full := range r.ListRefs(tagPrefix) {
		names = append(names, strings.TrimPrefix(full, tagPrefix))
	}
	sort.Strings(names)
	return names
}

// ListTagsWithHashes returns tag name -> target hash.
func (r *Repo) ListTagsWithHashes() map[string]object.Hash {
	out := make(map[string]object.Hash)
	for _, full := range r.ListRefs(tagPrefix) {
		out[strings.TrimPrefix(full, tagPrefix)] = r.refs[full]
	}
	return out
}

func validateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("tag name is required: %w", object.ErrInvalidInput)
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") ||
		strings.Contains(name, "..") || strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("invalid tag name %q: %w", name, object.ErrInvalidInput)
	}
	return nil
}
