package object

import (
	"fmt"
	"sort"
	"strings"
)

type storedObject struct {
	objType ObjectType
	data    []byte
}

// Store is an append-only, in-memory content-addressed object store. Objects
// are kept in canonical serialized form and decoded on every read, so
// callers can never mutate what is stored.
//
// A Store is not safe for concurrent use.
type Store struct {
	objects map[Hash]storedObject
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{objects: make(map[Hash]storedObject)}
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	_, ok := s.objects[h]
	return ok
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	return len(s.objects)
}

// Hashes returns every stored hash in ascending order.
func (s *Store) Hashes() []Hash {
	out := make([]Hash, 0, len(s.objects))
	for h := range s.objects {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Write stores already-serialized content and returns its hash. An existing
// entry is never replaced.
func (s *Store) Write(objType ObjectType, data []byte) Hash {
	h := HashObject(objType, data)
	if s.Has(h) {
		return h
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[h] = storedObject{objType: objType, data: buf}
	return h
}

// Read retrieves the type and raw content stored under h.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	so, ok := s.objects[h]
	if !ok {
		return "", nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
	}
	out := make([]byte, len(so.data))
	copy(out, so.data)
	return so.objType, out, nil
}

// Save serializes obj, stores it if absent and returns its hash. A nil or
// empty object fails with ErrInvalidInput.
func (s *Store) Save(obj Object) (Hash, error) {
	if obj == nil {
		return "", fmt.Errorf("save object: nil object: %w", ErrInvalidInput)
	}
	data, err := Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("save object: %w", err)
	}
	return s.Write(obj.Type(), data), nil
}

// Get returns a freshly decoded copy of the object stored under h.
func (s *Store) Get(h Hash) (Object, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	obj, err := Unmarshal(objType, data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return obj, nil
}

// Expand resolves a hash prefix to the single stored hash that starts with
// it. A full-length prefix is not treated specially. No match or more than
// one match fails with ErrNotFound.
func (s *Store) Expand(prefix string) (Hash, error) {
	if prefix == "" {
		return "", fmt.Errorf("expand hash: empty prefix: %w", ErrNotFound)
	}
	var (
		match Hash
		n     int
	)
	for h := range s.objects {
		if strings.HasPrefix(string(h), prefix) {
			match = h
			n++
		}
	}
	switch n {
	case 0:
		return "", fmt.Errorf("expand hash %q: no such object: %w", prefix, ErrNotFound)
	case 1:
		return match, nil
	default:
		return "", fmt.Errorf("expand hash %q: ambiguous, %d objects match: %w", prefix, n, ErrNotFound)
	}
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Save(b)
}

// ReadBlob reads a Blob, failing if h names another object type.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	obj, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*Blob)
	if !ok {
		return nil, typeMismatch(h, obj.Type(), TypeBlob)
	}
	return b, nil
}

// WriteTree stores a Tree.
func (s *Store) WriteTree(tr *Tree) (Hash, error) {
	return s.Save(tr)
}

// ReadTree reads a Tree, failing if h names another object type.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	obj, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	tr, ok := obj.(*Tree)
	if !ok {
		return nil, typeMismatch(h, obj.Type(), TypeTree)
	}
	return tr, nil
}

// WriteCommit stores a Commit.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	return s.Save(c)
}

// ReadCommit reads a Commit, failing if h names another object type.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	obj, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*Commit)
	if !ok {
		return nil, typeMismatch(h, obj.Type(), TypeCommit)
	}
	return c, nil
}

func typeMismatch(h Hash, got, want ObjectType) error {
	return fmt.Errorf("object %s: type mismatch: got %q, want %q: %w", h, got, want, ErrInvalidInput)
}
