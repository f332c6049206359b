package object

import "strings"

// Hash is a 64-character hex-encoded SHA-256 digest.
type Hash string

// HashLen is the length of a full hex-encoded hash.
const HashLen = 64

// ZeroHash is the sentinel "previous" of the first commit on a branch. It
// never names a stored object.
var ZeroHash = Hash(strings.Repeat("0", HashLen))

// Short returns the first seven characters of h, for messages.
func (h Hash) Short() string {
	if len(h) <= 7 {
		return string(h)
	}
	return string(h[:7])
}

// IsFull reports whether h is a complete lowercase hex hash.
func (h Hash) IsFull() bool {
	if len(h) != HashLen {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// TreeKind tells whether a tree's record names are map keys or list indices.
type TreeKind string

const (
	KindMap  TreeKind = "map"
	KindList TreeKind = "list"
)

// Object is one of *Blob, *Tree or *Commit. The set is closed.
type Object interface {
	Type() ObjectType
	sealed()
}

// Blob wraps a single scalar: nil, bool, int, float64 or string.
type Blob struct {
	Value any
}

func (*Blob) Type() ObjectType { return TypeBlob }
func (*Blob) sealed()          {}

// TreeRecord is one named child reference inside a tree. For list trees
// Name is the decimal index of the element.
type TreeRecord struct {
	Type ObjectType // TypeTree or TypeBlob
	Name string
	Hash Hash
}

// Tree is an ordered, non-empty sequence of records.
type Tree struct {
	Kind    TreeKind
	Records []TreeRecord
}

func (*Tree) Type() ObjectType { return TypeTree }
func (*Tree) sealed()          {}

// MetaPair is one ordered commit metadata entry.
type MetaPair struct {
	Key   string
	Value string
}

// Commit points at a root tree and at the commit it was made on top of.
type Commit struct {
	TreeHash Hash
	Metadata []MetaPair
	Previous Hash
}

func (*Commit) Type() ObjectType { return TypeCommit }
func (*Commit) sealed()          {}

// Meta returns the value of the first metadata pair with the given key.
func (c *Commit) Meta(key string) (string, bool) {
	for _, p := range c.Metadata {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}
