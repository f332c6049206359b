package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Marshal serializes any object to its canonical form.
func Marshal(obj Object) ([]byte, error) {
	switch o := obj.(type) {
	case *Blob:
		if o == nil {
			break
		}
		return MarshalBlob(o)
	case *Tree:
		if o == nil {
			break
		}
		return MarshalTree(o)
	case *Commit:
		if o == nil {
			break
		}
		return MarshalCommit(o)
	}
	return nil, fmt.Errorf("marshal: empty object: %w", ErrInvalidInput)
}

// Unmarshal parses the canonical form of an object of the given type.
func Unmarshal(objType ObjectType, data []byte) (Object, error) {
	switch objType {
	case TypeBlob:
		return UnmarshalBlob(data)
	case TypeTree:
		return UnmarshalTree(data)
	case TypeCommit:
		return UnmarshalCommit(data)
	}
	return nil, fmt.Errorf("unmarshal: unknown object type %q", objType)
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob as "<kind> <payload>", where kind is one of
// null, bool, int, float or str. Strings are Go-quoted and floats use the
// shortest representation that round-trips.
func MarshalBlob(b *Blob) ([]byte, error) {
	v, err := NormalizeScalar(b.Value)
	if err != nil {
		return nil, fmt.Errorf("marshal blob: %w", err)
	}
	kind, err := scalarKind(v)
	if err != nil {
		return nil, fmt.Errorf("marshal blob: %w", err)
	}

	var payload string
	switch x := v.(type) {
	case nil:
	case bool:
		payload = strconv.FormatBool(x)
	case int:
		payload = strconv.Itoa(x)
	case float64:
		payload = strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		payload = strconv.Quote(x)
	}
	return []byte(kind + " " + payload), nil
}

// UnmarshalBlob parses a Blob from its serialized form.
func UnmarshalBlob(data []byte) (*Blob, error) {
	kind, payload, ok := strings.Cut(string(data), " ")
	if !ok {
		return nil, fmt.Errorf("unmarshal blob: missing kind separator")
	}

	var (
		v   any
		err error
	)
	switch kind {
	case "null":
		if payload != "" {
			return nil, fmt.Errorf("unmarshal blob: null with payload %q", payload)
		}
	case "bool":
		v, err = strconv.ParseBool(payload)
	case "int":
		v, err = strconv.Atoi(payload)
	case "float":
		v, err = strconv.ParseFloat(payload, 64)
	case "str":
		v, err = strconv.Unquote(payload)
	default:
		return nil, fmt.Errorf("unmarshal blob: unknown kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal blob: bad %s payload %q: %w", kind, payload, err)
	}
	return &Blob{Value: v}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes a Tree. Records keep their order; each one is a
// line of the form:
//
//	<tree|blob> <hash> <quoted name>
//
// preceded by a "kind map" or "kind list" header line.
func MarshalTree(tr *Tree) ([]byte, error) {
	if len(tr.Records) == 0 {
		return nil, fmt.Errorf("marshal tree: no records: %w", ErrInvalidInput)
	}
	if tr.Kind != KindMap && tr.Kind != KindList {
		return nil, fmt.Errorf("marshal tree: unknown kind %q: %w", tr.Kind, ErrInvalidInput)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "kind %s\n", tr.Kind)
	for _, rec := range tr.Records {
		if rec.Type != TypeTree && rec.Type != TypeBlob {
			return nil, fmt.Errorf("marshal tree: record %q has type %q: %w", rec.Name, rec.Type, ErrInvalidInput)
		}
		if !rec.Hash.IsFull() {
			return nil, fmt.Errorf("marshal tree: record %q has malformed hash %q: %w", rec.Name, rec.Hash, ErrInvalidInput)
		}
		fmt.Fprintf(&buf, "%s %s %s\n", rec.Type, rec.Hash, strconv.Quote(rec.Name))
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a Tree from its serialized form.
func UnmarshalTree(data []byte) (*Tree, error) {
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	key, val, ok := strings.Cut(lines[0], " ")
	if !ok || key != "kind" {
		return nil, fmt.Errorf("unmarshal tree: missing kind header")
	}
	tr := &Tree{Kind: TreeKind(val)}
	if tr.Kind != KindMap && tr.Kind != KindList {
		return nil, fmt.Errorf("unmarshal tree: unknown kind %q", val)
	}

	for _, line := range lines[1:] {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unmarshal tree: malformed record %q", line)
		}
		name, err := strconv.Unquote(parts[2])
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: bad name in %q: %w", line, err)
		}
		tr.Records = append(tr.Records, TreeRecord{
			Type: ObjectType(parts[0]),
			Hash: Hash(parts[1]),
			Name: name,
		})
	}
	if len(tr.Records) == 0 {
		return nil, fmt.Errorf("unmarshal tree: no records")
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a Commit:
//
//	tree H
//	previous H
//	meta "key" "value"   (zero or more, in order)
func MarshalCommit(c *Commit) ([]byte, error) {
	if !c.TreeHash.IsFull() {
		return nil, fmt.Errorf("marshal commit: malformed tree hash %q: %w", c.TreeHash, ErrInvalidInput)
	}
	prev := c.Previous
	if prev == "" {
		prev = ZeroHash
	}
	if !prev.IsFull() {
		return nil, fmt.Errorf("marshal commit: malformed previous hash %q: %w", c.Previous, ErrInvalidInput)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	fmt.Fprintf(&buf, "previous %s\n", prev)
	for _, p := range c.Metadata {
		fmt.Fprintf(&buf, "meta %s %s\n", strconv.Quote(p.Key), strconv.Quote(p.Value))
	}
	return buf.Bytes(), nil
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	c := &Commit{}
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "tree":
			c.TreeHash = Hash(val)
		case "previous":
			c.Previous = Hash(val)
		case "meta":
			pair, err := parseMetaPair(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w", err)
			}
			c.Metadata = append(c.Metadata, pair)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	if c.TreeHash == "" {
		return nil, fmt.Errorf("unmarshal commit: missing tree")
	}
	return c, nil
}

func parseMetaPair(s string) (MetaPair, error) {
	qk, err := strconv.QuotedPrefix(s)
	if err != nil {
		return MetaPair{}, fmt.Errorf("bad meta key in %q: %w", s, err)
	}
	qv := strings.TrimPrefix(s[len(qk):], " ")
	k, err := strconv.Unquote(qk)
	if err != nil {
		return MetaPair{}, fmt.Errorf("bad meta key in %q: %w", s, err)
	}
	v, err := strconv.Unquote(qv)
	if err != nil {
		return MetaPair{}, fmt.Errorf("bad meta value in %q: %w", s, err)
	}
	return MetaPair{Key: k, Value: v}, nil
}
