package repo

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// BuildTree lowers a non-empty map or list into Tree and Blob objects,
// writing children before their parents, and returns the root tree hash.
//
// Map entries are written in ascending key order and list entries in index
// order. Empty containers at any depth cannot be represented and fail with
// object.ErrInvalidInput.
func (r *Repo) BuildTree(data any) (object.Hash, error) {
	rv, kind, ok := container(data)
	if !ok {
		return "", fmt.Errorf("build tree: root must be a map or list, got %T: %w", data, object.ErrInvalidInput)
	}
	return r.buildTree(rv, kind, "")
}

// container reports whether v is a map with string keys or a slice/array,
// and which tree kind it lowers to.
func container(v any) (reflect.Value, object.TreeKind, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return rv, object.KindMap, true
		}
	case reflect.Slice, reflect.Array:
		return rv, object.KindList, true
	}
	return reflect.Value{}, "", false
}

func (r *Repo) buildTree(rv reflect.Value, kind object.TreeKind, path string) (object.Hash, error) {
	if rv.Len() == 0 {
		return "", fmt.Errorf("build tree %q: empty %s: %w", displayPath(path), kind, object.ErrInvalidInput)
	}

	records := make([]object.TreeRecord, 0, rv.Len())
	if kind == object.KindMap {
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			name := k.String()
			rec, err := r.buildRecord(name, rv.MapIndex(k).Interface(), joinKey(path, name))
			if err != nil {
				return "", err
			}
			records = append(records, rec)
		}
	} else {
		for i := 0; i < rv.Len(); i++ {
			rec, err := r.buildRecord(strconv.Itoa(i), rv.Index(i).Interface(), joinIndex(path, i))
			if err != nil {
				return "", err
			}
			records = append(records, rec)
		}
	}

	h, err := r.Store.WriteTree(&object.Tree{Kind: kind, Records: records})
	if err != nil {
		return "", fmt.Errorf("write tree %q: %w", displayPath(path), err)
	}
	return h, nil
}

func (r *Repo) buildRecord(name string, value any, path string) (object.TreeRecord, error) {
	if rv, kind, ok := container(value); ok {
		h, err := r.buildTree(rv, kind, path)
		if err != nil {
			return object.TreeRecord{}, err
		}
		return object.TreeRecord{Type: object.TypeTree, Name: name, Hash: h}, nil
	}

	scalar, err := object.NormalizeScalar(value)
	if err != nil {
		return object.TreeRecord{}, fmt.Errorf("build tree %q: %w", path, err)
	}
	h, err := r.Store.WriteBlob(&object.Blob{Value: scalar})
	if err != nil {
		return object.TreeRecord{}, fmt.Errorf("write blob %q: %w", path, err)
	}
	return object.TreeRecord{Type: object.TypeBlob, Name: name, Hash: h}, nil
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func joinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

// materialize turns the object graph under h back into plain values: blobs
// become scalars, map trees become map[string]any and list trees []any.
func (r *Repo) materialize(h object.Hash) (any, error) {
	obj, err := r.Store.Get(h)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *object.Blob:
		return o.Value, nil
	case *object.Tree:
		if o.Kind == object.KindList {
			out := make([]any, 0, len(o.Records))
			for _, rec := range o.Records {
				v, err := r.materialize(rec.Hash)
				if err != nil {
					return nil, fmt.Errorf("resolve %s[%s]: %w", h.Short(), rec.Name, err)
				}
				out = append(out, v)
			}
			return out, nil
		}
		out := make(map[string]any, len(o.Records))
		for _, rec := range o.Records {
			v, err := r.materialize(rec.Hash)
			if err != nil {
				return nil, fmt.Errorf("resolve %s.%s: %w", h.Short(), rec.Name, err)
			}
			out[rec.Name] = v
		}
		return out, nil
	case *object.Commit:
		return r.materialize(o.TreeHash)
	}
	return nil, fmt.Errorf("resolve %s: unexpected object %T", h, obj)
}

// cloneValue deep-copies materialized data.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
