package repo

import (
	"errors"
	"reflect"
	"testing"

	"github.com/odvcencio/vcsettings/pkg/object"
)

func TestCheckout_TimeTravel(t *testing.T) {
	r := newTestRepo(t)
	s1 := mustCommit(t, r, map[string]any{"a": 1})
	s2 := mustCommit(t, r, map[string]any{"a": 1, "b": 2})

	mustCheckout(t, r, string(s2))
	if !reflect.DeepEqual(r.WorkTree(), map[string]any{"a": 1, "b": 2}) {
		t.Fatalf("WorkTree after S2 = %#v", r.WorkTree())
	}

	mustCheckout(t, r, string(s1))
	want := map[string]any{"a": 1}
	if !reflect.DeepEqual(r.WorkTree(), want) {
		t.Errorf("WorkTree after S1 = %#v, want %#v", r.WorkTree(), want)
	}
	if _, ok := r.WorkTree()["b"]; ok {
		t.Error(`key "b" left over from S2`)
	}
}

func TestCheckout_KeepsWorkTreeReference(t *testing.T) {
	r := newTestRepo(t)
	settings := r.WorkTree()
	s1 := mustCommit(t, r, map[string]any{"a": 1})
	s2 := mustCommit(t, r, map[string]any{"b": 2})

	mustCheckout(t, r, string(s1))
	if !reflect.DeepEqual(settings, map[string]any{"a": 1}) {
		t.Errorf("held reference = %#v after S1", settings)
	}
	mustCheckout(t, r, string(s2))
	if !reflect.DeepEqual(settings, map[string]any{"b": 2}) {
		t.Errorf("held reference = %#v after S2", settings)
	}
}

func TestCheckout_MovesFollowedBranch(t *testing.T) {
	r := newTestRepo(t)
	s1 := mustCommit(t, r, map[string]any{"a": 1})
	mustCommit(t, r, map[string]any{"a": 2})

	mustCheckout(t, r, string(s1))
	if r.IsDetached() {
		t.Fatal("checkout of a hash detached HEAD; want it to keep following main")
	}
	if got := r.Refs()["heads/main"]; got != s1 {
		t.Errorf("heads/main = %s, want %s", got, s1)
	}

	// The next commit builds on the checked-out commit.
	s3 := mustCommit(t, r, map[string]any{"a": 3})
	c3, err := r.Store.ReadCommit(s3)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if c3.Previous != s1 {
		t.Errorf("previous = %s, want %s", c3.Previous, s1)
	}
}

func TestCheckout_DetachedMovesHEAD(t *testing.T) {
	r := newTestRepo(t)
	s1 := mustCommit(t, r, map[string]any{"a": 1})
	s2 := mustCommit(t, r, map[string]any{"a": 2})
	if err := r.DetachHead(string(s2)); err != nil {
		t.Fatalf("DetachHead: %v", err)
	}

	mustCheckout(t, r, string(s1[:8]))
	if r.Head() != string(s1) {
		t.Errorf("HEAD = %q, want %q", r.Head(), s1)
	}
	if got := r.Refs()["heads/main"]; got != s2 {
		t.Errorf("heads/main = %s, want it untouched at %s", got, s2)
	}
}

func TestCheckout_BranchNameFollowsBranch(t *testing.T) {
	r := newTestRepo(t)
	s1 := mustCommit(t, r, map[string]any{"a": 1})
	if err := r.DetachHead(string(s1)); err != nil {
		t.Fatalf("DetachHead: %v", err)
	}

	mustCheckout(t, r, "main")
	if r.Head() != "ref: heads/main" {
		t.Errorf("HEAD = %q, want %q", r.Head(), "ref: heads/main")
	}
}

func TestCheckout_PartialHash(t *testing.T) {
	r := newTestRepo(t)
	s1 := mustCommit(t, r, map[string]any{"a": 1})
	mustCommit(t, r, map[string]any{"a": 2})

	mustCheckout(t, r, string(s1[:12]))
	if !reflect.DeepEqual(r.WorkTree(), map[string]any{"a": 1}) {
		t.Errorf("WorkTree = %#v", r.WorkTree())
	}
}

func TestCheckout_Errors(t *testing.T) {
	r := newTestRepo(t)
	h := mustCommit(t, r, map[string]any{"a": map[string]any{"b": 1}})
	c, _ := r.Store.ReadCommit(h)

	if err := r.Checkout("zzzz"); !errors.Is(err, object.ErrNotFound) {
		t.Errorf("Checkout(missing) error = %v, want ErrNotFound", err)
	}
	if err := r.Checkout(string(c.TreeHash)); !errors.Is(err, object.ErrInvalidInput) {
		t.Errorf("Checkout(tree) error = %v, want ErrInvalidInput", err)
	}
	if err := r.Checkout("ref:"); !errors.Is(err, object.ErrConsistency) {
		t.Errorf("Checkout(ref:) error = %v, want ErrConsistency", err)
	}
	if got := r.Refs()["heads/main"]; got != h {
		t.Errorf("heads/main = %s after failed checkouts, want %s", got, h)
	}
}

func TestCheckout_ListRootIsResolvableButNotCheckedOut(t *testing.T) {
	r := newTestRepo(t)
	h := mustCommit(t, r, []any{"x", map[string]any{"y": 1}})

	got, err := r.Resolve(string(h))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []any{"x", map[string]any{"y": 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %#v, want %#v", got, want)
	}
	if err := r.Checkout(string(h)); !errors.Is(err, object.ErrInvalidInput) {
		t.Errorf("Checkout(list root) error = %v, want ErrInvalidInput", err)
	}
}

func TestCheckout_ZeroHashIsEmptyState(t *testing.T) {
	r := newTestRepo(t)
	h := mustCommit(t, r, map[string]any{"a": 1})
	mustCheckout(t, r, string(h))

	mustCheckout(t, r, string(object.ZeroHash))
	if len(r.WorkTree()) != 0 {
		t.Errorf("WorkTree = %#v, want empty", r.WorkTree())
	}
}

func TestCheckout_MemoizesPerCommit(t *testing.T) {
	r := newTestRepo(t)
	s1 := mustCommit(t, r, map[string]any{"a": 1})
	s2 := mustCommit(t, r, map[string]any{"b": 2})

	mustCheckout(t, r, string(s1))
	mustCheckout(t, r, string(s2))
	mustCheckout(t, r, string(s1))
	if r.cache.Len() != 2 {
		t.Errorf("cache has %d entries, want 2", r.cache.Len())
	}
}

func TestCheckout_WorkTreeEditsDoNotLeakIntoCache(t *testing.T) {
	r := newTestRepo(t)
	h := mustCommit(t, r, map[string]any{"nested": map[string]any{"k": "v"}, "list": []any{1}})
	mustCheckout(t, r, string(h))

	r.WorkTree()["nested"].(map[string]any)["k"] = "changed"
	r.WorkTree()["list"].([]any)[0] = 99
	r.WorkTree()["extra"] = true

	mustCheckout(t, r, string(h))
	want := map[string]any{"nested": map[string]any{"k": "v"}, "list": []any{1}}
	if !reflect.DeepEqual(r.WorkTree(), want) {
		t.Errorf("WorkTree = %#v, want %#v", r.WorkTree(), want)
	}

	resolved, err := r.Resolve(string(h))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	resolved.(map[string]any)["nested"].(map[string]any)["k"] = "again"
	again, err := r.Resolve(string(h))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(again, want) {
		t.Errorf("Resolve after editing a previous result = %#v", again)
	}
}

func TestCheckout_BoundedCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckoutCacheSize = 2
	r := newTestRepo(t, WithConfig(cfg))

	var hashes []object.Hash
	for i := 0; i < 5; i++ {
		hashes = append(hashes, mustCommit(t, r, map[string]any{"v": i}))
	}
	for _, h := range hashes {
		mustCheckout(t, r, string(h))
	}
	if r.cache.Len() != 2 {
		t.Errorf("cache has %d entries, want 2", r.cache.Len())
	}
	mustCheckout(t, r, string(hashes[0]))
	if !reflect.DeepEqual(r.WorkTree(), map[string]any{"v": 0}) {
		t.Errorf("WorkTree after evicted checkout = %#v", r.WorkTree())
	}
}

func TestRestore(t *testing.T) {
	r := newTestRepo(t)
	h := mustCommit(t, r, map[string]any{"a": 1, "b": 2})
	mustCheckout(t, r, string(h))

	r.WorkTree()["c"] = []any{1, 2, 3}
	delete(r.WorkTree(), "a")
	if err := r.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	want := map[string]any{"a": 1, "b": 2}
	if !reflect.DeepEqual(r.WorkTree(), want) {
		t.Errorf("WorkTree = %#v, want %#v", r.WorkTree(), want)
	}
}

func TestShowAndGetObject(t *testing.T) {
	r := newTestRepo(t)
	h := mustCommit(t, r, map[string]any{"a": "x"})

	obj, err := r.Show("HEAD")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	c, ok := obj.(*object.Commit)
	if !ok {
		t.Fatalf("Show(HEAD) = %T, want *object.Commit", obj)
	}
	if got, err := object.HashOf(c); err != nil || got != h {
		t.Errorf("HashOf(Show(HEAD)) = %s, %v; want %s", got, err, h)
	}

	treeObj, err := r.GetObject(string(c.TreeHash))
	if err != nil {
		t.Fatalf("GetObject(tree): %v", err)
	}
	tr, ok := treeObj.(*object.Tree)
	if !ok || tr.Kind != object.KindMap || len(tr.Records) != 1 {
		t.Fatalf("tree = %#v", treeObj)
	}
	blobObj, err := r.GetObject(string(tr.Records[0].Hash))
	if err != nil {
		t.Fatalf("GetObject(blob): %v", err)
	}
	if b, ok := blobObj.(*object.Blob); !ok || b.Value != "x" {
		t.Errorf("blob = %#v", blobObj)
	}

	if len(r.WorkTree()) != 0 {
		t.Error("Show touched the work tree")
	}
	if _, err := r.Show(string(object.ZeroHash)); !errors.Is(err, object.ErrNotFound) {
		t.Errorf("Show(zero) error = %v, want ErrNotFound", err)
	}
}

func TestCheckout_TagDoesNotFollowTag(t *testing.T) {
	for _, ref := range []string{"tags/v1", "ref: tags/v1"} {
		t.Run(ref, func(t *testing.T) {
			r := newTestRepo(t)
			h1 := mustCommit(t, r, map[string]any{"a": 1})
			mustCommit(t, r, map[string]any{"a": 2})
			if err := r.CreateTag("v1", string(h1), false); err != nil {
				t.Fatalf("CreateTag: %v", err)
			}

			mustCheckout(t, r, ref)
			if r.Head() != "ref: heads/main" || r.CurrentBranch() != "main" {
				t.Fatalf("HEAD = %q, CurrentBranch = %q; want HEAD still following main", r.Head(), r.CurrentBranch())
			}
			if got := r.Refs()["heads/main"]; got != h1 {
				t.Errorf("heads/main = %s, want %s", got, h1)
			}

			h3 := mustCommit(t, r, map[string]any{"a": 3})
			if got, _ := r.ResolveTag("v1"); got != h1 {
				t.Errorf("tag v1 moved to %s, want it fixed at %s", got, h1)
			}
			if got := r.Refs()["heads/main"]; got != h3 {
				t.Errorf("heads/main = %s, want %s", got, h3)
			}

			if err := r.DeleteTag("v1"); err != nil {
				t.Fatalf("DeleteTag: %v", err)
			}
			mustCommit(t, r, map[string]any{"a": 4})
		})
	}
}

func TestCheckout_TagOnDetachedHEAD(t *testing.T) {
	r := newTestRepo(t)
	h1 := mustCommit(t, r, map[string]any{"a": 1})
	h2 := mustCommit(t, r, map[string]any{"a": 2})
	if err := r.CreateTag("v1", string(h1), false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := r.DetachHead(string(h2)); err != nil {
		t.Fatalf("DetachHead: %v", err)
	}

	mustCheckout(t, r, "tags/v1")
	if r.Head() != string(h1) {
		t.Errorf("HEAD = %q, want detached at %s", r.Head(), h1)
	}
}
