package repo

import (
	"time"

	"go.uber.org/zap"

	"github.com/odvcencio/vcsettings/pkg/deepmerge"
	"github.com/odvcencio/vcsettings/pkg/object"
)

// MergeFunc folds source into target in place. It is the deep-merge policy
// used by MergeCommits; the repository itself makes no merge decisions.
type MergeFunc func(source, target map[string]any) error

// Repo is a versioned settings tree over an in-memory object store.
//
// A Repo is not safe for concurrent use; callers must serialize access.
type Repo struct {
	Store *object.Store // content-addressed object store

	cfg     Config
	log     *zap.Logger
	mergeFn MergeFunc

	refs     map[string]object.Hash
	reflog   map[string][]ReflogEntry
	head     string
	workTree map[string]any
	cache    snapshotCache
	now      func() time.Time
}

// Option configures a Repo created by New.
type Option func(*Repo)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(r *Repo) { r.cfg = cfg }
}

// WithLogger sets the logger used for repository events.
func WithLogger(log *zap.Logger) Option {
	return func(r *Repo) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMergeFunc sets the deep-merge collaborator. A nil fn disables merging.
func WithMergeFunc(fn MergeFunc) Option {
	return func(r *Repo) { r.mergeFn = fn }
}

// WithStore backs the repository with an existing object store.
func WithStore(s *object.Store) Option {
	return func(r *Repo) {
		if s != nil {
			r.Store = s
		}
	}
}

// New creates a repository whose default branch points at the zero hash and
// whose HEAD follows that branch.
func New(opts ...Option) *Repo {
	r := &Repo{
		Store:    object.NewStore(),
		cfg:      DefaultConfig(),
		log:      zap.NewNop(),
		mergeFn:  deepmerge.Merge,
		refs:     make(map[string]object.Hash),
		reflog:   make(map[string][]ReflogEntry),
		workTree: make(map[string]any),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cfg = r.cfg.normalized()
	r.cache = newSnapshotCache(r.cfg.CheckoutCacheSize)

	branch := branchRef(r.cfg.DefaultBranch)
	r.refs[branch] = object.ZeroHash
	r.head = symbolicRef(branch)
	return r
}

// Config returns the configuration the repository was created with.
func (r *Repo) Config() Config {
	return r.cfg.clone()
}
