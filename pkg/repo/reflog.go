package repo

import (
	"strings"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// headLog is the reflog key for HEAD moves made while detached.
const headLog = "HEAD"

// ReflogEntry records one movement of a ref.
type ReflogEntry struct {
	Ref       string
	OldHash   object.Hash
	NewHash   object.Hash
	Timestamp int64
	Reason    string
}

func (r *Repo) appendReflog(ref string, oldHash, newHash object.Hash, reason string) {
	if strings.TrimSpace(reason) == "" {
		reason = "update"
	}
	if oldHash == "" {
		oldHash = object.ZeroHash
	}
	r.reflog[ref] = append(r.reflog[ref], ReflogEntry{
		Ref:       ref,
		OldHash:   oldHash,
		NewHash:   newHash,
		Timestamp: r.now().Unix(),
		Reason:    reason,
	})
}

// ReadReflog returns up to limit movements of ref, newest first. "" names
// the branch HEAD follows, or HEAD itself when detached. "HEAD" names HEAD's
// own log: detached moves and branch switches. A bare branch name is looked
// up under heads/. A limit of zero or less means no
// limit. A ref that never moved has an empty log.
func (r *Repo) ReadReflog(ref string, limit int) []ReflogEntry {
	log := r.reflog[r.reflogName(ref)]

	entries := make([]ReflogEntry, 0, len(log))
	for i := len(log) - 1; i >= 0; i-- {
		if limit > 0 && len(entries) >= limit {
			break
		}
		entries = append(entries, log[i])
	}
	return entries
}

func (r *Repo) reflogName(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "HEAD" {
		return headLog
	}
	if ref == "" {
		if name, symbolic, err := parseSymbolic(r.head); symbolic && err == nil {
			return name
		}
		return headLog
	}
	if name, _, ok := r.lookupRef(ref); ok {
		return name
	}
	return ref
}
