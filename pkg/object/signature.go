package object

// SignatureKey is the metadata key holding a commit signature.
const SignatureKey = "signature"

// CommitSigningPayload returns the canonical bytes that are signed for a
// commit. The payload excludes any signature metadata pair.
func CommitSigningPayload(c *Commit) ([]byte, error) {
	stripped := &Commit{TreeHash: c.TreeHash, Previous: c.Previous}
	for _, p := range c.Metadata {
		if p.Key == SignatureKey {
			continue
		}
		stripped.Metadata = append(stripped.Metadata, p)
	}
	return MarshalCommit(stripped)
}
