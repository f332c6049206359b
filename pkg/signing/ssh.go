// Package signing signs and verifies commits with SSH keys.
package signing

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/odvcencio/vcsettings/pkg/object"
	"github.com/odvcencio/vcsettings/pkg/repo"
)

// SignaturePrefix tags the signature encoding version.
const SignaturePrefix = "sshsig-v1"

// ErrBadSignature is returned when a signature does not verify.
var ErrBadSignature = errors.New("bad commit signature")

// NewSSHSigner returns a repo.CommitSigner that signs with signer. The
// signature is encoded as "sshsig-v1:<format>:<b64 pubkey>:<b64 sig>".
func NewSSHSigner(signer ssh.Signer) repo.CommitSigner {
	pubB64 := base64.StdEncoding.EncodeToString(signer.PublicKey().Marshal())
	return func(payload []byte) (string, error) {
		sig, err := signer.Sign(rand.Reader, payload)
		if err != nil {
			return "", err
		}
		sigB64 := base64.StdEncoding.EncodeToString(sig.Blob)
		return fmt.Sprintf("%s:%s:%s:%s", SignaturePrefix, sig.Format, pubB64, sigB64), nil
	}
}

// ParseSignature decodes a signature string into its public key and SSH
// signature.
func ParseSignature(signature string) (ssh.PublicKey, *ssh.Signature, error) {
	parts := strings.SplitN(signature, ":", 4)
	if len(parts) != 4 || parts[0] != SignaturePrefix {
		return nil, nil, fmt.Errorf("parse signature: unsupported format: %w", ErrBadSignature)
	}
	rawPub, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, nil, fmt.Errorf("parse signature: public key: %w", err)
	}
	pub, err := ssh.ParsePublicKey(rawPub)
	if err != nil {
		return nil, nil, fmt.Errorf("parse signature: public key: %w", err)
	}
	blob, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return nil, nil, fmt.Errorf("parse signature: blob: %w", err)
	}
	return pub, &ssh.Signature{Format: parts[1], Blob: blob}, nil
}

// Verify checks signature against payload. When trusted is non-nil the
// embedded public key must match it.
func Verify(payload []byte, signature string, trusted ssh.PublicKey) error {
	pub, sig, err := ParseSignature(signature)
	if err != nil {
		return err
	}
	if trusted != nil && string(trusted.Marshal()) != string(pub.Marshal()) {
		return fmt.Errorf("verify: signed by untrusted key %s: %w", ssh.FingerprintSHA256(pub), ErrBadSignature)
	}
	if err := pub.Verify(payload, sig); err != nil {
		return fmt.Errorf("verify: %v: %w", err, ErrBadSignature)
	}
	return nil
}

// VerifyCommit checks the signature stored in c's metadata.
func VerifyCommit(c *object.Commit, trusted ssh.PublicKey) error {
	signature, ok := c.Meta(object.SignatureKey)
	if !ok {
		return fmt.Errorf("verify commit: unsigned: %w", ErrBadSignature)
	}
	payload, err := object.CommitSigningPayload(c)
	if err != nil {
		return fmt.Errorf("verify commit: %w", err)
	}
	return Verify(payload, signature, trusted)
}
