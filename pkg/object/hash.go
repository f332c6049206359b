package object

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashObject computes the SHA-256 of the envelope "type len\0content",
// mirroring Git's object hashing but with SHA-256.
func HashObject(objType ObjectType, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := sha256.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// HashOf returns the content hash of obj. It depends only on the canonical
// encoding, so structurally equal objects hash equally in any process.
func HashOf(obj Object) (Hash, error) {
	data, err := Marshal(obj)
	if err != nil {
		return "", err
	}
	return HashObject(obj.Type(), data), nil
}
