package util

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint returns a stable hex digest over the given byte slices.
// Each part is length-prefixed so ("ab","c") and ("a","bc") differ.
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		h.Write(size[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortFingerprint returns the first 12 hex characters of Fingerprint.
func ShortFingerprint(parts ...[]byte) string {
	return Fingerprint(parts...)[:12]
}
