package session

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// HashSHA3 digests the input with SHA3-512 and returns lowercase hex,
// matching what the login page computes client-side.
func HashSHA3(input string) string {
	h := sha3.Sum512([]byte(input))
	return hex.EncodeToString(h[:])
}

// Equal compares two hash strings in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
