package address

import (
	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/ripemd160"
)

// Hash160 computes RIPEMD160(SHA256(b)), the digest Bitcoin addresses
// are built from.
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}
