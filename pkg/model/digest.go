package model

import (
	"encoding/hex"
	"fmt"
	"io"

	blake2b "github.com/minio/blake2b-simd"
)

const (
	// DigestSize for the blake2b-512 algo
	DigestSize = 64
)

// Digest is the content address of an asset payload, a BLAKE2b-512 hash
type Digest [DigestSize]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// NewDigest computes the digest of a payload held in memory
func NewDigest(data []byte) Digest {
	return Digest(blake2b.Sum512(data))
}

// DigestReader computes the digest of a payload stream and reports the
// number of bytes consumed
func DigestReader(rdr io.Reader) (Digest, int64, error) {
	hasher := blake2b.New512()
	n, err := io.Copy(hasher, rdr)
	if err != nil {
		return Digest{}, 0, err
	}
	d, err := DigestFromBytes(hasher.Sum(nil))
	return d, n, err
}

// DigestFromBytes builds a digest from a raw hash value
func DigestFromBytes(data []byte) (Digest, error) {
	var d Digest
	if copy(d[:], data) != DigestSize {
		return Digest{}, &BadDigestSize{Digest: data}
	}
	return d, nil
}

// ParseDigest interprets the hex representation of a digest
func ParseDigest(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest %q: %v", s, err)
	}
	return DigestFromBytes(b)
}

// BadDigestSize is an error returned when building a digest from a hash
// value of the wrong length.
type BadDigestSize struct {
	Digest []byte
}

func (b *BadDigestSize) Error() string {
	return fmt.Sprintf("%x has invalid size of %d, expected %d", b.Digest, len(b.Digest), DigestSize)
}
