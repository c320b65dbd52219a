package gitio

import (
	git2go "github.com/libgit2/git2go/v34"
)

const (
	hashSize    = 20
	hashHexSize = 40
	hexBase     = 10
	hexShift    = 4
)

// hash is a raw 20-byte SHA-1 git object id.
type hash [hashSize]byte

func hashFromOid(oid *git2go.Oid) hash {
	var h hash
	copy(h[:], oid[:])

	return h
}

func (h hash) String() string {
	const hexChars = "0123456789abcdef"

	buf := make([]byte, hashHexSize)
	for i, b := range h {
		buf[i*2] = hexChars[b>>hexShift]
		buf[i*2+1] = hexChars[b&0x0f]
	}

	return string(buf)
}

func hexToOid(s string) (*git2go.Oid, error) {
	return git2go.NewOid(s)
}
