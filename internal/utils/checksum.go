package utils

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// HashType names a checksum algorithm
type HashType string

const (
	HashNone   HashType = ""
	HashMD5    HashType = "md5"
	HashSHA1   HashType = "sha1"
	HashSHA256 HashType = "sha256"
	HashSHA512 HashType = "sha512"
)

// ParseHashType parses a checksum algorithm name. Empty and "none" select HashNone.
func ParseHashType(s string) (HashType, error) {
	switch HashType(s) {
	case HashNone, "none":
		return HashNone, nil
	case HashMD5, HashSHA1, HashSHA256, HashSHA512:
		return HashType(s), nil
	default:
		return HashNone, fmt.Errorf("unknown checksum %q (want md5, sha1, sha256, sha512 or none)", s)
	}
}

// FileChecksum calculates a checksum of the file at path
func FileChecksum(path string, hashType HashType) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := newHash(hashType)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CalculateChecksum calculates a specific checksum for data
func CalculateChecksum(data []byte, hashType HashType) string {
	h := newHash(hashType)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func newHash(hashType HashType) hash.Hash {
	switch hashType {
	case HashMD5:
		return md5.New()
	case HashSHA1:
		return sha1.New()
	case HashSHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}
