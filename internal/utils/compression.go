package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Compression names an artifact compression format
type Compression string

const (
	CompressNone Compression = "none"
	CompressGzip Compression = "gzip"
	CompressXZ   Compression = "xz"
)

// ParseCompression parses a compression name. Empty selects none.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressNone:
		return CompressNone, nil
	case CompressGzip:
		return CompressGzip, nil
	case CompressXZ:
		return CompressXZ, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want none, gzip or xz)", s)
	}
}

// Extension returns the file suffix added by the compression
func (c Compression) Extension() string {
	switch c {
	case CompressGzip:
		return ".gz"
	case CompressXZ:
		return ".xz"
	default:
		return ""
	}
}

// Compress compresses data with c
func (c Compression) Compress(data []byte) ([]byte, error) {
	switch c {
	case CompressGzip:
		return GzipCompress(data)
	case CompressXZ:
		return XZCompress(data)
	default:
		return data, nil
	}
}

// GzipCompress compresses data using gzip
func GzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GzipDecompress decompresses gzip data
func GzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// XZCompress compresses data using xz
func XZCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// XZDecompress decompresses xz data
func XZDecompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
