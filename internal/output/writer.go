// Package output writes comparison reports to files and to the console.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/pkgcompare/internal/models"
	"github.com/ralt/pkgcompare/internal/signer"
	"github.com/ralt/pkgcompare/internal/utils"
	"github.com/sirupsen/logrus"
)

// Writer persists report payloads as JSON artifacts
type Writer struct {
	dir         string
	compression utils.Compression
	checksum    utils.HashType
	signer      signer.Signer
}

// NewWriter creates a writer storing artifacts in dir. s may be nil and
// checksum may be utils.HashNone.
func NewWriter(dir string, compression utils.Compression, checksum utils.HashType, s signer.Signer) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, compression: compression, checksum: checksum, signer: s}
}

// Path returns where the artifact called name is written
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name+".json"+w.compression.Extension())
}

// Save writes payload to <dir>/<name>.json, compressed, signed and
// checksummed as configured. Nothing is written when payload is empty or
// any step fails.
func (w *Writer) Save(name string, payload map[string]any) (string, error) {
	path := w.Path(name)
	if len(payload) == 0 {
		return "", models.NewError(models.ErrNoData, path, errors.New("no data available, no output file created"))
	}

	data, err := Encode(payload)
	if err != nil {
		return "", models.NewError(models.ErrSerialization, path, err)
	}

	data, err = w.compression.Compress(data)
	if err != nil {
		return "", models.NewError(models.ErrSerialization, path, err)
	}

	var signature []byte
	if w.signer != nil {
		if signature, err = w.signer.SignDetached(data); err != nil {
			return "", models.NewError(models.ErrSigning, path, err)
		}
	}

	if err := utils.WriteFileAtomic(path, data, 0644); err != nil {
		return "", models.NewError(models.ErrFileOp, path, err)
	}

	written := []string{path}
	if signature != nil {
		if err := utils.WriteFileAtomic(path+".asc", signature, 0644); err != nil {
			removeAll(written)
			return "", models.NewError(models.ErrFileOp, path+".asc", err)
		}
		written = append(written, path+".asc")
		logrus.Infof("Signature written to %s.asc", path)
	}

	if w.checksum != utils.HashNone {
		sumPath := path + "." + string(w.checksum)
		if err := writeChecksum(sumPath, path, w.checksum); err != nil {
			removeAll(written)
			return "", models.NewError(models.ErrFileOp, sumPath, err)
		}
		logrus.Infof("Checksum written to %s", sumPath)
	}

	logrus.Infof("Data saved to %s (%d bytes, sha256 %s)", path, len(data), utils.CalculateChecksum(data, utils.HashSHA256))
	return path, nil
}

// writeChecksum stores the digest of the file at path in the
// "<hex>  <name>" line format read by sha256sum -c and friends.
func writeChecksum(sumPath, path string, hashType utils.HashType) error {
	sum, err := utils.FileChecksum(path, hashType)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("%s  %s\n", sum, filepath.Base(path))
	return utils.WriteFileAtomic(sumPath, []byte(line), 0644)
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

// Encode renders v as UTF-8 JSON indented by two spaces, leaving
// non-ASCII text and HTML characters unescaped.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
