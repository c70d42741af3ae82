package scanner

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"
)

// RPM packages start with 0xED 0xAB 0xEE 0xDB
var rpmMagic = []byte{0xED, 0xAB, 0xEE, 0xDB}

// The 96 byte RPM lead stores the package type as a big-endian short at offset 6.
const (
	leadTypeOffset = 6
	leadTypeBinary = 0
	leadTypeSource = 1
)

// DetectPackageType determines the package type based on the RPM lead and file extension
func DetectPackageType(path string) (PackageType, error) {
	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()

	header := make([]byte, leadTypeOffset+2)
	n, err := io.ReadFull(f, header)
	if err != nil && n == 0 {
		return TypeUnknown, err
	}
	header = header[:n]

	if !bytes.HasPrefix(header, rpmMagic) {
		return TypeUnknown, nil
	}

	if len(header) == leadTypeOffset+2 {
		switch binary.BigEndian.Uint16(header[leadTypeOffset:]) {
		case leadTypeBinary:
			return TypeRpm, nil
		case leadTypeSource:
			return TypeSourceRpm, nil
		}
	}

	// Truncated or odd lead, fall back to the file name
	if strings.HasSuffix(path, ".src.rpm") {
		return TypeSourceRpm, nil
	}
	return TypeRpm, nil
}
