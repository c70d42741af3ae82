package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ralt/pkgcompare/internal/models"
	"github.com/ralt/pkgcompare/internal/scanner"
	"github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"
)

// Header tags without a go-rpmutils constant
const (
	tagEpoch     = 1003
	tagSourceRPM = 1044
	tagDisttag   = 1155
)

// RPMDir builds a branch package set from a directory of binary RPM files.
type RPMDir struct {
	dir     string
	scanner scanner.Scanner
	parse   func(path string) (models.Package, error)
}

// NewRPMDir creates a source reading the .rpm files below dir
func NewRPMDir(dir string) *RPMDir {
	return &RPMDir{
		dir:     dir,
		scanner: scanner.NewFileSystemScanner(),
		parse:   ParsePackage,
	}
}

// Fetch scans the directory and reads every package header. Files that
// cannot be parsed are logged and skipped. The branch name only labels the set.
func (d *RPMDir) Fetch(ctx context.Context, branch, arch string) (*models.BranchPackages, error) {
	logrus.Infof("Scanning %s packages in %s", branch, d.dir)

	info, err := os.Stat(d.dir)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, branch, err)
	}
	if !info.IsDir() {
		return nil, models.NewError(models.ErrFetch, branch, fmt.Errorf("%s is not a directory", d.dir))
	}

	scanned, err := d.scanner.Scan(ctx, d.dir)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, branch, err)
	}

	pkgs := make([]models.Package, 0, len(scanned))
	for _, s := range scanned {
		logrus.Debugf("Parsing %s package: %s", s.Type, s.Path)

		pkg, err := d.parse(s.Path)
		if err != nil {
			logrus.Warnf("Failed to parse %s: %v", s.Path, err)
			continue
		}
		if arch != "" && pkg.Architecture != arch {
			continue
		}
		pkgs = append(pkgs, pkg)
	}

	return &models.BranchPackages{
		Branch:      branch,
		RequestArgs: map[string]any{"dir": d.dir, "arch": arch},
		Length:      len(pkgs),
		Packages:    pkgs,
	}, nil
}

// ParsePackage reads the header of an RPM file into a package record
func ParsePackage(path string) (models.Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Package{}, err
	}
	defer f.Close()

	rpm, err := rpmutils.ReadRpm(f)
	if err != nil {
		return models.Package{}, fmt.Errorf("failed to read RPM: %w", err)
	}

	pkg := models.Package{
		Name:         getStringTag(rpm, rpmutils.NAME),
		Epoch:        getIntTag(rpm, tagEpoch),
		Version:      getStringTag(rpm, rpmutils.VERSION),
		Release:      getStringTag(rpm, rpmutils.RELEASE),
		Architecture: getStringTag(rpm, rpmutils.ARCH),
		Disttag:      getStringTag(rpm, tagDisttag),
		BuildTime:    getIntTag(rpm, rpmutils.BUILDTIME),
		Source:       SourceName(getStringTag(rpm, tagSourceRPM)),
	}
	if pkg.Name == "" || pkg.Version == "" {
		return models.Package{}, fmt.Errorf("header has no name or version")
	}

	return pkg, nil
}

// SourceName strips version, release and suffix from a source RPM file
// name: "bash-5.2.26-alt1.src.rpm" becomes "bash".
func SourceName(srpm string) string {
	name := strings.TrimSuffix(srpm, ".rpm")
	name = strings.TrimSuffix(name, ".src")
	name = strings.TrimSuffix(name, ".nosrc")
	for range 2 {
		i := strings.LastIndex(name, "-")
		if i <= 0 {
			return name
		}
		name = name[:i]
	}
	return name
}

// getStringTag safely gets a string tag from RPM
func getStringTag(rpm *rpmutils.Rpm, tag int) string {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return ""
	}

	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}

	return ""
}

// getIntTag safely gets the first value of an integer tag from RPM
func getIntTag(rpm *rpmutils.Rpm, tag int) int64 {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return 0
	}

	switch v := val.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case []int:
		if len(v) > 0 {
			return int64(v[0])
		}
	case []int32:
		if len(v) > 0 {
			return int64(v[0])
		}
	case []uint32:
		if len(v) > 0 {
			return int64(v[0])
		}
	case []int64:
		if len(v) > 0 {
			return v[0]
		}
	case []uint64:
		if len(v) > 0 {
			return int64(v[0])
		}
	}
	return 0
}
