package compare

import (
	"fmt"

	"github.com/ralt/pkgcompare/internal/models"
	rpmutils "github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"
)

// Ordering is the result of a version comparison
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "unknown"
	}
}

// EVR is the version part of a package. Epoch is carried but not compared.
type EVR struct {
	Epoch   int64
	Version string
	Release string
}

// EVROf returns the EVR of pkg
func EVROf(pkg *models.Package) EVR {
	return EVR{Epoch: pkg.Epoch, Version: pkg.Version, Release: pkg.Release}
}

func (e EVR) String() string {
	return e.Version + "-" + e.Release
}

// CompareEVR orders a against b with RPM rules: versions first, releases
// only when the versions are equal. Malformed strings yield an ErrVersionParse error.
func CompareEVR(a, b EVR) (Ordering, error) {
	for _, s := range []string{a.Version, b.Version, a.Release, b.Release} {
		if err := validateVersion(s); err != nil {
			return Equal, models.NewError(models.ErrVersionParse, fmt.Sprintf("%q", s), err)
		}
	}

	if c := rpmutils.Vercmp(a.Version, b.Version); c != 0 {
		return toOrdering(c), nil
	}
	return toOrdering(rpmutils.Vercmp(a.Release, b.Release)), nil
}

// IsHigher reports whether candidate's version-release is strictly greater
// than base's. A version that cannot be parsed is never higher.
func IsHigher(candidate, base *models.Package) bool {
	ord, err := CompareEVR(EVROf(candidate), EVROf(base))
	if err != nil {
		logrus.Debugf("Treating %s as not higher than %s: %v", candidate, base, err)
		return false
	}
	return ord == Greater
}

func toOrdering(c int) Ordering {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

// validateVersion accepts printable ASCII without whitespace that holds at
// least one alphanumeric character.
func validateVersion(s string) error {
	if s == "" {
		return fmt.Errorf("empty version string")
	}
	alnum := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f {
			return fmt.Errorf("invalid byte 0x%02x at offset %d", c, i)
		}
		if ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			alnum = true
		}
	}
	if !alnum {
		return fmt.Errorf("no alphanumeric segment")
	}
	return nil
}
