package compare

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ralt/pkgcompare/internal/models"
)

// KeyPolicy selects which fields identify "the same" package in two branches.
type KeyPolicy int

const (
	// KeyByArchName matches packages on (architecture, name)
	KeyByArchName KeyPolicy = iota
	// KeyByName matches packages on name alone
	KeyByName
)

// String returns the configuration spelling of the policy
func (k KeyPolicy) String() string {
	switch k {
	case KeyByArchName:
		return "arch-name"
	case KeyByName:
		return "name"
	default:
		return "unknown"
	}
}

// ParseKeyPolicy parses "arch-name" or "name". Empty selects arch-name.
func ParseKeyPolicy(s string) (KeyPolicy, error) {
	switch s {
	case "", "arch-name":
		return KeyByArchName, nil
	case "name":
		return KeyByName, nil
	default:
		return 0, fmt.Errorf("unknown key policy %q (want arch-name or name)", s)
	}
}

// Key is the identity of a package under a KeyPolicy. Arch is empty under KeyByName.
type Key struct {
	Arch string
	Name string
}

func (k Key) String() string {
	if k.Arch == "" {
		return k.Name
	}
	return k.Arch + "/" + k.Name
}

// Key extracts the identity of pkg
func (k KeyPolicy) Key(pkg *models.Package) Key {
	if k == KeyByName {
		return Key{Name: pkg.Name}
	}
	return Key{Arch: pkg.Architecture, Name: pkg.Name}
}

// Index maps identity keys to the package holding that key.
type Index map[Key]*models.Package

// NewIndex groups pkgs by policy. On duplicate keys the last record wins.
func NewIndex(pkgs []models.Package, policy KeyPolicy) Index {
	idx := make(Index, len(pkgs))
	for i := range pkgs {
		idx[policy.Key(&pkgs[i])] = &pkgs[i]
	}
	return idx
}

// unionKeys returns the keys of both indices, each once, ordered by arch then name.
func unionKeys(a, b Index) []Key {
	keys := make([]Key, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.Arch, b.Arch); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
