package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Field names used by the package database export.
const (
	FieldName      = "name"
	FieldEpoch     = "epoch"
	FieldVersion   = "version"
	FieldRelease   = "release"
	FieldArch      = "arch"
	FieldDisttag   = "disttag"
	FieldBuildTime = "buildtime"
	FieldSource    = "source"
)

// Fields is a raw package mapping as it appears on the wire.
type Fields map[string]any

// Package represents one binary package entry of a branch
type Package struct {
	Name         string
	Epoch        int64
	Version      string
	Release      string
	Architecture string
	Disttag      string
	BuildTime    int64
	Source       string

	// Keys the export carried that have no dedicated field
	Extra map[string]any

	// optional fields present in the raw mapping
	present fieldMask
}

type fieldMask uint8

const (
	hasEpoch fieldMask = 1 << iota
	hasArch
	hasDisttag
	hasBuildTime
	hasSource
)

var optionalFields = []struct {
	key  string
	mask fieldMask
}{
	{FieldEpoch, hasEpoch},
	{FieldArch, hasArch},
	{FieldDisttag, hasDisttag},
	{FieldBuildTime, hasBuildTime},
	{FieldSource, hasSource},
}

// PackageFromFields builds a Package from a raw mapping. Name, version and
// release are required; every known field must have the right type.
func PackageFromFields(f Fields) (Package, error) {
	var (
		pkg Package
		err error
	)
	if f == nil {
		return pkg, fmt.Errorf("package entry is empty")
	}

	if pkg.Name, err = requiredString(f, FieldName); err != nil {
		return pkg, err
	}
	if pkg.Name == "" {
		return pkg, fmt.Errorf("field %q must not be empty", FieldName)
	}
	if pkg.Version, err = requiredString(f, FieldVersion); err != nil {
		return pkg, err
	}
	if pkg.Release, err = requiredString(f, FieldRelease); err != nil {
		return pkg, err
	}
	if pkg.Architecture, err = optionalString(f, FieldArch); err != nil {
		return pkg, err
	}
	if pkg.Disttag, err = optionalString(f, FieldDisttag); err != nil {
		return pkg, err
	}
	if pkg.Source, err = optionalString(f, FieldSource); err != nil {
		return pkg, err
	}
	if pkg.Epoch, err = optionalInt(f, FieldEpoch); err != nil {
		return pkg, err
	}
	if pkg.BuildTime, err = optionalInt(f, FieldBuildTime); err != nil {
		return pkg, err
	}

	for _, o := range optionalFields {
		if v, ok := f[o.key]; ok && v != nil {
			pkg.present |= o.mask
		}
	}

	for k, v := range f {
		if isKnownField(k) {
			continue
		}
		if pkg.Extra == nil {
			pkg.Extra = make(map[string]any)
		}
		pkg.Extra[k] = v
	}

	return pkg, nil
}

// Fields returns the package as a raw mapping, extra keys included. An
// optional field is emitted when the source mapping carried it or when it
// holds a non-zero value.
func (p *Package) Fields() Fields {
	f := make(Fields, 8+len(p.Extra))
	for k, v := range p.Extra {
		f[k] = v
	}
	f[FieldName] = p.Name
	f[FieldVersion] = p.Version
	f[FieldRelease] = p.Release
	if p.has(hasEpoch) || p.Epoch != 0 {
		f[FieldEpoch] = p.Epoch
	}
	if p.has(hasArch) || p.Architecture != "" {
		f[FieldArch] = p.Architecture
	}
	if p.has(hasDisttag) || p.Disttag != "" {
		f[FieldDisttag] = p.Disttag
	}
	if p.has(hasBuildTime) || p.BuildTime != 0 {
		f[FieldBuildTime] = p.BuildTime
	}
	if p.has(hasSource) || p.Source != "" {
		f[FieldSource] = p.Source
	}
	return f
}

func (p *Package) has(m fieldMask) bool {
	return p.present&m != 0
}

// String returns name-version-release.arch
func (p *Package) String() string {
	if p.Architecture == "" {
		return fmt.Sprintf("%s-%s-%s", p.Name, p.Version, p.Release)
	}
	return fmt.Sprintf("%s-%s-%s.%s", p.Name, p.Version, p.Release, p.Architecture)
}

func isKnownField(k string) bool {
	switch k {
	case FieldName, FieldEpoch, FieldVersion, FieldRelease, FieldArch, FieldDisttag, FieldBuildTime, FieldSource:
		return true
	}
	return false
}

func requiredString(f Fields, key string) (string, error) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return s, nil
}

func optionalString(f Fields, key string) (string, error) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return s, nil
}

func optionalInt(f Fields, key string) (int64, error) {
	v, ok := f[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("field %q: %v is not an integer", key, n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %q is not an integer", key, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("field %q: expected integer, got %T", key, v)
	}
}
