package models

import "fmt"

// RawBranch is the export document of one branch as decoded from the wire.
type RawBranch struct {
	RequestArgs map[string]any `json:"request_args"`
	Length      int            `json:"length"`
	Packages    []Fields       `json:"packages"`
}

// BranchPackages is the validated package set of one branch.
// It is built once per fetch and not modified afterwards.
type BranchPackages struct {
	Branch      string
	RequestArgs map[string]any
	Length      int
	Packages    []Package
}

// NewBranchPackages validates every entry of raw and returns the branch set.
// The first invalid entry fails the whole branch.
func NewBranchPackages(branch string, raw RawBranch) (*BranchPackages, error) {
	pkgs := make([]Package, 0, len(raw.Packages))
	for i, f := range raw.Packages {
		pkg, err := PackageFromFields(f)
		if err != nil {
			subject := fmt.Sprintf("%s package #%d", branch, i)
			if name, ok := f[FieldName].(string); ok && name != "" {
				subject = fmt.Sprintf("%s package %s", branch, name)
			}
			return nil, NewError(ErrValidation, subject, err)
		}
		pkgs = append(pkgs, pkg)
	}

	return &BranchPackages{
		Branch:      branch,
		RequestArgs: raw.RequestArgs,
		Length:      raw.Length,
		Packages:    pkgs,
	}, nil
}

// Count returns the number of validated packages
func (b *BranchPackages) Count() int {
	if b == nil {
		return 0
	}
	return len(b.Packages)
}
