// Package source loads the package sets of branches, either from the
// package database API or from local directories of RPM files.
package source

import (
	"context"

	"github.com/ralt/pkgcompare/internal/models"
)

// Source loads the binary package set of one branch. An empty arch loads
// every architecture. Failures are returned as errors and never as an
// empty set.
type Source interface {
	Fetch(ctx context.Context, branch, arch string) (*models.BranchPackages, error)
}
