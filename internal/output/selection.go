package output

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ralt/pkgcompare/internal/compare"
)

const (
	// SelectAll writes every bucket of the report
	SelectAll = "all_packages"

	allArches = "all"
)

// Selectors returns the valid output selectors for report
func Selectors(report *compare.Report) []string {
	return append(slices.Clone(report.Names), SelectAll)
}

// Payload builds the document written for selector:
// {selector: {arch: data}} where data is the whole report or one bucket.
func Payload(report *compare.Report, selector, arch string) (map[string]any, error) {
	if arch == "" {
		arch = allArches
	}

	var data any
	if selector == SelectAll {
		data = report
	} else {
		bucket, ok := report.Bucket(selector)
		if !ok {
			return nil, fmt.Errorf("unknown output %q (want one of %s)", selector, strings.Join(Selectors(report), ", "))
		}
		data = bucket
	}

	return map[string]any{
		selector: map[string]any{arch: data},
	}, nil
}
