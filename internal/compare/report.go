package compare

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ralt/pkgcompare/internal/models"
)

// Shape selects how report buckets are laid out.
type Shape string

const (
	// ShapeGrouped splits every bucket by architecture with counts
	ShapeGrouped Shape = "grouped"
	// ShapeFlat lists every bucket as a plain sequence of packages
	ShapeFlat Shape = "flat"
)

// unknownArch labels packages that carry no architecture in grouped reports
const unknownArch = "unknown"

// ParseShape parses "grouped" or "flat". Empty selects grouped.
func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case "", ShapeGrouped:
		return ShapeGrouped, nil
	case ShapeFlat:
		return ShapeFlat, nil
	default:
		return "", fmt.Errorf("unknown report shape %q (want grouped or flat)", s)
	}
}

// Bucket is one category of a report
type Bucket interface {
	Total() int
}

// FlatBucket is a plain list of projected packages
type FlatBucket []models.Fields

// Total returns the number of packages
func (b FlatBucket) Total() int { return len(b) }

// ArchGroup holds the packages of one architecture in a grouped bucket
type ArchGroup struct {
	Count    int             `json:"count"`
	Packages []models.Fields `json:"packages"`
}

// GroupedBucket maps architecture to its packages.
type GroupedBucket struct {
	Arches map[string]*ArchGroup
}

// Total returns the sum of the per-architecture counts
func (b GroupedBucket) Total() int {
	total := 0
	for _, g := range b.Arches {
		total += g.Count
	}
	return total
}

// ArchNames returns the architectures of the bucket in sorted order
func (b GroupedBucket) ArchNames() []string {
	names := make([]string, 0, len(b.Arches))
	for arch := range b.Arches {
		names = append(names, arch)
	}
	slices.Sort(names)
	return names
}

// MarshalJSON emits the aggregate count next to the architecture groups.
func (b GroupedBucket) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Arches)+1)
	for arch, g := range b.Arches {
		out[arch] = g
	}
	out["count"] = b.Total()
	return json.Marshal(out)
}

// Report is a shaped and projected comparison result.
type Report struct {
	Shape   Shape
	Names   []string
	Buckets map[string]Bucket
}

// Bucket returns the bucket called name
func (r *Report) Bucket(name string) (Bucket, bool) {
	b, ok := r.Buckets[name]
	return b, ok
}

// MarshalJSON emits the buckets keyed by name
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Buckets)
}

// Report shapes the result. Grouped reports project with ProjectGrouped and
// list both sides of a match; flat reports project with ProjectFlat and list
// the candidate side of upgrades.
func (r *Result) Report(shape Shape) (*Report, error) {
	matches := map[string][]Match{
		r.OnlyInBaseName():        r.OnlyInBase,
		r.OnlyInCandidateName():   r.OnlyInCandidate,
		r.HigherInCandidateName(): r.HigherInCandidate,
	}

	report := &Report{
		Shape:   shape,
		Names:   r.BucketNames(),
		Buckets: make(map[string]Bucket, len(matches)),
	}

	for _, name := range report.Names {
		var (
			bucket Bucket
			err    error
		)
		switch shape {
		case ShapeGrouped:
			bucket, err = groupedBucket(matches[name])
		case ShapeFlat:
			bucket, err = flatBucket(matches[name])
		default:
			return nil, fmt.Errorf("unknown report shape %q", shape)
		}
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", name, err)
		}
		report.Buckets[name] = bucket
	}

	return report, nil
}

func groupedBucket(matches []Match) (GroupedBucket, error) {
	byArch := make(map[string][]models.Fields)
	for _, m := range matches {
		for _, side := range []*models.Package{m.Base, m.Candidate} {
			if side == nil {
				continue
			}
			arch := side.Architecture
			if arch == "" {
				arch = unknownArch
			}
			rec := side.Fields()
			rec[models.FieldArch] = arch
			byArch[arch] = append(byArch[arch], rec)
		}
	}

	bucket := GroupedBucket{Arches: make(map[string]*ArchGroup, len(byArch))}
	for arch, records := range byArch {
		projected, err := ProjectGrouped.Apply(records)
		if err != nil {
			return bucket, err
		}
		bucket.Arches[arch] = &ArchGroup{Count: len(projected), Packages: projected}
	}
	return bucket, nil
}

func flatBucket(matches []Match) (FlatBucket, error) {
	records := make([]models.Fields, 0, len(matches))
	for _, m := range matches {
		side := m.Candidate
		if side == nil {
			side = m.Base
		}
		records = append(records, side.Fields())
	}

	projected, err := ProjectFlat.Apply(records)
	if err != nil {
		return nil, err
	}
	return FlatBucket(projected), nil
}
