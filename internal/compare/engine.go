package compare

import (
	"github.com/ralt/pkgcompare/internal/models"
	"github.com/sirupsen/logrus"
)

// Match is one identity key together with the record found on each side.
// A side without the key is nil.
type Match struct {
	Key       Key
	Base      *models.Package
	Candidate *models.Package
}

// Result holds the three comparison buckets of a run.
type Result struct {
	Base      string
	Candidate string
	Policy    KeyPolicy

	OnlyInBase        []Match
	OnlyInCandidate   []Match
	HigherInCandidate []Match
}

// Engine compares two branch package sets under a fixed key policy.
type Engine struct {
	policy KeyPolicy
}

// NewEngine creates an engine using policy for every comparison
func NewEngine(policy KeyPolicy) *Engine {
	return &Engine{policy: policy}
}

// inclusion decides whether a key belongs to a bucket
type inclusion func(base, candidate *models.Package) bool

func onlyInBase(base, candidate *models.Package) bool {
	return base != nil && candidate == nil
}

func onlyInCandidate(base, candidate *models.Package) bool {
	return candidate != nil && base == nil
}

func higherInCandidate(base, candidate *models.Package) bool {
	return base != nil && candidate != nil && IsHigher(candidate, base)
}

// Compare classifies every key of either branch. Each bucket applies its own
// predicate, so exclusivity between buckets follows from the predicates.
func (e *Engine) Compare(base, candidate *models.BranchPackages) *Result {
	baseIdx := NewIndex(base.Packages, e.policy)
	candIdx := NewIndex(candidate.Packages, e.policy)

	result := &Result{
		Base:      base.Branch,
		Candidate: candidate.Branch,
		Policy:    e.policy,
	}

	buckets := []struct {
		include inclusion
		into    *[]Match
	}{
		{onlyInBase, &result.OnlyInBase},
		{onlyInCandidate, &result.OnlyInCandidate},
		{higherInCandidate, &result.HigherInCandidate},
	}

	for _, key := range unionKeys(baseIdx, candIdx) {
		b, c := baseIdx[key], candIdx[key]
		for _, bucket := range buckets {
			if bucket.include(b, c) {
				*bucket.into = append(*bucket.into, Match{Key: key, Base: b, Candidate: c})
			}
		}
	}

	logrus.Debugf("Compared %d %s keys with %d %s keys: %d only in %s, %d only in %s, %d higher in %s",
		len(baseIdx), base.Branch, len(candIdx), candidate.Branch,
		len(result.OnlyInBase), base.Branch,
		len(result.OnlyInCandidate), candidate.Branch,
		len(result.HigherInCandidate), candidate.Branch)

	return result
}

// Bucket names as they appear in reports
func (r *Result) OnlyInBaseName() string        { return "only_in_" + r.Base }
func (r *Result) OnlyInCandidateName() string   { return "only_in_" + r.Candidate }
func (r *Result) HigherInCandidateName() string { return "higher_in_" + r.Candidate }

// BucketNames returns the three bucket names in report order
func (r *Result) BucketNames() []string {
	return []string{r.OnlyInBaseName(), r.OnlyInCandidateName(), r.HigherInCandidateName()}
}
