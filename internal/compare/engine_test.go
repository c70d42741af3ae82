package compare

import (
	"encoding/json"
	"testing"

	"github.com/ralt/pkgcompare/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func branch(name string, pkgs ...models.Package) *models.BranchPackages {
	return &models.BranchPackages{Branch: name, Length: len(pkgs), Packages: pkgs}
}

func keysOf(matches []Match) []Key {
	keys := make([]Key, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, m.Key)
	}
	return keys
}

func TestEngine_Compare(t *testing.T) {
	p10 := branch("p10",
		pkg("pkg1", "1.0", "1", "x86_64"),
		pkg("pkg3", "3.0", "1", "x86_64"),
		pkg("pkg4", "2.0", "1", "x86_64"),
	)
	sisyphus := branch("sisyphus",
		pkg("pkg1", "1.0", "1", "x86_64"),
		pkg("pkg2", "2.0", "1", "x86_64"),
		pkg("pkg4", "2.0", "2", "x86_64"),
	)

	result := NewEngine(KeyByArchName).Compare(p10, sisyphus)

	assert.Equal(t, []Key{{Arch: "x86_64", Name: "pkg3"}}, keysOf(result.OnlyInBase))
	assert.Equal(t, []Key{{Arch: "x86_64", Name: "pkg2"}}, keysOf(result.OnlyInCandidate))
	require.Len(t, result.HigherInCandidate, 1)
	assert.Equal(t, "pkg4", result.HigherInCandidate[0].Key.Name)
	assert.Equal(t, "2", result.HigherInCandidate[0].Candidate.Release)
	assert.Equal(t, "1", result.HigherInCandidate[0].Base.Release)

	assert.Equal(t, []string{"only_in_p10", "only_in_sisyphus", "higher_in_sisyphus"}, result.BucketNames())
}

func TestEngine_Compare_Empty(t *testing.T) {
	result := NewEngine(KeyByName).Compare(branch("p10"), branch("sisyphus"))
	assert.Empty(t, result.OnlyInBase)
	assert.Empty(t, result.OnlyInCandidate)
	assert.Empty(t, result.HigherInCandidate)

	report, err := result.Report(ShapeFlat)
	require.NoError(t, err)
	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"only_in_p10":[],"only_in_sisyphus":[],"higher_in_sisyphus":[]}`, string(out))
}

func samplePair() (*models.BranchPackages, *models.BranchPackages) {
	a := branch("a",
		pkg("glibc", "2.38", "alt1", "x86_64"),
		pkg("glibc", "2.38", "alt1", "i586"),
		pkg("vim", "9.0", "alt2", "x86_64"),
		pkg("nano", "7.2", "alt1", "x86_64"),
		pkg("broken", "", "alt1", "x86_64"),
	)
	b := branch("b",
		pkg("glibc", "2.39", "alt1", "x86_64"),
		pkg("vim", "9.0", "alt1", "x86_64"),
		pkg("emacs", "29.1", "alt1", "x86_64"),
		pkg("broken", "1.0", "alt1", "x86_64"),
		pkg("nano", "7.2", "alt1", "x86_64"),
	)
	return a, b
}

func TestEngine_Partition(t *testing.T) {
	for _, policy := range []KeyPolicy{KeyByArchName, KeyByName} {
		t.Run(policy.String(), func(t *testing.T) {
			a, b := samplePair()
			result := NewEngine(policy).Compare(a, b)

			idxA, idxB := NewIndex(a.Packages, policy), NewIndex(b.Packages, policy)
			seen := map[Key]int{}
			for _, k := range keysOf(result.OnlyInBase) {
				seen[k]++
			}
			for _, k := range keysOf(result.OnlyInCandidate) {
				seen[k]++
			}
			for k := range idxA {
				if _, ok := idxB[k]; ok {
					seen[k]++
				}
			}

			union := unionKeys(idxA, idxB)
			assert.Len(t, seen, len(union))
			for _, k := range union {
				assert.Equal(t, 1, seen[k], "key %s", k)
			}

			// upgrades are always a subset of the common keys
			for _, m := range result.HigherInCandidate {
				assert.NotNil(t, m.Base)
				assert.NotNil(t, m.Candidate)
			}
		})
	}
}

func TestEngine_Symmetry(t *testing.T) {
	a, b := samplePair()
	engine := NewEngine(KeyByArchName)

	ab := engine.Compare(a, b)
	ba := engine.Compare(b, a)

	assert.Equal(t, keysOf(ab.OnlyInBase), keysOf(ba.OnlyInCandidate))
	assert.Equal(t, keysOf(ab.OnlyInCandidate), keysOf(ba.OnlyInBase))
}

func TestEngine_IdenticalBranches(t *testing.T) {
	a, _ := samplePair()
	b := &models.BranchPackages{Branch: "b", Packages: append([]models.Package(nil), a.Packages...)}

	result := NewEngine(KeyByArchName).Compare(a, b)
	assert.Empty(t, result.HigherInCandidate)
	assert.Empty(t, result.OnlyInBase)
	assert.Empty(t, result.OnlyInCandidate)
}

func TestEngine_MalformedVersionIsNotHigher(t *testing.T) {
	a, b := samplePair()
	result := NewEngine(KeyByArchName).Compare(a, b)

	var names []string
	for _, m := range result.HigherInCandidate {
		names = append(names, m.Key.Name)
	}
	assert.Equal(t, []string{"glibc"}, names)
}

func TestEngine_Idempotent(t *testing.T) {
	a, b := samplePair()
	engine := NewEngine(KeyByArchName)

	for _, shape := range []Shape{ShapeGrouped, ShapeFlat} {
		t.Run(string(shape), func(t *testing.T) {
			first, err := engine.Compare(a, b).Report(shape)
			require.NoError(t, err)
			second, err := engine.Compare(a, b).Report(shape)
			require.NoError(t, err)

			out1, err := json.Marshal(first)
			require.NoError(t, err)
			out2, err := json.Marshal(second)
			require.NoError(t, err)
			assert.Equal(t, out1, out2)
		})
	}
}

func TestEngine_NamePolicyAcrossArches(t *testing.T) {
	base := branch("p10", pkg("foo", "1.0", "alt1", "i586"))
	candidate := branch("sisyphus", pkg("foo", "1.1", "alt1", "x86_64"))

	result := NewEngine(KeyByName).Compare(base, candidate)
	require.Len(t, result.HigherInCandidate, 1)

	report, err := result.Report(ShapeGrouped)
	require.NoError(t, err)

	bucket, ok := report.Bucket("higher_in_sisyphus")
	require.True(t, ok)
	grouped := bucket.(GroupedBucket)
	assert.Equal(t, []string{"i586", "x86_64"}, grouped.ArchNames())
	assert.Equal(t, 2, grouped.Total())

	// under arch-name the same input is two disjoint packages
	result = NewEngine(KeyByArchName).Compare(base, candidate)
	assert.Empty(t, result.HigherInCandidate)
	assert.Len(t, result.OnlyInBase, 1)
	assert.Len(t, result.OnlyInCandidate, 1)
}
