package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralt/pkgcompare/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryLead = append([]byte{0xED, 0xAB, 0xEE, 0xDB, 3, 0, 0, 0}, make([]byte, 88)...)

// fakeParse reads name-version-release.arch from the file name
func fakeParse(path string) (models.Package, error) {
	base := strings.TrimSuffix(filepath.Base(path), ".rpm")
	if strings.HasPrefix(base, "broken") {
		return models.Package{}, fmt.Errorf("bad header")
	}
	dot := strings.LastIndex(base, ".")
	parts := strings.Split(base[:dot], "-")
	return models.Package{
		Name:         strings.Join(parts[:len(parts)-2], "-"),
		Version:      parts[len(parts)-2],
		Release:      parts[len(parts)-1],
		Architecture: base[dot+1:],
	}, nil
}

func TestRPMDir_Fetch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"bash-5.2-alt1.x86_64.rpm",
		"lib-foo-1.0-alt2.i586.rpm",
		"broken-1-1.x86_64.rpm",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), binaryLead, 0644))
	}

	src := NewRPMDir(dir)
	src.parse = fakeParse

	all, err := src.Fetch(context.Background(), "local", "")
	require.NoError(t, err)
	assert.Equal(t, "local", all.Branch)
	assert.Equal(t, 2, all.Count())
	assert.Equal(t, dir, all.RequestArgs["dir"])

	x86, err := src.Fetch(context.Background(), "local", "x86_64")
	require.NoError(t, err)
	require.Equal(t, 1, x86.Count())
	assert.Equal(t, "bash", x86.Packages[0].Name)
	assert.Equal(t, "alt1", x86.Packages[0].Release)
}

func TestRPMDir_RealParserSkipsGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake-1-1.x86_64.rpm"), binaryLead, 0644))

	pkgs, err := NewRPMDir(dir).Fetch(context.Background(), "local", "")
	require.NoError(t, err)
	assert.Zero(t, pkgs.Count())
}

func TestRPMDir_Missing(t *testing.T) {
	_, err := NewRPMDir(filepath.Join(t.TempDir(), "nope")).Fetch(context.Background(), "p10", "")
	require.Error(t, err)
	assert.True(t, models.IsErrorType(err, models.ErrFetch))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = NewRPMDir(file).Fetch(context.Background(), "p10", "")
	assert.Error(t, err)
}

func TestSourceName(t *testing.T) {
	var cases = map[string]string{
		"bash-5.2.26-alt1.src.rpm":            "bash",
		"python3-module-foo-1.0-alt1.src.rpm": "python3-module-foo",
		"":                                    "",
		"weird":                               "weird",
	}
	for in, want := range cases {
		assert.Equal(t, want, SourceName(in), in)
	}
}
