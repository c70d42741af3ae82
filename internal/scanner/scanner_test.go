package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lead returns the first bytes of an RPM lead of the given type
func lead(pkgType byte) []byte {
	return append([]byte{0xED, 0xAB, 0xEE, 0xDB, 3, 0, 0, pkgType}, make([]byte, 88)...)
}

func TestDetectPackageType(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"bash-5.2-alt1.x86_64.rpm": lead(0),
		"bash-5.2-alt1.src.rpm":    lead(1),
		"notes.txt":                []byte("hello"),
		"short.rpm":                {0xED, 0xAB, 0xEE, 0xDB},
		"empty.rpm":                {},
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}

	var cases = []struct {
		file string
		want PackageType
	}{
		{"bash-5.2-alt1.x86_64.rpm", TypeRpm},
		{"bash-5.2-alt1.src.rpm", TypeSourceRpm},
		{"notes.txt", TypeUnknown},
		{"short.rpm", TypeRpm},
	}
	for _, tt := range cases {
		t.Run(tt.file, func(t *testing.T) {
			got, err := DetectPackageType(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectPackageType(filepath.Join(dir, "empty.rpm"))
	assert.Error(t, err)
}

func TestFileSystemScanner_Scan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "x86_64"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x86_64", "a.rpm"), lead(0), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.src.rpm"), lead(1), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0644))

	found, err := NewFileSystemScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(dir, "x86_64", "a.rpm"), found[0].Path)
	assert.Equal(t, TypeRpm, found[0].Type)
	assert.EqualValues(t, 96, found[0].Size)
}

func TestFileSystemScanner_Cancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rpm"), lead(0), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSystemScanner().Scan(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}
