package gtmplfs_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gotmpl/pkg/gtmplfs"
)

func writeFile(t *testing.T, fsys afero.Fs, path, contents string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(contents), 0o644))
}

func TestLoadMatchesDoublestarPattern(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/root/a.tmpl", "hello {{ .name }}")
	writeFile(t, fsys, "/root/sub/b.tmpl", "bye {{ .name }}")
	writeFile(t, fsys, "/root/notes.txt", "ignored")

	set, err := gtmplfs.Load(fsys, "/root", "**/*.tmpl")
	require.NoError(t, err)

	assert.Equal(t, 2, set.Len())
	assert.ElementsMatch(t, []string{"a.tmpl", "sub/b.tmpl"}, set.Names())

	src, ok := set.Source("a.tmpl")
	require.True(t, ok)
	assert.Equal(t, "hello {{ .name }}", src)
}

func TestLoadReturnsEmptySetWhenNoMatches(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/root/notes.txt", "ignored")

	set, err := gtmplfs.Load(fsys, "/root", "**/*.tmpl")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestLoadFileReadsRelativeToFsRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/root/a.tmpl", "hi")

	src, err := gtmplfs.LoadFile(fsys, "/root/a.tmpl")
	require.NoError(t, err)
	assert.Equal(t, "hi", src)
}

func TestLoadFileErrorsOnMissingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_, err := gtmplfs.LoadFile(fsys, "/root/missing.tmpl")
	require.Error(t, err)
}
