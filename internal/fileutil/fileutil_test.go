package fileutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cameronsjo/patchlib/internal/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput(t *testing.T) {
	t.Parallel()

	t.Run("reads a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "base.yaml")
		require.NoError(t, os.WriteFile(path, []byte("kind: A\n"), 0644))

		got, err := fileutil.ReadInput(path, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, "kind: A\n", string(got))
	})

	t.Run("dash reads stdin", func(t *testing.T) {
		t.Parallel()

		got, err := fileutil.ReadInput("-", strings.NewReader("kind: B\n"), 0)
		require.NoError(t, err)
		assert.Equal(t, "kind: B\n", string(got))
	})

	t.Run("missing file keeps not-exist", func(t *testing.T) {
		t.Parallel()

		_, err := fileutil.ReadInput(filepath.Join(t.TempDir(), "nope.yaml"), nil, 0)
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("enforces the limit", func(t *testing.T) {
		t.Parallel()

		_, err := fileutil.ReadInput("-", strings.NewReader("0123456789"), 4)
		require.Error(t, err)
		assert.ErrorIs(t, err, fileutil.ErrTooLarge)

		got, err := fileutil.ReadInput("-", strings.NewReader("0123"), 4)
		require.NoError(t, err)
		assert.Equal(t, "0123", string(got))
	})
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("writes content", func(t *testing.T) {
		t.Parallel()

		dst := filepath.Join(t.TempDir(), "out.yaml")
		require.NoError(t, fileutil.WriteFile(dst, []byte("---\na: 1\n"), 0644))

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "---\na: 1\n", string(got))
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		dst := filepath.Join(t.TempDir(), "nested", "deep", "out.yaml")
		require.NoError(t, fileutil.WriteFile(dst, []byte("x"), 0644))

		_, err := os.Stat(dst)
		require.NoError(t, err)
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		dst := filepath.Join(t.TempDir(), "out.yaml")
		require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))
		require.NoError(t, fileutil.WriteFile(dst, []byte("new"), 0600))

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))

		info, err := os.Stat(dst)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, fileutil.WriteFile(filepath.Join(dir, "out.yaml"), []byte("x"), 0644))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("refuses symlink destination", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := filepath.Join(dir, "target.yaml")
		link := filepath.Join(dir, "link.yaml")
		require.NoError(t, os.WriteFile(target, []byte("keep"), 0644))
		require.NoError(t, os.Symlink(target, link))

		err := fileutil.WriteFile(link, []byte("x"), 0644)
		require.Error(t, err)
		assert.ErrorIs(t, err, fileutil.ErrSymlinkNotSupported)

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "keep", string(got))
	})
}
