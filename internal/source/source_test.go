package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	git "gopkg.in/src-d/go-git.v4"
	"gopkg.in/src-d/go-git.v4/plumbing/object"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir)
	assert.Error(t, err)

	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	path := filepath.Join(dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte("[package]\n"), 0644))
	w, err := r.Worktree()
	require.NoError(t, err)
	_, err = w.Add("Cargo.toml")
	require.NoError(t, err)
	hash, err := w.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "bench", Email: "bench@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	rev, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, hash.String(), rev.Hash)
	assert.False(t, rev.Dirty)
	assert.Equal(t, hash.String(), rev.String())

	require.NoError(t, os.WriteFile(path, []byte("[package]\nname = \"merc\"\n"), 0644))
	rev, err = Open(dir)
	require.NoError(t, err)
	assert.True(t, rev.Dirty)
	assert.Equal(t, hash.String()+"-dirty", rev.String())
}
