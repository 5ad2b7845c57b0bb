package executions

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadCommit(t *testing.T) {
	t.Parallel()

	_, dir, first := initRepo(t)

	head, err := HeadCommit(dir)
	require.NoError(t, err)
	assert.Equal(t, first.String(), head)

	_, err = HeadCommit(filepath.Join(t.TempDir(), "not-a-repo"))
	assert.Error(t, err)
}

func TestRepoNameFromOrigin(t *testing.T) {
	t.Parallel()

	repo, dir, _ := initRepo(t)
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	require.NoError(t, err)

	name, err := RepoName(dir)
	require.NoError(t, err)
	assert.Equal(t, "widgets", name)
}

func TestRepoNameFallsBackToDirectory(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	dir := filepath.Join(parent, "gadgets")
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	name, err := RepoName(dir)
	require.NoError(t, err)
	assert.Equal(t, "gadgets", name)
}

func TestNameFromURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://github.com/acme/widgets":      "widgets",
		"https://github.com/acme/widgets.git/": "widgets",
		"git@github.com:acme/widgets.git":      "widgets",
		"file:///srv/git/tools.git":            "tools",
		".":                                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, nameFromURL(in), in)
	}
}

func TestIsMerged(t *testing.T) {
	t.Parallel()

	repo, dir, _ := initRepo(t)
	checkoutNew(t, repo, "feature")
	tip := commitFile(t, repo, dir, "feature.txt", "work\n")

	merged, err := IsMerged(dir, "feature", "main")
	require.NoError(t, err)
	assert.False(t, merged, "feature ahead of main must not count as merged")

	setBranch(t, repo, "main", tip)
	merged, err = IsMerged(dir, "feature", "main")
	require.NoError(t, err)
	assert.True(t, merged)

	_, err = IsMerged(dir, "missing", "main")
	assert.Error(t, err)
}
