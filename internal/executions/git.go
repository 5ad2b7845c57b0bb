package executions

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

func openRepo(repoPath string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	return repo, nil
}

// HeadCommit resolves HEAD of the repository at repoPath to a commit hash.
func HeadCommit(repoPath string) (string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD in %s: %w", repoPath, err)
	}
	return ref.Hash().String(), nil
}

// RepoName derives a display name from the origin remote, falling back to the
// directory name when there is no usable remote.
func RepoName(repoPath string) (string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return "", err
	}

	if remote, err := repo.Remote("origin"); err == nil {
		urls := remote.Config().URLs
		if len(urls) > 0 {
			if name := nameFromURL(urls[0]); name != "" {
				return name, nil
			}
		}
	}

	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return "", fmt.Errorf("resolve repo path: %w", err)
	}
	return filepath.Base(abs), nil
}

func nameFromURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	u = strings.TrimSuffix(u, ".git")
	if i := strings.LastIndexAny(u, "/:"); i >= 0 {
		u = u[i+1:]
	}
	if u == "." || u == ".." {
		return ""
	}
	return u
}

// IsMerged reports whether the tip of branch is reachable from base.
func IsMerged(repoPath, branch, base string) (bool, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return false, err
	}

	branchRef, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return false, fmt.Errorf("resolve branch %s: %w", branch, err)
	}
	baseRef, err := repo.Reference(plumbing.NewBranchReferenceName(base), true)
	if err != nil {
		return false, fmt.Errorf("resolve base branch %s: %w", base, err)
	}
	if branchRef.Hash() == baseRef.Hash() {
		return true, nil
	}

	branchCommit, err := repo.CommitObject(branchRef.Hash())
	if err != nil {
		return false, fmt.Errorf("load commit %s: %w", branchRef.Hash(), err)
	}
	baseCommit, err := repo.CommitObject(baseRef.Hash())
	if err != nil {
		return false, fmt.Errorf("load commit %s: %w", baseRef.Hash(), err)
	}
	return branchCommit.IsAncestor(baseCommit)
}
