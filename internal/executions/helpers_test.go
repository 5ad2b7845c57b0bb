package executions

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/mattjoyce/taskdesk/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db, 0), db
}

func seedTask(t *testing.T, db *sql.DB, taskID string) {
	t.Helper()

	now := storage.FormatTime(time.Now())
	if _, err := db.Exec(`INSERT OR IGNORE INTO projects(id, name, created_at, updated_at) VALUES('p1', 'proj', ?, ?);`, now, now); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO tasks(id, project_id, title, status, created_at, updated_at) VALUES(?, 'p1', 'task', 'inprogress', ?, ?);`, taskID, now, now); err != nil {
		t.Fatalf("seed task: %v", err)
	}
}

var testSig = &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Unix(1700000000, 0)}

// commitFile writes name with content and commits it on the current branch.
func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) plumbing.Hash {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	hash, err := wt.Commit("update "+name, &git.CommitOptions{Author: testSig})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

// initRepo creates a repository whose "main" branch holds one commit.
func initRepo(t *testing.T) (*git.Repository, string, plumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	first := commitFile(t, repo, dir, "README.md", "# repo\n")
	setBranch(t, repo, "main", first)
	return repo, dir, first
}

func setBranch(t *testing.T, repo *git.Repository, branch string, hash plumbing.Hash) {
	t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("set %s: %v", branch, err)
	}
}

func checkoutNew(t *testing.T, repo *git.Repository, branch string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch), Create: true}); err != nil {
		t.Fatalf("checkout %s: %v", branch, err)
	}
}
