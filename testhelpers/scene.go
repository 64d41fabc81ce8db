// Package testhelpers provides scratch git repositories for tests.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"shunt.dev/shunt/internal/config"
	"shunt.dev/shunt/internal/git"
)

// Scene is a test fixture holding a temporary directory with a git
// repository initialized for stacking. The process working directory is
// switched into the repository for the duration of the test.
type Scene struct {
	Dir    string
	Repo   *GitRepo
	oldDir string
}

// SceneSetup prepares a scene before the test body runs
type SceneSetup func(*Scene) error

// NewScene creates a scratch repository scene. Cleanup is registered with
// t.Cleanup; pass a setup function to seed commits and branches.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "shunt-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	// Resolve symlinked temp roots so paths compare equal to git's output
	if resolved, err := filepath.EvalSymlinks(tmpDir); err == nil {
		tmpDir = resolved
	}

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create git repo: %v", err)
	}

	scene := &Scene{
		Dir:    tmpDir,
		Repo:   repo,
		oldDir: oldDir,
	}

	if err := os.Chdir(tmpDir); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to change directory: %v", err)
	}
	git.SetWorkingDir(tmpDir)
	git.ResetDefaultRepo()
	if err := git.InitDefaultRepo(); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open git repo: %v", err)
	}

	t.Setenv("SHUNT_TEST_NO_INTERACTIVE", "1")

	if err := config.SetTrunk(tmpDir, "main"); err != nil {
		t.Fatalf("Failed to write repo config: %v", err)
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Scene setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
		git.SetWorkingDir("")
		git.ResetDefaultRepo()
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
		}
	})

	return scene
}

// BasicSceneSetup seeds the scene with a single commit on main
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}
