package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shunt.dev/shunt/internal/engine"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/testhelpers"
)

func newEngine(t *testing.T, s *testhelpers.Scene) engine.Engine {
	t.Helper()
	eng, err := engine.NewEngine(s.Dir)
	require.NoError(t, err)
	return eng
}

func TestTrackBranch(t *testing.T) {
	t.Run("tracks branch with parent", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))
		require.NoError(t, s.Repo.CheckoutBranch("main"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("feature", "main"))

		require.Equal(t, "main", eng.GetParent("feature"))
		require.Contains(t, eng.GetChildren("main"), "feature")
		require.True(t, eng.IsBranchTracked("feature"))
	})

	t.Run("fails when branch does not exist", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		eng := newEngine(t, s)
		err := eng.TrackBranch("nonexistent", "main")
		require.ErrorIs(t, err, shunterrors.ErrBranchNotFound)
	})

	t.Run("tracking survives engine reload", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("feature", "main"))

		reloaded := newEngine(t, s)
		require.Equal(t, "main", reloaded.GetParent("feature"))
	})
}

func TestUntrackBranch(t *testing.T) {
	t.Run("reparents children onto the untracked branch's parent", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("middle"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("middle change", "middle"))
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("top"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("top change", "top"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("middle", "main"))
		require.NoError(t, eng.TrackBranch("top", "middle"))

		require.NoError(t, eng.UntrackBranch("middle"))

		require.False(t, eng.IsBranchTracked("middle"))
		require.Equal(t, "main", eng.GetParent("top"))
		require.Contains(t, eng.GetChildren("main"), "top")
	})

	t.Run("fails for untracked branches", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateBranch("loose"))

		eng := newEngine(t, s)
		err := eng.UntrackBranch("loose")
		require.ErrorIs(t, err, shunterrors.ErrPreconditionFailed)
	})
}

func TestDeleteBranch(t *testing.T) {
	t.Run("removes the branch and reparents children", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("middle"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("middle change", "middle"))
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("top"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("top change", "top"))
		require.NoError(t, s.Repo.CheckoutBranch("main"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("middle", "main"))
		require.NoError(t, eng.TrackBranch("top", "middle"))

		require.NoError(t, eng.DeleteBranch(context.Background(), "middle"))

		exists, err := git.BranchExists("middle")
		require.NoError(t, err)
		require.False(t, exists)
		require.Equal(t, "main", eng.GetParent("top"))
		require.NotContains(t, eng.AllBranchNames(), "middle")
	})

	t.Run("refuses trunk and the checked out branch", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))

		eng := newEngine(t, s)
		require.ErrorIs(t, eng.DeleteBranch(context.Background(), "main"), shunterrors.ErrTrunkOperation)
		require.ErrorIs(t, eng.DeleteBranch(context.Background(), "feature"), shunterrors.ErrPreconditionFailed)
	})
}

func TestGetRelativeStack(t *testing.T) {
	// main <- a1 <- a2, main <- b1
	setupStacks := func(t *testing.T) (*testhelpers.Scene, engine.Engine) {
		t.Helper()
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("a1"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("a1 change", "a1"))
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("a2"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("a2 change", "a2"))
		require.NoError(t, s.Repo.CheckoutBranch("main"))
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("b1"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("b1 change", "b1"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("a1", "main"))
		require.NoError(t, eng.TrackBranch("a2", "a1"))
		require.NoError(t, eng.TrackBranch("b1", "main"))
		return s, eng
	}

	t.Run("upstack exclusive", func(t *testing.T) {
		_, eng := setupStacks(t)
		require.Equal(t, []string{"a2"}, eng.GetRelativeStack("a1", engine.ScopeUpstackExclusive))
	})

	t.Run("upstack inclusive", func(t *testing.T) {
		_, eng := setupStacks(t)
		require.Equal(t, []string{"a1", "a2"}, eng.GetRelativeStack("a1", engine.ScopeUpstackInclusive))
	})

	t.Run("downstack excludes trunk", func(t *testing.T) {
		_, eng := setupStacks(t)
		require.Equal(t, []string{"a1", "a2"}, eng.GetRelativeStack("a2", engine.ScopeDownstack))
	})

	t.Run("full stack does not leak into sibling stacks", func(t *testing.T) {
		_, eng := setupStacks(t)
		full := eng.GetRelativeStack("a1", engine.ScopeFullStack)
		require.Equal(t, []string{"a1", "a2"}, full)
		require.NotContains(t, full, "b1")
	})
}

func TestUpsertPrInfo(t *testing.T) {
	t.Run("partial updates never erase stored fields", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("feature", "main"))

		require.NoError(t, eng.UpsertPrInfo("feature", &engine.PrInfo{
			Title: "My feature",
			Body:  "Does a thing",
		}))

		number := 42
		require.NoError(t, eng.UpsertPrInfo("feature", &engine.PrInfo{Number: &number}))

		prInfo, err := eng.GetPrInfo("feature")
		require.NoError(t, err)
		require.NotNil(t, prInfo)
		require.Equal(t, 42, *prInfo.Number)
		require.Equal(t, "My feature", prInfo.Title)
		require.Equal(t, "Does a thing", prInfo.Body)
	})

	t.Run("returns nil for branches without PR info", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateBranch("feature"))

		eng := newEngine(t, s)
		prInfo, err := eng.GetPrInfo("feature")
		require.NoError(t, err)
		require.Nil(t, prInfo)
	})
}

func TestRestackBranch(t *testing.T) {
	t.Run("rebases onto the parent's new revision", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))
		require.NoError(t, s.Repo.CheckoutBranch("main"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("feature", "main"))

		// Advance trunk with a non-conflicting commit
		require.NoError(t, s.Repo.CreateChangeAndCommit("trunk change", "trunk"))

		result, err := eng.RestackBranch(context.Background(), "feature")
		require.NoError(t, err)
		require.Equal(t, engine.RestackDone, result.Result)

		mainRev, err := s.Repo.GetRevision("main")
		require.NoError(t, err)
		isAnc, err := git.IsAncestor(mainRev, "feature")
		require.NoError(t, err)
		require.True(t, isAnc, "feature must contain the new trunk commit")

		// The checkout in place before the restack is restored
		current, err := s.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "main", current)
	})

	t.Run("is idempotent", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))
		require.NoError(t, s.Repo.CheckoutBranch("main"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("feature", "main"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("trunk change", "trunk"))

		first, err := eng.RestackBranch(context.Background(), "feature")
		require.NoError(t, err)
		require.Equal(t, engine.RestackDone, first.Result)

		revAfterFirst, err := s.Repo.GetRevision("feature")
		require.NoError(t, err)

		second, err := eng.RestackBranch(context.Background(), "feature")
		require.NoError(t, err)
		require.Equal(t, engine.RestackUnneeded, second.Result)

		revAfterSecond, err := s.Repo.GetRevision("feature")
		require.NoError(t, err)
		require.Equal(t, revAfterFirst, revAfterSecond)
	})

	t.Run("fails for untracked branches", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateBranch("loose"))

		eng := newEngine(t, s)
		_, err := eng.RestackBranch(context.Background(), "loose")
		require.ErrorIs(t, err, shunterrors.ErrPreconditionFailed)
	})

	t.Run("conflict leaves the worktree mid-rebase and continue finishes it", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature edit", ""))
		require.NoError(t, s.Repo.CheckoutBranch("main"))

		eng := newEngine(t, s)
		require.NoError(t, eng.TrackBranch("feature", "main"))

		// Conflicting edit to the same file on trunk
		require.NoError(t, s.Repo.CreateChangeAndCommit("trunk edit", ""))

		result, err := eng.RestackBranch(context.Background(), "feature")
		require.NoError(t, err)
		require.Equal(t, engine.RestackConflict, result.Result)
		require.True(t, s.Repo.RebaseInProgress())

		mainRev, err := s.Repo.GetRevision("main")
		require.NoError(t, err)
		require.Equal(t, mainRev, result.RebasedBranchBase)

		require.NoError(t, s.Repo.ResolveMergeConflicts())
		require.NoError(t, s.Repo.MarkMergeConflictsAsResolved())

		eng.SetCurrentBranchOverride("feature")
		contResult, err := eng.ContinueRebase(context.Background(), result.RebasedBranchBase)
		require.NoError(t, err)
		require.Equal(t, engine.RestackDone, contResult.Result)
		require.Equal(t, "feature", contResult.BranchName)
		require.False(t, s.Repo.RebaseInProgress())

		current, err := s.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "feature", current)

		isAnc, err := git.IsAncestor(mainRev, "feature")
		require.NoError(t, err)
		require.True(t, isAnc)
		require.True(t, eng.IsBranchFixed("feature"))
	})
}

func TestBranchMatchesRemote(t *testing.T) {
	t.Run("matches after push, diverges after new commit", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		_, err := s.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))
		require.NoError(t, s.Repo.PushBranch("origin", "feature"))

		eng := newEngine(t, s)
		require.NoError(t, eng.PopulateRemoteShas(context.Background()))

		matches, err := eng.BranchMatchesRemote("feature")
		require.NoError(t, err)
		require.True(t, matches)

		require.NoError(t, s.Repo.CreateChangeAndCommit("another change", "feature2"))
		matches, err = eng.BranchMatchesRemote("feature")
		require.NoError(t, err)
		require.False(t, matches)
	})

	t.Run("branches missing from the remote never match", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		_, err := s.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		eng := newEngine(t, s)
		require.NoError(t, eng.PopulateRemoteShas(context.Background()))

		matches, err := eng.BranchMatchesRemote("main")
		require.NoError(t, err)
		require.False(t, matches)
	})
}
