package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/config"
	"shunt.dev/shunt/internal/engine"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
	"shunt.dev/shunt/testhelpers"
)

func newTestContext(t *testing.T, s *testhelpers.Scene) *runtime.Context {
	t.Helper()
	eng, err := engine.NewEngine(s.Dir)
	require.NoError(t, err)
	return &runtime.Context{
		Engine:   eng,
		Splog:    tui.NewSplog(),
		RepoRoot: s.Dir,
	}
}

// buildChain creates and tracks a linear stack main <- b1 <- ... <- bN.
// Each branch adds its own file; conflictAt (if non-empty) additionally
// edits the shared file so a later trunk edit conflicts with it.
func buildChain(t *testing.T, s *testhelpers.Scene, branches []string, conflictAt string) {
	t.Helper()
	for _, name := range branches {
		require.NoError(t, s.Repo.CreateAndCheckoutBranch(name))
		require.NoError(t, s.Repo.CreateChangeAndCommit(name+" change", name))
		if name == conflictAt {
			require.NoError(t, s.Repo.CreateChangeAndCommit(name+" shared edit", ""))
		}
	}
	require.NoError(t, s.Repo.CheckoutBranch("main"))
}

func trackChain(t *testing.T, eng engine.Engine, branches []string) {
	t.Helper()
	parent := "main"
	for _, name := range branches {
		require.NoError(t, eng.TrackBranch(name, parent))
		parent = name
	}
}

func TestRestackBranches(t *testing.T) {
	t.Run("restacks a whole chain after a trunk commit", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		chain := []string{"b1", "b2", "b3"}
		buildChain(t, s, chain, "")

		rctx := newTestContext(t, s)
		trackChain(t, rctx.Engine, chain)

		require.NoError(t, s.Repo.CreateChangeAndCommit("trunk change", "trunk"))

		err := actions.RestackBranches(context.Background(), chain, rctx.Engine, rctx.Splog, s.Dir)
		require.NoError(t, err)

		mainRev, err := s.Repo.GetRevision("main")
		require.NoError(t, err)
		for _, name := range chain {
			rev, err := s.Repo.RunGitCommandAndGetOutput("merge-base", mainRev, name)
			require.NoError(t, err)
			require.Equal(t, mainRev, rev, "branch %s must sit on the new trunk tip", name)
		}
	})

	t.Run("conflict at branch 3 of 5 stops there and persists continuation", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		chain := []string{"b1", "b2", "b3", "b4", "b5"}
		buildChain(t, s, chain, "b3")

		rctx := newTestContext(t, s)
		trackChain(t, rctx.Engine, chain)

		revBefore := make(map[string]string)
		for _, name := range chain {
			rev, err := s.Repo.GetRevision(name)
			require.NoError(t, err)
			revBefore[name] = rev
		}

		// Conflicts with b3's edit of the shared file
		require.NoError(t, s.Repo.CreateChangeAndCommit("trunk shared edit", ""))

		err := actions.RestackBranches(context.Background(), chain, rctx.Engine, rctx.Splog, s.Dir)
		require.ErrorIs(t, err, shunterrors.ErrRebaseConflict)
		require.True(t, s.Repo.RebaseInProgress())

		mainRev, err := s.Repo.GetRevision("main")
		require.NoError(t, err)

		// b1 and b2 are already rebased
		for _, name := range []string{"b1", "b2"} {
			base, err := s.Repo.RunGitCommandAndGetOutput("merge-base", mainRev, name)
			require.NoError(t, err)
			require.Equal(t, mainRev, base, "branch %s must already be rebased", name)
		}

		// b4 and b5 are untouched
		for _, name := range []string{"b4", "b5"} {
			rev, err := s.Repo.GetRevision(name)
			require.NoError(t, err)
			require.Equal(t, revBefore[name], rev, "branch %s must be untouched", name)
		}

		continuation, err := config.GetContinuationState(s.Dir)
		require.NoError(t, err)
		require.Equal(t, []string{"b4", "b5"}, continuation.BranchesToRestack)
		require.Equal(t, "b3", continuation.CurrentBranchOverride)

		// The base recorded for b3 is its parent b2's rebased tip
		b2Rev, err := s.Repo.GetRevision("b2")
		require.NoError(t, err)
		require.Equal(t, b2Rev, continuation.RebasedBranchBase)
	})

	t.Run("continue resumes the remaining branches", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		chain := []string{"b1", "b2", "b3"}
		buildChain(t, s, chain, "b2")

		rctx := newTestContext(t, s)
		trackChain(t, rctx.Engine, chain)

		require.NoError(t, s.Repo.CreateChangeAndCommit("trunk shared edit", ""))

		err := actions.RestackBranches(context.Background(), chain, rctx.Engine, rctx.Splog, s.Dir)
		require.ErrorIs(t, err, shunterrors.ErrRebaseConflict)

		require.NoError(t, s.Repo.ResolveMergeConflicts())
		require.NoError(t, s.Repo.MarkMergeConflictsAsResolved())

		err = actions.ContinueAction(context.Background(), rctx, actions.ContinueOptions{})
		require.NoError(t, err)
		require.False(t, s.Repo.RebaseInProgress())

		// Continuation state is consumed
		_, err = config.GetContinuationState(s.Dir)
		require.Error(t, err)

		mainRev, err := s.Repo.GetRevision("main")
		require.NoError(t, err)
		for _, name := range chain {
			base, err := s.Repo.RunGitCommandAndGetOutput("merge-base", mainRev, name)
			require.NoError(t, err)
			require.Equal(t, mainRev, base, "branch %s must sit on the new trunk tip", name)
		}
	})

	t.Run("continue without a rebase in progress fails cleanly", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		rctx := newTestContext(t, s)
		err := actions.ContinueAction(context.Background(), rctx, actions.ContinueOptions{})
		require.ErrorIs(t, err, shunterrors.ErrRebaseNotInProgress)
	})
}
