package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shunt.dev/shunt/internal/actions"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/testhelpers"
)

func TestModifyAction(t *testing.T) {
	t.Run("amend with no staged changes fails before committing", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))

		rctx := newTestContext(t, s)
		require.NoError(t, rctx.Engine.TrackBranch("feature", "main"))

		revBefore, err := s.Repo.GetRevision("feature")
		require.NoError(t, err)

		err = actions.ModifyAction(context.Background(), rctx, actions.ModifyOptions{NoEdit: true})
		require.ErrorIs(t, err, shunterrors.ErrPreconditionFailed)

		revAfter, err := s.Repo.GetRevision("feature")
		require.NoError(t, err)
		require.Equal(t, revBefore, revAfter, "no commit may happen when the precondition fails")
	})

	t.Run("fails on trunk", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		rctx := newTestContext(t, s)
		err := actions.ModifyAction(context.Background(), rctx, actions.ModifyOptions{
			All:     true,
			Message: "nope",
		})
		require.ErrorIs(t, err, shunterrors.ErrPreconditionFailed)
	})

	t.Run("amend rewrites the tip and restacks descendants", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("top"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("top change", "top"))
		require.NoError(t, s.Repo.CheckoutBranch("feature"))

		rctx := newTestContext(t, s)
		require.NoError(t, rctx.Engine.TrackBranch("feature", "main"))
		require.NoError(t, rctx.Engine.TrackBranch("top", "feature"))

		require.NoError(t, s.Repo.CreateChange("amended content", "feature", false))

		err := actions.ModifyAction(context.Background(), rctx, actions.ModifyOptions{
			Message: "feature change amended",
			NoEdit:  true,
		})
		require.NoError(t, err)

		messages, err := s.Repo.ListCurrentBranchCommitMessages()
		require.NoError(t, err)
		require.Equal(t, "feature change amended", messages[0])

		// top is rebased onto the amended tip
		featureRev, err := s.Repo.GetRevision("feature")
		require.NoError(t, err)
		base, err := s.Repo.RunGitCommandAndGetOutput("merge-base", featureRev, "top")
		require.NoError(t, err)
		require.Equal(t, featureRev, base)
	})

	t.Run("commit appends a new tip", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))

		rctx := newTestContext(t, s)
		require.NoError(t, rctx.Engine.TrackBranch("feature", "main"))

		require.NoError(t, s.Repo.CreateChange("second change", "second", false))

		err := actions.ModifyAction(context.Background(), rctx, actions.ModifyOptions{
			CreateCommit: true,
			Message:      "second commit",
		})
		require.NoError(t, err)

		messages, err := s.Repo.ListCurrentBranchCommitMessages()
		require.NoError(t, err)
		require.Equal(t, "second commit", messages[0])
		require.Equal(t, "feature change", messages[1])
	})
}
