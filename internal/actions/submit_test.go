package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/testhelpers"
)

func TestSubmitAction(t *testing.T) {
	t.Run("dry run does not persist PR metadata", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		chain := []string{"b1"}
		buildChain(t, s, chain, "")

		rctx := newTestContext(t, s)
		trackChain(t, rctx.Engine, chain)

		err := actions.SubmitAction(context.Background(), rctx, actions.SubmitOptions{
			BranchName: "b1",
			DryRun:     true,
		})
		require.NoError(t, err)

		prInfo, err := rctx.Engine.GetPrInfo("b1")
		require.NoError(t, err)
		require.Nil(t, prInfo)
	})

	t.Run("dry run with select and edit does not prompt", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		chain := []string{"b1"}
		buildChain(t, s, chain, "")

		rctx := newTestContext(t, s)
		trackChain(t, rctx.Engine, chain)

		// Prompts are forbidden in scenes, so reaching one fails the action
		err := actions.SubmitAction(context.Background(), rctx, actions.SubmitOptions{
			BranchName: "b1",
			DryRun:     true,
			Select:     true,
			Edit:       true,
		})
		require.NoError(t, err)

		prInfo, err := rctx.Engine.GetPrInfo("b1")
		require.NoError(t, err)
		require.Nil(t, prInfo)
	})

	t.Run("fails when a branch revision cannot be resolved", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		chain := []string{"b1"}
		buildChain(t, s, chain, "")

		rctx := newTestContext(t, s)
		trackChain(t, rctx.Engine, chain)

		// Remove the ref behind the engine's back so it cannot be resolved
		require.NoError(t, s.Repo.DeleteBranch("b1"))

		err := actions.SubmitAction(context.Background(), rctx, actions.SubmitOptions{
			BranchName: "b1",
			DryRun:     true,
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "b1")
	})
}
