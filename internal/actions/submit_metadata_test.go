package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/engine"
	"shunt.dev/shunt/testhelpers"
)

func TestPreparePRMetadata(t *testing.T) {
	t.Run("title falls back to the oldest commit subject", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("add the widget", "feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("fix the widget", "feature2"))

		rctx := newTestContext(t, s)
		require.NoError(t, rctx.Engine.TrackBranch("feature", "main"))

		metadata, err := actions.PreparePRMetadata("feature", actions.SubmitMetadataOptions{}, rctx.Engine, rctx.Splog)
		require.NoError(t, err)
		require.Equal(t, "add the widget", metadata.Title)
	})

	t.Run("title and body are persisted as soon as they are obtained", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("add the widget", "feature"))

		rctx := newTestContext(t, s)
		require.NoError(t, rctx.Engine.TrackBranch("feature", "main"))

		_, err := actions.PreparePRMetadata("feature", actions.SubmitMetadataOptions{}, rctx.Engine, rctx.Splog)
		require.NoError(t, err)

		// A later failure in the same run must not lose the gathered fields
		prInfo, err := rctx.Engine.GetPrInfo("feature")
		require.NoError(t, err)
		require.NotNil(t, prInfo)
		require.Equal(t, "add the widget", prInfo.Title)
	})

	t.Run("stored title is reused instead of re-derived", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("add the widget", "feature"))

		rctx := newTestContext(t, s)
		require.NoError(t, rctx.Engine.TrackBranch("feature", "main"))
		require.NoError(t, rctx.Engine.UpsertPrInfo("feature", &engine.PrInfo{
			Title: "Entered earlier",
		}))

		metadata, err := actions.PreparePRMetadata("feature", actions.SubmitMetadataOptions{}, rctx.Engine, rctx.Splog)
		require.NoError(t, err)
		require.Equal(t, "Entered earlier", metadata.Title)
	})

	t.Run("draft and publish flags win over stored state", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("add the widget", "feature"))

		rctx := newTestContext(t, s)
		require.NoError(t, rctx.Engine.TrackBranch("feature", "main"))

		metadata, err := actions.PreparePRMetadata("feature", actions.SubmitMetadataOptions{Draft: true}, rctx.Engine, rctx.Splog)
		require.NoError(t, err)
		require.True(t, metadata.IsDraft)

		metadata, err = actions.PreparePRMetadata("feature", actions.SubmitMetadataOptions{Publish: true}, rctx.Engine, rctx.Splog)
		require.NoError(t, err)
		require.False(t, metadata.IsDraft)
	})
}

func TestParseReviewers(t *testing.T) {
	reviewers, teams := actions.ParseReviewers("alice, bob,acme/platform")
	require.Equal(t, []string{"alice", "bob"}, reviewers)
	require.Equal(t, []string{"platform"}, teams)

	reviewers, teams = actions.ParseReviewers("")
	require.Empty(t, reviewers)
	require.Empty(t, teams)
}
