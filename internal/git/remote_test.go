package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/testhelpers"
)

func TestFetchRemoteShas(t *testing.T) {
	t.Run("lists pushed branch heads", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		_, err := s.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		require.NoError(t, s.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, s.Repo.CreateChangeAndCommit("feature change", "feature"))
		require.NoError(t, s.Repo.PushBranch("origin", "main"))
		require.NoError(t, s.Repo.PushBranch("origin", "feature"))

		shas, err := git.FetchRemoteShas(context.Background(), "origin")
		require.NoError(t, err)

		featureRev, err := s.Repo.GetRevision("feature")
		require.NoError(t, err)
		mainRev, err := s.Repo.GetRevision("main")
		require.NoError(t, err)

		require.Equal(t, featureRev, shas["feature"])
		require.Equal(t, mainRev, shas["main"])
	})

	t.Run("unpushed branches are absent", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		_, err := s.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		require.NoError(t, s.Repo.PushBranch("origin", "main"))
		require.NoError(t, s.Repo.CreateBranch("local-only"))

		shas, err := git.FetchRemoteShas(context.Background(), "origin")
		require.NoError(t, err)
		require.Contains(t, shas, "main")
		require.NotContains(t, shas, "local-only")
	})
}

func TestGetRemote(t *testing.T) {
	t.Run("falls back to origin without branch config", func(t *testing.T) {
		testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.Equal(t, "origin", git.GetRemote())
	})

	t.Run("uses the branch upstream remote when set", func(t *testing.T) {
		s := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		_, err := s.Repo.CreateBareRemote("upstream")
		require.NoError(t, err)
		require.NoError(t, s.Repo.PushBranch("upstream", "main"))

		require.Equal(t, "upstream", git.GetRemote())
	})
}
