package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shunt.dev/shunt/internal/engine"
)

// fakeGraph is an in-memory BranchGraph for exercising the stack builder
// without a repository
type fakeGraph struct {
	trunk    string
	parents  map[string]string
	children map[string][]string
	branches []string
}

func newFakeGraph(trunk string, parents map[string]string) *fakeGraph {
	g := &fakeGraph{
		trunk:    trunk,
		parents:  parents,
		children: make(map[string][]string),
		branches: []string{trunk},
	}
	for branch, parent := range parents {
		g.branches = append(g.branches, branch)
		g.children[parent] = append(g.children[parent], branch)
	}
	return g
}

func (g *fakeGraph) Trunk() string                   { return g.trunk }
func (g *fakeGraph) AllBranchNames() []string        { return g.branches }
func (g *fakeGraph) GetParent(name string) string    { return g.parents[name] }
func (g *fakeGraph) GetChildren(name string) []string {
	return g.children[name]
}
func (g *fakeGraph) IsBranchTracked(name string) bool {
	_, ok := g.parents[name]
	return ok
}

func TestAllStacksFromTrunk(t *testing.T) {
	t.Run("partitions branches into disjoint stacks", func(t *testing.T) {
		// Two independent stacks off main:
		//   a1 <- a2, and b1
		g := newFakeGraph("main", map[string]string{
			"a1": "main",
			"a2": "a1",
			"b1": "main",
		})
		builder := engine.NewStackBuilder(g, nil)

		stacks := builder.AllStacksFromTrunk()
		require.Len(t, stacks, 2)

		require.Equal(t, []string{"a1", "a2"}, stacks[0].BranchNames())
		require.Equal(t, []string{"b1"}, stacks[1].BranchNames())
	})

	t.Run("every tracked branch appears in exactly one stack", func(t *testing.T) {
		g := newFakeGraph("main", map[string]string{
			"a1": "main",
			"a2": "a1",
			"a3": "a2",
			"b1": "main",
			"b2": "b1",
		})
		builder := engine.NewStackBuilder(g, nil)

		counts := make(map[string]int)
		for _, stack := range builder.AllStacksFromTrunk() {
			for _, name := range stack.BranchNames() {
				counts[name]++
			}
		}

		for _, name := range []string{"a1", "a2", "a3", "b1", "b2"} {
			require.Equal(t, 1, counts[name], "branch %s", name)
		}
		require.Zero(t, counts["main"], "trunk must not appear in any stack")
	})

	t.Run("ignored branches and their descendants are excluded from their stack", func(t *testing.T) {
		g := newFakeGraph("main", map[string]string{
			"keep":   "main",
			"ignore": "main",
		})
		builder := engine.NewStackBuilder(g, []string{"ignore"})

		stacks := builder.AllStacksFromTrunk()
		require.Len(t, stacks, 1)
		require.Equal(t, []string{"keep"}, stacks[0].BranchNames())
	})

	t.Run("untracked branches do not contribute stacks", func(t *testing.T) {
		g := newFakeGraph("main", map[string]string{"a1": "main"})
		g.branches = append(g.branches, "loose")

		builder := engine.NewStackBuilder(g, nil)
		stacks := builder.AllStacksFromTrunk()
		require.Len(t, stacks, 1)
		require.Equal(t, []string{"a1"}, stacks[0].BranchNames())
	})
}

func TestUpstackInclusiveWithoutParents(t *testing.T) {
	g := newFakeGraph("main", map[string]string{
		"a1": "main",
		"a2": "a1",
		"a3": "a2",
	})
	builder := engine.NewStackBuilder(g, nil)

	stack := builder.UpstackInclusiveWithoutParents("a2")
	require.Nil(t, stack.Source.Parent, "source must not link to downstack branches")
	require.Equal(t, []string{"a2", "a3"}, stack.BranchNames())
}

func TestUpstackInclusiveWithParents(t *testing.T) {
	t.Run("keeps ancestors reachable from the source", func(t *testing.T) {
		g := newFakeGraph("main", map[string]string{
			"a1": "main",
			"a2": "a1",
			"a3": "a2",
		})
		builder := engine.NewStackBuilder(g, nil)

		stack, err := builder.UpstackInclusiveWithParents("a2")
		require.NoError(t, err)
		require.Equal(t, "a2", stack.Source.Name)
		require.Equal(t, "a1", stack.Source.Parent.Name)
		require.Equal(t, []string{"a1", "a2", "a3"}, stack.BranchNames())
	})

	t.Run("errors when the branch is missing from its own stack", func(t *testing.T) {
		// Parent link without a matching child link: the branch can name
		// its base but is unreachable from it
		g := newFakeGraph("main", map[string]string{
			"a1": "main",
			"a2": "a1",
		})
		g.parents["orphan"] = "a1"
		g.branches = append(g.branches, "orphan")

		builder := engine.NewStackBuilder(g, nil)
		_, err := builder.UpstackInclusiveWithParents("orphan")
		require.Error(t, err)
		require.Contains(t, err.Error(), "inconsistent")
	})

	t.Run("parent-before-child order with branching", func(t *testing.T) {
		// a1 has two children; each child subtree stays contiguous
		g := newFakeGraph("main", map[string]string{
			"a1": "main",
			"b":  "a1",
			"c":  "a1",
			"b2": "b",
		})
		builder := engine.NewStackBuilder(g, nil)

		stack, err := builder.UpstackInclusiveWithParents("a1")
		require.NoError(t, err)

		names := stack.BranchNames()
		index := make(map[string]int, len(names))
		for i, name := range names {
			index[name] = i
		}
		require.Less(t, index["a1"], index["b"])
		require.Less(t, index["a1"], index["c"])
		require.Less(t, index["b"], index["b2"])
	})
}

func TestFullStackFromBranch(t *testing.T) {
	g := newFakeGraph("main", map[string]string{
		"a1": "main",
		"a2": "a1",
	})
	builder := engine.NewStackBuilder(g, nil)

	stack := builder.FullStackFromBranch("a2")
	require.Equal(t, "a1", stack.Source.Name)
	require.Equal(t, []string{"a1", "a2"}, stack.BranchNames())
}
