package engine

import (
	"fmt"
	"sort"
)

// StackNode is a node in a branch stack tree. Parent is a non-owning back
// reference; Children are owned by the node.
type StackNode struct {
	Name     string
	Parent   *StackNode
	Children []*StackNode
}

// Stack is a tree of branches with a single Source node marking the branch
// of interest. The rest of the tree stays reachable through Source's
// parent and child links.
type Stack struct {
	Source *StackNode
}

// Root walks up from Source to the top of the tree
func (s *Stack) Root() *StackNode {
	node := s.Source
	for node.Parent != nil {
		node = node.Parent
	}
	return node
}

// BranchNames returns every branch in the stack in depth-first
// parent-before-child order, starting at the root
func (s *Stack) BranchNames() []string {
	var names []string
	var walk func(*StackNode)
	walk = func(node *StackNode) {
		names = append(names, node.Name)
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(s.Root())
	return names
}

// BranchGraph is the view of branch relationships the stack builder needs.
// Implemented by the engine; tests supply in-memory fakes.
type BranchGraph interface {
	Trunk() string
	AllBranchNames() []string
	GetParent(branchName string) string
	GetChildren(branchName string) []string
	IsBranchTracked(branchName string) bool
}

// StackBuilder constructs branch stack trees from a BranchGraph. The
// ignored set is passed in explicitly rather than read from ambient
// configuration.
type StackBuilder struct {
	graph   BranchGraph
	ignored map[string]bool
}

// NewStackBuilder creates a StackBuilder over the given graph
func NewStackBuilder(graph BranchGraph, ignoredBranches []string) *StackBuilder {
	ignored := make(map[string]bool, len(ignoredBranches))
	for _, name := range ignoredBranches {
		ignored[name] = true
	}
	return &StackBuilder{graph: graph, ignored: ignored}
}

// AllStacksFromTrunk partitions all tracked, non-ignored branches into
// disjoint stacks, one per base branch
func (b *StackBuilder) AllStacksFromTrunk() []*Stack {
	trunk := b.graph.Trunk()

	seen := make(map[string]bool)
	var bases []string
	for _, name := range b.graph.AllBranchNames() {
		if name == trunk || b.ignored[name] || !b.graph.IsBranchTracked(name) {
			continue
		}
		base := b.stackBase(name)
		if !seen[base] {
			seen[base] = true
			bases = append(bases, base)
		}
	}
	sort.Strings(bases)

	stacks := make([]*Stack, 0, len(bases))
	for _, base := range bases {
		root := b.buildSubtree(base, nil)
		stacks = append(stacks, &Stack{Source: root})
	}
	return stacks
}

// UpstackInclusiveWithoutParents builds a fresh tree rooted at the given
// branch by breadth-first expansion. The source node carries no parent
// link, so downstack branches are not reachable from the result.
func (b *StackBuilder) UpstackInclusiveWithoutParents(branchName string) *Stack {
	source := &StackNode{Name: branchName}
	queue := []*StackNode{source}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, childName := range b.graph.GetChildren(node.Name) {
			child := &StackNode{Name: childName, Parent: node}
			node.Children = append(node.Children, child)
			queue = append(queue, child)
		}
	}
	return &Stack{Source: source}
}

// UpstackInclusiveWithParents builds the full stack from the branch's true
// base and promotes the branch's node to Source, preserving ancestor
// linkage. A branch missing from its own computed stack is an internal
// consistency fault and is surfaced as an error.
func (b *StackBuilder) UpstackInclusiveWithParents(branchName string) (*Stack, error) {
	base := b.stackBase(branchName)
	root := b.buildSubtree(base, nil)

	source := findNode(root, branchName)
	if source == nil {
		return nil, fmt.Errorf("branch %s not found in the stack rooted at %s: branch metadata is inconsistent", branchName, base)
	}

	return &Stack{Source: source}, nil
}

// FullStackFromBranch builds the entire stack containing a branch, with
// Source at the base
func (b *StackBuilder) FullStackFromBranch(branchName string) *Stack {
	base := b.stackBase(branchName)
	return &Stack{Source: b.buildSubtree(base, nil)}
}

// stackBase maps a branch to the ancestor closest to the trunk: the first
// branch, walking down parent links, whose parent is the trunk or is not
// tracked
func (b *StackBuilder) stackBase(branchName string) string {
	trunk := b.graph.Trunk()
	current := branchName
	for {
		parent := b.graph.GetParent(current)
		if parent == "" || parent == trunk || !b.graph.IsBranchTracked(parent) {
			return current
		}
		current = parent
	}
}

// buildSubtree builds the tree of a branch and all its descendants
func (b *StackBuilder) buildSubtree(branchName string, parent *StackNode) *StackNode {
	node := &StackNode{Name: branchName, Parent: parent}
	for _, childName := range b.graph.GetChildren(branchName) {
		node.Children = append(node.Children, b.buildSubtree(childName, node))
	}
	return node
}

// findNode searches a subtree depth-first, parent before children
func findNode(node *StackNode, name string) *StackNode {
	if node.Name == name {
		return node
	}
	for _, child := range node.Children {
		if found := findNode(child, name); found != nil {
			return found
		}
	}
	return nil
}
