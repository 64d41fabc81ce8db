package engine

// PrInfo represents PR information for a branch
type PrInfo struct {
	Number  *int
	Title   string
	Body    string
	IsDraft bool
	State   string // MERGED, CLOSED, OPEN
	Base    string // Base branch name
	URL     string // PR URL
}

// StackScope selects which part of a stack a relative-stack query returns.
// All scopes yield branches in parent-before-child order.
type StackScope int

const (
	// ScopeUpstackExclusive selects every descendant of the branch,
	// excluding the branch itself
	ScopeUpstackExclusive StackScope = iota
	// ScopeUpstackInclusive selects the branch and every descendant
	ScopeUpstackInclusive
	// ScopeDownstack selects every tracked ancestor below the branch,
	// then the branch itself
	ScopeDownstack
	// ScopeFullStack selects ancestors, the branch, and all descendants
	ScopeFullStack
)

// RestackResult represents the result of restacking a branch
type RestackResult int

const (
	// RestackDone indicates the restack was successful
	RestackDone RestackResult = iota
	// RestackUnneeded indicates no restack was needed
	RestackUnneeded
	// RestackConflict indicates a conflict occurred during restack
	RestackConflict
)

// RestackBranchResult represents the result of restacking a branch,
// including the base the branch was (or would have been) rebased onto
type RestackBranchResult struct {
	Result            RestackResult
	RebasedBranchBase string // Parent revision the branch was rebased onto
}

// ContinueRebaseResult represents the result of continuing a rebase
type ContinueRebaseResult struct {
	Result     RestackResult
	BranchName string // Branch whose rebase completed (only set on RestackDone)
}
