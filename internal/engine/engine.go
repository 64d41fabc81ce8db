// Package engine provides the core branch state management interface and
// implementation. It tracks branch relationships and metadata, and provides
// operations for querying and manipulating the branch stack.
package engine

import (
	"context"
)

// BranchReader provides read-only access to branch information.
// Thread-safe: all methods are safe for concurrent use.
type BranchReader interface {
	AllBranchNames() []string
	CurrentBranch() string
	Trunk() string
	GetParent(branchName string) string // Returns empty string if no parent
	GetChildren(branchName string) []string
	GetRelativeStack(branchName string, scope StackScope) []string
	IsTrunk(branchName string) bool
	IsBranchTracked(branchName string) bool
	IsBranchFixed(branchName string) bool
	GetRevision(branchName string) (string, error)
}

// BranchWriter provides write operations for branch management.
// Thread-safe: all methods are safe for concurrent use.
type BranchWriter interface {
	TrackBranch(branchName string, parentBranchName string) error
	UntrackBranch(branchName string) error
	DeleteBranch(ctx context.Context, branchName string) error
	SetParent(branchName string, parentBranchName string) error
	Rebuild(newTrunkName string) error
}

// PRManager provides operations for managing pull request metadata.
// Thread-safe: all methods are safe for concurrent use.
type PRManager interface {
	GetPrInfo(branchName string) (*PrInfo, error)
	UpsertPrInfo(branchName string, prInfo *PrInfo) error
}

// SyncManager provides operations for restacking branches and comparing
// them with the remote.
// Thread-safe: all methods are safe for concurrent use.
type SyncManager interface {
	BranchMatchesRemote(branchName string) (bool, error)
	PopulateRemoteShas(ctx context.Context) error
	RestackBranch(ctx context.Context, branchName string) (RestackBranchResult, error)
	ContinueRebase(ctx context.Context, rebasedBranchBase string) (ContinueRebaseResult, error)
	SetCurrentBranchOverride(branchName string)
}

// Engine is the core interface for branch state management. It composes
// BranchReader, BranchWriter, PRManager, and SyncManager; new code should
// prefer depending on the smaller interfaces.
type Engine interface {
	BranchReader
	BranchWriter
	PRManager
	SyncManager
}
