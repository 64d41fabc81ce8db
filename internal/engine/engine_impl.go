package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"shunt.dev/shunt/internal/config"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/git"
)

// engineImpl implements Engine over git metadata refs. The in-memory
// parent/children maps are a cache rebuilt from the refs; the refs are the
// source of truth.
type engineImpl struct {
	repoRoot      string
	trunk         string
	currentBranch string
	branches      []string
	parentMap     map[string]string   // branch -> parent
	childrenMap   map[string][]string // branch -> children
	remoteShas    map[string]string   // branch -> remote SHA, see PopulateRemoteShas
	mu            sync.RWMutex
}

// NewEngine creates a new engine instance for the repository at repoRoot
func NewEngine(repoRoot string) (Engine, error) {
	if err := git.InitDefaultRepo(); err != nil {
		return nil, fmt.Errorf("failed to initialize git repository: %w", err)
	}

	e := &engineImpl{
		repoRoot:    repoRoot,
		parentMap:   make(map[string]string),
		childrenMap: make(map[string][]string),
		remoteShas:  make(map[string]string),
	}

	trunk, err := config.GetTrunk(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to get trunk: %w", err)
	}
	e.trunk = trunk

	currentBranch, err := git.GetCurrentBranch()
	if err != nil {
		// Detached HEAD is fine here; commands that need a branch check
		currentBranch = ""
	}
	e.currentBranch = currentBranch

	if err := e.rebuild(); err != nil {
		return nil, fmt.Errorf("failed to rebuild engine: %w", err)
	}

	return e, nil
}

func (e *engineImpl) rebuild() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuildInternal()
}

// rebuildInternal reloads branches and metadata. Caller must hold the lock.
func (e *engineImpl) rebuildInternal() error {
	branches, err := git.GetAllBranchNames()
	if err != nil {
		return fmt.Errorf("failed to get branches: %w", err)
	}
	e.branches = branches

	e.parentMap = make(map[string]string)
	e.childrenMap = make(map[string][]string)

	for _, branchName := range branches {
		meta, err := git.ReadMetadataRef(branchName)
		if err != nil {
			continue
		}

		if meta.ParentBranchName != nil {
			parent := *meta.ParentBranchName
			e.parentMap[branchName] = parent
			e.childrenMap[parent] = append(e.childrenMap[parent], branchName)
		}
	}

	return nil
}

// AllBranchNames returns all branch names
func (e *engineImpl) AllBranchNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.branches
}

// CurrentBranch returns the current branch name, empty if HEAD is detached
func (e *engineImpl) CurrentBranch() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentBranch
}

// Trunk returns the trunk branch name
func (e *engineImpl) Trunk() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trunk
}

// GetParent returns the parent branch name (empty string if no parent)
func (e *engineImpl) GetParent(branchName string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parentMap[branchName]
}

// GetChildren returns the tracked children of a branch
func (e *engineImpl) GetChildren(branchName string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if children, ok := e.childrenMap[branchName]; ok {
		return children
	}
	return []string{}
}

// GetRelativeStack returns the stack relative to a branch for the given
// scope. Branches are always ordered parent-before-child.
func (e *engineImpl) GetRelativeStack(branchName string, scope StackScope) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := []string{}

	if scope == ScopeDownstack || scope == ScopeFullStack {
		result = append(result, e.ancestorsInternal(branchName)...)
	}

	if scope != ScopeUpstackExclusive {
		result = append(result, branchName)
	}

	if scope == ScopeUpstackExclusive || scope == ScopeUpstackInclusive || scope == ScopeFullStack {
		result = append(result, e.descendantsInternal(branchName)...)
	}

	return result
}

// ancestorsInternal returns tracked ancestors of a branch, closest to trunk
// first, excluding the trunk itself. Caller must hold the lock.
func (e *engineImpl) ancestorsInternal(branchName string) []string {
	var ancestors []string
	current := branchName
	for {
		parent, ok := e.parentMap[current]
		if !ok || parent == e.trunk {
			break
		}
		ancestors = append([]string{parent}, ancestors...)
		current = parent
	}
	return ancestors
}

// descendantsInternal returns all descendants of a branch in depth-first
// parent-before-child order. Caller must hold the lock.
func (e *engineImpl) descendantsInternal(branchName string) []string {
	result := []string{}
	visited := make(map[string]bool)

	var collect func(string)
	collect = func(branch string) {
		if visited[branch] {
			return
		}
		visited[branch] = true

		if branch != branchName {
			result = append(result, branch)
		}

		for _, child := range e.childrenMap[branch] {
			collect(child)
		}
	}

	collect(branchName)
	return result
}

// IsTrunk checks if a branch is the trunk
func (e *engineImpl) IsTrunk(branchName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return branchName == e.trunk
}

// IsBranchTracked checks if a branch is tracked (has a parent in metadata)
func (e *engineImpl) IsBranchTracked(branchName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.parentMap[branchName]
	return ok
}

// IsBranchFixed checks if a branch is already based on its parent's current
// revision. A fixed branch does not need restacking.
func (e *engineImpl) IsBranchFixed(branchName string) bool {
	if e.IsTrunk(branchName) {
		return true
	}

	e.mu.RLock()
	parent, ok := e.parentMap[branchName]
	e.mu.RUnlock()

	if !ok {
		return true // Untracked branches are never restacked
	}

	parentRev, err := e.GetRevision(parent)
	if err != nil {
		return false
	}

	meta, err := git.ReadMetadataRef(branchName)
	if err != nil {
		return false
	}

	if meta.ParentBranchRevision == nil {
		return false
	}

	return *meta.ParentBranchRevision == parentRev
}

// GetRevision returns the SHA of a branch
func (e *engineImpl) GetRevision(branchName string) (string, error) {
	return git.GetRevision(branchName)
}

// GetPrInfo returns PR information for a branch, nil if none is stored
func (e *engineImpl) GetPrInfo(branchName string) (*PrInfo, error) {
	meta, err := git.ReadMetadataRef(branchName)
	if err != nil {
		return nil, err
	}

	if meta.PrInfo == nil {
		return nil, nil
	}

	return &PrInfo{
		Number:  meta.PrInfo.Number,
		Title:   getStringValue(meta.PrInfo.Title),
		Body:    getStringValue(meta.PrInfo.Body),
		IsDraft: getBoolValue(meta.PrInfo.IsDraft),
		State:   getStringValue(meta.PrInfo.State),
		Base:    getStringValue(meta.PrInfo.Base),
		URL:     getStringValue(meta.PrInfo.URL),
	}, nil
}

// UpsertPrInfo merges the given PR information into a branch's metadata.
// Zero-valued fields leave the stored value untouched, so partial progress
// (an already-entered title/body) is never erased by a later update.
func (e *engineImpl) UpsertPrInfo(branchName string, prInfo *PrInfo) error {
	meta, err := git.ReadMetadataRef(branchName)
	if err != nil {
		meta = &git.Meta{}
	}

	if meta.PrInfo == nil {
		meta.PrInfo = &git.PrInfo{}
	}

	if prInfo.Number != nil {
		meta.PrInfo.Number = prInfo.Number
	}
	if prInfo.Title != "" {
		meta.PrInfo.Title = &prInfo.Title
	}
	if prInfo.Body != "" {
		meta.PrInfo.Body = &prInfo.Body
	}
	meta.PrInfo.IsDraft = &prInfo.IsDraft
	if prInfo.State != "" {
		meta.PrInfo.State = &prInfo.State
	}
	if prInfo.Base != "" {
		meta.PrInfo.Base = &prInfo.Base
	}
	if prInfo.URL != "" {
		meta.PrInfo.URL = &prInfo.URL
	}

	return git.WriteMetadataRef(branchName, meta)
}

// TrackBranch starts tracking a branch with the given parent
func (e *engineImpl) TrackBranch(branchName string, parentBranchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !slices.Contains(e.branches, branchName) {
		// Refresh in case the branch was created after the engine loaded
		branches, err := git.GetAllBranchNames()
		if err != nil {
			return fmt.Errorf("failed to get branches: %w", err)
		}
		e.branches = branches
		if !slices.Contains(e.branches, branchName) {
			return shunterrors.NewBranchNotFoundError(branchName)
		}
	}

	if parentBranchName != e.trunk && !slices.Contains(e.branches, parentBranchName) {
		return shunterrors.NewBranchNotFoundError(parentBranchName)
	}

	parentRevision, err := git.GetMergeBase(branchName, parentBranchName)
	if err != nil {
		return fmt.Errorf("failed to get merge base: %w", err)
	}

	meta := &git.Meta{
		ParentBranchName:     &parentBranchName,
		ParentBranchRevision: &parentRevision,
	}

	if err := git.WriteMetadataRef(branchName, meta); err != nil {
		return fmt.Errorf("failed to write metadata ref: %w", err)
	}

	e.parentMap[branchName] = parentBranchName
	e.childrenMap[parentBranchName] = append(e.childrenMap[parentBranchName], branchName)

	return nil
}

// UntrackBranch removes a branch's metadata. The git branch itself is left
// alone; any tracked children are reparented onto the untracked branch's
// parent.
func (e *engineImpl) UntrackBranch(branchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	parent, tracked := e.parentMap[branchName]
	if !tracked {
		return shunterrors.NewPreconditionError("branch %s is not tracked", branchName)
	}

	children := e.childrenMap[branchName]

	if err := git.DeleteMetadataRef(branchName); err != nil {
		return fmt.Errorf("failed to delete metadata ref: %w", err)
	}

	for _, child := range children {
		if err := e.setParentInternal(child, parent); err != nil {
			return fmt.Errorf("failed to reparent %s: %w", child, err)
		}
	}

	delete(e.parentMap, branchName)
	delete(e.childrenMap, branchName)

	siblings := e.childrenMap[parent]
	for i, c := range siblings {
		if c == branchName {
			e.childrenMap[parent] = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}

	return nil
}

// DeleteBranch deletes a branch along with its metadata. Tracked children
// are reparented onto the deleted branch's parent. Trunk and the checked
// out branch cannot be deleted.
func (e *engineImpl) DeleteBranch(ctx context.Context, branchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if branchName == e.trunk {
		return shunterrors.ErrTrunkOperation
	}
	if branchName == e.currentBranch {
		return shunterrors.NewPreconditionError("cannot delete the checked out branch %s", branchName)
	}
	if !slices.Contains(e.branches, branchName) {
		return shunterrors.NewBranchNotFoundError(branchName)
	}

	parent, tracked := e.parentMap[branchName]
	children := e.childrenMap[branchName]

	if err := git.DeleteBranch(ctx, branchName); err != nil {
		return err
	}
	if err := git.DeleteMetadataRef(branchName); err != nil {
		return fmt.Errorf("failed to delete metadata ref: %w", err)
	}

	if tracked {
		for _, child := range children {
			if err := e.setParentInternal(child, parent); err != nil {
				return fmt.Errorf("failed to reparent %s: %w", child, err)
			}
		}
		delete(e.parentMap, branchName)
		delete(e.childrenMap, branchName)

		siblings := e.childrenMap[parent]
		for i, c := range siblings {
			if c == branchName {
				e.childrenMap[parent] = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}

	for i, b := range e.branches {
		if b == branchName {
			e.branches = append(e.branches[:i], e.branches[i+1:]...)
			break
		}
	}

	return nil
}

// SetParent updates a branch's parent
func (e *engineImpl) SetParent(branchName string, parentBranchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setParentInternal(branchName, parentBranchName)
}

// setParentInternal updates parent without locking (caller must hold lock)
func (e *engineImpl) setParentInternal(branchName string, parentBranchName string) error {
	parentRev, err := git.GetMergeBase(branchName, parentBranchName)
	if err != nil {
		return fmt.Errorf("failed to get merge base: %w", err)
	}

	meta, err := git.ReadMetadataRef(branchName)
	if err != nil {
		meta = &git.Meta{}
	}

	oldParent := ""
	if meta.ParentBranchName != nil {
		oldParent = *meta.ParentBranchName
	}

	meta.ParentBranchName = &parentBranchName
	meta.ParentBranchRevision = &parentRev

	if err := git.WriteMetadataRef(branchName, meta); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if oldParent != "" {
		oldChildren := e.childrenMap[oldParent]
		for i, c := range oldChildren {
			if c == branchName {
				e.childrenMap[oldParent] = append(oldChildren[:i], oldChildren[i+1:]...)
				break
			}
		}
	}

	e.parentMap[branchName] = parentBranchName
	if !slices.Contains(e.childrenMap[parentBranchName], branchName) {
		e.childrenMap[parentBranchName] = append(e.childrenMap[parentBranchName], branchName)
	}

	return nil
}

// Rebuild reloads the branch cache with a new trunk
func (e *engineImpl) Rebuild(newTrunkName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.trunk = newTrunkName
	return e.rebuildInternal()
}

// BranchMatchesRemote checks whether a branch's local revision matches the
// remote SHA cached by PopulateRemoteShas. A missing remote branch never
// matches.
func (e *engineImpl) BranchMatchesRemote(branchName string) (bool, error) {
	localSha, err := git.GetRevision(branchName)
	if err != nil {
		return false, fmt.Errorf("failed to get local revision for %s: %w", branchName, err)
	}

	e.mu.RLock()
	remoteSha, exists := e.remoteShas[branchName]
	e.mu.RUnlock()

	if !exists {
		return false, nil
	}

	return localSha == remoteSha, nil
}

// PopulateRemoteShas caches the remote SHA of every branch via a single
// ls-remote call. The cache can go stale if the remote is force-pushed
// mid-run; callers accept that window.
func (e *engineImpl) PopulateRemoteShas(ctx context.Context) error {
	remote := git.GetRemote()
	remoteShas, err := git.FetchRemoteShas(ctx, remote)
	if err != nil {
		// Offline or no remote configured: leave the cache empty so every
		// branch reads as not matching
		remoteShas = make(map[string]string)
	}

	e.mu.Lock()
	e.remoteShas = remoteShas
	e.mu.Unlock()
	return nil
}

// RestackBranch rebases a branch onto the current revision of its parent.
// The rebase is skipped when the branch is already based on it.
func (e *engineImpl) RestackBranch(ctx context.Context, branchName string) (RestackBranchResult, error) {
	e.mu.RLock()
	parent, ok := e.parentMap[branchName]
	e.mu.RUnlock()

	if !ok {
		return RestackBranchResult{Result: RestackUnneeded}, shunterrors.NewPreconditionError("branch %s is not tracked", branchName)
	}

	parentRev, err := e.GetRevision(parent)
	if err != nil {
		return RestackBranchResult{Result: RestackConflict}, fmt.Errorf("failed to get parent revision: %w", err)
	}

	if e.IsBranchFixed(branchName) {
		return RestackBranchResult{Result: RestackUnneeded, RebasedBranchBase: parentRev}, nil
	}

	meta, err := git.ReadMetadataRef(branchName)
	if err != nil {
		return RestackBranchResult{Result: RestackConflict, RebasedBranchBase: parentRev}, fmt.Errorf("failed to read metadata: %w", err)
	}

	oldParentRev := parentRev
	if meta.ParentBranchRevision != nil {
		oldParentRev = *meta.ParentBranchRevision
	}

	gitResult, err := git.Rebase(ctx, branchName, parent, oldParentRev)
	if err != nil {
		return RestackBranchResult{Result: RestackConflict, RebasedBranchBase: parentRev}, err
	}

	if gitResult == git.RebaseConflict {
		return RestackBranchResult{Result: RestackConflict, RebasedBranchBase: parentRev}, nil
	}

	meta.ParentBranchRevision = &parentRev
	if err := git.WriteMetadataRef(branchName, meta); err != nil {
		return RestackBranchResult{Result: RestackDone, RebasedBranchBase: parentRev}, fmt.Errorf("failed to update metadata: %w", err)
	}

	if err := e.rebuild(); err != nil {
		return RestackBranchResult{Result: RestackDone, RebasedBranchBase: parentRev}, fmt.Errorf("failed to rebuild after restack: %w", err)
	}

	return RestackBranchResult{Result: RestackDone, RebasedBranchBase: parentRev}, nil
}

// ContinueRebase runs rebase --continue and, on completion, records the
// rebased branch's new base in its metadata
func (e *engineImpl) ContinueRebase(ctx context.Context, rebasedBranchBase string) (ContinueRebaseResult, error) {
	result, err := git.RebaseContinue(ctx)
	if err != nil {
		return ContinueRebaseResult{Result: RestackConflict}, err
	}

	if result == git.RebaseConflict {
		return ContinueRebaseResult{Result: RestackConflict}, nil
	}

	// The completed rebase leaves HEAD detached at the rebased commit;
	// move the branch ref there before recording metadata
	branchName, err := e.finishRebasedBranch(ctx)
	if err != nil {
		return ContinueRebaseResult{}, err
	}

	meta, err := git.ReadMetadataRef(branchName)
	if err != nil {
		return ContinueRebaseResult{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	meta.ParentBranchRevision = &rebasedBranchBase
	if err := git.WriteMetadataRef(branchName, meta); err != nil {
		return ContinueRebaseResult{}, fmt.Errorf("failed to update metadata: %w", err)
	}

	if err := e.rebuild(); err != nil {
		return ContinueRebaseResult{}, fmt.Errorf("failed to rebuild after continue: %w", err)
	}

	return ContinueRebaseResult{
		Result:     RestackDone,
		BranchName: branchName,
	}, nil
}

// finishRebasedBranch resolves which branch the completed rebase belonged
// to and points its ref at the rebased HEAD. Rebases started from a branch
// checkout need no fixup; detached-HEAD rebases do.
func (e *engineImpl) finishRebasedBranch(ctx context.Context) (string, error) {
	if branchName, err := git.GetCurrentBranch(); err == nil {
		return branchName, nil
	}

	e.mu.RLock()
	override := e.currentBranch
	e.mu.RUnlock()

	headRev, err := git.RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve rebased HEAD: %w", err)
	}

	// The conflicted branch was recorded in the continuation state and
	// restored into currentBranch by the caller before continuing
	if override == "" {
		return "", shunterrors.ErrNotOnBranch
	}

	if err := git.UpdateBranchRef(override, headRev); err != nil {
		return "", err
	}
	if err := git.CheckoutBranch(ctx, override); err != nil {
		return "", err
	}

	return override, nil
}

// SetCurrentBranchOverride records which branch an in-flight detached-HEAD
// rebase belongs to, restored from continuation state
func (e *engineImpl) SetCurrentBranchOverride(branchName string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentBranch = branchName
}

func getStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func getBoolValue(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
