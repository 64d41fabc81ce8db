package actions

// SubmitActionKind is the remote action computed for one branch during
// submission planning.
type SubmitActionKind int

const (
	// SubmitNoop means the remote review request already matches
	SubmitNoop SubmitActionKind = iota
	// SubmitCreate means a new review request must be opened
	SubmitCreate
	// SubmitRestack means the review request's base branch must change
	SubmitRestack
	// SubmitChange means the branch content differs from the remote
	SubmitChange
	// SubmitDraft means the review request must be converted to a draft
	SubmitDraft
	// SubmitPublish means the review request must be marked ready for review
	SubmitPublish
)

func (k SubmitActionKind) String() string {
	switch k {
	case SubmitCreate:
		return "create"
	case SubmitRestack:
		return "update base"
	case SubmitChange:
		return "update"
	case SubmitDraft:
		return "mark draft"
	case SubmitPublish:
		return "publish"
	default:
		return "no changes"
	}
}

// ClassifyInputs are the facts about one branch that determine its
// submission action.
type ClassifyInputs struct {
	HasPRNumber          bool // A review request number is stored for the branch
	UpdateOnly           bool // The run may only update existing review requests
	BaseMatchesParent    bool // Stored base equals the branch's current parent
	ContentMatchesRemote bool // Local revision equals the remote branch tip
	RequestDraft         bool // The run asked for draft status
	RequestPublish       bool // The run asked for published status
	StoredIsDraft        bool // The stored review request is a draft
}

// ClassifyBranch computes the minimal remote action for a branch. It is a
// pure function of its inputs; callers resolve the inputs beforehand.
//
// Precedence: a base mismatch always wins over a content mismatch, which
// wins over a draft/publish transition.
func ClassifyBranch(in ClassifyInputs) SubmitActionKind {
	if !in.HasPRNumber {
		if in.UpdateOnly {
			return SubmitNoop
		}
		return SubmitCreate
	}

	if !in.BaseMatchesParent {
		return SubmitRestack
	}

	if !in.ContentMatchesRemote {
		return SubmitChange
	}

	if in.RequestDraft && !in.StoredIsDraft {
		return SubmitDraft
	}
	if in.RequestPublish && in.StoredIsDraft {
		return SubmitPublish
	}

	return SubmitNoop
}
