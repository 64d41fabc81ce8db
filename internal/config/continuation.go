package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const continuationFileName = ".shunt_continue"

// ContinuationState represents the state of a restack cascade that was
// interrupted by a rebase conflict
type ContinuationState struct {
	BranchesToRestack     []string `json:"branchesToRestack,omitempty"`
	CurrentBranchOverride string   `json:"currentBranchOverride,omitempty"`
	RebasedBranchBase     string   `json:"rebasedBranchBase,omitempty"`
}

func continuationPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", continuationFileName)
}

// GetContinuationState reads the continuation state from disk
func GetContinuationState(repoRoot string) (*ContinuationState, error) {
	data, err := os.ReadFile(continuationPath(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no continuation state found")
		}
		return nil, fmt.Errorf("failed to read continuation state: %w", err)
	}

	var state ContinuationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse continuation state: %w", err)
	}
	return &state, nil
}

// HasContinuationState reports whether an interrupted cascade is pending
func HasContinuationState(repoRoot string) bool {
	_, err := os.Stat(continuationPath(repoRoot))
	return err == nil
}

// PersistContinuationState writes the continuation state to disk
func PersistContinuationState(repoRoot string, state *ContinuationState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal continuation state: %w", err)
	}
	return os.WriteFile(continuationPath(repoRoot), data, 0600)
}

// ClearContinuationState removes the continuation state file
func ClearContinuationState(repoRoot string) error {
	err := os.Remove(continuationPath(repoRoot))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear continuation state: %w", err)
	}
	return nil
}
