package tui

import (
	"fmt"
	"strings"
)

// BranchAnnotation holds per-branch display metadata for the tree
type BranchAnnotation struct {
	PRNumber     *int
	IsDraft      bool
	NeedsRestack bool
	CustomLabel  string
}

// StackTreeRenderer renders the stack forest for display. Branch
// relationships come in as function values so the renderer has no
// dependency on the engine.
type StackTreeRenderer struct {
	currentBranch string
	trunk         string
	getChildren   func(branchName string) []string
	annotations   map[string]BranchAnnotation
}

// NewStackTreeRenderer creates a tree renderer
func NewStackTreeRenderer(
	currentBranch string,
	trunk string,
	getChildren func(branchName string) []string,
) *StackTreeRenderer {
	return &StackTreeRenderer{
		currentBranch: currentBranch,
		trunk:         trunk,
		getChildren:   getChildren,
		annotations:   make(map[string]BranchAnnotation),
	}
}

// SetAnnotation sets the annotation for a branch
func (r *StackTreeRenderer) SetAnnotation(branchName string, annotation BranchAnnotation) {
	r.annotations[branchName] = annotation
}

// RenderForest renders the trunk and every stack above it, newest lines
// at the top so the trunk appears last
func (r *StackTreeRenderer) RenderForest() []string {
	lines := r.renderSubtree(r.trunk, 0)

	// Flip so upstack branches print above their parents
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

func (r *StackTreeRenderer) renderSubtree(branchName string, indentLevel int) []string {
	var result []string
	result = append(result, r.branchLine(branchName, indentLevel))

	children := r.getChildren(branchName)
	for i, child := range children {
		childIndent := indentLevel
		if len(children) > 1 {
			childIndent = indentLevel + i
		}
		result = append(result, r.renderSubtree(child, childIndent)...)
	}
	return result
}

func (r *StackTreeRenderer) branchLine(branchName string, indentLevel int) string {
	isCurrent := branchName == r.currentBranch

	symbol := "◯"
	if isCurrent {
		symbol = "◉"
	}

	line := strings.Repeat("│  ", indentLevel) + symbol + " " + ColorBranchName(branchName, isCurrent)

	annotation := r.annotations[branchName]
	var parts []string
	if annotation.PRNumber != nil {
		parts = append(parts, ColorPRNumber(fmt.Sprintf("#%d", *annotation.PRNumber)))
	}
	if annotation.IsDraft {
		parts = append(parts, ColorDim("(Draft)"))
	}
	if annotation.NeedsRestack {
		parts = append(parts, ColorNeedsRestack("(needs restack)"))
	}
	if annotation.CustomLabel != "" {
		parts = append(parts, ColorDim(annotation.CustomLabel))
	}
	if len(parts) > 0 {
		line += " " + strings.Join(parts, " ")
	}

	return line
}
