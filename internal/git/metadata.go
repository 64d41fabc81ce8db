package git

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const metadataRefPrefix = "refs/branch-metadata/"

// Meta represents branch metadata stored in Git refs
type Meta struct {
	ParentBranchName     *string `json:"parentBranchName,omitempty"`
	ParentBranchRevision *string `json:"parentBranchRevision,omitempty"`
	PrInfo               *PrInfo `json:"prInfo,omitempty"`
}

// PrInfo represents PR information
type PrInfo struct {
	Number  *int    `json:"number,omitempty"`
	Base    *string `json:"base,omitempty"`
	URL     *string `json:"url,omitempty"`
	Title   *string `json:"title,omitempty"`
	Body    *string `json:"body,omitempty"`
	State   *string `json:"state,omitempty"`
	IsDraft *bool   `json:"isDraft,omitempty"`
}

// ReadMetadataRef reads metadata for a branch from Git refs.
// A missing or unreadable ref yields an empty Meta, never an error.
func ReadMetadataRef(branchName string) (*Meta, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}

	refName := plumbing.ReferenceName(metadataRefPrefix + branchName)
	ref, err := repo.Reference(refName, false)
	if err != nil {
		return &Meta{}, nil
	}

	obj, err := repo.Object(plumbing.AnyObject, ref.Hash())
	if err != nil {
		return &Meta{}, nil
	}

	blob, ok := obj.(*object.Blob)
	if !ok {
		return &Meta{}, nil
	}

	reader, err := blob.Reader()
	if err != nil {
		return &Meta{}, nil
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return &Meta{}, nil
	}

	var meta Meta
	if err := json.Unmarshal(content, &meta); err != nil {
		return &Meta{}, nil
	}

	return &meta, nil
}

// GetMetadataRefList returns all metadata refs as branch name -> blob hash
func GetMetadataRefList() (map[string]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}

	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	result := make(map[string]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if strings.HasPrefix(name, metadataRefPrefix) {
			result[strings.TrimPrefix(name, metadataRefPrefix)] = ref.Hash().String()
		}
		return nil
	})

	return result, err
}

// DeleteMetadataRef deletes a metadata ref for a branch
func DeleteMetadataRef(branchName string) error {
	repo, err := GetDefaultRepo()
	if err != nil {
		return err
	}

	refName := plumbing.ReferenceName(metadataRefPrefix + branchName)
	return repo.Storer.RemoveReference(refName)
}

// WriteMetadataRef writes metadata for a branch to Git refs
func WriteMetadataRef(branchName string, meta *Meta) error {
	jsonData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	// Create the blob with git hash-object, then point the ref at it.
	// go-git is only used for reads; writes go through git so the object
	// lands in the on-disk object store immediately.
	sha, err := RunGitCommandWithInput(string(jsonData), "hash-object", "-w", "--stdin")
	if err != nil {
		return fmt.Errorf("failed to create metadata blob: %w", err)
	}

	_, err = RunGitCommand("update-ref", metadataRefPrefix+branchName, sha)
	if err != nil {
		return fmt.Errorf("failed to write metadata ref: %w", err)
	}

	return nil
}
