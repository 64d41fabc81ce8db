package git

import (
	"fmt"
	"os"
	"os/exec"
)

// CommitOptions contains options for creating a commit
type CommitOptions struct {
	Message string
	Amend   bool
	NoEdit  bool
	Edit    bool
}

// CommitWithOptions creates a commit with the given options. The command is
// run with the terminal attached so git can open an editor when no message
// is given.
func CommitWithOptions(opts CommitOptions) error {
	args := []string{"commit"}

	if opts.Amend {
		args = append(args, "--amend")
	}

	if opts.Message != "" {
		// -m already suppresses the editor
		args = append(args, "-m", opts.Message)
	} else if opts.NoEdit {
		args = append(args, "--no-edit")
	} else if opts.Edit {
		args = append(args, "-e")
	}
	// With neither flag and no message, git opens the editor by default

	cmd := exec.Command("git", args...)
	if dir := GetWorkingDir(); dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
