package tui

import (
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	shunterrors "shunt.dev/shunt/internal/errors"
)

// PromptReviewers asks for a comma-separated list of reviewer logins
func PromptReviewers() ([]string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return nil, err
	}

	var raw string
	prompt := &survey.Input{
		Message: "Reviewers (comma-separated, empty for none):",
	}
	if err := survey.AskOne(prompt, &raw); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, shunterrors.ErrCancelled
		}
		return nil, err
	}

	var reviewers []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			reviewers = append(reviewers, entry)
		}
	}
	return reviewers, nil
}

// PromptMultiline asks for a multi-line body via survey's multiline input
func PromptMultiline(message string, defaultValue string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	var value string
	prompt := &survey.Multiline{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &value); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", shunterrors.ErrCancelled
		}
		return "", err
	}
	return value, nil
}
