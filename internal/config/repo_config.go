// Package config provides repository configuration management,
// including reading and writing shunt configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

const configFileName = ".shunt_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Trunk           *string  `json:"trunk,omitempty"`
	IgnoredBranches []string `json:"ignoredBranches,omitempty"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", configFileName)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(configPath(repoRoot))
	if err != nil {
		// Config doesn't exist yet - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

func writeRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(configPath(repoRoot), configJSON, 0600)
}

// GetTrunk returns the configured trunk branch name, or "main" as default
func GetTrunk(repoRoot string) (string, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return "", err
	}

	if config.Trunk != nil && *config.Trunk != "" {
		return *config.Trunk, nil
	}

	return "main", nil
}

// SetTrunk updates the trunk branch in the config
func SetTrunk(repoRoot string, trunkName string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	config.Trunk = &trunkName
	return writeRepoConfig(repoRoot, config)
}

// IsTrunk checks if a branch is the configured trunk
func IsTrunk(repoRoot string, branchName string) (bool, error) {
	trunk, err := GetTrunk(repoRoot)
	if err != nil {
		return false, err
	}
	return trunk == branchName, nil
}

// IsInitialized checks if shunt has been initialized in this repository
func IsInitialized(repoRoot string) bool {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return false
	}
	return config.Trunk != nil && *config.Trunk != ""
}

// GetIgnoredBranches returns the branches excluded from stack discovery
func GetIgnoredBranches(repoRoot string) ([]string, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return nil, err
	}
	return config.IgnoredBranches, nil
}

// AddIgnoredBranch adds a branch to the ignored set
func AddIgnoredBranch(repoRoot string, branchName string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	if slices.Contains(config.IgnoredBranches, branchName) {
		return nil
	}

	config.IgnoredBranches = append(config.IgnoredBranches, branchName)
	return writeRepoConfig(repoRoot, config)
}
