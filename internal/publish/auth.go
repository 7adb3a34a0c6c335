package publish

import (
	"os"
	"os/exec"
	"strings"

	"github.com/HartBrook/figstyle/internal/errors"
)

const (
	// EnvGitHubToken is the environment variable for fallback token auth.
	EnvGitHubToken = "FIGSTYLE_GITHUB_TOKEN"
)

// GetToken resolves a GitHub token using the auth chain.
// Priority: 1) gh auth token, 2) FIGSTYLE_GITHUB_TOKEN env
func GetToken() (string, error) {
	token, err := GetTokenFromGHCLI()
	if err == nil && token != "" {
		return token, nil
	}

	token = GetTokenFromEnv()
	if token != "" {
		return token, nil
	}

	return "", errors.PublishFailed(err)
}

// GetTokenFromGHCLI executes `gh auth token` to get token.
func GetTokenFromGHCLI() (string, error) {
	cmd := exec.Command("gh", "auth", "token")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// GetTokenFromEnv reads FIGSTYLE_GITHUB_TOKEN.
func GetTokenFromEnv() string {
	return os.Getenv(EnvGitHubToken)
}
