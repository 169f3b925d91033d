package cmd

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the CLI with args and returns what it wrote.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	root := NewRootCmd("1.2.3", "abc123", "2026-01-01")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(&bytes.Buffer{})
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), errOut.String(), err
}

// tempConfig returns a config path inside a fresh temporary directory.
func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "llm-commit", "config.yaml")
}

// setupTestRepo creates a temporary git repository for testing.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(t, err)

	runGit(t, resolved, "init", "-q")
	runGit(t, resolved, "config", "user.email", "test@example.com")
	runGit(t, resolved, "config", "user.name", "Test User")
	runGit(t, resolved, "config", "commit.gpgsign", "false")

	return resolved
}

// runGit runs a git command in the specified directory.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, output)
	}
	return string(output)
}

// stageFile writes a file into dir and stages it.
func stageFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	runGit(t, dir, "add", name)
}

func TestVersion(t *testing.T) {
	stdout, _, err := executeCommand(t, "--version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "llm-commit 1.2.3")
	assert.Contains(t, stdout, "Commit: abc123")
	assert.Contains(t, stdout, "Built:  2026-01-01")
}

func TestHelpListsCommands(t *testing.T) {
	stdout, _, err := executeCommand(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"generate", "hook", "config", "providers"} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "--no-progress")
	assert.Contains(t, stdout, "--provider")
}

func TestUnknownFlag(t *testing.T) {
	_, _, err := executeCommand(t, "--definitely-not-a-flag")
	require.Error(t, err)

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "exit status 1", (&ExitError{Code: 1}).Error())
}

func TestProvidersCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "providers", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "lm-studio (default)\n")
	assert.Contains(t, stdout, "  endpoint: http://127.0.0.1:1234/v1/chat/completions\n")
	assert.Contains(t, stdout, "  endpoint: http://127.0.0.1:11434/v1/chat/completions\n")
	assert.Contains(t, stdout, "  endpoint: https://api.openai.com/v1/chat/completions\n")
	assert.Contains(t, stdout, "  model:    gpt-4.1\n")
	assert.Contains(t, stdout, "  endpoint: apiUrl, or http://localhost:1234/v1/chat/completions when unset\n")
	assert.Contains(t, stdout, "  api key:  not sent\n")
	assert.Contains(t, stdout, "  api key:  sent as a Bearer token when set\n")
}
