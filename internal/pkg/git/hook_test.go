package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldGenerate(t *testing.T) {
	tests := []struct {
		source   string
		expected bool
	}{
		{"", true},
		{"template", true},
		{"message", false},
		{"merge", false},
		{"squash", false},
		{"commit", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldGenerate(tt.source))
		})
	}
}

func TestHookScript(t *testing.T) {
	script := HookScript("/usr/local/bin/llm-commit")

	assert.True(t, strings.HasPrefix(script, "#!/bin/sh\n"))
	assert.Contains(t, script, `exec "/usr/local/bin/llm-commit" hook run "$1" "$2" "$3"`)
	assert.True(t, IsOwnHook([]byte(script)))
	assert.False(t, IsOwnHook([]byte("#!/bin/sh\nexit 0\n")))
}

func TestInstallAndUninstallHook(t *testing.T) {
	repoDir := setupTestRepo(t)
	ctx := context.Background()

	repo, err := FirstRepository(ctx, repoDir)
	require.NoError(t, err)

	path, err := InstallHook(ctx, repo, "/opt/llm-commit", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repoDir, ".git", "hooks", HookName), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0100, "hook must be executable")

	// Reinstalling over our own hook is allowed.
	_, err = InstallHook(ctx, repo, "/opt/llm-commit", false)
	require.NoError(t, err)

	removed, err := UninstallHook(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, path, removed)
	assert.NoFileExists(t, path)

	_, err = UninstallHook(ctx, repo)
	assert.Error(t, err)
}

func TestInstallHook_RespectsForeignHook(t *testing.T) {
	repoDir := setupTestRepo(t)
	ctx := context.Background()

	repo, err := FirstRepository(ctx, repoDir)
	require.NoError(t, err)

	foreign := filepath.Join(repoDir, ".git", "hooks", HookName)
	require.NoError(t, os.MkdirAll(filepath.Dir(foreign), 0755))
	require.NoError(t, os.WriteFile(foreign, []byte("#!/bin/sh\necho mine\n"), 0755))

	_, err = InstallHook(ctx, repo, "/opt/llm-commit", false)
	require.Error(t, err)

	_, err = UninstallHook(ctx, repo)
	require.Error(t, err)
	assert.FileExists(t, foreign)

	_, err = InstallHook(ctx, repo, "/opt/llm-commit", true)
	require.NoError(t, err)
	data, err := os.ReadFile(foreign)
	require.NoError(t, err)
	assert.True(t, IsOwnHook(data))
}

func TestCommentChar(t *testing.T) {
	repoDir := setupTestRepo(t)
	ctx := context.Background()

	assert.Equal(t, "#", CommentChar(ctx, repoDir))

	runGit(t, repoDir, "config", "core.commentChar", ";")
	assert.Equal(t, ";", CommentChar(ctx, repoDir))

	runGit(t, repoDir, "config", "core.commentChar", "auto")
	assert.Equal(t, "#", CommentChar(ctx, repoDir))
}
