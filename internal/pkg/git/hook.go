package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HookName is the git hook llm-commit installs.
const HookName = "prepare-commit-msg"

// hookMarker identifies scripts written by InstallHook.
const hookMarker = "# llm-commit prepare-commit-msg hook"

const hookScript = `#!/bin/sh
%s
# Fills the commit message when git did not receive one (-m, -F, merge, amend).
# Remove with: llm-commit hook uninstall

exec "%s" hook run "$1" "$2" "$3"
`

// HookScript returns the hook body that runs executable.
func HookScript(executable string) string {
	return fmt.Sprintf(hookScript, hookMarker, executable)
}

// IsOwnHook reports whether content was written by InstallHook.
func IsOwnHook(content []byte) bool {
	return bytes.Contains(content, []byte(hookMarker))
}

// ShouldGenerate reports whether the hook should write a message for the
// commit source git passed. Only plain commits and template commits qualify;
// message, merge, squash and commit (amend or -c) already carry text.
func ShouldGenerate(source string) bool {
	return source == "" || source == "template"
}

// HookPath returns where the prepare-commit-msg hook lives for repo.
func HookPath(ctx context.Context, repo *LocalRepository) (string, error) {
	hooksDir, err := repo.GitPath(ctx, "hooks")
	if err != nil {
		return "", err
	}
	return filepath.Join(hooksDir, HookName), nil
}

// InstallHook writes the hook script into repo. An existing hook that
// llm-commit did not write is left alone unless force is set.
func InstallHook(ctx context.Context, repo *LocalRepository, executable string, force bool) (string, error) {
	hookPath, err := HookPath(ctx, repo)
	if err != nil {
		return "", err
	}

	if existing, err := os.ReadFile(hookPath); err == nil && !IsOwnHook(existing) && !force {
		return "", fmt.Errorf("hook %s already exists; remove it first or use --force", hookPath)
	}

	if err := os.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return "", fmt.Errorf("create hooks dir: %w", err)
	}

	if err := os.WriteFile(hookPath, []byte(HookScript(executable)), 0755); err != nil {
		return "", fmt.Errorf("write hook file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(hookPath, 0755); err != nil {
		return "", fmt.Errorf("make hook executable: %w", err)
	}

	return hookPath, nil
}

// UninstallHook removes the hook if llm-commit installed it.
func UninstallHook(ctx context.Context, repo *LocalRepository) (string, error) {
	hookPath, err := HookPath(ctx, repo)
	if err != nil {
		return "", err
	}

	existing, err := os.ReadFile(hookPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("no %s hook installed in %s", HookName, repo.Root())
	}
	if err != nil {
		return "", fmt.Errorf("read hook file: %w", err)
	}
	if !IsOwnHook(existing) {
		return "", fmt.Errorf("hook %s was not installed by llm-commit; leaving it in place", hookPath)
	}

	if err := os.Remove(hookPath); err != nil {
		return "", fmt.Errorf("remove hook file: %w", err)
	}
	return hookPath, nil
}

// CommentChar returns git's core.commentChar for dir, defaulting to "#".
func CommentChar(ctx context.Context, dir string) string {
	out, err := NewClient().run(ctx, dir, "config", "--get", "core.commentChar")
	if err != nil {
		return "#"
	}
	c := strings.TrimSpace(out)
	if c == "" || c == "auto" {
		return "#"
	}
	return c
}

// FirstRepository returns the first repository found in dirs as a LocalRepository.
func FirstRepository(ctx context.Context, dirs ...string) (*LocalRepository, error) {
	provider, err := NewCLI(WithSearchDirs(dirs...)).Resolve(ctx)
	if err != nil {
		return nil, err
	}

	repos, err := provider.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("no git repository found")
	}

	local, ok := repos[0].(*LocalRepository)
	if !ok {
		return nil, fmt.Errorf("unsupported repository type %T", repos[0])
	}
	return local, nil
}
