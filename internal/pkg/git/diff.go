package git

import (
	"bufio"
	"context"
	"strings"

	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
)

// StagedDiff is the staged change set of the first open repository.
type StagedDiff struct {
	Repository Repository
	Text       string
}

// GetStagedDiff returns the staged diff of the first repository provider lists.
// No repository and an empty diff are precondition errors; any other failure
// is a git error. The caller reports whichever error is returned.
func GetStagedDiff(ctx context.Context, provider RepositoryProvider) (*StagedDiff, error) {
	repos, err := provider.Repositories(ctx)
	if err != nil {
		return nil, asGitError(err, apperrors.NewRepositoryLookupError)
	}
	if len(repos) == 0 {
		return nil, apperrors.NewNoRepositoryError()
	}

	repo := repos[0]
	text, err := repo.Diff(ctx, true)
	if err != nil {
		return nil, asGitError(err, apperrors.NewGitError)
	}
	if text == "" {
		return nil, apperrors.NewNoStagedChangesError()
	}

	return &StagedDiff{Repository: repo, Text: text}, nil
}

// asGitError keeps AppErrors from the repository and wraps anything else
// with newErr.
func asGitError(err error, newErr func(error, string) *apperrors.AppError) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return newErr(err, "")
}

// DiffStats summarizes a unified diff.
type DiffStats struct {
	TotalFiles     int
	TotalAdditions int
	TotalDeletions int
	BinaryFiles    int
}

// Summarize counts files and changed lines in unified diff text.
func Summarize(diff string) DiffStats {
	var stats DiffStats
	scanner := bufio.NewScanner(strings.NewReader(diff))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "diff --git "):
			stats.TotalFiles++
		case strings.HasPrefix(line, "Binary files ") && strings.HasSuffix(line, " differ"):
			stats.BinaryFiles++
		case strings.HasPrefix(line, "+++ "), strings.HasPrefix(line, "--- "):
		case strings.HasPrefix(line, "+"):
			stats.TotalAdditions++
		case strings.HasPrefix(line, "-"):
			stats.TotalDeletions++
		}
	}

	return stats
}
