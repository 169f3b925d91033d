// Package git finds repositories and reads staged changes through the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
)

const (
	// GitCommandTimeout is the default timeout for git commands.
	GitCommandTimeout = 10 * time.Second

	// DefaultBinary is the git executable looked up on PATH.
	DefaultBinary = "git"
)

// errNotRepository marks a search directory that is not inside a work tree.
var errNotRepository = errors.New("not a git repository")

// Repository is an open repository.
type Repository interface {
	// Root is the absolute path of the work tree.
	Root() string
	// Diff returns the staged (index vs HEAD) or unstaged diff as text.
	Diff(ctx context.Context, staged bool) (string, error)
	// InputBox is where a generated message is delivered, or nil if there is none.
	InputBox() InputBox
}

// RepositoryProvider lists the open repositories, first one preferred.
type RepositoryProvider interface {
	Repositories(ctx context.Context) ([]Repository, error)
}

// Integration locates the version-control integration.
type Integration interface {
	Resolve(ctx context.Context) (RepositoryProvider, error)
}

// Option configures a Client.
type Option func(*Client)

// WithSearchDirs sets the directories searched for repositories, in order.
func WithSearchDirs(dirs ...string) Option {
	return func(c *Client) {
		c.searchDirs = append([]string(nil), dirs...)
	}
}

// WithInputBox sets the message surface attached to every repository found.
func WithInputBox(box InputBox) Option {
	return func(c *Client) {
		c.inputBox = box
	}
}

// WithBinary sets the git executable.
func WithBinary(binary string) Option {
	return func(c *Client) {
		c.binary = binary
	}
}

// Client implements RepositoryProvider by running git.
type Client struct {
	binary     string
	searchDirs []string
	inputBox   InputBox
	timeout    time.Duration
}

// NewClient creates a Client. Without WithSearchDirs it searches the working directory.
func NewClient(opts ...Option) *Client {
	c := &Client{
		binary:  DefaultBinary,
		timeout: GitCommandTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CLI is the Integration backed by the git binary on PATH.
type CLI struct {
	opts []Option
}

// NewCLI creates the git integration. The options are applied to the Client it resolves.
func NewCLI(opts ...Option) *CLI {
	return &CLI{opts: opts}
}

// Resolve checks that git can be executed and returns a Client.
func (i *CLI) Resolve(ctx context.Context) (RepositoryProvider, error) {
	c := NewClient(i.opts...)

	path, err := exec.LookPath(c.binary)
	if err != nil {
		return nil, apperrors.NewGitUnavailableError(err)
	}
	c.binary = path

	apperrors.Debug("git integration: %s", path)
	return c, nil
}

// Repositories returns the distinct work trees containing the search directories.
// Directories outside any repository are skipped.
func (c *Client) Repositories(ctx context.Context) ([]Repository, error) {
	dirs := c.searchDirs
	if len(dirs) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, apperrors.NewRepositoryLookupError(err, "")
		}
		dirs = []string{cwd}
	}

	seen := make(map[string]bool)
	var repos []Repository

	for _, dir := range dirs {
		root, err := c.topLevel(ctx, dir)
		if errors.Is(err, errNotRepository) {
			apperrors.Debug("skipping %s: not inside a git repository", dir)
			continue
		}
		if err != nil {
			return nil, err
		}
		if seen[root] {
			continue
		}
		seen[root] = true

		repos = append(repos, &LocalRepository{
			root:   root,
			client: c,
			box:    c.inputBox,
		})
	}

	return repos, nil
}

func (c *Client) topLevel(ctx context.Context, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errNotRepository
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", errNotRepository
	}

	out, err := c.run(ctx, abs, "rev-parse", "--show-toplevel")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errNotRepository
		}
		return "", asAppError(err, apperrors.NewRepositoryLookupError)
	}

	root := strings.TrimSpace(out)
	if root == "" {
		// Inside .git or a bare repository: no work tree.
		return "", errNotRepository
	}
	return filepath.Clean(root), nil
}

// commandError is a failed git invocation.
type commandError struct {
	args   []string
	stderr string
	err    error
}

func (e *commandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.args, " "), e.err)
	if first, _, _ := strings.Cut(e.stderr, "\n"); first != "" {
		msg += " (" + first + ")"
	}
	return msg
}

func (e *commandError) Unwrap() error {
	return e.err
}

// asAppError converts a run failure with newErr, keeping the command line
// in the error context.
func asAppError(err error, newErr func(error, string) *apperrors.AppError) error {
	var cmdErr *commandError
	if !errors.As(err, &cmdErr) {
		return newErr(err, "")
	}
	return newErr(cmdErr.err, cmdErr.stderr).
		WithContext("command", "git "+strings.Join(cmdErr.args, " "))
}

// run executes git in dir and returns stdout. Failures are *commandError
// values carrying stderr.
func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("git %s timed out after %v", args[0], c.timeout)
		}
		return "", &commandError{args: args, stderr: strings.TrimSpace(stderr.String()), err: err}
	}

	return stdout.String(), nil
}

// LocalRepository is a work tree on disk.
type LocalRepository struct {
	root   string
	client *Client
	box    InputBox
}

// Root returns the absolute path of the work tree.
func (r *LocalRepository) Root() string {
	return r.root
}

// InputBox returns the repository's message surface, or nil.
func (r *LocalRepository) InputBox() InputBox {
	return r.box
}

// Diff returns git diff output; staged selects the index against HEAD.
func (r *LocalRepository) Diff(ctx context.Context, staged bool) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}
	out, err := r.client.run(ctx, r.root, args...)
	if err != nil {
		return "", asAppError(err, apperrors.NewGitError)
	}
	return out, nil
}

// GitPath resolves a path inside the repository's git directory, honoring
// settings such as core.hooksPath.
func (r *LocalRepository) GitPath(ctx context.Context, name string) (string, error) {
	out, err := r.client.run(ctx, r.root, "rev-parse", "--git-path", name)
	if err != nil {
		return "", fmt.Errorf("resolve git path %s: %w", name, err)
	}

	p := strings.TrimSpace(out)
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.root, p)
	}
	return filepath.Clean(p), nil
}
