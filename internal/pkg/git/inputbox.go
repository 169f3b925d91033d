package git

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
)

// InputBox is a commit-message field. SetValue replaces its contents.
type InputBox interface {
	SetValue(message string) error
	String() string
}

// WriterBox prints the message to a stream, one message per line block.
type WriterBox struct {
	mu   sync.Mutex
	w    io.Writer
	name string
}

// NewWriterBox creates an InputBox that writes to w.
func NewWriterBox(w io.Writer, name string) *WriterBox {
	return &WriterBox{w: w, name: name}
}

// SetValue writes message followed by a newline.
func (b *WriterBox) SetValue(message string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := fmt.Fprintln(b.w, message); err != nil {
		return apperrors.NewFileSystemError(err, b.name)
	}
	return nil
}

func (b *WriterBox) String() string {
	return b.name
}

// FileBox overwrites a file with the message.
type FileBox struct {
	path string
}

// NewFileBox creates an InputBox backed by path.
func NewFileBox(path string) *FileBox {
	return &FileBox{path: path}
}

// SetValue replaces the file's contents with message and a trailing newline.
func (b *FileBox) SetValue(message string) error {
	if err := os.WriteFile(b.path, []byte(message+"\n"), 0644); err != nil {
		return apperrors.NewFileSystemError(err, b.path)
	}
	return nil
}

func (b *FileBox) String() string {
	return b.path
}

// CommitMessageFile is the file git passes to prepare-commit-msg.
// Git may have filled it with comment lines or a template; the message is
// placed above any comment block and replaces whatever text preceded it.
type CommitMessageFile struct {
	path        string
	commentChar string
}

// OpenCommitMessageFile opens the hook's message file. It returns a nil
// InputBox when the file does not exist.
func OpenCommitMessageFile(path, commentChar string) InputBox {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if commentChar == "" {
		commentChar = "#"
	}
	return &CommitMessageFile{path: path, commentChar: commentChar}
}

// SetValue writes message above git's comment lines.
func (b *CommitMessageFile) SetValue(message string) error {
	existing, err := os.ReadFile(b.path)
	if err != nil {
		return apperrors.NewFileSystemError(err, b.path)
	}

	var sb strings.Builder
	sb.WriteString(message)
	sb.WriteString("\n")

	if comments := trailingComments(string(existing), b.commentChar); comments != "" {
		sb.WriteString("\n")
		sb.WriteString(comments)
	}

	if err := os.WriteFile(b.path, []byte(sb.String()), 0644); err != nil {
		return apperrors.NewFileSystemError(err, b.path)
	}
	return nil
}

func (b *CommitMessageFile) String() string {
	return b.path
}

// trailingComments returns the content from the first comment line on,
// which is where git's instructions and status begin.
func trailingComments(content, commentChar string) string {
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, commentChar) {
			return strings.Join(lines[i:], "")
		}
	}
	return ""
}
