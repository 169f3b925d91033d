package git

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
)

func TestWriterBox(t *testing.T) {
	var buf bytes.Buffer
	box := NewWriterBox(&buf, "stdout")

	require.NoError(t, box.SetValue("feat: add x"))
	assert.Equal(t, "feat: add x\n", buf.String())
	assert.Equal(t, "stdout", box.String())
}

func TestFileBox_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "COMMIT_MSG")
	require.NoError(t, os.WriteFile(path, []byte("old content\n"), 0644))

	box := NewFileBox(path)
	require.NoError(t, box.SetValue("fix: y"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fix: y\n", string(data))
}

func TestFileBox_WriteFailure(t *testing.T) {
	box := NewFileBox(filepath.Join(t.TempDir(), "missing-dir", "msg"))

	err := box.SetValue("fix: y")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrFileSystemError))
	assert.Equal(t, apperrors.CategorySystem, apperrors.GetAppError(err).Category())
}

func TestCommitMessageFile(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		expected string
	}{
		{
			name:     "empty file",
			existing: "",
			expected: "feat: x\n",
		},
		{
			name:     "keeps git comments",
			existing: "\n# Please enter the commit message for your changes.\n# On branch main\n",
			expected: "feat: x\n\n# Please enter the commit message for your changes.\n# On branch main\n",
		},
		{
			name:     "replaces template text",
			existing: "TICKET-: \n\n# comment\n",
			expected: "feat: x\n\n# comment\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
			require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0644))

			box := OpenCommitMessageFile(path, "")
			require.NotNil(t, box)
			require.NoError(t, box.SetValue("feat: x"))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestCommitMessageFile_CustomCommentChar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(path, []byte("# not a comment here\n; status\n"), 0644))

	box := OpenCommitMessageFile(path, ";")
	require.NoError(t, box.SetValue("chore: z"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chore: z\n\n; status\n", string(data))
}

func TestOpenCommitMessageFile_Missing(t *testing.T) {
	box := OpenCommitMessageFile(filepath.Join(t.TempDir(), "nope"), "#")
	assert.Nil(t, box)
}
