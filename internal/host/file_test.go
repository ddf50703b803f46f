package host

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_HTMLInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>Hi</p>"), 0o600))

	f := NewFile(path)
	b := NewBridge(f)
	ctx := context.Background()

	body, err := b.ReadBody(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi</p>", body)

	require.NoError(t, b.WriteBody(ctx, "<p>Hello,</p>"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello,</p>", string(data))
	assert.Equal(t, path, f.OutputPath())
}

func TestFile_WriteKeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()
	ctx := context.Background()

	existing := filepath.Join(dir, "draft.html")
	require.NoError(t, os.WriteFile(existing, []byte("<p>Hi</p>"), 0o600))
	require.NoError(t, os.Chmod(existing, 0o640))

	require.NoError(t, NewBridge(NewFile(existing)).WriteBody(ctx, "<p>Hello,</p>"))
	fi, err := os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())

	src := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(src, []byte("Hi"), 0o600))
	f := NewFile(src)
	require.NoError(t, NewBridge(f).WriteBody(ctx, "<p>Hi</p>"))
	fi, err = os.Stat(f.OutputPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
}

func TestFile_MarkdownRendersAndWritesAside(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(src, []byte("Hi **there**"), 0o600))

	f := NewFile(src)
	assert.Equal(t, filepath.Join(dir, "note.html"), f.OutputPath())

	b := NewBridge(f)
	ctx := context.Background()

	body, err := b.ReadBody(ctx)
	require.NoError(t, err)
	assert.Contains(t, body, "<strong>there</strong>")

	require.NoError(t, b.WriteBody(ctx, "<p>Hello there</p>"))

	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "Hi **there**", string(original))

	body, err = b.ReadBody(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello there</p>", body)
}

func TestFile_CustomOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "note.markdown")
	out := filepath.Join(dir, "out.html")
	require.NoError(t, os.WriteFile(src, []byte("Hi"), 0o600))

	f := NewFile(src, WithOutputPath(out))
	require.NoError(t, NewBridge(f).WriteBody(context.Background(), "<p>x</p>"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(data))
}

func TestFile_Missing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.html"))

	_, err := NewBridge(f).ReadBody(context.Background())
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrNameNotFound, opErr.Err.Name)
	assert.Equal(t, 404, opErr.Err.Code)
}

func TestFile_WriteIntoMissingDir(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "nope", "draft.html"))

	err := NewBridge(f).WriteBody(context.Background(), "<p>x</p>")
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpWriteBody, opErr.Op)
	assert.Equal(t, ErrNameWriteFail, opErr.Err.Name)
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, IsMarkdown("a.md"))
	assert.True(t, IsMarkdown("a.MARKDOWN"))
	assert.False(t, IsMarkdown("a.html"))
	assert.False(t, IsMarkdown("md"))
}
