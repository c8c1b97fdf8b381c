package fileops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "victim.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	fo := NewFileOps(zerolog.Nop())
	require.NoError(t, fo.DeleteFile(context.Background(), path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	m := fo.GetMetrics()
	assert.Equal(t, int64(1), m["successful_ops"])
	assert.Equal(t, int64(5), m["bytes_freed"])
}

func TestDeleteFileMissing(t *testing.T) {
	fo := NewFileOps(zerolog.Nop())

	err := fo.DeleteFile(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	assert.ErrorIs(t, err, common.ErrDeletion)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, int64(1), fo.GetMetrics()["failed_ops"])
}

func TestDeleteFileRejectsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	err := NewFileOps(zerolog.Nop()).DeleteFile(context.Background(), sub)
	assert.ErrorIs(t, err, common.ErrDeletion)
	assert.ErrorIs(t, err, common.ErrNotRegularFile)

	_, statErr := os.Stat(sub)
	assert.NoError(t, statErr)
}

func TestDeleteFileInvalidPath(t *testing.T) {
	err := NewFileOps(zerolog.Nop()).DeleteFile(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrDeletion)
	assert.ErrorIs(t, err, common.ErrPathEmpty)
}

func TestDeleteFileCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileOps(zerolog.Nop()).DeleteFile(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestDeleteFilePermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o755))
	path := filepath.Join(locked, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chmod(locked, 0o555))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	err := NewFileOps(zerolog.Nop()).DeleteFile(context.Background(), path)
	assert.ErrorIs(t, err, common.ErrDeletion)
	assert.ErrorIs(t, err, os.ErrPermission)
}
