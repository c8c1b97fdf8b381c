package common

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemErrorUnwrap(t *testing.T) {
	e := NewItemError(ErrFileStat, "/data/a.txt", fs.ErrPermission)

	assert.True(t, errors.Is(e, ErrFileStat))
	assert.True(t, errors.Is(e, fs.ErrPermission))
	assert.False(t, errors.Is(e, ErrHashCompute))
	assert.Equal(t, "file_stat", e.KindName())
	assert.Contains(t, e.Error(), "/data/a.txt")
}

func TestItemErrorJSON(t *testing.T) {
	e := NewItemError(ErrDirectoryRead, "/data/locked", fs.ErrPermission)

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "/data/locked", got["path"])
	assert.Equal(t, "directory_read", got["kind"])
	assert.Equal(t, fs.ErrPermission.Error(), got["error"])
}

func TestValidatePath(t *testing.T) {
	assert.ErrorIs(t, ValidatePath(""), ErrPathEmpty)
	assert.ErrorIs(t, ValidatePath("   "), ErrPathEmpty)
	assert.ErrorIs(t, ValidatePath("a\x00b"), ErrPathInvalid)
	assert.NoError(t, ValidatePath("/tmp/file.txt"))
}

func TestCheckContext(t *testing.T) {
	assert.NoError(t, CheckContext(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, CheckContext(ctx), context.Canceled)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
		{1288490189, "1.2 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.in))
		})
	}
}

func TestExtensionAndHidden(t *testing.T) {
	assert.Equal(t, ".jpg", Extension("Photo.JPG"))
	assert.Equal(t, "", Extension("Makefile"))
	assert.Equal(t, ".gz", Extension("archive.tar.gz"))

	assert.True(t, IsHidden(".git"))
	assert.False(t, IsHidden("src"))
}

func TestWalkMetrics(t *testing.T) {
	var m WalkMetrics
	m.RecordWalk(time.Now(), 10, 3, 1, true)
	m.RecordWalk(time.Now(), 5, 2, 0, false)

	got := m.GetMetrics()
	assert.Equal(t, int64(2), got["total_walks"])
	assert.Equal(t, int64(15), got["total_files"])
	assert.Equal(t, int64(5), got["total_directories"])
	assert.Equal(t, int64(1), got["skipped_items"])
	assert.Equal(t, int64(1), got["failed_ops"])
}

func TestDeletionMetrics(t *testing.T) {
	var m DeletionMetrics
	m.RecordDeletion(true, 100)
	m.RecordDeletion(false, 50)

	got := m.GetMetrics()
	assert.Equal(t, int64(100), got["bytes_freed"])
	assert.Equal(t, int64(1), got["successful_ops"])
	assert.Equal(t, int64(1), got["failed_ops"])
}
