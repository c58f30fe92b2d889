package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockarchiver/bkar/pkg/fs"
)

func openTempFile(t *testing.T) fs.File {
	t.Helper()

	real := fs.NewReal()
	path := filepath.Join(t.TempDir(), "archive.bkar")

	f, err := real.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	require.NoError(t, f.Truncate(HeaderSize))

	return f
}

func Test_Allocate_Returns_Seeded_Slot_Before_Extending(t *testing.T) {
	t.Parallel()

	f := openTempFile(t)
	fat := NewFAT()

	offset, err := allocate(f, fat)
	require.NoError(t, err)
	require.Equal(t, int64(HeaderSize), offset)

	require.Equal(t, uint64(0), fat.FreeBlocks[0], "slot consumed in place")
	require.Equal(t, uint64(1), fat.NumFreeBlocks, "prefix never shrinks")
}

func Test_Allocate_Extends_Archive_When_Free_List_Exhausted(t *testing.T) {
	t.Parallel()

	f := openTempFile(t)
	fat := NewFAT()

	first, err := allocate(f, fat)
	require.NoError(t, err)

	second, err := allocate(f, fat)
	require.NoError(t, err)

	require.Equal(t, first+BlockSize, second, "archive extended by exactly one block")

	info, err := f.Stat()
	require.NoError(t, err)
	require.Equal(t, int64(HeaderSize+2*BlockSize), info.Size())
}

func Test_MarkFree_Then_Allocate_Reuses_The_Freed_Offset(t *testing.T) {
	t.Parallel()

	f := openTempFile(t)
	fat := NewFAT()

	offset, err := allocate(f, fat)
	require.NoError(t, err)

	require.NoError(t, markFree(fat, uint64(offset)))

	reused, err := allocate(f, fat)
	require.NoError(t, err)
	require.Equal(t, offset, reused)
}

func Test_Allocate_Never_Returns_The_Same_Offset_Twice_Without_A_Free(t *testing.T) {
	t.Parallel()

	f := openTempFile(t)
	fat := NewFAT()

	seen := make(map[int64]bool)

	for range 20 {
		offset, err := allocate(f, fat)
		require.NoError(t, err)
		require.False(t, seen[offset], "offset %d allocated twice", offset)

		seen[offset] = true
	}
}
