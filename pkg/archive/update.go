package archive

import (
	"fmt"

	"github.com/blockarchiver/bkar/pkg/fs"
)

// UpdateFile replaces name's content with the current content of hostPath:
// its existing blocks are freed, then the file is re-streamed into the same
// FileEntry with NumBlocks and FileSize reset to zero before streaming
// (spec.md §4.5.5). Returns ErrNotFound if name has no existing entry.
func (a *Archive) UpdateFile(fsys fs.FS, name, hostPath string) error {
	idx := findEntry(a.fat, name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	entry := &a.fat.Files[idx]

	if err := freeEntryBlocks(a.fat, entry); err != nil {
		return err
	}

	entry.NumBlocks = 0
	entry.FileSize = 0
	entry.BlockPositions = [MaxBlocksPerFile]uint64{}

	f, err := fsys.Open(hostPath)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInputOpen, hostPath, err)
	}
	defer f.Close()

	if err := streamInto(a, name, f); err != nil {
		return fmt.Errorf("streaming %q into archive: %w", hostPath, err)
	}

	return nil
}
