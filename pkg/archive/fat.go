package archive

import "fmt"

// findEntry returns the index of the FileEntry named name, or -1.
func findEntry(fat *FAT, name string) int {
	for i := range fat.NumFiles {
		if fat.Files[i].Filename == name {
			return int(i)
		}
	}

	return -1
}

// recordBlock links a newly written block to name's FileEntry, creating the
// entry on first use (spec.md §4.4).
//
// payloadBytes is the number of bytes actually read before any zero-padding
// was applied, so file_size always reflects the logical length rather than
// a multiple of BlockSize.
func recordBlock(fat *FAT, name string, blockPosition int64, payloadBytes int) error {
	idx := findEntry(fat, name)

	if idx < 0 {
		if fat.NumFiles >= MaxFiles {
			return fmt.Errorf("%w: %q", ErrFileCapacity, name)
		}

		idx = int(fat.NumFiles)
		fat.Files[idx] = FileEntry{Filename: name}
		fat.NumFiles++
	}

	entry := &fat.Files[idx]

	if entry.NumBlocks >= MaxBlocksPerFile {
		return fmt.Errorf("%w: %q", ErrBlockCapacity, name)
	}

	entry.BlockPositions[entry.NumBlocks] = uint64(blockPosition)
	entry.NumBlocks++
	entry.FileSize += uint64(payloadBytes)

	return nil
}

// removeEntry deletes the FileEntry at idx, shifting successors left by one
// (spec.md §4.5.4).
func removeEntry(fat *FAT, idx int) {
	for i := idx; i < int(fat.NumFiles)-1; i++ {
		fat.Files[i] = fat.Files[i+1]
	}

	fat.Files[fat.NumFiles-1] = FileEntry{}
	fat.NumFiles--
}

// freeEntryBlocks appends every block offset owned by entry to the free
// list (spec.md §4.3, used by delete and update).
func freeEntryBlocks(fat *FAT, entry *FileEntry) error {
	for i := range entry.NumBlocks {
		if err := markFree(fat, entry.BlockPositions[i]); err != nil {
			return err
		}
	}

	return nil
}
