package archive

import "fmt"

// Defragment relocates every occupied block to a contiguous prefix starting
// at HeaderSize, in FileEntry/block order, then truncates the archive and
// clears the free list (spec.md §4.5.7).
//
// Each block is read into memory before being written to its destination so
// that an aliased source-after-destination read (the destination of an
// earlier block landing on the source of a later one) never observes a
// partially-written block.
func (a *Archive) Defragment() error {
	cursor := int64(HeaderSize)

	for i := range a.fat.NumFiles {
		entry := &a.fat.Files[i]

		for j := range entry.NumBlocks {
			src := int64(entry.BlockPositions[j])

			block, err := readBlock(a.file, src)
			if err != nil {
				return fmt.Errorf("defragment: read block %d of %q: %w", j, entry.Filename, err)
			}

			if err := writeBlock(a.file, cursor, block); err != nil {
				return fmt.Errorf("defragment: relocate block %d of %q: %w", j, entry.Filename, err)
			}

			entry.BlockPositions[j] = uint64(cursor)
			cursor += BlockSize
		}
	}

	a.fat.NumFreeBlocks = 0
	a.fat.FreeBlocks = [MaxFreeBlocks]uint64{}

	if err := a.file.Truncate(cursor); err != nil {
		return fmt.Errorf("defragment: truncate archive to %d: %w", cursor, err)
	}

	return nil
}
