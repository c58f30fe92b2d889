package archive

import (
	"fmt"

	"github.com/blockarchiver/bkar/pkg/fs"
)

// allocate picks a free block offset, extending the archive if none is
// available (spec.md §4.3).
//
// Scanning is linear over FreeBlocks[0:NumFreeBlocks]; a non-zero entry is
// consumed in place by zeroing it, which intentionally never shrinks
// NumFreeBlocks — consumed slots stay as zero holes rather than being
// compacted out.
func allocate(f fs.File, fat *FAT) (int64, error) {
	for i := range fat.NumFreeBlocks {
		if fat.FreeBlocks[i] != 0 {
			offset := int64(fat.FreeBlocks[i])

			// A free slot may lie past the end of the file (NewFAT's seed
			// before any block is written); grow the file to cover it so a
			// later extension never returns the same offset.
			info, err := f.Stat()
			if err != nil {
				return 0, fmt.Errorf("stat archive: %w", err)
			}

			if info.Size() < offset+BlockSize {
				if err := f.Truncate(offset + BlockSize); err != nil {
					return 0, fmt.Errorf("extend archive to cover block at %d: %w", offset, err)
				}
			}

			fat.FreeBlocks[i] = 0

			return offset, nil
		}
	}

	offset, err := extendByOneBlock(f)
	if err != nil {
		return 0, err
	}

	if fat.NumFreeBlocks >= MaxFreeBlocks {
		return 0, ErrFileCapacity
	}

	fat.FreeBlocks[fat.NumFreeBlocks] = uint64(offset)
	fat.NumFreeBlocks++

	// Every earlier slot is zero, so a rescan would find only the slot just
	// pushed; it is consumed directly instead of scanning again.
	idx := fat.NumFreeBlocks - 1
	fat.FreeBlocks[idx] = 0

	return offset, nil
}

// markFree appends offset to the free list (spec.md §4.3). Used by delete
// and update to release a file's blocks back to the allocator.
func markFree(fat *FAT, offset uint64) error {
	if fat.NumFreeBlocks >= MaxFreeBlocks {
		return ErrFileCapacity
	}

	fat.FreeBlocks[fat.NumFreeBlocks] = offset
	fat.NumFreeBlocks++

	return nil
}
