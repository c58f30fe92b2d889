package archive

import (
	"fmt"
	"io"

	"github.com/blockarchiver/bkar/pkg/fs"
)

// readBlock repositions to offset and reads exactly BlockSize bytes
// (spec.md §4.1).
func readBlock(f fs.File, offset int64) ([]byte, error) {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to block at %d: %w", offset, err)
	}

	buf := make([]byte, BlockSize)

	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("read block at %d: %w", offset, err)
	}

	return buf, nil
}

// writeBlock repositions to offset and writes exactly BlockSize bytes,
// overwriting any previous content there. Callers must zero-pad block to
// BlockSize themselves (spec.md §4.1).
func writeBlock(f fs.File, offset int64, block []byte) error {
	if len(block) != BlockSize {
		return fmt.Errorf("writeBlock: block is %d bytes, want %d", len(block), BlockSize)
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to block at %d: %w", offset, err)
	}

	if _, err := f.Write(block); err != nil {
		return fmt.Errorf("write block at %d: %w", offset, err)
	}

	return nil
}

// extendByOneBlock grows the archive by exactly one block and returns the
// offset of the newly added block — the only way the archive grows
// (spec.md §4.1).
func extendByOneBlock(f fs.File) (int64, error) {
	length, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek to end: %w", err)
	}

	if err := f.Truncate(length + BlockSize); err != nil {
		return 0, fmt.Errorf("extend archive by one block: %w", err)
	}

	return length, nil
}

// padToBlockSize returns a BlockSize-length copy of payload with trailing
// bytes zero-filled.
func padToBlockSize(payload []byte) []byte {
	if len(payload) == BlockSize {
		return payload
	}

	buf := make([]byte, BlockSize)
	copy(buf, payload)

	return buf
}
