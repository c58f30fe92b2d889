package archive

import (
	"errors"
	"io"
)

// StdinName is the reserved filename under which standard input is
// recorded (spec.md §4.5.1, §9 "Standard input as a pseudo-file").
const StdinName = "stdin"

// streamInto reads r in BlockSize-sized chunks, allocating, writing, and
// recording a block for name for each chunk, until r is exhausted
// (spec.md §4.5.1 step 3).
//
// If name already has a FileEntry, new blocks are appended to it — this is
// record_block's name-keyed semantics, used both by append (deliberately)
// and by two create inputs sharing a filename (spec.md's supplemented
// "duplicate filename" behavior).
func streamInto(a *Archive, name string, r io.Reader) error {
	buf := make([]byte, BlockSize)

	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			offset, allocErr := allocate(a.file, a.fat)
			if allocErr != nil {
				return allocErr
			}

			block := buf[:n]
			if n < BlockSize {
				block = padToBlockSize(block)
			}

			if writeErr := writeBlock(a.file, offset, block); writeErr != nil {
				return writeErr
			}

			if recErr := recordBlock(a.fat, name, offset, n); recErr != nil {
				return recErr
			}
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}

		if err != nil {
			return err
		}
	}
}
