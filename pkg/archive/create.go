package archive

import (
	"fmt"
	"io"

	"github.com/blockarchiver/bkar/pkg/fs"
)

// AddFile opens hostPath on fsys and streams its content into the archive
// under name (spec.md §4.5.1 step 3, also used by append and defragment's
// sibling operations).
//
// If name already has a FileEntry (e.g. two create inputs sharing a
// filename, or append targeting an existing name), the new blocks are
// appended to it rather than replacing it — record_block's name-keyed
// semantics (spec.md §4.4): duplicate filenames within one create/append
// invocation concatenate their bytes, block-for-block, in input order.
func (a *Archive) AddFile(fsys fs.FS, name, hostPath string) error {
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

// AddReader streams r into the archive under name. Used for standard input
// (spec.md §4.5.1, §9) and by the CLI when a caller already has an open
// reader.
func (a *Archive) AddReader(name string, r io.Reader) error {
	if err := streamInto(a, name, r); err != nil {
		return fmt.Errorf("streaming %q into archive: %w", name, err)
	}

	return nil
}
