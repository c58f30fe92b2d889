package archive

import "fmt"

// DeleteFile frees all blocks owned by name's FileEntry and removes it from
// the FAT. Returns ErrNotFound if no entry matches — callers (spec.md §7)
// should report that and continue with remaining names rather than
// aborting (spec.md §4.5.4).
func (a *Archive) DeleteFile(name string) error {
	idx := findEntry(a.fat, name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	entry := a.fat.Files[idx]

	if err := freeEntryBlocks(a.fat, &entry); err != nil {
		return err
	}

	removeEntry(a.fat, idx)

	return nil
}
