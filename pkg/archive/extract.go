package archive

import (
	"fmt"
	"path/filepath"

	"github.com/blockarchiver/bkar/pkg/fs"
)

// ExtractFailure records a per-entry failure during ExtractAll that did not
// abort the overall operation (spec.md §4.5.2, §7).
type ExtractFailure struct {
	Filename string
	Err      error
}

// ExtractAll writes every FileEntry in the archive to a host file of the
// same name inside destDir. An entry whose output file cannot be created is
// skipped and reported; extraction continues with the remaining entries
// (spec.md §4.5.2).
func (a *Archive) ExtractAll(fsys fs.FS, destDir string) []ExtractFailure {
	var failures []ExtractFailure

	for i := range a.fat.NumFiles {
		entry := &a.fat.Files[i]

		if err := a.extractEntry(fsys, destDir, entry); err != nil {
			failures = append(failures, ExtractFailure{Filename: entry.Filename, Err: err})
		}
	}

	return failures
}

// ReadFile returns the full content of name without writing it to a host
// file, for callers (such as the interactive browser) that just want the
// bytes. Returns ErrNotFound if name has no entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	idx := findEntry(a.fat, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	entry := &a.fat.Files[idx]

	buf := make([]byte, 0, entry.FileSize)
	remaining := entry.FileSize

	for i := range entry.NumBlocks {
		block, err := readBlock(a.file, int64(entry.BlockPositions[i]))
		if err != nil {
			return nil, fmt.Errorf("read block %d of %q: %w", i, name, err)
		}

		n := BlockSize
		if remaining < uint64(n) {
			n = int(remaining)
		}

		buf = append(buf, block[:n]...)
		remaining -= uint64(n)
	}

	return buf, nil
}

func (a *Archive) extractEntry(fsys fs.FS, destDir string, entry *FileEntry) error {
	outPath := filepath.Join(destDir, entry.Filename)

	if err := fsys.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrOutputCreate, entry.Filename, err)
	}

	out, err := fsys.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrOutputCreate, entry.Filename, err)
	}
	defer out.Close()

	remaining := entry.FileSize

	for i := range entry.NumBlocks {
		block, err := readBlock(a.file, int64(entry.BlockPositions[i]))
		if err != nil {
			return fmt.Errorf("read block %d of %q: %w", i, entry.Filename, err)
		}

		n := BlockSize
		if remaining < uint64(n) {
			n = int(remaining)
		}

		if _, err := out.Write(block[:n]); err != nil {
			return fmt.Errorf("write output %q: %w", entry.Filename, err)
		}

		remaining -= uint64(n)
	}

	return nil
}
