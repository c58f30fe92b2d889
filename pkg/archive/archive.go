// Package archive implements the block-addressed archive format: a
// fixed-size allocation table (the FAT) at offset 0 followed by fixed-size
// data blocks, and the operations that read and mutate it.
package archive

import (
	"fmt"
	"os"

	"github.com/blockarchiver/bkar/pkg/fs"
)

// Archive is an open archive file together with its in-memory FAT.
//
// An Archive is not safe for concurrent use; callers that need
// single-writer coordination across processes should pair it with an
// advisory lock (see internal/cli/lock.go).
type Archive struct {
	file fs.File
	fat  *FAT
}

// Create creates or truncates the archive file at path and writes a freshly
// seeded FAT (spec.md §4.5.1 steps 1-2).
func Create(fsys fs.FS, path string) (*Archive, error) {
	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create archive %q: %w", path, err)
	}

	fat := NewFAT()

	a := &Archive{file: f, fat: fat}
	if err := a.Save(); err != nil {
		_ = f.Close()

		return nil, err
	}

	return a, nil
}

// Open loads an existing archive's FAT into memory (spec.md §4.2).
func Open(fsys fs.FS, path string) (*Archive, error) {
	f, err := fsys.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", path, err)
	}

	a := &Archive{file: f}

	if err := a.load(); err != nil {
		_ = f.Close()

		return nil, err
	}

	return a, nil
}

// OpenReadOnly loads an existing archive's FAT for read-only operations
// (extract, list).
func OpenReadOnly(fsys fs.FS, path string) (*Archive, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", path, err)
	}

	a := &Archive{file: f}

	if err := a.load(); err != nil {
		_ = f.Close()

		return nil, err
	}

	return a, nil
}

func (a *Archive) load() error {
	buf, err := readHeaderBytes(a.file)
	if err != nil {
		return err
	}

	fat, err := DecodeFAT(buf)
	if err != nil {
		return err
	}

	if err := fat.Validate(); err != nil {
		return err
	}

	a.fat = fat

	return nil
}

func readHeaderBytes(f fs.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	if info.Size() < HeaderSize {
		return nil, ErrShortHeader
	}

	buf, err := readBlockRange(f, 0, HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	return buf, nil
}

// readBlockRange reads exactly n bytes starting at offset, independent of
// BlockSize (the FAT is not itself block-aligned).
func readBlockRange(f fs.File, offset int64, n int) ([]byte, error) {
	if _, err := f.Seek(offset, 0); err != nil {
		return nil, err
	}

	buf := make([]byte, n)

	read := 0
	for read < n {
		m, err := f.Read(buf[read:])
		if m > 0 {
			read += m
		}

		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// Save rewrites the FAT at archive offset 0 (spec.md §4.5.1 step 4 and
// analogous final steps of every mutating operation).
func (a *Archive) Save() error {
	buf := a.fat.Encode()

	if _, err := a.file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}

	if _, err := a.file.Write(buf); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return nil
}

// FAT returns the archive's in-memory header for read-only inspection.
func (a *Archive) FAT() *FAT {
	return a.fat
}

// Close releases the archive's file descriptor.
func (a *Archive) Close() error {
	return a.file.Close()
}
