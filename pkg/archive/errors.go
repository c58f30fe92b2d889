package archive

import "errors"

// Error classification.
//
// Callers classify errors with errors.Is. Implementations may wrap these
// with additional context via fmt.Errorf("%w: ...").
var (
	// ErrShortHeader indicates the archive is shorter than sizeof(FAT) and
	// cannot possibly contain a valid header (spec.md §4.2).
	ErrShortHeader = errors.New("archive: file too short to contain a header")

	// ErrCorruptHeader indicates the loaded FAT violates one of its hard
	// caps (spec.md §3 invariants 4, 5).
	ErrCorruptHeader = errors.New("archive: corrupt header")

	// ErrFileCapacity indicates the archive already holds MaxFiles entries,
	// or that the free-block list already holds MaxFreeBlocks slots.
	ErrFileCapacity = errors.New("archive: file capacity exceeded")

	// ErrBlockCapacity indicates a FileEntry already owns MaxBlocksPerFile
	// blocks.
	ErrBlockCapacity = errors.New("archive: per-file block capacity exceeded")

	// ErrNotFound indicates a named target has no matching FileEntry.
	ErrNotFound = errors.New("archive: file not found")

	// ErrInputOpen indicates a host input file could not be opened for
	// reading. Callers classify this separately from ErrNotFound so
	// create can treat it as fatal while update/append can skip and
	// continue (spec.md §7).
	ErrInputOpen = errors.New("archive: cannot open input")

	// ErrOutputCreate indicates a host output file could not be created
	// during extraction (spec.md §4.5.2, §7).
	ErrOutputCreate = errors.New("archive: cannot create output")
)
