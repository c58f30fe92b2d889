package archive

import "encoding/binary"

// On-disk layout constants (spec.md §3, §6.1).
const (
	// BlockSize is the fixed size in bytes of every data block.
	BlockSize = 262144

	// MaxFiles is the maximum number of FileEntry records the FAT can hold.
	MaxFiles = 100

	// MaxBlocksPerFile is the maximum number of block positions a single
	// FileEntry can own.
	MaxBlocksPerFile = 64

	// MaxFreeBlocks is the capacity of the free-block list: one slot per
	// block any file could ever occupy.
	MaxFreeBlocks = MaxFiles * MaxBlocksPerFile

	// MaxFilenameLen is the fixed width of the filename field, including
	// its NUL terminator.
	MaxFilenameLen = 256
)

// Field widths, in bytes, of a serialized FileEntry.
const (
	entryFilenameWidth       = MaxFilenameLen
	entryFileSizeWidth       = 8
	entryBlockPositionsWidth = MaxBlocksPerFile * 8
	entryNumBlocksWidth      = 8

	entrySize = entryFilenameWidth + entryFileSizeWidth + entryBlockPositionsWidth + entryNumBlocksWidth
)

// Offsets of a FileEntry's fields within its entrySize-byte slot.
const (
	offEntryFilename       = 0
	offEntryFileSize       = offEntryFilename + entryFilenameWidth
	offEntryBlockPositions = offEntryFileSize + entryFileSizeWidth
	offEntryNumBlocks      = offEntryBlockPositions + entryBlockPositionsWidth
)

// Offsets of the FAT's top-level fields.
const (
	offNumFiles      = 0
	offFiles         = offNumFiles + 8
	offNumFreeBlocks = offFiles + MaxFiles*entrySize
	offFreeBlocks    = offNumFreeBlocks + 8

	// HeaderSize is sizeof(FAT): the number of bytes the serialized header
	// occupies at offset 0. All data blocks live at offsets >= HeaderSize
	// (spec.md §3 invariant 1).
	HeaderSize = offFreeBlocks + MaxFreeBlocks*8
)

// FileEntry describes one logical file stored in the archive (spec.md §3).
type FileEntry struct {
	// Filename is the stored name, truncated to MaxFilenameLen-1 bytes plus
	// a NUL terminator.
	Filename string

	// FileSize is the logical length of the original file in bytes.
	FileSize uint64

	// BlockPositions holds the archive-absolute byte offset of each of this
	// file's blocks, in logical order. Only the first NumBlocks entries are
	// valid.
	BlockPositions [MaxBlocksPerFile]uint64

	// NumBlocks is the count of valid entries in BlockPositions.
	NumBlocks uint64
}

// FAT is the archive header written at offset 0 (spec.md §3).
type FAT struct {
	NumFiles uint64
	Files    [MaxFiles]FileEntry

	NumFreeBlocks uint64
	// FreeBlocks holds the first NumFreeBlocks known-free block offsets. A
	// zero entry within that prefix means the slot has already been
	// consumed by an allocation (spec.md §4.3).
	FreeBlocks [MaxFreeBlocks]uint64
}

// NewFAT returns a zeroed FAT seeded with the allocator's initial free
// slot, as produced by create (spec.md §4.3 "Initial state after create").
func NewFAT() *FAT {
	fat := &FAT{}
	fat.FreeBlocks[0] = HeaderSize
	fat.NumFreeBlocks = 1

	return fat
}

// encodeFilename copies name into a fixed-width, NUL-terminated field,
// truncating if necessary to fit MaxFilenameLen-1 bytes plus the
// terminator.
func encodeFilename(dst []byte, name string) {
	max := MaxFilenameLen - 1
	if len(name) > max {
		name = name[:max]
	}

	copy(dst, name)
	// Remaining bytes, including the terminator, are left zero.
}

func decodeFilename(src []byte) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}

	return string(src[:n])
}

func encodeEntry(dst []byte, e *FileEntry) {
	encodeFilename(dst[offEntryFilename:offEntryFilename+entryFilenameWidth], e.Filename)
	binary.LittleEndian.PutUint64(dst[offEntryFileSize:], e.FileSize)

	base := offEntryBlockPositions
	for i := range MaxBlocksPerFile {
		binary.LittleEndian.PutUint64(dst[base+i*8:], e.BlockPositions[i])
	}

	binary.LittleEndian.PutUint64(dst[offEntryNumBlocks:], e.NumBlocks)
}

func decodeEntry(src []byte) FileEntry {
	var e FileEntry

	e.Filename = decodeFilename(src[offEntryFilename : offEntryFilename+entryFilenameWidth])
	e.FileSize = binary.LittleEndian.Uint64(src[offEntryFileSize:])

	base := offEntryBlockPositions
	for i := range MaxBlocksPerFile {
		e.BlockPositions[i] = binary.LittleEndian.Uint64(src[base+i*8:])
	}

	e.NumBlocks = binary.LittleEndian.Uint64(src[offEntryNumBlocks:])

	return e
}

// Encode serializes the FAT to a HeaderSize-byte slice, to be written at
// archive offset 0 (spec.md §4.2).
func (fat *FAT) Encode() []byte {
	buf := make([]byte, HeaderSize)

	binary.LittleEndian.PutUint64(buf[offNumFiles:], fat.NumFiles)

	for i := range MaxFiles {
		entryOff := offFiles + i*entrySize
		encodeEntry(buf[entryOff:entryOff+entrySize], &fat.Files[i])
	}

	binary.LittleEndian.PutUint64(buf[offNumFreeBlocks:], fat.NumFreeBlocks)

	for i := range MaxFreeBlocks {
		binary.LittleEndian.PutUint64(buf[offFreeBlocks+i*8:], fat.FreeBlocks[i])
	}

	return buf
}

// DecodeFAT deserializes a HeaderSize-byte slice read from archive offset 0.
//
// DecodeFAT does not validate NumFiles/NumFreeBlocks against their caps;
// callers that load an untrusted archive should check those with
// [FAT.Validate].
func DecodeFAT(buf []byte) (*FAT, error) {
	if len(buf) < HeaderSize {
		return nil, ErrShortHeader
	}

	fat := &FAT{}
	fat.NumFiles = binary.LittleEndian.Uint64(buf[offNumFiles:])

	for i := range MaxFiles {
		entryOff := offFiles + i*entrySize
		fat.Files[i] = decodeEntry(buf[entryOff : entryOff+entrySize])
	}

	fat.NumFreeBlocks = binary.LittleEndian.Uint64(buf[offNumFreeBlocks:])

	for i := range MaxFreeBlocks {
		fat.FreeBlocks[i] = binary.LittleEndian.Uint64(buf[offFreeBlocks+i*8:])
	}

	return fat, nil
}

// Validate checks the loaded FAT's counters against the format's hard caps
// (spec.md §3 invariants 4 and 5).
func (fat *FAT) Validate() error {
	if fat.NumFiles > MaxFiles {
		return ErrCorruptHeader
	}

	for i := range fat.NumFiles {
		if fat.Files[i].NumBlocks > MaxBlocksPerFile {
			return ErrCorruptHeader
		}
	}

	if fat.NumFreeBlocks > MaxFreeBlocks {
		return ErrCorruptHeader
	}

	return nil
}
