package archive

// Listing is one FileEntry's printable summary (spec.md §4.5.3).
type Listing struct {
	Filename       string
	FileSize       uint64
	BlockPositions []uint64 // nil unless verbose
}

// List returns a snapshot of every FileEntry in insertion order. Callers
// that want block positions (verbose listing) pass includeBlocks.
func (a *Archive) List(includeBlocks bool) []Listing {
	out := make([]Listing, 0, a.fat.NumFiles)

	for i := range a.fat.NumFiles {
		entry := &a.fat.Files[i]

		l := Listing{Filename: entry.Filename, FileSize: entry.FileSize}
		if includeBlocks {
			l.BlockPositions = append([]uint64(nil), entry.BlockPositions[:entry.NumBlocks]...)
		}

		out = append(out, l)
	}

	return out
}
