package archive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewFAT_Seeds_Single_Free_Slot_Immediately_After_Header(t *testing.T) {
	t.Parallel()

	fat := NewFAT()

	assert.Equal(t, uint64(1), fat.NumFreeBlocks)
	assert.Equal(t, uint64(HeaderSize), fat.FreeBlocks[0])
}

func Test_EncodeDecodeFAT_Roundtrips_When_Given_Populated_Entries(t *testing.T) {
	t.Parallel()

	fat := NewFAT()

	require.NoError(t, recordBlock(fat, "a.txt", HeaderSize, 5))
	require.NoError(t, recordBlock(fat, "big.bin", HeaderSize+BlockSize, BlockSize))

	buf := fat.Encode()
	require.Len(t, buf, HeaderSize)

	got, err := DecodeFAT(buf)
	require.NoError(t, err)

	if diff := cmp.Diff(fat, got); diff != "" {
		t.Fatalf("DecodeFAT(Encode(fat)) mismatch (-want +got):\n%s", diff)
	}
}

func Test_DecodeFAT_Returns_ErrShortHeader_When_Buffer_Too_Small(t *testing.T) {
	t.Parallel()

	_, err := DecodeFAT(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrShortHeader)
}

func Test_FilenameCodec_Truncates_When_Name_Exceeds_Field_Width(t *testing.T) {
	t.Parallel()

	long := make([]byte, MaxFilenameLen+10)
	for i := range long {
		long[i] = 'a'
	}

	dst := make([]byte, MaxFilenameLen)
	encodeFilename(dst, string(long))

	got := decodeFilename(dst)
	assert.Len(t, got, MaxFilenameLen-1)
}

func Test_Validate_Rejects_NumFiles_Above_Cap(t *testing.T) {
	t.Parallel()

	fat := NewFAT()
	fat.NumFiles = MaxFiles + 1

	require.Error(t, fat.Validate())
}

func Test_Validate_Rejects_NumBlocks_Above_Cap(t *testing.T) {
	t.Parallel()

	fat := NewFAT()
	fat.NumFiles = 1
	fat.Files[0].NumBlocks = MaxBlocksPerFile + 1

	require.Error(t, fat.Validate())
}
