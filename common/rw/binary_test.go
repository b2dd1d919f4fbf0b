package rw

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderWriterMixedRecord(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(-7)
	w.WriteUInt16(0xbeef)
	w.WriteUInt8(200)
	w.WriteFloat32s([]float64{1.5, -2.25})
	w.WriteInt32s([]int{1, 2, 3})

	r := NewReader(w.Bytes())
	assert.Equal(t, -7, r.ReadInt32())
	assert.Equal(t, 0xbeef, r.ReadUInt16())
	assert.Equal(t, 200, r.ReadUInt8())
	fs := make([]float64, 2)
	r.ReadFloat32s(fs)
	assert.Equal(t, []float64{1.5, -2.25}, fs)
	is := make([]int, 3)
	r.ReadInt32s(is)
	assert.Equal(t, []int{1, 2, 3}, is)
	require.NoError(t, r.Err())
	assert.Zero(t, r.Size())
}

func TestReaderStickyError(t *testing.T) {
	r := NewReader([]byte{1, 2})
	assert.Equal(t, 0, r.ReadInt32())
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
	// Later reads keep failing even when enough bytes would be left.
	assert.Equal(t, 0, r.ReadUInt8())
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
}

func TestReaderWriterByteOrder(t *testing.T) {
	w := NewWriter()
	w.ChangeOrder(binary.BigEndian)
	w.WriteUInt16(0x0102)
	assert.Equal(t, []byte{0x01, 0x02}, w.Bytes())
}
