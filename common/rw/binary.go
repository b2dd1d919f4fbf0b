package rw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReaderWriter is a fixed-width binary codec over an in-memory buffer.
// The first read failure is kept and every later read returns zero, so a
// decoder can read a whole record and check Err once at the end.
type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	rw      bytes.Buffer
	err     error
}

func NewWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewReader(data []byte) *ReaderWriter {
	d := &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
	d.rw.Write(data)
	return d
}

// Err returns the first read error, if any.
func (w *ReaderWriter) Err() error {
	return w.err
}

func (w *ReaderWriter) read(n int) []byte {
	if w.err != nil {
		return nil
	}
	if _, err := io.ReadFull(&w.rw, w.dataBuf[:n]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		w.err = fmt.Errorf("rw: read %d bytes: %w", n, err)
		return nil
	}
	return w.dataBuf[:n]
}

func (w *ReaderWriter) ReadUInt8() int {
	b := w.read(1)
	if b == nil {
		return 0
	}
	return int(b[0])
}

func (w *ReaderWriter) ReadUInt8s(value []int) {
	for i := range value {
		value[i] = w.ReadUInt8()
	}
}

func (w *ReaderWriter) ReadUInt16() int {
	b := w.read(2)
	if b == nil {
		return 0
	}
	return int(w.order.Uint16(b))
}

func (w *ReaderWriter) ReadUInt16s(value []int) {
	for i := range value {
		value[i] = w.ReadUInt16()
	}
}

func (w *ReaderWriter) ReadInt32() int {
	b := w.read(4)
	if b == nil {
		return 0
	}
	return int(int32(w.order.Uint32(b)))
}

func (w *ReaderWriter) ReadInt32s(value []int) {
	for i := range value {
		value[i] = w.ReadInt32()
	}
}

func (w *ReaderWriter) ReadFloat32() float64 {
	b := w.read(4)
	if b == nil {
		return 0
	}
	return float64(math.Float32frombits(w.order.Uint32(b)))
}

func (w *ReaderWriter) ReadFloat32s(value []float64) {
	for i := range value {
		value[i] = w.ReadFloat32()
	}
}

func (w *ReaderWriter) WriteUInt8(v int) {
	w.rw.WriteByte(byte(v))
}

func (w *ReaderWriter) WriteUInt8s(value []int) {
	for _, v := range value {
		w.WriteUInt8(v)
	}
}

func (w *ReaderWriter) WriteUInt16(v int) {
	w.order.PutUint16(w.dataBuf, uint16(v))
	w.rw.Write(w.dataBuf[:2])
}

func (w *ReaderWriter) WriteUInt16s(value []int) {
	for _, v := range value {
		w.WriteUInt16(v)
	}
}

func (w *ReaderWriter) WriteInt32(v int) {
	w.order.PutUint32(w.dataBuf, uint32(int32(v)))
	w.rw.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteInt32s(value []int) {
	for _, v := range value {
		w.WriteInt32(v)
	}
}

func (w *ReaderWriter) WriteFloat32(v float64) {
	w.order.PutUint32(w.dataBuf, math.Float32bits(float32(v)))
	w.rw.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteFloat32s(value []float64) {
	for _, v := range value {
		w.WriteFloat32(v)
	}
}

// Bytes returns the unread portion of the buffer.
func (w *ReaderWriter) Bytes() []byte {
	return w.rw.Bytes()
}

func (w *ReaderWriter) ChangeOrder(order binary.ByteOrder) {
	w.order = order
}

func (w *ReaderWriter) Size() int {
	return w.rw.Len()
}
