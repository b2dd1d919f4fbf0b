// Package message encodes contour sets in the protobuf wire format
// described by contour.proto.
package message

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorustyt/navcontour/recast"
	"google.golang.org/protobuf/encoding/protowire"
)

// ContourSet fields.
const (
	contourSetContours   protowire.Number = 1
	contourSetBmin       protowire.Number = 2
	contourSetBmax       protowire.Number = 3
	contourSetCs         protowire.Number = 4
	contourSetCh         protowire.Number = 5
	contourSetWidth      protowire.Number = 6
	contourSetHeight     protowire.Number = 7
	contourSetBorderSize protowire.Number = 8
	contourSetMaxError   protowire.Number = 9
)

// Contour fields.
const (
	contourVerts  protowire.Number = 1
	contourRVerts protowire.Number = 2
	contourReg    protowire.Number = 3
	contourArea   protowire.Number = 4
)

var ErrMalformed = errors.New("message: malformed contour set")

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendInt32(b []byte, num protowire.Number, v int) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(int32(v))))
}

func appendVec3(b []byte, num protowire.Number, v mgl64.Vec3) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(8*len(v)))
	for _, f := range v {
		b = protowire.AppendFixed64(b, math.Float64bits(f))
	}
	return b
}

func appendVerts(b []byte, num protowire.Number, verts []recast.RcContourVertex) []byte {
	var packed []byte
	for _, v := range verts {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v.X)))
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v.Y)))
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v.Z)))
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v.Flags.Pack())))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

func encodeContour(cont *recast.RcContour) []byte {
	var b []byte
	b = appendVerts(b, contourVerts, cont.Verts)
	b = appendVerts(b, contourRVerts, cont.RVerts)
	b = appendInt32(b, contourReg, cont.Reg)
	b = appendInt32(b, contourArea, cont.Area)
	return b
}

// EncodeContourSet returns the wire form of cset.
func EncodeContourSet(cset *recast.RcContourSet) []byte {
	var b []byte
	for _, cont := range cset.Conts {
		b = protowire.AppendTag(b, contourSetContours, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeContour(cont))
	}
	b = appendVec3(b, contourSetBmin, cset.Bmin)
	b = appendVec3(b, contourSetBmax, cset.Bmax)
	b = appendDouble(b, contourSetCs, cset.Cs)
	b = appendDouble(b, contourSetCh, cset.Ch)
	b = appendInt32(b, contourSetWidth, cset.Width)
	b = appendInt32(b, contourSetHeight, cset.Height)
	b = appendInt32(b, contourSetBorderSize, cset.BorderSize)
	b = appendDouble(b, contourSetMaxError, cset.MaxError)
	return b
}

func malformed(what string, n int) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, what, protowire.ParseError(n))
}

// consumeSint32s appends the values of one occurrence of a repeated sint32
// field, packed or not, and returns the number of bytes consumed.
func consumeSint32s(dst []int, typ protowire.Type, b []byte) ([]int, int) {
	if typ == protowire.VarintType {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return dst, n
		}
		return append(dst, int(protowire.DecodeZigZag(v))), n
	}
	packed, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return dst, n
	}
	for len(packed) > 0 {
		v, m := protowire.ConsumeVarint(packed)
		if m < 0 {
			return dst, m
		}
		dst = append(dst, int(protowire.DecodeZigZag(v)))
		packed = packed[m:]
	}
	return dst, n
}

// consumeDoubles is consumeSint32s for repeated double fields.
func consumeDoubles(dst []float64, typ protowire.Type, b []byte) ([]float64, int) {
	if typ == protowire.Fixed64Type {
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return dst, n
		}
		return append(dst, math.Float64frombits(v)), n
	}
	packed, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return dst, n
	}
	for len(packed) > 0 {
		v, m := protowire.ConsumeFixed64(packed)
		if m < 0 {
			return dst, m
		}
		dst = append(dst, math.Float64frombits(v))
		packed = packed[m:]
	}
	return dst, n
}

func toVec3(vals []float64) (v mgl64.Vec3, err error) {
	if len(vals) != len(v) {
		return v, fmt.Errorf("%w: vector of %d components", ErrMalformed, len(vals))
	}
	copy(v[:], vals)
	return v, nil
}

func toVerts(vals []int) ([]recast.RcContourVertex, error) {
	if len(vals)%4 != 0 {
		return nil, fmt.Errorf("%w: %d vertex values", ErrMalformed, len(vals))
	}
	if len(vals) == 0 {
		return nil, nil
	}
	verts := make([]recast.RcContourVertex, len(vals)/4)
	for i := range verts {
		v := vals[i*4:]
		verts[i] = recast.RcContourVertex{X: v[0], Y: v[1], Z: v[2], Flags: recast.RcUnpackVertexFlags(v[3])}
	}
	return verts, nil
}

func isSint32s(typ protowire.Type) bool {
	return typ == protowire.VarintType || typ == protowire.BytesType
}

func isDoubles(typ protowire.Type) bool {
	return typ == protowire.Fixed64Type || typ == protowire.BytesType
}

func decodeContour(b []byte) (*recast.RcContour, error) {
	cont := &recast.RcContour{}
	var verts, rverts []int
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed("contour tag", n)
		}
		b = b[n:]

		switch {
		case num == contourVerts && isSint32s(typ):
			verts, n = consumeSint32s(verts, typ, b)
		case num == contourRVerts && isSint32s(typ):
			rverts, n = consumeSint32s(rverts, typ, b)
		case num == contourReg && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			cont.Reg = int(int32(v))
		case num == contourArea && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			cont.Area = int(int32(v))
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, malformed(fmt.Sprintf("contour field %d", num), n)
		}
		b = b[n:]
	}

	var err error
	if cont.Verts, err = toVerts(verts); err != nil {
		return nil, err
	}
	if cont.RVerts, err = toVerts(rverts); err != nil {
		return nil, err
	}
	return cont, nil
}

// DecodeContourSet parses the wire form produced by EncodeContourSet.
// Repeated fields are accepted packed or unpacked, and split occurrences are
// concatenated. Unknown fields are skipped.
func DecodeContourSet(b []byte) (*recast.RcContourSet, error) {
	cset := &recast.RcContourSet{}
	var bmin, bmax []float64
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed("contour set tag", n)
		}
		b = b[n:]

		switch {
		case num == contourSetContours && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				cont, err := decodeContour(v)
				if err != nil {
					return nil, err
				}
				cset.Conts = append(cset.Conts, cont)
			}
		case num == contourSetBmin && isDoubles(typ):
			bmin, n = consumeDoubles(bmin, typ, b)
		case num == contourSetBmax && isDoubles(typ):
			bmax, n = consumeDoubles(bmax, typ, b)
		case (num == contourSetCs || num == contourSetCh || num == contourSetMaxError) && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(b)
			f := math.Float64frombits(v)
			switch num {
			case contourSetCs:
				cset.Cs = f
			case contourSetCh:
				cset.Ch = f
			default:
				cset.MaxError = f
			}
		case (num == contourSetWidth || num == contourSetHeight || num == contourSetBorderSize) && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			i := int(int32(v))
			switch num {
			case contourSetWidth:
				cset.Width = i
			case contourSetHeight:
				cset.Height = i
			default:
				cset.BorderSize = i
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, malformed(fmt.Sprintf("contour set field %d", num), n)
		}
		b = b[n:]
	}

	var err error
	if bmin != nil {
		if cset.Bmin, err = toVec3(bmin); err != nil {
			return nil, err
		}
	}
	if bmax != nil {
		if cset.Bmax, err = toVec3(bmax); err != nil {
			return nil, err
		}
	}
	return cset, nil
}
