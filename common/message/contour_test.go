package message

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorustyt/navcontour/recast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func sampleContourSet() *recast.RcContourSet {
	portal := recast.RcVertexFlags{Region: 2, AreaBorder: true}
	return &recast.RcContourSet{
		Conts: []*recast.RcContour{
			{
				Verts: []recast.RcContourVertex{
					{X: 0, Y: 3, Z: 0},
					{X: 0, Y: 3, Z: 4, Flags: portal},
					{X: 4, Y: 3, Z: 4, Flags: recast.RcVertexFlags{BorderVertex: true}},
					{X: 4, Y: 3, Z: -1},
				},
				RVerts: []recast.RcContourVertex{
					{X: 0, Y: 3, Z: 0},
					{X: 0, Y: 3, Z: 4, Flags: portal},
					{X: 4, Y: 3, Z: 4},
					{X: 4, Y: 3, Z: -1},
				},
				Reg:  1,
				Area: recast.RC_WALKABLE_AREA,
			},
		},
		Bmin:       mgl64.Vec3{-10.25, 0, 3},
		Bmax:       mgl64.Vec3{10, 7.5, 13.125},
		Cs:         0.3,
		Ch:         0.2,
		Width:      34,
		Height:     40,
		BorderSize: 3,
		MaxError:   1.3,
	}
}

func TestContourSetRoundTrip(t *testing.T) {
	cset := sampleContourSet()
	got, err := DecodeContourSet(EncodeContourSet(cset))
	require.NoError(t, err)
	assert.Equal(t, cset, got)

	empty, err := DecodeContourSet(EncodeContourSet(&recast.RcContourSet{}))
	require.NoError(t, err)
	assert.Equal(t, &recast.RcContourSet{}, empty)
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	b := EncodeContourSet(sampleContourSet())
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "future")
	b = protowire.AppendTag(b, 100, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	got, err := DecodeContourSet(b)
	require.NoError(t, err)
	assert.Equal(t, sampleContourSet(), got)
}

func TestDecodeMalformed(t *testing.T) {
	b := EncodeContourSet(sampleContourSet())

	_, err := DecodeContourSet(b[:len(b)-3])
	assert.ErrorIs(t, err, ErrMalformed)

	// A contour whose vertex data is not made of whole vertices.
	var cont []byte
	cont = protowire.AppendTag(cont, contourVerts, protowire.BytesType)
	cont = protowire.AppendBytes(cont, []byte{2, 4, 6})
	var bad []byte
	bad = protowire.AppendTag(bad, contourSetContours, protowire.BytesType)
	bad = protowire.AppendBytes(bad, cont)
	_, err = DecodeContourSet(bad)
	assert.ErrorIs(t, err, ErrMalformed)

	// A bounds vector with two components.
	bad = protowire.AppendTag(nil, contourSetBmin, protowire.BytesType)
	bad = protowire.AppendBytes(bad, make([]byte, 16))
	_, err = DecodeContourSet(bad)
	assert.ErrorIs(t, err, ErrMalformed)
}

func appendSint32(b []byte, num protowire.Number, v int) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

func TestDecodeUnpackedAndSplitFields(t *testing.T) {
	portal := recast.RcVertexFlags{Region: 2, AreaBorder: true}

	// First vertex unpacked, second vertex packed in its own occurrence.
	var cont []byte
	for _, v := range []int{0, 3, -1, 0} {
		cont = appendSint32(cont, contourVerts, v)
	}
	cont = appendVerts(cont, contourVerts, []recast.RcContourVertex{{X: 4, Y: 3, Z: 4, Flags: portal}})
	cont = appendInt32(cont, contourReg, 1)

	var b []byte
	b = protowire.AppendTag(b, contourSetContours, protowire.BytesType)
	b = protowire.AppendBytes(b, cont)
	// bmin as three unpacked doubles.
	for _, f := range []float64{-1, 2, 3.5} {
		b = appendDouble(b, contourSetBmin, f)
	}
	// bmax packed, split over two occurrences.
	b = protowire.AppendTag(b, contourSetBmax, protowire.BytesType)
	b = protowire.AppendBytes(b, protowire.AppendFixed64(protowire.AppendFixed64(nil, math.Float64bits(8)), math.Float64bits(9)))
	b = appendDouble(b, contourSetBmax, 10)

	got, err := DecodeContourSet(b)
	require.NoError(t, err)
	require.Len(t, got.Conts, 1)
	assert.Equal(t, []recast.RcContourVertex{
		{X: 0, Y: 3, Z: -1},
		{X: 4, Y: 3, Z: 4, Flags: portal},
	}, got.Conts[0].Verts)
	assert.Equal(t, 1, got.Conts[0].Reg)
	assert.Equal(t, mgl64.Vec3{-1, 2, 3.5}, got.Bmin)
	assert.Equal(t, mgl64.Vec3{8, 9, 10}, got.Bmax)

	// Four bounds components across occurrences is one too many.
	b = appendDouble(b, contourSetBmax, 11)
	_, err = DecodeContourSet(b)
	assert.ErrorIs(t, err, ErrMalformed)
}
