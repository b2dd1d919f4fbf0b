package debug_utils

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorustyt/navcontour/common/rw"
	"github.com/gorustyt/navcontour/recast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// regionField builds a flat width x height field split into two regions at
// column split.
func regionField(t *testing.T, width, height, split int) *recast.RcCompactHeightfield {
	t.Helper()
	hf := recast.RcCreateHeightfield(width, height, mgl64.Vec3{-4, 0, 2}, mgl64.Vec3{float64(width)/2 - 4, 5, float64(height)/2 + 2}, 0.5, 0.5)
	for z := 0; z < height; z++ {
		for x := 0; x < width; x++ {
			require.NoError(t, recast.RcAddSpan(hf, x, z, 0, 2, recast.RC_WALKABLE_AREA, 1))
		}
	}
	chf, err := recast.RcBuildCompactHeightfield(2, 1, hf)
	require.NoError(t, err)
	for z := 0; z < height; z++ {
		for x := 0; x < width; x++ {
			c := chf.Cells[x+z*width]
			for i := c.Index; i < c.Index+c.Count; i++ {
				if x < split {
					chf.Spans[i].Reg = 1
				} else {
					chf.Spans[i].Reg = 2
				}
			}
		}
	}
	chf.UpdateMaxRegions()
	return chf
}

func TestDumpCompactHeightfield(t *testing.T) {
	chf := regionField(t, 6, 4, 3)
	chf.Dist = make([]int, chf.SpanCount)
	for i := range chf.Dist {
		chf.Dist[i] = i * 3
	}

	w := rw.NewWriter()
	require.NoError(t, DuDumpCompactHeightfield(chf, w))

	got, err := DuReadCompactHeightfield(rw.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, chf, got)
}

func TestDumpContourSet(t *testing.T) {
	chf := regionField(t, 6, 4, 3)
	cset, err := recast.RcBuildContours(nil, chf, 1.3, 0, recast.RC_CONTOUR_TESS_WALL_EDGES)
	require.NoError(t, err)
	require.Len(t, cset.Conts, 2)

	w := rw.NewWriter()
	require.NoError(t, DuDumpContourSet(cset, w))

	got, err := DuReadContourSet(rw.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Zero(t, got.MaxError)
	got.MaxError = cset.MaxError
	assert.Equal(t, cset, got)

	// The portal vertices keep their packed flags.
	portals := 0
	for _, v := range got.Conts[0].Verts {
		if v.Flags.Connected() {
			portals++
		}
	}
	assert.Equal(t, 1, portals)
}

func TestReadDumpErrors(t *testing.T) {
	t.Run("Bad magic", func(t *testing.T) {
		w := rw.NewWriter()
		w.WriteInt32(CHF_MAGIC)
		w.WriteInt32(CSET_VERSION)
		_, err := DuReadContourSet(rw.NewReader(w.Bytes()))
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("Bad version", func(t *testing.T) {
		w := rw.NewWriter()
		w.WriteInt32(CHF_MAGIC)
		w.WriteInt32(CHF_VERSION + 1)
		_, err := DuReadCompactHeightfield(rw.NewReader(w.Bytes()))
		assert.ErrorIs(t, err, ErrBadVersion)
	})

	t.Run("Truncated contour set", func(t *testing.T) {
		cset, err := recast.RcBuildContours(nil, regionField(t, 6, 4, 3), 1.3, 0, 0)
		require.NoError(t, err)
		w := rw.NewWriter()
		require.NoError(t, DuDumpContourSet(cset, w))
		data := w.Bytes()
		_, err = DuReadContourSet(rw.NewReader(data[:len(data)-3]))
		assert.Error(t, err)
	})

	t.Run("Huge span count", func(t *testing.T) {
		chf := regionField(t, 2, 2, 1)
		w := rw.NewWriter()
		require.NoError(t, DuDumpCompactHeightfield(chf, w))
		data := w.Bytes()
		// The span count follows magic, version, width and height.
		data[16], data[17], data[18], data[19] = 0xff, 0xff, 0xff, 0x7f
		_, err := DuReadCompactHeightfield(rw.NewReader(data))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Nil inputs", func(t *testing.T) {
		assert.Error(t, DuDumpContourSet(nil, rw.NewWriter()))
		assert.Error(t, DuDumpCompactHeightfield(&recast.RcCompactHeightfield{}, nil))
		_, err := DuReadContourSet(nil)
		assert.Error(t, err)
	})
}

func TestLogBuildTimes(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := recast.NewBuildContext(nil)
	_, err := recast.RcBuildContours(ctx, regionField(t, 6, 4, 3), 1.3, 0, 0)
	require.NoError(t, err)

	DuLogBuildTimes(zap.New(core), ctx, time.Second)
	entries := logs.All()
	require.Len(t, entries, 7)
	assert.Equal(t, "Build Times", entries[0].Message)
	assert.Contains(t, entries[1].Message, "- Build Contours")
	assert.Contains(t, entries[5].Message, "- Merge Holes")
	assert.Equal(t, "=== TOTAL:\t1000.00ms", entries[6].Message)

	// Disabled timers are left out.
	logs.TakeAll()
	ctx.EnableTimer(false)
	DuLogBuildTimes(zap.New(core), ctx, time.Second)
	assert.Equal(t, 2, logs.Len())
}
