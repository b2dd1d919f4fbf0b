package debug_utils

import (
	"bytes"
	"slices"
	"testing"

	"github.com/gorustyt/navcontour/recast"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContourSetToGeoJSON(t *testing.T) {
	cset, err := recast.RcBuildContours(nil, regionField(t, 4, 4, 4), 1.3, 0, 0)
	require.NoError(t, err)
	require.Len(t, cset.Conts, 1)

	fc := DuContourSetToGeoJSON(cset)
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]

	poly, ok := f.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	ring := poly[0]
	assert.Len(t, ring, 5)
	assert.True(t, ring.Closed())
	assert.Equal(t, orb.CCW, ring.Orientation())
	assert.Equal(t, orb.Bound{Min: orb.Point{-4, 2}, Max: orb.Point{-2, 4}}, ring.Bound())

	assert.Equal(t, 1, f.Properties["region"])
	assert.Equal(t, recast.RC_WALKABLE_AREA, f.Properties["area"])
	assert.Equal(t, false, f.Properties["hole"])
	assert.Equal(t, 0, f.Properties["portals"])
}

func TestContourSetToGeoJSONHole(t *testing.T) {
	cset, err := recast.RcBuildContours(nil, regionField(t, 4, 4, 4), 1.3, 0, 0)
	require.NoError(t, err)
	// A contour wound the other way is what an unmerged hole looks like.
	slices.Reverse(cset.Conts[0].Verts)

	fc := DuContourSetToGeoJSON(cset)
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.Equal(t, true, f.Properties["hole"])
	assert.Equal(t, orb.CCW, f.Geometry.(orb.Polygon)[0].Orientation())

	assert.Empty(t, DuContourSetToGeoJSON(nil).Features)
}

func TestWriteContourSetGeoJSON(t *testing.T) {
	cset, err := recast.RcBuildContours(nil, regionField(t, 6, 4, 3), 1.3, 0, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DuWriteContourSetGeoJSON(cset, &buf))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	regions := []float64{}
	for _, f := range fc.Features {
		regions = append(regions, f.Properties["region"].(float64))
		assert.EqualValues(t, 1, f.Properties["portals"])
	}
	assert.ElementsMatch(t, []float64{1, 2}, regions)

	assert.Error(t, DuWriteContourSetGeoJSON(cset, nil))
}
