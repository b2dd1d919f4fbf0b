package debug_utils

import (
	"errors"
	"io"

	"github.com/gorustyt/navcontour/recast"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DuContourSetToGeoJSON converts the simplified contours of cset to one
// polygon feature each, in world space projected on the xz-plane.
//
// Rings are closed and wound counter-clockwise. Contours left wound as holes
// (a hole that could not be merged into its outline) carry "hole": true.
func DuContourSetToGeoJSON(cset *recast.RcContourSet) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if cset == nil {
		return fc
	}
	for i, cont := range cset.Conts {
		if len(cont.Verts) == 0 {
			continue
		}
		ring := make(orb.Ring, 0, len(cont.Verts)+1)
		for _, v := range cont.Verts {
			p := cset.WorldPos(v)
			ring = append(ring, orb.Point{p.X(), p.Z()})
		}
		ring = append(ring, ring[0])

		// Outlines run clockwise on the xz-plane.
		hole := ring.Orientation() == orb.CCW
		if !hole {
			ring.Reverse()
		}

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["index"] = i
		f.Properties["region"] = cont.Reg
		f.Properties["area"] = cont.Area
		f.Properties["hole"] = hole
		f.Properties["portals"] = countPortals(cont.Verts)
		fc.Append(f)
	}
	return fc
}

func countPortals(verts []recast.RcContourVertex) int {
	n := 0
	for _, v := range verts {
		if v.Flags.Connected() {
			n++
		}
	}
	return n
}

// DuWriteContourSetGeoJSON writes cset as a GeoJSON feature collection.
func DuWriteContourSetGeoJSON(cset *recast.RcContourSet, w io.Writer) error {
	if w == nil {
		return errors.New("duWriteContourSetGeoJSON: output is null")
	}
	data, err := DuContourSetToGeoJSON(cset).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
