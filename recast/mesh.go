package recast

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorustyt/navcontour/common"
)

// RcVertexFlags describes the edge leaving a contour vertex and whether the
// vertex itself must survive later clean-up.
//
// The compact integer form (RC_CONTOUR_REG_MASK, RC_BORDER_VERTEX,
// RC_AREA_BORDER) is only produced by Pack for serialization.
type RcVertexFlags struct {
	Region       int  ///< Region id on the other side of the edge. Zero for an outer (unconnected) edge.
	AreaBorder   bool ///< The edge separates two different area types.
	BorderVertex bool ///< The vertex sits on an ambiguous junction of three or more fields.
}

// Connected reports whether the edge is a portal to another region.
func (f RcVertexFlags) Connected() bool {
	return f.Region != 0
}

// Pack encodes the flags in the integer layout used by Recast dumps.
func (f RcVertexFlags) Pack() int {
	v := f.Region & RC_CONTOUR_REG_MASK
	if f.BorderVertex {
		v |= RC_BORDER_VERTEX
	}
	if f.AreaBorder {
		v |= RC_AREA_BORDER
	}
	return v
}

func RcUnpackVertexFlags(v int) RcVertexFlags {
	return RcVertexFlags{
		Region:       v & RC_CONTOUR_REG_MASK,
		BorderVertex: v&RC_BORDER_VERTEX != 0,
		AreaBorder:   v&RC_AREA_BORDER != 0,
	}
}

func (f RcVertexFlags) String() string {
	return fmt.Sprintf("reg=%d areaBorder=%t borderVertex=%t", f.Region, f.AreaBorder, f.BorderVertex)
}

// / A contour vertex in cell coordinates.
type RcContourVertex struct {
	X, Y, Z int
	Flags   RcVertexFlags
}

// XZ projects the vertex onto the xz-plane.
func (v RcContourVertex) XZ() common.XZ {
	return common.XZ{X: v.X, Z: v.Z}
}

// / Represents a simple, non-overlapping contour in field space.
type RcContour struct {
	Verts  []RcContourVertex ///< Simplified contour vertex and connection data.
	RVerts []RcContourVertex ///< Raw contour vertex and connection data.
	Reg    int               ///< The region id of the contour.
	Area   int               ///< The area id of the contour.
}

// / Represents a group of related contours.
type RcContourSet struct {
	Conts      []*RcContour ///< An array of the contours in the set.
	Bmin       mgl64.Vec3   ///< The minimum bounds in world space. [(x, y, z)]
	Bmax       mgl64.Vec3   ///< The maximum bounds in world space. [(x, y, z)]
	Cs         float64      ///< The size of each cell. (On the xz-plane.)
	Ch         float64      ///< The height of each cell. (The minimum increment along the y-axis.)
	Width      int          ///< The width of the set. (Along the x-axis in cell units.)
	Height     int          ///< The height of the set. (Along the z-axis in cell units.)
	BorderSize int          ///< The AABB border size used to generate the source data from which the contours were derived.
	MaxError   float64      ///< The max edge error that this contour set was simplified with.
}

// WorldPos converts a contour vertex to world space.
func (cset *RcContourSet) WorldPos(v RcContourVertex) mgl64.Vec3 {
	return cset.Bmin.Add(mgl64.Vec3{
		float64(v.X) * cset.Cs,
		float64(v.Y) * cset.Ch,
		float64(v.Z) * cset.Cs,
	})
}

// NumVerts returns the total number of simplified and raw vertices in the set.
func (cset *RcContourSet) NumVerts() (verts, rverts int) {
	for _, c := range cset.Conts {
		verts += len(c.Verts)
		rverts += len(c.RVerts)
	}
	return verts, rverts
}
