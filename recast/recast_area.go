package recast

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorustyt/navcontour/common"
)

const (
	RC_NOT_CONNECTED = 0x3f
)

// / Provides information on the content of a cell column in a compact heightfield.
type RcCompactCell struct {
	Index int ///< Index to the first span in the column.
	Count int ///< Number of spans in the column.
}

// / Represents a span of unobstructed space within a compact heightfield.
type RcCompactSpan struct {
	Y   int ///< The lower extent of the span. (Measured from the heightfield's base.)
	Reg int ///< The id of the region the span belongs to. (Or zero if not in a region.)
	Con int ///< Packed neighbor connection data.
	H   int ///< The height of the span.  (Measured from #y.)
}

// / Gets neighbor connection data for the specified direction.
// / @param[in]		span		The span to check.
// / @param[in]		direction	The direction to check. [Limits: 0 <= value < 4]
// / @return The neighbor connection data for the specified direction,
// /   or #RC_NOT_CONNECTED if there is no connection.
func RcGetCon(span *RcCompactSpan, direction int) int {
	shift := direction * 6
	return (span.Con >> shift) & 0x3f
}

// / Sets the neighbor connection data for the specified direction.
// / @param[in]		span			The span to update.
// / @param[in]		direction		The direction to set. [Limits: 0 <= value < 4]
// / @param[in]		neighborIndex	The index of the neighbor span.
func RcSetCon(span *RcCompactSpan, direction, neighborIndex int) {
	shift := direction * 6
	con := span.Con
	span.Con = (con & ^(0x3f << shift)) | ((neighborIndex & 0x3f) << shift)
}

// / A compact, static heightfield representing unobstructed space.
// / @ingroup recast
type RcCompactHeightfield struct {
	Width          int              ///< The width of the heightfield. (Along the x-axis in cell units.)
	Height         int              ///< The height of the heightfield. (Along the z-axis in cell units.)
	SpanCount      int              ///< The number of spans in the heightfield.
	WalkableHeight int              ///< The walkable height used during the build of the field.
	WalkableClimb  int              ///< The walkable climb used during the build of the field.
	BorderSize     int              ///< The AABB border size used during the build of the field.
	MaxDistance    int              ///< The maximum distance value of any span within the field.
	MaxRegions     int              ///< The maximum region id of any span within the field.
	Bmin           mgl64.Vec3       ///< The minimum bounds in world space. [(x, y, z)]
	Bmax           mgl64.Vec3       ///< The maximum bounds in world space. [(x, y, z)]
	Cs             float64          ///< The size of each cell. (On the xz-plane.)
	Ch             float64          ///< The height of each cell. (The minimum increment along the y-axis.)
	Cells          []*RcCompactCell ///< Array of cells. [Size: #width*#height]
	Spans          []*RcCompactSpan ///< Array of spans. [Size: #spanCount]
	Dist           []int            ///< Array containing border distance data. [Size: #spanCount]
	Areas          []int            ///< Array containing area id data. [Size: #spanCount]
}

// neighbour returns the index of the span connected to span i (standing in
// column x, y) in direction dir, or -1 when there is no connection.
func (chf *RcCompactHeightfield) neighbour(x, y, i, dir int) int {
	con := RcGetCon(chf.Spans[i], dir)
	if con == RC_NOT_CONNECTED {
		return -1
	}
	ax := x + common.GetDirOffsetX(dir)
	ay := y + common.GetDirOffsetY(dir)
	return chf.Cells[ax+ay*chf.Width].Index + con
}

// UpdateMaxRegions recomputes MaxRegions from the region ids stored on the
// spans, ignoring the border flag.
func (chf *RcCompactHeightfield) UpdateMaxRegions() {
	maxReg := 0
	for _, s := range chf.Spans {
		maxReg = max(maxReg, s.Reg&^RC_BORDER_REG)
	}
	chf.MaxRegions = maxReg
}
