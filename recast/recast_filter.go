package recast

import "github.com/go-gl/mathgl/mgl64"

const (
	/// Defines the number of bits allocated to RcSpan::smin and RcSpan::smax.
	RC_SPAN_HEIGHT_BITS = 13
	/// Defines the maximum value for RcSpan::smin and RcSpan::smax.
	RC_SPAN_MAX_HEIGHT = (1 << RC_SPAN_HEIGHT_BITS) - 1
	/// Represents the null area.
	/// When a data element is given this value it is considered to no longer be
	/// assigned to a usable area.  (E.g. It is un-walkable.)
	RC_NULL_AREA = 0
)

// / Represents a span in a heightfield.
type RcSpan struct {
	Smin int     ///< The lower limit of the span. [Limit: < #smax]
	Smax int     ///< The upper limit of the span. [Limit: <= #RC_SPAN_MAX_HEIGHT]
	Area int     ///< The area id assigned to the span.
	Next *RcSpan ///< The next span higher up in column.
}

// / A dynamic heightfield representing obstructed space.
// / @ingroup recast
type RcHeightfield struct {
	Width  int        ///< The width of the heightfield. (Along the x-axis in cell units.)
	Height int        ///< The height of the heightfield. (Along the z-axis in cell units.)
	Bmin   mgl64.Vec3 ///< The minimum bounds in world space. [(x, y, z)]
	Bmax   mgl64.Vec3 ///< The maximum bounds in world space. [(x, y, z)]
	Cs     float64    ///< The size of each cell. (On the xz-plane.)
	Ch     float64    ///< The height of each cell. (The minimum increment along the y-axis.)
	Spans  []*RcSpan  ///< Heightfield of spans (width*height).
}

func RcCreateHeightfield(sizeX, sizeZ int, minBounds, maxBounds mgl64.Vec3, cellSize, cellHeight float64) *RcHeightfield {
	return &RcHeightfield{
		Width:  sizeX,
		Height: sizeZ,
		Bmin:   minBounds,
		Bmax:   maxBounds,
		Cs:     cellSize,
		Ch:     cellHeight,
		Spans:  make([]*RcSpan, sizeX*sizeZ),
	}
}

func rcGetHeightFieldSpanCount(heightfield *RcHeightfield) int {
	spanCount := 0
	for _, span := range heightfield.Spans {
		for ; span != nil; span = span.Next {
			if span.Area != RC_NULL_AREA {
				spanCount++
			}
		}
	}
	return spanCount
}
