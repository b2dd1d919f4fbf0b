package recast

import (
	"fmt"

	"github.com/gorustyt/navcontour/common"
	"go.uber.org/multierr"
)

// / The default area id used to indicate a walkable polygon.
// / This is also the maximum allowed area id, and the only non-null area id
// / recognized by some steps in the build process.
const RC_WALKABLE_AREA = 63

// / Heightfield border flag.
// / If a heightfield region ID has this bit set, then the region is a border
// / region and its spans are considered un-walkable.
// / (Used during the region and contour build process.)
// / @see RcCompactSpan::reg
const RC_BORDER_REG = 0x8000

// ContourConfig holds the contour stage part of a Recast build configuration.
type ContourConfig struct {
	/// The maximum distance a simplified contour's border edges should deviate
	/// the original raw contour. [Limit: >=0] [Units: vx]
	MaxSimplificationError float64 `yaml:"max_simplification_error"`

	/// The maximum allowed length for contour edges along the border of the mesh. [Limit: >=0] [Units: vx]
	MaxEdgeLen int `yaml:"max_edge_len"`

	/// Tessellate solid (impassable) edges during contour simplification.
	TessellateWallEdges bool `yaml:"tessellate_wall_edges"`

	/// Tessellate edges between areas during contour simplification.
	TessellateAreaEdges bool `yaml:"tessellate_area_edges"`
}

// DefaultContourConfig mirrors the values the Recast demo ships with.
func DefaultContourConfig() ContourConfig {
	return ContourConfig{
		MaxSimplificationError: 1.3,
		MaxEdgeLen:             12,
		TessellateWallEdges:    true,
	}
}

// BuildFlags packs the tessellation switches into RC_CONTOUR_TESS_* flags.
func (c ContourConfig) BuildFlags() int {
	flags := 0
	if c.TessellateWallEdges {
		flags |= RC_CONTOUR_TESS_WALL_EDGES
	}
	if c.TessellateAreaEdges {
		flags |= RC_CONTOUR_TESS_AREA_EDGES
	}
	return flags
}

func (c ContourConfig) Validate() error {
	var err error
	if c.MaxSimplificationError < 0 {
		err = multierr.Append(err, fmt.Errorf("max_simplification_error must be >= 0, got %v", c.MaxSimplificationError))
	}
	if c.MaxEdgeLen < 0 {
		err = multierr.Append(err, fmt.Errorf("max_edge_len must be >= 0, got %d", c.MaxEdgeLen))
	}
	return err
}

// / Builds a compact heightfield representing open space, from a heightfield representing solid space.
// /
// / This is just the beginning of the process of fully building a compact heightfield.
// / Region ids are left at zero; they are assigned by the region partitioning
// / stage before contours can be built.
// /
// / @param[in]		walkableHeight	Minimum floor to 'ceiling' height that will still allow the floor area
// /  								to be considered walkable. [Limit: >= 3] [Units: vx]
// / @param[in]		walkableClimb	Maximum ledge height that is considered to still be traversable.
// /  								[Limit: >=0] [Units: vx]
// / @param[in]		heightfield		The heightfield to be compacted.
func RcBuildCompactHeightfield(walkableHeight, walkableClimb int, heightfield *RcHeightfield) (*RcCompactHeightfield, error) {
	if heightfield == nil {
		return nil, fmt.Errorf("%w: nil heightfield", ErrInvalidParam)
	}
	xSize := heightfield.Width
	zSize := heightfield.Height
	spanCount := rcGetHeightFieldSpanCount(heightfield)

	// Fill in header.
	chf := &RcCompactHeightfield{
		Width:          xSize,
		Height:         zSize,
		SpanCount:      spanCount,
		WalkableHeight: walkableHeight,
		WalkableClimb:  walkableClimb,
		Bmin:           heightfield.Bmin,
		Bmax:           heightfield.Bmax,
		Cs:             heightfield.Cs,
		Ch:             heightfield.Ch,
		Cells:          make([]*RcCompactCell, xSize*zSize),
		Spans:          make([]*RcCompactSpan, spanCount),
		Areas:          make([]int, spanCount),
	}
	chf.Bmax[1] += float64(walkableHeight) * heightfield.Ch
	for i := range chf.Cells {
		chf.Cells[i] = &RcCompactCell{}
	}
	for i := range chf.Spans {
		chf.Spans[i] = &RcCompactSpan{}
	}
	const maxHeight = 0xffff

	// Fill in cells and spans.
	currentCellIndex := 0
	for columnIndex, span := range heightfield.Spans {
		// If there are no spans at this cell, just leave the data to index=0, count=0.
		if span == nil {
			continue
		}
		cell := chf.Cells[columnIndex]
		cell.Index = currentCellIndex
		cell.Count = 0

		for ; span != nil; span = span.Next {
			if span.Area == RC_NULL_AREA {
				continue
			}
			bot := span.Smax
			top := maxHeight
			if span.Next != nil {
				top = span.Next.Smin
			}
			chf.Spans[currentCellIndex].Y = common.Clamp(bot, 0, 0xffff)
			chf.Spans[currentCellIndex].H = common.Clamp(top-bot, 0, 0xff)
			chf.Areas[currentCellIndex] = span.Area
			currentCellIndex++
			cell.Count++
		}
	}

	// Find neighbour connections.
	const maxLayers = RC_NOT_CONNECTED - 1
	maxLayerIndex := 0
	zStride := xSize // for readability
	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			cell := chf.Cells[x+z*zStride]
			for i := cell.Index; i < cell.Index+cell.Count; i++ {
				span := chf.Spans[i]
				for dir := 0; dir < 4; dir++ {
					RcSetCon(span, dir, RC_NOT_CONNECTED)
					neighborX := x + common.GetDirOffsetX(dir)
					neighborZ := z + common.GetDirOffsetY(dir)
					// First check that the neighbour cell is in bounds.
					if neighborX < 0 || neighborZ < 0 || neighborX >= xSize || neighborZ >= zSize {
						continue
					}

					// Iterate over all neighbour spans and check if any of the is
					// accessible from current cell.
					neighborCell := chf.Cells[neighborX+neighborZ*zStride]
					for k := neighborCell.Index; k < neighborCell.Index+neighborCell.Count; k++ {
						neighborSpan := chf.Spans[k]
						bot := max(span.Y, neighborSpan.Y)
						top := min(span.Y+span.H, neighborSpan.Y+neighborSpan.H)

						// Check that the gap between the spans is walkable,
						// and that the climb height between the gaps is not too high.
						if (top-bot) >= walkableHeight && common.Abs(neighborSpan.Y-span.Y) <= walkableClimb {
							// Mark direction as walkable.
							layerIndex := k - neighborCell.Index
							if layerIndex > maxLayers {
								maxLayerIndex = max(maxLayerIndex, layerIndex)
								continue
							}
							RcSetCon(span, dir, layerIndex)
							break
						}
					}
				}
			}
		}
	}

	if maxLayerIndex > maxLayers {
		return nil, fmt.Errorf("rcBuildCompactHeightfield: heightfield has too many layers %d (max: %d)", maxLayerIndex, maxLayers)
	}
	return chf, nil
}
