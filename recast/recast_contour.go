package recast

import (
	"fmt"

	"github.com/gorustyt/navcontour/common"
)

const (
	/// Contour build flags.
	/// @see RcBuildContours
	/// Applied to the region id field of contour vertices in order to extract the region id.
	/// The region id field of a vertex may have several flags applied to it.  So the
	/// fields value can't be used directly.
	/// @see RcVertexFlags::Pack
	RC_CONTOUR_REG_MASK = 0xffff
	/// Area border flag.
	/// If a region ID has this bit set, then the associated element lies on
	/// the border of an area.
	/// (Used during the region and contour build process.)
	RC_AREA_BORDER = 0x20000
	/// Border vertex flag.
	/// If a region ID has this bit set, then the associated element lies on
	/// a tile border. If a contour vertex's region ID has this bit set, the
	/// vertex will later be removed in order to match the segments and vertices
	/// at tile boundaries.
	/// (Used during the build process.)
	RC_BORDER_VERTEX = 0x10000

	RC_CONTOUR_TESS_WALL_EDGES = 0x01 ///< Tessellate solid (impassable) edges during contour simplification.
	RC_CONTOUR_TESS_AREA_EDGES = 0x02 ///< Tessellate edges between areas during contour simplification.
)

// Upper bound on walk steps for a single contour. Only corrupt connectivity
// gets anywhere near it.
const maxWalkIterations = 40000

// markBoundaries stores, per span, a 4 bit mask of the directions whose
// neighbour belongs to another region. Null and border region spans get 0.
func markBoundaries(chf *RcCompactHeightfield, flags []int) {
	w := chf.Width
	h := chf.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := c.Index; i < c.Index+c.Count; i++ {
				s := chf.Spans[i]
				if s.Reg == 0 || (s.Reg&RC_BORDER_REG) != 0 {
					flags[i] = 0
					continue
				}
				res := 0
				for dir := 0; dir < 4; dir++ {
					r := 0
					if ai := chf.neighbour(x, y, i, dir); ai != -1 {
						r = chf.Spans[ai].Reg
					}
					if r == s.Reg {
						res |= 1 << dir
					}
				}
				flags[i] = res ^ 0xf // Inverse, mark non connected edges.
			}
		}
	}
}

// getCornerHeight returns the height of the corner between dir and the
// next direction clockwise, taken as the highest of up to 3 spans touching
// it, and whether the corner is a border vertex.
func getCornerHeight(x, y, i, dir int, chf *RcCompactHeightfield) (int, bool) {
	s := chf.Spans[i]
	ch := s.Y
	dirp := common.RotateCW(dir)

	var regs [4]int

	// Combine region and area codes in order to prevent
	// border vertices which are in between two areas to be removed.
	regs[0] = s.Reg | (chf.Areas[i] << 16)

	if ai := chf.neighbour(x, y, i, dir); ai != -1 {
		ax := x + common.GetDirOffsetX(dir)
		ay := y + common.GetDirOffsetY(dir)
		ch = max(ch, chf.Spans[ai].Y)
		regs[1] = chf.Spans[ai].Reg | (chf.Areas[ai] << 16)
		if ai2 := chf.neighbour(ax, ay, ai, dirp); ai2 != -1 {
			ch = max(ch, chf.Spans[ai2].Y)
			regs[2] = chf.Spans[ai2].Reg | (chf.Areas[ai2] << 16)
		}
	}
	if ai := chf.neighbour(x, y, i, dirp); ai != -1 {
		ax := x + common.GetDirOffsetX(dirp)
		ay := y + common.GetDirOffsetY(dirp)
		ch = max(ch, chf.Spans[ai].Y)
		regs[3] = chf.Spans[ai].Reg | (chf.Areas[ai] << 16)
		if ai2 := chf.neighbour(ax, ay, ai, dir); ai2 != -1 {
			ch = max(ch, chf.Spans[ai2].Y)
			regs[2] = chf.Spans[ai2].Reg | (chf.Areas[ai2] << 16)
		}
	}

	// Check if the vertex is special edge vertex, these vertices will be removed later.
	for j := 0; j < 4; j++ {
		a := j
		b := (j + 1) & 0x3
		c := (j + 2) & 0x3
		d := (j + 3) & 0x3

		// The vertex is a border vertex there are two same exterior cells in a row,
		// followed by two interior cells and none of the regions are out of bounds.
		twoSameExts := (regs[a]&regs[b]&RC_BORDER_REG) != 0 && regs[a] == regs[b]
		twoInts := ((regs[c] | regs[d]) & RC_BORDER_REG) == 0
		intsSameArea := (regs[c] >> 16) == (regs[d] >> 16)
		noZeros := regs[a] != 0 && regs[b] != 0 && regs[c] != 0 && regs[d] != 0
		if twoSameExts && twoInts && intsSameArea && noZeros {
			return ch, true
		}
	}
	return ch, false
}

// walkContour traces the boundary starting at span i in column (x, y) and
// appends one raw vertex per boundary edge to points. Consumed edges are
// cleared from flags. It reports false when the walk did not return to its
// start, in which case points holds the partial ring.
func walkContour(x, y, i int, chf *RcCompactHeightfield, flags []int, points *Stack[RcContourVertex]) bool {
	// Choose the first non-connected edge
	dir := 0
	for (flags[i] & (1 << dir)) == 0 {
		dir++
	}

	startDir := dir
	starti := i

	area := chf.Areas[i]

	for iter := 1; iter < maxWalkIterations; iter++ {
		if flags[i]&(1<<dir) != 0 {
			// Choose the edge corner
			py, isBorderVertex := getCornerHeight(x, y, i, dir, chf)
			px := x
			pz := y
			switch dir {
			case 0:
				pz++
			case 1:
				px++
				pz++
			case 2:
				px++
			}

			v := RcContourVertex{X: px, Y: py, Z: pz}
			v.Flags.BorderVertex = isBorderVertex
			if ai := chf.neighbour(x, y, i, dir); ai != -1 {
				v.Flags.Region = chf.Spans[ai].Reg
				v.Flags.AreaBorder = area != chf.Areas[ai]
			}
			points.Push(v)

			flags[i] &^= 1 << dir // Remove visited edges
			dir = common.RotateCW(dir)
		} else {
			ni := chf.neighbour(x, y, i, dir)
			if ni == -1 {
				// Should not happen.
				return false
			}
			x += common.GetDirOffsetX(dir)
			y += common.GetDirOffsetY(dir)
			i = ni
			dir = common.RotateCCW(dir)
		}

		if starti == i && startDir == dir {
			return true
		}
	}
	return false
}

func validateCompactHeightfield(chf *RcCompactHeightfield) error {
	if chf == nil {
		return fmt.Errorf("%w: nil compact heightfield", ErrInvalidParam)
	}
	if chf.Width <= 0 || chf.Height <= 0 {
		return fmt.Errorf("%w: compact heightfield size %dx%d", ErrInvalidParam, chf.Width, chf.Height)
	}
	if len(chf.Cells) != chf.Width*chf.Height {
		return fmt.Errorf("%w: %d cells for a %dx%d compact heightfield", ErrInvalidParam, len(chf.Cells), chf.Width, chf.Height)
	}
	if len(chf.Spans) != chf.SpanCount || len(chf.Areas) != chf.SpanCount {
		return fmt.Errorf("%w: span count %d, got %d spans and %d areas", ErrInvalidParam, chf.SpanCount, len(chf.Spans), len(chf.Areas))
	}
	if chf.BorderSize < 0 || 2*chf.BorderSize > min(chf.Width, chf.Height) {
		return fmt.Errorf("%w: border size %d", ErrInvalidParam, chf.BorderSize)
	}
	for idx, c := range chf.Cells {
		if c == nil || c.Index < 0 || c.Count < 0 || c.Index+c.Count > chf.SpanCount {
			return fmt.Errorf("%w: cell %d references spans outside [0, %d)", ErrInvalidParam, idx, chf.SpanCount)
		}
	}
	// Every connection must land on a span of the neighbouring column.
	for y := 0; y < chf.Height; y++ {
		for x := 0; x < chf.Width; x++ {
			c := chf.Cells[x+y*chf.Width]
			for i := c.Index; i < c.Index+c.Count; i++ {
				s := chf.Spans[i]
				if s == nil {
					return fmt.Errorf("%w: span %d is nil", ErrInvalidParam, i)
				}
				for dir := 0; dir < 4; dir++ {
					con := RcGetCon(s, dir)
					if con == RC_NOT_CONNECTED {
						continue
					}
					ax := x + common.GetDirOffsetX(dir)
					ay := y + common.GetDirOffsetY(dir)
					if ax < 0 || ay < 0 || ax >= chf.Width || ay >= chf.Height || con >= chf.Cells[ax+ay*chf.Width].Count {
						return fmt.Errorf("%w: span %d in column (%d, %d) has a dangling connection in direction %d",
							ErrInvalidParam, i, x, y, dir)
					}
				}
			}
		}
	}
	return nil
}

// / Builds a contour set from the region outlines in the provided compact heightfield.
// /
// / The raw contours will match the region outlines exactly. The @p maxError and @p maxEdgeLen
// / parameters control how closely the simplified contours will match the raw contours.
// /
// / Simplified contours are generated such that the vertices for portals between areas match up.
// / (They are considered mandatory vertices.)
// /
// / Setting @p maxEdgeLen to zero will disabled the edge length feature.
// /
// / Holes are merged into the outline of their region. A hole that cannot be
// / connected to its outline is reported through @p ctx and kept as its own contour.
// /
// / @param[in]		ctx			The build context to use during the operation. May be nil.
// / @param[in]		chf			A fully built compact heightfield.
// / @param[in]		maxError	The maximum distance a simplfied contour's border edges should deviate
// / 							the original raw contour. [Limit: >=0] [Units: vx]
// / @param[in]		maxEdgeLen	The maximum allowed length for contour edges along the border of the mesh.
// / 							[Limit: >=0] [Units: vx]
// / @param[in]		buildFlags	The build flags. (See: #RC_CONTOUR_TESS_WALL_EDGES, #RC_CONTOUR_TESS_AREA_EDGES)
// / @returns The contour set, or an error wrapping #ErrBadOutline or #ErrMultipleOutlines
// / 		when the simplification settings destroyed a region's topology.
func RcBuildContours(ctx RcTelemetry, chf *RcCompactHeightfield, maxError float64, maxEdgeLen int, buildFlags int) (*RcContourSet, error) {
	if ctx == nil {
		ctx = NewBuildContext(nil)
	}
	if err := validateCompactHeightfield(chf); err != nil {
		return nil, err
	}
	if maxError < 0 || maxEdgeLen < 0 {
		return nil, fmt.Errorf("%w: maxError %v, maxEdgeLen %d", ErrInvalidParam, maxError, maxEdgeLen)
	}

	w := chf.Width
	h := chf.Height
	borderSize := chf.BorderSize

	ctx.StartTimer(RC_TIMER_BUILD_CONTOURS)
	defer ctx.StopTimer(RC_TIMER_BUILD_CONTOURS)

	cset := &RcContourSet{
		Bmin:       chf.Bmin,
		Bmax:       chf.Bmax,
		Cs:         chf.Cs,
		Ch:         chf.Ch,
		Width:      chf.Width - chf.BorderSize*2,
		Height:     chf.Height - chf.BorderSize*2,
		BorderSize: chf.BorderSize,
		MaxError:   maxError,
	}
	if borderSize > 0 {
		// If the heightfield was build with bordersize, remove the offset.
		pad := float64(borderSize) * chf.Cs
		cset.Bmin[0] += pad
		cset.Bmin[2] += pad
		cset.Bmax[0] -= pad
		cset.Bmax[2] -= pad
	}

	flags := make([]int, chf.SpanCount)

	ctx.StartTimer(RC_TIMER_BUILD_CONTOURS_TRACE)
	markBoundaries(chf, flags)
	ctx.StopTimer(RC_TIMER_BUILD_CONTOURS_TRACE)

	verts := NewStackArray[RcContourVertex](256)
	simplified := NewStackArray[simplifiedVertex](64)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := c.Index; i < c.Index+c.Count; i++ {
				if flags[i] == 0 || flags[i] == 0xf {
					flags[i] = 0
					continue
				}
				reg := chf.Spans[i].Reg
				if reg == 0 || (reg&RC_BORDER_REG) != 0 {
					continue
				}
				area := chf.Areas[i]

				verts.Clear()
				simplified.Clear()

				ctx.StartTimer(RC_TIMER_BUILD_CONTOURS_WALK)
				closed := walkContour(x, y, i, chf, flags, verts)
				ctx.StopTimer(RC_TIMER_BUILD_CONTOURS_WALK)
				if !closed {
					ctx.Warnf("walkContour: contour of region %d starting at (%d, %d) did not close after %d vertices",
						reg, x-borderSize, y-borderSize, verts.Len())
				}

				ctx.StartTimer(RC_TIMER_BUILD_CONTOURS_SIMPLIFY)
				simplifyContour(verts.Data(), simplified, maxError, maxEdgeLen, buildFlags)
				removeDegenerateSegments(simplified)
				ctx.StopTimer(RC_TIMER_BUILD_CONTOURS_SIMPLIFY)

				// Store region->contour remap info.
				// Create contour.
				if simplified.Len() < 3 {
					continue
				}
				cont := &RcContour{
					Verts:  make([]RcContourVertex, simplified.Len()),
					RVerts: verts.Clone(),
					Reg:    reg,
					Area:   area,
				}
				for j, v := range simplified.Data() {
					cont.Verts[j] = v.RcContourVertex
				}
				if borderSize > 0 {
					// If the heightfield was build with bordersize, remove the offset.
					stripBorder(cont.Verts, borderSize)
					stripBorder(cont.RVerts, borderSize)
				}
				cset.Conts = append(cset.Conts, cont)
			}
		}
	}

	ctx.StartTimer(RC_TIMER_BUILD_CONTOURS_MERGE)
	err := mergeHoles(ctx, cset)
	ctx.StopTimer(RC_TIMER_BUILD_CONTOURS_MERGE)
	if err != nil {
		return nil, err
	}
	return cset, nil
}

func stripBorder(verts []RcContourVertex, borderSize int) {
	for j := range verts {
		verts[j].X -= borderSize
		verts[j].Z -= borderSize
	}
}
