package recast

import (
	"cmp"
	"slices"

	"github.com/gorustyt/navcontour/common"
)

type contourHole struct {
	contour    *RcContour
	minx, minz int
	leftmost   int
}

type contourRegion struct {
	outline *RcContour
	holes   []*contourHole
}

type potentialDiagonal struct {
	vert int
	dist int
}

// calcAreaOfPolygon2D returns twice the signed area of the ring on the
// xz-plane. Outlines come out positive and holes negative.
func calcAreaOfPolygon2D(verts []RcContourVertex) int {
	area := 0
	nverts := len(verts)
	for i, j := 0, nverts-1; i < nverts; j, i = i, i+1 {
		vi := verts[i]
		vj := verts[j]
		area += vi.X*vj.Z - vj.X*vi.Z
	}
	return area
}

// contourInCone reports whether pj lies inside the cone formed by vertex i
// of verts and its two neighbours.
func contourInCone(i int, verts []RcContourVertex, pj common.XZ) bool {
	n := len(verts)
	pi := verts[i].XZ()
	pi1 := verts[common.Next(i, n)].XZ()
	pin1 := verts[common.Prev(i, n)].XZ()

	// If P[i] is a convex vertex [ i+1 left or on (i-1,i) ].
	if common.LeftOn(pin1, pi, pi1) {
		return common.Left(pi, pj, pin1) && common.Left(pj, pi, pi1)
	}
	// Assume (i-1,i,i+1) not collinear.
	// else P[i] is reflex.
	return !(common.LeftOn(pi, pj, pi1) && common.LeftOn(pj, pi, pin1))
}

// intersectSegContour reports whether segment d0-d1 crosses an edge of
// verts. Edges incident to vertex i, and edges sharing an end point with the
// segment, are skipped. Pass i = -1 to test every edge.
func intersectSegContour(d0, d1 common.XZ, i int, verts []RcContourVertex) bool {
	n := len(verts)
	// For each edge (k,k+1) of P
	for k := 0; k < n; k++ {
		k1 := common.Next(k, n)
		// Skip edges incident to i.
		if i == k || i == k1 {
			continue
		}
		p0 := verts[k].XZ()
		p1 := verts[k1].XZ()
		if d0 == p0 || d1 == p0 || d0 == p1 || d1 == p1 {
			continue
		}
		if common.Intersect(d0, d1, p0, p1) {
			return true
		}
	}
	return false
}

// mergeContours splices cb into ca through the diagonal ca[ia]-cb[ib].
// Both end points of the diagonal appear twice in the result. cb is left empty.
func mergeContours(ca, cb *RcContour, ia, ib int) {
	na := len(ca.Verts)
	nb := len(cb.Verts)
	verts := make([]RcContourVertex, 0, na+nb+2)

	// Copy contour A.
	for i := 0; i <= na; i++ {
		verts = append(verts, ca.Verts[(ia+i)%na])
	}
	// Copy contour B
	for i := 0; i <= nb; i++ {
		verts = append(verts, cb.Verts[(ib+i)%nb])
	}

	ca.Verts = verts
	cb.Verts = nil
}

// Finds the lowest leftmost vertex of a contour.
func findLeftMostVertex(contour *RcContour) (minx, minz, leftmost int) {
	minx = contour.Verts[0].X
	minz = contour.Verts[0].Z
	for i := 1; i < len(contour.Verts); i++ {
		x := contour.Verts[i].X
		z := contour.Verts[i].Z
		if x < minx || (x == minx && z < minz) {
			minx = x
			minz = z
			leftmost = i
		}
	}
	return minx, minz, leftmost
}

func compareHoles(a, b *contourHole) int {
	if c := cmp.Compare(a.minx, b.minx); c != 0 {
		return c
	}
	return cmp.Compare(a.minz, b.minz)
}

func compareDiagonals(a, b potentialDiagonal) int {
	return cmp.Compare(a.dist, b.dist)
}

func mergeRegionHoles(ctx RcTelemetry, region *contourRegion) {
	// Sort holes from left to right.
	for _, hole := range region.holes {
		hole.minx, hole.minz, hole.leftmost = findLeftMostVertex(hole.contour)
	}
	slices.SortStableFunc(region.holes, compareHoles)

	maxVerts := len(region.outline.Verts)
	for _, hole := range region.holes {
		maxVerts += len(hole.contour.Verts)
	}
	diags := make([]potentialDiagonal, 0, maxVerts)

	outline := region.outline

	// Merge holes into the outline one by one.
	for i, h := range region.holes {
		hole := h.contour

		index := -1
		bestVertex := h.leftmost
		for iter := 0; iter < len(hole.Verts); iter++ {
			// Find potential diagonals.
			// The 'best' vertex must be in the cone described by 3 consecutive vertices of the outline.
			// ..o j-1
			//   |
			//   |   * best
			//   |
			// j o-----o j+1
			//         :
			corner := hole.Verts[bestVertex].XZ()
			diags = diags[:0]
			for j := range outline.Verts {
				if contourInCone(j, outline.Verts, corner) {
					dx := outline.Verts[j].X - corner.X
					dz := outline.Verts[j].Z - corner.Z
					diags = append(diags, potentialDiagonal{vert: j, dist: dx*dx + dz*dz})
				}
			}

			// Sort potential diagonals by distance, we want to make the connection as short as possible.
			slices.SortStableFunc(diags, compareDiagonals)

			// Find a diagonal that is not intersecting the outline not the remaining holes.
			index = -1
			for _, diag := range diags {
				pt := outline.Verts[diag.vert].XZ()
				intersect := intersectSegContour(pt, corner, diag.vert, outline.Verts)
				for k := i; k < len(region.holes) && !intersect; k++ {
					intersect = intersectSegContour(pt, corner, -1, region.holes[k].contour.Verts)
				}
				if !intersect {
					index = diag.vert
					break
				}
			}
			// If found non-intersecting diagonal, stop looking.
			if index != -1 {
				break
			}
			// All the potential diagonals for the current vertex were intersecting, try next vertex.
			bestVertex = (bestVertex + 1) % len(hole.Verts)
		}

		if index == -1 {
			ctx.Warnf("mergeHoles: failed to find merge points for hole of region %d at (%d, %d)", outline.Reg, h.minx, h.minz)
			continue
		}
		mergeContours(outline, hole, index, bestVertex)
	}
}

// mergeHoles classifies every contour of cset by winding and merges the
// holes of each region into its outline. Absorbed holes are removed from
// cset.Conts.
func mergeHoles(ctx RcTelemetry, cset *RcContourSet) error {
	if len(cset.Conts) == 0 {
		return nil
	}

	// Calculate winding of all polygons.
	winding := make([]int, len(cset.Conts))
	nholes := 0
	for i, cont := range cset.Conts {
		// If the contour is wound backwards, it is a hole.
		if calcAreaOfPolygon2D(cont.Verts) < 0 {
			winding[i] = -1
			nholes++
		} else {
			winding[i] = 1
		}
	}
	// Without holes there is nothing to merge, and regions with several
	// outlines are not reported either.
	if nholes == 0 {
		return nil
	}

	// Collect outline contour and holes contours per region.
	// We assume that there is one outline and multiple holes.
	regions := make(map[int]*contourRegion)
	var regionIDs []int
	for i, cont := range cset.Conts {
		reg, ok := regions[cont.Reg]
		if !ok {
			reg = &contourRegion{}
			regions[cont.Reg] = reg
			regionIDs = append(regionIDs, cont.Reg)
		}
		// Positively wound contours are outlines, negative holes.
		if winding[i] > 0 {
			if reg.outline != nil {
				return &ContourError{Region: cont.Reg, Err: ErrMultipleOutlines}
			}
			reg.outline = cont
		} else {
			reg.holes = append(reg.holes, &contourHole{contour: cont})
		}
	}
	slices.Sort(regionIDs)

	// Finally merge each regions holes into the outline.
	for _, id := range regionIDs {
		reg := regions[id]
		if len(reg.holes) == 0 {
			continue
		}
		if reg.outline == nil {
			// The region does not have an outline.
			// This can happen if the contour becomes self-overlapping because of
			// too aggressive simplification settings.
			return &ContourError{Region: id, Err: ErrBadOutline}
		}
		mergeRegionHoles(ctx, reg)
	}

	cset.Conts = slices.DeleteFunc(cset.Conts, func(c *RcContour) bool {
		return len(c.Verts) == 0
	})
	return nil
}
