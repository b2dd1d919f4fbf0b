package recast

import "github.com/gorustyt/navcontour/common"

// simplifiedVertex is a simplified contour vertex together with the index of
// the raw vertex it was taken from.
type simplifiedVertex struct {
	RcContourVertex
	raw int
}

// isLexicographicallyAfter reports whether (bx, bz) comes after (ax, az)
// when ordering by x first and z second.
func isLexicographicallyAfter(ax, az, bx, bz int) bool {
	return bx > ax || (bx == ax && bz > az)
}

// simplifyContour reduces the raw ring points to the vertices needed to stay
// within maxError of it. Portal and area transitions are always kept. Edges
// longer than maxEdgeLen are split when buildFlags asks for it.
func simplifyContour(points []RcContourVertex, simplified *Stack[simplifiedVertex], maxError float64, maxEdgeLen, buildFlags int) {
	pn := len(points)
	if pn == 0 {
		return
	}

	// Add initial points.
	hasConnections := false
	for _, p := range points {
		if p.Flags.Connected() {
			hasConnections = true
			break
		}
	}

	if hasConnections {
		// The contour has some portals to other regions.
		// Add a new point to every location where the region changes.
		for i := 0; i < pn; i++ {
			ii := (i + 1) % pn
			differentRegs := points[i].Flags.Region != points[ii].Flags.Region
			areaBorders := points[i].Flags.AreaBorder != points[ii].Flags.AreaBorder
			if differentRegs || areaBorders {
				simplified.Push(simplifiedVertex{RcContourVertex: points[i], raw: i})
			}
		}
	}

	if simplified.Empty() {
		// If there is no connections at all,
		// create some initial points for the simplification process.
		// Find lower-left and upper-right vertices of the contour.
		lli, uri := 0, 0
		for i := 1; i < pn; i++ {
			p := points[i]
			if ll := points[lli]; p.X < ll.X || (p.X == ll.X && p.Z < ll.Z) {
				lli = i
			}
			if ur := points[uri]; p.X > ur.X || (p.X == ur.X && p.Z > ur.Z) {
				uri = i
			}
		}
		simplified.Push(simplifiedVertex{RcContourVertex: points[lli], raw: lli})
		simplified.Push(simplifiedVertex{RcContourVertex: points[uri], raw: uri})
	}

	// Add points until all raw points are within
	// error tolerance to the simplified shape.
	maxErrorSqr := maxError * maxError
	for i := 0; i < simplified.Len(); {
		ii := (i + 1) % simplified.Len()

		a := simplified.Index(i)
		b := simplified.Index(ii)
		ax, az, ai := a.X, a.Z, a.raw
		bx, bz, bi := b.X, b.Z, b.raw

		// Find maximum deviation from the segment.
		maxd := 0.0
		maxi := -1
		var ci, cinc, endi int

		// Traverse the segment in lexicographic order so that the
		// max deviation is calculated similarly when traversing
		// opposite segments.
		if isLexicographicallyAfter(ax, az, bx, bz) {
			cinc = 1
			ci = (ai + cinc) % pn
			endi = bi
		} else {
			cinc = pn - 1
			ci = (bi + cinc) % pn
			endi = ai
			ax, bx = bx, ax
			az, bz = bz, az
		}

		// Tessellate only outer edges or edges between areas.
		if !points[ci].Flags.Connected() || points[ci].Flags.AreaBorder {
			for ci != endi {
				d := common.DistancePtSeg2D(points[ci].X, points[ci].Z, ax, az, bx, bz)
				if d > maxd {
					maxd = d
					maxi = ci
				}
				ci = (ci + cinc) % pn
			}
		}

		// If the max deviation is larger than accepted error,
		// add new point, else continue to next segment.
		if maxi != -1 && maxd > maxErrorSqr {
			simplified.Insert(i+1, simplifiedVertex{RcContourVertex: points[maxi], raw: maxi})
		} else {
			i++
		}
	}

	// Split too long edges.
	if maxEdgeLen > 0 && (buildFlags&(RC_CONTOUR_TESS_WALL_EDGES|RC_CONTOUR_TESS_AREA_EDGES)) != 0 {
		for i := 0; i < simplified.Len(); {
			ii := (i + 1) % simplified.Len()

			a := simplified.Index(i)
			b := simplified.Index(ii)
			ax, az, ai := a.X, a.Z, a.raw
			bx, bz, bi := b.X, b.Z, b.raw

			maxi := -1
			ci := (ai + 1) % pn

			// Tessellate only outer edges or edges between areas.
			tess := false
			// Wall edges.
			if (buildFlags&RC_CONTOUR_TESS_WALL_EDGES) != 0 && !points[ci].Flags.Connected() {
				tess = true
			}
			// Edges between areas.
			if (buildFlags&RC_CONTOUR_TESS_AREA_EDGES) != 0 && points[ci].Flags.AreaBorder {
				tess = true
			}

			if tess {
				dx := bx - ax
				dz := bz - az
				if common.Sqr(dx)+common.Sqr(dz) > common.Sqr(maxEdgeLen) {
					// Round based on the segments in lexicographic order so that the
					// max tessellation is consistent regardless in which direction
					// segments are traversed.
					n := bi - ai
					if bi < ai {
						n = bi + pn - ai
					}
					if n > 1 {
						if isLexicographicallyAfter(ax, az, bx, bz) {
							maxi = (ai + n/2) % pn
						} else {
							maxi = (ai + (n+1)/2) % pn
						}
					}
				}
			}

			if maxi != -1 {
				simplified.Insert(i+1, simplifiedVertex{RcContourVertex: points[maxi], raw: maxi})
			} else {
				i++
			}
		}
	}

	data := simplified.Data()
	for i := range data {
		// The edge vertex flag is taken from the current raw point,
		// and the neighbour region is taken from the next raw point.
		next := points[(data[i].raw+1)%pn].Flags
		data[i].Flags = RcVertexFlags{
			Region:       next.Region,
			AreaBorder:   next.AreaBorder,
			BorderVertex: points[data[i].raw].Flags.BorderVertex,
		}
	}
}

// removeDegenerateSegments drops vertices equal on the xz-plane to their
// successor, or else the triangulator will get confused.
func removeDegenerateSegments(simplified *Stack[simplifiedVertex]) {
	npts := simplified.Len()
	for i := 0; i < npts; i++ {
		ni := common.Next(i, npts)
		if ni == i {
			break
		}
		if simplified.Index(i).XZ() == simplified.Index(ni).XZ() {
			// Degenerate segment, remove.
			simplified.RemoveAt(i)
			npts--
			// Check the same slot again, a run may hold more than two copies.
			i--
		}
	}
}
