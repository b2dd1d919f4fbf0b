package common

// XZ is a grid position projected onto the xz-plane. Contour geometry is
// evaluated in this plane only, the y component never takes part.
type XZ struct {
	X, Z int
}

// Last time I checked the if version got compiled using cmov, which was a lot faster than module (with idiv).
func Prev[T IT](i, n T) T {
	if i-1 >= 0 {
		return i - 1
	}
	return n - 1
}

func Next[T IT](i, n T) T {
	if i+1 < n {
		return i + 1
	}
	return 0
}

// Area2 returns twice the signed area of the triangle abc.
// Negative when c lies to the left of the directed line a->b.
func Area2(a, b, c XZ) int {
	return (b.X-a.X)*(c.Z-a.Z) - (c.X-a.X)*(b.Z-a.Z)
}

// Returns true iff c is strictly to the left of the directed
// line through a to b.
func Left(a, b, c XZ) bool {
	return Area2(a, b, c) < 0
}

func LeftOn(a, b, c XZ) bool {
	return Area2(a, b, c) <= 0
}

func Collinear(a, b, c XZ) bool {
	return Area2(a, b, c) == 0
}

// Exclusive or: true iff exactly one argument is true.
func Xorb(x, y bool) bool {
	return x != y
}

// Returns true iff ab properly intersects cd: they share
// a point interior to both segments.  The properness of the
// intersection is ensured by using strict leftness.
func IntersectProp(a, b, c, d XZ) bool {
	// Eliminate improper cases.
	if Collinear(a, b, c) || Collinear(a, b, d) ||
		Collinear(c, d, a) || Collinear(c, d, b) {
		return false
	}
	return Xorb(Left(a, b, c), Left(a, b, d)) && Xorb(Left(c, d, a), Left(c, d, b))
}

// Returns true iff (a,b,c) are collinear and point c lies
// on the closed segment ab.
func Between(a, b, c XZ) bool {
	if !Collinear(a, b, c) {
		return false
	}
	// If ab not vertical, check betweenness on x; else on z.
	if a.X != b.X {
		return (a.X <= c.X && c.X <= b.X) || (a.X >= c.X && c.X >= b.X)
	}
	return (a.Z <= c.Z && c.Z <= b.Z) || (a.Z >= c.Z && c.Z >= b.Z)
}

// Returns true iff segments ab and cd intersect, properly or improperly.
func Intersect(a, b, c, d XZ) bool {
	if IntersectProp(a, b, c, d) {
		return true
	}
	return Between(a, b, c) || Between(a, b, d) ||
		Between(c, d, a) || Between(c, d, b)
}

// DistancePtSeg2D returns the squared distance from (x, z) to the segment
// p-q.
func DistancePtSeg2D(x, z, px, pz, qx, qz int) float64 {
	pqx := float64(qx - px)
	pqz := float64(qz - pz)
	dx := float64(x - px)
	dz := float64(z - pz)
	d := pqx*pqx + pqz*pqz
	t := pqx*dx + pqz*dz
	if d > 0 {
		t /= d
	}
	t = Clamp(t, 0, 1)

	dx = float64(px) + t*pqx - float64(x)
	dz = float64(pz) + t*pqz - float64(z)
	return dx*dx + dz*dz
}
