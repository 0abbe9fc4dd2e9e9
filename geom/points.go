// SPDX-License-Identifier: GPL-2.0-or-later

package geom

import (
	"fmt"
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

const (
	// pointScale is the distance from the plane center to each
	// generated point. It is deliberately large so that grid
	// snapping cannot collapse the triple onto itself.
	pointScale = 256.0

	// minNormalLength is the shortest plane normal that is still
	// trusted; anything below it falls back to the up axis.
	minNormalLength = 0.001

	// verticalLimit switches the tangent seed away from the up axis
	// once the normal gets close to parallel with it.
	verticalLimit = 0.9
)

// Options carries the knobs the reconstruction needs. Zero values
// disable snapping and the edge check, which is only useful in tests.
type Options struct {
	GridSnap float64
	Decimals int
	MinEdge  float64
}

// DegenerateEdgeError reports a point pair closer together than the
// configured minimum edge length.
type DegenerateEdgeError struct {
	Length  float64
	MinEdge float64
}

func (e *DegenerateEdgeError) Error() string {
	return fmt.Sprintf("degenerate edge %.6f below minimum %g", e.Length, e.MinEdge)
}

// PlanePoints derives three widely separated points on the plane
// dot(normal, p) == dist. The triple's order fixes the face winding;
// the downstream compiler re-derives the plane equation from it.
//
// The center is snapped to the grid before the points are generated
// from it, then each point is snapped in turn; decimal rounding
// happens last so it cannot reintroduce float noise after snapping.
func PlanePoints(normal vec3d.T, dist float64, opt Options) (p1, p2, p3 vec3d.T, err error) {
	n := safeNormalize(normal)

	seed := vec3d.UnitZ
	if math.Abs(n[2]) >= verticalLimit {
		seed = vec3d.UnitX
	}
	c1 := vec3d.Cross(&n, &seed)
	t1 := safeNormalize(c1)
	c2 := vec3d.Cross(&n, &t1)
	t2 := safeNormalize(c2)

	center := snapVec(n.Scaled(dist), opt.GridSnap)
	o1 := t1.Scaled(pointScale)
	o2 := t2.Scaled(pointScale)

	p1 = snapVec(vec3d.Add(&center, &o1), opt.GridSnap)
	p2 = snapVec(vec3d.Sub(&center, &o1), opt.GridSnap)
	p3 = snapVec(vec3d.Add(&center, &o2), opt.GridSnap)

	if opt.MinEdge > 0 {
		for _, pair := range [3][2]vec3d.T{{p1, p2}, {p1, p3}, {p2, p3}} {
			d := vec3d.Sub(&pair[0], &pair[1])
			if l := d.Length(); l < opt.MinEdge {
				err = &DegenerateEdgeError{Length: l, MinEdge: opt.MinEdge}
				break
			}
		}
	}

	// points are rounded even on a failed edge check; callers may be
	// configured to keep the face regardless
	p1 = roundVec(p1, opt.Decimals)
	p2 = roundVec(p2, opt.Decimals)
	p3 = roundVec(p3, opt.Decimals)
	return p1, p2, p3, err
}

func safeNormalize(v vec3d.T) vec3d.T {
	if v.Length() < minNormalLength {
		return vec3d.UnitZ
	}
	return v.Normalized()
}

func snapVec(v vec3d.T, grid float64) vec3d.T {
	return vec3d.T{
		Snap(v[0], grid),
		Snap(v[1], grid),
		Snap(v[2], grid),
	}
}

func roundVec(v vec3d.T, decimals int) vec3d.T {
	return vec3d.T{
		RoundHalfUp(v[0], decimals),
		RoundHalfUp(v[1], decimals),
		RoundHalfUp(v[2], decimals),
	}
}
