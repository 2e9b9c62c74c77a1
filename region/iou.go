package region

import "slices"

// IoU returns the intersection-over-union of the areas covered by the
// union of a's rectangles and the union of b's rectangles. Regions on
// different pages, and pairs whose union has no area, score zero.
func IoU(a, b Region) float64 {
	if a.page != b.page {
		return 0
	}

	areaA, areaB, both := coverage(a.rects, b.rects)
	union := areaA + areaB - both
	if union <= 0 {
		return 0
	}
	return both / union
}

// coverage splits the plane along every rectangle edge of a and b and sums,
// for each cell, whether it is covered by a, by b, or by both. Overlapping
// rectangles within one side are therefore counted once.
func coverage(a, b []Rectangle) (areaA, areaB, both float64) {
	xs := make([]float64, 0, 2*(len(a)+len(b)))
	ys := make([]float64, 0, 2*(len(a)+len(b)))
	for _, side := range [][]Rectangle{a, b} {
		for _, r := range side {
			if r.IsEmpty() {
				continue
			}
			xs = append(xs, r.Left, r.Right())
			ys = append(ys, r.Top, r.Bottom())
		}
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)
	slices.Sort(ys)
	ys = slices.Compact(ys)

	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		for j := 0; j+1 < len(ys); j++ {
			y0, y1 := ys[j], ys[j+1]
			inA := anyCovers(a, x0, x1, y0, y1)
			inB := anyCovers(b, x0, x1, y0, y1)
			if !inA && !inB {
				continue
			}

			cell := (x1 - x0) * (y1 - y0)
			if inA {
				areaA += cell
			}
			if inB {
				areaB += cell
			}
			if inA && inB {
				both += cell
			}
		}
	}
	return areaA, areaB, both
}

func anyCovers(rects []Rectangle, x0, x1, y0, y1 float64) bool {
	for _, r := range rects {
		if r.covers(x0, x1, y0, y1) {
			return true
		}
	}
	return false
}
