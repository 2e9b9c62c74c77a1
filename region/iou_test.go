package region

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
		want float64
	}{
		{
			name: "identical",
			a:    MustNew(rect(0, 0, 10, 10, 1)),
			b:    MustNew(rect(0, 0, 10, 10, 1)),
			want: 1,
		},
		{
			name: "half overlap",
			a:    MustNew(rect(0, 0, 10, 10, 1)),
			b:    MustNew(rect(0, 0, 10, 5, 1)),
			want: 0.5,
		},
		{
			name: "disjoint",
			a:    MustNew(rect(0, 0, 10, 10, 1)),
			b:    MustNew(rect(20, 20, 10, 10, 1)),
			want: 0,
		},
		{
			name: "touching edges",
			a:    MustNew(rect(0, 0, 10, 10, 1)),
			b:    MustNew(rect(10, 0, 10, 10, 1)),
			want: 0,
		},
		{
			name: "different pages",
			a:    MustNew(rect(0, 0, 10, 10, 1)),
			b:    MustNew(rect(0, 0, 10, 10, 2)),
			want: 0,
		},
		{
			name: "degenerate",
			a:    MustNew(rect(0, 0, 0, 0, 1)),
			b:    MustNew(rect(0, 0, 0, 0, 1)),
			want: 0,
		},
		{
			name: "degenerate against box",
			a:    MustNew(rect(5, 5, 0, 3, 1)),
			b:    MustNew(rect(0, 0, 10, 10, 1)),
			want: 0,
		},
		{
			// Two-line equation against one box covering both lines:
			// union of a = 200, b = 300, intersection = 200.
			name: "multi-rectangle union",
			a:    MustNew(rect(0, 0, 20, 5, 3), rect(0, 10, 20, 5, 3)),
			b:    MustNew(rect(0, 0, 20, 15, 3)),
			want: 200.0 / 300.0,
		},
		{
			// Overlapping rectangles within one region are not double counted.
			name: "overlapping rectangles within region",
			a:    MustNew(rect(0, 0, 10, 10, 0), rect(0, 0, 10, 10, 0), rect(0, 0, 5, 10, 0)),
			b:    MustNew(rect(0, 0, 10, 10, 0)),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IoU(tt.a, tt.b)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("IoU() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIoUSymmetric(t *testing.T) {
	regions := []Region{
		MustNew(rect(0, 0, 10, 10, 0)),
		MustNew(rect(3, 2, 7, 9, 0)),
		MustNew(rect(0.1, 0.2, 0.3, 0.05, 0), rect(0.1, 0.26, 0.2, 0.05, 0)),
		MustNew(rect(-5, -5, 6, 6, 0), rect(8, 8, 4, 4, 0)),
		MustNew(rect(1, 1, 0, 0, 0)),
	}

	for i, a := range regions {
		for j, b := range regions {
			if ab, ba := IoU(a, b), IoU(b, a); ab != ba {
				t.Errorf("IoU(%d,%d) = %v but IoU(%d,%d) = %v", i, j, ab, j, i, ba)
			}
		}
		if a.Area() > 0 {
			if self := IoU(a, a); math.Abs(self-1) > eps {
				t.Errorf("IoU(%d,%d) = %v, want 1", i, i, self)
			}
		}
	}
}
