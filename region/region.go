// Package region models the page-scoped rectangles that make up an entity's
// footprint and the similarity measure used to compare them.
package region

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrEmptyRegion indicates a Region was built without rectangles.
	ErrEmptyRegion = errors.New("region: region has no rectangles")

	// ErrMixedPages indicates a Region was built from rectangles on different pages.
	ErrMixedPages = errors.New("region: rectangles span multiple pages")

	// ErrInvalidRectangle indicates a rectangle with negative size, negative page
	// or non-finite coordinates.
	ErrInvalidRectangle = errors.New("region: invalid rectangle")
)

// Region is the set of rectangles covering one entity instance on one page.
// Rectangles are kept sorted and deduplicated, so two regions built from the
// same rectangles in any order are Equal. A Region is immutable.
type Region struct {
	page  int
	rects []Rectangle
}

// New builds a Region from one or more rectangles on the same page.
func New(rects ...Rectangle) (Region, error) {
	if len(rects) == 0 {
		return Region{}, ErrEmptyRegion
	}

	page := rects[0].Page
	for _, r := range rects {
		if err := r.Validate(); err != nil {
			return Region{}, err
		}
		if r.Page != page {
			return Region{}, fmt.Errorf("%w: pages %d and %d", ErrMixedPages, page, r.Page)
		}
	}

	sorted := slices.Clone(rects)
	slices.SortFunc(sorted, CompareRectangles)
	sorted = slices.Compact(sorted)

	return Region{page: page, rects: sorted}, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(rects ...Rectangle) Region {
	r, err := New(rects...)
	if err != nil {
		panic(err)
	}
	return r
}

// Page returns the page the region lies on.
func (r Region) Page() int { return r.page }

// Len returns the number of distinct rectangles.
func (r Region) Len() int { return len(r.rects) }

// Rectangles returns a copy of the region's rectangles in canonical order.
func (r Region) Rectangles() []Rectangle {
	return slices.Clone(r.rects)
}

// Area returns the area covered by the union of the region's rectangles.
func (r Region) Area() float64 {
	area, _, _ := coverage(r.rects, nil)
	return area
}

// Equal reports whether both regions hold the same rectangles.
func (r Region) Equal(other Region) bool {
	return Compare(r, other) == 0
}

// String returns a canonical textual form, usable as a set key.
func (r Region) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, rect := range r.rects {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(rect.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Compare orders regions by page and then lexicographically by rectangles.
func Compare(a, b Region) int {
	if c := cmp.Compare(a.page, b.page); c != 0 {
		return c
	}
	return slices.CompareFunc(a.rects, b.rects, CompareRectangles)
}

// Collection is an ordered list of regions sharing one (page, type) key.
type Collection []Region

// Key identifies the regions of one entity type on one page.
type Key struct {
	Page int
	Type string
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.Type, k.Page)
}

// CompareKeys orders keys by entity type, then page.
func CompareKeys(a, b Key) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	return cmp.Compare(a.Page, b.Page)
}

// Regions maps each (page, type) key to its collection.
// A nil map means no data; an empty map means data with no regions.
type Regions map[Key]Collection

// Keys returns the keys holding at least one region, sorted by type then page.
func (rs Regions) Keys() []Key {
	keys := make([]Key, 0, len(rs))
	for k, c := range rs {
		if len(c) > 0 {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, CompareKeys)
	return keys
}

// Count returns the total number of regions across all keys.
func (rs Regions) Count() int {
	n := 0
	for _, c := range rs {
		n += len(c)
	}
	return n
}
