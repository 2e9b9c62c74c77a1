package region

import (
	"fmt"
	"slices"
)

// Box is a raw bounding box tagged with the entity that owns it.
type Box struct {
	EntityID string
	Type     string
	Rectangle
}

// Group builds one Region per entity per page and collects them by
// (page, type). Within a key, regions appear in the order their entity
// was first seen in boxes. An entity whose boxes carry conflicting types
// keeps the type of its first box.
func Group(boxes []Box) (Regions, error) {
	var order []string
	types := make(map[string]string)
	byEntity := make(map[string][]Rectangle)

	for _, b := range boxes {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("entity %s: %w", b.EntityID, err)
		}
		if _, seen := byEntity[b.EntityID]; !seen {
			order = append(order, b.EntityID)
			types[b.EntityID] = b.Type
		}
		byEntity[b.EntityID] = append(byEntity[b.EntityID], b.Rectangle)
	}

	regions := make(Regions)
	for _, id := range order {
		for page, rects := range groupByPage(byEntity[id]) {
			r, err := New(rects...)
			if err != nil {
				return nil, fmt.Errorf("entity %s: %w", id, err)
			}
			key := Key{Page: page, Type: types[id]}
			regions[key] = append(regions[key], r)
		}
	}
	return regions, nil
}

// groupByPage yields rectangles per page in ascending page order.
func groupByPage(rects []Rectangle) func(yield func(int, []Rectangle) bool) {
	return func(yield func(int, []Rectangle) bool) {
		byPage := make(map[int][]Rectangle)
		var pages []int
		for _, r := range rects {
			if _, ok := byPage[r.Page]; !ok {
				pages = append(pages, r.Page)
			}
			byPage[r.Page] = append(byPage[r.Page], r)
		}
		slices.Sort(pages)
		for _, p := range pages {
			if !yield(p, byPage[p]) {
				return
			}
		}
	}
}
