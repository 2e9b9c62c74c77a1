// Package source loads entity bounding boxes from annotation and extraction
// stores and turns them into regions keyed by page and entity type.
package source

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jamesainslie/go-regioneval/region"
)

// Entity types understood by the localization pipeline.
const (
	TypeCitation = "citation"
	TypeSymbol   = "symbol"
	TypeSentence = "sentence"
	TypeEquation = "equation"
)

// EntityTypes lists every supported entity type.
var EntityTypes = []string{TypeCitation, TypeSymbol, TypeSentence, TypeEquation}

// DefaultSchema is used when a request names no schema.
const DefaultSchema = "public"

var (
	// ErrNoData indicates the store holds no record for the paper, schema or
	// version. It is distinct from a record with zero regions.
	ErrNoData = errors.New("source: no data for paper")

	// ErrUnknownEntityType indicates a requested entity type is not supported.
	ErrUnknownEntityType = errors.New("source: unknown entity type")
)

// Request selects the regions to load for one paper.
type Request struct {
	PaperID string
	Schema  string
	// Version is the entity data version index. Nil selects the most recent.
	Version *int
	// Types restricts the entity types loaded. Empty loads all types.
	Types []string
}

func (r Request) schema() string {
	if r.Schema == "" {
		return DefaultSchema
	}
	return r.Schema
}

func (r Request) String() string {
	v := "latest"
	if r.Version != nil {
		v = fmt.Sprint(*r.Version)
	}
	return fmt.Sprintf("%s/%s@%s", r.schema(), r.PaperID, v)
}

// Source loads regions for a paper.
//
// Implementations return ErrNoData (possibly wrapped) when nothing is stored
// for the request, and an empty non-nil Regions when the paper is present but
// has no boxes of the requested types.
type Source interface {
	Regions(ctx context.Context, req Request) (region.Regions, error)
}

// Entity is one logical entity with its boxes and key/value data.
type Entity struct {
	ID    string
	Type  string
	Data  map[string]string
	Boxes []region.Rectangle
}

// Filter decides whether an entity belongs in the evaluated set.
type Filter func(Entity) bool

// GoldSymbolTypes are the symbol subtypes annotated in the gold set.
var GoldSymbolTypes = []string{"function", "identifier"}

// GoldSymbols keeps every non-symbol entity, and symbols whose "type" data is
// absent or one of GoldSymbolTypes. Operators, for example, are dropped.
func GoldSymbols(e Entity) bool {
	if e.Type != TypeSymbol {
		return true
	}
	t, ok := e.Data["type"]
	return !ok || slices.Contains(GoldSymbolTypes, t)
}

// ValidateTypes checks that every type is a supported entity type.
func ValidateTypes(types []string) error {
	for _, t := range types {
		if !slices.Contains(EntityTypes, t) {
			return fmt.Errorf("%w: %q", ErrUnknownEntityType, t)
		}
	}
	return nil
}

// build applies the type restriction and filter, then groups boxes into regions.
func build(entities []Entity, types []string, filter Filter) (region.Regions, error) {
	var boxes []region.Box
	for _, e := range entities {
		if len(types) > 0 && !slices.Contains(types, e.Type) {
			continue
		}
		if filter != nil && !filter(e) {
			continue
		}
		for _, b := range e.Boxes {
			boxes = append(boxes, region.Box{EntityID: e.ID, Type: e.Type, Rectangle: b})
		}
	}
	return region.Group(boxes)
}

func isNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
