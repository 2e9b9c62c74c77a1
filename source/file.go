package source

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/go-regioneval/region"
)

// File serves regions from a YAML fixture document:
//
//	schemas:
//	  public:
//	    papers:
//	      "1601.00978":
//	        - index: 0
//	          entities:
//	            - id: "1"
//	              type: symbol
//	              data: {type: identifier}
//	              boxes:
//	                - {left: 0.1, top: 0.2, width: 0.05, height: 0.01, page: 0}
//
// Each paper maps to its list of entity data versions.
type File struct {
	doc    fileDocument
	filter Filter
}

type fileDocument struct {
	Schemas map[string]fileSchema `yaml:"schemas"`
}

type fileSchema struct {
	Papers map[string][]fileVersion `yaml:"papers"`
}

type fileVersion struct {
	Index    int          `yaml:"index"`
	Entities []fileEntity `yaml:"entities"`
}

type fileEntity struct {
	ID    string            `yaml:"id"`
	Type  string            `yaml:"type"`
	Data  map[string]string `yaml:"data"`
	Boxes []fileBox         `yaml:"boxes"`
}

type fileBox struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Page   int     `yaml:"page"`
}

// LoadFile reads a fixture document from path.
func LoadFile(path string, filter Filter) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFile(data, filter)
}

// ParseFile decodes a fixture document. Unknown fields are rejected.
func ParseFile(data []byte, filter Filter) (*File, error) {
	var doc fileDocument

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	return &File{doc: doc, filter: filter}, nil
}

// Regions implements Source.
func (f *File) Regions(ctx context.Context, req Request) (region.Regions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schema, ok := f.doc.Schemas[req.schema()]
	if !ok {
		return nil, fmt.Errorf("%w: %s: schema not found", ErrNoData, req)
	}
	versions, ok := schema.Papers[req.PaperID]
	if !ok || len(versions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, req)
	}

	v, ok := pickVersion(versions, req.Version)
	if !ok {
		return nil, fmt.Errorf("%w: %s: version not found", ErrNoData, req)
	}

	entities := make([]Entity, 0, len(v.Entities))
	for _, e := range v.Entities {
		boxes := make([]region.Rectangle, len(e.Boxes))
		for i, b := range e.Boxes {
			boxes[i] = region.NewRectangle(b.Left, b.Top, b.Width, b.Height, b.Page)
		}
		entities = append(entities, Entity{ID: e.ID, Type: e.Type, Data: e.Data, Boxes: boxes})
	}

	regions, err := build(entities, req.Types, f.filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req, err)
	}
	return regions, nil
}

// PaperIDs lists the papers stored under schema, sorted.
func (f *File) PaperIDs(schema string) IDs {
	if schema == "" {
		schema = DefaultSchema
	}
	var ids IDs
	for id := range f.doc.Schemas[schema].Papers {
		ids = append(ids, id)
	}
	return ids.sorted()
}

func pickVersion(versions []fileVersion, want *int) (fileVersion, bool) {
	if want != nil {
		for _, v := range versions {
			if v.Index == *want {
				return v, true
			}
		}
		return fileVersion{}, false
	}

	latest := versions[0]
	for _, v := range versions[1:] {
		if v.Index > latest.Index {
			latest = v
		}
	}
	return latest, true
}
