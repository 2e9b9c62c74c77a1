package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/jamesainslie/go-regioneval/region"
)

// Postgres reads entities from the paper, version, entity, boundingbox and
// entitydata tables of a schema. It is safe for concurrent use.
type Postgres struct {
	db     *sql.DB
	filter Filter
	owned  bool
}

// PostgresOption configures a Postgres source.
type PostgresOption func(*Postgres)

// WithFilter drops entities for which f returns false before grouping.
func WithFilter(f Filter) PostgresOption {
	return func(p *Postgres) {
		p.filter = f
	}
}

// NewPostgres wraps an existing handle. Close does not close db.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	p := &Postgres{db: db}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OpenPostgres connects using the pgx driver and verifies the connection.
// The returned source owns the handle and releases it on Close.
func OpenPostgres(ctx context.Context, dsn string, opts ...PostgresOption) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(1 * time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close() // ping error takes precedence
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := NewPostgres(db, opts...)
	p.owned = true
	return p, nil
}

// DB returns the underlying handle, for sharing with another source.
func (p *Postgres) DB() *sql.DB { return p.db }

// Close releases the database handle if the source opened it.
func (p *Postgres) Close() error {
	if !p.owned {
		return nil
	}
	return p.db.Close()
}

// Regions implements Source.
func (p *Postgres) Regions(ctx context.Context, req Request) (region.Regions, error) {
	schema := req.schema()

	version, err := p.resolveVersion(ctx, schema, req.PaperID, req.Version)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req, err)
	}

	types := req.Types
	if types == nil {
		types = []string{}
	}

	entities, err := p.entities(ctx, schema, req.PaperID, version, types)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req, err)
	}

	regions, err := build(entities, req.Types, p.filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req, err)
	}
	return regions, nil
}

// Papers returns an Enumerator over every paper in schema.
func (p *Postgres) Papers(schema string) Enumerator {
	if schema == "" {
		schema = DefaultSchema
	}
	return paperLister{db: p.db, schema: schema}
}

func table(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func (p *Postgres) resolveVersion(ctx context.Context, schema, paperID string, want *int) (int, error) {
	if want != nil {
		q := fmt.Sprintf(`
select exists (
  select 1
  from %s v
  join %s p on v.paper_id = p.s2_id
  where p.arxiv_id = $1 and v."index" = $2
)`, table(schema, "version"), table(schema, "paper"))

		var found bool
		if err := p.db.QueryRowContext(ctx, q, paperID, *want).Scan(&found); err != nil {
			return 0, fmt.Errorf("query version: %w", err)
		}
		if !found {
			return 0, fmt.Errorf("%w: version %d not found", ErrNoData, *want)
		}
		return *want, nil
	}

	q := fmt.Sprintf(`
select max(v."index")
from %s v
join %s p on v.paper_id = p.s2_id
where p.arxiv_id = $1`, table(schema, "version"), table(schema, "paper"))

	var latest sql.NullInt64
	if err := p.db.QueryRowContext(ctx, q, paperID).Scan(&latest); err != nil {
		return 0, fmt.Errorf("query latest version: %w", err)
	}
	if !latest.Valid {
		return 0, fmt.Errorf("%w: no versions in schema %s", ErrNoData, schema)
	}
	return int(latest.Int64), nil
}

// entities loads boxes and key/value data for one paper version. Entities
// keep the order of their first box.
func (p *Postgres) entities(ctx context.Context, schema, paperID string, version int, types []string) ([]Entity, error) {
	boxesQuery := fmt.Sprintf(`
select e.id, e.type, b."left", b.top, b.width, b.height, b.page
from %s e
join %s p on e.paper_id = p.s2_id
join %s b on b.entity_id = e.id
where e.version = $1
  and p.arxiv_id = $2
  and (cardinality($3::text[]) = 0 or e.type = any($3::text[]))
order by e.id, b.id`, table(schema, "entity"), table(schema, "paper"), table(schema, "boundingbox"))

	rows, err := p.db.QueryContext(ctx, boxesQuery, version, paperID, types)
	if err != nil {
		return nil, fmt.Errorf("query boxes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entities []Entity
	index := make(map[string]int)
	for rows.Next() {
		var (
			id, typ                  string
			left, top, width, height float64
			page                     int
		)
		if err := rows.Scan(&id, &typ, &left, &top, &width, &height, &page); err != nil {
			return nil, fmt.Errorf("scan box: %w", err)
		}
		i, ok := index[id]
		if !ok {
			i = len(entities)
			index[id] = i
			entities = append(entities, Entity{ID: id, Type: typ, Data: map[string]string{}})
		}
		entities[i].Boxes = append(entities[i].Boxes, region.NewRectangle(left, top, width, height, page))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read boxes: %w", err)
	}

	if len(entities) == 0 {
		return entities, nil
	}

	dataQuery := fmt.Sprintf(`
select d.entity_id, d.key, d.value
from %s d
join %s e on d.entity_id = e.id
join %s p on e.paper_id = p.s2_id
where e.version = $1
  and p.arxiv_id = $2
  and (cardinality($3::text[]) = 0 or e.type = any($3::text[]))`,
		table(schema, "entitydata"), table(schema, "entity"), table(schema, "paper"))

	dataRows, err := p.db.QueryContext(ctx, dataQuery, version, paperID, types)
	if err != nil {
		return nil, fmt.Errorf("query entity data: %w", err)
	}
	defer func() { _ = dataRows.Close() }()

	for dataRows.Next() {
		var id, key string
		var value sql.NullString
		if err := dataRows.Scan(&id, &key, &value); err != nil {
			return nil, fmt.Errorf("scan entity data: %w", err)
		}
		if i, ok := index[id]; ok {
			entities[i].Data[key] = value.String
		}
	}
	if err := dataRows.Err(); err != nil {
		return nil, fmt.Errorf("read entity data: %w", err)
	}

	return entities, nil
}

type paperLister struct {
	db     *sql.DB
	schema string
}

// PaperIDs implements Enumerator.
func (l paperLister) PaperIDs(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf(`select distinct p.arxiv_id from %s p where p.arxiv_id is not null order by 1`,
		table(l.schema, "paper"))

	rows, err := l.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query papers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read papers: %w", err)
	}
	return ids, nil
}
