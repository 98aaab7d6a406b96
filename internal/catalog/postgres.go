package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres searches a shared listings table when the marketplace catalog
// lives outside the local process. Selected by setting WEGGO_CATALOG_DSN.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect catalog: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

func (p *Postgres) Platform() string { return platformLabel }

func (p *Postgres) SearchActive(ctx context.Context, q Query, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 10
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, title, price, COALESCE(location, '') FROM listings WHERE status = 'active'`)
	args := []any{}
	idx := 1
	if q.Category != "" {
		sb.WriteString(fmt.Sprintf(" AND category = $%d", idx))
		args = append(args, q.Category)
		idx++
	}
	if len(q.Keywords) > 0 {
		clauses := make([]string, 0, len(q.Keywords))
		for _, kw := range q.Keywords {
			clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", idx))
			args = append(args, "%"+kw+"%")
			idx++
		}
		sb.WriteString(" AND (" + strings.Join(clauses, " OR ") + ")")
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", idx))
	args = append(args, limit)

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Price, &it.Location); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
