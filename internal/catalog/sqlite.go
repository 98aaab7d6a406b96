package catalog

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

const platformLabel = "Weggo Listings"

type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS listings (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  price INTEGER NOT NULL,
  category TEXT NOT NULL,
  condition TEXT,
  location TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_status_category ON listings (status, category);
`); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Platform() string { return platformLabel }

// InsertListing adds a catalog row. Used by seeding and tests; the pricing
// engine itself only reads.
func (s *SQLite) InsertListing(ctx context.Context, l Listing) error {
	status := l.Status
	if status == "" {
		status = "active"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO listings (id, title, price, category, condition, location, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.Title,
		l.Price,
		l.Category,
		l.Condition,
		l.Location,
		status,
		l.CreatedAt.UnixMilli(),
	)
	return err
}

func (s *SQLite) SearchActive(ctx context.Context, q Query, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 10
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, title, price, COALESCE(location, '') FROM listings WHERE status = 'active'`)
	args := []any{}
	if q.Category != "" {
		sb.WriteString(" AND category = ?")
		args = append(args, q.Category)
	}
	if len(q.Keywords) > 0 {
		clauses := make([]string, 0, len(q.Keywords))
		for _, kw := range q.Keywords {
			clauses = append(clauses, "LOWER(title) LIKE ?")
			args = append(args, "%"+strings.ToLower(kw)+"%")
		}
		sb.WriteString(" AND (" + strings.Join(clauses, " OR ") + ")")
	}
	sb.WriteString(" ORDER BY created_at DESC LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
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
