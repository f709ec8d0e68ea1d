package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"showreel/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS project (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	technologies TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS certificate (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	issuer TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	issued TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteSource reads items from a local SQLite database
type SQLiteSource struct {
	db         *sql.DB
	dsn        string
	collection string
}

// OpenSQLite opens dsn and creates the tables if needed
func OpenSQLite(dsn, collection string) (*SQLiteSource, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite source needs a dsn")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dsn, err)
	}
	// One connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if collection == "" {
		collection = CollectionProjects
	}
	return &SQLiteSource{db: db, dsn: dsn, collection: collection}, nil
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.dsn }

// Close closes the database
func (s *SQLiteSource) Close() error { return s.db.Close() }

// Fetch reads the configured collection ordered by sort_order, created_at
func (s *SQLiteSource) Fetch(ctx context.Context) ([]domain.DisplayItem, error) {
	var items []domain.DisplayItem
	if wants(s.collection, domain.KindProject) {
		projects, err := s.projects(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, projects...)
	}
	if wants(s.collection, domain.KindCertificate) {
		certs, err := s.certificates(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, certs...)
	}
	return items, nil
}

func (s *SQLiteSource) projects(ctx context.Context) ([]domain.DisplayItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, technologies, url, image
		FROM project ORDER BY sort_order, created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var out []domain.DisplayItem
	for rows.Next() {
		var r record
		var tech string
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &tech, &r.URL, &r.Image); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		r.Tech = splitTags(tech)
		out = append(out, r.item(domain.KindProject))
	}
	return out, rows.Err()
}

func (s *SQLiteSource) certificates(ctx context.Context) ([]domain.DisplayItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, issuer, description, url, image, issued
		FROM certificate ORDER BY sort_order, created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var out []domain.DisplayItem
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.ID, &r.Title, &r.Issuer, &r.Description, &r.URL, &r.Image, &r.Date); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		out = append(out, r.item(domain.KindCertificate))
	}
	return out, rows.Err()
}

// Replace swaps the stored items for items in one transaction. List order
// becomes sort_order.
func (s *SQLiteSource) Replace(ctx context.Context, items []domain.DisplayItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"project", "certificate"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	for i, it := range items {
		switch it.Kind {
		case domain.KindCertificate:
			issued := ""
			if !it.Issued.IsZero() {
				issued = it.Issued.Format("2006-01-02")
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO certificate (id, title, issuer, description, url, image, issued, sort_order)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				it.Key, it.Title, it.Subtitle, it.Description, it.URL, it.Image, issued, i)
		default:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO project (id, title, description, technologies, url, image, sort_order)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				it.Key, it.Title, it.Description, strings.Join(it.Tags, ","), it.URL, it.Image, i)
		}
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", it.Key, err)
		}
	}
	return tx.Commit()
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
