package storage

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		log.Println("Error closing the database connection:", err)
	}
}

// EnsureSchema creates the parse-history table if it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.connection.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS parse_results (
			id          UUID PRIMARY KEY,
			filename    TEXT NOT NULL,
			source      TEXT NOT NULL,
			payload     TEXT NOT NULL,
			text_length INT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func (db *DB) SaveParseResult(ctx context.Context, rec *ParseRecord) error {
	query := `INSERT INTO parse_results (id, filename, source, payload, text_length, created_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := db.connection.ExecContext(ctx, query,
		rec.ID,
		rec.Filename,
		rec.Source,
		rec.Payload,
		rec.TextLength,
		rec.CreatedAt,
	)
	return err
}

func (db *DB) GetParseResult(ctx context.Context, id string) (*ParseRecord, error) {
	query := `SELECT id, filename, source, payload, text_length, created_at
              FROM parse_results WHERE id = $1`
	var rec ParseRecord
	err := db.connection.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Filename,
		&rec.Source,
		&rec.Payload,
		&rec.TextLength,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecent returns the newest parse records without their payloads.
func (db *DB) ListRecent(ctx context.Context, limit int) ([]ParseRecord, error) {
	query := `SELECT id, filename, source, text_length, created_at
              FROM parse_results ORDER BY created_at DESC LIMIT $1`
	rows, err := db.connection.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []ParseRecord{}
	for rows.Next() {
		var rec ParseRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.Source, &rec.TextLength, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
