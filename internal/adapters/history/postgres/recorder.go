package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang-chat-blast/internal/domain"

	_ "github.com/lib/pq"
)

// Recorder persists batch records in PostgreSQL for durable, queryable
// history alongside the default dated-folder JSON files.
type Recorder struct {
	db *sql.DB
}

// New opens a PostgreSQL connection and returns a Recorder.
func New(dsn string) (*Recorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Recorder{db: db}, nil
}

// Close closes the underlying database connection pool.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// Record inserts one batch record row; context and results go in as JSONB.
func (r *Recorder) Record(ctx context.Context, rec domain.BatchRecord) error {
	contextJSON, err := json.Marshal(rec.Context)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	resultsJSON, err := json.Marshal(rec.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	const q = `
		INSERT INTO batch_records (id, label, sender, template, context, results, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, q,
		rec.ID, rec.Label, rec.SenderIdentity, rec.Template,
		contextJSON, resultsJSON, rec.Total, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch record: %w", err)
	}
	return nil
}
