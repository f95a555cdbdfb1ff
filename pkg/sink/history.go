package sink

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SetupSchema initializes the history table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const (
		schemaHistory = `
CREATE TABLE IF NOT EXISTS generated_texts (
    text_id TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    policy TEXT NOT NULL,
    seed INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);
`
		indexHistory = `CREATE INDEX IF NOT EXISTS idx_generated_texts_created ON generated_texts (created_at);`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaHistory); err != nil {
		return fmt.Errorf("could not create history schema: %w", err)
	}
	if _, err = tx.Exec(indexHistory); err != nil {
		return fmt.Errorf("could not create history index: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Record is one stored output.
type Record struct {
	ID        string
	Text      string
	Policy    string
	Seed      uint64
	CreatedAt time.Time
}

// SQLSink appends every output to the generated_texts table.
type SQLSink struct {
	stmtInsert *sql.Stmt
	stmtRecent *sql.Stmt
	now        func() time.Time
	logger     *slog.Logger
}

// NewSQLSink prepares the statements used by the sink. SetupSchema must have
// been called on db first.
func NewSQLSink(db *sql.DB) (*SQLSink, error) {
	stmtInsert, err := db.Prepare(`INSERT INTO generated_texts (text_id, body, policy, seed, created_at) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtRecent, err := db.Prepare(`SELECT text_id, body, policy, seed, created_at FROM generated_texts ORDER BY created_at DESC, rowid DESC LIMIT ?;`)
	if err != nil {
		_ = stmtInsert.Close()
		return nil, err
	}

	return &SQLSink{
		stmtInsert: stmtInsert,
		stmtRecent: stmtRecent,
		now:        time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the sink. By default, all logs are discarded.
func (s *SQLSink) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Close releases the prepared statements.
func (s *SQLSink) Close() {
	_ = s.stmtInsert.Close()
	_ = s.stmtRecent.Close()
}

func (s *SQLSink) Write(ctx context.Context, out Output) error {
	id := uuid.NewString()
	// SQLite integers are signed; the seed is stored by bit pattern.
	_, err := s.stmtInsert.ExecContext(ctx, id, out.Text, out.Policy, int64(out.Seed), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("could not record generated text: %w", err)
	}
	s.logger.DebugContext(ctx, "Generated text recorded",
		slog.String("text_id", id),
		slog.String("policy", out.Policy),
		slog.Int("length", len(out.Text)),
	)
	return nil
}

// Recent returns up to n stored outputs, newest first.
func (s *SQLSink) Recent(ctx context.Context, n int) ([]Record, error) {
	rows, err := s.stmtRecent.QueryContext(ctx, n)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var records []Record
	for rows.Next() {
		var r Record
		var seed, created int64
		if err = rows.Scan(&r.ID, &r.Text, &r.Policy, &seed, &created); err != nil {
			return nil, err
		}
		r.Seed = uint64(seed)
		r.CreatedAt = time.Unix(0, created)
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
