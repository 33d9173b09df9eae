package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ConversationStore = (*Store)(nil)

// Store persists conversation turns in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docchat/data/conversations.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "conversations.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := Migrate(context.Background(), db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Append adds turns to the end of the conversation in one transaction.
func (s *Store) Append(ctx context.Context, id string, turns ...domain.Turn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, turn := range turns {
		if !turn.Role.IsValid() {
			return domain.ErrInvalidInput
		}

		sources := turn.Sources
		if sources == nil {
			sources = []domain.SourceRef{}
		}
		sourcesJSON, err := json.Marshal(sources)
		if err != nil {
			return fmt.Errorf("marshalling sources: %w", err)
		}

		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = time.Now().UTC()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO turns (conversation_id, role, text, sources, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, id, string(turn.Role), turn.Text, string(sourcesJSON), turn.CreatedAt)
		if err != nil {
			return fmt.Errorf("saving turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing turns: %w", err)
	}
	return nil
}

// Turns returns all turns of the conversation, oldest first.
func (s *Store) Turns(ctx context.Context, id string) ([]domain.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, text, sources, created_at
		FROM turns WHERE conversation_id = ?
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	turns := []domain.Turn{}
	for rows.Next() {
		var turn domain.Turn
		var role, sourcesJSON string
		if err := rows.Scan(&role, &turn.Text, &sourcesJSON, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		turn.Role = domain.Role(role)

		if err := json.Unmarshal([]byte(sourcesJSON), &turn.Sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
		if len(turn.Sources) == 0 {
			turn.Sources = nil
		}

		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}
	return turns, nil
}

// Clear removes every turn of the conversation.
func (s *Store) Clear(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM turns WHERE conversation_id = ?", id)
	if err != nil {
		return fmt.Errorf("clearing conversation: %w", err)
	}
	return nil
}
