package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sentorder/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to the
// store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sentorder/data/sentorder.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sentorder", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sentorder.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EmbeddingStore returns the embedding store view of the database.
func (s *Store) EmbeddingStore() driven.EmbeddingStore {
	return &embeddingStore{db: s.db}
}

// RunStore returns the run history view of the database.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{db: s.db}
}

// migrate applies every NNN_name.up.sql newer than the recorded version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Embedding Store ====================

// Ensure embeddingStore implements the interface.
var _ driven.EmbeddingStore = (*embeddingStore)(nil)

type embeddingStore struct {
	db *sql.DB
}

// GetEmbedding returns the stored vector for model and text.
func (s *embeddingStore) GetEmbedding(ctx context.Context, model, text string) ([]float64, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT vector FROM embeddings WHERE model = ? AND text_hash = ?",
		model, textHash(text),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying embedding: %w", err)
	}
	return bytesToFloat64Slice(blob), true, nil
}

// PutEmbedding inserts or replaces a vector.
func (s *embeddingStore) PutEmbedding(ctx context.Context, model, text string, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector: %w", domain.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embeddings (model, text_hash, text, dimensions, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(model, text_hash) DO UPDATE SET
			vector = excluded.vector,
			dimensions = excluded.dimensions,
			created_at = excluded.created_at
	`, model, textHash(text), text, len(vector), float64SliceToBytes(vector), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving embedding: %w", err)
	}
	return nil
}

// CountEmbeddings returns the number of stored vectors.
func (s *embeddingStore) CountEmbeddings(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// ClearEmbeddings removes every stored vector.
func (s *embeddingStore) ClearEmbeddings(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM embeddings"); err != nil {
		return fmt.Errorf("clearing embeddings: %w", err)
	}
	return nil
}

// ==================== Run Store ====================

// Ensure runStore implements the interface.
var _ driven.RunStore = (*runStore)(nil)

type runStore struct {
	db *sql.DB
}

const runColumns = `id, strategy, sentence_count, sentence_order, original_text, reordered_text,
	original_score, reordered_score, evaluations, duration_ns, created_at`

// SaveRun inserts or replaces a run.
func (s *runStore) SaveRun(ctx context.Context, run domain.RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("run without id: %w", domain.ErrInvalidInput)
	}
	order, err := json.Marshal(run.Order)
	if err != nil {
		return fmt.Errorf("marshaling order: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Strategy.String(), run.SentenceCount, string(order), run.OriginalText, run.ReorderedText,
		run.OriginalScore, run.ReorderedScore, run.Evaluations, int64(run.Duration), run.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *runStore) GetRun(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns runs newest first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, id ASC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RunRecord, error) {
	var run domain.RunRecord
	var strategy, order string
	var durationNS int64

	if err := row.Scan(&run.ID, &strategy, &run.SentenceCount, &order, &run.OriginalText, &run.ReorderedText,
		&run.OriginalScore, &run.ReorderedScore, &run.Evaluations, &durationNS, &run.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if err := json.Unmarshal([]byte(order), &run.Order); err != nil {
		return nil, fmt.Errorf("unmarshaling order: %w", err)
	}
	run.Strategy = domain.Strategy(strategy)
	run.Duration = time.Duration(durationNS)
	return &run, nil
}

// ==================== Helper Functions ====================

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// float64SliceToBytes converts a []float64 to a byte slice for storage.
func float64SliceToBytes(floats []float64) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*8)
	for i, f := range floats {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

// bytesToFloat64Slice converts a byte slice back to []float64.
func bytesToFloat64Slice(data []byte) []float64 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float64, len(data)/8)
	for i := range floats {
		floats[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return floats
}
