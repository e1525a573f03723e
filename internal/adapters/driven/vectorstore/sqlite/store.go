// Package sqlite provides a durable SQLite-backed vector store.
// Embeddings are stored as little-endian float32 blobs and search is a
// brute-force cosine scan, which is plenty for single-machine corpora.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/parchment-labs/docask-cli/internal/adapters/driven/vectorstore"
	"github.com/parchment-labs/docask-cli/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
)

const dimensionKey = "dimension"

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.VectorStore = (*Store)(nil)

// NewStore opens (or creates) a vector store at the specified data
// directory. If dataDir is empty, defaults to ~/.docask/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docask", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// WAL mode for better concurrency
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

// migrate runs all pending migrations.
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
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert writes records from parallel slices, replacing duplicates by
// id. The whole batch runs in one transaction.
func (s *Store) Upsert(ctx context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: length mismatch: ids=%d vectors=%d texts=%d metadatas=%d",
			domain.ErrStorage, len(ids), len(vectors), len(texts), len(metadatas))
	}
	if len(ids) == 0 {
		return nil
	}

	dim, err := s.checkDimension(ctx, vectors)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, content, embedding, metadata)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %w", domain.ErrStorage, err)
	}
	defer stmt.Close()

	for i, id := range ids {
		metadataJSON, err := json.Marshal(metadatas[i])
		if err != nil {
			return fmt.Errorf("%w: marshalling metadata for %s: %w", domain.ErrStorage, id, err)
		}

		blob := float32SliceToBytes(vectors[i])
		if _, err := stmt.ExecContext(ctx, id, texts[i], blob, string(metadataJSON)); err != nil {
			return fmt.Errorf("%w: saving record %s: %w", domain.ErrStorage, id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO store_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, dimensionKey, strconv.Itoa(dim)); err != nil {
		return fmt.Errorf("%w: recording dimension: %w", domain.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", domain.ErrStorage, err)
	}
	return nil
}

// checkDimension validates the batch against itself and against the
// dimension already recorded in the store.
func (s *Store) checkDimension(ctx context.Context, vectors [][]float32) (int, error) {
	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			return 0, fmt.Errorf("%w: vector %d has dimension %d, batch holds %d",
				domain.ErrStorage, i, len(vec), dim)
		}
	}

	var stored string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM store_meta WHERE key = ?", dimensionKey).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		return dim, nil
	case err != nil:
		return 0, fmt.Errorf("%w: reading stored dimension: %w", domain.ErrStorage, err)
	}

	storedDim, err := strconv.Atoi(stored)
	if err != nil {
		return 0, fmt.Errorf("%w: corrupt stored dimension %q: %w", domain.ErrStorage, stored, err)
	}
	if storedDim != dim {
		return 0, fmt.Errorf("%w: batch dimension %d does not match store dimension %d",
			domain.ErrStorage, dim, storedDim)
	}
	return dim, nil
}

// Query returns up to topK nearest records by cosine distance. Rows
// are scanned in rowid order so ties keep insertion order.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrStorage, topK)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT content, embedding, metadata FROM records ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying records: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var hits []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var content, metadataJSON string
		var blob []byte
		if err := rows.Scan(&content, &blob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %w", domain.ErrStorage, err)
		}

		var metadata map[string]any
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
				return nil, fmt.Errorf("%w: unmarshaling metadata: %w", domain.ErrStorage, err)
			}
		}

		hits = append(hits, domain.SearchResult{
			Text:     content,
			Distance: vectorstore.CosineDistance(vector, bytesToFloat32Slice(blob)),
			Metadata: metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating records: %w", domain.ErrStorage, err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

// Count reports the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting records: %w", domain.ErrStorage, err)
	}
	return count, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
