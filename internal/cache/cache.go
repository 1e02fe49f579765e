package cache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite" // SQLite driver
)

// fingerprintPrefix tags fingerprint values with the hash algorithm so a
// future algorithm change invalidates old entries instead of colliding
// with them.
const fingerprintPrefix = "blake3:"

// Store provides SQLite-based storage for per-document translation
// fingerprints. A document whose stored fingerprint matches its current
// content has not changed since it was last translated and can be skipped.
//
// Design decision: We use a single database file rather than a JSON file
// per docs directory. SQLite gives us atomic batched saves and a schema
// version without hand-rolled file locking.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// version is the application cache version. A mismatch against the
	// stored version discards all prior entries.
	version string

	// pending holds fingerprints staged by Update and not yet persisted.
	// Save writes them in one transaction.
	pending map[string]string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended for most use cases.
	EnableWAL bool

	// Version is the cache schema/application version. When it differs
	// from the stored version, all prior entries are discarded so every
	// document is considered changed.
	Version string
}

// DefaultOptions returns the default store options for the given cache
// version.
func DefaultOptions(version string) Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		Version:           version,
	}
}

// DefaultDir returns the default cache directory following the XDG base
// directory specification.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "mdtrans")
}

// Fingerprint computes the content fingerprint stored and compared by the
// cache.
func Fingerprint(content []byte) string {
	sum := blake3.Sum256(content)
	return fingerprintPrefix + hex.EncodeToString(sum[:])
}

// Open opens or creates a fingerprint store at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, "mdtrans.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("cache not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// SQLite only supports one writer and the cache is touched by a
	// single sequential run, so a single connection suffices.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:      db,
		dbPath:  dbPath,
		version: opts.Version,
		pending: make(map[string]string),
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := s.checkVersion(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection. Staged updates that were not
// saved are discarded.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Meta holds the cache version used for wholesale invalidation.
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Fingerprints store one row per source document name.
	CREATE TABLE IF NOT EXISTS fingerprints (
		name TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		translated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// checkVersion discards all entries when the stored cache version differs
// from the configured one, then records the configured version.
func (s *Store) checkVersion(ctx context.Context) error {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		// Fresh database.
	case err != nil:
		return fmt.Errorf("failed to read cache version: %w", err)
	case stored == s.version:
		return nil
	default:
		if _, err := s.db.ExecContext(ctx, `DELETE FROM fingerprints`); err != nil {
			return fmt.Errorf("failed to discard stale cache entries: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO meta (key, value) VALUES ('version', ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, s.version)
	if err != nil {
		return fmt.Errorf("failed to record cache version: %w", err)
	}
	return nil
}

// Entry is a stored fingerprint record.
type Entry struct {
	// Name is the source document name the fingerprint belongs to.
	Name string

	// Fingerprint is the content fingerprint at translation time.
	Fingerprint string

	// TranslatedAt is when the document was last translated.
	TranslatedAt time.Time
}

// Lookup retrieves the stored entry for a document name. It returns nil
// without error when no entry exists. Staged updates are not visible to
// Lookup until saved.
func (s *Store) Lookup(ctx context.Context, name string) (*Entry, error) {
	var entry Entry
	var timestamp string

	err := s.db.QueryRowContext(ctx, `
	SELECT name, fingerprint, translated_at FROM fingerprints WHERE name = ?
	`, name).Scan(&entry.Name, &entry.Fingerprint, &timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up fingerprint: %w", err)
	}

	entry.TranslatedAt = parseTimestamp(timestamp)
	return &entry, nil
}

// IsChanged reports whether the document content differs from the
// fingerprint stored at its last translation. Unknown documents are
// changed by definition. A fingerprint staged by Update counts as stored.
func (s *Store) IsChanged(ctx context.Context, name string, content []byte) (bool, error) {
	current := Fingerprint(content)

	if staged, ok := s.pending[name]; ok {
		return staged != current, nil
	}

	entry, err := s.Lookup(ctx, name)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return true, nil
	}
	return entry.Fingerprint != current, nil
}

// Update stages the document's current fingerprint. The entry becomes
// durable on the next Save, so a run that fails midway never marks
// untranslated documents as done.
func (s *Store) Update(name string, content []byte) {
	s.pending[name] = Fingerprint(content)
}

// Save persists all staged fingerprints in a single transaction and
// clears the staging area.
func (s *Store) Save(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cache save: %w", err)
	}

	query := `
	INSERT INTO fingerprints (name, fingerprint, translated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
		fingerprint = excluded.fingerprint,
		translated_at = CURRENT_TIMESTAMP
	`
	for name, fingerprint := range s.pending {
		if _, err := tx.ExecContext(ctx, query, name, fingerprint); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save fingerprint for %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache save: %w", err)
	}

	s.pending = make(map[string]string)
	return nil
}

// Entries returns all stored fingerprint records ordered by name.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT name, fingerprint, translated_at FROM fingerprints ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fingerprints: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var timestamp string
		if err := rows.Scan(&entry.Name, &entry.Fingerprint, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		entry.TranslatedAt = parseTimestamp(timestamp)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
