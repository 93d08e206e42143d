// Package cache builds and reads the cache artifact: a SQLite index of every
// parsed page (metadata, content hash), its cross-references and its media
// references. The cache is a queryable build product, not an input to the
// HTML build.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/mallard"
	"github.com/thiblahute/pitivi-old/internal/version"
)

// Store is a SQLite-backed page cache.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Entry is one cached page row.
type Entry struct {
	ID      string
	Lang    string
	File    string
	Title   string
	Desc    string
	License string
	MTime   int64
	SHA256  string
}

// Open opens (creating if needed) a cache database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS pages (
		id TEXT NOT NULL,
		lang TEXT NOT NULL,
		file TEXT NOT NULL,
		title TEXT NOT NULL,
		desc TEXT,
		license TEXT,
		mtime INTEGER NOT NULL,
		sha256 TEXT NOT NULL,
		PRIMARY KEY (lang, id)
	);
	CREATE TABLE IF NOT EXISTS xrefs (
		lang TEXT NOT NULL,
		source_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		target TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS media (
		lang TEXT NOT NULL,
		page_id TEXT NOT NULL,
		src TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_xrefs_target ON xrefs(target);
	CREATE INDEX IF NOT EXISTS idx_media_src ON media(src);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Rebuild replaces the cache contents with the given documentation set.
// Returns the number of page rows written.
func (s *Store) Rebuild(ctx context.Context, ds *docset.Docset) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin cache rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"pages", "xrefs", "media", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return 0, fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	metaRows := [][2]string{
		{"help_id", ds.Manifest.ID},
		{"generator", "helpbuild " + version.Version},
	}
	for _, row := range metaRows {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", row[0], row[1]); err != nil {
			return 0, fmt.Errorf("insert meta: %w", err)
		}
	}

	count := 0
	for _, locale := range ds.Manifest.Locales() {
		ps := ds.Locales[locale]
		if ps == nil {
			continue
		}
		for _, id := range ps.Order {
			page := ps.Pages[id]
			if err := insertPage(ctx, tx, ds, page); err != nil {
				return 0, err
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit cache rebuild: %w", err)
	}
	return count, nil
}

func insertPage(ctx context.Context, tx *sql.Tx, ds *docset.Docset, page *mallard.Page) error {
	path := filepath.Join(ds.Manifest.HelpDir, filepath.FromSlash(page.File))
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read page for cache: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat page for cache: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO pages (id, lang, file, title, desc, license, mtime, sha256) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		page.ID, page.Lang, page.File, page.Title, page.Info.Desc, page.Info.License.Text,
		info.ModTime().Unix(), fmt.Sprintf("%x", sha256.Sum256(data)),
	)
	if err != nil {
		return fmt.Errorf("insert page %s: %w", page.ID, err)
	}

	for _, link := range mallard.ExtractLinks(page) {
		if link.Kind == mallard.LinkKindMedia {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO media (lang, page_id, src) VALUES (?, ?, ?)",
				page.Lang, page.ID, link.Destination)
		} else {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO xrefs (lang, source_id, kind, target) VALUES (?, ?, ?, ?)",
				page.Lang, page.ID, string(link.Kind), link.Destination)
		}
		if err != nil {
			return fmt.Errorf("insert refs for %s: %w", page.ID, err)
		}
	}
	return nil
}

// Page retrieves a cached page row.
func (s *Store) Page(ctx context.Context, lang, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, lang, file, title, desc, license, mtime, sha256 FROM pages WHERE lang = ? AND id = ?",
		lang, id)

	var e Entry
	if err := row.Scan(&e.ID, &e.Lang, &e.File, &e.Title, &e.Desc, &e.License, &e.MTime, &e.SHA256); err != nil {
		return nil, fmt.Errorf("scan page: %w", err)
	}
	return &e, nil
}

// PageCount returns the number of cached page rows.
func (s *Store) PageCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// XrefsTo returns the ids of source-locale pages referencing the target id.
func (s *Store) XrefsTo(ctx context.Context, target string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT source_id FROM xrefs WHERE lang = 'C' AND (target = ? OR target LIKE ?) ORDER BY source_id",
		target, target+"#%")
	if err != nil {
		return nil, fmt.Errorf("query xrefs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan xref: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return ids, nil
}

// Meta reads one metadata value.
func (s *Store) Meta(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	if err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value); err != nil {
		return "", fmt.Errorf("read meta %s: %w", key, err)
	}
	return value, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
