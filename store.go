package website

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/unentropy/website/authors"
	"github.com/unentropy/website/content"
	_ "modernc.org/sqlite"
)

// schemaVersion is stored in PRAGMA user_version. The index is derived data,
// so an older layout is dropped and rebuilt rather than migrated.
const schemaVersion = 2

// Store wraps a SQLite database holding the validated content index.
type Store struct {
	db *sql.DB
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the API read while an index rebuild writes.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version != schemaVersion {
		if _, err := s.db.Exec(`
DROP TABLE IF EXISTS post_tags;
DROP TABLE IF EXISTS post_authors;
DROP TABLE IF EXISTS posts;
DROP TABLE IF EXISTS docs;
`); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    featured INTEGER NOT NULL DEFAULT 0,
    draft INTEGER NOT NULL DEFAULT 0,
    frontmatter TEXT NOT NULL,
    body TEXT NOT NULL,
    source TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS post_tags (
    slug TEXT NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (slug, tag)
);
CREATE INDEX IF NOT EXISTS post_tags_tag ON post_tags(tag);
CREATE TABLE IF NOT EXISTS post_authors (
    slug TEXT NOT NULL,
    author_id TEXT NOT NULL,
    PRIMARY KEY (slug, author_id)
);
CREATE INDEX IF NOT EXISTS post_authors_id ON post_authors(author_id);
CREATE TABLE IF NOT EXISTS docs (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    sidebar_order INTEGER,
    page TEXT NOT NULL,
    body TEXT NOT NULL,
    source TEXT NOT NULL
);
` + fmt.Sprintf("PRAGMA user_version = %d;", schemaVersion))
	return err
}

const resetSQL = `DELETE FROM post_tags; DELETE FROM post_authors; DELETE FROM posts; DELETE FROM docs;`

// Reset removes every indexed post and page.
func (s *Store) Reset() error {
	_, err := s.db.Exec(resetSQL)
	return err
}

// Rebuild replaces the whole index in one transaction. Entries that cannot
// be encoded are left out and reported as diagnostics; any database error
// rolls back and leaves the previous index in place.
func (s *Store) Rebuild(posts []Post, docs []Doc) ([]Diagnostic, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(resetSQL); err != nil {
		return nil, err
	}
	var rejected []Diagnostic
	for _, p := range posts {
		row, err := encodePost(p)
		if err != nil {
			rejected = append(rejected, Diagnostic{File: p.Source, Severity: SeverityError, Message: err.Error()})
			continue
		}
		if err := savePost(tx, p, row); err != nil {
			return nil, fmt.Errorf("save post %s: %w", p.Slug, err)
		}
	}
	for _, d := range docs {
		page, err := json.Marshal(d.DocPage)
		if err != nil {
			rejected = append(rejected, Diagnostic{File: d.Source, Severity: SeverityError, Message: fmt.Sprintf("encode doc: %v", err)})
			continue
		}
		if err := saveDoc(tx, d, page); err != nil {
			return nil, fmt.Errorf("save doc %s: %w", d.Slug, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rejected, nil
}

const postColumns = `slug, frontmatter, body, source`

// ListPosts returns all non-draft posts ordered by date descending.
// If tag is non-empty, results are filtered to posts carrying that tag.
func (s *Store) ListPosts(tag string) ([]Post, error) {
	if tag == "" {
		return s.queryPosts(`SELECT ` + postColumns + ` FROM posts WHERE draft = 0 ORDER BY date DESC, slug`)
	}
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE draft = 0 AND slug IN (SELECT slug FROM post_tags WHERE tag = ?) ORDER BY date DESC, slug`, normalizeTag(tag))
}

// ListPostsByAuthor returns non-draft posts whose authors include the
// directory identifier id.
func (s *Store) ListPostsByAuthor(id string) ([]Post, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE draft = 0 AND slug IN (SELECT slug FROM post_authors WHERE author_id = ?) ORDER BY date DESC, slug`, id)
}

// ListAllPosts returns every post, drafts included, ordered by date descending.
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY date DESC, slug`)
}

// ListTags returns the sorted, normalized tags of non-draft posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT t.tag FROM post_tags t JOIN posts p ON p.slug = t.slug WHERE p.draft = 0 ORDER BY t.tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetPost returns a single non-draft post by slug.
func (s *Store) GetPost(slug string) (Post, error) {
	return s.getPost(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND draft = 0`, slug)
}

// GetPostAny returns a post by slug regardless of draft status.
func (s *Store) GetPostAny(slug string) (Post, error) {
	return s.getPost(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
}

func (s *Store) getPost(query, slug string) (Post, error) {
	posts, err := s.queryPosts(query, slug)
	if err != nil {
		return Post{}, err
	}
	if len(posts) == 0 {
		return Post{}, ErrNotFound
	}
	return posts[0], nil
}

func (s *Store) queryPosts(query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var slug, frontmatter, body, source string
		if err := rows.Scan(&slug, &frontmatter, &body, &source); err != nil {
			return nil, err
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(frontmatter), &record); err != nil {
			return nil, fmt.Errorf("decode post %s: %w", slug, err)
		}
		bp, err := content.ValidateBlogPost(record)
		if err != nil {
			return nil, fmt.Errorf("decode post %s: %w", slug, err)
		}
		posts = append(posts, Post{BlogPost: bp, Slug: slug, Body: body, Source: source})
	}
	return posts, rows.Err()
}

// SavePost upserts a post together with its tag and author rows.
func (s *Store) SavePost(p Post) error {
	row, err := encodePost(p)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := savePost(tx, p, row); err != nil {
		return err
	}
	return tx.Commit()
}

// encodePost returns the frontmatter column for p.
func encodePost(p Post) ([]byte, error) {
	b, err := json.Marshal(p.Record())
	if err != nil {
		return nil, fmt.Errorf("encode post %s: %w", p.Slug, err)
	}
	return b, nil
}

func savePost(db execer, p Post, frontmatter []byte) error {
	if _, err := db.Exec(`INSERT OR REPLACE INTO posts (slug, title, date, featured, draft, frontmatter, body, source) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Date.UTC().Format(time.RFC3339), boolInt(p.Featured), boolInt(p.Draft), string(frontmatter), p.Body, p.Source); err != nil {
		return err
	}
	if err := deletePostRelations(db, p.Slug); err != nil {
		return err
	}
	for _, t := range p.Tags {
		if tag := normalizeTag(t); tag != "" {
			if _, err := db.Exec(`INSERT OR IGNORE INTO post_tags (slug, tag) VALUES (?, ?)`, p.Slug, tag); err != nil {
				return err
			}
		}
	}
	for _, e := range authors.Entries(p.Authors) {
		if id, ok := e.(authors.Identifier); ok {
			if _, err := db.Exec(`INSERT OR IGNORE INTO post_authors (slug, author_id) VALUES (?, ?)`, p.Slug, string(id)); err != nil {
				return err
			}
		}
	}
	return nil
}

func deletePostRelations(db execer, slug string) error {
	if _, err := db.Exec(`DELETE FROM post_tags WHERE slug = ?`, slug); err != nil {
		return err
	}
	_, err := db.Exec(`DELETE FROM post_authors WHERE slug = ?`, slug)
	return err
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(slug string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := deletePostRelations(tx, slug); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE slug = ?`, slug); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveDoc upserts a documentation page.
func (s *Store) SaveDoc(d Doc) error {
	page, err := json.Marshal(d.DocPage)
	if err != nil {
		return fmt.Errorf("encode doc %s: %w", d.Slug, err)
	}
	return saveDoc(s.db, d, page)
}

func saveDoc(db execer, d Doc, page []byte) error {
	var order any
	if d.Sidebar.Order != nil {
		order = *d.Sidebar.Order
	}
	_, err := db.Exec(`INSERT OR REPLACE INTO docs (slug, title, draft, sidebar_order, page, body, source) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Slug, d.Title, boolInt(d.Draft), order, string(page), d.Body, d.Source)
	return err
}

// ListDocs returns non-draft pages in sidebar order, then by slug.
func (s *Store) ListDocs() ([]Doc, error) {
	return s.queryDocs(`SELECT slug, page, body, source FROM docs WHERE draft = 0 ORDER BY sidebar_order IS NULL, sidebar_order, slug`)
}

// GetDoc returns a single non-draft page by slug.
func (s *Store) GetDoc(slug string) (Doc, error) {
	docs, err := s.queryDocs(`SELECT slug, page, body, source FROM docs WHERE slug = ? AND draft = 0`, slug)
	if err != nil {
		return Doc{}, err
	}
	if len(docs) == 0 {
		return Doc{}, ErrNotFound
	}
	return docs[0], nil
}

func (s *Store) queryDocs(query string, args ...any) ([]Doc, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		var slug, page, body, source string
		if err := rows.Scan(&slug, &page, &body, &source); err != nil {
			return nil, err
		}
		var dp content.DocPage
		if err := json.Unmarshal([]byte(page), &dp); err != nil {
			return nil, fmt.Errorf("decode doc %s: %w", slug, err)
		}
		docs = append(docs, Doc{DocPage: dp, Slug: slug, Body: body, Source: source})
	}
	return docs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
