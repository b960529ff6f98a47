package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DefaultTagLimit bounds ListByTag when the caller passes no explicit limit.
const DefaultTagLimit = 10

// PostStore owns posts, their tags, and their comment threads.
type PostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Permalink derives the URL slug for a post title: lowercase with every
// non-alphanumeric character removed. Derivation is pure; the same title
// always yields the same slug.
func Permalink(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseTags splits a raw comma-separated tag string into a cleaned list:
// whitespace stripped, empty entries dropped, duplicates removed while
// keeping first-seen order.
func ParseTags(raw string) []string {
	return normalizeTags([]string{raw})
}

func normalizeTags(tags []string) []string {
	var cleaned []string
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = stripSpace(tag)
		for _, part := range strings.Split(tag, ",") {
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			cleaned = append(cleaned, part)
		}
	}
	return cleaned
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Create inserts a new post with an empty comment thread and returns its
// permalink. The permalink is derived once, at creation, and never
// recomputed; a second post whose title derives the same slug gets
// ErrDuplicatePermalink.
func (s *PostStore) Create(ctx context.Context, title, body string, tags []string, author string) (string, error) {
	permalink := Permalink(title)
	cleaned := normalizeTags(tags)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO posts (permalink, title, author, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		permalink, title, author, body, time.Now().UTC())
	if err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "UNIQUE constraint failed: posts.permalink") {
			return "", ErrDuplicatePermalink
		}
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	postID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	for i, tag := range cleaned {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag, position) VALUES (?, ?, ?)`,
			postID, tag, i); err != nil {
			tx.Rollback()
			return "", fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return permalink, nil
}

// GetByPermalink fetches a single post by exact permalink match, with its
// tags and comments attached.
func (s *PostStore) GetByPermalink(ctx context.Context, permalink string) (*Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, permalink, title, author, body, created_at FROM posts WHERE permalink = ?`,
		permalink)
	var p Post
	if err := row.Scan(&p.ID, &p.Permalink, &p.Title, &p.Author, &p.Body, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := s.hydrate(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListRecent returns at most limit posts, newest first. Timestamp ties are
// broken by insertion order.
func (s *PostStore) ListRecent(ctx context.Context, limit int) ([]Post, error) {
	if limit < 0 {
		limit = 0
	}
	return s.list(ctx,
		`SELECT id, permalink, title, author, body, created_at FROM posts
         ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// ListByTag returns posts carrying exactly the given tag, newest first. The
// match is case-sensitive; no normalization is applied beyond what the
// caller already did. A limit of zero or less falls back to DefaultTagLimit.
func (s *PostStore) ListByTag(ctx context.Context, tag string, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = DefaultTagLimit
	}
	return s.list(ctx,
		`SELECT p.id, p.permalink, p.title, p.author, p.body, p.created_at FROM posts p
         JOIN post_tags pt ON pt.post_id = p.id WHERE pt.tag = ?
         ORDER BY p.created_at DESC, p.id DESC LIMIT ?`, tag, limit)
}

// AppendComment adds a comment to the addressed post's thread as a single
// conditional insert keyed on the permalink, so concurrent commenters never
// lose each other's updates. An empty email is stored as NULL.
func (s *PostStore) AppendComment(ctx context.Context, permalink, author, email, body string) error {
	e := sql.NullString{String: email, Valid: email != ""}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (post_id, author, email, body)
         SELECT id, ?, ?, ? FROM posts WHERE permalink = ?`,
		author, e, body, permalink)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostStore) list(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Permalink, &p.Title, &p.Author, &p.Body, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	rows.Close()
	for i := range posts {
		if err := s.hydrate(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *PostStore) hydrate(ctx context.Context, p *Post) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM post_tags WHERE post_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		p.Tags = append(p.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	rows.Close()

	crows, err := s.db.QueryContext(ctx,
		`SELECT author, email, body FROM comments WHERE post_id = ? ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer crows.Close()
	for crows.Next() {
		var c Comment
		var email sql.NullString
		if err := crows.Scan(&c.Author, &email, &c.Body); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		c.Email = email.String
		p.Comments = append(p.Comments, c)
	}
	if err := crows.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
