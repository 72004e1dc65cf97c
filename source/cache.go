package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	_ "modernc.org/sqlite"
)

var ErrNotCached = errors.New("feed not cached")

// Repository stores the last good copy of every feed.
type Repository struct {
	Db *sql.DB
}

// OpenRepository opens (or creates) the sqlite cache at path. ":memory:"
// gives a throwaway cache.
func OpenRepository(path string) (*Repository, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	repo, err := NewRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func NewRepository(db *sql.DB) (*Repository, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS feed (
			name TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	return &Repository{Db: db}, nil
}

func (repo *Repository) Close() error { return repo.Db.Close() }

// Entry is a cached feed body.
type Entry struct {
	Feed      Feed
	Body      string
	FetchedAt time.Time
}

func (repo *Repository) Store(ctx context.Context, feed Feed, body string, at time.Time) error {
	return repo.execWrap(ctx, `
		INSERT INTO feed(name, body, fetched_at) VALUES(?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at
	`, string(feed), body, at.UnixMilli())
}

func (repo *Repository) Load(ctx context.Context, feed Feed) (*Entry, error) {
	row := repo.Db.QueryRowContext(ctx, "SELECT body, fetched_at FROM feed WHERE name = ? LIMIT 1", string(feed))
	e := Entry{Feed: feed}
	var ms int64
	if err := row.Scan(&e.Body, &ms); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotCached, feed)
		}
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	e.FetchedAt = time.UnixMilli(ms)
	return &e, nil
}

// Entries lists cached feeds by name.
func (repo *Repository) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := repo.Db.QueryContext(ctx, "SELECT name, body, fetched_at FROM feed ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var name string
		var ms int64
		if err := rows.Scan(&name, &e.Body, &ms); err != nil {
			return nil, err
		}
		e.Feed = Feed(name)
		e.FetchedAt = time.UnixMilli(ms)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (repo *Repository) execWrap(ctx context.Context, query string, args ...any) error {
	if _, err := repo.Db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error in db execution: %w", err)
	}
	return nil
}

// Cached fetches through Upstream and keeps the result in Repo. When the
// upstream fails the last stored copy is served instead.
type Cached struct {
	Upstream Source
	Repo     *Repository
	Offline  bool
	Now      func() time.Time
	Log      *log.Logger
}

func NewCached(upstream Source, repo *Repository, logger *log.Logger) *Cached {
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{Upstream: upstream, Repo: repo, Now: time.Now, Log: logger.WithPrefix("source")}
}

func (c *Cached) Fetch(ctx context.Context, feed Feed) (string, error) {
	if !c.Offline && c.Upstream != nil {
		body, err := c.Upstream.Fetch(ctx, feed)
		if err == nil {
			if serr := c.Repo.Store(ctx, feed, body, c.Now()); serr != nil {
				c.Log.Warn("could not cache feed", "feed", feed, "err", serr)
			}
			return body, nil
		}
		c.Log.Warn("upstream failed, using cache", "feed", feed, "err", err)
	}
	e, err := c.Repo.Load(ctx, feed)
	if err != nil {
		return "", err
	}
	c.Log.Debug("served from cache", "feed", feed, "age", c.Now().Sub(e.FetchedAt).Round(time.Second))
	return e.Body, nil
}
