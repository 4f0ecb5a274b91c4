// Package sqlite is the local/dev store driver. It mirrors the postgres
// driver's behavior over a single-file database so the gallery runs without
// any managed service.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/normalize"
	"github.com/Jonniie/memoirly/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Open opens (or creates) a SQLite database at the given path with WAL mode
// and foreign keys enabled. ":memory:" opens an in-memory database; each pool
// connection would otherwise get its own private copy, so the pool is capped
// at a single connection to keep one shared database.
func Open(path string) (*sql.DB, error) {
	dsn := "file::memory:?_pragma=foreign_keys(ON)"
	if path != ":memory:" {
		// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Bootstrap opens the database and applies the gallery schema.
func Bootstrap(ctx context.Context, path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	for _, stmt := range store.SplitStatements(schemaSQL) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return db, nil
}

// NewWithDB constructs a SQLite store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

type liteStore struct{ db *sql.DB }

func (s *liteStore) Media() store.Media   { return &media{db: s.db} }
func (s *liteStore) Albums() store.Albums { return &albums{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *liteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// now returns creation timestamps; SQLite has no server-side now() for our
// text-affinity columns, so the driver assigns time.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// --- Media ---

type media struct{ db *sql.DB }

const mediaColumns = `media_id, owner_id, url, media_type, title, note, tags, emotion, location, favourite, is_public, creation_time`

func scanMemory(row interface{ Scan(...interface{}) error }) (*model.Memory, error) {
	var m model.Memory
	var tags sql.NullString
	if err := row.Scan(&m.ID, &m.OwnerID, &m.URL, &m.Type, &m.Title, &m.Note, &tags,
		&m.Emotion, &m.Location, &m.Favourite, &m.IsPublic, &m.CreatedAt); err != nil {
		return nil, err
	}
	if tags.Valid {
		_ = json.Unmarshal([]byte(tags.String), &m.Tags)
	}
	m.Tags = normalize.DedupeTags(m.Tags)
	return &m, nil
}

func (md *media) Create(ctx context.Context, m *model.Memory) (*model.Memory, error) {
	id := m.ID
	if id == "" {
		id = uuid.New().String()
	}
	created := now()
	tagsJSON, _ := json.Marshal(normalize.DedupeTags(m.Tags))
	_, err := md.db.ExecContext(ctx, `
        INSERT INTO media (media_id, owner_id, url, media_type, title, note, tags, emotion, location, favourite, is_public, creation_time)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
    `, id, m.OwnerID, m.URL, m.Type, m.Title, m.Note, nullIfEmpty(tagsJSON), m.Emotion, m.Location, m.Favourite, m.IsPublic, created)
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.Tags = normalize.DedupeTags(m.Tags)
	out.CreatedAt = created
	return &out, nil
}

func (md *media) GetByID(ctx context.Context, ownerID, mediaID string) (*model.Memory, error) {
	row := md.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE owner_id=? AND media_id=?`, ownerID, mediaID)
	m, err := scanMemory(row)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (md *media) GetByURL(ctx context.Context, ownerID, url string) (*model.Memory, error) {
	row := md.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE owner_id=? AND url=?`, ownerID, url)
	m, err := scanMemory(row)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (md *media) GetPublic(ctx context.Context, mediaID string) (*model.Memory, error) {
	row := md.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE media_id=?`, mediaID)
	m, err := scanMemory(row)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (md *media) List(ctx context.Context, req model.ListMediaRequest) ([]*model.Memory, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE owner_id=?`
	args := []interface{}{req.OwnerID}
	if req.Before != nil {
		query += " AND creation_time < ?"
		args = append(args, *req.Before)
	}
	if req.After != nil && req.Before == nil {
		query += " AND creation_time > ?"
		args = append(args, *req.After)
	}
	query += " ORDER BY creation_time DESC"
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", req.Limit)
	}
	rows, err := md.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (md *media) Update(ctx context.Context, ownerID, mediaID string, upd model.MediaUpdate) (*model.Memory, error) {
	set := []string{}
	args := []interface{}{}
	add := func(col string, v interface{}) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Note != nil {
		add("note", *upd.Note)
	}
	if upd.Tags != nil {
		tagsJSON, _ := json.Marshal(normalize.DedupeTags(*upd.Tags))
		add("tags", nullIfEmpty(tagsJSON))
	}
	if upd.Emotion != nil {
		add("emotion", *upd.Emotion)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if len(set) > 0 {
		args = append(args, ownerID, mediaID)
		q := fmt.Sprintf(`UPDATE media SET %s WHERE owner_id=? AND media_id=?`, strings.Join(set, ", "))
		res, err := md.db.ExecContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, model.ErrNotFound
		}
	}
	return md.GetByID(ctx, ownerID, mediaID)
}

func (md *media) SetFavourite(ctx context.Context, ownerID, mediaID string, favourite bool) error {
	return md.setFlag(ctx, "favourite", favourite, ownerID, mediaID)
}

func (md *media) SetVisibility(ctx context.Context, ownerID, mediaID string, public bool) error {
	return md.setFlag(ctx, "is_public", public, ownerID, mediaID)
}

func (md *media) setFlag(ctx context.Context, col string, v bool, ownerID, mediaID string) error {
	res, err := md.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE media SET %s=? WHERE owner_id=? AND media_id=?`, col),
		v, ownerID, mediaID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (md *media) Delete(ctx context.Context, ownerID, mediaID string) error {
	tx, err := md.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM album_media WHERE owner_id=? AND media_id=?`, ownerID, mediaID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM media WHERE owner_id=? AND media_id=?`, ownerID, mediaID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return tx.Commit()
}

// --- Albums ---

type albums struct{ db *sql.DB }

func (a *albums) Create(ctx context.Context, mv *model.Album) (*model.Album, error) {
	id := mv.AlbumID
	if id == "" {
		id = uuid.New().String()
	}
	created := now()
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO albums (album_id, owner_id, title, description, cover_url, creation_time)
        VALUES (?,?,?,?,?,?)
    `, id, mv.OwnerID, mv.Title, mv.Description, mv.CoverURL, created)
	if err != nil {
		return nil, err
	}
	out := *mv
	out.AlbumID = id
	out.CreatedAt = created
	return &out, nil
}

func (a *albums) GetByID(ctx context.Context, ownerID, albumID string) (*model.Album, error) {
	var out model.Album
	row := a.db.QueryRowContext(ctx, `
        SELECT album_id, owner_id, title, description, cover_url, creation_time
        FROM albums WHERE owner_id=? AND album_id=?
    `, ownerID, albumID)
	if err := row.Scan(&out.AlbumID, &out.OwnerID, &out.Title, &out.Description, &out.CoverURL, &out.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (a *albums) List(ctx context.Context, ownerID string) ([]*model.Album, error) {
	rows, err := a.db.QueryContext(ctx, `
        SELECT album_id, owner_id, title, description, cover_url, creation_time
        FROM albums WHERE owner_id=? ORDER BY creation_time DESC
    `, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Album
	for rows.Next() {
		var al model.Album
		if err := rows.Scan(&al.AlbumID, &al.OwnerID, &al.Title, &al.Description, &al.CoverURL, &al.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &al)
	}
	return out, rows.Err()
}

func (a *albums) Update(ctx context.Context, ownerID, albumID string, title, description *string) (*model.Album, error) {
	set := []string{}
	args := []interface{}{}
	if title != nil {
		set = append(set, "title=?")
		args = append(args, *title)
	}
	if description != nil {
		set = append(set, "description=?")
		args = append(args, *description)
	}
	if len(set) > 0 {
		args = append(args, ownerID, albumID)
		q := fmt.Sprintf(`UPDATE albums SET %s WHERE owner_id=? AND album_id=?`, strings.Join(set, ", "))
		res, err := a.db.ExecContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, model.ErrNotFound
		}
	}
	return a.GetByID(ctx, ownerID, albumID)
}

func (a *albums) SetCover(ctx context.Context, ownerID, albumID, coverURL string) error {
	res, err := a.db.ExecContext(ctx, `UPDATE albums SET cover_url=? WHERE owner_id=? AND album_id=?`, coverURL, ownerID, albumID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (a *albums) Delete(ctx context.Context, ownerID, albumID string) error {
	tx, err := a.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM album_media WHERE owner_id=? AND album_id=?`, ownerID, albumID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM albums WHERE owner_id=? AND album_id=?`, ownerID, albumID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return tx.Commit()
}

func (a *albums) AddMedia(ctx context.Context, ownerID, albumID, mediaID string) error {
	var exists int
	if err := a.db.QueryRowContext(ctx, `SELECT 1 FROM albums WHERE owner_id=? AND album_id=?`, ownerID, albumID).Scan(&exists); err != nil {
		return notFound(err)
	}
	if err := a.db.QueryRowContext(ctx, `SELECT 1 FROM media WHERE owner_id=? AND media_id=?`, ownerID, mediaID).Scan(&exists); err != nil {
		return notFound(err)
	}
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO album_media (album_id, media_id, owner_id, added_time)
        VALUES (?,?,?,?)
        ON CONFLICT (album_id, media_id) DO NOTHING
    `, albumID, mediaID, ownerID, now())
	return err
}

func (a *albums) RemoveMedia(ctx context.Context, ownerID, albumID, mediaID string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM album_media WHERE owner_id=? AND album_id=? AND media_id=?`, ownerID, albumID, mediaID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (a *albums) ListMedia(ctx context.Context, ownerID, albumID string) ([]*model.Memory, error) {
	rows, err := a.db.QueryContext(ctx, `
        SELECT m.media_id, m.owner_id, m.url, m.media_type, m.title, m.note, m.tags,
               m.emotion, m.location, m.favourite, m.is_public, m.creation_time
        FROM album_media am
        JOIN media m ON m.media_id = am.media_id
        WHERE am.owner_id=? AND am.album_id=?
        ORDER BY am.added_time DESC
    `, ownerID, albumID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// helpers
func nullIfEmpty(b []byte) interface{} {
	if len(b) == 0 || string(b) == "null" || string(b) == "[]" {
		return nil
	}
	return b
}
