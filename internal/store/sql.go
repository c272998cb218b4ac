package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/vmunix/movieapi/internal/migrations"
	"github.com/vmunix/movieapi/internal/movie"
)

// Dialect names accepted by NewSQLStore.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLStore keeps movies in a SQL database. Insertion order is the seq column.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLStore wraps db and applies the dialect's migrations.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect string) (*SQLStore, error) {
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	stmts, err := migrations.For(dialect)
	if err != nil {
		return nil, err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

// mapSQLError converts driver errors to store errors.
func mapSQLError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return ErrDuplicate
	}
	// modernc.org/sqlite wraps errors; check the message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	return err
}

// rebind rewrites ? placeholders for the store's dialect.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// forUpdate returns the row-locking suffix for read-modify-write selects.
func (s *SQLStore) forUpdate() string {
	if s.dialect == DialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

const movieColumns = `id, title, year, director, duration, poster, genre, rate`

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(row scanner) (movie.Movie, error) {
	var m movie.Movie
	var genre string
	if err := row.Scan(&m.ID, &m.Title, &m.Year, &m.Director, &m.Duration, &m.Poster, &genre, &m.Rate); err != nil {
		return movie.Movie{}, err
	}
	if err := json.Unmarshal([]byte(genre), &m.Genre); err != nil {
		return movie.Movie{}, fmt.Errorf("decode genre of %s: %w", m.ID, err)
	}
	return m, nil
}

func (s *SQLStore) List(ctx context.Context) ([]movie.Movie, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []movie.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return out, nil
}

// ListByGenre filters in Go so matching uses the same case folding as MemoryStore.
func (s *SQLStore) ListByGenre(ctx context.Context, genre string) ([]movie.Movie, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []movie.Movie{}
	for _, m := range all {
		if m.MatchesGenre(genre) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *SQLStore) get(ctx context.Context, q querier, id string, lock bool) (movie.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	if lock {
		query += s.forUpdate()
	}
	m, err := scanMovie(q.QueryRowContext(ctx, s.rebind(query), id))
	if err != nil {
		return movie.Movie{}, fmt.Errorf("get movie %s: %w", id, mapSQLError(err))
	}
	return m, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (movie.Movie, error) {
	return s.get(ctx, s.db, id, false)
}

func (s *SQLStore) Insert(ctx context.Context, m movie.Movie) error {
	if m.ID == "" {
		return ErrMissingID
	}
	genre, err := json.Marshal(m.Genre)
	if err != nil {
		return fmt.Errorf("encode genre: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var retired int
		err := tx.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM retired_ids WHERE id = ?`), m.ID).Scan(&retired)
		if err != nil {
			return fmt.Errorf("check retired id: %w", err)
		}
		if retired > 0 {
			return ErrDuplicate
		}

		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO movies (`+movieColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			m.ID, m.Title, m.Year, m.Director, m.Duration, m.Poster, string(genre), m.Rate,
		)
		if err != nil {
			return fmt.Errorf("insert movie: %w", mapSQLError(err))
		}
		return nil
	})
}

func (s *SQLStore) Update(ctx context.Context, id string, p movie.Patch) (movie.Movie, error) {
	var updated movie.Movie
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		current, err := s.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		updated = p.Apply(current)

		genre, err := json.Marshal(updated.Genre)
		if err != nil {
			return fmt.Errorf("encode genre: %w", err)
		}
		_, err = tx.ExecContext(ctx, s.rebind(`
			UPDATE movies SET title = ?, year = ?, director = ?, duration = ?, poster = ?, genre = ?, rate = ?
			WHERE id = ?`),
			updated.Title, updated.Year, updated.Director, updated.Duration, updated.Poster, string(genre), updated.Rate, id,
		)
		if err != nil {
			return fmt.Errorf("update movie %s: %w", id, mapSQLError(err))
		}
		return nil
	})
	if err != nil {
		return movie.Movie{}, err
	}
	return updated, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM movies WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete movie %s: %w", id, mapSQLError(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete movie %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("delete movie %s: %w", id, ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO retired_ids (id) VALUES (?)`), id); err != nil {
			return fmt.Errorf("retire id %s: %w", id, mapSQLError(err))
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
