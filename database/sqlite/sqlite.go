package sqlite

import (
	databaseerrors "cartstore/database"
	"cartstore/models"
	"cartstore/pkg/lib/logger/sl"
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage owns the connection pool over a single SQLite database file.
// The schema is created on first open, so pointing New at a fresh path
// is enough to get a working store.
type Storage struct {
	log *slog.Logger
	db  *sqlx.DB
}

func New(log *slog.Logger, path string) (*Storage, error) {
	const op = "database.sqlite.New"

	// busy_timeout keeps concurrent writers waiting instead of failing
	// immediately with SQLITE_BUSY.
	db, err := sqlx.Connect("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		log.With("op", op).Error("Error opening database file", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		log.With("op", op).Error("Error setting goose dialect", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		log.With("op", op).Error("Error applying migrations", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		log: log,
		db:  db,
	}, nil
}

func NewWithParams(log *slog.Logger, db *sqlx.DB) *Storage {
	return &Storage{
		log: log,
		db:  db,
	}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// GetCart returns the cart row for username. A missing row is not an
// error: the result is a cart with empty contents, indistinguishable
// from an empty one.
func (s *Storage) GetCart(ctx context.Context, username string) (models.Cart, error) {
	const op = "database.sqlite.GetCart"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return models.Cart{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var row cartRow
	err := s.db.QueryRowxContext(ctx, `
        SELECT id, username, contents, cost FROM carts
        WHERE username=?;
    `, username).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Cart{Username: username, Contents: []int64{}}, nil
	}
	if err != nil {
		log.Error("Error reading cart", sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	contents, err := decodeContents(row.Contents)
	if err != nil {
		log.Error("Error decoding cart contents", sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Cart{
		Id:       row.Id,
		Username: row.Username,
		Contents: contents,
		Cost:     row.Cost,
	}, nil
}

// AddToCart appends productID to the user's cart, creating the row if
// none exists. The read and the replace run in one transaction so two
// concurrent adds cannot lose each other's item.
func (s *Storage) AddToCart(ctx context.Context, username string, productID int64) error {
	const op = "database.sqlite.AddToCart"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.db.Beginx()
	if err != nil {
		log.Error("Failed to begin transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	contents, err := readContentsTx(ctx, tx, username)
	if err != nil {
		log.Error("Error reading cart contents", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	contents = append(contents, productID)

	if err := replaceCartTx(ctx, tx, username, contents); err != nil {
		log.Error("Error replacing cart row", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveFromCart removes the first occurrence of productID from the
// user's cart. A missing row or an absent product is a silent no-op.
func (s *Storage) RemoveFromCart(ctx context.Context, username string, productID int64) error {
	const op = "database.sqlite.RemoveFromCart"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.db.Beginx()
	if err != nil {
		log.Error("Failed to begin transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowxContext(ctx, `
        SELECT contents FROM carts
        WHERE username=?;
    `, username).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		log.Error("Error reading cart contents", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	contents, err := decodeContents(raw)
	if err != nil {
		log.Error("Error decoding cart contents", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, id := range contents {
		if id == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	contents = append(contents[:idx], contents[idx+1:]...)

	if err := replaceCartTx(ctx, tx, username, contents); err != nil {
		log.Error("Error replacing cart row", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteCart drops the user's cart row. Deleting a cart that does not
// exist is a no-op.
func (s *Storage) DeleteCart(ctx context.Context, username string) error {
	const op = "database.sqlite.DeleteCart"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.db.ExecContext(ctx, `
        DELETE FROM carts
        WHERE username=?;
    `, username); err != nil {
		log.Error("Error deleting cart", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type cartRow struct {
	Id       int64   `db:"id"`
	Username string  `db:"username"`
	Contents string  `db:"contents"`
	Cost     float64 `db:"cost"`
}

func readContentsTx(ctx context.Context, tx *sqlx.Tx, username string) ([]int64, error) {
	var raw string
	err := tx.QueryRowxContext(ctx, `
        SELECT contents FROM carts
        WHERE username=?;
    `, username).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []int64{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeContents(raw)
}

// replaceCartTx overwrites the whole row for username. INSERT OR
// REPLACE keyed on the username unique constraint may reassign the
// surrogate id; cost is always written back as zero.
func replaceCartTx(ctx context.Context, tx *sqlx.Tx, username string, contents []int64) error {
	encoded, err := json.Marshal(contents)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
        INSERT OR REPLACE INTO carts (username, contents, cost)
        VALUES (?, ?, 0);
    `, username, string(encoded))
	return err
}

func decodeContents(raw string) ([]int64, error) {
	contents := make([]int64, 0)
	if err := json.Unmarshal([]byte(raw), &contents); err != nil {
		return nil, fmt.Errorf("%w: %v", databaseerrors.ErrMalformedContents, err)
	}
	return contents, nil
}
