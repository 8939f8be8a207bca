package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/books-api/cmd/api/book"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/lib/pq"
)

// MaxOpenConns is the ceiling of connections borrowed at the same time.
// A statement that finds the pool exhausted waits for a release.
const MaxOpenConns = 5

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	exc DBTX
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		exc: db,
	}
}

/* Connects to the database trought a connection string and returns a pointer to a valid, bounded pool (*sql.DB). */
func ConnectDb(ctx context.Context, connStr string, maxOpenConns int, logger *zap.Logger) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to db, openning: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)

	err = sqlDB.PingContext(ctx)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connecting to db, pingging: %w", err)
	}

	logger.Info("successfully connected to db", zap.Int("pool.max_open", maxOpenConns))
	return sqlDB, nil
}

/* Applies the migrations found at path on a short-lived handle of its own, so no connection of the service pool stays borrowed afterwards. */
func MigrationUp(connStr, path string) error {
	migrationDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}
	migrationDB.SetMaxOpenConns(1)

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return fmt.Errorf("migrating up: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", path),
		"postgres", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("migrating up: %w", err)
	}
	// Closing the migrate instance closes the driver, its conn and migrationDB.
	defer m.Close()

	err = m.Up()
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

/* Returns every row of the books table, in the order the database hands them. */
func (store *Store) ListBooks(ctx context.Context) ([]book.Book, error) {
	sqlStatement := `SELECT * FROM books`
	rows, err := store.exc.QueryContext(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", classifyErr(err))
	}
	defer rows.Close()

	bookslist := []book.Book{}
	for rows.Next() {
		row, err := scanBookRow(rows)
		if err != nil {
			return nil, fmt.Errorf("listing books from db: %w", err)
		}

		bookslist = append(bookslist, row.toBook())
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", classifyErr(err))
	}

	return bookslist, nil
}

/* Stores the book into the database and returns the ID the database assigned to it. */
func (store *Store) CreateBook(ctx context.Context, newBook book.NewBook) (int32, error) {
	sqlStatement := `
	INSERT INTO books (title, author, price, pages, is_published)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, title, author, price, pages, is_published`
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement, newBook.Title, newBook.Author, newBook.Price, newBook.Pages, newBook.IsPublished)
	inserted, err := scanBookRow(createdRow)
	if err != nil {
		return 0, fmt.Errorf("storing book on db: %w", classifyErr(err))
	}

	return inserted.ID, nil
}
