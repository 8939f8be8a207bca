package database

import (
	"errors"
	"fmt"

	"github.com/books-api/cmd/api/book"
	"github.com/lib/pq"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// bookRow mirrors the column order of the books table.
type bookRow struct {
	ID          int32
	Title       string
	Author      string
	Price       int32
	Pages       int32
	IsPublished bool
}

func scanBookRow(s rowScanner) (bookRow, error) {
	var r bookRow
	err := s.Scan(&r.ID, &r.Title, &r.Author, &r.Price, &r.Pages, &r.IsPublished)
	if err != nil {
		return bookRow{}, err
	}
	return r, nil
}

func (r bookRow) toBook() book.Book {
	return book.Book{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		Price:       r.Price,
		Pages:       r.Pages,
		IsPublished: r.IsPublished,
	}
}

/* Marks errors reported by the postgres server as rejected statements. Driver, network and scan errors pass untouched. */
func classifyErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w: %w", book.ErrStatementRejected, err)
	}
	return err
}
