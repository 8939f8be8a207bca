package inmemory

import (
	"context"
	"fmt"
	"sort"

	"github.com/books-api/cmd/api/book"
	"github.com/hashicorp/go-memdb"
)

type InMemoryStore struct {
	db *memdb.MemDB
	// lastID is only touched inside a write transaction, memdb allows one writer at a time.
	lastID int32
}

func NewInMemoryStore() (*InMemoryStore, error) {
	// Define the schema
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"books": {
				Name: "books",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
					"title": {
						Name:    "title",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "TitleKey"},
					},
				},
			},
		},
	}

	err := schema.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating in-memory schema: %w", err)
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return &InMemoryStore{db: db}, nil
}

// AdaptedBook is the stored form of a book. StringFieldIndex skips empty
// strings, so titles are indexed through a prefixed key that is never empty.
type AdaptedBook struct {
	ID          int32
	TitleKey    string
	Title       string
	Author      string
	Price       int32
	Pages       int32
	IsPublished bool
}

func titleKey(title string) string {
	return "title:" + title
}

func adaptBook(b book.Book) AdaptedBook {
	return AdaptedBook{
		ID:          b.ID,
		TitleKey:    titleKey(b.Title),
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		Pages:       b.Pages,
		IsPublished: b.IsPublished,
	}
}

func (a AdaptedBook) toBook() book.Book {
	return book.Book{
		ID:          a.ID,
		Title:       a.Title,
		Author:      a.Author,
		Price:       a.Price,
		Pages:       a.Pages,
		IsPublished: a.IsPublished,
	}
}

func (store *InMemoryStore) ListBooks(ctx context.Context) ([]book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("books", "id")
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}

	books := []book.Book{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		books = append(books, obj.(AdaptedBook).toBook())
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})
	return books, nil
}

/* Stores the book with the next sequential ID. A taken title is reported the way postgres reports its unique constraint. */
func (store *InMemoryStore) CreateBook(ctx context.Context, newBook book.NewBook) (int32, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("storing book on db: %w", err)
	}

	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("books", "title", titleKey(newBook.Title))
	if err != nil {
		return 0, fmt.Errorf("storing book on db: %w", err)
	}
	if raw != nil {
		return 0, fmt.Errorf("storing book on db: %w: title %q already taken", book.ErrStatementRejected, newBook.Title)
	}

	created := newBook.WithID(store.lastID + 1)
	err = txn.Insert("books", adaptBook(created))
	if err != nil {
		return 0, fmt.Errorf("storing book on db: %w", err)
	}

	store.lastID = created.ID
	txn.Commit()
	return created.ID, nil
}
