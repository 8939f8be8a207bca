package book

type Book struct {
	ID          int32
	Title       string
	Author      string
	Price       int32
	Pages       int32
	IsPublished bool
}

/* A book that was not stored yet, so it has no ID. */
type NewBook struct {
	Title       string
	Author      string
	Price       int32
	Pages       int32
	IsPublished bool
}

/* Builds the stored book from the ID assigned by the repository and the fields that were sent. */
func (nb NewBook) WithID(id int32) Book {
	return Book{
		ID:          id,
		Title:       nb.Title,
		Author:      nb.Author,
		Price:       nb.Price,
		Pages:       nb.Pages,
		IsPublished: nb.IsPublished,
	}
}
