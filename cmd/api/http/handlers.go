package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/books-api/cmd/api/book"
	"go.uber.org/zap"
)

const (
	maxEntryBytes = 32 << 10

	duplicateTitleMessage = "Book with the same title already exists"
)

var errTrailingData = errors.New("unexpected data after the json object")

type BookHandler struct {
	bookService book.ServiceAPI
	logger      *zap.Logger
}

func NewBookHandler(bookService book.ServiceAPI, logger *zap.Logger) *BookHandler {
	return &BookHandler{bookService: bookService, logger: logger}
}

/* Addresses a call to "/books" according to the requested action.  */
func (h *BookHandler) books(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	switch method {
	case http.MethodGet:
		h.listBooks(w, r)
		return
	case http.MethodPost:
		h.createBook(w, r)
		return
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

type BookEntry struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Price       *int32  `json:"price"`
	Pages       *int32  `json:"pages"`
	IsPublished *bool   `json:"is_published"`
}

/* Validates the entry, then stores the entry as a new book. */
func (h *BookHandler) createBook(w http.ResponseWriter, r *http.Request) {
	if !isJSONContent(r) {
		responseJSON(w, http.StatusBadRequest, book.ErrResponseEntryContentType)
		return
	}

	var bookEntry BookEntry
	err := decodeEntry(http.MaxBytesReader(w, r.Body, maxEntryBytes), &bookEntry) //Read the Json body and save the entry to bookEntry
	if err != nil {
		errR := book.ErrResponse{
			Code:    book.ErrResponseEntryInvalidJSON.Code,
			Message: book.ErrResponseEntryInvalidJSON.Message + " " + err.Error(),
		}
		responseJSON(w, http.StatusBadRequest, errR)
		return
	}

	err = FilledFields(bookEntry) //Verify if all entry fields are filled.
	if err != nil {
		responseJSON(w, http.StatusBadRequest, err)
		return
	}

	storedBook, err := h.bookService.CreateBook(r.Context(), entryToNewBook(bookEntry))
	if err != nil {
		h.logger.Error("creating book", zap.String("request.id", requestIDFrom(r.Context())), zap.Error(err))
		status, body := createBookFailure(err)
		responseText(w, status, body)
		return
	}

	responseJSON(w, http.StatusCreated, bookToResponse(storedBook))
}

/* Decodes exactly one JSON value, anything but whitespace after it is an error. */
func decodeEntry(body io.Reader, entry *BookEntry) error {
	dec := json.NewDecoder(body)
	err := dec.Decode(entry)
	if err != nil {
		return err
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errTrailingData
	}
	return nil
}

// createBookFailure is the one place where storage errors on insert become
// client responses. Every statement the database rejects is answered as a
// duplicate title, whatever constraint or server error caused it.
func createBookFailure(err error) (status int, body string) {
	if errors.Is(err, book.ErrStatementRejected) {
		return http.StatusBadRequest, duplicateTitleMessage
	}
	return http.StatusInternalServerError, ""
}

/* Returns a list of the stored books. */
func (h *BookHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.ListBooks(r.Context())
	if err != nil {
		h.logger.Error("listing books", zap.String("request.id", requestIDFrom(r.Context())), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	results := make([]BookResponse, 0, len(books))
	for _, b := range books {
		results = append(results, bookToResponse(b))
	}
	responseJSON(w, http.StatusOK, results)
}

/* Verifies if all entry fields are filled and returns a warning message if so. */
func FilledFields(bookEntry BookEntry) error {
	if bookEntry.Title == nil || bookEntry.Author == nil {
		return book.ErrResponseBookEntryBlankFields
	}
	if bookEntry.Price == nil || bookEntry.Pages == nil {
		return book.ErrResponseBookEntryBlankFields
	}
	if bookEntry.IsPublished == nil {
		return book.ErrResponseBookEntryBlankFields
	}

	return nil
}

/* Converts a filled BookEntry to the NewBook type, with no json tags. */
func entryToNewBook(b BookEntry) book.NewBook {
	return book.NewBook{
		Title:       *b.Title,
		Author:      *b.Author,
		Price:       *b.Price,
		Pages:       *b.Pages,
		IsPublished: *b.IsPublished,
	}
}

type BookResponse struct {
	ID          int32  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Price       int32  `json:"price"`
	Pages       int32  `json:"pages"`
	IsPublished bool   `json:"is_published"`
}

/*Copy the fields of a book object to an http layer struct with json tags*/
func bookToResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		Pages:       b.Pages,
		IsPublished: b.IsPublished,
	}
}

func isJSONContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

/*Writes a JSON response into a http.ResponseWriter. */
func responseJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

/*Writes a plain text response, an empty body only sets the status. */
func responseText(w http.ResponseWriter, status int, body string) {
	if body == "" {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
