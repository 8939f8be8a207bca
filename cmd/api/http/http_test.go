package http_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/books-api/cmd/api/book"
	bookmock "github.com/books-api/cmd/api/book/mocks"
	bookhttp "github.com/books-api/cmd/api/http"
	"github.com/matryer/is"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*http.Server, *bookmock.MockServiceAPI) {
	ctrl := gomock.NewController(t)
	mockAPI := bookmock.NewMockServiceAPI(ctrl)
	bookHandler := bookhttp.NewBookHandler(mockAPI, zap.NewNop())
	server := bookhttp.NewServer(bookhttp.ServerConfig{Host: "127.0.0.1", Port: 8080}, bookHandler, zap.NewNop())
	return server, mockAPI
}

func postBook(body string) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	return request
}

func TestCreateBook(t *testing.T) {
	server, mockAPI := newTestServer(t)

	bookToCreate := `{
		"title": "HTTP tester book",
		"author": "Tester",
		"price": 100,
		"pages": 99,
		"is_published": true
	}`
	reqBook := book.NewBook{
		Title:       "HTTP tester book",
		Author:      "Tester",
		Price:       100,
		Pages:       99,
		IsPublished: true,
	}

	t.Run("creates a book without errors", func(t *testing.T) {
		is := is.New(t)

		expectedJSONresponse := `{"id":42,"title":"HTTP tester book","author":"Tester","price":100,"pages":99,"is_published":true}` + "\n"

		request := postBook(bookToCreate)
		response := httptest.NewRecorder()

		mockAPI.EXPECT().CreateBook(gomock.Any(), reqBook).Return(reqBook.WithID(42), nil)

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusCreated)
		is.Equal(response.Result().Header.Get("Content-Type"), "application/json")
		is.Equal(string(body), expectedJSONresponse)
	})

	t.Run("rejected statement answers duplicate title", func(t *testing.T) {
		is := is.New(t)

		request := postBook(bookToCreate)
		response := httptest.NewRecorder()

		mockAPI.EXPECT().CreateBook(gomock.Any(), reqBook).Return(book.Book{}, fmt.Errorf("creating book: %w", book.ErrStatementRejected))

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusBadRequest)
		is.Equal(string(body), "Book with the same title already exists")
	})

	t.Run("any other storage error is an internal error with empty body", func(t *testing.T) {
		is := is.New(t)

		request := postBook(bookToCreate)
		response := httptest.NewRecorder()

		mockAPI.EXPECT().CreateBook(gomock.Any(), reqBook).Return(book.Book{}, errors.New("sql: no rows in result set"))

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusInternalServerError)
		is.Equal(len(body), 0)
	})

	t.Run("expected invalid json error", func(t *testing.T) {
		is := is.New(t)

		invalidBookToCreate := `{
				"title": "test with missing coma after price",
				"price": 100
				"pages": 99
			}`
		expectedJSONresponse := fmt.Sprintln(`{"error_code":102,"error_message":"invalid json request. invalid character '\"' after object key:value pair"}`)

		request := postBook(invalidBookToCreate)
		response := httptest.NewRecorder()

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusBadRequest)
		is.Equal(string(body), expectedJSONresponse)
	})

	t.Run("expected invalid json error on data after the object", func(t *testing.T) {
		is := is.New(t)

		expectedJSONresponse := fmt.Sprintln(`{"error_code":102,"error_message":"invalid json request. unexpected data after the json object"}`)

		for _, entry := range []string{
			bookToCreate + " garbage",
			bookToCreate + bookToCreate,
		} {
			request := postBook(entry)
			response := httptest.NewRecorder()

			server.Handler.ServeHTTP(response, request)

			body, _ := io.ReadAll(response.Result().Body)

			is.Equal(response.Result().StatusCode, http.StatusBadRequest)
			is.Equal(string(body), expectedJSONresponse)
		}
	})

	t.Run("accepts whitespace after the object", func(t *testing.T) {
		is := is.New(t)

		request := postBook(bookToCreate + "\n\t ")
		response := httptest.NewRecorder()

		mockAPI.EXPECT().CreateBook(gomock.Any(), reqBook).Return(reqBook.WithID(2), nil)

		server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, http.StatusCreated)
	})

	t.Run("expected invalid json error on mistyped field", func(t *testing.T) {
		is := is.New(t)

		mistyped := `{"title": "t", "author": "a", "price": "cheap", "pages": 1, "is_published": true}`

		request := postBook(mistyped)
		response := httptest.NewRecorder()

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusBadRequest)
		is.True(strings.Contains(string(body), `"error_code":102`))
	})

	t.Run("expected invalid json error on fractional or out of range numbers", func(t *testing.T) {
		is := is.New(t)

		for _, entry := range []string{
			`{"title": "t", "author": "a", "price": 10.5, "pages": 1, "is_published": true}`,
			`{"title": "t", "author": "a", "price": 1, "pages": 2147483648, "is_published": true}`,
		} {
			request := postBook(entry)
			response := httptest.NewRecorder()

			server.Handler.ServeHTTP(response, request)

			is.Equal(response.Result().StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("expected blank fields error", func(t *testing.T) {
		is := is.New(t)

		invalidBookToCreate := `{
			"title": "test with missing price",
			"author": "Tester",
			"pages": 99,
			"is_published": false
		}`
		expectedJSONresponse := fmt.Sprintln(`{"error_code":100,"error_message":"all the fields - title, author, price, pages and is_published - must be filled correctly."}`)

		request := postBook(invalidBookToCreate)
		response := httptest.NewRecorder()

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusBadRequest)
		is.Equal(string(body), expectedJSONresponse)
	})

	t.Run("expected content type error", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(bookToCreate))
		request.Header.Set("Content-Type", "text/plain")
		response := httptest.NewRecorder()

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusBadRequest)
		is.Equal(string(body), fmt.Sprintln(`{"error_code":103,"error_message":"content type must be application/json."}`))
	})

	t.Run("accepts json content type with parameters", func(t *testing.T) {
		is := is.New(t)

		request := postBook(bookToCreate)
		request.Header.Set("Content-Type", "application/json; charset=utf-8")
		response := httptest.NewRecorder()

		mockAPI.EXPECT().CreateBook(gomock.Any(), reqBook).Return(reqBook.WithID(1), nil)

		server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, http.StatusCreated)
	})
}

func TestListBooks(t *testing.T) {
	server, mockAPI := newTestServer(t)

	t.Run("lists books without errors", func(t *testing.T) {
		is := is.New(t)

		stored := []book.Book{
			{ID: 1, Title: "Dune", Author: "Frank Herbert", Price: 1999, Pages: 412, IsPublished: true},
			{ID: 2, Title: "Draft", Author: "Nobody", Price: 0, Pages: -3, IsPublished: false},
		}
		expectedJSONresponse := `[{"id":1,"title":"Dune","author":"Frank Herbert","price":1999,"pages":412,"is_published":true},` +
			`{"id":2,"title":"Draft","author":"Nobody","price":0,"pages":-3,"is_published":false}]` + "\n"

		request, _ := http.NewRequest(http.MethodGet, "/books", nil)
		response := httptest.NewRecorder()

		mockAPI.EXPECT().ListBooks(gomock.Any()).Return(stored, nil)

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusOK)
		is.Equal(string(body), expectedJSONresponse)
	})

	t.Run("empty list is an empty json array", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodGet, "/books", nil)
		response := httptest.NewRecorder()

		mockAPI.EXPECT().ListBooks(gomock.Any()).Return([]book.Book{}, nil)

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusOK)
		is.Equal(string(body), "[]\n")
	})

	t.Run("storage error is an internal error with empty body", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodGet, "/books", nil)
		response := httptest.NewRecorder()

		mockAPI.EXPECT().ListBooks(gomock.Any()).Return(nil, errors.New("driver: bad connection"))

		server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, http.StatusInternalServerError)
		is.Equal(len(body), 0)
	})
}

func TestRouting(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("unsupported method on books", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodDelete, "/books", nil)
		response := httptest.NewRecorder()

		server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, http.StatusMethodNotAllowed)
		is.Equal(response.Result().Header.Get("Allow"), "GET, POST")
	})

	t.Run("ping answers no content", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		response := httptest.NewRecorder()

		server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, http.StatusNoContent)
	})

	t.Run("request id is generated or propagated", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		response := httptest.NewRecorder()
		server.Handler.ServeHTTP(response, request)
		is.True(response.Result().Header.Get("X-Request-Id") != "")

		request, _ = http.NewRequest(http.MethodGet, "/ping", nil)
		request.Header.Set("X-Request-Id", "abc-123")
		response = httptest.NewRecorder()
		server.Handler.ServeHTTP(response, request)
		is.Equal(response.Result().Header.Get("X-Request-Id"), "abc-123")
	})

	t.Run("server binds the configured address", func(t *testing.T) {
		is := is.New(t)
		is.Equal(server.Addr, "127.0.0.1:8080")
	})
}
