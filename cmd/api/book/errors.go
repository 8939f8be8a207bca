package book

import (
	"errors"
	"fmt"
)

type ErrResponse struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
}

func (e ErrResponse) Error() string {
	return e.Message
}

var ErrResponseBookEntryBlankFields = ErrResponse{100, "all the fields - title, author, price, pages and is_published - must be filled correctly."}
var ErrResponseEntryInvalidJSON = ErrResponse{102, "invalid json request."}
var ErrResponseEntryContentType = ErrResponse{103, "content type must be application/json."}

// ErrStatementRejected marks an error reported by the database itself
// (constraint violation or any other server-side error) as opposed to a
// transport or mapping failure.
var ErrStatementRejected = errors.New("statement rejected by the database")

type ErrNotificationFailed struct {
	statusCode int
}

func (e ErrNotificationFailed) Error() string {
	return fmt.Sprintf("ntfy wrong response - want: 2xx, got: %d", e.statusCode)
}

func NewErrNotificationFailed(statusCode int) ErrNotificationFailed {
	return ErrNotificationFailed{statusCode: statusCode}
}
