package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/books-api/cmd/api/book"
)

const bookCreatedTopic = "/New_book_created"

type Ntfy struct {
	baseURL string
	enabled bool
	client  *http.Client
}

func NewNtfy(enableNotifications bool, notificationsBaseURL string, client *http.Client) *Ntfy {
	return &Ntfy{
		baseURL: strings.TrimRight(notificationsBaseURL, "/"),
		enabled: enableNotifications,
		client:  client,
	}
}

/* Publishes the creation of a book to the ntfy topic. Does nothing when notifications are disabled. */
func (ntf *Ntfy) BookCreated(ctx context.Context, title, author string) error {
	if !ntf.enabled {
		return nil
	}

	topic := ntf.baseURL + bookCreatedTopic
	message := fmt.Sprintf("New book created:\nTitle: %s\nAuthor: %s", title, author)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, topic, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("delivering message to topic (%s): %w", topic, err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := ntf.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering message to topic (%s): %w", topic, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delivering message to topic (%s): %w", topic, book.NewErrNotificationFailed(resp.StatusCode))
	}
	return nil
}
