package book

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

type ServiceAPI interface {
	ListBooks(ctx context.Context) ([]Book, error)
	CreateBook(ctx context.Context, newBook NewBook) (Book, error)
}

type Repository interface {
	ListBooks(ctx context.Context) ([]Book, error)
	CreateBook(ctx context.Context, newBook NewBook) (int32, error)
}

type Notifier interface {
	BookCreated(ctx context.Context, title, author string) error
}

type Service struct {
	repo                 Repository
	notifier             Notifier
	notificationsTimeout time.Duration
	logger               *zap.Logger
}

/* The notifier is optional, a nil one turns the announcements off. */
func NewService(repo Repository, notifier Notifier, notificationsTimeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:                 repo,
		notifier:             notifier,
		notificationsTimeout: notificationsTimeout,
		logger:               logger,
	}
}

func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

/* Stores the new book and returns it with the ID given by the repository. */
func (s *Service) CreateBook(ctx context.Context, newBook NewBook) (Book, error) {
	id, err := s.repo.CreateBook(ctx, newBook)
	if err != nil {
		return Book{}, fmt.Errorf("creating book: %w", err)
	}

	created := newBook.WithID(id)
	s.announce(created)
	return created, nil
}

func (s *Service) announce(b Book) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notificationsTimeout)
		defer cancel()
		err := s.notifier.BookCreated(ctx, b.Title, b.Author)
		if err != nil {
			s.logger.Warn("book created notification failed", zap.Int32("book.id", b.ID), zap.Error(err))
		}
	}()
}
