package service

import (
	"context"
	"errors"

	"github.com/bookshelf/backend/internal/db"
	"github.com/bookshelf/backend/internal/model"
	"github.com/sirupsen/logrus"
)

var ErrBookNotFound = errors.New("book not found")

type BookRepo interface {
	ListBooks(ctx context.Context, sort model.BookSort) ([]model.Book, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, in model.BookInput) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) (*model.Book, error)
}

type BookService struct {
	repo BookRepo
	log  logrus.FieldLogger
}

func NewBookService(repo BookRepo, log logrus.FieldLogger) *BookService {
	return &BookService{repo: repo, log: log}
}

func (s *BookService) List(ctx context.Context, sort model.BookSort) ([]model.Book, error) {
	books, err := s.repo.ListBooks(ctx, sort)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"sort_by": sort.Field,
		"desc":    sort.Desc,
		"count":   len(books),
	}).Debug("listed books")
	return books, nil
}

func (s *BookService) Get(ctx context.Context, id string) (*model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	return book, notFound(err)
}

func (s *BookService) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	book, err := s.repo.CreateBook(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"book_id": book.ID, "title": book.Title}).Info("book created")
	return book, nil
}

func (s *BookService) Update(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	book, err := s.repo.UpdateBook(ctx, id, in)
	if err != nil {
		return nil, notFound(err)
	}
	s.log.WithFields(logrus.Fields{"book_id": book.ID, "title": book.Title}).Info("book updated")
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	book, err := s.repo.DeleteBook(ctx, id)
	if err != nil {
		return notFound(err)
	}
	s.log.WithFields(logrus.Fields{"book_id": book.ID, "title": book.Title}).Info("book deleted")
	return nil
}

func notFound(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrBookNotFound
	}
	return err
}
