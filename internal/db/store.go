package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookshelf/backend/internal/config"
	"github.com/bookshelf/backend/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no record, including when
	// the id cannot be parsed by the backend.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the persistence contract shared by every backend.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error)

	ListBooks(ctx context.Context, sort model.BookSort) ([]model.Book, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, in model.BookInput) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) (*model.Book, error)

	Close(ctx context.Context) error
}

// Open connects the backend named by cfg.Store.Driver and prepares its schema.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "mongo", "mongodb":
		return NewMongo(ctx, cfg.Mongo)
	case "postgres":
		dsn, err := BuildPostgresURL(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, dsn); err != nil {
			return nil, err
		}
		pool, err := NewPostgresPool(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &Postgres{Pool: pool}, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
