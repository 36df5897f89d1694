package db

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bookshelf/backend/internal/model"
	"github.com/google/uuid"
)

// Memory is a process-local Store for development and tests.
type Memory struct {
	mu      sync.RWMutex
	users   map[string]model.User
	byEmail map[string]string
	books   []model.Book
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]model.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := m.users[id]
	return &user, nil
}

func (m *Memory) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[email]; ok {
		return nil, ErrDuplicate
	}
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    m.now().UTC(),
	}
	m.users[user.ID] = user
	m.byEmail[email] = user.ID
	return &user, nil
}

func (m *Memory) ListBooks(ctx context.Context, sort model.BookSort) ([]model.Book, error) {
	m.mu.RLock()
	books := slices.Clone(m.books)
	m.mu.RUnlock()

	if books == nil {
		books = []model.Book{}
	}

	var key func(model.Book) float64
	switch sort.Field {
	case model.SortPrice:
		key = func(b model.Book) float64 { return b.Price }
	case model.SortRating:
		key = func(b model.Book) float64 { return b.Rating }
	default:
		return books, nil
	}

	slices.SortStableFunc(books, func(a, b model.Book) int {
		if sort.Desc {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	})
	return books, nil
}

func (m *Memory) GetBook(ctx context.Context, id string) (*model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.bookIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	b := m.books[i]
	return &b, nil
}

func (m *Memory) CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := model.Book{ID: uuid.NewString(), CreatedAt: m.now().UTC()}
	in.Apply(&b)
	m.books = append(m.books, b)
	return &b, nil
}

func (m *Memory) UpdateBook(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.bookIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	in.Apply(&m.books[i])
	b := m.books[i]
	return &b, nil
}

func (m *Memory) DeleteBook(ctx context.Context, id string) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.bookIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	b := m.books[i]
	m.books = slices.Delete(m.books, i, i+1)
	return &b, nil
}

func (m *Memory) bookIndex(id string) int {
	return slices.IndexFunc(m.books, func(b model.Book) bool { return b.ID == id })
}
