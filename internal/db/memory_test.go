package db

import (
	"context"
	"testing"

	"github.com/bookshelf/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created, err := m.CreateUser(ctx, "a@x.com", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = m.CreateUser(ctx, "a@x.com", "other")
	assert.ErrorIs(t, err, ErrDuplicate)

	byEmail, err := m.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := m.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	_, err = m.GetUserByEmail(ctx, "b@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBooksCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	b, err := m.CreateBook(ctx, model.BookInput{Title: ptr("Dune"), Price: ptr(10.0)})
	require.NoError(t, err)

	got, err := m.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	updated, err := m.UpdateBook(ctx, b.ID, model.BookInput{Rating: ptr(4.5)})
	require.NoError(t, err)
	assert.Equal(t, "Dune", updated.Title)
	assert.Equal(t, 4.5, updated.Rating)

	deleted, err := m.DeleteBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, deleted.ID)

	_, err = m.GetBook(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.UpdateBook(ctx, b.ID, model.BookInput{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.DeleteBook(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListBooksSort(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, in := range []model.BookInput{
		{Title: ptr("b"), Price: ptr(20.0), Rating: ptr(3.0)},
		{Title: ptr("a"), Price: ptr(5.0), Rating: ptr(5.0)},
		{Title: ptr("c"), Price: ptr(12.0), Rating: ptr(1.0)},
	} {
		_, err := m.CreateBook(ctx, in)
		require.NoError(t, err)
	}

	titles := func(books []model.Book) []string {
		out := make([]string, 0, len(books))
		for _, b := range books {
			out = append(out, b.Title)
		}
		return out
	}

	tests := []struct {
		name string
		sort model.BookSort
		want []string
	}{
		{name: "insertion-order", sort: model.BookSort{}, want: []string{"b", "a", "c"}},
		{name: "price-asc", sort: model.BookSort{Field: model.SortPrice}, want: []string{"a", "c", "b"}},
		{name: "price-desc", sort: model.BookSort{Field: model.SortPrice, Desc: true}, want: []string{"b", "c", "a"}},
		{name: "rating-desc", sort: model.BookSort{Field: model.SortRating, Desc: true}, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := m.ListBooks(ctx, tt.sort)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(books))
		})
	}
}

func TestMemoryListBooksEmpty(t *testing.T) {
	books, err := NewMemory().ListBooks(context.Background(), model.BookSort{})
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}
