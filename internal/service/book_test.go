package service

import (
	"context"
	"testing"

	"github.com/bookshelf/backend/internal/db"
	"github.com/bookshelf/backend/internal/logger"
	"github.com/bookshelf/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookServiceNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(db.NewMemory(), logger.Discard())

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
	_, err = svc.Update(ctx, "missing", model.BookInput{})
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrBookNotFound)
}

func TestBookServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(db.NewMemory(), logger.Discard())

	title := "Dune"
	created, err := svc.Create(ctx, model.BookInput{Title: &title})
	require.NoError(t, err)

	books, err := svc.List(ctx, model.BookSort{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, created.ID, books[0].ID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	books, err = svc.List(ctx, model.BookSort{})
	require.NoError(t, err)
	assert.Empty(t, books)
}
