package db

import (
	"context"

	"github.com/bookshelf/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookColumns = `id::text, title, author, category, price, rating, published_date, created_at`

func bookOrderBy(sort model.BookSort) string {
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	switch sort.Field {
	case model.SortPrice:
		return "ORDER BY price " + dir + ", created_at ASC"
	case model.SortRating:
		return "ORDER BY rating " + dir + ", created_at ASC"
	default:
		return "ORDER BY created_at ASC"
	}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Category,
		&b.Price,
		&b.Rating,
		&b.PublishedDate,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, pgError(err)
	}
	return &b, nil
}

func (db *Postgres) ListBooks(ctx context.Context, sort model.BookSort) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ` + bookOrderBy(sort)

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (db *Postgres) GetBook(ctx context.Context, id string) (*model.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	return scanBook(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error) {
	var b model.Book
	in.Apply(&b)

	query := `
		INSERT INTO books (id, title, author, category, price, rating, published_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING ` + bookColumns
	return scanBook(db.Pool.QueryRow(ctx, query,
		uuid.NewString(), b.Title, b.Author, b.Category, b.Price, b.Rating, b.PublishedDate,
	))
}

func (db *Postgres) UpdateBook(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	current, err := scanBook(tx.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	in.Apply(current)

	updated, err := scanBook(tx.QueryRow(ctx, `
		UPDATE books
		SET title = $2, author = $3, category = $4, price = $5, rating = $6, published_date = $7
		WHERE id = $1
		RETURNING `+bookColumns,
		id, current.Title, current.Author, current.Category, current.Price, current.Rating, current.PublishedDate,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (db *Postgres) DeleteBook(ctx context.Context, id string) (*model.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `DELETE FROM books WHERE id = $1 RETURNING ` + bookColumns
	return scanBook(db.Pool.QueryRow(ctx, query, id))
}
