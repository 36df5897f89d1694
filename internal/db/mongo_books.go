package db

import (
	"context"
	"time"

	"github.com/bookshelf/backend/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type bookDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Title         string        `bson:"title"`
	Author        string        `bson:"author"`
	Category      string        `bson:"category"`
	Price         float64       `bson:"price"`
	Rating        float64       `bson:"rating"`
	PublishedDate *time.Time    `bson:"publishedDate,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt"`
}

func (d bookDocument) toModel() model.Book {
	return model.Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		Category:      d.Category,
		Price:         d.Price,
		Rating:        d.Rating,
		PublishedDate: d.PublishedDate,
		CreatedAt:     d.CreatedAt,
	}
}

// bookSetFields builds the $set document for the fields present in in.
func bookSetFields(in model.BookInput) bson.M {
	set := bson.M{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Author != nil {
		set["author"] = *in.Author
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.Rating != nil {
		set["rating"] = *in.Rating
	}
	if in.PublishedDate != nil {
		set["publishedDate"] = in.PublishedDate.Time
	}
	return set
}

// bookSortDocument orders by the requested field, then by _id. ObjectIDs grow
// with insertion time, so an unsorted list comes back in creation order.
func bookSortDocument(sort model.BookSort) bson.D {
	byID := bson.E{Key: "_id", Value: 1}
	if sort.Field == model.SortNone {
		return bson.D{byID}
	}
	dir := 1
	if sort.Desc {
		dir = -1
	}
	return bson.D{{Key: string(sort.Field), Value: dir}, byID}
}

func (m *Mongo) ListBooks(ctx context.Context, sort model.BookSort) ([]model.Book, error) {
	opts := options.Find().SetSort(bookSortDocument(sort))

	cursor, err := m.books.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	books := make([]model.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toModel())
	}
	return books, nil
}

func (m *Mongo) GetBook(ctx context.Context, id string) (*model.Book, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc bookDocument
	if err := m.books.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	b := doc.toModel()
	return &b, nil
}

func (m *Mongo) CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error) {
	var b model.Book
	in.Apply(&b)

	doc := bookDocument{
		ID:            bson.NewObjectID(),
		Title:         b.Title,
		Author:        b.Author,
		Category:      b.Category,
		Price:         b.Price,
		Rating:        b.Rating,
		PublishedDate: b.PublishedDate,
		CreatedAt:     mongoNow(),
	}
	if _, err := m.books.InsertOne(ctx, doc); err != nil {
		return nil, mongoError(err)
	}
	created := doc.toModel()
	return &created, nil
}

func (m *Mongo) UpdateBook(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	set := bookSetFields(in)
	if len(set) == 0 {
		return m.GetBook(ctx, id)
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc bookDocument
	err = m.books.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mongoError(err)
	}
	b := doc.toModel()
	return &b, nil
}

func (m *Mongo) DeleteBook(ctx context.Context, id string) (*model.Book, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc bookDocument
	if err := m.books.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	b := doc.toModel()
	return &b, nil
}
