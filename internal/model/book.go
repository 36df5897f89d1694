package model

import (
	"encoding/json"
	"strings"
	"time"
)

type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Category      string     `json:"category"`
	Price         float64    `json:"price"`
	Rating        float64    `json:"rating"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// BookInput carries the fields a client may set. Nil fields are left untouched
// on update and zero on create.
type BookInput struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	Rating        *float64 `json:"rating"`
	PublishedDate *Date    `json:"publishedDate"`
}

// Apply copies the non-nil fields of in onto b.
func (in BookInput) Apply(b *Book) {
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Category != nil {
		b.Category = *in.Category
	}
	if in.Price != nil {
		b.Price = *in.Price
	}
	if in.Rating != nil {
		b.Rating = *in.Rating
	}
	if in.PublishedDate != nil {
		t := in.PublishedDate.Time
		b.PublishedDate = &t
	}
}

type SortField string

const (
	SortNone   SortField = ""
	SortPrice  SortField = "price"
	SortRating SortField = "rating"
)

type BookSort struct {
	Field SortField
	Desc  bool
}

// ParseBookSort reads the sortBy/order query values. Unknown sortBy values mean
// no sorting; any order other than "desc" is ascending.
func ParseBookSort(sortBy, order string) BookSort {
	s := BookSort{Desc: order == "desc"}
	switch SortField(sortBy) {
	case SortPrice, SortRating:
		s.Field = SortField(sortBy)
	}
	return s
}

// Date accepts either a calendar date (2006-01-02) or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
