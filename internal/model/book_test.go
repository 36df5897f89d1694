package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookSort(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		order  string
		want   BookSort
	}{
		{name: "price-asc", sortBy: "price", order: "asc", want: BookSort{Field: SortPrice}},
		{name: "rating-desc", sortBy: "rating", order: "desc", want: BookSort{Field: SortRating, Desc: true}},
		{name: "order-defaults-asc", sortBy: "price", order: "sideways", want: BookSort{Field: SortPrice}},
		{name: "unknown-field", sortBy: "title", order: "desc", want: BookSort{Desc: true}},
		{name: "empty", want: BookSort{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBookSort(tt.sortBy, tt.order))
		})
	}
}

func TestBookInputApply(t *testing.T) {
	var in BookInput
	require.NoError(t, json.Unmarshal([]byte(`{"price":12.5,"publishedDate":"2020-03-01"}`), &in))

	b := Book{Title: "Dune", Price: 10}
	in.Apply(&b)

	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 12.5, b.Price)
	require.NotNil(t, b.PublishedDate)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), *b.PublishedDate)
}

func TestDateUnmarshalRFC3339(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2021-06-15T10:00:00Z"`), &d))
	assert.Equal(t, 2021, d.Year())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}

func TestUserResponseHasNoPassword(t *testing.T) {
	u := &User{ID: "1", Email: "a@x.com", PasswordHash: "hash"}
	raw, err := json.Marshal(NewUserResponse(u))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "password")
}
